// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/fetchx/source"
	"github.com/gogama/fetchx/transient"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times and Before, and the built-in
// decider TransientErr; or implement your own Decider. Use DeciderFunc
// to convert an ordinary function into a Decider, and to compose
// deciders logically using DeciderFunc.And and DeciderFunc.Or.
type Decider interface {
	Decide(e *source.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
//
// Simple DeciderFunc functions can be composed into complex decision
// trees using the logical composition functions DeciderFunc.And and
// DeciderFunc.Or. Because of this composition ability, it will often
// be convenient to work directly with DeciderFunc rather than with
// Decider.
type DeciderFunc func(e *source.Execution) bool

// DefaultAttempts is the total number of fetch attempts DefaultPolicy
// will allow on one source, counting the initial attempt.
const DefaultAttempts = 3

// DefaultDecider is a general-purpose retry decider suitable for
// common use cases. It allows up to DefaultAttempts total attempts
// (the initial attempt plus DefaultAttempts-1 retries), and retries
// only transient errors (TransientErr). An error that classifies as
// non-transient ends the fetch on the spot, no matter how many
// attempts remain.
var DefaultDecider = Times(DefaultAttempts - 1).And(TransientErr)

// TransientErr is a decider that indicates a retry if the current
// error is transient according to transient.Categorize. It returns
// false for a nil error and for any error categorized as
// transient.Not.
//
// Compose TransientErr with a budget decider such as Times or Before
// to keep the number of retries bounded.
var TransientErr DeciderFunc = transientErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current fetch execution state.
func (f DeciderFunc) Decide(e *source.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *source.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *source.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the execution attempt index
// e.Attempt is less than n, and false otherwise. Since attempt
// indexes are zero-based, Times(n) allows n+1 total attempts.
func Times(n int) DeciderFunc {
	return func(e *source.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the fetch. The
// returned decider returns true while the execution duration is less
// than d, and false afterward.
func Before(d time.Duration) DeciderFunc {
	return func(e *source.Execution) bool {
		return e.Duration() < d
	}
}

func transientErr(e *source.Execution) bool {
	return transient.Categorize(e.Err) != transient.Not
}
