// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package source

import (
	"context"
	"time"

	"github.com/gogama/fetchx/transient"
)

// An Execution represents the state of a single source fetch.
//
// When a source fetch is requested, an Execution is created for it. The
// Execution is updated as the fetch progresses (for example when an
// attempt fails, or when a retry is needed) and is ultimately returned
// as the return value of the fetch.
//
// Timeout and retry policies and event handlers may set values on an
// Execution using its SetValue method and read them back using the
// Value method. However, they should treat the structure's exported
// field values as immutable and leave them unmodified, as the execution
// state is vital to the correct functioning of the fetch logic.
type Execution struct {
	// Source specifies the source being fetched. It is set when the
	// Execution is created and remains constant thereafter.
	Source Source

	// ID uniquely identifies the execution. Concurrent executions of
	// the same source, for example from overlapping FetchAll calls,
	// share a source name but never an ID, so ID is the field to
	// correlate log lines and metric samples on.
	ID string

	// Start is the start time of the fetch. It is assigned a non-zero
	// value when the fetch starts, and this value remains constant
	// thereafter.
	Start time.Time

	// End is the end time of the fetch. It contains the zero value
	// until the fetch ends, when it is set to the current time.
	End time.Time

	// Attempt is the zero-based number of the current fetch attempt.
	// It is set to zero on the initial attempt, one on the first
	// retry, and so on.
	//
	// When the execution has ended, Attempt contains the zero-based
	// number of the last attempt made. An execution that ends after an
	// initial attempt plus two retries has an attempt number of 2.
	Attempt int

	// AttemptTimeouts is the count of the number of times a fetch
	// attempt timed out during the execution.
	//
	// Cancellation of the fetch's own context does not contribute to
	// the attempt timeout counter.
	AttemptTimeouts int

	// Data is the payload returned by the most recent fetch attempt.
	// It is empty if the most recent attempt ended in an error, or if
	// a current attempt is underway, or before the execution starts.
	Data string

	// Err indicates the error received in the most recent fetch
	// attempt. It is nil if the most recent attempt ended without an
	// error, or if a current attempt is underway, or before the
	// execution starts.
	//
	// While an execution is in-flight, Err may fluctuate between nil
	// and various non-nil error values. Once the execution has Ended,
	// Err does not change.
	Err error

	// Result is the terminal outcome of the execution. It is nil while
	// the execution is in-flight, and it remains nil if the execution
	// is cancelled: a cancelled fetch produces no Result, partial or
	// otherwise. On every other path it is set exactly once, right
	// before the execution ends.
	Result *Result

	// data contains arbitrary user data. The fetchx library will not
	// touch this field, and it will typically be nil unless used by
	// event handler writers.
	//
	// Event handlers may interact with this via the Value and SetValue
	// methods.
	data context.Context
}

// Attempts returns the number of fetch attempts begun so far in the
// execution, which is one more than the zero-based Attempt number. It
// returns zero before the first attempt begins.
func (e *Execution) Attempts() int {
	if !e.Started() {
		return 0
	}

	return e.Attempt + 1
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start. The
// return value is thus monotonically increasing over the life of the
// execution, and becomes static when the execution has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Now().Sub(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
//
// If the return value is false, the execution has not started yet. If
// the return value is true, then the execution has started, and Start
// is a non-zero time, indicating the execution start time.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
//
// If the return value is false, the execution is still in-flight. If
// the return value is true, then the execution is over, End is a
// non-zero time, and there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout, whether from the per-attempt deadline or
// from a timeout inside the fetch capability itself.
//
// Note that Timeout may return false even if AttemptTimeouts > 0 (if
// the most recent attempt did not end in a timeout, or a current
// attempt is underway).
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
