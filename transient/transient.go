// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"
)

// A Category is the transience category of an error encountered while
// fetching from a source, as reported by function Categorize.
//
// The category Not means the error is not transient from the
// perspective of completing a fetch attempt successfully, or in other
// words that a retry after encountering this error is very unlikely to
// succeed. Every other category indicates the error is transient, and
// that a retry has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates the attempt did not finish within its allotted
	// time. The origin may be going through a temporary period of
	// slowness, or a future attempt may succeed if allowed to wait
	// longer.
	//
	// Function Categorize returns Timeout if the error, or any of its
	// wrapped causes, has a Timeout() function that reports true. This
	// covers context.DeadlineExceeded as well as the timeout errors
	// produced by the net package.
	Timeout
	// ConnRefused indicates the origin host refused the connection,
	// and corresponds to the POSIX error code ECONNREFUSED.
	//
	// Although connection refusal may be a permanent condition, it is
	// classified as transient because it also happens while the service
	// on the origin host is starting or restarting. In that case the
	// service is temporarily not listening on its port, but will be
	// once its startup is complete.
	//
	// Function Categorize returns ConnRefused if the error is not a
	// Timeout, and the error or any of its wrapped causes is equal to
	// syscall.ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the origin host reset a previously active
	// connection, and corresponds to the POSIX error code ECONNRESET.
	//
	// A reset is not uncommon if a fetch catches the origin service
	// coming down mid-response, or if an intermediary such as a load
	// balancer drops the connection. For these reasons a connection
	// reset tends to indicate a high probability of success on retry.
	//
	// Function Categorize returns ConnReset if the error is not a
	// Timeout, and the error or any of its wrapped causes is equal to
	// syscall.ECONNRESET.
	ConnReset
)

// Name returns the name of the category. Unknown category values are
// named as Not.
func (c Category) Name() string {
	switch c {
	case Timeout:
		return "Timeout"
	case ConnRefused:
		return "ConnRefused"
	case ConnReset:
		return "ConnReset"
	default:
		return "Not"
	}
}

// String returns the name of the category.
func (c Category) String() string {
	return c.Name()
}

// Categorize returns the transience category of the given error. All
// non-nil transient errors result in a transience category other than
// Not. A nil error, and an error that is not transient from the
// perspective of completing a fetch attempt, both produce the return
// value Not.
//
// In assessing transience, Categorize looks at wrapped cause errors
// contained within err, not just err itself. However, Categorize never
// checks if an error has a Temporary() function that returns true, as
// the semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
