// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality, for example logging or metrics.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// source fetch starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only fields that have been set are the source
	// and the execution ID.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual fetch attempt during the execution.
	//
	// When Client fires BeforeAttempt, the execution's Attempt field
	// is the zero-based index of the attempt about to be made, and its
	// Data and Err fields have been cleared of any state left over
	// from the previous attempt.
	BeforeAttempt
	// AfterAttemptTimeout identifies the event that occurs after a
	// fetch attempt failed because of a timeout error.
	//
	// When Client fires AfterAttemptTimeout, the execution's error
	// field is set to the timeout error, and its attempt timeout
	// counter has been incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after a fetch
	// attempt is concluded, regardless of whether it concluded
	// successfully or not.
	//
	// When Client fires AfterAttempt, either the execution's Data
	// field is set to the fetched payload and its Err field is nil, or
	// Data is empty and Err is set to the attempt's error.
	//
	// Note that AfterAttempt always fires on every fetch attempt, and
	// that it runs before the retry policy is consulted for a retry
	// decision.
	AfterAttempt
	// AfterExecutionEnd identifies the event that occurs after the
	// source fetch ends.
	//
	// When Client fires AfterExecutionEnd, the execution's end time is
	// set and its Result field is set to the terminal result, except
	// when the fetch was cut short by cancellation of its context. A
	// cancelled fetch fires AfterExecutionEnd with a nil Result and
	// the context's error in the Err field.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events typed as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// a source fetch by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterAttemptTimeout,
		AfterAttempt,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
