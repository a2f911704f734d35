// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/source"
	"github.com/gogama/fetchx/timeout"
)

// A Fetcher implements a single fetch attempt against a URL. It is the
// low-level transport a Client drives: given a URL, it either returns
// the fetched payload or an error.
//
// Implementations of Fetcher must be safe for concurrent use by
// multiple goroutines, since a Client fetching many sources invokes
// the same Fetcher from many goroutines at once.
//
// A Fetcher should honor cancellation of ctx and return promptly with
// ctx.Err() when ctx ends. Client protects itself against Fetchers
// that ignore ctx, so a stuck Fetcher cannot stall an attempt past its
// timeout, but each stuck call still pins a goroutine until it
// returns.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// The FetcherFunc type is an adapter to allow the use of ordinary
// functions as Fetchers. If f is a function with the appropriate
// signature, then FetcherFunc(f) is a Fetcher that calls f.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

var emptyHandlers = HandlerGroup{}

// A Client is a robust source fetch client with retry support.
//
// A Client must have a Fetcher; every other field may be left at its
// zero value. With only a Fetcher set, the client uses
// retry.DefaultPolicy as the retry policy, timeout.DefaultPolicy as
// the timeout policy, an empty handler group (no event handlers), and
// no cap on fetch concurrency.
//
// Client is safe for concurrent use by multiple goroutines, and
// instances should be reused rather than created per fetch.
//
// A Client is higher-level than a Fetcher. The Fetcher is responsible
// for all details of one fetch attempt: connecting to the source,
// transferring the payload, and interpreting transport errors. On top
// of the attempt mechanics provided by the Fetcher, Client adds the
// following features:
//
// • Client retries failed fetch attempts using a customizable retry
// policy, classifying each failure as transient or not;
//
// • Client sets individual attempt timeouts using a customizable
// timeout policy, and enforces them even against a Fetcher that
// ignores its context;
//
// • Client contains a panic in the Fetcher to the failing attempt, so
// one bad source cannot take down the fetch of its siblings;
//
// • Client invokes user-provided handler functions at designated
// plug-in points within the attempt/retry loop, allowing new features
// to be mixed in from outside libraries; and
//
// • Client implements the fetchx.Executor interface, fetching many
// sources concurrently via FetchAll and collating their results in
// priority order.
type Client struct {
	// Fetcher specifies the mechanics of making a single fetch
	// attempt.
	//
	// Fetcher is required. Client has no meaningful ambient transport
	// to fall back on, so Do and FetchAll panic if Fetcher is nil.
	Fetcher Fetcher
	// RetryPolicy decides when to retry failed attempts and how long
	// to sleep after a failed attempt before retrying.
	//
	// If RetryPolicy is nil, retry.DefaultPolicy is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy specifies how to set timeouts on individual fetch
	// attempts.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a source fetch.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Concurrency caps the number of sources FetchAll will fetch at
	// the same time. If Concurrency is zero or negative, FetchAll runs
	// one goroutine per source with no cap.
	Concurrency int
}

// Do fetches a single source and returns the resulting execution
// state, following the timeout and retry policies set on Client.
//
// The returned Execution is never nil. If the returned error is nil,
// the execution's Result field is non-nil and describes the terminal
// outcome of the fetch: Result.Success is true if some attempt
// returned data, and false if the fetch ran out of attempts or hit a
// non-retryable error. A fetch that fails all of its attempts is not
// an error from Do's perspective; the failure is normalized into the
// Result.
//
// Do returns a non-nil error in exactly one situation: ctx ended
// before the fetch reached a terminal outcome. In that case the error
// is ctx.Err(), the execution's Result field is nil, and no Result
// will ever be produced for the fetch. Cancellation is checked after
// every attempt and during every retry wait, and it takes priority
// over whatever the final attempt produced.
//
// Do makes at most one attempt at a time and never races attempts
// against each other, so the number of Fetcher invocations is exactly
// the number of attempts the retry policy allowed.
func (c *Client) Do(ctx context.Context, src source.Source) (*source.Execution, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := c.fetcher()

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	retryPolicy := c.RetryPolicy
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}

	e := source.Execution{
		Source: src,
		ID:     uuid.NewString(),
	}
	handlers.run(BeforeExecutionStart, &e)
	e.Start = time.Now()

RetryLoop:
	for {
		fetchOnce(ctx, &e, fetcher, handlers, timeoutPolicy)
		if e.Timeout() {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, &e)
		}
		handlers.run(AfterAttempt, &e)
		ctxErr := ctx.Err()
		if ctxErr != nil {
			e.Err = ctxErr
			break
		} else if e.Err == nil {
			r := source.Succeeded(src, e.Data)
			e.Result = &r
			break
		} else if retryPolicy.Decide(&e) {
			wait := retryPolicy.Wait(&e)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				e.Err = ctx.Err()
				break RetryLoop
			}
			e.Attempt++
		} else {
			r := source.Failed(src)
			e.Result = &r
			break
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, &e)
	if e.Result == nil {
		return &e, e.Err
	}
	return &e, nil
}

// fetchOnce makes a single fetch attempt. The timeout policy is
// consulted while the previous attempt's error is still on the
// execution, so that adaptive timeout policies can see what happened;
// only then is the per-attempt state cleared.
func fetchOnce(ctx context.Context, e *source.Execution, fetcher Fetcher, handlers *HandlerGroup, timeoutPolicy timeout.Policy) {
	d := timeoutPolicy.Timeout(e)
	e.Data = ""
	e.Err = nil
	attemptCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	handlers.run(BeforeAttempt, e)
	e.Data, e.Err = invoke(attemptCtx, fetcher, e.Source.URL)
}

// invoke runs one Fetcher call under ctx. The call is made in its own
// goroutine so that a Fetcher which ignores ctx still cannot hold the
// attempt open past the attempt timeout, and a panicking Fetcher is
// converted into an attempt error rather than unwinding the whole
// fetch.
func invoke(ctx context.Context, fetcher Fetcher, url string) (string, error) {
	type outcome struct {
		data string
		err  error
	}

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("fetchx: fetcher panic: %v", r)}
			}
		}()
		data, err := fetcher.Fetch(ctx, url)
		ch <- outcome{data: data, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return "", out.err
		}
		return out.data, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FetchAll fetches every listed source concurrently, using the same
// policies followed by Do, and returns one Result per source sorted by
// descending priority. Results with equal priority keep the relative
// order their sources had in the input.
//
// Per-source failures never fail the whole call: a source whose fetch
// fails is represented by an unsuccessful Result in the returned
// slice. FetchAll returns a non-nil error only when ctx ends before
// all sources finish, in which case the result slice is nil and every
// in-flight fetch has been cancelled.
//
// An empty or nil source list returns an empty slice immediately,
// without starting any goroutines.
//
// If Client.Concurrency is positive, at most that many sources are
// fetched at the same time; otherwise each source gets its own
// goroutine, so the wall-clock time of a FetchAll call tracks the
// slowest source rather than the sum of all sources.
func (c *Client) FetchAll(ctx context.Context, sources []source.Source) ([]source.Result, error) {
	// Surface a missing Fetcher in the caller's goroutine, not inside
	// the fetch group.
	c.fetcher()
	return fetchAll(ctx, c, sources, c.Concurrency)
}

// fetcher returns the client's Fetcher or panics if none is set.
func (c *Client) fetcher() Fetcher {
	if c.Fetcher == nil {
		panic("fetchx: nil fetcher")
	}

	return c.Fetcher
}
