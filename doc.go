// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx fetches data from prioritized sources concurrently, with
per-attempt timeouts and transient-error retries, within a simple and
pluggable interface.

Create a Client with a Fetcher to begin fetching.

	client := &fetchx.Client{Fetcher: fetcher}
	results, err := client.FetchAll(ctx, []source.Source{
		{Name: "primary", URL: "https://primary.example.com/data", Priority: 10},
		{Name: "backup", URL: "https://backup.example.com/data", Priority: 1},
	})
	...
	ex, err := client.Do(ctx, source.Source{Name: "primary", URL: url, Priority: 10})

The Fetcher owns the mechanics of a single fetch attempt; any function
with the right signature will do:

	fetcher := fetchx.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		..., // Connect, transfer, and interpret transport errors here
	})

For control over the client's retry decisions and timing, create a
custom retry policy using components from package retry:

	retryDecider := retry.Times(4).And(retry.TransientErr)
	retryWaiter := retry.SkipTimeouts(retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, nil))
	client := &fetchx.Client{
		Fetcher:     fetcher,
		RetryPolicy: retry.NewPolicy(retryDecider, retryWaiter),
	}

For control over the client's individual attempt timeouts, set a custom
timeout policy using package timeout:

	client := &fetchx.Client{
		Fetcher:       fetcher,
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

To hook into the fine-grained details of the client's fetch logic,
install a handler into the appropriate handler chain:

	handlers := &fetchx.HandlerGroup{}
	handlers.PushBack(fetchx.BeforeAttempt, fetchx.HandlerFunc(
		func(_ fetchx.Event, e *source.Execution) {
			log.Printf("Attempt %d on %s", e.Attempt, e.Source.Name)
		}),
	)
	client := &fetchx.Client{
		Fetcher:  fetcher,
		Handlers: handlers,
	}

The subpackages logging and metrics provide ready-made handlers that
publish the same events to a zerolog logger and a Prometheus registry.

Package fetchx provides basic interfaces for each method of the client
(Doer and AllFetcher); a combined interface that composes the basic
methods (Executor); and utility functions for working with a Doer
(Inflate and FetchAll).
*/
package fetchx
