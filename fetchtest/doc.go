// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchtest provides fetchers for testing code built on fetchx,
with no network involved.

Script replays an exact per-URL sequence of payloads, errors, and
delays, and counts fetches so tests can assert precisely how many
attempts the client made:

	script := fetchtest.NewScript().
		On("https://a.example.com",
			fetchtest.Step{Err: fetchtest.ConnReset()},
			fetchtest.Step{Data: "hello"})
	client := &fetchx.Client{Fetcher: script}

Flaky fails a seeded-random fraction of fetches with realistic
transient errors, for soak-style tests of the retry engine.

The error constructors return errors of each transience category the
retry policies distinguish.
*/
package fetchtest
