// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package source

import "sort"

// A Source identifies one upstream location a client can fetch data
// from.
//
// A Source is a plain value: constructing one performs no validation
// and no I/O. The zero value is usable but not useful, since it has no
// URL to fetch. Sources fed to the same FetchAll call should carry
// unique names, as the name is the only key linking a Result back to
// the Source that produced it.
type Source struct {
	// Name is the short identifier for the source. It is copied onto
	// every Result and Execution produced for the source, and is the
	// natural key for logs and metrics.
	Name string

	// URL specifies the location to fetch. It is passed through to the
	// fetch capability untouched; the capability owns URL syntax and
	// scheme support.
	URL string

	// Priority orders results after a multi-source fetch. Higher means
	// more important. Priority has no effect on scheduling: every
	// source is fetched with the same urgency, and priority is applied
	// only when the collected results are sorted.
	Priority int
}

// A Result is the terminal outcome of fetching one source.
//
// Exactly one Result is produced per source per fetch, regardless of
// how many attempts were made along the way. A Result is produced even
// when every attempt failed; only cancellation of the whole fetch
// prevents a Result from being produced.
type Result struct {
	// Source is the name of the source that produced this result.
	Source string

	// Data is the fetched payload. It is empty whenever Success is
	// false: a failed fetch never carries partial data from one of its
	// attempts.
	Data string

	// Success indicates whether any attempt on the source succeeded.
	Success bool

	// Priority is copied from the source, so that a Result remains
	// orderable without a lookup back into the source list.
	Priority int
}

// Succeeded returns the successful Result for src carrying the fetched
// data.
func Succeeded(src Source, data string) Result {
	return Result{
		Source:   src.Name,
		Data:     data,
		Success:  true,
		Priority: src.Priority,
	}
}

// Failed returns the failed Result for src. A failed Result never
// carries data.
func Failed(src Source) Result {
	return Result{
		Source:   src.Name,
		Priority: src.Priority,
	}
}

// SortResults orders results by descending priority, in place. The
// sort is stable: results with equal priority keep their existing
// relative order.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Priority > results[j].Priority
	})
}
