// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package source provides the data types a fetchx client consumes and
// produces: the Source describing where to fetch from, the Result
// describing the terminal outcome of fetching one source, and the
// Execution carrying the in-flight state of a fetch as it advances
// through attempts and retries.
//
// Package source is imported by the policy packages retry and timeout,
// so it deliberately stays free of any dependency besides package
// transient and the standard library.
package source
