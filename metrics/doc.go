// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package metrics connects the fetch lifecycle to Prometheus.

The handler it provides counts attempts by transience class, times
each attempt into a histogram, and counts finished executions by
outcome. Install it on a client in one call:

	client := &fetchx.Client{Fetcher: f}
	metrics.Install(client, prometheus.DefaultRegisterer)

then expose the registry however the application already does, for
example with promhttp.
*/
package metrics
