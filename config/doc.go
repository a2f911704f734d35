// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads fetch manifests: YAML files that list the sources
to fetch and the retry, timeout, and concurrency options to fetch them
with.

A manifest looks like:

	attempts: 3
	attempt_timeout: 5s
	backoff_base: 100ms
	concurrency: 8
	sources:
	  - name: billing
	    url: https://billing.internal/api/v1/summary
	    priority: 10
	  - name: audit
	    url: https://audit.internal/api/v1/recent
	    priority: 3

Environment variable references ($VAR or ${VAR}) in the file are
expanded before parsing. Options left out of the manifest take the
package defaults, so the minimal useful manifest is just a source
list.

Use Load or Parse to read a manifest, then Apply to configure a
client:

	cfg, err := config.Load("fetch.yaml")
	if err != nil {
		return err
	}
	client := &fetchx.Client{Fetcher: f}
	cfg.Apply(client)
	results, err := client.FetchAll(ctx, cfg.SourceList())
*/
package config
