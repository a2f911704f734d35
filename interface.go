// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gogama/fetchx/source"
)

// Doer is the interface that wraps the basic Do method.
//
// Do fetches a single source and returns the final execution state
// (and error, if any). Client implements the Doer interface, and any
// other Doer implementation must behave substantially the same as
// Client.Do: per-source failures are normalized into the execution's
// Result, and a non-nil error is returned only when the fetch was cut
// short by context cancellation.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(ctx context.Context, src source.Source) (*source.Execution, error)
}

// AllFetcher is the interface that wraps the basic FetchAll method.
//
// FetchAll fetches every listed source concurrently and returns one
// Result per source, sorted by descending priority with ties in input
// order. Client implements the AllFetcher interface, and any other
// AllFetcher implementation must behave substantially the same as
// Client.FetchAll.
//
// Any Doer can be used to emulate an AllFetcher via the FetchAll
// function.
type AllFetcher interface {
	FetchAll(ctx context.Context, sources []source.Source) ([]source.Result, error)
}

// Executor is the interface that groups the basic Do and FetchAll
// methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	AllFetcher
}

// FetchAll uses the specified Doer to fetch every listed source
// concurrently, with one goroutine per source, and returns one Result
// per source sorted by descending priority. Results with equal
// priority keep the relative order their sources had in the input.
//
// A source whose fetch fails is represented by an unsuccessful Result;
// sibling sources are unaffected. FetchAll returns a non-nil error
// only when ctx ends before all sources finish, in which case the
// result slice is nil and every in-flight fetch has been cancelled.
//
// An empty or nil source list returns an empty slice immediately,
// without starting any goroutines.
func FetchAll(ctx context.Context, d Doer, sources []source.Source) ([]source.Result, error) {
	return fetchAll(ctx, d, sources, 0)
}

// fetchAll is the fan-out/join shared by the FetchAll function and
// Client.FetchAll. Each source writes its Result to its own index of
// the results slice, so the goroutines share no mutable state, and a
// child returns a non-nil error only on cancellation. The group
// context therefore cancels the siblings exactly when the whole call
// is being abandoned, never because one source failed.
func fetchAll(ctx context.Context, d Doer, sources []source.Source, limit int) ([]source.Result, error) {
	if d == nil {
		panic("fetchx: nil doer")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]source.Result, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			e, err := d.Do(gctx, src)
			if err != nil {
				return err
			}
			results[i] = *e.Result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	source.SortResults(results)
	return results, nil
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that
// only has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("fetchx: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(ctx context.Context, src source.Source) (*source.Execution, error) {
	return i.doer.Do(ctx, src)
}

func (i inflated) FetchAll(ctx context.Context, sources []source.Source) ([]source.Result, error) {
	return FetchAll(ctx, i.doer, sources)
}
