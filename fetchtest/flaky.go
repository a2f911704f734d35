// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchtest

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"syscall"
	"time"
)

// A Flaky is a Fetcher that fails a configurable fraction of fetches
// with a connection reset, after sleeping a random duration between
// MinDelay and MaxDelay. It is meant for soak-style tests that
// exercise the retry engine against realistic misbehavior without a
// network.
//
// The zero value never fails, never sleeps, and echoes the fetched
// URL as the payload. A Flaky is safe for concurrent use, and fetch
// outcomes are deterministic for a given Seed and fetch order.
type Flaky struct {
	// ErrorRate is the probability in [0, 1] that any given fetch
	// fails with a connection reset.
	ErrorRate float64
	// MinDelay and MaxDelay bound the random sleep before each fetch
	// resolves. The sleep returns early with the context error if the
	// context is canceled.
	MinDelay time.Duration
	MaxDelay time.Duration
	// Data is the payload successful fetches return. If empty, the
	// fetched URL is returned instead.
	Data string
	// Seed seeds the random source on first use.
	Seed int64

	mu    sync.Mutex
	rand  *rand.Rand
	calls int
}

// Fetch implements fetchx.Fetcher.
func (f *Flaky) Fetch(ctx context.Context, url string) (string, error) {
	delay, fail := f.roll()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}

	if fail {
		return "", fmt.Errorf("fetchtest: flaky fetch of %s: %w", url, syscall.ECONNRESET)
	}
	if f.Data != "" {
		return f.Data, nil
	}
	return url, nil
}

// Calls returns how many fetches have been started.
func (f *Flaky) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Flaky) roll() (delay time.Duration, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rand == nil {
		f.rand = rand.New(rand.NewSource(f.Seed))
	}
	f.calls++
	if f.MaxDelay > f.MinDelay {
		delay = f.MinDelay + time.Duration(f.rand.Int63n(int64(f.MaxDelay-f.MinDelay)))
	} else {
		delay = f.MinDelay
	}
	fail = f.ErrorRate > 0 && f.rand.Float64() < f.ErrorRate
	return
}
