// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchtest

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// A Step is one scripted fetch outcome. If Delay is positive, the
// fetch sleeps for that long first, returning early with the context
// error if the context is canceled mid-sleep. Then the fetch returns
// Data and Err as given.
type Step struct {
	Delay time.Duration
	Data  string
	Err   error
}

// A Script is a Fetcher that replays a fixed sequence of outcomes per
// URL. The first fetch of a URL takes the first scripted step, the
// second fetch the second step, and so on; once the steps run out the
// last step repeats forever. Fetching a URL that has no script is an
// unclassified error.
//
// A Script is safe for concurrent use, and counts the fetches of each
// URL so tests can assert exactly how many attempts a client made.
type Script struct {
	mu    sync.Mutex
	steps map[string][]Step
	calls map[string]int
}

// NewScript constructs an empty Script.
func NewScript() *Script {
	return &Script{
		steps: make(map[string][]Step),
		calls: make(map[string]int),
	}
}

// On appends scripted steps for a URL and returns the Script, so
// scripts for several URLs can be chained:
//
//	s := fetchtest.NewScript().
//		On("https://a.example.com", fetchtest.Step{Err: fetchtest.ConnReset()}, fetchtest.Step{Data: "a"}).
//		On("https://b.example.com", fetchtest.Step{Data: "b"})
func (s *Script) On(url string, steps ...Step) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[url] = append(s.steps[url], steps...)
	return s
}

// Fetch implements fetchx.Fetcher by replaying the script for the
// given URL.
func (s *Script) Fetch(ctx context.Context, url string) (string, error) {
	s.mu.Lock()
	steps := s.steps[url]
	n := s.calls[url]
	s.calls[url] = n + 1
	s.mu.Unlock()

	if len(steps) == 0 {
		return "", fmt.Errorf("fetchtest: no script for %s", url)
	}
	if n >= len(steps) {
		n = len(steps) - 1
	}
	step := steps[n]

	if step.Delay > 0 {
		timer := time.NewTimer(step.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}

	return step.Data, step.Err
}

// Calls returns how many times the given URL has been fetched.
func (s *Script) Calls(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}
