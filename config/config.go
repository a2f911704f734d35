// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/source"
	"github.com/gogama/fetchx/timeout"
)

// A Config is a fetch manifest: the list of sources to fetch plus the
// engine options to fetch them with. The zero value of every option
// maps to the corresponding package default, so a manifest listing
// only sources is complete.
type Config struct {
	// Attempts is the total number of fetch attempts allowed per
	// source, counting the initial attempt. Zero means
	// retry.DefaultAttempts.
	Attempts int `yaml:"attempts"`
	// AttemptTimeout bounds each individual fetch attempt. Zero means
	// timeout.DefaultTimeout.
	AttemptTimeout Duration `yaml:"attempt_timeout"`
	// BackoffBase is the wait before the first retry of a transient
	// non-timeout failure; each later retry doubles it. Zero means
	// retry.DefaultBackoffBase.
	BackoffBase Duration `yaml:"backoff_base"`
	// BackoffCeil caps the retry wait. Zero means
	// retry.DefaultBackoffCeil.
	BackoffCeil Duration `yaml:"backoff_ceil"`
	// Concurrency caps how many sources are fetched at once. Zero
	// means no cap: one goroutine per source.
	Concurrency int `yaml:"concurrency"`
	// Sources lists the sources to fetch. A manifest must list at
	// least one source, and source names must be unique.
	Sources []Source `yaml:"sources"`
}

// A Source is the manifest form of one source entry.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Priority int    `yaml:"priority"`
}

// A Duration is a time.Duration that unmarshals from the YAML forms a
// human writes: a duration string such as "250ms" or "5s", or a bare
// integer interpreted as nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("fetchx/config: invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}

	return fmt.Errorf("fetchx/config: cannot parse %q as a duration", value.Value)
}

// Load reads a fetch manifest from a YAML file. Environment variable
// references of the form $VAR or ${VAR} are expanded before parsing,
// so credentials and hosts can stay out of the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetchx/config: read manifest: %w", err)
	}

	return Parse(data)
}

// Parse parses a fetch manifest from YAML text, expanding environment
// variable references, filling in defaults, and validating the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("fetchx/config: parse manifest: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Attempts == 0 {
		c.Attempts = retry.DefaultAttempts
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = Duration(timeout.DefaultTimeout)
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = Duration(retry.DefaultBackoffBase)
	}
	if c.BackoffCeil == 0 {
		c.BackoffCeil = Duration(retry.DefaultBackoffCeil)
	}
}

func (c *Config) validate() error {
	if c.Attempts < 1 {
		return fmt.Errorf("fetchx/config: attempts must be at least 1, got %d", c.Attempts)
	}
	if c.AttemptTimeout < 1 {
		return errors.New("fetchx/config: attempt_timeout must be positive")
	}
	if c.BackoffBase < 1 {
		return errors.New("fetchx/config: backoff_base must be positive")
	}
	if c.BackoffCeil < c.BackoffBase {
		return errors.New("fetchx/config: backoff_ceil must be at least backoff_base")
	}
	if len(c.Sources) == 0 {
		return errors.New("fetchx/config: manifest lists no sources")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("fetchx/config: sources[%d] has no name", i)
		}
		if s.URL == "" {
			return fmt.Errorf("fetchx/config: source %q has no url", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("fetchx/config: duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// SourceList returns the manifest's sources in input order, converted
// to the type the client consumes.
func (c *Config) SourceList() []source.Source {
	list := make([]source.Source, len(c.Sources))
	for i, s := range c.Sources {
		list[i] = source.Source{
			Name:     s.Name,
			URL:      s.URL,
			Priority: s.Priority,
		}
	}
	return list
}

// RetryPolicy builds the retry policy the manifest describes: up to
// Attempts total attempts, retrying only transient failures, with
// exponential backoff from BackoffBase to BackoffCeil and no wait
// after timeouts.
func (c *Config) RetryPolicy() retry.Policy {
	decider := retry.Times(c.Attempts - 1).And(retry.TransientErr)
	waiter := retry.SkipTimeouts(retry.NewExpWaiter(
		time.Duration(c.BackoffBase),
		time.Duration(c.BackoffCeil),
		nil,
	))
	return retry.NewPolicy(decider, waiter)
}

// TimeoutPolicy builds the timeout policy the manifest describes: a
// fixed AttemptTimeout on every attempt.
func (c *Config) TimeoutPolicy() timeout.Policy {
	return timeout.Fixed(time.Duration(c.AttemptTimeout))
}

// Apply installs the manifest's policies and concurrency cap on the
// given client. The client's Fetcher and Handlers are left alone, as
// the manifest has nothing to say about them.
func (c *Config) Apply(client *fetchx.Client) {
	client.RetryPolicy = c.RetryPolicy()
	client.TimeoutPolicy = c.TimeoutPolicy()
	client.Concurrency = c.Concurrency
}
