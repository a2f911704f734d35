// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"github.com/rs/zerolog"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/source"
	"github.com/gogama/fetchx/transient"
)

// NewHandler constructs an event handler that logs the fetch lifecycle
// to the given zerolog logger. Attempt starts are logged at debug
// level, attempt failures at warn level, and execution outcomes at
// info level for success, error level for failure, and warn level for
// cancellation.
//
// NewHandler panics if logger is nil.
func NewHandler(logger *zerolog.Logger) fetchx.Handler {
	if logger == nil {
		panic("fetchx/logging: nil logger")
	}
	return &handler{logger: logger}
}

// Install constructs a logging handler and registers it on the
// client's handler group, creating the group if the client does not
// have one yet.
//
// Install panics if client or logger is nil.
func Install(client *fetchx.Client, logger *zerolog.Logger) {
	if client == nil {
		panic("fetchx/logging: nil client")
	}
	h := NewHandler(logger)
	if client.Handlers == nil {
		client.Handlers = &fetchx.HandlerGroup{}
	}
	client.Handlers.PushBack(fetchx.BeforeAttempt, h)
	client.Handlers.PushBack(fetchx.AfterAttemptTimeout, h)
	client.Handlers.PushBack(fetchx.AfterAttempt, h)
	client.Handlers.PushBack(fetchx.AfterExecutionEnd, h)
}

type handler struct {
	logger *zerolog.Logger
}

func (h *handler) Handle(evt fetchx.Event, e *source.Execution) {
	switch evt {
	case fetchx.BeforeAttempt:
		h.logger.Debug().
			Str("source", e.Source.Name).
			Str("id", e.ID).
			Int("attempt", e.Attempt).
			Msg("fetch attempt starting")
	case fetchx.AfterAttemptTimeout:
		h.logger.Warn().
			Str("source", e.Source.Name).
			Str("id", e.ID).
			Int("attempt", e.Attempt).
			Int("timeouts", e.AttemptTimeouts).
			Msg("fetch attempt timed out")
	case fetchx.AfterAttempt:
		// Timed-out attempts were already logged from the dedicated
		// timeout event.
		if e.Err != nil && !e.Timeout() {
			h.logger.Warn().
				Str("source", e.Source.Name).
				Str("id", e.ID).
				Int("attempt", e.Attempt).
				Str("class", transient.Categorize(e.Err).Name()).
				Err(e.Err).
				Msg("fetch attempt failed")
		}
	case fetchx.AfterExecutionEnd:
		h.end(e)
	}
}

func (h *handler) end(e *source.Execution) {
	if e.Result == nil {
		h.logger.Warn().
			Str("source", e.Source.Name).
			Str("id", e.ID).
			Str("url", e.Source.URL).
			Int("attempts", e.Attempts()).
			Dur("duration", e.Duration()).
			Err(e.Err).
			Msg("fetch canceled")
		return
	}

	if e.Result.Success {
		h.logger.Info().
			Str("source", e.Source.Name).
			Str("id", e.ID).
			Str("url", e.Source.URL).
			Int("attempts", e.Attempts()).
			Int("bytes", len(e.Result.Data)).
			Dur("duration", e.Duration()).
			Msg("fetch succeeded")
		return
	}

	h.logger.Error().
		Str("source", e.Source.Name).
		Str("id", e.ID).
		Str("url", e.Source.URL).
		Int("attempts", e.Attempts()).
		Dur("duration", e.Duration()).
		Str("class", transient.Categorize(e.Err).Name()).
		Err(e.Err).
		Msg("fetch failed")
}
