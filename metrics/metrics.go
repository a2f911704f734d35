// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/source"
	"github.com/gogama/fetchx/transient"
)

// A Handler is an event handler that records fetch activity as
// Prometheus metrics. It maintains three collectors:
//
//   - fetchx_attempts_total, a counter of fetch attempts labeled by
//     source name and attempt class. The class is "OK" for a
//     successful attempt and the transience category name of the
//     attempt error otherwise.
//   - fetchx_attempt_duration_seconds, a histogram of individual
//     attempt durations labeled by source name.
//   - fetchx_executions_total, a counter of finished executions
//     labeled by source name and outcome ("success", "failure", or
//     "canceled").
type Handler struct {
	attempts   *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	executions *prometheus.CounterVec
}

type attemptStartKey struct{}

// NewHandler constructs a metrics handler and registers its collectors
// with the given registerer. A nil registerer means the default
// registerer.
//
// Register the handler on the BeforeAttempt, AfterAttempt, and
// AfterExecutionEnd events, or use Install to do all of it in one
// call. Registering the same handler's collectors twice panics, so
// construct one handler per registry.
func NewHandler(registerer prometheus.Registerer) *Handler {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Handler{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fetchx_attempts_total",
			Help: "Total fetch attempts by source and attempt class.",
		}, []string{"source", "class"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fetchx_attempt_duration_seconds",
			Help:    "Duration of individual fetch attempts by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fetchx_executions_total",
			Help: "Total finished fetch executions by source and outcome.",
		}, []string{"source", "outcome"}),
	}
}

// Install constructs a metrics handler, registers its collectors with
// the given registerer, and registers the handler on the client's
// handler group, creating the group if the client does not have one
// yet. It returns the installed handler.
//
// Install panics if client is nil.
func Install(client *fetchx.Client, registerer prometheus.Registerer) *Handler {
	if client == nil {
		panic("fetchx/metrics: nil client")
	}
	h := NewHandler(registerer)
	if client.Handlers == nil {
		client.Handlers = &fetchx.HandlerGroup{}
	}
	client.Handlers.PushBack(fetchx.BeforeAttempt, h)
	client.Handlers.PushBack(fetchx.AfterAttempt, h)
	client.Handlers.PushBack(fetchx.AfterExecutionEnd, h)
	return h
}

// Handle implements fetchx.Handler.
func (h *Handler) Handle(evt fetchx.Event, e *source.Execution) {
	switch evt {
	case fetchx.BeforeAttempt:
		e.SetValue(attemptStartKey{}, time.Now())
	case fetchx.AfterAttempt:
		h.attempts.WithLabelValues(e.Source.Name, classLabel(e.Err)).Inc()
		if start, ok := e.Value(attemptStartKey{}).(time.Time); ok {
			h.durations.WithLabelValues(e.Source.Name).Observe(time.Since(start).Seconds())
		}
	case fetchx.AfterExecutionEnd:
		h.executions.WithLabelValues(e.Source.Name, outcomeLabel(e)).Inc()
	}
}

func classLabel(err error) string {
	if err == nil {
		return "OK"
	}
	return transient.Categorize(err).Name()
}

func outcomeLabel(e *source.Execution) string {
	switch {
	case e.Result == nil:
		return "canceled"
	case e.Result.Success:
		return "success"
	default:
		return "failure"
	}
}
