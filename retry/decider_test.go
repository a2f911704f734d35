// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/fetchx/source"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDecider(t *testing.T) {
	t.Run("Transient errors", func(t *testing.T) {
		for i, te := range transientErrs {
			e := source.Execution{
				Err: te,
			}
			t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
				for j := 0; j < DefaultAttempts-1; j++ {
					e.Attempt = j
					assert.True(t, DefaultDecider(&e), fmt.Sprintf("Expect true for attempt %d", j))
				}
				e.Attempt = DefaultAttempts - 1
				assert.False(t, DefaultDecider(&e), fmt.Sprintf("Expect false for attempt %d", e.Attempt))
			})
		}
	})
	t.Run("Non-transient errors", func(t *testing.T) {
		for i, nte := range nonTransientErrs {
			e := source.Execution{
				Err: nte,
			}
			t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", i, nte), func(t *testing.T) {
				e.Attempt = 0
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 0")
				e.Attempt = 1
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 1")
			})
		}
	})
	t.Run("Success", func(t *testing.T) {
		e := source.Execution{
			Data: "payload",
		}
		assert.False(t, DefaultDecider(&e), "Expect false when there is no error")
	})
}

func TestTransientErr(t *testing.T) {
	e := source.Execution{}
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
			e.Err = te
			assert.True(t, transientErr(&e))
			e.Err = fmt.Errorf("fetch backup: %w", te)
			assert.True(t, transientErr(&e))
		})
	}
	for j, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", j, nte), func(t *testing.T) {
			e.Err = nte
			assert.False(t, transientErr(&e))
			if nte != nil {
				e.Err = fmt.Errorf("fetch backup: %w", nte)
				assert.False(t, transientErr(&e))
			}
		})
	}
}

func TestDeciderAnd(t *testing.T) {
	true_ := DeciderFunc(func(_ *source.Execution) bool { return true })
	false_ := DeciderFunc(func(_ *source.Execution) bool { return false })
	tt := true_.And(true_)
	tf := true_.And(false_)
	ft := false_.And(true_)
	ff := false_.And(false_)
	assert.True(t, tt(&source.Execution{}))
	assert.False(t, tf(&source.Execution{}))
	assert.False(t, ft(&source.Execution{}))
	assert.False(t, ff(&source.Execution{}))
}

func TestDeciderOr(t *testing.T) {
	true_ := DeciderFunc(func(_ *source.Execution) bool { return true })
	false_ := DeciderFunc(func(_ *source.Execution) bool { return false })
	tt := true_.Or(true_)
	tf := true_.Or(false_)
	ft := false_.Or(true_)
	ff := false_.Or(false_)
	assert.True(t, tt(&source.Execution{}))
	assert.True(t, tf(&source.Execution{}))
	assert.True(t, ft(&source.Execution{}))
	assert.False(t, ff(&source.Execution{}))
}

func TestTimes(t *testing.T) {
	zero := Times(0)
	assert.False(t, zero(&source.Execution{}))
	one := Times(1)
	assert.True(t, one(&source.Execution{}))
	assert.False(t, one(&source.Execution{Attempt: 1}))
	two := Times(2)
	assert.True(t, two(&source.Execution{Attempt: 1}))
	assert.False(t, two(&source.Execution{Attempt: 2}))
}

func TestBefore(t *testing.T) {
	e := source.Execution{Start: time.Now()}
	before := Before(time.Minute)
	for i := 0; i < 20; i++ {
		e.Attempt = 20
		assert.True(t, before(&e))
	}
	e.End = e.Start.Add(2 * time.Minute)
	assert.False(t, before(&e))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		context.DeadlineExceeded,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
		context.Canceled,
	}
)
