// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchtest

import (
	"errors"
	"fmt"
	"syscall"
)

// ConnRefused returns an error that categorizes as a transient
// connection refusal.
func ConnRefused() error {
	return fmt.Errorf("fetchtest: connection refused: %w", syscall.ECONNREFUSED)
}

// ConnReset returns an error that categorizes as a transient
// connection reset.
func ConnReset() error {
	return fmt.Errorf("fetchtest: connection reset: %w", syscall.ECONNRESET)
}

// Timeout returns an error that categorizes as a timeout.
func Timeout() error {
	return fmt.Errorf("fetchtest: timed out: %w", syscall.ETIMEDOUT)
}

// Unclassified returns an error that does not categorize as
// transient, so the retry policies in this project treat it as
// terminal.
func Unclassified(msg string) error {
	return errors.New(msg)
}
