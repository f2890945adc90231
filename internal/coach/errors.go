// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package coach

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("coach: no API key configured")

// ApologyText is shown in place of a reply when the service cannot be
// reached or a stream fails.
const ApologyText = "Sorry, I'm having trouble connecting right now. Please check your internet or API key."

// ConnectionError indicates the conversational service could not be
// reached at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("coach: connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StreamError indicates a reply stream failed partway through. Partial
// holds the text received before the failure.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("coach: stream failed after %d bytes: %v", len(e.Partial), e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
