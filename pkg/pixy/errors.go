// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Driver operations.
var (
	// ErrBusy reports that the response frame has not fully arrived yet.
	// It is the normal, expected result while polling: callers re-invoke
	// the same operation until it stops returning ErrBusy.
	ErrBusy = errors.New("pixy: busy")

	// ErrBadChecksum reports that the received payload does not match the
	// checksum word in the frame header. The driver does not retry; the
	// caller decides whether to reissue the command.
	ErrBadChecksum = errors.New("pixy: bad checksum")

	// ErrTypeMismatch reports a reply whose type id matches neither the
	// expected response type nor the error type for the issued command.
	ErrTypeMismatch = errors.New("pixy: unexpected reply type")

	// ErrPayloadTooLarge reports a request payload over MaxRequestPayload.
	ErrPayloadTooLarge = errors.New("pixy: request payload too large")
)

// RemoteError carries an explicit non-zero status code returned by the
// camera in an acknowledgement or error frame. The code is propagated
// verbatim; see the Status constants for known values.
type RemoteError struct {
	Code int32
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("pixy: camera returned status %d", e.Code)
}

// statusErr maps a wire status code to a driver error, nil for success.
func statusErr(code int32) error {
	if code == StatusOK {
		return nil
	}
	return &RemoteError{Code: code}
}
