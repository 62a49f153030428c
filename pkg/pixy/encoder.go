// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import "fmt"

// EncodeFrame serializes a command frame to wire format:
// sync(2, little-endian) + type(1) + length(1) + payload.
// Outgoing frames are never checksummed.
func EncodeFrame(typeID byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxRequestPayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxRequestPayload)
	}

	frame := make([]byte, 0, HeaderSize+len(payload))
	frame = append(frame, byte(Sync&0xFF), byte(Sync>>8), typeID, byte(len(payload)))
	frame = append(frame, payload...)
	return frame, nil
}

// Send encodes a command frame and transmits it one byte at a time,
// spinning on transport writability before each byte. This is the only
// blocking operation in the driver; it is bounded by transport throughput,
// not protocol logic. There is no timeout: an unresponsive transport blocks
// the caller indefinitely.
func Send(t Transport, typeID byte, payload []byte) error {
	frame, err := EncodeFrame(typeID, payload)
	if err != nil {
		return err
	}

	for _, b := range frame {
		for !t.Writable() {
		}
		if err := t.WriteByte(b); err != nil {
			return fmt.Errorf("pixy: transmit failed: %w", err)
		}
	}
	return nil
}
