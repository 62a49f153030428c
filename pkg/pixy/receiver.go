// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import "sync/atomic"

// State identifies where the receiver is in the assembly of one frame.
type State uint32

const (
	StateIdle State = iota
	StateMessageSent
	StateReceivingHeader
	StateReceivingData
	StateFrameReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateMessageSent:
		return "MESSAGE_SENT"
	case StateReceivingHeader:
		return "RECEIVING_HEADER"
	case StateReceivingData:
		return "RECEIVING_DATA"
	case StateFrameReady:
		return "FRAME_READY"
	default:
		return "UNKNOWN"
	}
}

// Receiver assembles one response frame from bytes delivered one at a time
// by the serial receive callback. Feed runs in the receive context, does
// O(1) work per byte and never blocks.
//
// State is the single-producer/single-consumer handoff between the receive
// context and the polling side: Feed is the only writer of the buffer and
// positions until it publishes StateFrameReady, and the polling side reads
// them only after observing that state (and rearms only from StateIdle or
// after Consume). No other synchronization exists, which is sound only
// under the one-outstanding-request contract of Driver.
//
// The zero value is an idle receiver ready for Arm.
type Receiver struct {
	state atomic.Uint32

	buf [BufferSize]byte

	// Positions are uint8 so that all arithmetic wraps at the buffer
	// boundary. wPos is the next free cell, hPos the start of the matched
	// sync word, dPos the start of the payload.
	wPos, hPos, dPos uint8
	dataSize         uint8
	hasChecksum      bool
}

// State returns the current assembly state.
func (r *Receiver) State() State {
	return State(r.state.Load())
}

// Arm resets the write position and starts waiting for a response frame.
// Call only while the receiver is idle, after transmitting a command.
func (r *Receiver) Arm() {
	r.wPos = 0
	r.state.Store(uint32(StateMessageSent))
}

// Consume returns the receiver to idle after the polling side has decoded
// a ready frame. The buffer contents stay untouched until the next Arm, so
// views handed out before Consume remain readable until a new request
// starts.
func (r *Receiver) Consume() {
	r.state.Store(uint32(StateIdle))
}

// Feed processes one received byte. Every byte advances the write position
// exactly once, whatever the state: late bytes from a superseded exchange
// are absorbed without touching the assembled frame.
func (r *Receiver) Feed(b byte) {
	r.buf[r.wPos] = b

	switch State(r.state.Load()) {
	case StateMessageSent:
		// Inspect the last two received bytes as a little-endian word.
		// Anything before the sync word is line noise and is silently
		// absorbed.
		if r.wPos > 0 {
			w := uint16(r.buf[r.wPos-1]) | uint16(r.buf[r.wPos])<<8
			if w == Sync || w == CSSync {
				r.hPos = r.wPos - 1
				r.hasChecksum = w == CSSync
				if r.hasChecksum {
					r.dPos = r.hPos + CSHeaderSize
				} else {
					r.dPos = r.hPos + HeaderSize
				}
				r.state.Store(uint32(StateReceivingHeader))
			}
		}

	case StateReceivingHeader:
		if r.wPos-r.hPos == r.headerSize()-1 {
			r.dataSize = r.buf[r.hPos+3]
			if r.dataSize == 0 {
				// Header-only reply: no payload ever follows, so no
				// FrameReady is signaled. The machine loops straight
				// back to idle and the next facade call starts a fresh
				// request.
				r.state.Store(uint32(StateIdle))
			} else {
				r.state.Store(uint32(StateReceivingData))
			}
		}

	case StateReceivingData:
		if r.wPos == r.dPos+r.dataSize-1 {
			r.state.Store(uint32(StateFrameReady))
		}
	}

	r.wPos++
}

func (r *Receiver) headerSize() uint8 {
	if r.hasChecksum {
		return CSHeaderSize
	}
	return HeaderSize
}

// HasChecksum reports whether the assembled frame carries a checksum word.
// Derived solely from which sync value started the frame, never from the
// type id.
func (r *Receiver) HasChecksum() bool {
	return r.hasChecksum
}

// TypeID returns the type id byte of the assembled frame header.
func (r *Receiver) TypeID() byte {
	return r.buf[r.hPos+2]
}

// DataSize returns the payload length declared by the assembled frame.
func (r *Receiver) DataSize() int {
	return int(r.dataSize)
}

// Payload returns the payload window of the assembled frame. The window
// aliases the receive buffer and is valid only until the next Arm. A frame
// whose payload would wrap past the end of the buffer is truncated at the
// boundary.
func (r *Receiver) Payload() []byte {
	start := int(r.dPos)
	end := start + int(r.dataSize)
	if end > BufferSize {
		end = BufferSize
	}
	if start > end {
		return nil
	}
	return r.buf[start:end]
}

// ValidateChecksum recomputes the payload sum of the assembled frame and
// compares it against the checksum word in its header.
func (r *Receiver) ValidateChecksum() bool {
	return ValidateChecksum(r.buf[:], r.hPos)
}

// Status extracts the 32-bit status code from an acknowledgement or error
// payload.
func (r *Receiver) Status() int32 {
	p := r.Payload()
	if len(p) < 4 {
		return StatusMiscError
	}
	return int32(uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24)
}
