// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

// Transport is the byte-level serial link the driver writes to. The
// embedding application owns port configuration and the receive path: it
// must deliver every received byte, in order and without loss, to
// Driver.Feed.
//
// Writable reports whether a byte can be accepted right now; WriteByte
// sends a single byte, blocking until the transport accepts it.
// Transmission is the only place the driver blocks.
type Transport interface {
	Writable() bool
	WriteByte(b byte) error
}
