// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

// Checksum computes the 16-bit wraparound sum of the payload bytes, the
// checksum the camera places in the header of checksummed frames.
func Checksum(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum += uint16(b)
	}
	return sum
}

// ValidateChecksum reports whether the checksummed frame starting at
// headerPos matches its declared checksum word. buf must be the full
// BufferSize receive buffer; offsets wrap at the buffer boundary like the
// receiver's positions do. No correction is attempted on mismatch.
func ValidateChecksum(buf []byte, headerPos uint8) bool {
	length := buf[headerPos+3]
	var sum uint16
	for i := uint8(0); i < length; i++ {
		sum += uint16(buf[headerPos+CSHeaderSize+i])
	}
	want := uint16(buf[headerPos+4]) | uint16(buf[headerPos+5])<<8
	return sum == want
}
