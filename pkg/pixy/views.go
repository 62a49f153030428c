// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"fmt"
	"strings"
)

// Typed views over response payloads.
//
// Every view is a non-owning window into the driver's receive buffer: it
// stays valid only until the next command resets the buffer. Callers must
// read (or copy out) results before issuing another request. All multi-byte
// fields are little-endian and decoded at fixed offsets; a field whose
// bytes fall outside the window reads as zero.

func u16(b []byte, off int) uint16 {
	if off+2 > len(b) {
		return 0
	}
	return uint16(b[off]) | uint16(b[off+1])<<8
}

func u8(b []byte, off int) byte {
	if off >= len(b) {
		return 0
	}
	return b[off]
}

// Version is the reply to GetVersion.
type Version struct {
	b []byte
}

func (v Version) Hardware() uint16      { return u16(v.b, 0) }
func (v Version) FirmwareMajor() byte   { return u8(v.b, 2) }
func (v Version) FirmwareMinor() byte   { return u8(v.b, 3) }
func (v Version) FirmwareBuild() uint16 { return u16(v.b, 4) }

// FirmwareType returns the firmware flavor string, empty on firmwares that
// reply with the short 8-byte version payload.
func (v Version) FirmwareType() string {
	if len(v.b) < 7 {
		return ""
	}
	s := string(v.b[6:])
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " ")
}

func (v Version) String() string {
	return fmt.Sprintf("hw %d, fw %d.%d build %d", v.Hardware(), v.FirmwareMajor(), v.FirmwareMinor(), v.FirmwareBuild())
}

// Resolution is the reply to GetResolution: the pixel dimensions of the
// frames used by the camera's current program.
type Resolution struct {
	b []byte
}

func (r Resolution) Width() uint16  { return u16(r.b, 0) }
func (r Resolution) Height() uint16 { return u16(r.b, 2) }

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width(), r.Height())
}

// Block is one detected color-signature region. Blocks are reported sorted
// by area, largest first.
type Block struct {
	b []byte
}

func (b Block) Signature() uint16 { return u16(b.b, 0) }
func (b Block) X() uint16         { return u16(b.b, 2) }
func (b Block) Y() uint16         { return u16(b.b, 4) }
func (b Block) Width() uint16     { return u16(b.b, 6) }
func (b Block) Height() uint16    { return u16(b.b, 8) }

// Angle is meaningful for color-code blocks only, in degrees.
func (b Block) Angle() int16 { return int16(u16(b.b, 10)) }

// Index is the tracking id the camera assigns to follow a block across
// frames. Age counts the frames the block has been tracked for and does
// not wrap around.
func (b Block) Index() byte { return u8(b.b, 12) }
func (b Block) Age() byte   { return u8(b.b, 13) }

// Blocks is the array view over a GetBlocks reply payload.
type Blocks struct {
	b []byte
}

func (s Blocks) Len() int { return len(s.b) / BlockSize }

func (s Blocks) At(i int) Block {
	off := i * BlockSize
	return Block{b: s.b[off : off+BlockSize]}
}

// Vector is one line-tracking vector: a directed segment from tail
// (X0, Y0) to head (X1, Y1) in line-tracking pixel coordinates.
type Vector struct {
	b []byte
}

func (v Vector) X0() byte    { return u8(v.b, 0) }
func (v Vector) Y0() byte    { return u8(v.b, 1) }
func (v Vector) X1() byte    { return u8(v.b, 2) }
func (v Vector) Y1() byte    { return u8(v.b, 3) }
func (v Vector) Index() byte { return u8(v.b, 4) }
func (v Vector) Flags() byte { return u8(v.b, 5) }

type Vectors struct {
	b []byte
}

func (s Vectors) Len() int { return len(s.b) / VectorSize }

func (s Vectors) At(i int) Vector {
	off := i * VectorSize
	return Vector{b: s.b[off : off+VectorSize]}
}

// IntersectionLine is one branch line converging into an intersection.
type IntersectionLine struct {
	b []byte
}

func (l IntersectionLine) Index() byte { return u8(l.b, 0) }
func (l IntersectionLine) Angle() int16 {
	return int16(u16(l.b, 2))
}

// Intersection is a junction of branch lines. A record reserves
// MaxIntersectionLines branch slots; Branches tells how many are filled.
type Intersection struct {
	b []byte
}

func (n Intersection) X() byte        { return u8(n.b, 0) }
func (n Intersection) Y() byte        { return u8(n.b, 1) }
func (n Intersection) Branches() byte { return u8(n.b, 2) }

func (n Intersection) Line(i int) IntersectionLine {
	off := 4 + i*4
	return IntersectionLine{b: n.b[off : off+4]}
}

type Intersections struct {
	b []byte
}

func (s Intersections) Len() int { return len(s.b) / IntersectionSize }

func (s Intersections) At(i int) Intersection {
	off := i * IntersectionSize
	return Intersection{b: s.b[off : off+IntersectionSize]}
}

// Barcode is one decoded line-tracking barcode.
type Barcode struct {
	b []byte
}

func (c Barcode) X() byte     { return u8(c.b, 0) }
func (c Barcode) Y() byte     { return u8(c.b, 1) }
func (c Barcode) Flags() byte { return u8(c.b, 2) }
func (c Barcode) Code() byte  { return u8(c.b, 3) }

type Barcodes struct {
	b []byte
}

func (s Barcodes) Len() int { return len(s.b) / BarcodeSize }

func (s Barcodes) At(i int) Barcode {
	off := i * BarcodeSize
	return Barcode{b: s.b[off : off+BarcodeSize]}
}

// Pixel is the reply to GetRGB: the average color of the 5x5 pixel square
// centered on the requested coordinate. The wire order is blue, green, red.
type Pixel struct {
	b []byte
}

func (p Pixel) Blue() byte  { return u8(p.b, 0) }
func (p Pixel) Green() byte { return u8(p.b, 1) }
func (p Pixel) Red() byte   { return u8(p.b, 2) }

func (p Pixel) String() string {
	return fmt.Sprintf("#%02X%02X%02X", p.Red(), p.Green(), p.Blue())
}
