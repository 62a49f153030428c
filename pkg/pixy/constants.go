// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

// Package pixy implements the serial driver for the Pixy2 smart camera.
//
// The camera speaks a compact length-prefixed binary protocol over a single
// asynchronous serial link. This package provides the outgoing frame encoder,
// the byte-at-a-time frame assembly state machine, checksum validation,
// line-feature payload parsing, and a polling command facade.
//
// Protocol reference: https://docs.pixycam.com/wiki/doku.php?id=wiki:v2:porting_guide
package pixy

// Frame sync words. The sync value observed on the wire decides the header
// size: frames starting with CSSync carry a 16-bit payload checksum.
const (
	Sync   = 0xC1AE // no checksum, 4-byte header
	CSSync = 0xC1AF // checksummed, 6-byte header
)

// Header sizes in bytes.
const (
	HeaderSize   = 4
	CSHeaderSize = 6
)

// Receive buffer capacity. Positions into the buffer are uint8, so all
// pointer arithmetic wraps at the buffer boundary.
const BufferSize = 256

// Maximum outgoing payload. No camera command carries more than 5 bytes.
const MaxRequestPayload = 5

// Request type identifiers (host -> camera).
const (
	ReqGetResolution = 12
	ReqGetVersion    = 14
	ReqSetBrightness = 16
	ReqSetServos     = 18
	ReqSetLED        = 20
	ReqSetLamp       = 22
	ReqGetFPS        = 24
	ReqGetBlocks     = 32
	ReqGetFeatures   = 48
	ReqSetMode       = 54
	ReqSetVector     = 56
	ReqSetNextTurn   = 58
	ReqSetDefTurn    = 60
	ReqReverseVector = 62
	ReqGetRGB        = 112
)

// Reply type identifiers (camera -> host). Acknowledgements, the FPS reply
// and the RGB reply all share type 1; the request that was issued decides
// how the payload is read.
const (
	RepAck        = 1
	RepError      = 3
	RepResolution = 13
	RepVersion    = 15
	RepFPS        = 1
	RepBlocks     = 33
	RepFeatures   = 49
)

// Line-tracking feature record types. The values are bitmask-compatible: a
// features reply may carry any subset, and feature filters OR them together.
const (
	FeatureVector       = 1
	FeatureIntersection = 2
	FeatureBarcode      = 4
	FeatureAll          = FeatureVector | FeatureIntersection | FeatureBarcode
)

// Feature element sizes in bytes.
const (
	VectorSize       = 6
	IntersectionSize = 4 + MaxIntersectionLines*4
	BarcodeSize      = 4
	BlockSize        = 14
)

// MaxIntersectionLines is the number of branch-line slots in an
// intersection record.
const MaxIntersectionLines = 6

// Feature request selectors for ReqGetFeatures.
const (
	FeaturesMain = 0 // only the features relevant for single-line tracking
	FeaturesAll  = 1 // every feature in the frame
)

// Line-tracking mode bits for SetMode.
const (
	ModeTurnDelayed        = 0x01
	ModeManualSelectVector = 0x02
	ModeWhiteLine          = 0x80
)

// Wire-level result codes carried in acknowledgement and error payloads.
// Zero is success; negative values are camera-side error kinds.
const (
	StatusOK          = 0
	StatusBusy        = -1
	StatusMiscError   = -2
	StatusBadChecksum = -3
	StatusTimeout     = -4
	StatusOverride    = -5
	StatusProgChange  = -6
	StatusTypeError   = -7
)
