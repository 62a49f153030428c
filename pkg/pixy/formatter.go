// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"fmt"
	"strings"
)

// FormatRequestType returns the human-readable name for a request type id.
func FormatRequestType(typeID byte) string {
	switch typeID {
	case ReqGetResolution:
		return "GET_RESOLUTION"
	case ReqGetVersion:
		return "GET_VERSION"
	case ReqSetBrightness:
		return "SET_BRIGHTNESS"
	case ReqSetServos:
		return "SET_SERVOS"
	case ReqSetLED:
		return "SET_LED"
	case ReqSetLamp:
		return "SET_LAMP"
	case ReqGetFPS:
		return "GET_FPS"
	case ReqGetBlocks:
		return "GET_BLOCKS"
	case ReqGetFeatures:
		return "GET_FEATURES"
	case ReqSetMode:
		return "SET_MODE"
	case ReqSetVector:
		return "SET_VECTOR"
	case ReqSetNextTurn:
		return "SET_NEXT_TURN"
	case ReqSetDefTurn:
		return "SET_DEFAULT_TURN"
	case ReqReverseVector:
		return "REVERSE_VECTOR"
	case ReqGetRGB:
		return "GET_RGB"
	default:
		return "UNKNOWN"
	}
}

// FormatReplyType returns the human-readable name for a reply type id.
// Type 1 is reported as ACK; whether it carries a status, a framerate or a
// pixel depends on the request that was issued.
func FormatReplyType(typeID byte) string {
	switch typeID {
	case RepAck:
		return "ACK"
	case RepError:
		return "ERROR"
	case RepResolution:
		return "RESOLUTION"
	case RepVersion:
		return "VERSION"
	case RepBlocks:
		return "BLOCKS"
	case RepFeatures:
		return "FEATURES"
	default:
		return "UNKNOWN"
	}
}

// FormatStatus returns the name of a wire-level status code.
func FormatStatus(code int32) string {
	switch code {
	case StatusOK:
		return "OK"
	case StatusBusy:
		return "BUSY"
	case StatusMiscError:
		return "MISC_ERROR"
	case StatusBadChecksum:
		return "BAD_CHECKSUM"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusOverride:
		return "BUTTON_OVERRIDE"
	case StatusProgChange:
		return "PROG_CHANGE"
	case StatusTypeError:
		return "TYPE_ERROR"
	default:
		return fmt.Sprintf("STATUS(%d)", code)
	}
}

// FormatBlock formats one detected block on a single line.
func FormatBlock(b Block) string {
	s := fmt.Sprintf("sig=%d pos=(%d,%d) size=%dx%d idx=%d age=%d",
		b.Signature(), b.X(), b.Y(), b.Width(), b.Height(), b.Index(), b.Age())
	if b.Angle() != 0 {
		s += fmt.Sprintf(" angle=%d", b.Angle())
	}
	return s
}

// FormatBlocks formats a block list, one block per line.
func FormatBlocks(blocks Blocks) string {
	if blocks.Len() == 0 {
		return "  (no blocks)\n"
	}
	var sb strings.Builder
	for i := 0; i < blocks.Len(); i++ {
		fmt.Fprintf(&sb, "  block %d: %s\n", i+1, FormatBlock(blocks.At(i)))
	}
	return sb.String()
}

// FormatFeatures formats a line-tracking feature set, one feature per line.
func FormatFeatures(set *FeatureSet) string {
	if set == nil || set.Detected() == 0 {
		return "  (no features)\n"
	}

	var sb strings.Builder
	for i := 0; i < set.Vectors.Len(); i++ {
		v := set.Vectors.At(i)
		fmt.Fprintf(&sb, "  vector %d: (%d,%d)->(%d,%d) idx=%d flags=0x%02X\n",
			i+1, v.X0(), v.Y0(), v.X1(), v.Y1(), v.Index(), v.Flags())
	}
	for i := 0; i < set.Intersections.Len(); i++ {
		n := set.Intersections.At(i)
		fmt.Fprintf(&sb, "  intersection %d: (%d,%d) branches=%d", i+1, n.X(), n.Y(), n.Branches())
		for j := 0; j < int(n.Branches()) && j < MaxIntersectionLines; j++ {
			l := n.Line(j)
			fmt.Fprintf(&sb, " [idx=%d angle=%d]", l.Index(), l.Angle())
		}
		sb.WriteByte('\n')
	}
	for i := 0; i < set.Barcodes.Len(); i++ {
		c := set.Barcodes.At(i)
		fmt.Fprintf(&sb, "  barcode %d: (%d,%d) code=%d flags=0x%02X\n",
			i+1, c.X(), c.Y(), c.Code(), c.Flags())
	}
	return sb.String()
}
