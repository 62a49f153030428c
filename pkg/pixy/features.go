// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

// FeatureSet holds the line-tracking features found in one reply frame.
// The contained views alias the receive buffer and follow the same
// valid-until-next-request contract as every other view.
type FeatureSet struct {
	Vectors       Vectors
	Intersections Intersections
	Barcodes      Barcodes

	mask int
}

// Detected returns the OR of the feature type bits present in the frame:
// FeatureVector, FeatureIntersection, FeatureBarcode.
func (s *FeatureSet) Detected() int {
	return s.mask
}

// parseFeatures walks the (type, length, body) records packed into a
// line-tracking reply payload. Unrecognized record types are skipped so
// newer firmwares stay readable; a record whose declared length runs past
// the payload is clipped at the payload end. When a frame carries several
// records of the same type, the last one wins.
func parseFeatures(payload []byte) *FeatureSet {
	s := &FeatureSet{}

	for off := 0; off+2 <= len(payload); {
		ftype := payload[off]
		flen := int(payload[off+1])
		body := payload[off+2:]
		if flen > len(body) {
			flen = len(body)
		}
		body = body[:flen]

		switch ftype {
		case FeatureVector:
			s.Vectors = Vectors{b: body}
			s.mask |= FeatureVector
		case FeatureIntersection:
			s.Intersections = Intersections{b: body}
			s.mask |= FeatureIntersection
		case FeatureBarcode:
			s.Barcodes = Barcodes{b: body}
			s.mask |= FeatureBarcode
		}

		off += 2 + flen
	}

	return s
}
