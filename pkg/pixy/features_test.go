// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import "testing"

// ============================================================
// Feature Record Builders
// ============================================================

func vectorRecord(x0, y0, x1, y1, index, flags byte) []byte {
	return []byte{FeatureVector, VectorSize, x0, y0, x1, y1, index, flags}
}

func barcodeRecord(x, y, flags, code byte) []byte {
	return []byte{FeatureBarcode, BarcodeSize, x, y, flags, code}
}

func intersectionRecord(x, y byte, angles []int16) []byte {
	body := []byte{x, y, byte(len(angles)), 0}
	for i, a := range angles {
		u := uint16(a)
		body = append(body, byte(i), 0, byte(u&0xFF), byte(u>>8))
	}
	// The camera always transmits the full fixed-size record.
	for len(body) < IntersectionSize {
		body = append(body, 0)
	}
	return append([]byte{FeatureIntersection, IntersectionSize}, body...)
}

// ============================================================
// Feature Parsing Tests
// ============================================================

func TestParseFeatures_Empty(t *testing.T) {
	set := parseFeatures(nil)
	if set.Detected() != 0 {
		t.Errorf("Empty payload should detect nothing, got mask %d", set.Detected())
	}
	if set.Vectors.Len() != 0 || set.Intersections.Len() != 0 || set.Barcodes.Len() != 0 {
		t.Error("Empty payload should yield empty feature lists")
	}
}

func TestParseFeatures_VectorAndBarcode(t *testing.T) {
	payload := append(vectorRecord(10, 20, 30, 40, 2, 0), barcodeRecord(39, 25, 0, 12)...)
	set := parseFeatures(payload)

	if set.Detected() != FeatureVector|FeatureBarcode {
		t.Errorf("Expected mask %d, got %d", FeatureVector|FeatureBarcode, set.Detected())
	}
	if set.Vectors.Len() != 1 {
		t.Fatalf("Expected 1 vector, got %d", set.Vectors.Len())
	}
	v := set.Vectors.At(0)
	if v.X0() != 10 || v.Y0() != 20 || v.X1() != 30 || v.Y1() != 40 {
		t.Errorf("Vector endpoints mismatch: (%d,%d)->(%d,%d)", v.X0(), v.Y0(), v.X1(), v.Y1())
	}
	if v.Index() != 2 {
		t.Errorf("Expected vector index 2, got %d", v.Index())
	}

	if set.Intersections.Len() != 0 {
		t.Errorf("Expected no intersections, got %d", set.Intersections.Len())
	}
	if set.Barcodes.Len() != 1 {
		t.Fatalf("Expected 1 barcode, got %d", set.Barcodes.Len())
	}
	c := set.Barcodes.At(0)
	if c.X() != 39 || c.Y() != 25 || c.Code() != 12 {
		t.Errorf("Barcode mismatch: (%d,%d) code %d", c.X(), c.Y(), c.Code())
	}
}

func TestParseFeatures_Intersection(t *testing.T) {
	payload := intersectionRecord(40, 26, []int16{0, 90, -90})
	set := parseFeatures(payload)

	if set.Detected() != FeatureIntersection {
		t.Fatalf("Expected intersection mask, got %d", set.Detected())
	}
	if set.Intersections.Len() != 1 {
		t.Fatalf("Expected 1 intersection, got %d", set.Intersections.Len())
	}
	n := set.Intersections.At(0)
	if n.X() != 40 || n.Y() != 26 {
		t.Errorf("Intersection position mismatch: (%d,%d)", n.X(), n.Y())
	}
	if n.Branches() != 3 {
		t.Fatalf("Expected 3 branches, got %d", n.Branches())
	}
	angles := []int16{0, 90, -90}
	for i, want := range angles {
		if got := n.Line(i).Angle(); got != want {
			t.Errorf("Branch %d angle mismatch: expected %d, got %d", i, want, got)
		}
	}
}

func TestParseFeatures_MultipleVectors(t *testing.T) {
	// One record can carry several vectors back to back.
	body := []byte{
		10, 20, 30, 40, 0, 0,
		50, 45, 60, 15, 1, 0,
	}
	payload := append([]byte{FeatureVector, byte(len(body))}, body...)
	set := parseFeatures(payload)

	if set.Vectors.Len() != 2 {
		t.Fatalf("Expected 2 vectors, got %d", set.Vectors.Len())
	}
	if set.Vectors.At(1).X0() != 50 || set.Vectors.At(1).Index() != 1 {
		t.Error("Second vector decoded at wrong offset")
	}
}

func TestParseFeatures_UnknownTypeSkipped(t *testing.T) {
	unknown := []byte{0x7A, 3, 0xAA, 0xBB, 0xCC}
	payload := append(unknown, vectorRecord(1, 2, 3, 4, 0, 0)...)
	set := parseFeatures(payload)

	if set.Detected() != FeatureVector {
		t.Errorf("Unknown record should be skipped, mask %d", set.Detected())
	}
	if set.Vectors.Len() != 1 {
		t.Fatalf("Expected the vector after the unknown record, got %d", set.Vectors.Len())
	}
	if set.Vectors.At(0).Y1() != 4 {
		t.Error("Vector after unknown record decoded at wrong offset")
	}
}

func TestParseFeatures_OverlongRecordClipped(t *testing.T) {
	// Declared length runs past the payload end: the body is clipped, not
	// read out of bounds.
	payload := []byte{FeatureVector, 200, 1, 2, 3}
	set := parseFeatures(payload)

	if set.Detected() != FeatureVector {
		t.Fatalf("Clipped record should still be detected, mask %d", set.Detected())
	}
	if set.Vectors.Len() != 0 {
		t.Errorf("3 clipped bytes hold no whole vector, got %d", set.Vectors.Len())
	}
}

func TestParseFeatures_TruncatedHeaderIgnored(t *testing.T) {
	set := parseFeatures([]byte{FeatureVector})
	if set.Detected() != 0 {
		t.Errorf("Lone type byte should parse as nothing, mask %d", set.Detected())
	}
}

func TestParseFeatures_LastRecordWins(t *testing.T) {
	payload := append(vectorRecord(1, 1, 2, 2, 0, 0), vectorRecord(9, 9, 8, 8, 1, 0)...)
	set := parseFeatures(payload)

	if set.Vectors.Len() != 1 {
		t.Fatalf("Expected the later record to replace the earlier, got %d vectors", set.Vectors.Len())
	}
	if set.Vectors.At(0).X0() != 9 {
		t.Error("Expected the last vector record to win")
	}
}

// ============================================================
// Plausibility Validation Tests
// ============================================================

func TestValidateFeatures_CleanFrame(t *testing.T) {
	payload := append(vectorRecord(0, 0, 78, 51, 0, 0), barcodeRecord(10, 10, 0, 15)...)
	if anomalies := ValidateFeatures(parseFeatures(payload)); len(anomalies) != 0 {
		t.Errorf("Expected no anomalies, got %v", anomalies)
	}
}

func TestValidateFeatures_OutOfRange(t *testing.T) {
	payload := append(vectorRecord(79, 0, 10, 10, 0, 0), intersectionRecord(5, 5, []int16{0, 0, 0, 0, 0, 0, 0})...)
	anomalies := ValidateFeatures(parseFeatures(payload))
	if len(anomalies) != 2 {
		t.Fatalf("Expected 2 anomalies, got %d: %v", len(anomalies), anomalies)
	}
	if anomalies[0].Type != AnomalyOutOfRange {
		t.Errorf("Expected out-of-range anomaly for the vector, got %v", anomalies[0])
	}
	if anomalies[1].Type != AnomalyInvalidCount {
		t.Errorf("Expected invalid-count anomaly for the intersection, got %v", anomalies[1])
	}
}

func TestValidateFeatures_Nil(t *testing.T) {
	if anomalies := ValidateFeatures(nil); anomalies != nil {
		t.Errorf("Expected nil for nil feature set, got %v", anomalies)
	}
}
