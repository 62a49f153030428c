// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// ============================================================
// Capture Stream Tests
// ============================================================

func TestCapture_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewCaptureWriter(&buf)

	if err := w.Record(DirRequest, ReqGetBlocks, []byte{255, 4}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := w.Record(DirReply, RepBlocks, []byte{1, 0, 50, 0, 60, 0, 5, 0, 5, 0, 0, 0, 0, 1}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := w.Record(DirRequest, ReqGetVersion, nil); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	r := NewCaptureReader(&buf)

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec.Direction != DirRequest || rec.TypeID != ReqGetBlocks {
		t.Errorf("First record mismatch: %s", rec)
	}
	if !bytes.Equal(rec.Payload, []byte{255, 4}) {
		t.Errorf("First payload mismatch: % X", rec.Payload)
	}
	if rec.Timestamp.IsZero() {
		t.Error("Record timestamp should be set")
	}

	rec, err = r.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec.Direction != DirReply || rec.TypeID != RepBlocks || len(rec.Payload) != BlockSize {
		t.Errorf("Second record mismatch: %s", rec)
	}

	rec, err = r.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec.TypeID != ReqGetVersion || len(rec.Payload) != 0 {
		t.Errorf("Third record mismatch: %s", rec)
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF at end of stream, got %v", err)
	}
}

func TestCapture_RecordOwnsPayload(t *testing.T) {
	var buf bytes.Buffer
	w := NewCaptureWriter(&buf)

	payload := []byte{1, 2, 3}
	if err := w.Record(DirReply, RepAck, payload); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	// Mutating the source after recording must not change the capture:
	// the stream holds its own copy, like a receive buffer being reused.
	payload[0] = 0xFF

	rec, err := NewCaptureReader(&buf).Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if !bytes.Equal(rec.Payload, []byte{1, 2, 3}) {
		t.Errorf("Captured payload was aliased: % X", rec.Payload)
	}
}

func TestCapture_EmptyStream(t *testing.T) {
	if _, err := NewCaptureReader(bytes.NewReader(nil)).Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF on empty stream, got %v", err)
	}
}

func TestCapture_TruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	w := NewCaptureWriter(&buf)
	if err := w.Record(DirRequest, ReqGetFPS, nil); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	truncated := buf.Bytes()[:buf.Len()-1]
	r := NewCaptureReader(bytes.NewReader(truncated))
	if _, err := r.Next(); err == nil {
		t.Error("Expected error on truncated stream")
	}
}
