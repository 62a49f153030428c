// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Capture direction markers.
const (
	DirRequest = "req"
	DirReply   = "rep"
)

// CaptureRecord is one captured frame. Unlike the view types, a record
// owns its payload copy, so captures stay valid after the receive buffer
// is reused.
type CaptureRecord struct {
	Timestamp time.Time `cbor:"1,keyasint"`
	Direction string    `cbor:"2,keyasint"`
	TypeID    byte      `cbor:"3,keyasint"`
	Payload   []byte    `cbor:"4,keyasint"`
}

func (r CaptureRecord) String() string {
	name := FormatRequestType(r.TypeID)
	if r.Direction == DirReply {
		name = FormatReplyType(r.TypeID)
	}
	return fmt.Sprintf("%s %s %s len=%d", r.Timestamp.Format("15:04:05.000"), r.Direction, name, len(r.Payload))
}

// CaptureWriter appends frame records to a CBOR stream.
type CaptureWriter struct {
	enc *cbor.Encoder
}

func NewCaptureWriter(w io.Writer) *CaptureWriter {
	return &CaptureWriter{enc: cbor.NewEncoder(w)}
}

// Record copies the payload and appends one record to the stream.
func (c *CaptureWriter) Record(direction string, typeID byte, payload []byte) error {
	rec := CaptureRecord{
		Timestamp: time.Now(),
		Direction: direction,
		TypeID:    typeID,
		Payload:   append([]byte(nil), payload...),
	}
	if err := c.enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write capture record: %w", err)
	}
	return nil
}

// CaptureReader reads frame records back from a CBOR stream.
type CaptureReader struct {
	dec *cbor.Decoder
}

func NewCaptureReader(r io.Reader) *CaptureReader {
	return &CaptureReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at end of stream.
func (c *CaptureReader) Next() (CaptureRecord, error) {
	var rec CaptureRecord
	if err := c.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return CaptureRecord{}, io.EOF
		}
		return CaptureRecord{}, fmt.Errorf("failed to read capture record: %w", err)
	}
	return rec, nil
}
