// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// quietNoise returns n bytes that can never form part of a sync word.
func quietNoise(rng *rand.Rand, n int) []byte {
	noise := make([]byte, n)
	for i := range noise {
		noise[i] = byte(rng.Intn(0x80))
	}
	return noise
}

// ============================================================
// Receiver Fuzz Tests
// ============================================================

// TestFuzzReceiver_RandomBytes feeds random bytes to an armed receiver
// and verifies it doesn't crash or panic
func TestFuzzReceiver_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		var r Receiver
		r.Arm()

		length := rng.Intn(1024) + 1
		data := make([]byte, length)
		rng.Read(data)

		for _, b := range data {
			r.Feed(b)
		}

		// Whatever arrived, the accessors must stay in bounds.
		_ = r.State()
		_ = r.TypeID()
		_ = r.DataSize()
		_ = r.Payload()
		_ = r.Status()
		if r.State() == StateFrameReady && r.HasChecksum() {
			_ = r.ValidateChecksum()
		}
	}
}

// TestFuzzReceiver_RandomValidFrames assembles random well-formed frames
// behind random leading noise and verifies decode and validation
func TestFuzzReceiver_RandomValidFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		noise := quietNoise(rng, rng.Intn(5))

		// Keep noise + frame within one pass of the receive buffer so the
		// payload window cannot wrap.
		length := rng.Intn(246-len(noise)) + 1
		payload := make([]byte, length)
		rng.Read(payload)
		typeID := byte(rng.Intn(256))

		var r Receiver
		r.Arm()
		for _, b := range noise {
			r.Feed(b)
		}
		for _, b := range buildReply(typeID, payload, true) {
			r.Feed(b)
		}

		if r.State() != StateFrameReady {
			t.Fatalf("Round %d: expected FRAME_READY, got %v (noise=%d len=%d)", i, r.State(), len(noise), length)
		}
		if r.TypeID() != typeID {
			t.Errorf("Round %d: type mismatch: expected 0x%02X, got 0x%02X", i, typeID, r.TypeID())
		}
		if !r.ValidateChecksum() {
			t.Errorf("Round %d: valid frame failed checksum validation", i)
		}
		if !bytes.Equal(r.Payload(), payload) {
			t.Errorf("Round %d: payload mismatch", i)
		}
	}
}

// TestFuzzReceiver_CorruptedFrames corrupts one payload byte per frame
// and verifies checksum validation rejects it
func TestFuzzReceiver_CorruptedFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(200) + 1
		payload := make([]byte, length)
		rng.Read(payload)

		frame := buildReply(RepBlocks, payload, true)
		// Flip one bit in one payload byte. A single-bit error always
		// changes the byte sum.
		idx := CSHeaderSize + rng.Intn(length)
		frame[idx] ^= 1 << rng.Intn(8)

		var r Receiver
		r.Arm()
		for _, b := range frame {
			r.Feed(b)
		}

		if r.State() != StateFrameReady {
			t.Fatalf("Round %d: corrupted payload should still assemble, got %v", i, r.State())
		}
		if r.ValidateChecksum() {
			t.Errorf("Round %d: corrupted frame passed checksum validation", i)
		}
	}
}

// ============================================================
// Feature Parsing Fuzz Tests
// ============================================================

// TestFuzzFeatures_RandomPayloads verifies the record walker never reads
// out of bounds on arbitrary payloads
func TestFuzzFeatures_RandomPayloads(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		payload := make([]byte, rng.Intn(251))
		rng.Read(payload)

		set := parseFeatures(payload)
		if set == nil {
			t.Fatalf("Round %d: parseFeatures returned nil", i)
		}

		// Walking the decoded views must stay in bounds too.
		for j := 0; j < set.Vectors.Len(); j++ {
			v := set.Vectors.At(j)
			_ = v.X0() + v.Y0() + v.X1() + v.Y1()
		}
		for j := 0; j < set.Intersections.Len(); j++ {
			n := set.Intersections.At(j)
			for k := 0; k < int(n.Branches()) && k < MaxIntersectionLines; k++ {
				_ = n.Line(k).Angle()
			}
		}
		for j := 0; j < set.Barcodes.Len(); j++ {
			_ = set.Barcodes.At(j).Code()
		}
		ValidateFeatures(set)
	}
}

// ============================================================
// Driver Fuzz Tests
// ============================================================

// TestFuzzDriver_RandomReplies feeds random well-formed ack frames with
// random status codes and verifies the error mapping
func TestFuzzDriver_RandomReplies(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	tr := &memTransport{}
	d := New(tr)

	for i := 0; i < rounds; i++ {
		code := int32(rng.Intn(16)) - 8

		if err := d.SetLamp(1, 1); !errors.Is(err, ErrBusy) {
			t.Fatalf("Round %d: expected ErrBusy, got %v", i, err)
		}
		for _, b := range quietNoise(rng, rng.Intn(4)) {
			d.Feed(b)
		}
		for _, b := range buildStatusReply(RepAck, code) {
			d.Feed(b)
		}

		err := d.SetLamp(1, 1)
		if code == StatusOK {
			if err != nil {
				t.Fatalf("Round %d: expected success for status 0, got %v", i, err)
			}
		} else {
			var remote *RemoteError
			if !errors.As(err, &remote) || remote.Code != code {
				t.Fatalf("Round %d: expected RemoteError{%d}, got %v", i, code, err)
			}
		}
		if d.State() != StateIdle {
			t.Fatalf("Round %d: expected IDLE after completion, got %v", i, d.State())
		}
	}
}

// ============================================================
// Formatter Fuzz Tests
// ============================================================

// TestFuzzFormatter_AllInputs verifies the formatters never return empty
// strings or panic on arbitrary inputs
func TestFuzzFormatter_AllInputs(t *testing.T) {
	for id := 0; id < 256; id++ {
		if s := FormatRequestType(byte(id)); s == "" {
			t.Errorf("FormatRequestType(0x%02X) returned empty string", id)
		}
		if s := FormatReplyType(byte(id)); s == "" {
			t.Errorf("FormatReplyType(0x%02X) returned empty string", id)
		}
	}
	for code := int32(-10); code <= 2; code++ {
		if s := FormatStatus(code); s == "" {
			t.Errorf("FormatStatus(%d) returned empty string", code)
		}
	}
}
