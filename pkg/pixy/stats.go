// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import (
	"fmt"
	"time"
)

// Statistics tracks per-session frame and error counters for the
// monitoring tools. It is not part of the command path and is only ever
// touched from the polling side.
type Statistics struct {
	StartTime time.Time

	// Counters
	TotalFrames     uint64
	ValidFrames     uint64
	ChecksumErrors  uint64
	TypeErrors      uint64
	RemoteErrors    uint64
	AnomalousValues uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records the outcome of one completed poll cycle. err is the
// result of the facade operation (nil for success), anomalies the number
// of plausibility findings reported by the validator.
func (s *Statistics) Update(err error, anomalies int) {
	s.TotalFrames++

	switch {
	case err == nil && anomalies == 0:
		s.ValidFrames++
	case err == nil:
		s.AnomalousValues += uint64(anomalies)
	default:
		switch e := err; {
		case e == ErrBadChecksum:
			s.ChecksumErrors++
		case e == ErrTypeMismatch:
			s.TypeErrors++
		default:
			s.RemoteErrors++
		}
	}
}

// CalculateRates recomputes the frame and error rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.ChecksumErrors + s.TypeErrors + s.RemoteErrors
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d\n", s.ChecksumErrors)
	}
	if s.TypeErrors > 0 {
		result += fmt.Sprintf("Type Errors:     %8d\n", s.TypeErrors)
	}
	if s.RemoteErrors > 0 {
		result += fmt.Sprintf("Remote Errors:   %8d\n", s.RemoteErrors)
	}
	if s.AnomalousValues > 0 {
		result += fmt.Sprintf("Anomalous Values:%8d\n", s.AnomalousValues)
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all counters.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}
