// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import "fmt"

// AnomalyType classifies plausibility findings on decoded results.
type AnomalyType int

const (
	AnomalyOutOfRange AnomalyType = iota
	AnomalyInvalidCount
	AnomalyShortRecord
)

// Anomaly is one plausibility finding. Anomalies are diagnostics for the
// monitoring tools only: the command path passes every value through
// unchecked, the camera being authoritative.
type Anomaly struct {
	Type    AnomalyType
	Message string
}

func (a Anomaly) String() string {
	return a.Message
}

// Camera coordinate limits for block and line-tracking results.
const (
	maxBlockX  = 315
	maxBlockY  = 207
	maxLineX   = 78
	maxLineY   = 51
	maxBarcode = 15
)

// ValidateBlocks checks block coordinates against the sensor's frame
// limits.
func ValidateBlocks(blocks Blocks) []Anomaly {
	var anomalies []Anomaly

	for i := 0; i < blocks.Len(); i++ {
		b := blocks.At(i)
		if b.X() > maxBlockX || b.Y() > maxBlockY {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyOutOfRange,
				Message: fmt.Sprintf("block %d position (%d,%d) outside %dx%d frame", i+1, b.X(), b.Y(), maxBlockX+1, maxBlockY+1),
			})
		}
		if b.Width() > maxBlockX+1 || b.Height() > maxBlockY+1 {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyOutOfRange,
				Message: fmt.Sprintf("block %d size %dx%d outside %dx%d frame", i+1, b.Width(), b.Height(), maxBlockX+1, maxBlockY+1),
			})
		}
	}

	return anomalies
}

// ValidateFeatures checks line-tracking results against the line engine's
// coordinate space and record limits.
func ValidateFeatures(set *FeatureSet) []Anomaly {
	if set == nil {
		return nil
	}

	var anomalies []Anomaly

	for i := 0; i < set.Vectors.Len(); i++ {
		v := set.Vectors.At(i)
		if v.X0() > maxLineX || v.Y0() > maxLineY || v.X1() > maxLineX || v.Y1() > maxLineY {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyOutOfRange,
				Message: fmt.Sprintf("vector %d endpoints (%d,%d)->(%d,%d) outside %dx%d grid", i+1, v.X0(), v.Y0(), v.X1(), v.Y1(), maxLineX+1, maxLineY+1),
			})
		}
	}

	for i := 0; i < set.Intersections.Len(); i++ {
		n := set.Intersections.At(i)
		if n.Branches() > MaxIntersectionLines {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyInvalidCount,
				Message: fmt.Sprintf("intersection %d reports %d branches (max %d)", i+1, n.Branches(), MaxIntersectionLines),
			})
		}
	}

	for i := 0; i < set.Barcodes.Len(); i++ {
		c := set.Barcodes.At(i)
		if c.Code() > maxBarcode {
			anomalies = append(anomalies, Anomaly{
				Type:    AnomalyOutOfRange,
				Message: fmt.Sprintf("barcode %d code %d exceeds %d", i+1, c.Code(), maxBarcode),
			})
		}
	}

	return anomalies
}
