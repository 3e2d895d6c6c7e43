// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"fmt"
	"math"
)

// NormalizeDash scales a dash pattern given in points to device pixels.
// An empty or all-zero pattern means a solid line and yields nil.
func NormalizeDash(offset float64, lengths []float64, scale float64) (float64, []float64, error) {
	if len(lengths) == 0 {
		return 0, nil, nil
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return 0, nil, fmt.Errorf("%w: offset %v", ErrInvalidDash, offset)
	}
	out := make([]float64, len(lengths))
	total := 0.0
	for i, l := range lengths {
		if l < 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return 0, nil, fmt.Errorf("%w: length %v at %d", ErrInvalidDash, l, i)
		}
		out[i] = l * scale
		total += l
	}
	if total == 0 {
		return 0, nil, nil
	}
	return offset * scale, out, nil
}
