package canvas

import "math"

// dashPattern is a validated, device-space dash pattern.
type dashPattern struct {
	array  []float64 // even length
	offset float64   // within [0, total)
	total  float64
}

// newDashPattern validates a user dash array. A nil pattern with
// StatusSuccess means a solid line: empty arrays and arrays whose lengths
// are all zero both stroke solid. Negative lengths are invalid.
func newDashPattern(array []float64, offset, scale float64) (*dashPattern, Status) {
	if len(array) == 0 {
		return nil, StatusSuccess
	}
	var total float64
	for _, v := range array {
		if v < 0 || !finite(v) {
			return nil, StatusInvalidDash
		}
		total += v
	}
	if total == 0 {
		return nil, StatusSuccess
	}
	eff := make([]float64, 0, 2*len(array))
	for _, v := range array {
		eff = append(eff, v*scale)
	}
	if len(array)%2 != 0 {
		eff = append(eff, eff...)
		total *= 2
	}
	total *= scale
	off := math.Mod(offset*scale, total)
	if off < 0 {
		off += total
	}
	return &dashPattern{array: eff, offset: off, total: total}, StatusSuccess
}

// onAtStart reports whether a subpath begins inside a dash.
func (d *dashPattern) onAtStart() bool {
	idx, _ := d.locate(0)
	return idx%2 == 0
}

// locate returns the pattern index and the remaining length of that
// entry at distance s from the start of a subpath.
func (d *dashPattern) locate(s float64) (int, float64) {
	pos := math.Mod(d.offset+s, d.total)
	for i, v := range d.array {
		if pos < v {
			return i, v - pos
		}
		pos -= v
	}
	return 0, d.array[0]
}
