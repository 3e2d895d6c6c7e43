package cache

// Estimated byte costs. These are accounting figures for the budget, not
// exact allocation sizes.
const (
	entryOverhead    = 64
	bytesPerStop     = 40
	bytesPerPixel    = 4
	bytesPerTriangle = 96
	markerOverhead   = 128
)

// Sizer is implemented by values that know their own estimated size. It
// takes precedence over the per-kind estimators.
type Sizer interface {
	EstimatedSize() int64
}

type stopCounter interface{ StopCount() int }

type pixelAreaer interface{ PixelArea() int }

type triangleCounter interface{ TriangleCount() int }

// Estimate returns the estimated memory cost of a cached value:
//
//	solid colours            0
//	gradients                64 + 40 * stops
//	hatch, tile, image       64 + 4 * tile pixels
//	marker stamps            128 + stamp pixels (8-bit masks)
//	meshes                   64 + 96 * triangles
//
// Values of other kinds, or values that do not expose the needed size
// method, cost the fixed entry overhead.
func Estimate(kind Kind, v any) int64 {
	if s, ok := v.(Sizer); ok {
		return s.EstimatedSize()
	}
	switch kind {
	case KindSolid:
		return 0
	case KindLinearGradient, KindRadialGradient:
		if s, ok := v.(stopCounter); ok {
			return entryOverhead + bytesPerStop*int64(s.StopCount())
		}
	case KindHatch, KindTile, KindImage:
		if p, ok := v.(pixelAreaer); ok {
			return entryOverhead + bytesPerPixel*int64(p.PixelArea())
		}
	case KindMarker:
		if p, ok := v.(pixelAreaer); ok {
			return markerOverhead + int64(p.PixelArea())
		}
	case KindMesh:
		if t, ok := v.(triangleCounter); ok {
			return entryOverhead + bytesPerTriangle*int64(t.TriangleCount())
		}
	}
	return entryOverhead
}
