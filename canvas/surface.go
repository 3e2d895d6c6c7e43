package canvas

import (
	"image"
	"image/color"
)

// Format is the pixel layout of an image surface.
type Format int

const (
	// FormatARGB32 stores premultiplied 8-bit RGBA pixels.
	FormatARGB32 Format = iota
	// FormatA8 stores an 8-bit alpha channel only. Used for masks.
	FormatA8
)

// Allocation limits. Requests above them fail with StatusInvalidSize
// (a single dimension) or StatusNoMemory (total pixel count).
var (
	MaxDimension = 32767
	MaxPixels    = 1 << 28
)

// Surface is a pixel target. It owns its pixel buffer unless created by
// NewSurfaceForImage, in which case the caller keeps ownership and must
// keep the image alive while the surface is in use.
type Surface struct {
	format Format
	rgba   *image.RGBA
	alpha  *image.Alpha
	bounds image.Rectangle
	status Status
}

// NewImageSurface allocates a cleared surface. On failure the returned
// surface is non-nil and carries the error status.
func NewImageSurface(format Format, width, height int) *Surface {
	s := &Surface{format: format}
	switch {
	case format != FormatARGB32 && format != FormatA8:
		s.status = StatusInvalidFormat
		return s
	case width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension:
		s.status = StatusInvalidSize
		return s
	case width*height > MaxPixels:
		s.status = StatusNoMemory
		return s
	}
	s.bounds = image.Rect(0, 0, width, height)
	if format == FormatA8 {
		s.alpha = image.NewAlpha(s.bounds)
	} else {
		s.rgba = image.NewRGBA(s.bounds)
	}
	return s
}

// NewSurfaceForImage wraps an existing premultiplied RGBA image, such as a
// buffer supplied by a windowing toolkit. The image's bounds need not start
// at the origin; device pixel (0, 0) maps to img.Bounds().Min.
func NewSurfaceForImage(img *image.RGBA) *Surface {
	if img == nil {
		return &Surface{status: StatusNullPointer}
	}
	b := img.Bounds()
	if b.Empty() {
		return &Surface{status: StatusInvalidSize}
	}
	return &Surface{format: FormatARGB32, rgba: img, bounds: b}
}

// NewSurfaceForAlpha wraps an existing alpha mask as an A8 surface.
func NewSurfaceForAlpha(img *image.Alpha) *Surface {
	if img == nil {
		return &Surface{status: StatusNullPointer}
	}
	b := img.Bounds()
	if b.Empty() {
		return &Surface{status: StatusInvalidSize}
	}
	return &Surface{format: FormatA8, alpha: img, bounds: b}
}

// NewSurfaceFromImage copies any image into a new ARGB32 surface.
func NewSurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	s := NewImageSurface(FormatARGB32, b.Dx(), b.Dy())
	if s.status != StatusSuccess {
		return s
	}
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(s.rgba.Pix[y*s.rgba.Stride:y*s.rgba.Stride+4*b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return s
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			s.rgba.SetRGBA(x, y, c)
		}
	}
	return s
}

// Status returns the surface status.
func (s *Surface) Status() Status {
	if s == nil {
		return StatusNullPointer
	}
	return s.status
}

// Format returns the pixel format.
func (s *Surface) Format() Format { return s.format }

// Width returns the width in pixels.
func (s *Surface) Width() int { return s.bounds.Dx() }

// Height returns the height in pixels.
func (s *Surface) Height() int { return s.bounds.Dy() }

// Image returns the RGBA pixels of an ARGB32 surface, or nil.
func (s *Surface) Image() *image.RGBA { return s.rgba }

// Alpha returns the pixels of an A8 surface, or nil.
func (s *Surface) Alpha() *image.Alpha { return s.alpha }

// PixelArea returns width*height.
func (s *Surface) PixelArea() int { return s.bounds.Dx() * s.bounds.Dy() }

// Clear sets every pixel to transparent.
func (s *Surface) Clear() {
	if s.status != StatusSuccess {
		return
	}
	if s.alpha != nil {
		for y := s.bounds.Min.Y; y < s.bounds.Max.Y; y++ {
			i := s.alpha.PixOffset(s.bounds.Min.X, y)
			clear(s.alpha.Pix[i : i+s.bounds.Dx()])
		}
		return
	}
	for y := s.bounds.Min.Y; y < s.bounds.Max.Y; y++ {
		i := s.rgba.PixOffset(s.bounds.Min.X, y)
		clear(s.rgba.Pix[i : i+4*s.bounds.Dx()])
	}
}

// Finish releases the pixel buffer. Later drawing latches
// StatusSurfaceFinished on contexts targeting the surface.
func (s *Surface) Finish() {
	if s.status != StatusSuccess {
		return
	}
	s.rgba, s.alpha = nil, nil
	s.status = StatusSurfaceFinished
}

// at returns the premultiplied pixel at device (x, y). Out of range
// pixels are transparent.
func (s *Surface) at(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.bounds.Dx() || y >= s.bounds.Dy() {
		return color.RGBA{}
	}
	if s.alpha != nil {
		return color.RGBA{A: s.alpha.Pix[s.alpha.PixOffset(s.bounds.Min.X+x, s.bounds.Min.Y+y)]}
	}
	i := s.rgba.PixOffset(s.bounds.Min.X+x, s.bounds.Min.Y+y)
	p := s.rgba.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// pix returns the backing buffer and the byte offset of device pixel
// (x, y).
func (s *Surface) pix(x, y int) ([]byte, int) {
	if s.alpha != nil {
		return s.alpha.Pix, s.alpha.PixOffset(s.bounds.Min.X+x, s.bounds.Min.Y+y)
	}
	return s.rgba.Pix, s.rgba.PixOffset(s.bounds.Min.X+x, s.bounds.Min.Y+y)
}

// deviceRect returns the surface extent in device pixels.
func (s *Surface) deviceRect() image.Rectangle {
	return image.Rect(0, 0, s.bounds.Dx(), s.bounds.Dy())
}
