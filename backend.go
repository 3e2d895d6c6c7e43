package plotgg

import (
	"image"

	"github.com/gogpu/plotgg/geom"
)

// Backend is the drawing contract of the plotting library: the complete
// set of operations a figure uses to render itself. *Renderer is its
// implementation.
//
// Coordinates passed to a Backend are display coordinates: pixels with
// the origin at the bottom-left of the canvas and y growing upwards.
// Sizes such as line widths and font sizes are in points.
type Backend interface {
	// DrawPath draws path mapped by m. The fill, when non-nil, is painted
	// first, then the hatch of gs, then the stroke.
	DrawPath(gs *GraphicsState, path geom.Path, m geom.Matrix, fill Paint) error

	// DrawMarkers draws marker, mapped by markerTrans (points to pixels,
	// centred on the origin), at every position mapped by trans.
	DrawMarkers(gs *GraphicsState, marker geom.Path, markerTrans geom.Matrix, positions []geom.Point, trans geom.Matrix, fill Paint) error

	// DrawPathCollection draws many paths with per-item properties.
	DrawPathCollection(gs *GraphicsState, c *Collection) error

	// DrawImage composites img with its bottom-left corner at (x, y). When
	// m is non-nil it maps image pixels (origin bottom-left, y up) to
	// display coordinates relative to (x, y). img is read during the call
	// only.
	DrawImage(gs *GraphicsState, x, y float64, img image.Image, m *geom.Matrix) error

	// DrawText draws run with its baseline origin at (x, y), rotated by
	// angle degrees counter-clockwise. raster requests hinted glyph
	// masks instead of outlines.
	DrawText(gs *GraphicsState, run TextRun, x, y, angle float64, raster bool) error

	// DrawGouraudTriangle draws one triangle with per-vertex colours.
	DrawGouraudTriangle(gs *GraphicsState, pts [3]geom.Point, colors [3]RGBA, m geom.Matrix) error

	// DrawGouraudTriangles draws triangles with per-vertex colours; the
	// two slices must have equal lengths.
	DrawGouraudTriangles(gs *GraphicsState, tris [][3]geom.Point, colors [][3]RGBA, m geom.Matrix) error

	// DrawQuadMesh draws a structured quadrilateral mesh.
	DrawQuadMesh(gs *GraphicsState, mesh *QuadMesh) error

	// NewGraphicsState returns a graphics state with default values.
	NewGraphicsState() *GraphicsState

	// CanvasSize returns the canvas size in pixels.
	CanvasSize() (width, height float64)

	// PointsToPixels converts a length in points to pixels.
	PointsToPixels(points float64) float64
}

var _ Backend = (*Renderer)(nil)
