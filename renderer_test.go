package plotgg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/plotgg/cache"
	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
	"github.com/gogpu/plotgg/text"
)

func newTestRenderer(t *testing.T, w, h int, opts ...Option) *Renderer {
	t.Helper()
	opts = append([]Option{WithCache(cache.New(cache.Config{}))}, opts...)
	r, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d) = %v", w, h, err)
	}
	return r
}

func textFont(family string, size float64) text.Font {
	return text.Font{Family: family, Size: size}
}

func px(r *Renderer, x, y int) color.RGBA {
	return r.Surface().Image().RGBAAt(x, y)
}

func inked(r *Renderer) (n int, box image.Rectangle) {
	img := r.Surface().Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A > 0 {
				n++
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return n, box
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts []Option
	}{
		{"zero width", 0, 10, nil},
		{"negative height", 10, -1, nil},
		{"negative dpi", 10, 10, []Option{WithDPI(-1)}},
		{"nan dpi", 10, 10, []Option{WithDPI(math.NaN())}},
		{"zero subpixels", 10, 10, []Option{WithMarkerSubpixels(0)}},
		{"zero tolerance", 10, 10, []Option{WithTolerance(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h, tt.opts...)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("New() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestBindNil(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	if err := r.Bind(nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Bind(nil) = %v, want ErrNoSurface", err)
	}
	bad := canvas.NewImageSurface(canvas.FormatARGB32, 0, 0)
	if err := r.Bind(bad); !errors.Is(err, ErrNativeFailure) {
		t.Errorf("Bind(invalid) = %v, want ErrNativeFailure", err)
	}
}

func TestCanvasSizeAndPoints(t *testing.T) {
	r := newTestRenderer(t, 64, 48, WithDPI(144))
	w, h := r.CanvasSize()
	if w != 64 || h != 48 {
		t.Errorf("CanvasSize() = %v, %v", w, h)
	}
	if got := r.PointsToPixels(1); got != 2 {
		t.Errorf("PointsToPixels(1) at 144 dpi = %v, want 2", got)
	}
}

func TestUnitSquareFill(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	gs := r.NewGraphicsState()
	gs.LineWidth = 0
	if err := r.DrawPath(gs, geom.Rectangle(1, 1, 2, 2), geom.Identity(), Black); err != nil {
		t.Fatalf("DrawPath() = %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			want := uint8(0)
			if x >= 1 && x < 3 && y >= 1 && y < 3 {
				want = 255
			}
			if got := px(r, x, y).A; got != want {
				t.Errorf("pixel (%d,%d) alpha = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestDisplayOriginIsBottomLeft(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	gs := r.NewGraphicsState()
	gs.LineWidth = 0
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 2, 2), geom.Identity(), Black); err != nil {
		t.Fatal(err)
	}
	if px(r, 0, 7).A != 255 {
		t.Error("display origin did not map to the bottom-left pixel")
	}
	if px(r, 0, 0).A != 0 {
		t.Error("top-left pixel painted")
	}
}

func TestNaNBreaksLine(t *testing.T) {
	r := newTestRenderer(t, 32, 32)
	gs := r.NewGraphicsState()
	line := geom.Polyline(geom.Pt(0, 5), geom.Pt(math.NaN(), 5), geom.Pt(10, 5), geom.Pt(20, 5))
	if err := r.DrawPath(gs, line, geom.Identity(), nil); err != nil {
		t.Fatalf("DrawPath() = %v", err)
	}
	// Display y 5 is device row 27 on a 32 pixel canvas.
	if px(r, 15, 27).A == 0 && px(r, 15, 26).A == 0 {
		t.Error("segment after the gap was not drawn")
	}
	if px(r, 5, 27).A != 0 || px(r, 5, 26).A != 0 {
		t.Error("segment touching the NaN vertex was drawn")
	}
}

func TestAllNaNPathIsNoop(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	gs := r.NewGraphicsState()
	nan := math.NaN()
	if err := r.DrawPath(gs, geom.Polyline(geom.Pt(nan, 1), geom.Pt(2, nan)), geom.Identity(), Black); err != nil {
		t.Fatalf("DrawPath() = %v", err)
	}
	if n, _ := inked(r); n != 0 {
		t.Errorf("%d pixels painted", n)
	}
}

func TestInvalidPathCodes(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	p := geom.Path{Vertices: []geom.Point{{X: 1, Y: 1}}, Codes: []geom.Code{geom.Curve4}}
	err := r.DrawPath(r.NewGraphicsState(), p, geom.Identity(), nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("DrawPath() = %v, want ErrInvalidArgument", err)
	}
}

func TestStateBalancedAfterFailure(t *testing.T) {
	r := newTestRenderer(t, 16, 16)
	gs := r.NewGraphicsState()
	clip := geom.Rect{X: 2, Y: 2, W: 8, H: 8}
	gs.SetClipRectangle(&clip)
	gs.SetDashes(0, []float64{-1, 2})
	err := r.DrawPath(gs, geom.Rectangle(0, 0, 10, 10), geom.Identity(), Black)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DrawPath() = %v, want ErrInvalidArgument", err)
	}
	if d := r.ctx.Depth(); d != 0 {
		t.Errorf("state depth after failure = %d, want 0", d)
	}
	if got := r.Stats().Failures; got != 1 {
		t.Errorf("Failures = %d, want 1", got)
	}

	// The clip of the failed call must not leak into the next one.
	gs = r.NewGraphicsState()
	gs.LineWidth = 0
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 16, 16), geom.Identity(), Black); err != nil {
		t.Fatal(err)
	}
	if px(r, 0, 0).A != 255 {
		t.Error("clip of the failed call leaked")
	}
}

func TestClipRectangle(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	gs := r.NewGraphicsState()
	gs.LineWidth = 0
	gs.SetClipRectangle(&geom.Rect{W: 2, H: 2})
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 4, 4), geom.Identity(), Black); err != nil {
		t.Fatal(err)
	}
	n, box := inked(r)
	if n != 4 || box != image.Rect(0, 2, 2, 4) {
		t.Errorf("painted %d pixels in %v, want 4 in (0,2)-(2,4)", n, box)
	}
}

func TestClear(t *testing.T) {
	r := newTestRenderer(t, 3, 3)
	if err := r.Clear(White); err != nil {
		t.Fatal(err)
	}
	if n, _ := inked(r); n != 9 {
		t.Errorf("Clear painted %d pixels, want 9", n)
	}
	if err := r.Clear(Transparent); err != nil {
		t.Fatal(err)
	}
	if n, _ := inked(r); n != 0 {
		t.Errorf("Clear(Transparent) left %d pixels", n)
	}
}

func TestMarkersConvertOnce(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	gs := r.NewGraphicsState()
	positions := make([]geom.Point, 10000)
	for i := range positions {
		positions[i] = geom.Pt(float64(i%100)+0.5, float64(i/100)+0.5)
	}
	for range 2 {
		err := r.DrawMarkers(gs, geom.UnitCircle(), geom.Scale(2, 2), positions, geom.Identity(), RGB(1, 0, 0))
		if err != nil {
			t.Fatalf("DrawMarkers() = %v", err)
		}
	}
	st := r.Stats()
	if st.MarkerConversions != 1 {
		t.Errorf("MarkerConversions = %d, want 1", st.MarkerConversions)
	}
	if st.Cache.Builds != 1 {
		t.Errorf("cache builds = %d, want 1", st.Cache.Builds)
	}
	if st.MarkersStamped != 20000 {
		t.Errorf("MarkersStamped = %d, want 20000", st.MarkersStamped)
	}
	if st.StampBuilds == 0 || st.StampBuilds > DefaultMarkerSubpixels*DefaultMarkerSubpixels {
		t.Errorf("StampBuilds = %d", st.StampBuilds)
	}
}

func TestLargeMarkersReplay(t *testing.T) {
	r := newTestRenderer(t, 64, 64, WithStampThreshold(4))
	gs := r.NewGraphicsState()
	pos := []geom.Point{{X: 20, Y: 20}, {X: 40, Y: 40}}
	if err := r.DrawMarkers(gs, geom.UnitCircle(), geom.Scale(8, 8), pos, geom.Identity(), Black); err != nil {
		t.Fatal(err)
	}
	st := r.Stats()
	if st.MarkersReplayed != 2 || st.MarkersStamped != 0 {
		t.Errorf("replayed %d stamped %d, want 2 and 0", st.MarkersReplayed, st.MarkersStamped)
	}
	if px(r, 20, 44).A != 255 {
		t.Error("marker centre not filled")
	}
}

func TestStampedAndReplayedMarkersAgree(t *testing.T) {
	draw := func(threshold float64) *Renderer {
		r := newTestRenderer(t, 32, 32, WithStampThreshold(threshold), WithMarkerSubpixels(1))
		gs := r.NewGraphicsState()
		gs.LineWidth = 0
		err := r.DrawMarkers(gs, geom.Rectangle(-2, -2, 4, 4), geom.Identity(), []geom.Point{{X: 10, Y: 10}}, geom.Identity(), Black)
		if err != nil {
			t.Fatal(err)
		}
		return r
	}
	a, b := draw(DefaultStampThreshold), draw(0)
	if !bytes.Equal(a.Surface().Image().Pix, b.Surface().Image().Pix) {
		t.Error("stamped marker differs from replayed marker")
	}
}

func TestMarkerStampRetriesAfterFailure(t *testing.T) {
	prog, err := convert.Convert(geom.Rectangle(0, 0, 4, 4), geom.Identity(), convert.Options{Snap: convert.SnapOff})
	if err != nil {
		t.Fatal(err)
	}
	e := &markerEntry{
		prog: prog, stroke: true, aa: true,
		n: 1, ox: 2, oy: 2, w: 10, h: 10,
		style:  markerStroke{width: 1, dash: []float64{-1}},
		stamps: make([]markerStamp, 1),
	}
	builds := 0
	built := func() { builds++ }
	if _, _, err := e.stamp(0, 0, built); !errors.Is(err, ErrNativeFailure) {
		t.Fatalf("stamp() = %v, want ErrNativeFailure", err)
	}
	e.style.dash = nil
	_, stroke, err := e.stamp(0, 0, built)
	if err != nil {
		t.Fatalf("stamp() after failure = %v", err)
	}
	if stroke == nil || builds != 1 {
		t.Errorf("stroke = %v, builds = %d, want a stamp and 1 build", stroke, builds)
	}
}

func TestGradientHandleReuse(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	gs := r.NewGraphicsState()
	g := &LinearGradient{
		End:   geom.Pt(8, 0),
		Stops: []GradientStop{{0, Black}, {1, White}},
	}
	h1, err := r.gradient(g, r.flip(), gs)
	if err != nil {
		t.Fatal(err)
	}
	defer h1.Release()
	h2, err := r.gradient(&LinearGradient{End: geom.Pt(8, 0), Stops: []GradientStop{{0, Black}, {1, White}}}, r.flip(), gs)
	if err != nil {
		t.Fatal(err)
	}
	defer h2.Release()
	if !h1.Same(h2) {
		t.Error("identical gradients produced different handles")
	}
	h3, err := r.gradient(&LinearGradient{End: geom.Pt(8, 0), Stops: []GradientStop{{0, Black}, {1, RGB(1, 0, 0)}}}, r.flip(), gs)
	if err != nil {
		t.Fatal(err)
	}
	defer h3.Release()
	if h1.Same(h3) {
		t.Error("gradients with different stops share a handle")
	}
}

func TestGradientFill(t *testing.T) {
	r := newTestRenderer(t, 16, 4)
	gs := r.NewGraphicsState()
	gs.LineWidth = 0
	g := &LinearGradient{End: geom.Pt(16, 0), Stops: []GradientStop{{0, RGB(1, 0, 0)}, {1, RGB(0, 0, 1)}}}
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 16, 4), geom.Identity(), g); err != nil {
		t.Fatal(err)
	}
	left, right := px(r, 0, 2), px(r, 15, 2)
	if left.R <= left.B || right.B <= right.R {
		t.Errorf("gradient endpoints left=%v right=%v", left, right)
	}
}

func TestRebindKeepsPatterns(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	gs := r.NewGraphicsState()
	g := &RadialGradient{C0: geom.Pt(4, 4), C1: geom.Pt(4, 4), R1: 4, Stops: []GradientStop{{0, White}, {1, Black}}}
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 8, 8), geom.Identity(), g); err != nil {
		t.Fatal(err)
	}
	if err := r.Bind(canvas.NewImageSurface(canvas.FormatARGB32, 8, 8)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 8, 8), geom.Identity(), g); err != nil {
		t.Fatal(err)
	}
	if b := r.Cache().Stats().Builds; b != 1 {
		t.Errorf("cache builds after rebind = %d, want 1", b)
	}
}

func TestHatchFill(t *testing.T) {
	r := newTestRenderer(t, 16, 16)
	gs := r.NewGraphicsState()
	gs.LineWidth = 0
	gs.Hatch = "/"
	if err := r.DrawPath(gs, geom.Rectangle(0, 0, 16, 16), geom.Identity(), nil); err != nil {
		t.Fatal(err)
	}
	n, _ := inked(r)
	if n == 0 || n == 256 {
		t.Errorf("hatch painted %d of 256 pixels", n)
	}
}

func TestInvalidHatch(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	gs := r.NewGraphicsState()
	gs.Hatch = "#"
	err := r.DrawPath(gs, geom.Rectangle(0, 0, 2, 2), geom.Identity(), Black)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("DrawPath() = %v, want ErrInvalidArgument", err)
	}
}

func TestPathCollectionCycles(t *testing.T) {
	r := newTestRenderer(t, 12, 4)
	gs := r.NewGraphicsState()
	red, blue := RGB(1, 0, 0), RGB(0, 0, 1)
	c := &Collection{
		Master:          geom.Identity(),
		Paths:           []geom.Path{geom.Rectangle(0, 0, 2, 2)},
		Offsets:         []geom.Point{{X: 0}, {X: 4}, {X: 8}},
		OffsetTransform: geom.Identity(),
		FaceColors:      []RGBA{red, blue},
	}
	if err := r.DrawPathCollection(gs, c); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		x    int
		want color.RGBA
	}{
		{1, color.RGBA{R: 255, A: 255}},
		{5, color.RGBA{B: 255, A: 255}},
		{9, color.RGBA{R: 255, A: 255}},
		{3, color.RGBA{}},
	} {
		if got := px(r, tt.x, 3); got != tt.want {
			t.Errorf("pixel (%d,3) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestUniformCollectionUsesMarkers(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	gs := r.NewGraphicsState()
	offsets := make([]geom.Point, 50)
	for i := range offsets {
		offsets[i] = geom.Pt(float64(i)+1, 32)
	}
	c := &Collection{
		Master:          geom.Scale(2, 2),
		Paths:           []geom.Path{geom.UnitCircle()},
		Offsets:         offsets,
		OffsetTransform: geom.Identity(),
		FaceColors:      []RGBA{Black},
	}
	if err := r.DrawPathCollection(gs, c); err != nil {
		t.Fatal(err)
	}
	if got := r.Stats().MarkersStamped; got != 50 {
		t.Errorf("MarkersStamped = %d, want 50", got)
	}
}

func TestEmptyCollection(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	c := &Collection{Offsets: []geom.Point{{X: 1, Y: 1}}, FaceColors: []RGBA{Black}}
	if err := r.DrawPathCollection(r.NewGraphicsState(), c); err != nil {
		t.Fatal(err)
	}
	if n, _ := inked(r); n != 0 {
		t.Errorf("collection without paths painted %d pixels", n)
	}
}

func TestDrawImagePlacement(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	if err := r.DrawImage(r.NewGraphicsState(), 0, 0, img, nil); err != nil {
		t.Fatal(err)
	}
	if got := px(r, 0, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("bottom-left pixel = %v", got)
	}
	if n, _ := inked(r); n != 1 {
		t.Errorf("painted %d pixels, want 1", n)
	}
}

func TestDrawImageTransformed(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	m := geom.Scale(2, 2)
	if err := r.DrawImage(r.NewGraphicsState(), 0, 0, img, &m); err != nil {
		t.Fatal(err)
	}
	if px(r, 1, 3).G == 0 {
		t.Error("scaled image pixel missing")
	}
	if px(r, 3, 0).G != 0 {
		t.Error("green leaked into the far corner")
	}
}

func TestDrawImageAlpha(t *testing.T) {
	r := newTestRenderer(t, 2, 2)
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	gs := r.NewGraphicsState()
	gs.Alpha = 0.5
	if err := r.DrawImage(gs, 0, 0, img, nil); err != nil {
		t.Fatal(err)
	}
	if a := px(r, 0, 1).A; a < 120 || a > 135 {
		t.Errorf("alpha = %d, want about 128", a)
	}
}

func TestDrawTextModes(t *testing.T) {
	run := TextRun{Text: "Hg", Font: textFont("sans-serif", 16)}
	var boxes []image.Rectangle
	for _, raster := range []bool{false, true} {
		r := newTestRenderer(t, 64, 32)
		if err := r.DrawText(r.NewGraphicsState(), run, 4, 10, 0, raster); err != nil {
			t.Fatalf("DrawText(raster=%v) = %v", raster, err)
		}
		n, box := inked(r)
		if n == 0 {
			t.Fatalf("DrawText(raster=%v) painted nothing", raster)
		}
		boxes = append(boxes, box)
	}
	if boxes[0].Intersect(boxes[1]).Empty() {
		t.Errorf("vector ink %v and raster ink %v do not overlap", boxes[0], boxes[1])
	}
}

func TestDrawTextRotated(t *testing.T) {
	r := newTestRenderer(t, 64, 64, WithTextMode(TextRaster))
	run := TextRun{Text: "ll", Font: textFont("monospace", 14)}
	if err := r.DrawText(r.NewGraphicsState(), run, 32, 32, 90, false); err != nil {
		t.Fatal(err)
	}
	_, box := inked(r)
	if box.Dy() <= box.Dx() {
		t.Errorf("rotated text ink %v is not taller than wide", box)
	}
}

func TestTextExtents(t *testing.T) {
	r := newTestRenderer(t, 8, 8, WithDPI(144))
	w1, _, _, err := r.TextExtents(TextRun{Text: "abc", Font: textFont("sans-serif", 10)})
	if err != nil {
		t.Fatal(err)
	}
	r2 := newTestRenderer(t, 8, 8)
	w2, _, _, err := r2.TextExtents(TextRun{Text: "abc", Font: textFont("sans-serif", 10)})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(w1-2*w2) > 0.1 {
		t.Errorf("extent at 144 dpi = %v, want twice %v", w1, w2)
	}
}

func TestGouraudTriangle(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	red := RGB(1, 0, 0)
	pts := [3]geom.Point{{X: -1, Y: -1}, {X: 20, Y: -1}, {X: -1, Y: 20}}
	if err := r.DrawGouraudTriangle(r.NewGraphicsState(), pts, [3]RGBA{red, red, red}, geom.Identity()); err != nil {
		t.Fatal(err)
	}
	if got := px(r, 2, 5); got.R < 250 || got.A != 255 {
		t.Errorf("pixel inside triangle = %v", got)
	}
}

func TestGouraudLengthMismatch(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	tris := make([][3]geom.Point, 2)
	colors := make([][3]RGBA, 1)
	err := r.DrawGouraudTriangles(r.NewGraphicsState(), tris, colors, geom.Identity())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DrawGouraudTriangles() = %v, want ErrInvalidArgument", err)
	}
	if n, _ := inked(r); n != 0 {
		t.Errorf("%d pixels painted before validation failed", n)
	}
}

func TestQuadMeshFlat(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	mesh := &QuadMesh{
		Cols: 2, Rows: 1,
		Coords: []geom.Point{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 8, Y: 0},
			{X: 0, Y: 8}, {X: 4, Y: 8}, {X: 8, Y: 8},
		},
		Transform:   geom.Identity(),
		FaceColors:  []RGBA{RGB(1, 0, 0), RGB(0, 0, 1)},
		Antialiased: true,
	}
	if err := r.DrawQuadMesh(r.NewGraphicsState(), mesh); err != nil {
		t.Fatal(err)
	}
	if got := px(r, 1, 4); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("left cell = %v", got)
	}
	if got := px(r, 6, 4); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("right cell = %v", got)
	}
}

func TestQuadMeshGouraud(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	c := RGB(0, 1, 0)
	mesh := &QuadMesh{
		Cols: 1, Rows: 1,
		Coords:     []geom.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8}, {X: 8, Y: 8}},
		Transform:  geom.Identity(),
		Shading:    ShadingGouraud,
		FaceColors: []RGBA{c, c, c, c},
	}
	if err := r.DrawQuadMesh(r.NewGraphicsState(), mesh); err != nil {
		t.Fatal(err)
	}
	if n, _ := inked(r); n != 64 {
		t.Errorf("mesh covered %d of 64 pixels", n)
	}
	if got := px(r, 4, 4); got.G < 250 {
		t.Errorf("centre = %v", got)
	}
}

func TestQuadMeshInvalid(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	tests := []struct {
		name string
		mesh *QuadMesh
	}{
		{"nil", nil},
		{"coords", &QuadMesh{Cols: 1, Rows: 1, Coords: make([]geom.Point, 3)}},
		{"gouraud colours", &QuadMesh{Cols: 1, Rows: 1, Coords: make([]geom.Point, 4), Shading: ShadingGouraud, FaceColors: make([]RGBA, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.DrawQuadMesh(r.NewGraphicsState(), tt.mesh); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("DrawQuadMesh() = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func drawScene(t *testing.T) []byte {
	t.Helper()
	r := newTestRenderer(t, 96, 64)
	gs := r.NewGraphicsState()
	gs.LineWidth = 1.5
	gs.SetDashes(0, []float64{4, 2})
	line := geom.Polyline(geom.Pt(0, 0), geom.Pt(30, 40), geom.Pt(math.NaN(), 0), geom.Pt(60, 10), geom.Pt(90, 50))
	if err := r.DrawPath(gs, line, geom.Identity(), nil); err != nil {
		t.Fatal(err)
	}
	gs = r.NewGraphicsState()
	gs.Hatch = "x"
	if err := r.DrawPath(gs, geom.Rectangle(10, 10, 20, 30), geom.Identity(), RGB(0.2, 0.4, 0.8)); err != nil {
		t.Fatal(err)
	}
	pos := []geom.Point{{X: 12.3, Y: 40.7}, {X: 50.5, Y: 20.25}, {X: 70.1, Y: 33.9}}
	if err := r.DrawMarkers(r.NewGraphicsState(), geom.RegularPolygon(5), geom.Scale(4, 4), pos, geom.Identity(), RGB(1, 0.5, 0)); err != nil {
		t.Fatal(err)
	}
	run := TextRun{Text: "plot", Font: textFont("serif", 11)}
	if err := r.DrawText(r.NewGraphicsState(), run, 40, 5, 15, false); err != nil {
		t.Fatal(err)
	}
	return append([]byte(nil), r.Surface().Image().Pix...)
}

func TestDeterministicOutput(t *testing.T) {
	if !bytes.Equal(drawScene(t), drawScene(t)) {
		t.Error("identical scenes rendered differently")
	}
}
