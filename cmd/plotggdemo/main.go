// Command plotggdemo renders a sample figure with the plotgg renderer and
// writes it as a PNG.
package main

import (
	"flag"
	"image/png"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/gogpu/plotgg"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/integration/plotcanvas"
	"github.com/gogpu/plotgg/text"
)

func main() {
	var (
		output  = flag.String("o", "plotgg-demo.png", "output file")
		width   = flag.Int("w", 800, "image width in pixels")
		height  = flag.Int("h", 600, "image height in pixels")
		dpi     = flag.Float64("dpi", 0, "resolution; overrides the config file")
		config  = flag.String("config", "", "TOML configuration file")
		markers = flag.Int("markers", 2000, "number of scatter markers")
		verbose = flag.Bool("v", false, "log renderer diagnostics")
	)
	flag.Parse()

	if *verbose {
		plotgg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var opts []plotgg.Option
	bg := plotgg.White
	if *config != "" {
		cfg, err := plotgg.LoadConfigFile(*config)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if opts, err = cfg.Options(); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
		if cfg.Background != "" {
			if bg, err = cfg.BackgroundColor(); err != nil {
				log.Fatalf("Invalid background: %v", err)
			}
		}
	}
	if *dpi > 0 {
		opts = append(opts, plotgg.WithDPI(*dpi))
	}

	fig := &demoFigure{markers: *markers}
	c, err := plotcanvas.New(fig, *width, *height, opts...)
	if err != nil {
		log.Fatalf("Failed to create canvas: %v", err)
	}
	defer c.Close()
	c.SetBackground(bg)
	if err := c.Redraw(); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	if err := png.Encode(f, c.Image()); err != nil {
		f.Close()
		log.Fatalf("Failed to encode: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	st := c.Renderer().Stats()
	log.Printf("Demo saved to %s (%dx%d), %d draws, %d marker conversions, cache hit rate %.2f\n",
		*output, *width, *height, st.Draws, st.MarkerConversions, st.Cache.HitRate())
}

// demoFigure lays out four panels: lines, scatter, bars and a mesh.
type demoFigure struct {
	markers int
}

func (f *demoFigure) Draw(b plotgg.Backend) error {
	w, h := b.CanvasSize()
	panels := []struct {
		draw func(plotgg.Backend, geom.Rect) error
		box  geom.Rect
	}{
		{drawLines, geom.Rect{X: 0, Y: h / 2, W: w / 2, H: h / 2}},
		{f.drawScatter, geom.Rect{X: w / 2, Y: h / 2, W: w / 2, H: h / 2}},
		{drawBars, geom.Rect{X: 0, Y: 0, W: w / 2, H: h / 2}},
		{drawMesh, geom.Rect{X: w / 2, Y: 0, W: w / 2, H: h / 2}},
	}
	for _, p := range panels {
		axes := p.box.Inset(40)
		if err := drawFrame(b, axes); err != nil {
			return err
		}
		if err := p.draw(b, axes); err != nil {
			return err
		}
	}
	return nil
}

func drawFrame(b plotgg.Backend, box geom.Rect) error {
	gs := b.NewGraphicsState()
	gs.LineWidth = 0.8
	return b.DrawPath(gs, geom.Rectangle(box.X, box.Y, box.W, box.H), geom.Identity(), nil)
}

func title(b plotgg.Backend, box geom.Rect, s string) error {
	run := plotgg.TextRun{Text: s, Font: text.Font{Family: "sans-serif", Size: 11}}
	return b.DrawText(b.NewGraphicsState(), run, box.X, box.MaxY()+6, 0, false)
}

// drawLines plots two curves; the second has gaps where its values are
// undefined.
func drawLines(b plotgg.Backend, box geom.Rect) error {
	const n = 400
	sine := make([]geom.Point, n)
	gappy := make([]geom.Point, n)
	for i := range n {
		x := float64(i) / (n - 1)
		sine[i] = geom.Pt(x, 0.5+0.4*math.Sin(4*math.Pi*x))
		y := 0.5 + 0.3*math.Cos(6*math.Pi*x)
		if i%50 > 40 {
			y = math.NaN()
		}
		gappy[i] = geom.Pt(x, y)
	}
	m := geom.Translate(box.X, box.Y).Multiply(geom.Scale(box.W, box.H))

	gs := b.NewGraphicsState()
	gs.LineWidth = 1.5
	gs.Foreground = plotgg.RGB(0.12, 0.47, 0.71)
	gs.SetClipRectangle(&box)
	if err := b.DrawPath(gs, geom.Polyline(sine...), m, nil); err != nil {
		return err
	}
	gs.Foreground = plotgg.RGB(1, 0.5, 0.05)
	gs.SetDashes(0, []float64{6, 3})
	gs.Cap = plotgg.CapRound
	if err := b.DrawPath(gs, geom.Polyline(gappy...), m, nil); err != nil {
		return err
	}
	return title(b, box, "lines with gaps")
}

// drawScatter draws many identical markers, which share one cached stamp
// set.
func (f *demoFigure) drawScatter(b plotgg.Backend, box geom.Rect) error {
	rng := rand.New(rand.NewPCG(1, 2))
	pos := make([]geom.Point, f.markers)
	for i := range pos {
		pos[i] = geom.Pt(box.X+box.W*(0.5+0.15*rng.NormFloat64()), box.Y+box.H*(0.5+0.15*rng.NormFloat64()))
	}
	gs := b.NewGraphicsState()
	gs.SetClipRectangle(&box)
	gs.SetAlpha(0.6)
	gs.LineWidth = 0.5
	gs.Foreground = plotgg.RGB(0.1, 0.1, 0.3)
	size := b.PointsToPixels(3)
	err := b.DrawMarkers(gs, geom.UnitCircle(), geom.Scale(size, size), pos, geom.Identity(), plotgg.RGB(0.17, 0.63, 0.17))
	if err != nil {
		return err
	}
	return title(b, box, "scatter")
}

// drawBars draws hatched and gradient-filled bars as a path collection.
func drawBars(b plotgg.Backend, box geom.Rect) error {
	heights := []float64{0.3, 0.8, 0.55, 0.95, 0.4}
	bw := box.W / float64(len(heights))
	c := &plotgg.Collection{
		Master:          geom.Identity(),
		OffsetTransform: geom.Identity(),
		FaceColors:      []plotgg.RGBA{plotgg.RGB(0.84, 0.15, 0.16), plotgg.RGB(0.58, 0.4, 0.74)},
		EdgeColors:      []plotgg.RGBA{plotgg.Black},
		LineWidths:      []float64{1},
	}
	for i, v := range heights {
		c.Paths = append(c.Paths, geom.Rectangle(box.X+bw*(float64(i)+0.15), box.Y, bw*0.7, box.H*v))
	}
	gs := b.NewGraphicsState()
	gs.Hatch = "//"
	gs.HatchColor = plotgg.RGB(1, 1, 1).WithAlpha(0.7)
	if err := b.DrawPathCollection(gs, c); err != nil {
		return err
	}

	g := &plotgg.LinearGradient{
		Start: geom.Pt(0, box.Y),
		End:   geom.Pt(0, box.Y+box.H),
		Stops: []plotgg.GradientStop{
			{Offset: 0, Color: plotgg.RGB(0.2, 0.2, 0.8)},
			{Offset: 1, Color: plotgg.RGB(0.9, 0.9, 1)},
		},
	}
	band := geom.Rectangle(box.X, box.Y+box.H*0.96, box.W, box.H*0.04)
	if err := b.DrawPath(b.NewGraphicsState(), band, geom.Identity(), g); err != nil {
		return err
	}
	return title(b, box, "hatched bars")
}

// drawMesh draws a Gouraud-shaded quad mesh of a radial function.
func drawMesh(b plotgg.Backend, box geom.Rect) error {
	const cols, rows = 12, 8
	mesh := &plotgg.QuadMesh{
		Cols:      cols,
		Rows:      rows,
		Transform: geom.Translate(box.X, box.Y).Multiply(geom.Scale(box.W/cols, box.H/rows)),
		Shading:   plotgg.ShadingGouraud,
	}
	for r := range rows + 1 {
		for c := range cols + 1 {
			mesh.Coords = append(mesh.Coords, geom.Pt(float64(c), float64(r)))
			d := min(math.Hypot(float64(c)-cols/2, float64(r)-rows/2)/7, 1)
			mesh.FaceColors = append(mesh.FaceColors, plotgg.RGB(d, 0.3, 1-d))
		}
	}
	if err := b.DrawQuadMesh(b.NewGraphicsState(), mesh); err != nil {
		return err
	}
	return title(b, box, "gouraud mesh")
}
