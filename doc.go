// Package plotgg renders plotting-library drawing commands with a
// cairo-style vector canvas.
//
// # Overview
//
// A [Renderer] implements [Backend], the fixed operation set a figure
// uses to draw itself: paths, markers, path collections, images, text,
// Gouraud-shaded triangles and quad meshes. Commands arrive in display
// coordinates (pixels, origin at the bottom-left, y up) with sizes in
// points; the renderer flips them onto the device grid, converts paths
// (removing non-finite vertices, clipping, snapping, simplifying) and
// draws them with the style carried by a [GraphicsState].
//
// # Quick Start
//
//	r, err := plotgg.New(640, 480, plotgg.WithDPI(100))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gs := r.NewGraphicsState()
//	gs.LineWidth = 2
//	line := geom.Polyline(geom.Pt(0, 0), geom.Pt(100, math.NaN()), geom.Pt(200, 50))
//	if err := r.DrawPath(gs, line, geom.Identity(), nil); err != nil {
//	    log.Fatal(err)
//	}
//	png.Encode(f, r.Surface().Image())
//
// # Pattern cache
//
// Gradients, hatch tiles, marker stamps and mesh patterns are memoized in
// a [cache.Cache] keyed by their device-space content. Renderers share
// [SharedCache] unless [WithCache] gives them their own. A marker drawn at
// ten thousand positions is converted once and blitted from subpixel
// stamps.
//
// # Graphics state
//
// Each draw call saves the canvas state, applies the clip, operator and
// antialiasing of its GraphicsState, draws and restores, also when it
// fails. Errors wrap [ErrInvalidArgument] for caller mistakes and
// [ErrNativeFailure] for drawing failures.
//
// # Backend selection
//
// Nothing is registered as a side effect of importing this package beyond
// the built-in "plotgg" factory. Hosts opt in at startup with
// [UseAsDefault], [ConfigFromEnv] or [Config.Apply].
//
// # Logging
//
// Logging is off by default. [SetLogger] routes renderer and cache
// diagnostics to a [log/slog.Logger].
package plotgg
