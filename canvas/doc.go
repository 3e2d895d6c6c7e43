// Package canvas is a small immediate-mode vector drawing library with the
// shape of cairo: image surfaces, a drawing context with a save/restore
// state stack, a current path, clipping, paint sources (solid colours,
// gradients, surface and mesh patterns) and Porter-Duff operators.
// Flattening, stroking, dashing and coverage are computed by
// github.com/gogpu/gg; the canvas composites that coverage itself.
//
// Errors are reported through a persistent status rather than return
// values. The first failure latches on the object that produced it (a
// Surface, a Pattern or a Context) and every later operation on that object
// becomes a no-op. Callers check Status after the calls that can fail:
//
//	s := canvas.NewImageSurface(canvas.FormatARGB32, 640, 480)
//	if err := s.Status().Err(); err != nil {
//		return err
//	}
//	ctx := canvas.NewContext(s)
//	ctx.Rectangle(10, 10, 100, 50)
//	ctx.SetSourceRGBA(0.2, 0.4, 0.8, 1)
//	ctx.Fill()
//	if err := ctx.Status().Err(); err != nil {
//		return err
//	}
//
// Coordinates passed to path construction are user-space coordinates mapped
// through the current transformation matrix; the path is stored in device
// space. Non-finite coordinates are invalid path data and latch
// StatusInvalidPathData on the context.
//
// A Context is not safe for concurrent use. Patterns are immutable once
// their stops or data are set and may be shared between contexts.
package canvas
