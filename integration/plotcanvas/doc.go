// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package plotcanvas connects a plotgg renderer to a windowing toolkit.
//
// The toolkit owns the window and supplies a drawing surface on every
// expose or redraw event. Canvas rebinds its renderer to that surface,
// clears it and asks the figure to draw itself. Cached patterns survive
// the rebinding, so only geometry is redrawn.
//
//	canvas, err := plotcanvas.New(fig, 800, 600, plotgg.WithDPI(96))
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	window.OnExpose(func(buf *image.RGBA) {
//	    if err := canvas.OnDraw(canvas.SurfaceFor(buf)); err != nil {
//	        log.Print(err)
//	    }
//	})
//
// Toolkits without a native surface call Redraw and copy the result with
// RenderTo.
//
// Canvas is NOT safe for concurrent use.
package plotcanvas
