// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gstate scopes graphics-state changes on a canvas context.
//
// Every draw operation runs inside With, which saves the context state,
// applies the requested modifications and restores the state afterwards,
// whether the body returns normally, returns an error or panics. Clips set
// inside the scope intersect the clip inherited from outside it.
package gstate

import (
	"fmt"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
)

// Mods lists the state changes applied on entry to a scope. Nil fields
// leave the inherited value alone.
type Mods struct {
	// ClipRect is a device-space clip rectangle.
	ClipRect *geom.Rect
	// ClipPath is a device-space clip program, filled with the non-zero
	// rule.
	ClipPath *convert.Program
	// Transform is concatenated onto the current matrix after clipping.
	Transform *geom.Matrix
	// Alpha multiplies the inherited constant opacity.
	Alpha     *float64
	Operator  *canvas.Operator
	Antialias *bool
	FillRule  *canvas.FillRule
}

// With runs fn inside a saved state with mods applied. The state depth
// after With equals the depth before it. A status latched on the context
// during the scope is returned as an error unless fn already failed.
func With(ctx *canvas.Context, mods Mods, fn func() error) (err error) {
	if s := ctx.Status(); s != canvas.StatusSuccess {
		return s
	}
	depth := ctx.Depth()
	ctx.Save()
	defer ctx.Unwind(depth)

	apply(ctx, mods)
	if err = ctx.Status().Err(); err != nil {
		return fmt.Errorf("gstate: apply: %w", err)
	}
	if err = fn(); err != nil {
		return err
	}
	return ctx.Status().Err()
}

func apply(ctx *canvas.Context, mods Mods) {
	if r := mods.ClipRect; r != nil {
		ctx.IdentityMatrix()
		ctx.NewPath()
		ctx.Rectangle(r.X, r.Y, r.W, r.H)
		ctx.Clip()
	}
	if p := mods.ClipPath; p != nil {
		ctx.IdentityMatrix()
		ctx.NewPath()
		ctx.SetFillRule(canvas.FillRuleWinding)
		p.Apply(ctx)
		ctx.Clip()
	}
	if m := mods.Transform; m != nil {
		ctx.Transform(*m)
	}
	if a := mods.Alpha; a != nil {
		ctx.SetAlpha(ctx.Alpha() * *a)
	}
	if op := mods.Operator; op != nil {
		ctx.SetOperator(*op)
	}
	if aa := mods.Antialias; aa != nil {
		if *aa {
			ctx.SetAntialias(canvas.AntialiasGray)
		} else {
			ctx.SetAntialias(canvas.AntialiasNone)
		}
	}
	if fr := mods.FillRule; fr != nil {
		ctx.SetFillRule(*fr)
	}
}

// Depth returns the number of saved states on ctx.
func Depth(ctx *canvas.Context) int { return ctx.Depth() }
