// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstate

import (
	"errors"
	"testing"

	"github.com/gogpu/plotgg/canvas"
	"github.com/gogpu/plotgg/geom"
	"github.com/gogpu/plotgg/internal/convert"
)

func newCtx(t *testing.T) *canvas.Context {
	t.Helper()
	s := canvas.NewImageSurface(canvas.FormatARGB32, 20, 20)
	if err := s.Status().Err(); err != nil {
		t.Fatal(err)
	}
	return canvas.NewContext(s)
}

func TestWithRestoresState(t *testing.T) {
	ctx := newCtx(t)
	op := canvas.OperatorSource
	m := geom.Translate(3, 4)
	err := With(ctx, Mods{Operator: &op, Transform: &m}, func() error {
		if ctx.Operator() != canvas.OperatorSource {
			t.Error("operator not applied")
		}
		if ctx.Matrix() != m {
			t.Errorf("matrix = %v", ctx.Matrix())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Operator() != canvas.OperatorOver || !ctx.Matrix().IsIdentity() || ctx.Depth() != 0 {
		t.Errorf("state leaked: op %v matrix %v depth %d", ctx.Operator(), ctx.Matrix(), ctx.Depth())
	}
}

func TestWithErrorAndPanicKeepBalance(t *testing.T) {
	ctx := newCtx(t)
	boom := errors.New("boom")
	if err := With(ctx, Mods{}, func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if ctx.Depth() != 0 {
		t.Fatalf("depth %d after error", ctx.Depth())
	}

	func() {
		defer func() { _ = recover() }()
		_ = With(ctx, Mods{}, func() error { panic("draw failed") })
	}()
	if ctx.Depth() != 0 {
		t.Fatalf("depth %d after panic", ctx.Depth())
	}
}

func TestNestedClipsIntersect(t *testing.T) {
	ctx := newCtx(t)
	outer := geom.Rect{X: 0, Y: 0, W: 10, H: 10}
	inner := geom.Rect{X: 5, Y: 5, W: 10, H: 10}
	err := With(ctx, Mods{ClipRect: &outer}, func() error {
		return With(ctx, Mods{ClipRect: &inner}, func() error {
			if got := ctx.ClipExtents(); got.Min.X != 5 || got.Max.X != 10 {
				t.Errorf("inner clip extents %v", got)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := ctx.ClipExtents(); got.Dx() != 20 || got.Dy() != 20 {
		t.Errorf("clip not restored: %v", got)
	}
}

func TestClipPath(t *testing.T) {
	ctx := newCtx(t)
	prog, err := convert.Convert(geom.Circle(10, 10, 5), geom.Identity(), convert.Options{Filled: true, Snap: convert.SnapOff})
	if err != nil {
		t.Fatal(err)
	}
	err = With(ctx, Mods{ClipPath: prog}, func() error {
		if ctx.InClip(1, 1) {
			t.Error("corner inside circular clip")
		}
		if !ctx.InClip(10, 10) {
			t.Error("centre outside circular clip")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestLatchedStatusSurfaces(t *testing.T) {
	ctx := newCtx(t)
	err := With(ctx, Mods{}, func() error {
		ctx.Restore()
		ctx.Restore()
		return nil
	})
	var st canvas.Status
	if !errors.As(err, &st) || st != canvas.StatusInvalidRestore {
		t.Errorf("err = %v, want invalid restore", err)
	}
	if Depth(ctx) != 0 {
		t.Errorf("depth %d", Depth(ctx))
	}
}

func TestAlphaMultiplies(t *testing.T) {
	ctx := newCtx(t)
	half := 0.5
	err := With(ctx, Mods{Alpha: &half}, func() error {
		return With(ctx, Mods{Alpha: &half}, func() error {
			if got := ctx.Alpha(); got != 0.25 {
				t.Errorf("nested alpha = %v, want 0.25", got)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Alpha() != 1 {
		t.Errorf("alpha not restored: %v", ctx.Alpha())
	}
}
