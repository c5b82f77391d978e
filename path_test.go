package gg

import (
	"math"
	"testing"
)

func approxPt(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestPathSplitLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(10, 0), false)

	second := p.Split(1, 0.5)
	if second != 2 {
		t.Fatalf("Split returned %d, want 2", second)
	}
	if p.NumCommands() != 3 {
		t.Fatalf("NumCommands() = %d, want 3", p.NumCommands())
	}
	mid := p.PointAt(1)
	if !approxPt(mid, Pt(5, 0), 1e-9) {
		t.Errorf("midpoint = %v, want (5,0)", mid)
	}
	if end := p.PointAt(2); !approxPt(end, Pt(10, 0), 1e-9) {
		t.Errorf("end point = %v, want (10,0)", end)
	}
}

func TestPathSplitCubic(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.CubicTo(Pt(0, 10), Pt(10, 10), Pt(10, 0), false)

	p.Split(1, 0.5)
	if p.NumCommands() != 3 {
		t.Fatalf("NumCommands() = %d, want 3", p.NumCommands())
	}
	if p.CommandAt(1) != CmdCubic || p.CommandAt(2) != CmdCubic {
		t.Fatalf("expected both halves to remain cubic, got %v, %v", p.CommandAt(1), p.CommandAt(2))
	}
}

func TestPathToLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.CubicTo(Pt(0, 10), Pt(10, 10), Pt(10, 0), false)
	p.ToLine(1)
	if p.CommandAt(1) != CmdLine {
		t.Fatalf("CommandAt(1) = %v, want CmdLine", p.CommandAt(1))
	}
	if p.NumPoints() != 2 {
		t.Fatalf("NumPoints() = %d, want 2", p.NumPoints())
	}
	if end := p.PointAt(1); !approxPt(end, Pt(10, 0), 1e-9) {
		t.Errorf("end point = %v, want (10,0)", end)
	}
}

func TestPathToQuadraticFromLine(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(10, 0), false)
	p.ToQuadratic(1)
	if p.CommandAt(1) != CmdQuadratic {
		t.Fatalf("CommandAt(1) = %v, want CmdQuadratic", p.CommandAt(1))
	}
	ctrl := p.PointAt(1)
	if !approxPt(ctrl, Pt(5, 0), 1e-9) {
		t.Errorf("control = %v, want midpoint (5,0)", ctrl)
	}
}

func TestPathToCubicFromLineIsExact(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(9, 0), false)
	p.ToCubic(1)
	if p.CommandAt(1) != CmdCubic {
		t.Fatalf("CommandAt(1) = %v, want CmdCubic", p.CommandAt(1))
	}
	c1, c2, end := p.PointAt(1), p.PointAt(2), p.PointAt(3)
	if !approxPt(c1, Pt(3, 0), 1e-9) || !approxPt(c2, Pt(6, 0), 1e-9) {
		t.Errorf("controls = %v, %v; want thirds of the chord", c1, c2)
	}
	if !approxPt(end, Pt(9, 0), 1e-9) {
		t.Errorf("end = %v, want (9,0)", end)
	}
}

func TestPathToCubicFromQuadraticRaisesExactly(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)
	q := QuadBez{P0: Pt(0, 0), P1: Pt(5, 10), P2: Pt(10, 0)}
	raised := q.Raise()

	p.ToCubic(1)
	if p.CommandAt(1) != CmdCubic {
		t.Fatalf("CommandAt(1) = %v, want CmdCubic", p.CommandAt(1))
	}
	if !approxPt(p.PointAt(1), raised.P1, 1e-9) || !approxPt(p.PointAt(2), raised.P2, 1e-9) {
		t.Errorf("degree-raised controls = %v, %v; want %v, %v", p.PointAt(1), p.PointAt(2), raised.P1, raised.P2)
	}
}

func TestPathRemoveMiddleVertexStraightens(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(5, 0), false)
	p.LineTo(Pt(10, 0), false)

	p.Remove(1, false)
	if p.NumCommands() != 2 {
		t.Fatalf("NumCommands() = %d, want 2 after removing the middle vertex", p.NumCommands())
	}
	if end := p.PointAt(1); !approxPt(end, Pt(10, 0), 1e-9) {
		t.Errorf("merged segment end = %v, want (10,0)", end)
	}
}

func TestPathRemoveEndpoint(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(5, 0), false)
	p.LineTo(Pt(10, 0), false)

	p.Remove(0, false)
	if p.NumCommands() != 2 {
		t.Fatalf("NumCommands() = %d, want 2 after removing the start vertex", p.NumCommands())
	}
	if start := p.PointAt(0); !approxPt(start, Pt(5, 0), 1e-9) {
		t.Errorf("new start = %v, want (5,0)", start)
	}
}

func TestPathRemoveOnlyVertexEmptiesPath(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.Remove(0, false)
	if !p.IsEmpty() {
		t.Error("expected removing a path's only vertex to leave it empty")
	}
}

func TestPathTranslate(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(10, 10), false)
	p.Translate(Pt(5, -5))
	if !approxPt(p.PointAt(0), Pt(5, -5), 1e-9) {
		t.Errorf("PointAt(0) = %v, want (5,-5)", p.PointAt(0))
	}
	if !approxPt(p.PointAt(1), Pt(15, 5), 1e-9) {
		t.Errorf("PointAt(1) = %v, want (15,5)", p.PointAt(1))
	}
}

func TestPathTransformedLeavesReceiverUnmodified(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(1, 1))
	p.LineTo(Pt(2, 2), false)

	out := p.Transformed(Scale(2, 2))
	if !approxPt(out.PointAt(1), Pt(4, 4), 1e-9) {
		t.Errorf("transformed point = %v, want (4,4)", out.PointAt(1))
	}
	if !approxPt(p.PointAt(1), Pt(2, 2), 1e-9) {
		t.Errorf("receiver mutated: PointAt(1) = %v, want (2,2)", p.PointAt(1))
	}
}

func TestPathClone(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(3, 4), false)
	p.Close()

	c := p.Clone()
	c.Translate(Pt(1, 1))

	if p.PointAt(0) == c.PointAt(0) {
		t.Error("expected Clone to be independent of the original")
	}
	if !c.IsClosed() {
		t.Error("expected clone to preserve closed state")
	}
}

func TestPathBoundingRectSquare(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(10, 0), false)
	p.LineTo(Pt(10, 10), false)
	p.LineTo(Pt(0, 10), false)
	p.Close()

	r := p.BoundingRect()
	if r.Width() != 10 || r.Height() != 10 {
		t.Errorf("BoundingRect = %v, want a 10x10 box", r)
	}
}

func TestPathBoundingRectEmpty(t *testing.T) {
	p := NewPath()
	if r := p.BoundingRect(); r != (Rect{}) {
		t.Errorf("BoundingRect() of empty path = %v, want zero value", r)
	}
}
