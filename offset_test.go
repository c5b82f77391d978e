package gg

import (
	"math"
	"testing"
)

func TestOffsetCubic_ZeroDistanceIsIdentityLine(t *testing.T) {
	c := CubicBez{P0: Pt(0, 0), P1: Pt(3, 3), P2: Pt(7, 3), P3: Pt(10, 0)}
	out := OffsetCubic(c, 0, 0.1)
	if len(out) != 1 || !out[0].IsLine {
		t.Fatalf("expected single identity line for zero offset, got %+v", out)
	}
}

func TestOffsetCubic_StraightLineOffsetsEndpoints(t *testing.T) {
	c := CubicBez{P0: Pt(0, 0), P1: Pt(10, 0.01), P2: Pt(20, -0.01), P3: Pt(30, 0)}
	out := OffsetCubic(c, 5, 0.1)
	if len(out) == 0 {
		t.Fatal("expected at least one offset element")
	}
	first := out[0]
	var start Point
	if first.IsLine {
		start = first.Line.P0
	} else {
		start = first.Cubic.P0
	}
	if math.Abs(start.Y-5) > 0.5 {
		t.Errorf("offset start Y = %v, want close to 5", start.Y)
	}
}

func TestOffsetCubic_AcceptedOutputStaysWithinTolerance(t *testing.T) {
	c := CubicBez{P0: Pt(0, 0), P1: Pt(4, 10), P2: Pt(16, -10), P3: Pt(20, 0)}
	tolerance := 0.2
	d := 3.0
	out := OffsetCubic(c, d, tolerance)
	if len(out) == 0 {
		t.Fatal("expected at least one offset element")
	}

	for _, probe := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		orig := c.Eval(probe)
		normal := leftNormal(tangentAt(c, probe))
		want := orig.Add(normal.Mul(d))

		best := math.Inf(1)
		for _, el := range out {
			var p0, p3 Point
			if el.IsLine {
				p0, p3 = el.Line.P0, el.Line.P1
			} else {
				p0, p3 = el.Cubic.P0, el.Cubic.P3
			}
			best = math.Min(best, want.Distance(p0))
			best = math.Min(best, want.Distance(p3))
		}
		if best > 5*tolerance {
			t.Errorf("probe t=%v: nearest offset endpoint %v away from expected %v, want <= %v", probe, best, want, 5*tolerance)
		}
	}
}

func TestOffsetCubic_NeverEmpty(t *testing.T) {
	cs := []CubicBez{
		{P0: Pt(0, 0), P1: Pt(1, 1), P2: Pt(2, 1), P3: Pt(3, 0)},
		{P0: Pt(0, 0), P1: Pt(0, 10), P2: Pt(10, 10), P3: Pt(10, 0)},
		{P0: Pt(0, 0), P1: Pt(5, 0), P2: Pt(5, 0), P3: Pt(10, 0)},
	}
	for i, c := range cs {
		out := OffsetCubic(c, 2, 0.25)
		if len(out) == 0 {
			t.Errorf("case %d: OffsetCubic returned no elements", i)
		}
	}
}
