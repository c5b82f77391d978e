package gg

import (
	"math"
	"sort"
)

// ApproxBoundingRect returns the convex-hull bounding rect of a quadratic's
// control points, cheaper than the exact BoundingBox when an over-estimate
// is acceptable (e.g. tile-grid pre-culling).
func (q QuadBez) ApproxBoundingRect() Rect {
	r := NewRect(q.P0, q.P1)
	return r.Union(NewRect(q.P2, q.P2))
}

// ApproxBoundingRect returns the convex-hull bounding rect of a cubic's
// control points.
func (c CubicBez) ApproxBoundingRect() Rect {
	r := NewRect(c.P0, c.P1)
	r = r.Union(NewRect(c.P2, c.P2))
	r = r.Union(NewRect(c.P3, c.P3))
	return r
}

// SecondDeriv returns the second derivative curve (a line).
func (c CubicBez) SecondDeriv() Line {
	d := c.Deriv()
	return Line{
		P0: Point{X: 2 * (d.P1.X - d.P0.X), Y: 2 * (d.P1.Y - d.P0.Y)},
		P1: Point{X: 2 * (d.P2.X - d.P1.X), Y: 2 * (d.P2.Y - d.P1.Y)},
	}
}

// MaxCurvature returns, sorted, the parameter values in [0,1] where the
// curvature numerator x'(t)*y''(t) - y'(t)*x''(t) is stationary, used as
// curvature-extrema candidates. At most 2 values are returned; the full
// dκ/dt = 0 condition, which also involves the speed |B'(t)|, is not
// solved.
func (c CubicBez) MaxCurvature() []float64 {
	d1 := c.Deriv()
	d2 := c.SecondDeriv()

	// kappa(t) numerator: x'(t)*y''(t) - y'(t)*x''(t).
	// d2 is linear in t: d2(t) = d2.P0 + t*(d2.P1 - d2.P0).
	// d1 is quadratic in t.
	// We differentiate the cross product x'y'' - y'x'' with respect to t
	// and collect into cubic coefficients by sampling-based finite
	// differencing of the analytic cross-product polynomial.
	cross := func(t float64) float64 {
		p := d1.Eval(t)
		dd := d2.P0.Lerp(d2.P1, t)
		return p.X*dd.Y - p.Y*dd.X
	}

	// cross(t) is itself a cubic polynomial in t (quadratic x linear).
	// Recover its coefficients via finite sampling at 4 points, then
	// differentiate analytically and solve the resulting quadratic for
	// the numerator's stationary points (curvature extrema candidates).
	t0, t1, t2, t3 := 0.0, 1.0/3.0, 2.0/3.0, 1.0
	y0, y1, y2, y3 := cross(t0), cross(t1), cross(t2), cross(t3)
	a, b, cc, dd := cubicCoeffsFromSamples(y0, y1, y2, y3)

	// Stationary points of the cubic cross(t): derivative is quadratic.
	da := 3 * a
	db := 2 * b
	dcc := cc
	_ = dd
	roots := SolveQuadraticInUnitInterval(da, db, dcc)
	sort.Float64s(roots)
	return roots
}

// cubicCoeffsFromSamples recovers power-basis coefficients a*t^3+b*t^2+c*t+d
// from evaluations at t=0, 1/3, 2/3, 1.
func cubicCoeffsFromSamples(y0, y1, y2, y3 float64) (a, b, c, d float64) {
	d = y0
	// Solve the Vandermonde system for a uniform grid {0, 1/3, 2/3, 1}.
	c = (-11*y0 + 18*y1 - 9*y2 + 2*y3) / 6
	b = (2*y0 - 5*y1 + 4*y2 - y3) * 4.5
	a = (-y0 + 3*y1 - 3*y2 + y3) * 4.5
	return
}

// LineLineIntersect computes the parameter t along l where it crosses the
// infinite line through other.P0 and other.P1. ok is false for parallel
// lines.
func LineLineIntersect(l, other Line) (t float64, ok bool) {
	d1 := l.P1.Sub(l.P0)
	d2 := other.P1.Sub(other.P0)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	diff := other.P0.Sub(l.P0)
	t = diff.Cross(d2) / denom
	return t, true
}

// RectEdges returns the four edges of a rect as lines, in CCW order
// starting at Min.
func (r Rect) RectEdges() [4]Line {
	tl := Point{X: r.Min.X, Y: r.Min.Y}
	tr := Point{X: r.Max.X, Y: r.Min.Y}
	br := Point{X: r.Max.X, Y: r.Max.Y}
	bl := Point{X: r.Min.X, Y: r.Max.Y}
	return [4]Line{
		{P0: tl, P1: tr},
		{P0: tr, P1: br},
		{P0: br, P1: bl},
		{P0: bl, P1: tl},
	}
}

// IntersectRect returns sorted, de-duplicated parameter values where l
// crosses the boundary of rect, within [0,1].
func (l Line) IntersectRect(rect Rect) []float64 {
	var ts []float64
	for _, edge := range rect.RectEdges() {
		t, ok := LineLineIntersect(l, edge)
		if !ok || t < 0 || t > 1 {
			continue
		}
		u, ok2 := LineLineIntersect(edge, l)
		if !ok2 || u < 0 || u > 1 {
			continue
		}
		ts = append(ts, t)
	}
	return dedupeSortedParams(ts)
}

// IntersectRect returns sorted, de-duplicated parameter values where the
// quadratic crosses the boundary of rect.
func (q QuadBez) IntersectRect(rect Rect) []float64 {
	return curveIntersectRect(q.ApproxBoundingRect(), rect, func(t float64) Point { return q.Eval(t) })
}

// IntersectRect returns sorted, de-duplicated parameter values where the
// cubic crosses the boundary of rect.
func (c CubicBez) IntersectRect(rect Rect) []float64 {
	return curveIntersectRect(c.ApproxBoundingRect(), rect, func(t float64) Point { return c.Eval(t) })
}

// curveIntersectRect finds boundary crossings by flattening the curve into
// short chords and intersecting each chord against the rect edges; this
// is exact enough for tile classification purposes (curves are already
// pre-split at extrema by callers needing tight precision).
func curveIntersectRect(bounds, rect Rect, eval func(float64) Point) []float64 {
	if !bounds.Union(rect).Equal(bounds) && !boundsOverlap(bounds, rect) {
		return nil
	}
	const steps = 64
	var ts []float64
	prev := eval(0)
	prevIn := rect.Contains(prev)
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		p := eval(t)
		in := rect.Contains(p)
		if in != prevIn {
			chord := Line{P0: prev, P1: p}
			for _, edge := range rect.RectEdges() {
				cu, ok := LineLineIntersect(chord, edge)
				if !ok || cu < 0 || cu > 1 {
					continue
				}
				eu, ok2 := LineLineIntersect(edge, chord)
				if !ok2 || eu < 0 || eu > 1 {
					continue
				}
				tPrev := float64(i-1) / steps
				ts = append(ts, tPrev+cu*(t-tPrev))
			}
		}
		prev, prevIn = p, in
	}
	return dedupeSortedParams(ts)
}

func boundsOverlap(a, b Rect) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Equal reports whether two rects have identical bounds.
func (r Rect) Equal(other Rect) bool {
	return r.Min == other.Min && r.Max == other.Max
}

func dedupeSortedParams(ts []float64) []float64 {
	if len(ts) == 0 {
		return nil
	}
	sort.Float64s(ts)
	out := ts[:1]
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > 1e-9 {
			out = append(out, t)
		}
	}
	return out
}

// Deriv returns the derivative curve (a line).
func (q QuadBez) Deriv() Line {
	return Line{
		P0: Point{X: 2 * (q.P1.X - q.P0.X), Y: 2 * (q.P1.Y - q.P0.Y)},
		P1: Point{X: 2 * (q.P2.X - q.P1.X), Y: 2 * (q.P2.Y - q.P1.Y)},
	}
}

// ClosestParam finds the parameter t in [0,1] on the quadratic closest to
// p, refined via Newton-Raphson from 8 uniformly-spaced seeds with 3
// iterations each.
func (q QuadBez) ClosestParam(p Point) float64 {
	deriv := q.Deriv()
	return closestParamNewton(p, func(t float64) Point { return q.Eval(t) }, func(t float64) Point { return deriv.Eval(t) })
}

// ClosestParam finds the parameter t in [0,1] on the cubic closest to p,
// refined via Newton-Raphson from 8 uniformly-spaced seeds with 3
// iterations each.
func (c CubicBez) ClosestParam(p Point) float64 {
	deriv := c.Deriv()
	return closestParamNewton(p, func(t float64) Point { return c.Eval(t) }, func(t float64) Point { return deriv.Eval(t) })
}

func closestParamNewton(p Point, eval, derivEval func(float64) Point) float64 {
	const seeds = 8
	const iters = 3

	bestT := 0.0
	bestDist := math.Inf(1)

	for i := 0; i < seeds; i++ {
		t := (float64(i) + 0.5) / seeds
		for j := 0; j < iters; j++ {
			c := eval(t)
			d := derivEval(t)
			diff := c.Sub(p)
			denom := d.Dot(d)
			if denom < 1e-18 {
				break
			}
			t -= diff.Dot(d) / denom
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}
		dist := eval(t).Distance(p)
		if dist < bestDist {
			bestDist = dist
			bestT = t
		}
	}
	return bestT
}

// WindingOf computes the signed winding number of p against a QuadraticPath
// using the monotonic-in-y crossing approximation: each curve contributes
// +1 if its start.y < end.y and its x at the test point's y exceeds
// point.x, else -1, symmetrically.
func (qp QuadraticPath) WindingOf(p Point) int {
	n := qp.NumCurves()
	total := 0
	for i := 0; i < n; i++ {
		q := qp.Curve(i)
		total += windingContribution(q.P0, q.P2, func(t float64) Point { return q.Eval(t) }, p)
	}
	return total
}

// WindingOf computes the signed winding number of p against a CubicPath.
func (cp CubicPath) WindingOf(p Point) int {
	n := cp.NumCurves()
	total := 0
	for i := 0; i < n; i++ {
		c := cp.Curve(i)
		total += windingContribution(c.P0, c.P3, func(t float64) Point { return c.Eval(t) }, p)
	}
	return total
}

// windingContribution implements the shared monotonic-in-y crossing test
// used by WindingOf for both quadratic and cubic curves.
func windingContribution(start, end Point, eval func(float64) Point, p Point) int {
	if start.Y == end.Y {
		return 0
	}
	lo, hi := start.Y, end.Y
	upward := true
	if lo > hi {
		lo, hi = hi, lo
		upward = false
	}
	if p.Y < lo || p.Y >= hi {
		return 0
	}
	t := solveMonotonicY(eval, start.Y, end.Y, p.Y)
	x := eval(t).X
	if upward {
		if x > p.X {
			return 1
		}
		return 0
	}
	if x > p.X {
		return -1
	}
	return 0
}

// solveMonotonicY bisects for the parameter where eval(t).Y == targetY,
// assuming eval is monotonic in y between y0 and y1.
func solveMonotonicY(eval func(float64) Point, y0, y1, targetY float64) float64 {
	lo, hi := 0.0, 1.0
	if y0 > y1 {
		lo, hi = 1.0, 0.0
	}
	for i := 0; i < 32; i++ {
		mid := (lo + hi) / 2
		y := eval(mid).Y
		if (y0 < y1 && y < targetY) || (y0 > y1 && y > targetY) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
