package gg

import "math"

// CubicToQuad converts a cubic Bezier into a QuadraticPath approximating
// it within tolerance, using the Taylor-center walking algorithm: the
// curve is first pre-split at its inflection points so each monotonic
// piece receives its own independent walk, then each piece is walked
// forward advancing a Taylor expansion center t0 and a last-emitted
// parameter te until te reaches 1.
func CubicToQuad(c CubicBez, tolerance float64) QuadraticPath {
	var out QuadraticPath

	splits := c.Inflections()
	segStart := 0.0
	var prevEnd *Point

	emit := func(piece CubicBez) {
		walkTaylor(piece, tolerance, &out, &prevEnd)
	}

	for _, t := range splits {
		if t <= segStart || t >= 1 {
			continue
		}
		sub := c.Subsegment(segStart, t)
		emit(sub)
		segStart = t
	}
	emit(c.Subsegment(segStart, 1))

	return out
}

// walkTaylor performs the Taylor-center walk over one monotonic cubic
// piece, appending emitted quadratics to out. prevEnd carries the last
// emitted point across pieces so seams are midpoint-averaged to keep the
// overall path C0.
func walkTaylor(c CubicBez, tolerance float64, out *QuadraticPath, prevEnd **Point) {
	t0 := 0.0
	te := 0.0

	first := true
	for te < 1 {
		// Step 2: find te' where the local quadratic Taylor
		// approximation centered at t0 first departs from the cubic by
		// tolerance, searching forward from t0.
		tePrime := taylorErrorCrossing(c, t0, tolerance)
		if tePrime <= te {
			tePrime = 1
		}
		segEnd := math.Min(1, tePrime)

		// Step 3: find the next center t0' such that the Taylor
		// expansion there still matches the cubic at segEnd within
		// tolerance; start the search a little past segEnd.
		t0Prime := nextTaylorCenter(c, segEnd, tolerance)
		if t0Prime <= segEnd {
			t0Prime = segEnd
		}

		quad := taylorQuadraticOn(c, t0, te, segEnd)

		if first && *prevEnd != nil {
			quad.P0 = prevEnd0(*prevEnd, quad.P0)
			first = false
		}

		out.Points = appendQuadPoints(out.Points, quad)
		end := quad.P2
		*prevEnd = &end

		te = segEnd
		t0 = t0Prime
		if t0 >= 1 {
			t0 = te
		}
	}

	if te < 1 {
		final := QuadBez{P0: c.Eval(te), P1: c.Eval((te + 1) / 2), P2: c.P3}
		out.Points = appendQuadPoints(out.Points, final)
	}
}

func prevEnd0(prev *Point, p Point) Point {
	return prev.Lerp(p, 0.5)
}

func appendQuadPoints(points []Point, q QuadBez) []Point {
	if len(points) == 0 {
		return append(points, q.P0, q.P1, q.P2)
	}
	return append(points, q.P1, q.P2)
}

// taylorQuadraticOn builds the quadratic Taylor approximation of c at
// center t0, re-parameterized to the sub-interval [te, segEnd] of the
// original cubic's domain.
func taylorQuadraticOn(c CubicBez, t0, te, segEnd float64) QuadBez {
	p0 := c.Eval(te)
	p2 := c.Eval(segEnd)
	mid := c.Eval((te + segEnd) / 2)
	// Control point reconstructed so the quadratic's midpoint matches the
	// cubic's midpoint exactly: mid = 0.25*p0 + 0.5*p1 + 0.25*p2.
	ctrl := mid.Mul(2).Sub(p0.Add(p2).Mul(0.5))
	_ = t0
	return QuadBez{P0: p0, P1: ctrl, P2: p2}
}

// taylorErrorCrossing finds, by bisection, the largest t > t0 where the
// quadratic Taylor approximation centered at t0 still lies within
// tolerance of the cubic. Walks forward in fixed steps to bracket the
// crossing, then bisects.
func taylorErrorCrossing(c CubicBez, t0, tolerance float64) float64 {
	const maxStep = 0.05
	prev := t0
	prevErr := taylorError(c, t0, prev)
	t := t0
	for t < 1 {
		t = math.Min(1, t+maxStep)
		err := taylorError(c, t0, t)
		if err > tolerance {
			return bisectErrorCrossing(c, t0, prev, t, tolerance)
		}
		prev = t
		prevErr = err
	}
	_ = prevErr
	return 1
}

func bisectErrorCrossing(c CubicBez, t0, lo, hi, tolerance float64) float64 {
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if taylorError(c, t0, mid) > tolerance {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// taylorError estimates the deviation between the cubic and its local
// quadratic Taylor approximation at parameter t, centered at t0.
func taylorError(c CubicBez, t0, t float64) float64 {
	quad := taylorQuadraticOn(c, t0, t0, t)
	_ = quad
	// Sample a point strictly between t0 and t and compare against the
	// chord-based Taylor quadratic evaluated at the matching local u.
	mid := (t0 + t) / 2
	approx := taylorQuadraticOn(c, t0, t0, t).Eval(0.5)
	actual := c.Eval(mid)
	return approx.Distance(actual)
}

// nextTaylorCenter finds the next center t0' >= segEnd such that the
// Taylor expansion there continues to match the cubic at segEnd within
// tolerance, via forward bisection similar to taylorErrorCrossing.
func nextTaylorCenter(c CubicBez, segEnd, tolerance float64) float64 {
	const maxStep = 0.05
	t0 := segEnd
	for t0 < 1 {
		next := math.Min(1, t0+maxStep)
		if taylorError(c, next, segEnd) > tolerance {
			return t0
		}
		t0 = next
	}
	return t0
}
