package gg

import "math"

// FitCubic fits a single cubic Bezier through points, using chord-length
// parameterization, a Cramer's-rule least-squares solve for the two
// tangent magnitudes, and up to 8 rounds of Newton-Raphson
// reparameterization to tighten the fit against tolerance. Endpoint
// tangent directions are estimated from the first and last point pairs.
// Input with fewer than 2 points returns a zero-length cubic anchored at
// the first point (at the origin when points is empty).
func FitCubic(points []Point, tolerance float64) CubicBez {
	if len(points) < 2 {
		p := Point{}
		if len(points) == 1 {
			p = points[0]
		}
		return CubicBez{P0: p, P1: p, P2: p, P3: p}
	}

	p0 := points[0]
	p3 := points[len(points)-1]
	t0 := estimateTangent(points, 0, 1)
	t3 := estimateTangent(points, len(points)-1, -1)

	u := chordLengthParams(points)

	c := fitCubicWithTangents(points, u, p0, p3, t0, t3)
	best := c
	bestErr, _ := maxFitError(c, points, u)

	for iter := 0; iter < 8 && bestErr > tolerance; iter++ {
		reparameterize(c, points, u)
		c = fitCubicWithTangents(points, u, p0, p3, t0, t3)
		if maxErr, _ := maxFitError(c, points, u); maxErr < bestErr {
			best, bestErr = c, maxErr
		}
	}

	return best
}

// estimateTangent returns a unit tangent direction at points[idx],
// pointing toward points[idx+step].
func estimateTangent(points []Point, idx, step int) Point {
	other := idx + step
	if other < 0 || other >= len(points) {
		return Point{X: 1, Y: 0}
	}
	d := points[other].Sub(points[idx])
	if d.LengthSquared() < 1e-18 {
		return Point{X: 1, Y: 0}
	}
	return d.Normalize()
}

// chordLengthParams assigns each point a parameter in [0,1] proportional
// to its cumulative chord length from the first point.
func chordLengthParams(points []Point) []float64 {
	u := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Distance(points[i-1])
	}
	if total < 1e-12 {
		for i := range u {
			u[i] = float64(i) / float64(len(points)-1)
		}
		return u
	}
	acc := 0.0
	for i := 1; i < len(points); i++ {
		acc += points[i].Distance(points[i-1])
		u[i] = acc / total
	}
	return u
}

// fitCubicWithTangents solves for the two tangent magnitudes alpha1,
// alpha2 that minimize least-squares error of the cubic
// B(u) = p0 + alpha1*t0*3(1-u)^2*u + alpha2*t3*3(1-u)*u^2 + p3*u^3
// against points, via the standard 2x2 Cramer's-rule normal-equation
// solve, falling back to chord-length-scaled tangents when the system
// is near-singular.
func fitCubicWithTangents(points []Point, u []float64, p0, p3, t0, t3 Point) CubicBez {
	var c00, c01, c11, x0, x1 float64

	for i, pt := range points {
		ui := u[i]
		mt := 1 - ui
		b0 := mt * mt * mt
		b1 := 3 * mt * mt * ui
		b2 := 3 * mt * ui * ui
		b3 := ui * ui * ui

		a1 := t0.Mul(b1)
		a2 := t3.Mul(b2)

		c00 += a1.Dot(a1)
		c01 += a1.Dot(a2)
		c11 += a2.Dot(a2)

		rhs := pt.Sub(p0.Mul(b0)).Sub(p3.Mul(b3))
		x0 += a1.Dot(rhs)
		x1 += a2.Dot(rhs)
	}

	det := c00*c11 - c01*c01
	chord := p3.Distance(p0)
	var alpha1, alpha2 float64
	if math.Abs(det) < 1e-12 {
		alpha1 = chord / 3
		alpha2 = chord / 3
	} else {
		alpha1 = (x0*c11 - x1*c01) / det
		alpha2 = (c00*x1 - c01*x0) / det
		if alpha1 < 1e-6 || alpha2 < 1e-6 {
			alpha1 = chord / 3
			alpha2 = chord / 3
		}
	}

	return CubicBez{
		P0: p0,
		P1: p0.Add(t0.Mul(alpha1)),
		P2: p3.Add(t3.Mul(alpha2)),
		P3: p3,
	}
}

// maxFitError returns the largest distance between a sample point and
// the cubic evaluated at its current parameter, and that point's index.
func maxFitError(c CubicBez, points []Point, u []float64) (float64, int) {
	maxErr := 0.0
	worst := 0
	for i, pt := range points {
		d := c.Eval(u[i]).Distance(pt)
		if d > maxErr {
			maxErr = d
			worst = i
		}
	}
	return maxErr, worst
}

// reparameterize improves each point's parameter in place via one
// Newton-Raphson step against the current cubic.
func reparameterize(c CubicBez, points []Point, u []float64) {
	for i, pt := range points {
		u[i] = newtonImproveParam(c, pt, u[i])
	}
}

// newtonImproveParam performs a single Newton-Raphson correction of
// parameter t against point pt on curve c, clamped to [0,1].
func newtonImproveParam(c CubicBez, pt Point, t float64) float64 {
	p := c.Eval(t)
	d1 := c.Tangent(t)
	d2Curve := c.Deriv().Deriv()
	d2 := d2Curve.Eval(t)

	diff := p.Sub(pt)
	numerator := diff.Dot(Point(d1))
	denominator := Point(d1).Dot(Point(d1)) + diff.Dot(d2)
	if math.Abs(denominator) < 1e-12 {
		return t
	}
	nt := t - numerator/denominator
	if nt < 0 {
		nt = 0
	}
	if nt > 1 {
		nt = 1
	}
	return nt
}
