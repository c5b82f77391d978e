package gg

import "math"

// OffsetElement is one piece of an offset curve's output: either a straight
// line or a cubic segment, tagged so callers don't need a type switch on
// a wider Segment.
type OffsetElement struct {
	IsLine bool
	Line   Line
	Cubic  CubicBez
}

const offsetMaxDepth = 12

// OffsetCubic approximates the curve running parallel to c at signed
// distance d (positive d offsets to the left of the direction of travel)
// within tolerance, emitting a sequence of lines and cubics.
//
// The curve is first split at its inflection points and curvature
// extrema, since the offset of a curve is only well-approximated by a
// single strategy between such points. Between adjacent pieces whose
// derivative length drops near zero a small arc is spliced in to bridge
// the cusp.
func OffsetCubic(c CubicBez, d, tolerance float64) []OffsetElement {
	if d == 0 {
		return []OffsetElement{{IsLine: true, Line: Line{P0: c.P0, P1: c.P3}}}
	}

	cuts := splitParams(c)
	pieces := splitAtParams(c, cuts)

	var out []OffsetElement
	for i, piece := range pieces {
		if i > 0 {
			out = bridgeCusp(out, pieces[i-1], piece, d)
		}
		out = append(out, offsetSegment(piece, d, tolerance, offsetMaxDepth)...)
	}
	return out
}

// splitParams collects the sorted, deduplicated interior parameters where
// a cubic should be pre-split before offsetting: its inflection points and
// its curvature extrema.
func splitParams(c CubicBez) []float64 {
	ts := append([]float64{}, c.Inflections()...)
	ts = append(ts, c.MaxCurvature()...)
	return dedupeSortedParams(ts)
}

func splitAtParams(c CubicBez, ts []float64) []CubicBez {
	if len(ts) == 0 {
		return []CubicBez{c}
	}
	var out []CubicBez
	prev := 0.0
	for _, t := range ts {
		if t <= prev+1e-9 || t >= 1-1e-9 {
			continue
		}
		out = append(out, c.Subsegment(prev, t))
		prev = t
	}
	out = append(out, c.Subsegment(prev, 1))
	return out
}

// bridgeCusp inserts a small arc between two adjacent offset pieces when
// the derivative magnitude at the shared vertex has collapsed near zero,
// which otherwise produces a visible spike in the offset curve's normal.
func bridgeCusp(out []OffsetElement, prev, next CubicBez, d float64) []OffsetElement {
	const cuspThresholdSq = 1.5e-4

	prevDeriv := prev.Deriv().Eval(1)
	nextDeriv := next.Deriv().Eval(0)
	if prevDeriv.LengthSquared() >= cuspThresholdSq && nextDeriv.LengthSquared() >= cuspThresholdSq {
		return out
	}

	a0, a1 := cuspSafeAngles(prev, next)
	center := prev.P3
	arc := NewArc(center, math.Abs(d), a0, a1)
	for _, cubic := range arc.ToCubics() {
		out = append(out, OffsetElement{Cubic: cubic})
	}
	return out
}

// cuspSafeAngles finds tangent directions on either side of a cusp by
// binary subdivision, backing away from the degenerate vertex until the
// derivative is non-negligible, so the bridging arc has well-defined
// endpoints.
func cuspSafeAngles(prev, next CubicBez) (a0, a1 float64) {
	const iterations = 18
	const minLenSq = 1e-10

	t := 1.0
	lo, hi := 0.0, 1.0
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		if prev.Deriv().Eval(mid).LengthSquared() > minLenSq {
			lo = mid
		} else {
			hi = mid
		}
		t = lo
	}
	tan0 := prev.Deriv().Eval(t)

	lo, hi = 0.0, 1.0
	u := 0.0
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		if next.Deriv().Eval(mid).LengthSquared() > minLenSq {
			hi = mid
		} else {
			lo = mid
		}
		u = hi
	}
	tan1 := next.Deriv().Eval(u)

	a0 = math.Atan2(tan0.Y, tan0.X)
	a1 = math.Atan2(tan1.Y, tan1.X)
	return a0, a1
}

// offsetSegment tries the four direct strategies in order, falling back
// to recursive bisection when none accept within tolerance.
func offsetSegment(c CubicBez, d, tolerance float64, depth int) []OffsetElement {
	nc, scale := normalizeForOffset(c)
	nd := d / scale

	if el, ok := offsetStraight(nc, nd); ok {
		return denormalize([]OffsetElement{el}, c, nc, scale)
	}
	if el, ok := offsetApproxStraight(nc, nd); ok {
		return denormalize([]OffsetElement{el}, c, nc, scale)
	}
	if el, ok := offsetArc(nc, nd, tolerance/scale); ok {
		return denormalize([]OffsetElement{el}, c, nc, scale)
	}
	if el, ok := offsetShapeControl(nc, nd, tolerance/scale); ok {
		return denormalize([]OffsetElement{el}, c, nc, scale)
	}

	if depth <= 0 {
		el, _ := offsetShapeControl(nc, nd, math.Inf(1))
		return denormalize([]OffsetElement{el}, c, nc, scale)
	}
	c1, c2 := c.Subdivide()
	out := offsetSegment(c1, d, tolerance, depth-1)
	out = append(out, offsetSegment(c2, d, tolerance, depth-1)...)
	return out
}

// normalizeForOffset translates and scales c so its chord roughly spans
// [-1,1], returning the normalized curve and the scale factor applied (so
// callers can convert offsets and tolerances into the same space).
func normalizeForOffset(c CubicBez) (CubicBez, float64) {
	chord := c.P0.Distance(c.P3)
	if chord < 1e-12 {
		chord = 1
	}
	scale := chord / 2
	mid := c.P0.Lerp(c.P3, 0.5)
	norm := func(p Point) Point {
		return Pt((p.X-mid.X)/scale, (p.Y-mid.Y)/scale)
	}
	return CubicBez{P0: norm(c.P0), P1: norm(c.P1), P2: norm(c.P2), P3: norm(c.P3)}, scale
}

func denormalize(el []OffsetElement, orig, norm CubicBez, scale float64) []OffsetElement {
	mid := orig.P0.Lerp(orig.P3, 0.5)
	up := func(p Point) Point {
		return Pt(p.X*scale+mid.X, p.Y*scale+mid.Y)
	}
	out := make([]OffsetElement, len(el))
	for i, e := range el {
		if e.IsLine {
			out[i] = OffsetElement{IsLine: true, Line: Line{P0: up(e.Line.P0), P1: up(e.Line.P1)}}
		} else {
			out[i] = OffsetElement{Cubic: CubicBez{
				P0: up(e.Cubic.P0), P1: up(e.Cubic.P1), P2: up(e.Cubic.P2), P3: up(e.Cubic.P3),
			}}
		}
	}
	return out
}

// turn returns the signed cross product of the two control-polygon legs
// at the shared vertex b, used to classify straightness and arc-fit
// eligibility.
func turn(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(b))
}

// offsetStraight handles the completely-degenerate case where both
// control-polygon turns are negligible: the curve is effectively a line,
// so the offset is one translated line.
func offsetStraight(c CubicBez, d float64) (OffsetElement, bool) {
	t1 := turn(c.P0, c.P1, c.P2)
	t2 := turn(c.P1, c.P2, c.P3)
	if math.Abs(t1) >= 1e-15 || math.Abs(t2) >= 1e-15 {
		return OffsetElement{}, false
	}
	dir := c.P3.Sub(c.P0).Normalize()
	n := Pt(-dir.Y, dir.X).Mul(d)
	return OffsetElement{IsLine: true, Line: Line{P0: c.P0.Add(n), P1: c.P3.Add(n)}}, true
}

// offsetApproxStraight handles near-straight curves by translating the
// start and end tangents independently and building one cubic through
// the four translated control points.
func offsetApproxStraight(c CubicBez, d float64) (OffsetElement, bool) {
	chord := c.P3.Sub(c.P0)
	chordLen := chord.Length()
	if chordLen < 1e-12 {
		return OffsetElement{}, false
	}
	maxDev := 0.0
	for _, p := range []Point{c.P1, c.P2} {
		dist := math.Abs(chord.Cross(p.Sub(c.P0))) / chordLen
		maxDev = math.Max(maxDev, dist)
	}
	if maxDev > 0.02*chordLen {
		return OffsetElement{}, false
	}

	tan0 := tangentAt(c, 0)
	tan1 := tangentAt(c, 1)
	n0 := leftNormal(tan0).Mul(d)
	n1 := leftNormal(tan1).Mul(d)

	return OffsetElement{Cubic: CubicBez{
		P0: c.P0.Add(n0),
		P1: c.P1.Add(n0),
		P2: c.P2.Add(n1),
		P3: c.P3.Add(n1),
	}}, true
}

func tangentAt(c CubicBez, t float64) Point {
	return c.Deriv().Eval(t)
}

func leftNormal(tan Point) Point {
	u := tan.Normalize()
	return Pt(-u.Y, u.X)
}

// offsetArc tries to approximate the offset as a single circular arc via
// the biarc-center construction: intersect the start/end tangent lines at
// V, take the incircle center of triangle (P0, V, P3), and accept only if
// that center's distances to the P0-V and V-P3 legs agree within 1e-8.
// A single center is computed; no second candidate is derived from the
// other endpoint.
func offsetArc(c CubicBez, d, tolerance float64) (OffsetElement, bool) {
	t1 := turn(c.P0, c.P1, c.P2)
	t2 := turn(c.P1, c.P2, c.P3)
	if t1*t2 <= 0 {
		return OffsetElement{}, false
	}

	tan0 := tangentAt(c, 0)
	tan1 := tangentAt(c, 1)
	v, ok := LineLineIntersect(Line{P0: c.P0, P1: c.P0.Add(tan0)}, Line{P0: c.P3, P1: c.P3.Add(tan1)})
	if !ok {
		return OffsetElement{}, false
	}
	vertex := c.P0.Add(tan0.Mul(v))

	center, radius, ok := triangleIncircle(c.P0, vertex, c.P3)
	if !ok {
		return OffsetElement{}, false
	}
	// Cross-check: the incircle center must be equidistant from all three
	// sides; verify the P0-V and V-P3 legs agree within tolerance as a
	// sanity test on the construction before trusting the single-arc fit.
	d0 := distanceToSegmentLine(center, c.P0, vertex)
	d1 := distanceToSegmentLine(center, vertex, c.P3)
	if math.Abs(d0-d1) > 1e-8 {
		return OffsetElement{}, false
	}

	a0 := math.Atan2(c.P0.Y-center.Y, c.P0.X-center.X)
	a1 := math.Atan2(c.P3.Y-center.Y, c.P3.X-center.X)
	arc := NewArc(center, radius+d, a0, a1)

	for _, probe := range []float64{0.2, 0.4, 0.6, 0.8} {
		p := c.Eval(probe)
		distToCenter := p.Distance(center)
		if math.Abs(distToCenter-(radius+d)) > tolerance {
			return OffsetElement{}, false
		}
	}

	cubics := arc.ToCubics()
	if len(cubics) != 1 {
		return OffsetElement{}, false
	}
	return OffsetElement{Cubic: cubics[0]}, true
}

// triangleIncircle returns the incircle center and radius of triangle
// (a,b,c), used as the biarc center candidate for arc-fitting an offset.
func triangleIncircle(a, b, c Point) (Point, float64, bool) {
	sideA := b.Distance(c)
	sideB := a.Distance(c)
	sideC := a.Distance(b)
	perimeter := sideA + sideB + sideC
	if perimeter < 1e-12 {
		return Point{}, 0, false
	}
	center := Pt(
		(sideA*a.X+sideB*b.X+sideC*c.X)/perimeter,
		(sideA*a.Y+sideB*b.Y+sideC*c.Y)/perimeter,
	)
	s := perimeter / 2
	areaSq := s * (s - sideA) * (s - sideB) * (s - sideC)
	if areaSq <= 0 {
		return Point{}, 0, false
	}
	radius := math.Sqrt(areaSq) / s
	return center, radius, true
}

// distanceToSegmentLine returns the perpendicular distance from p to the
// infinite line through a and b.
func distanceToSegmentLine(p, a, b Point) float64 {
	d := b.Sub(a)
	length := d.Length()
	if length < 1e-12 {
		return p.Distance(a)
	}
	return math.Abs(d.Cross(p.Sub(a))) / length
}

// offsetShapeControl builds a candidate by moving P0 and P1 along the
// start normal and P2 and P3 along the end normal by d; the control-point
// magnitudes of c are kept as they are, with no linear solve adjusting
// them. The candidate is accepted when probes at t = 0.25, 0.5, 0.75 and
// its signed-area change stay within tolerance of the desired offset.
// This is the general fallback strategy before recursive subdivision.
func offsetShapeControl(c CubicBez, d, tolerance float64) (OffsetElement, bool) {
	tan0 := tangentAt(c, 0)
	tan1 := tangentAt(c, 1)
	n0 := leftNormal(tan0)
	n1 := leftNormal(tan1)

	area := signedArea(c)
	desiredAreaDelta := d * c.P0.Distance(c.P3)

	k0 := tan0.Length() / 3
	k1 := tan1.Length() / 3

	p1 := c.P0.Add(tan0.Normalize().Mul(k0)).Add(n0.Mul(d))
	p2 := c.P3.Sub(tan1.Normalize().Mul(k1)).Add(n1.Mul(d))

	candidate := CubicBez{
		P0: c.P0.Add(n0.Mul(d)),
		P1: p1,
		P2: p2,
		P3: c.P3.Add(n1.Mul(d)),
	}

	if math.IsInf(tolerance, 1) {
		return OffsetElement{Cubic: candidate}, true
	}

	for _, t := range []float64{0.25, 0.5, 0.75} {
		orig := c.Eval(t)
		probeNormal := leftNormal(tangentAt(c, t))
		want := orig.Add(probeNormal.Mul(d))
		got := candidate.Eval(t)
		if want.Distance(got) > tolerance {
			return OffsetElement{}, false
		}
	}

	candArea := signedArea(candidate) - area
	if math.Abs(candArea-desiredAreaDelta) > tolerance*c.P0.Distance(c.P3) {
		return OffsetElement{}, false
	}

	return OffsetElement{Cubic: candidate}, true
}

func signedArea(c CubicBez) float64 {
	return cubicArea(c.P0, c.P1, c.P2, c.P3)
}
