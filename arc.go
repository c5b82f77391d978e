package gg

import "math"

// Arc describes a circular arc by center, radius, and start/end angles
// in radians (0 is along +X, increasing counter-clockwise per the
// package's coordinate convention, i.e. clockwise on screen since Y
// increases downward). The orientation is determined by the sign of
// End-Start: a positive sweep runs counter-clockwise in math terms.
type Arc struct {
	Center     Point
	Radius     float64
	Start, End float64
}

// NewArc returns an Arc from angle1 to angle2, normalizing angle2 so
// the sweep is always taken in the increasing direction (i.e. callers
// wanting a clockwise-on-screen sweep pass angle1 < angle2).
func NewArc(center Point, radius, angle1, angle2 float64) Arc {
	for angle2 < angle1 {
		angle2 += 2 * math.Pi
	}
	return Arc{Center: center, Radius: radius, Start: angle1, End: angle2}
}

// CCW reports whether the arc's stored end angle is less than its start
// angle, i.e. whether the sweep runs in the negative-angle
// (counter-clockwise on screen) direction. NewArc always stores
// End >= Start and does not record the direction of the angles it was
// given, so CCW is false for every arc built by NewArc; ToCubics
// always walks Start -> End as stored.
func (a Arc) CCW() bool {
	return a.End < a.Start
}

// ToCubics approximates the arc with cubic Bezier segments of at most
// pi/2 each, using the standard circular-arc control-point distance
// k = (4/3)*tan(delta/4).
func (a Arc) ToCubics() []CubicBez {
	const maxAngle = math.Pi / 2
	sweep := a.End - a.Start
	n := int(math.Ceil(math.Abs(sweep) / maxAngle))
	if n < 1 {
		n = 1
	}
	step := sweep / float64(n)

	segs := make([]CubicBez, 0, n)
	for i := 0; i < n; i++ {
		a1 := a.Start + float64(i)*step
		a2 := a1 + step
		segs = append(segs, arcSegmentCubic(a.Center, a.Radius, a1, a2))
	}
	return segs
}

// arcSegmentCubic returns the cubic Bezier approximation of a single
// arc segment spanning at most pi/2, exact at both endpoints and
// tangent-matched there.
func arcSegmentCubic(center Point, r, a1, a2 float64) CubicBez {
	delta := a2 - a1
	k := (4.0 / 3.0) * math.Tan(delta/4)

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	p0 := center.Add(Pt(r*cos1, r*sin1))
	p3 := center.Add(Pt(r*cos2, r*sin2))

	p1 := p0.Add(Pt(-k*r*sin1, k*r*cos1))
	p2 := p3.Sub(Pt(-k*r*sin2, k*r*cos2))

	return CubicBez{P0: p0, P1: p1, P2: p2, P3: p3}
}
