package gg

import "math"

// Path operations for area calculation, winding number, containment
// testing, flattening, reversal, and arc length measurement, built on
// the packed command iterator.

// Area returns the signed area enclosed by the path. Positive for
// clockwise paths, negative for counter-clockwise. Uses the shoelace
// formula extended to curves via Green's theorem. Open subpaths are
// implicitly closed with a straight line back to their start for the
// purpose of this computation.
func (p *Path) Area() float64 {
	var area float64
	if p.numCmds == 0 {
		return 0
	}

	it := p.IteratorAt(0)
	start := p.points[0]
	var current Point
	for !it.Done() {
		if it.path.CommandAt(it.CommandIndex()) == CmdMove {
			if current != start {
				area += lineArea(current, start)
			}
			start = it.Segment().P0
			current = start
			it.Next()
			continue
		}
		seg := it.Segment()
		switch seg.Kind {
		case SegLine:
			area += lineArea(seg.P0, seg.P1)
		case SegQuadratic:
			q := seg.AsQuad()
			area += quadArea(q.P0, q.P1, q.P2)
		case SegCubic:
			c := seg.AsCubic()
			area += cubicArea(c.P0, c.P1, c.P2, c.P3)
		}
		current = seg.End()
		it.Next()
	}
	if current != start {
		area += lineArea(current, start)
	}

	return area
}

func lineArea(p0, p1 Point) float64 {
	return 0.5 * (p0.X*p1.Y - p1.X*p0.Y)
}

func quadArea(p0, p1, p2 Point) float64 {
	return (p0.X*(2*p1.Y+p2.Y) + p1.X*(-p0.Y+p2.Y) + p2.X*(-2*p1.Y-p0.Y)) / 6.0
}

func cubicArea(p0, p1, p2, p3 Point) float64 {
	return (p0.X*(6*p1.Y+3*p2.Y+p3.Y) +
		3*p1.X*(-2*p0.Y+p2.Y+p3.Y) +
		3*p2.X*(-p0.Y-p1.Y+2*p3.Y) +
		p3.X*(-p0.Y-3*p1.Y-6*p2.Y)) / 20.0
}

// Winding returns the winding number of pt relative to the path under
// the non-zero fill rule, via ray casting with a horizontal ray cast
// to the right. Each subpath is implicitly closed for this purpose.
func (p *Path) Winding(pt Point) int {
	var winding int
	if p.numCmds == 0 {
		return 0
	}

	it := p.IteratorAt(0)
	start := p.points[0]
	current := start
	for !it.Done() {
		if it.path.CommandAt(it.CommandIndex()) == CmdMove {
			if current != start {
				winding += lineWinding(current, start, pt)
			}
			start = it.Segment().P0
			current = start
			it.Next()
			continue
		}
		seg := it.Segment()
		switch seg.Kind {
		case SegLine:
			winding += lineWinding(seg.P0, seg.P1, pt)
		case SegQuadratic:
			winding += quadWinding(seg.AsQuad(), pt)
		case SegCubic:
			winding += cubicWinding(seg.AsCubic(), pt)
		}
		current = seg.End()
		it.Next()
	}
	if current != start {
		winding += lineWinding(current, start, pt)
	}

	return winding
}

func lineWinding(p0, p1, pt Point) int {
	if p0.Y <= pt.Y && p1.Y > pt.Y {
		if isLeft(p0, p1, pt) > 0 {
			return 1
		}
	} else if p0.Y > pt.Y && p1.Y <= pt.Y {
		if isLeft(p0, p1, pt) < 0 {
			return -1
		}
	}
	return 0
}

func isLeft(p0, p1, pt Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}

func quadWinding(q QuadBez, pt Point) int {
	minY := math.Min(math.Min(q.P0.Y, q.P1.Y), q.P2.Y)
	maxY := math.Max(math.Max(q.P0.Y, q.P1.Y), q.P2.Y)
	if pt.Y < minY || pt.Y > maxY {
		return 0
	}
	maxX := math.Max(math.Max(q.P0.X, q.P1.X), q.P2.X)
	if pt.X > maxX {
		return 0
	}
	var winding int
	flattenQuadWindingRecursive(q, pt, 0.1, &winding)
	return winding
}

func flattenQuadWindingRecursive(q QuadBez, pt Point, tolerance float64, winding *int) {
	mid := q.P0.Lerp(q.P2, 0.5)
	dist := q.P1.Sub(mid).Length()
	if dist <= tolerance {
		*winding += lineWinding(q.P0, q.P2, pt)
		return
	}
	q1, q2 := q.Subdivide()
	flattenQuadWindingRecursive(q1, pt, tolerance, winding)
	flattenQuadWindingRecursive(q2, pt, tolerance, winding)
}

func cubicWinding(c CubicBez, pt Point) int {
	minY := math.Min(math.Min(c.P0.Y, c.P1.Y), math.Min(c.P2.Y, c.P3.Y))
	maxY := math.Max(math.Max(c.P0.Y, c.P1.Y), math.Max(c.P2.Y, c.P3.Y))
	if pt.Y < minY || pt.Y > maxY {
		return 0
	}
	maxX := math.Max(math.Max(c.P0.X, c.P1.X), math.Max(c.P2.X, c.P3.X))
	if pt.X > maxX {
		return 0
	}
	var winding int
	flattenCubicWindingRecursive(c, pt, 0.1, &winding)
	return winding
}

func flattenCubicWindingRecursive(c CubicBez, pt Point, tolerance float64, winding *int) {
	if cubicFlatness(c) <= tolerance {
		*winding += lineWinding(c.P0, c.P3, pt)
		return
	}
	c1, c2 := c.Subdivide()
	flattenCubicWindingRecursive(c1, pt, tolerance, winding)
	flattenCubicWindingRecursive(c2, pt, tolerance, winding)
}

func cubicFlatness(c CubicBez) float64 {
	ux := 3.0*c.P1.X - 2.0*c.P0.X - c.P3.X
	uy := 3.0*c.P1.Y - 2.0*c.P0.Y - c.P3.Y
	vx := 3.0*c.P2.X - c.P0.X - 2.0*c.P3.X
	vy := 3.0*c.P2.Y - c.P0.Y - 2.0*c.P3.Y
	return math.Max(ux*ux+uy*uy, vx*vx+vy*vy)
}

// Contains tests if pt is inside the path using the non-zero fill rule.
func (p *Path) Contains(pt Point) bool {
	return p.Winding(pt) != 0
}

// Flatten converts every curve in the path to line segments within
// tolerance, returning the resulting polyline(s) as one flat point
// slice (subpaths are concatenated with nothing marking where one ends;
// FlattenCallback reports the same points and does not mark subpath
// starts either).
func (p *Path) Flatten(tolerance float64) []Point {
	if p.numCmds == 0 {
		return nil
	}
	points := make([]Point, 0, len(p.points)*2)
	p.FlattenCallback(tolerance, func(pt Point) {
		points = append(points, pt)
	})
	return points
}

// FlattenCallback calls fn for each point of the flattened path, in
// order, without intermediate allocation of a result slice.
func (p *Path) FlattenCallback(tolerance float64, fn func(pt Point)) {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	if p.numCmds == 0 {
		return
	}

	it := p.IteratorAt(0)
	fn(p.points[0])
	start := p.points[0]
	var current Point
	for !it.Done() {
		if it.path.CommandAt(it.CommandIndex()) == CmdMove {
			if p.closed && current != start {
				fn(start)
			}
			start = it.Segment().P0
			current = start
			fn(start)
			it.Next()
			continue
		}
		seg := it.Segment()
		switch seg.Kind {
		case SegLine:
			fn(seg.P1)
		case SegQuadratic:
			flattenQuadRecursive(seg.AsQuad(), tolerance*tolerance, fn)
		case SegCubic:
			flattenCubicRecursive(seg.AsCubic(), tolerance*tolerance, fn)
		}
		current = seg.End()
		it.Next()
	}
	if p.closed && current != start {
		fn(start)
	}
}

func flattenQuadRecursive(q QuadBez, toleranceSq float64, fn func(pt Point)) {
	mid := q.P0.Lerp(q.P2, 0.5)
	dist := q.P1.Sub(mid)
	if dist.LengthSquared() <= toleranceSq {
		fn(q.P2)
		return
	}
	q1, q2 := q.Subdivide()
	flattenQuadRecursive(q1, toleranceSq, fn)
	flattenQuadRecursive(q2, toleranceSq, fn)
}

func flattenCubicRecursive(c CubicBez, toleranceSq float64, fn func(pt Point)) {
	if cubicFlatness(c) <= toleranceSq*16 {
		fn(c.P3)
		return
	}
	c1, c2 := c.Subdivide()
	flattenCubicRecursive(c1, toleranceSq, fn)
	flattenCubicRecursive(c2, toleranceSq, fn)
}

// Reversed returns a new path tracing every subpath in the opposite
// direction.
func (p *Path) Reversed() *Path {
	if p.numCmds == 0 {
		return NewPath()
	}

	type subpath struct {
		segs   []Segment
		closed bool
	}
	var subpaths []subpath
	var cur subpath

	it := p.IteratorAt(0)
	for !it.Done() {
		if it.path.CommandAt(it.CommandIndex()) == CmdMove && len(cur.segs) > 0 {
			subpaths = append(subpaths, cur)
			cur = subpath{}
		}
		if it.path.CommandAt(it.CommandIndex()) != CmdMove {
			cur.segs = append(cur.segs, it.Segment())
		}
		it.Next()
	}
	cur.closed = p.closed
	if len(cur.segs) > 0 || len(subpaths) == 0 {
		subpaths = append(subpaths, cur)
	}

	result := NewPath()
	for _, sp := range subpaths {
		if len(sp.segs) == 0 {
			continue
		}
		last := sp.segs[len(sp.segs)-1]
		if sp.closed {
			first := sp.segs[0].P0
			result.MoveTo(first)
			if last.End() != first {
				result.LineTo(last.End(), false)
			}
		} else {
			result.MoveTo(last.End())
		}
		for i := len(sp.segs) - 1; i >= 0; i-- {
			s := sp.segs[i]
			switch s.Kind {
			case SegLine:
				result.LineTo(s.P0, false)
			case SegQuadratic:
				result.QuadraticTo(s.P1, s.P0, false)
			case SegCubic:
				result.CubicTo(s.P2, s.P1, s.P0, false)
			}
		}
		if sp.closed {
			result.Close()
		}
	}
	return result
}

// Length returns the total arc length of the path. accuracy bounds the
// chord/control-polygon discrepancy used to terminate adaptive
// subdivision (smaller values are more precise and slower).
func (p *Path) Length(accuracy float64) float64 {
	if accuracy <= 0 {
		accuracy = 0.001
	}
	if p.numCmds == 0 {
		return 0
	}

	var length float64
	it := p.IteratorAt(0)
	for !it.Done() {
		seg := it.Segment()
		switch seg.Kind {
		case SegLine:
			length += seg.P0.Distance(seg.P1)
		case SegQuadratic:
			length += quadLengthRecursive(seg.AsQuad(), accuracy*accuracy)
		case SegCubic:
			length += cubicLengthRecursive(seg.AsCubic(), accuracy*accuracy)
		}
		it.Next()
	}
	return length
}

func quadLengthRecursive(q QuadBez, accuracySq float64) float64 {
	chord := q.P0.Distance(q.P2)
	polygon := q.P0.Distance(q.P1) + q.P1.Distance(q.P2)
	diff := polygon - chord
	if diff*diff <= accuracySq {
		return (chord + polygon) / 2
	}
	q1, q2 := q.Subdivide()
	return quadLengthRecursive(q1, accuracySq) + quadLengthRecursive(q2, accuracySq)
}

func cubicLengthRecursive(c CubicBez, accuracySq float64) float64 {
	chord := c.P0.Distance(c.P3)
	polygon := c.P0.Distance(c.P1) + c.P1.Distance(c.P2) + c.P2.Distance(c.P3)
	diff := polygon - chord
	if diff*diff <= accuracySq {
		return (chord + polygon) / 2
	}
	c1, c2 := c.Subdivide()
	return cubicLengthRecursive(c1, accuracySq) + cubicLengthRecursive(c2, accuracySq)
}
