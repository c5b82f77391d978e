package gg

// QuadraticPath is a flat point array where points at even indices are
// vertices and points at odd indices are quadratic controls. A Line is
// represented as a quadratic whose control point equals either endpoint.
// The number of curves is (len(Points)-1)/2.
type QuadraticPath struct {
	Points []Point
}

// NewQuadraticPath creates a QuadraticPath from a flat vertex/control
// point array. The array must have odd length (2n+1 for n curves).
func NewQuadraticPath(points []Point) QuadraticPath {
	return QuadraticPath{Points: points}
}

// NumCurves returns the number of quadratic curves in the path.
func (qp QuadraticPath) NumCurves() int {
	if len(qp.Points) < 3 {
		return 0
	}
	return (len(qp.Points) - 1) / 2
}

// Curve returns the i-th quadratic Bezier segment.
func (qp QuadraticPath) Curve(i int) QuadBez {
	base := i * 2
	return QuadBez{P0: qp.Points[base], P1: qp.Points[base+1], P2: qp.Points[base+2]}
}

// AppendLine appends a line segment as a degenerate quadratic whose
// control point coincides with the end point.
func (qp *QuadraticPath) AppendLine(to Point) {
	if len(qp.Points) == 0 {
		qp.Points = append(qp.Points, to)
		return
	}
	qp.Points = append(qp.Points, to, to)
}

// AppendQuad appends a quadratic curve (control, end).
func (qp *QuadraticPath) AppendQuad(ctrl, to Point) {
	if len(qp.Points) == 0 {
		qp.Points = append(qp.Points, Point{})
	}
	qp.Points = append(qp.Points, ctrl, to)
}

// BoundingRect returns the union of the exact bounding rects of every
// curve in the path.
func (qp QuadraticPath) BoundingRect() Rect {
	n := qp.NumCurves()
	if n == 0 {
		if len(qp.Points) == 1 {
			return NewRect(qp.Points[0], qp.Points[0])
		}
		return Rect{}
	}
	r := qp.Curve(0).BoundingBox()
	for i := 1; i < n; i++ {
		r = r.Union(qp.Curve(i).BoundingBox())
	}
	return r
}

// Reversed returns a new QuadraticPath tracing the same curves in the
// opposite direction.
func (qp QuadraticPath) Reversed() QuadraticPath {
	out := make([]Point, len(qp.Points))
	for i, p := range qp.Points {
		out[len(qp.Points)-1-i] = p
	}
	return QuadraticPath{Points: out}
}

// Flatten emits a polyline approximation of the path by subdividing each
// curve until it satisfies tolerance, using the adaptive flatness
// criterion from the path builder.
func (qp QuadraticPath) Flatten(tolerance float64) []Point {
	if len(qp.Points) == 0 {
		return nil
	}
	out := []Point{qp.Points[0]}
	n := qp.NumCurves()
	for i := 0; i < n; i++ {
		flattenQuadInto(&out, qp.Curve(i), tolerance, 0)
	}
	return out
}

// ToPath materializes the quadratic path as a Path, suitable for feeding
// into anything that consumes the packed command model (the tile
// classifier in particular). The result is closed when closed is true,
// which is how a stroke outline ring is meant to be consumed.
func (qp QuadraticPath) ToPath(closed bool) *Path {
	p := NewPath()
	if len(qp.Points) == 0 {
		return p
	}
	p.MoveTo(qp.Points[0])
	n := qp.NumCurves()
	for i := 0; i < n; i++ {
		c := qp.Curve(i)
		if c.P1 == c.P0 || c.P1 == c.P2 {
			p.LineTo(c.P2, false)
			continue
		}
		p.QuadraticTo(c.P1, c.P2, false)
	}
	if closed {
		p.Close()
	}
	return p
}

func flattenQuadInto(out *[]Point, q QuadBez, tolerance float64, depth int) {
	if depth >= 24 || quadFlatness(q) < tolerance*tolerance {
		*out = append(*out, q.P2)
		return
	}
	a, b := q.Subdivide()
	flattenQuadInto(out, a, tolerance, depth+1)
	flattenQuadInto(out, b, tolerance, depth+1)
}

// quadFlatness computes d = |cross(p2-p0, p0-mid)|^2 / |p2-p0|^2 where
// mid is the midpoint of the control polygon, per the path builder's
// flattening criterion.
func quadFlatness(q QuadBez) float64 {
	chord := q.P2.Sub(q.P0)
	chordLenSq := chord.LengthSquared()
	if chordLenSq < 1e-18 {
		return q.P1.Distance(q.P0) * q.P1.Distance(q.P0)
	}
	mid := q.P0.Add(q.P1.Mul(2)).Add(q.P2).Mul(0.25)
	d := chord.Cross(q.P0.Sub(mid))
	return (d * d) / chordLenSq
}
