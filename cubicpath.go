package gg

// CubicPath is a flat point array storing n cubic curves as 3n+1 points:
// a leading vertex followed by (control, control, vertex) triples.
type CubicPath struct {
	Points []Point
}

// NewCubicPath creates a CubicPath from a flat point array. The array
// must have length 3n+1 for n curves.
func NewCubicPath(points []Point) CubicPath {
	return CubicPath{Points: points}
}

// NumCurves returns the number of cubic curves in the path.
func (cp CubicPath) NumCurves() int {
	if len(cp.Points) < 4 {
		return 0
	}
	return (len(cp.Points) - 1) / 3
}

// Curve returns the i-th cubic Bezier segment.
func (cp CubicPath) Curve(i int) CubicBez {
	base := i * 3
	return CubicBez{
		P0: cp.Points[base],
		P1: cp.Points[base+1],
		P2: cp.Points[base+2],
		P3: cp.Points[base+3],
	}
}

// AppendCubic appends a cubic curve (control1, control2, end).
func (cp *CubicPath) AppendCubic(c1, c2, to Point) {
	if len(cp.Points) == 0 {
		cp.Points = append(cp.Points, Point{})
	}
	cp.Points = append(cp.Points, c1, c2, to)
}

// BoundingRect returns the union of the exact bounding rects of every
// curve in the path.
func (cp CubicPath) BoundingRect() Rect {
	n := cp.NumCurves()
	if n == 0 {
		if len(cp.Points) == 1 {
			return NewRect(cp.Points[0], cp.Points[0])
		}
		return Rect{}
	}
	r := cp.Curve(0).BoundingBox()
	for i := 1; i < n; i++ {
		r = r.Union(cp.Curve(i).BoundingBox())
	}
	return r
}

// Reversed returns a new CubicPath tracing the same curves in the
// opposite direction.
func (cp CubicPath) Reversed() CubicPath {
	out := make([]Point, len(cp.Points))
	for i, p := range cp.Points {
		out[len(cp.Points)-1-i] = p
	}
	return CubicPath{Points: out}
}

// CubicMultipath is a CubicPath plus a secondary index marking where each
// disjoint sub-contour begins, used for inputs with more than one fill
// region (e.g. a stroke's outer and inner outlines, or glyphs with holes).
type CubicMultipath struct {
	Points []Point
	Starts []int // point index where each sub-contour begins
}

// NumContours returns the number of sub-contours.
func (cm CubicMultipath) NumContours() int {
	return len(cm.Starts)
}

// Contour returns the CubicPath for the i-th sub-contour.
func (cm CubicMultipath) Contour(i int) CubicPath {
	start := cm.Starts[i]
	end := len(cm.Points)
	if i+1 < len(cm.Starts) {
		end = cm.Starts[i+1]
	}
	return CubicPath{Points: cm.Points[start:end]}
}

// AppendContour appends a CubicPath as a new sub-contour, recording its
// start offset.
func (cm *CubicMultipath) AppendContour(cp CubicPath) {
	cm.Starts = append(cm.Starts, len(cm.Points))
	cm.Points = append(cm.Points, cp.Points...)
}

// BoundingRect returns the union of every sub-contour's bounding rect.
func (cm CubicMultipath) BoundingRect() Rect {
	n := cm.NumContours()
	if n == 0 {
		return Rect{}
	}
	r := cm.Contour(0).BoundingRect()
	for i := 1; i < n; i++ {
		r = r.Union(cm.Contour(i).BoundingRect())
	}
	return r
}

// QuadraticMultipath is the quadratic analogue of CubicMultipath, used
// for glyph contours ingested as already-shaped outlines (§6).
type QuadraticMultipath struct {
	Points []Point
	Starts []int
}

// NumContours returns the number of sub-contours.
func (qm QuadraticMultipath) NumContours() int {
	return len(qm.Starts)
}

// Contour returns the QuadraticPath for the i-th sub-contour.
func (qm QuadraticMultipath) Contour(i int) QuadraticPath {
	start := qm.Starts[i]
	end := len(qm.Points)
	if i+1 < len(qm.Starts) {
		end = qm.Starts[i+1]
	}
	return QuadraticPath{Points: qm.Points[start:end]}
}

// AppendContour appends a QuadraticPath as a new sub-contour.
func (qm *QuadraticMultipath) AppendContour(qp QuadraticPath) {
	qm.Starts = append(qm.Starts, len(qm.Points))
	qm.Points = append(qm.Points, qp.Points...)
}
