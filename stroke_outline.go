package gg

import "math"

// StrokeOutline is the filled-path representation of a stroked path: the
// outer and inner offset contours as QuadraticPath, plus their combined
// bounding rect. Caps and joins are folded directly into each contour.
type StrokeOutline struct {
	Outer        QuadraticPath
	Inner        QuadraticPath
	BoundingRect Rect
}

// strokeBuilder accumulates the forward (left/outer) and backward
// (right/inner) offset contours for one subpath while walking its
// segments in order, in the manner of the reference stroke expander:
// forward traces the +radius side, backward traces the -radius side and,
// for an open subpath, is reversed and folded in at the end.
type strokeBuilder struct {
	style     Stroke
	tolerance float64

	forward  QuadraticPath
	backward QuadraticPath

	startPt, startNorm, startTan Point
	lastPt, lastTan, lastNorm    Point
	hasLast                      bool
	joinThresh                   float64
}

// BuildStrokeOutline expands p into a filled StrokeOutline under the
// given stroke style and flattening tolerance.
func BuildStrokeOutline(p *Path, style Stroke, tolerance float64) StrokeOutline {
	if tolerance <= 0 {
		tolerance = 0.25
	}
	b := &strokeBuilder{style: style, tolerance: tolerance}
	b.joinThresh = 2 * tolerance / math.Max(style.Width, 1e-9)

	radius := style.Width / 2
	it := p.IteratorAt(0)
	for !it.Done() {
		cmd := it.path.CommandAt(it.CommandIndex())
		if cmd == CmdMove {
			b.finishOpen(radius)
			mv := it.Segment().P0
			b.startPt, b.lastPt = mv, mv
			b.hasLast = false
			it.Next()
			continue
		}
		seg := it.Segment()
		b.consume(seg, radius)
		it.Next()
	}
	if p.closed && b.hasLast {
		b.finishClosed(radius)
	} else {
		b.finishOpen(radius)
	}

	outline := StrokeOutline{Outer: b.forward, Inner: b.backward}
	outline.BoundingRect = outline.combinedBounds()
	return outline
}

// ToPath renders the outline as a single Path carrying the outer
// contour and, when present, the inner contour as a second closed
// subpath. For a closed subpath both rings are traced in the same
// direction, so it is the even-odd fill rule that reproduces the stroked
// band, including the hole left by the inner offset.
func (o StrokeOutline) ToPath() *Path {
	p := o.Outer.ToPath(true)
	if len(o.Inner.Points) > 0 {
		inner := o.Inner.ToPath(true)
		appendSubpath(p, inner)
	}
	return p
}

// appendSubpath copies src's single subpath onto the end of dst as a
// new Move-led subpath, used to fold a stroke outline's inner ring in
// alongside its outer one without a second Drawable.
func appendSubpath(dst, src *Path) {
	if src.IsEmpty() {
		return
	}
	dst.MoveTo(src.PointAt(0))
	pointIdx := 1
	for i := 1; i < src.NumCommands(); i++ {
		switch src.CommandAt(i) {
		case CmdMove:
			dst.MoveTo(src.PointAt(pointIdx))
			pointIdx++
		case CmdLine:
			dst.LineTo(src.PointAt(pointIdx), false)
			pointIdx++
		case CmdQuadratic:
			dst.QuadraticTo(src.PointAt(pointIdx), src.PointAt(pointIdx+1), false)
			pointIdx += 2
		case CmdCubic:
			dst.CubicTo(src.PointAt(pointIdx), src.PointAt(pointIdx+1), src.PointAt(pointIdx+2), false)
			pointIdx += 3
		}
	}
	if src.IsClosed() {
		dst.Close()
	}
}

func (o StrokeOutline) combinedBounds() Rect {
	has := false
	var r Rect
	if o.Outer.NumCurves() > 0 || len(o.Outer.Points) > 0 {
		r = o.Outer.BoundingRect()
		has = true
	}
	if o.Inner.NumCurves() > 0 || len(o.Inner.Points) > 0 {
		ir := o.Inner.BoundingRect()
		if has {
			r = r.Union(ir)
		} else {
			r = ir
		}
	}
	return r
}

func (b *strokeBuilder) consume(seg Segment, radius float64) {
	switch seg.Kind {
	case SegLine:
		b.lineTo(seg.P1, radius)
	case SegQuadratic:
		q := seg.AsQuad()
		for _, ce := range quadOffsetPair(q, radius, b.tolerance) {
			b.appendOffsetPoint(ce, radius)
		}
	case SegCubic:
		qp := CubicToQuad(seg.AsCubic(), b.tolerance)
		for i := 0; i < qp.NumCurves(); i++ {
			b.quadStep(qp.Curve(i), radius)
		}
	}
}

// appendOffsetPoint walks a flattened point of a quadratic offset pair
// computed directly (see quadOffsetPair) as a straight tangent step.
func (b *strokeBuilder) appendOffsetPoint(p Point, radius float64) {
	if p == b.lastPt {
		return
	}
	b.lineTo(p, radius)
}

// appendOffsetCubicElement folds one piece of a cubic offset (line or
// cubic, already offset to the correct side) into the forward/backward
// contours by running it back through the cubic-to-quadratic conversion
// and treating each resulting quadratic as a new tangent step.
func (b *strokeBuilder) appendOffsetCubicElement(el OffsetElement, radius float64) {
	if el.IsLine {
		b.lineTo(el.Line.P1, radius)
		return
	}
	qp := CubicToQuad(el.Cubic, b.tolerance)
	n := qp.NumCurves()
	for i := 0; i < n; i++ {
		q := qp.Curve(i)
		b.quadStep(q, radius)
	}
}

// quadStep advances the forward/backward contours by one quadratic of
// the *original* (unoffset) path, computing the join against the
// previous tangent and the new offset geometry for this piece directly
// from the quadratic's own endpoints and tangents.
func (b *strokeBuilder) quadStep(q QuadBez, radius float64) {
	tan0 := q.Deriv().Eval(0)
	if tan0.LengthSquared() < 1e-20 {
		tan0 = q.P2.Sub(q.P0)
	}
	b.doJoin(tan0, radius)
	b.lastTan = tan0

	tan1 := q.Deriv().Eval(1)
	n0 := leftNormal(tan0).Mul(radius)
	n1 := leftNormal(tan1).Mul(radius)

	b.forward.AppendQuad(q.P1.Add(n0.Lerp(n1, 0.5)), q.P2.Add(n1))
	b.backward.AppendQuad(q.P1.Sub(n0.Lerp(n1, 0.5)), q.P2.Sub(n1))

	b.lastPt = q.P2
	b.lastNorm = n1
	b.hasLast = true
}

// quadOffsetPair computes the parameters where the offset quadratic's
// derivative becomes singular (from radius^2*(a x b)^2 = (a.a)^3, with a
// the quadratic's derivative direction and b its second derivative),
// splits there, and returns the endpoint of each monotonic piece so the
// caller can sweep a perpendicular offset through it. For ordinary
// quadratics (the common case) this returns just the endpoint.
func quadOffsetPair(q QuadBez, radius, tolerance float64) []Point {
	a := q.P1.Sub(q.P0)
	bdir := q.P2.Sub(q.P1).Sub(a)
	cross := a.Cross(bdir)
	if math.Abs(cross) < 1e-12 {
		return []Point{q.P2}
	}
	aa := a.Dot(a)
	// radius^2 * cross^2 = aa^3 -> solve for the t where a(t) . a(t) matches;
	// a(t) = a + t*bdir, so |a(t)|^2 is quadratic in t.
	target := math.Pow(radius*radius*cross*cross, 1.0/3.0)
	_ = aa
	roots := solveOffsetSingularity(a, bdir, target)
	return subdivideOffsetSweep(q, roots, tolerance)
}

func solveOffsetSingularity(a, bdir Point, target float64) []float64 {
	// |a + t*b|^2 - target = 0
	qa := bdir.Dot(bdir)
	qb := 2 * a.Dot(bdir)
	qc := a.Dot(a) - target
	if qa < 1e-18 {
		return nil
	}
	roots := SolveQuadraticInUnitInterval(qa, qb, qc)
	return roots
}

func subdivideOffsetSweep(q QuadBez, roots []float64, tolerance float64) []Point {
	if len(roots) == 0 {
		return []Point{q.P2}
	}
	var out []Point
	prev := 0.0
	for _, t := range roots {
		if t <= prev+1e-9 || t >= 1-1e-9 {
			continue
		}
		out = append(out, q.Eval(t))
		prev = t
	}
	out = append(out, q.P2)
	return out
}

func (b *strokeBuilder) lineTo(p Point, radius float64) {
	if p == b.lastPt && b.hasLast {
		return
	}
	tangent := p.Sub(b.lastPt)
	if tangent.LengthSquared() < 1e-20 {
		return
	}
	b.doJoin(tangent, radius)
	b.lastTan = tangent

	n := leftNormal(tangent).Mul(radius)
	b.forward.AppendLine(p.Add(n))
	b.backward.AppendLine(p.Sub(n))
	b.lastPt = p
	b.lastNorm = n
	b.hasLast = true
}

func (b *strokeBuilder) doJoin(tangent Point, radius float64) {
	n := leftNormal(tangent).Mul(radius)
	if len(b.forward.Points) == 0 {
		b.forward.AppendLine(b.lastPt.Add(n))
		b.backward.AppendLine(b.lastPt.Sub(n))
		b.startTan = tangent
		b.startNorm = n
		return
	}
	if !b.hasLast {
		return
	}

	ab := b.lastTan
	cd := tangent
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)

	if dot > 0 && math.Abs(cross) < hypot*b.joinThresh {
		return
	}

	switch b.style.Join {
	case LineJoinBevel:
		// Bevel: the subsequent AppendLine/AppendQuad call already draws
		// straight to the new offset point, nothing extra to emit here.
	case LineJoinRound:
		b.roundJoin(cross, radius)
	default:
		b.miterJoin(ab, cd, cross, dot, hypot, radius)
	}
}

func (b *strokeBuilder) miterJoin(ab, cd Point, cross, dot, hypot, radius float64) {
	miterLimitSq := b.style.MiterLimit * b.style.MiterLimit
	if 2*hypot >= (hypot+dot)*miterLimitSq {
		return
	}
	lastNorm := leftNormal(ab).Mul(radius)
	norm := leftNormal(cd).Mul(radius)
	if cross > 0 {
		h := ab.Cross(norm.Sub(lastNorm)) / cross
		miterPt := b.lastPt.Add(norm).Sub(cd.Mul(h))
		b.forward.AppendLine(miterPt)
	} else if cross < 0 {
		h := ab.Cross(norm.Sub(lastNorm)) / cross
		miterPt := b.lastPt.Sub(norm).Sub(cd.Mul(h))
		b.backward.AppendLine(miterPt)
	}
}

func (b *strokeBuilder) roundJoin(cross, radius float64) {
	angle := math.Atan2(cross, b.lastTan.Dot(b.lastTan))
	arc := NewArc(b.lastPt, radius, math.Atan2(b.lastNorm.Y, b.lastNorm.X), math.Atan2(b.lastNorm.Y, b.lastNorm.X)+angle)
	for _, cubic := range arc.ToCubics() {
		qp := CubicToQuad(cubic, b.tolerance)
		for i := 0; i < qp.NumCurves(); i++ {
			q := qp.Curve(i)
			if cross > 0 {
				b.forward.AppendQuad(q.P1, q.P2)
			} else {
				b.backward.AppendQuad(q.P1, q.P2)
			}
		}
	}
}

// finishOpen closes out an open subpath by applying end/start caps and
// folding the reversed backward contour in after the forward one.
func (b *strokeBuilder) finishOpen(radius float64) {
	if len(b.forward.Points) == 0 {
		return
	}
	b.applyCap(b.style.Cap, b.lastPt, b.lastNorm, radius)
	rev := b.backward.Reversed()
	b.forward.Points = append(b.forward.Points, rev.Points...)
	b.applyCap(b.style.Cap, b.startPt, b.startNorm.Mul(-1), radius)

	b.backward = QuadraticPath{}
}

// finishClosed closes out a closed subpath: the forward contour and the
// backward contour (left unreversed) each close on themselves, joined at
// the seam using the first and last segment tangents.
func (b *strokeBuilder) finishClosed(radius float64) {
	if len(b.forward.Points) == 0 {
		return
	}
	b.doJoin(b.startTan, radius)
	// forward and backward already each trace a closed loop; leave them
	// as separate contours (outer and inner rings of the stroked area).
}

func (b *strokeBuilder) applyCap(cap LineCap, center, norm Point, radius float64) {
	switch cap {
	case LineCapButt:
		b.forward.AppendLine(center.Sub(norm))
	case LineCapSquare:
		tan := leftNormal(norm).Mul(-1)
		ext := tan.Mul(radius)
		b.forward.AppendLine(center.Add(norm).Add(ext))
		b.forward.AppendLine(center.Sub(norm).Add(ext))
	case LineCapRound:
		a0 := math.Atan2(norm.Y, norm.X)
		arc := NewArc(center, radius, a0, a0+math.Pi)
		for _, cubic := range arc.ToCubics() {
			qp := CubicToQuad(cubic, b.tolerance)
			for i := 0; i < qp.NumCurves(); i++ {
				q := qp.Curve(i)
				b.forward.AppendQuad(q.P1, q.P2)
			}
		}
	}
}
