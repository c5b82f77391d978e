package gg

import "math"

// Command tags one entry in a Path's packed command stream.
type Command uint8

const (
	CmdMove Command = iota
	CmdLine
	CmdQuadratic
	CmdCubic
)

// pointsPerCommand gives the number of points appended by each command
// kind (not counting the point it shares with the previous command).
var pointsPerCommand = [4]int{
	CmdMove:      1,
	CmdLine:      1,
	CmdQuadratic: 2,
	CmdCubic:     3,
}

// Path is a packed representation of one or more subpaths: a shared
// point array plus a 2-bit-per-command tag stream. Commands pack four
// to a byte, so a path with thousands of segments costs a few hundred
// bytes of tag storage instead of one boxed interface value per
// segment.
//
// The first command is always a Move; every subsequent command shares
// its leading point with the previous command's trailing point.
type Path struct {
	commands []byte
	numCmds  int
	points   []Point
	closed   bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// CommandAt returns the command tag at the given index.
func (p *Path) CommandAt(i int) Command {
	byteIdx := i / 4
	shift := uint(i%4) * 2
	return Command((p.commands[byteIdx] >> shift) & 0x3)
}

// NumCommands returns the number of commands in the path.
func (p *Path) NumCommands() int {
	return p.numCmds
}

// NumPoints returns the number of points backing the path.
func (p *Path) NumPoints() int {
	return len(p.points)
}

// PointAt returns the point at the given index.
func (p *Path) PointAt(i int) Point {
	return p.points[i]
}

// IsClosed reports whether the current subpath has been closed.
func (p *Path) IsClosed() bool {
	return p.closed
}

// IsEmpty reports whether the path has no commands.
func (p *Path) IsEmpty() bool {
	return p.numCmds == 0
}

// pointsInCommand returns the number of points belonging to command i,
// not counting its shared leading point.
func (p *Path) pointsInCommand(i int) int {
	return pointsPerCommand[p.CommandAt(i)]
}

// pushCommand appends a command tag to the packed stream.
func (p *Path) pushCommand(cmd Command) {
	byteIdx := p.numCmds / 4
	shift := uint(p.numCmds%4) * 2
	for len(p.commands) <= byteIdx {
		p.commands = append(p.commands, 0)
	}
	p.commands[byteIdx] |= byte(cmd) << shift
	p.numCmds++
}

// MoveTo starts a new subpath at pt. A path may carry more than one
// subpath by issuing multiple Moves.
func (p *Path) MoveTo(pt Point) {
	p.points = append(p.points, pt)
	p.pushCommand(CmdMove)
	p.closed = false
}

// LineTo appends a line segment to pt. If reverse is true, the segment
// is prepended to the start of the path instead (pt becomes the new
// leading Move point), which lets
// an editor grow a path outward from both ends of a drag gesture.
func (p *Path) LineTo(pt Point, reverse bool) {
	if reverse {
		p.prependSegment(CmdLine, pt)
		return
	}
	p.points = append(p.points, pt)
	p.pushCommand(CmdLine)
}

// QuadraticTo appends a quadratic Bezier segment with control ctrl
// ending at pt.
func (p *Path) QuadraticTo(ctrl, pt Point, reverse bool) {
	if reverse {
		p.prependSegment(CmdQuadratic, ctrl, pt)
		return
	}
	p.points = append(p.points, ctrl, pt)
	p.pushCommand(CmdQuadratic)
}

// CubicTo appends a cubic Bezier segment with controls c1, c2 ending
// at pt.
func (p *Path) CubicTo(c1, c2, pt Point, reverse bool) {
	if reverse {
		p.prependSegment(CmdCubic, c1, c2, pt)
		return
	}
	p.points = append(p.points, c1, c2, pt)
	p.pushCommand(CmdCubic)
}

// prependSegment inserts a segment at the start of the path (the first
// subpath). rest holds the segment's controls and its new end point as
// traced outward from the old start, controls nearest the old start
// first; its last element becomes the new leading Move point and the
// old start becomes the shared vertex with the following segment.
func (p *Path) prependSegment(cmd Command, rest ...Point) {
	newPoints := make([]Point, 0, len(p.points)+len(rest))
	newPoints = append(newPoints, rest[len(rest)-1])
	for i := len(rest) - 2; i >= 0; i-- {
		newPoints = append(newPoints, rest[i])
	}
	newPoints = append(newPoints, p.points...)
	p.points = newPoints

	p.insertCommandAt(1, cmd)
}

// insertCommandAt inserts a command tag at index i, shifting later
// tags up by one slot.
func (p *Path) insertCommandAt(i int, cmd Command) {
	tags := make([]Command, 0, p.numCmds+1)
	for j := 0; j < p.numCmds; j++ {
		if j == i {
			tags = append(tags, cmd)
		}
		tags = append(tags, p.CommandAt(j))
	}
	if i >= p.numCmds {
		tags = append(tags, cmd)
	}
	p.reencodeTags(tags)
}

// reencodeTags replaces the packed command stream wholesale.
func (p *Path) reencodeTags(tags []Command) {
	p.commands = make([]byte, (len(tags)+3)/4)
	p.numCmds = 0
	for _, t := range tags {
		p.pushCommand(t)
	}
}

// Close marks the current subpath as closed. Idempotent: calling Close
// on an already-closed subpath, or on an empty path, is a no-op.
func (p *Path) Close() {
	if p.closed || p.numCmds == 0 {
		return
	}
	p.closed = true
}

// Translate shifts every point in the path by delta, in place.
func (p *Path) Translate(delta Point) {
	for i := range p.points {
		p.points[i] = p.points[i].Add(delta)
	}
}

// Transformed returns a new path with every point mapped through m,
// leaving the receiver unmodified.
func (p *Path) Transformed(m Matrix) *Path {
	out := &Path{
		commands: append([]byte(nil), p.commands...),
		numCmds:  p.numCmds,
		points:   make([]Point, len(p.points)),
		closed:   p.closed,
	}
	for i, pt := range p.points {
		out.points[i] = m.TransformPoint(pt)
	}
	return out
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	return &Path{
		commands: append([]byte(nil), p.commands...),
		numCmds:  p.numCmds,
		points:   append([]Point(nil), p.points...),
		closed:   p.closed,
	}
}

// BoundingRect returns the union of the exact bounding rects of every
// segment in the path.
func (p *Path) BoundingRect() Rect {
	if p.numCmds == 0 {
		return Rect{}
	}
	it := p.IteratorAt(0)
	r := NewRect(p.points[0], p.points[0])
	for !it.Done() {
		seg := it.Segment()
		switch seg.Kind {
		case SegLine:
			r = r.Union(Line{P0: seg.P0, P1: seg.P1}.BoundingBox())
		case SegQuadratic:
			r = r.Union(seg.AsQuad().BoundingBox())
		case SegCubic:
			r = r.Union(seg.AsCubic().BoundingBox())
		}
		it.Next()
	}
	return r
}

// Split divides the segment at commandIndex into two at parameter t,
// inserting a new vertex and returning the command index of the second
// half (the first half replaces the original command in place).
func (p *Path) Split(commandIndex int, t float64) int {
	it := p.IteratorAt(commandIndex)
	seg := it.Segment()

	tags := make([]Command, 0, p.numCmds+1)
	for i := 0; i < p.numCmds; i++ {
		tags = append(tags, p.CommandAt(i))
		if i == commandIndex {
			tags = append(tags, p.CommandAt(i))
		}
	}

	before := it.pointIndexBefore()
	after := it.pointIndexAfter()
	newPoints := make([]Point, 0, len(p.points)+pointsPerCommand[p.CommandAt(commandIndex)])
	newPoints = append(newPoints, p.points[:before+1]...)

	switch seg.Kind {
	case SegLine:
		mid := seg.AsLine().Eval(t)
		newPoints = append(newPoints, mid)
	case SegQuadratic:
		left, right := splitQuadAt(seg.AsQuad(), t)
		newPoints = append(newPoints, left.P1, left.P2, right.P1)
	case SegCubic:
		left, right := splitCubicAt(seg.AsCubic(), t)
		newPoints = append(newPoints, left.P1, left.P2, left.P3, right.P1, right.P2)
	}
	newPoints = append(newPoints, p.points[after:]...)

	p.points = newPoints
	p.reencodeTags(tags)
	return commandIndex + 1
}

func splitQuadAt(q QuadBez, t float64) (QuadBez, QuadBez) {
	p01 := q.P0.Lerp(q.P1, t)
	p12 := q.P1.Lerp(q.P2, t)
	mid := p01.Lerp(p12, t)
	return QuadBez{P0: q.P0, P1: p01, P2: mid}, QuadBez{P0: mid, P1: p12, P2: q.P2}
}

func splitCubicAt(c CubicBez, t float64) (CubicBez, CubicBez) {
	p01 := c.P0.Lerp(c.P1, t)
	p12 := c.P1.Lerp(c.P2, t)
	p23 := c.P2.Lerp(c.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	mid := p012.Lerp(p123, t)
	return CubicBez{P0: c.P0, P1: p01, P2: p012, P3: mid},
		CubicBez{P0: mid, P1: p123, P2: p23, P3: c.P3}
}

// ToLine replaces the segment at commandIndex with a straight line
// between its endpoints, discarding any curvature.
func (p *Path) ToLine(commandIndex int) {
	seg := p.IteratorAt(commandIndex).Segment()
	p.changeCommand(commandIndex, CmdLine, seg.End())
}

// ToQuadratic replaces the segment at commandIndex with a quadratic
// Bezier of equivalent shape: a line's midpoint-anchored control, or a
// cubic degree-lowered by averaging its two controls.
func (p *Path) ToQuadratic(commandIndex int) {
	it := p.IteratorAt(commandIndex)
	seg := it.Segment()
	var ctrl Point
	switch seg.Kind {
	case SegLine:
		ctrl = seg.P0.Lerp(seg.P1, 0.5)
	case SegQuadratic:
		ctrl = seg.P1
	case SegCubic:
		ctrl = seg.P1.Add(seg.P2).Mul(0.5)
	}
	p.changeCommand(commandIndex, CmdQuadratic, ctrl, seg.End())
}

// ToCubic replaces the segment at commandIndex with a cubic Bezier of
// equivalent shape (exact for lines and quadratics, via degree raising).
func (p *Path) ToCubic(commandIndex int) {
	it := p.IteratorAt(commandIndex)
	seg := it.Segment()
	var c1, c2 Point
	switch seg.Kind {
	case SegLine:
		c1 = seg.P0.Lerp(seg.P1, 1.0/3.0)
		c2 = seg.P0.Lerp(seg.P1, 2.0/3.0)
	case SegQuadratic:
		raised := seg.AsQuad().Raise()
		c1, c2 = raised.P1, raised.P2
	case SegCubic:
		c1, c2 = seg.P1, seg.P2
	}
	p.changeCommand(commandIndex, CmdCubic, c1, c2, seg.End())
}

// changeCommand replaces the trailing control/end points of the segment
// at commandIndex with newPoints and retags it as newCmd.
func (p *Path) changeCommand(commandIndex int, newCmd Command, newPoints ...Point) {
	it := p.IteratorAt(commandIndex)
	before := it.pointIndexBefore()
	after := it.pointIndexAfter()

	rebuilt := make([]Point, 0, len(p.points)-(after-before)+len(newPoints))
	rebuilt = append(rebuilt, p.points[:before+1]...)
	rebuilt = append(rebuilt, newPoints...)
	rebuilt = append(rebuilt, p.points[after+1:]...)
	p.points = rebuilt

	if p.CommandAt(commandIndex) == newCmd {
		return
	}
	tags := make([]Command, p.numCmds)
	for i := 0; i < p.numCmds; i++ {
		tags[i] = p.CommandAt(i)
	}
	tags[commandIndex] = newCmd
	p.reencodeTags(tags)
}

// Remove deletes the vertex at pointIndex, merging its two adjacent
// segments into one. If keepShape is true and either neighbor is
// curved, the merged segment is a cubic fit to samples of the original
// pair; otherwise the neighbors collapse to a straight line between
// the merged segment's original endpoints.
func (p *Path) Remove(pointIndex int, keepShape bool) {
	node := p.NodeAt(pointIndex)
	if node.InCommandIndex < 0 || node.OutCommandIndex < 0 {
		p.removeEndpoint(pointIndex)
		return
	}

	inSeg := p.IteratorAt(node.InCommandIndex).Segment()
	outSeg := p.IteratorAt(node.OutCommandIndex).Segment()

	var merged Segment
	if keepShape && (inSeg.Kind != SegLine || outSeg.Kind != SegLine) {
		merged = fitCombinedSegment(inSeg, outSeg)
	} else {
		merged = Segment{Kind: SegLine, P0: inSeg.P0, P1: outSeg.End()}
	}

	lowIdx, highIdx := node.InCommandIndex, node.OutCommandIndex
	if highIdx < lowIdx {
		lowIdx, highIdx = highIdx, lowIdx
	}

	before := p.IteratorAt(lowIdx).pointIndexBefore()
	after := p.IteratorAt(highIdx).pointIndexAfter()

	newPoints := make([]Point, 0, len(p.points))
	newPoints = append(newPoints, p.points[:before+1]...)
	switch merged.Kind {
	case SegLine:
		newPoints = append(newPoints, merged.P1)
	case SegQuadratic:
		newPoints = append(newPoints, merged.P1, merged.P2)
	case SegCubic:
		newPoints = append(newPoints, merged.P1, merged.P2, merged.P3)
	}
	newPoints = append(newPoints, p.points[after+1:]...)
	p.points = newPoints

	tags := make([]Command, 0, p.numCmds-1)
	for i := 0; i < p.numCmds; i++ {
		if i == lowIdx {
			tags = append(tags, merged.Kind.asCommand())
			continue
		}
		if i == highIdx {
			continue
		}
		tags = append(tags, p.CommandAt(i))
	}
	p.reencodeTags(tags)
}

// removeEndpoint drops a path endpoint that has only one neighboring
// segment (the start or end of an open subpath).
func (p *Path) removeEndpoint(pointIndex int) {
	if pointIndex == 0 {
		if p.numCmds < 2 {
			*p = Path{}
			return
		}
		seg1 := p.pointsInCommand(1)
		p.points = append([]Point(nil), p.points[seg1:]...)
		tags := make([]Command, 0, p.numCmds-1)
		tags = append(tags, CmdMove)
		for i := 2; i < p.numCmds; i++ {
			tags = append(tags, p.CommandAt(i))
		}
		p.reencodeTags(tags)
		return
	}
	lastCmd := p.numCmds - 1
	n := p.pointsInCommand(lastCmd)
	p.points = p.points[:len(p.points)-n]
	tags := make([]Command, 0, p.numCmds-1)
	for i := 0; i < lastCmd; i++ {
		tags = append(tags, p.CommandAt(i))
	}
	p.reencodeTags(tags)
}

// asCommand maps a SegmentKind to its Command tag.
func (k SegmentKind) asCommand() Command {
	switch k {
	case SegQuadratic:
		return CmdQuadratic
	case SegCubic:
		return CmdCubic
	default:
		return CmdLine
	}
}

// fitCombinedSegment produces a single cubic approximating the
// concatenation of in and out, fitting the combined shape via chord-
// length-parameterized least squares at a tight tolerance so removing
// a vertex preserves the visual curve as closely as possible.
func fitCombinedSegment(in, out Segment) Segment {
	const samples = 9
	pts := make([]Point, 0, samples*2-1)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		pts = append(pts, sampleSegment(in, t))
	}
	for i := 1; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		pts = append(pts, sampleSegment(out, t))
	}
	c := FitCubic(pts, 1e-3)
	return Segment{Kind: SegCubic, P0: c.P0, P1: c.P1, P2: c.P2, P3: c.P3}
}

func sampleSegment(seg Segment, t float64) Point {
	switch seg.Kind {
	case SegLine:
		return seg.AsLine().Eval(t)
	case SegQuadratic:
		return seg.AsQuad().Eval(t)
	case SegCubic:
		return seg.AsCubic().Eval(t)
	}
	return seg.P0
}

// hasNonDegenerateHandles reports whether a quadratic or cubic segment's
// control points diverge meaningfully from its chord, used by callers
// deciding whether degree-lowering would be lossy.
func hasNonDegenerateHandles(seg Segment, eps float64) bool {
	switch seg.Kind {
	case SegQuadratic:
		q := seg.AsQuad()
		return q.P1.Distance(q.P0.Lerp(q.P2, 0.5)) > eps
	case SegCubic:
		c := seg.AsCubic()
		chordDir := c.P3.Sub(c.P0)
		d1 := math.Abs(chordDir.Cross(c.P1.Sub(c.P0)))
		d2 := math.Abs(chordDir.Cross(c.P2.Sub(c.P0)))
		return d1 > eps || d2 > eps
	}
	return false
}
