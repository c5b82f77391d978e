package gg

// SegmentKind tags the shape carried by a Segment value.
type SegmentKind uint8

const (
	SegLine SegmentKind = iota
	SegQuadratic
	SegCubic
)

// Segment is a transient value emitted by Path iterators: a tagged union
// of Line/Quadratic/Cubic control points. Segments are never stored —
// ownership is always by value.
type Segment struct {
	Kind       SegmentKind
	P0, P1, P2, P3 Point
}

// End returns the segment's terminal point regardless of kind.
func (s Segment) End() Point {
	switch s.Kind {
	case SegLine:
		return s.P1
	case SegQuadratic:
		return s.P2
	case SegCubic:
		return s.P3
	}
	return s.P0
}

// AsLine returns the segment as a Line (valid only when Kind==SegLine).
func (s Segment) AsLine() Line {
	return Line{P0: s.P0, P1: s.P1}
}

// AsQuad returns the segment as a QuadBez (valid only when Kind==SegQuadratic).
func (s Segment) AsQuad() QuadBez {
	return QuadBez{P0: s.P0, P1: s.P1, P2: s.P2}
}

// AsCubic returns the segment as a CubicBez (valid only when Kind==SegCubic).
func (s Segment) AsCubic() CubicBez {
	return CubicBez{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3}
}

// reservedHandleIndex marks a VertexNode slot that refers to the path's
// auxiliary in/out handle rather than an index into points.
const reservedHandleIndex = -1

// VertexNode describes the editing neighborhood of a control point.
type VertexNode struct {
	VertexIndex      int
	InHandleIndex    int // reservedHandleIndex if using the auxiliary in-handle
	OutHandleIndex   int // reservedHandleIndex if using the auxiliary out-handle
	CloseVertex      bool
	InCommandIndex   int // -1 if there is no preceding command
	OutCommandIndex  int // -1 if there is no following command
}

// Iterator walks a Path forward, one segment per step.
type Iterator struct {
	path         *Path
	commandIndex int
	pointIndex   int // index of the point preceding the current command
}

// IteratorAt returns a forward Iterator positioned at the given command
// index, computed by scanning from whichever end is nearer.
func (p *Path) IteratorAt(commandIndex int) *Iterator {
	pointIndex := p.pointIndexBeforeCommand(commandIndex)
	return &Iterator{path: p, commandIndex: commandIndex, pointIndex: pointIndex}
}

// NewIterator returns a forward Iterator starting at the first segment
// after the leading Move.
func (p *Path) NewIterator() *Iterator {
	return p.IteratorAt(1)
}

// pointIndexBeforeCommand finds, in O(n/2), the point index immediately
// preceding commandIndex by scanning from whichever end is nearer.
func (p *Path) pointIndexBeforeCommand(commandIndex int) int {
	if commandIndex <= p.numCmds/2 {
		idx := 0
		for i := 0; i < commandIndex; i++ {
			idx += p.pointsInCommand(i)
		}
		return idx - 1
	}
	idx := len(p.points) - 1
	for i := p.numCmds - 1; i >= commandIndex; i-- {
		idx -= p.pointsInCommand(i)
	}
	return idx
}

// Done reports whether the iterator has consumed every command.
func (it *Iterator) Done() bool {
	return it.commandIndex >= it.path.numCmds
}

// Segment returns the current segment without advancing.
func (it *Iterator) Segment() Segment {
	p := it.path
	tag := p.CommandAt(it.commandIndex)
	if tag == CmdMove {
		pt := p.points[it.pointIndex+1]
		return Segment{Kind: SegLine, P0: pt, P1: pt}
	}
	p0 := p.points[it.pointIndex]
	switch tag {
	case CmdLine:
		return Segment{Kind: SegLine, P0: p0, P1: p.points[it.pointIndex+1]}
	case CmdQuadratic:
		return Segment{Kind: SegQuadratic, P0: p0, P1: p.points[it.pointIndex+1], P2: p.points[it.pointIndex+2]}
	case CmdCubic:
		return Segment{Kind: SegCubic, P0: p0, P1: p.points[it.pointIndex+1], P2: p.points[it.pointIndex+2], P3: p.points[it.pointIndex+3]}
	}
	return Segment{}
}

// CommandIndex returns the iterator's current command index.
func (it *Iterator) CommandIndex() int {
	return it.commandIndex
}

// pointIndexBefore returns the point index immediately preceding the
// current command (the shared vertex with the previous segment).
func (it *Iterator) pointIndexBefore() int {
	return it.pointIndex
}

// pointIndexAfter returns the point index of the current command's last
// point (its terminal vertex).
func (it *Iterator) pointIndexAfter() int {
	tag := it.path.CommandAt(it.commandIndex)
	return it.pointIndex + pointsPerCommand[tag]
}

// Next advances the iterator by one segment.
func (it *Iterator) Next() {
	tag := it.path.CommandAt(it.commandIndex)
	it.pointIndex += pointsPerCommand[tag]
	it.commandIndex++
}

// ReverseIterator walks a Path backward, one segment per step.
type ReverseIterator struct {
	path         *Path
	commandIndex int
	pointIndex   int // index of the point preceding this command
}

// NewReverseIterator returns a ReverseIterator starting at the path's
// last command.
func (p *Path) NewReverseIterator() *ReverseIterator {
	last := p.numCmds - 1
	return &ReverseIterator{path: p, commandIndex: last, pointIndex: p.pointIndexBeforeCommand(last)}
}

// Done reports whether the reverse iterator has consumed every command
// down to (and including) the leading Move.
func (it *ReverseIterator) Done() bool {
	return it.commandIndex < 1
}

// Segment returns the current segment without advancing.
func (it *ReverseIterator) Segment() Segment {
	fwd := &Iterator{path: it.path, commandIndex: it.commandIndex, pointIndex: it.pointIndex}
	return fwd.Segment()
}

// CommandIndex returns the reverse iterator's current command index.
func (it *ReverseIterator) CommandIndex() int {
	return it.commandIndex
}

// Next steps the reverse iterator back by one segment.
func (it *ReverseIterator) Next() {
	it.commandIndex--
	if it.commandIndex >= 1 {
		it.pointIndex = it.path.pointIndexBeforeCommand(it.commandIndex)
	}
}

// NodeAt returns the VertexNode describing the editing neighborhood of
// the point at pointIndex, walking at most two segments from the hit
// command. Ties at a shared vertex resolve to "out" = next command,
// "in" = previous command; for pointIndex==0 on a closed path, "in" is
// the final command (bridging the seam).
func (p *Path) NodeAt(pointIndex int) VertexNode {
	commandIndex := p.commandContaining(pointIndex)

	node := VertexNode{
		VertexIndex:     pointIndex,
		InHandleIndex:   reservedHandleIndex,
		OutHandleIndex:  reservedHandleIndex,
		InCommandIndex:  -1,
		OutCommandIndex: -1,
	}

	isTerminal := func(ci int) bool {
		it := p.IteratorAt(ci)
		return it.pointIndexAfter() == pointIndex
	}

	if commandIndex > 0 && isTerminal(commandIndex) {
		node.InCommandIndex = commandIndex
		if commandIndex+1 < p.numCmds {
			node.OutCommandIndex = commandIndex + 1
		} else if p.closed {
			node.OutCommandIndex = 1
			node.CloseVertex = true
		}
		return node
	}

	if pointIndex == 0 {
		if p.closed && p.numCmds > 1 {
			node.InCommandIndex = p.numCmds - 1
			node.CloseVertex = true
		}
		if p.numCmds > 1 {
			node.OutCommandIndex = 1
		}
		return node
	}

	node.InCommandIndex = commandIndex
	if commandIndex+1 < p.numCmds {
		node.OutCommandIndex = commandIndex + 1
	}
	return node
}

// commandContaining returns the index of the command whose point range
// contains pointIndex as its terminal vertex, preferring the earlier
// command on a tie (the "in" side per the documented tie-break; callers
// adjust for the "out" side explicitly).
func (p *Path) commandContaining(pointIndex int) int {
	idx := 0
	for i := 0; i < p.numCmds; i++ {
		n := p.pointsInCommand(i)
		if idx+n-1 >= pointIndex || i == p.numCmds-1 {
			return i
		}
		idx += n
	}
	return p.numCmds - 1
}
