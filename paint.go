package gg

// Stroke styling enums. The Paint/Pattern value-object pair the teacher
// built these alongside has no caller in this module's render path
// (DrawOptions/FillStyle carry a tile.FillRule and a PaintID resolved
// through Renderer.SetPaint instead, see render/facade.go) and has been
// dropped; LineCap and LineJoin survive because gg.Stroke embeds them
// directly.

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

