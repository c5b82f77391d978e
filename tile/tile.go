// Package tile classifies a path into the per-tile, per-band records a
// fragment shader consumes to answer "what is the fill contribution at
// this pixel" with at most a small constant number of curve evaluations.
package tile

import (
	"math"
	"sort"

	gg "github.com/vecgraph/vgcore"
	legacypath "github.com/vecgraph/vgcore/internal/path"
)

// DefaultBandHeightPx is the pixels-per-band tuning constant the source
// left as a build-time constant (GK_VIEWPORT_BANDS_HEIGHT); callers can
// override it via ClassifyOptions.
const DefaultBandHeightPx = 32.0

// TileSize is the edge length, in pixels, of one tile quad.
const TileSize = 16.0

const minBands = 1
const maxBands = 64

// coverageTileThreshold is the bounds-area * zoom^2 value above which a
// path is classified as a single whole-bounds tile rather than
// partitioned into boundary/fill spans.
const coverageTileThreshold = 64 * 64

// FillRule selects how a winding number decides interior-ness.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Inside reports whether winding counts as interior under rule.
func (r FillRule) Inside(winding int) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// PaintKind tags the material backing a paint range.
type PaintKind uint8

const (
	PaintSolid PaintKind = iota
	PaintTexture
	PaintGradient
)

// PaintRange associates a contiguous run of tiles/fills with one paint.
type PaintRange struct {
	TilesEnd int
	FillsEnd int
	Kind     PaintKind
	PaintID  uint32
}

// BandHeader is the (offset, count) pair into Drawable.Bands for one
// horizontal band.
type BandHeader struct {
	Offset uint32
	Count  uint32
}

// TileRecord is one GPU-bound tile or fill quad. Color defaults to
// opaque black at classification time; a renderer resolves it against
// the PaintRange's bound material (see render.Renderer.SetPaint)
// before the record reaches the backend.
type TileRecord struct {
	Rect        gg.Rect
	Color       gg.RGBA
	UV          [4]gg.Point
	CurveOffset uint32
	PaintKind   uint8
	BandCount   uint32
	BandOffset  uint32
	FillRule    uint8
	Skip        bool
	PaintIndex  uint8
}

// Drawable is the assembled GPU payload for one drawn path.
type Drawable struct {
	Tiles        []TileRecord
	Fills        []TileRecord
	Curves       []gg.Point // 4 control points per cubic, path-local UV
	Bands        []uint16
	BandHeaders  []BandHeader
	BoundingRect gg.Rect
	Paints       []PaintRange
}

// ClassifyOptions parameterizes tile-grid sizing.
type ClassifyOptions struct {
	TileSize     float64
	BandHeightPx float64
	ViewportZoom float64
}

// DefaultClassifyOptions returns the zoom-1 defaults.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{TileSize: TileSize, BandHeightPx: DefaultBandHeightPx, ViewportZoom: 1}
}

// pathCubic is one curve of the path normalized into local UV space
// (divided by the bounds size, relative to bounds.Min), alongside its
// axis-aligned min/max in that same space.
type pathCubic struct {
	c        gg.CubicBez
	min, max gg.Point
}

// Classify builds a Drawable for path, whose bounds are the path's
// BoundingRect expanded outward to multiples of the tile size, using
// rule for fill decisions and the given paint metadata.
func Classify(path *gg.Path, rule FillRule, kind PaintKind, paintID uint32, opts ClassifyOptions) Drawable {
	if opts.TileSize <= 0 {
		opts.TileSize = TileSize
	}
	if opts.BandHeightPx <= 0 {
		opts.BandHeightPx = DefaultBandHeightPx
	}
	if opts.ViewportZoom <= 0 {
		opts.ViewportZoom = 1
	}

	bounds := expandToTileMultiples(path.BoundingRect(), opts.TileSize)
	d := Drawable{BoundingRect: bounds}
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return d
	}

	cubics := pathCubicsLocal(path, bounds)
	d.Curves = make([]gg.Point, 0, len(cubics)*4)
	for _, pc := range cubics {
		d.Curves = append(d.Curves, pc.c.P0, pc.c.P1, pc.c.P2, pc.c.P3)
	}

	order := sortedByDescendingMaxX(cubics)

	numBands := clampInt(int(math.Ceil(bounds.Height()*opts.ViewportZoom/opts.BandHeightPx)), minBands, maxBands)
	bandHeight := 1.0 / float64(numBands)

	d.BandHeaders = make([]BandHeader, numBands)
	for b := 0; b < numBands; b++ {
		y0 := float64(b) * bandHeight
		y1 := y0 + bandHeight
		offset := uint32(len(d.Bands))
		var count uint32
		for _, idx := range order {
			pc := cubics[idx]
			if pc.max.Y <= y0 || pc.min.Y >= y1 {
				continue
			}
			if pc.min.Y == pc.max.Y {
				continue
			}
			d.Bands = append(d.Bands, uint16(idx))
			count++
		}
		d.BandHeaders[b] = BandHeader{Offset: offset, Count: count}
	}

	coverage := bounds.Width() * bounds.Height() * opts.ViewportZoom * opts.ViewportZoom
	if coverage > coverageTileThreshold {
		d.Tiles = append(d.Tiles, TileRecord{
			Rect:       bounds,
			Color:      gg.Black,
			UV:         [4]gg.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
			BandOffset: 0,
			BandCount:  uint32(len(d.Bands)),
			FillRule:   uint8(rule),
			PaintKind:  uint8(kind),
		})
		d.Paints = []PaintRange{{TilesEnd: len(d.Tiles), FillsEnd: 0, Kind: kind, PaintID: paintID}}
		return d
	}

	edges := pathEdges(path)

	for b := 0; b < numBands; b++ {
		y0 := float64(b) * bandHeight
		y1 := y0 + bandHeight
		header := d.BandHeaders[b]
		indices := d.Bands[header.Offset : header.Offset+header.Count]

		spans := boundarySpans(cubics, indices, numBands)
		for _, span := range spans {
			if span.boundary {
				d.Tiles = append(d.Tiles, tileRecordFor(bounds, span, y0, y1, header, rule, kind))
				continue
			}
			midX := (span.x0 + span.x1) / 2
			midY := (y0 + y1) / 2
			worldPt := localToWorld(bounds, gg.Pt(midX, midY))
			winding := windingAtEdges(edges, worldPt)
			if rule.Inside(winding) {
				d.Fills = append(d.Fills, tileRecordFor(bounds, span, y0, y1, header, rule, kind))
			}
		}
	}

	d.Paints = []PaintRange{{TilesEnd: len(d.Tiles), FillsEnd: len(d.Fills), Kind: kind, PaintID: paintID}}
	return d
}

func expandToTileMultiples(r gg.Rect, tileSize float64) gg.Rect {
	if r.Width() <= 0 && r.Height() <= 0 {
		return r
	}
	min := gg.Pt(math.Floor(r.Min.X/tileSize)*tileSize, math.Floor(r.Min.Y/tileSize)*tileSize)
	max := gg.Pt(math.Ceil(r.Max.X/tileSize)*tileSize, math.Ceil(r.Max.Y/tileSize)*tileSize)
	return gg.NewRect(min, max)
}

// pathCubicsLocal walks the path's segments, raising lines and
// quadratics to cubic form, and rescales every control point into the
// [0,1]x[0,1] box implied by bounds.
func pathCubicsLocal(path *gg.Path, bounds gg.Rect) []pathCubic {
	var out []pathCubic
	it := path.NewIterator()
	toLocal := func(p gg.Point) gg.Point {
		return gg.Pt((p.X-bounds.Min.X)/bounds.Width(), (p.Y-bounds.Min.Y)/bounds.Height())
	}
	for !it.Done() {
		seg := it.Segment()
		var c gg.CubicBez
		switch seg.Kind {
		case gg.SegLine:
			l := seg.AsLine()
			c = gg.CubicBez{P0: l.P0, P1: l.P0, P2: l.P1, P3: l.P1}
		case gg.SegQuadratic:
			c = seg.AsQuad().Raise()
		case gg.SegCubic:
			c = seg.AsCubic()
		default:
			it.Next()
			continue
		}
		c = gg.CubicBez{P0: toLocal(c.P0), P1: toLocal(c.P1), P2: toLocal(c.P2), P3: toLocal(c.P3)}
		bbox := c.ApproxBoundingRect()
		out = append(out, pathCubic{c: c, min: bbox.Min, max: bbox.Max})
		it.Next()
	}
	return out
}

func sortedByDescendingMaxX(cubics []pathCubic) []int {
	idx := make([]int, len(cubics))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return cubics[idx[a]].max.X > cubics[idx[b]].max.X
	})
	return idx
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type span struct {
	x0, x1   float64
	boundary bool
}

// boundarySpans partitions [0,1] along x into spans that a curve
// straddles ("boundary") versus spans no indexed curve straddles
// ("filled" or "empty", resolved later by a winding probe).
func boundarySpans(cubics []pathCubic, indices []uint16, numBands int) []span {
	const subdivisions = 16
	cuts := map[float64]bool{0: true, 1: true}
	for _, idx := range indices {
		pc := cubics[idx]
		cuts[clamp01(pc.min.X)] = true
		cuts[clamp01(pc.max.X)] = true
	}
	xs := make([]float64, 0, len(cuts))
	for x := range cuts {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	var spans []span
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		if x1-x0 < 1e-9 {
			continue
		}
		boundary := false
		for _, idx := range indices {
			pc := cubics[idx]
			if pc.min.X < x1 && pc.max.X > x0 {
				boundary = true
				break
			}
		}
		spans = append(spans, span{x0: x0, x1: x1, boundary: boundary})
	}
	_ = subdivisions
	return spans
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func tileRecordFor(bounds gg.Rect, sp span, y0, y1 float64, header BandHeader, rule FillRule, kind PaintKind) TileRecord {
	worldMin := localToWorld(bounds, gg.Pt(sp.x0, y0))
	worldMax := localToWorld(bounds, gg.Pt(sp.x1, y1))
	return TileRecord{
		Rect:  gg.NewRect(worldMin, worldMax),
		Color: gg.Black,
		UV: [4]gg.Point{
			{X: sp.x0, Y: y0}, {X: sp.x1, Y: y0}, {X: sp.x1, Y: y1}, {X: sp.x0, Y: y1},
		},
		BandOffset: header.Offset,
		BandCount:  header.Count,
		FillRule:   uint8(rule),
		PaintKind:  uint8(kind),
	}
}

func localToWorld(bounds gg.Rect, p gg.Point) gg.Point {
	return gg.Pt(bounds.Min.X+p.X*bounds.Width(), bounds.Min.Y+p.Y*bounds.Height())
}

// pathEdges flattens path into the legacy path package's element form and
// collects its Y-monotonic edges, correctly closing every subpath at its
// own start point. This reuses the original tiny-skia-style edge iterator
// rather than re-deriving subpath-closing logic here.
func pathEdges(path *gg.Path) []legacypath.Edge {
	elements := toLegacyElements(path)
	return legacypath.CollectEdges(elements)
}

func toLegacyElements(path *gg.Path) []legacypath.PathElement {
	var elems []legacypath.PathElement
	it := path.IteratorAt(0)
	started := false
	for !it.Done() {
		if path.CommandAt(it.CommandIndex()) == gg.CmdMove {
			seg := it.Segment()
			elems = append(elems, legacypath.MoveTo{Point: toLegacy(seg.P0)})
			started = true
			it.Next()
			continue
		}
		if !started {
			it.Next()
			continue
		}
		seg := it.Segment()
		switch seg.Kind {
		case gg.SegLine:
			elems = append(elems, legacypath.LineTo{Point: toLegacy(seg.P1)})
		case gg.SegQuadratic:
			q := seg.AsQuad()
			elems = append(elems, legacypath.QuadTo{Control: toLegacy(q.P1), Point: toLegacy(q.P2)})
		case gg.SegCubic:
			c := seg.AsCubic()
			elems = append(elems, legacypath.CubicTo{Control1: toLegacy(c.P1), Control2: toLegacy(c.P2), Point: toLegacy(c.P3)})
		}
		it.Next()
	}
	if path.IsClosed() {
		elems = append(elems, legacypath.Close{})
	}
	return elems
}

func toLegacy(p gg.Point) legacypath.Point {
	return legacypath.Point{X: p.X, Y: p.Y}
}

// windingAtEdges computes the signed non-zero winding number of pt
// against edges via horizontal-ray crossing, the same test used for
// Path.Winding but operating on the pre-flattened legacy edge list so the
// tile classifier can reuse one edge pass across many probe points.
func windingAtEdges(edges []legacypath.Edge, pt gg.Point) int {
	var winding int
	for _, e := range edges {
		p0 := gg.Pt(e.P0.X, e.P0.Y)
		p1 := gg.Pt(e.P1.X, e.P1.Y)
		if p0.Y <= pt.Y && p1.Y > pt.Y {
			if isLeftOf(p0, p1, pt) > 0 {
				winding++
			}
		} else if p0.Y > pt.Y && p1.Y <= pt.Y {
			if isLeftOf(p0, p1, pt) < 0 {
				winding--
			}
		}
	}
	return winding
}

func isLeftOf(p0, p1, pt gg.Point) float64 {
	return (p1.X-p0.X)*(pt.Y-p0.Y) - (pt.X-p0.X)*(p1.Y-p0.Y)
}
