// Package render is the renderer façade: the entry point that accepts
// drawing requests from a scene/editor and turns them into GPU work. It
// owns the per-frame batch, the z-index counter, the stable-ID Drawable
// cache, and a texture pool, and submits completed batches to a
// backend.Backend.
//
// The façade lives outside the root package because it needs to import
// both tile (for Drawable classification) and backend (for submission);
// tile already imports the root package for its geometry types, so a
// façade living there would close an import cycle.
package render

import (
	gg "github.com/vecgraph/vgcore"
	"github.com/vecgraph/vgcore/backend"
	"github.com/vecgraph/vgcore/internal/cache"
	"github.com/vecgraph/vgcore/internal/parallel"
	"github.com/vecgraph/vgcore/tile"
)

// Viewport describes the target surface for one frame: its size, device
// pixel ratio, scroll position, zoom, and clear color.
type Viewport struct {
	Width, Height int
	DPR           float64
	Position      gg.Point
	Zoom          float64
	Background    gg.RGBA
}

// Options configures a Renderer's classification tuning and worker pool.
type Options struct {
	SampleCount         int
	TileSize            float64
	DefaultBandHeightPx float64
	StrokeTolerance     float64
	Workers             int
}

// DefaultOptions returns the zoom-1, 3x-sample defaults described by the
// external interface surface.
func DefaultOptions() Options {
	return Options{
		SampleCount:         3,
		TileSize:            tile.TileSize,
		DefaultBandHeightPx: tile.DefaultBandHeightPx,
		StrokeTolerance:     0.25,
		Workers:             0,
	}
}

// Capacities bounds one batch. Draw and DrawBatch flush automatically
// once appending would exceed any of them.
type Capacities struct {
	MaxVertices    int
	MaxIndices     int
	MaxCurves      int
	MaxBandIndices int
}

// DefaultCapacities returns generous defaults sized for a few thousand
// on-screen tiles per frame.
func DefaultCapacities() Capacities {
	return Capacities{
		MaxVertices:    1 << 16,
		MaxIndices:     1 << 17,
		MaxCurves:      1 << 14,
		MaxBandIndices: 1 << 15,
	}
}

// FillStyle selects the fill rule and paint backing a filled Drawable.
type FillStyle struct {
	Rule    tile.FillRule
	Kind    tile.PaintKind
	PaintID uint32
}

// SolidFill is a convenience FillStyle for an opaque, non-zero-wound
// solid color paint.
func SolidFill(paintID uint32) FillStyle {
	return FillStyle{Rule: tile.NonZero, Kind: tile.PaintSolid, PaintID: paintID}
}

// DrawOptions configures one draw call: the transform applied before
// classification, the optional fill and stroke, and an optional stable
// ID that opts the call into the Drawable cache.
type DrawOptions struct {
	// Transform must be set explicitly; the zero Matrix is not the
	// identity transform. Callers with no transform to apply should
	// pass gg.Identity().
	Transform     gg.Matrix
	Fill          *FillStyle
	Stroke        *gg.Stroke
	StrokePaintID uint32
	OutlineOnly   bool
	StableID      uint64
}

// cacheEntry is one stable-ID cache slot, stamped with the generation it
// was built under so a Reset invalidates every entry without a map walk.
type cacheEntry struct {
	drawable   tile.Drawable
	generation uint64
}

// overlayInstance is one queued ui_rect/ui_square/ui_circle instance.
type overlayInstance struct {
	rect  gg.Rect
	color gg.RGBA
}

// BatchItem is one path/options pair submitted to DrawBatch.
type BatchItem struct {
	Path    *gg.Path
	Options DrawOptions
}

// Renderer is the renderer façade. A Renderer is not safe for concurrent
// use: per the concurrency model, it and its cache are mutated only on
// the main thread, while path-level classification work fans out across
// its worker pool internally.
type Renderer struct {
	back backend.Backend
	opts Options
	caps Capacities
	pool *parallel.Pool

	viewport  Viewport
	frameOpen bool
	zIndex    uint32

	generation uint64
	cache      *cache.Cache[uint64, *cacheEntry]

	drawables      []tile.Drawable
	pendingVerts   int
	pendingIndices int
	pendingCurves  int
	pendingBandIdx int

	overlayRects   []overlayInstance
	overlayCircles []overlayInstance

	textures  map[uint32]backend.Texture
	materials map[uint32]gg.Brush
}

// New creates a Renderer submitting to b, with the given tuning options.
func New(b backend.Backend, opts Options) *Renderer {
	if opts.SampleCount <= 0 {
		opts.SampleCount = 3
	}
	if opts.TileSize <= 0 {
		opts.TileSize = tile.TileSize
	}
	if opts.DefaultBandHeightPx <= 0 {
		opts.DefaultBandHeightPx = tile.DefaultBandHeightPx
	}
	if opts.StrokeTolerance <= 0 {
		opts.StrokeTolerance = 0.25
	}
	return &Renderer{
		back: b,
		opts: opts,
		caps: DefaultCapacities(),
		pool: parallel.New(opts.Workers),
		// Single-owner, single-shard: the façade's cache is mutated only
		// on the main thread (§5), so the simpler non-sharded Cache is
		// used here rather than ShardedCache.
		cache:     cache.New[uint64, *cacheEntry](0),
		textures:  make(map[uint32]backend.Texture),
		materials: make(map[uint32]gg.Brush),
	}
}

// SetCapacities overrides the default batch capacities.
func (r *Renderer) SetCapacities(c Capacities) { r.caps = c }

// Reset invalidates every cached Drawable in O(1) by advancing the cache
// generation, for use when the scene version changes (undo/redo, a
// document reload) and every stable ID's geometry must be rebuilt.
func (r *Renderer) Reset() {
	r.generation++
}

// BeginFrame resets the z-index counter and batch state and submits the
// background clear.
func (r *Renderer) BeginFrame(vp Viewport) error {
	r.viewport = vp
	r.frameOpen = true
	r.zIndex = 0
	r.drawables = r.drawables[:0]
	r.overlayRects = r.overlayRects[:0]
	r.overlayCircles = r.overlayCircles[:0]
	r.pendingVerts, r.pendingIndices, r.pendingCurves, r.pendingBandIdx = 0, 0, 0, 0

	bg := vp.Background
	return r.back.Submit(backend.RenderState{
		Viewport: r.backendViewport(),
		ClearOps: backend.ClearOps{
			ClearColor: true,
			Color:      [4]float32{float32(bg.R), float32(bg.G), float32(bg.B), float32(bg.A)},
		},
	})
}

// Draw assembles path into one or two Drawables (fill and/or stroke)
// under opts.Transform and appends them to the current batch, flushing
// first if appending would exceed any buffer capacity. A nil or empty
// path is silently ignored, per the error handling design's tolerance
// for degenerate shape input.
func (r *Renderer) Draw(path *gg.Path, opts DrawOptions) {
	if !r.frameOpen || path == nil || path.IsEmpty() {
		return
	}
	wp := path
	if !opts.Transform.IsIdentity() {
		wp = path.Transformed(opts.Transform)
	}

	if opts.Fill != nil {
		d := r.classifyCached(opts.StableID, 0, wp, opts.Fill.Rule, opts.Fill.Kind, opts.Fill.PaintID, opts.OutlineOnly)
		r.appendDrawable(d)
	}
	if opts.Stroke != nil {
		outline := gg.BuildStrokeOutline(wp, *opts.Stroke, r.opts.StrokeTolerance)
		d := r.classifyCached(opts.StableID, 1, outline.ToPath(), tile.EvenOdd, tile.PaintSolid, opts.StrokePaintID, false)
		r.appendDrawable(d)
	}
}

// DrawBatch classifies a set of independent paths across the renderer's
// worker pool, then appends the results of the items without a stable ID
// in the caller's submission order, matching the scheduling model's
// "workers do not reorder output" guarantee. Items with a stable ID go
// through Draw's cache path directly, since the cache is a single-owner
// map and is not safe to populate from worker goroutines; they are drawn
// as they are met, so their results come before those of every item
// without a stable ID.
func (r *Renderer) DrawBatch(items []BatchItem) {
	if !r.frameOpen || len(items) == 0 {
		return
	}
	plain := make([]int, 0, len(items))
	for i, it := range items {
		if it.Options.StableID != 0 {
			r.Draw(it.Path, it.Options)
			continue
		}
		plain = append(plain, i)
	}
	if len(plain) == 0 {
		return
	}

	fills := make([]*tile.Drawable, len(plain))
	strokes := make([]*tile.Drawable, len(plain))
	r.pool.RunSimple(len(plain), func(k int) {
		it := items[plain[k]]
		if it.Path == nil || it.Path.IsEmpty() {
			return
		}
		wp := it.Path
		if !it.Options.Transform.IsIdentity() {
			wp = it.Path.Transformed(it.Options.Transform)
		}
		if it.Options.Fill != nil {
			d := tile.Classify(wp, it.Options.Fill.Rule, it.Options.Fill.Kind, it.Options.Fill.PaintID, r.classifyOpts())
			if it.Options.OutlineOnly {
				d.Fills = nil
			}
			fills[k] = &d
		}
		if it.Options.Stroke != nil {
			outline := gg.BuildStrokeOutline(wp, *it.Options.Stroke, r.opts.StrokeTolerance)
			d := tile.Classify(outline.ToPath(), tile.EvenOdd, tile.PaintSolid, it.Options.StrokePaintID, r.classifyOpts())
			strokes[k] = &d
		}
	})

	for k := range plain {
		if fills[k] != nil {
			r.appendDrawable(*fills[k])
		}
		if strokes[k] != nil {
			r.appendDrawable(*strokes[k])
		}
	}
}

// UIRect queues an opaque overlay rectangle, drawn after the main
// tile/fill pass.
func (r *Renderer) UIRect(rect gg.Rect, color gg.RGBA) {
	if !r.frameOpen {
		return
	}
	r.overlayRects = append(r.overlayRects, overlayInstance{rect: rect, color: color})
	r.zIndex++
}

// UISquare queues a square overlay centered at center.
func (r *Renderer) UISquare(center gg.Point, size float64, color gg.RGBA) {
	half := size / 2
	r.UIRect(gg.NewRect(gg.Pt(center.X-half, center.Y-half), gg.Pt(center.X+half, center.Y+half)), color)
}

// UICircle queues a circular overlay, rasterized by the backend's
// circle program against the instance's bounding quad.
func (r *Renderer) UICircle(center gg.Point, radius float64, color gg.RGBA) {
	if !r.frameOpen {
		return
	}
	bounds := gg.NewRect(gg.Pt(center.X-radius, center.Y-radius), gg.Pt(center.X+radius, center.Y+radius))
	r.overlayCircles = append(r.overlayCircles, overlayInstance{rect: bounds, color: color})
	r.zIndex++
}

// SetTexture allocates (or replaces) the device texture backing
// paintID, releasing any texture previously bound to it.
func (r *Renderer) SetTexture(paintID uint32, desc backend.TextureDescriptor) (backend.Texture, error) {
	if old, ok := r.textures[paintID]; ok {
		r.back.DestroyTexture(old)
	}
	t, err := r.back.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	r.textures[paintID] = t
	return t, nil
}

// Texture looks up the device texture bound to paintID.
func (r *Renderer) Texture(paintID uint32) (backend.Texture, bool) {
	t, ok := r.textures[paintID]
	return t, ok
}

// ReleaseTexture destroys and unbinds the texture bound to paintID, if
// any.
func (r *Renderer) ReleaseTexture(paintID uint32) {
	if t, ok := r.textures[paintID]; ok {
		r.back.DestroyTexture(t)
		delete(r.textures, paintID)
	}
}

// SetPaint binds brush to paintID, replacing whatever was bound there.
// A PaintSolid or PaintGradient FillStyle's PaintID is looked up here at
// appendDrawable time to resolve each tile/fill record's Color; a
// PaintTexture paintID is resolved through the texture pool instead and
// SetPaint has no effect on it.
func (r *Renderer) SetPaint(paintID uint32, brush gg.Brush) {
	r.materials[paintID] = brush
}

// Paint looks up the brush bound to paintID.
func (r *Renderer) Paint(paintID uint32) (gg.Brush, bool) {
	b, ok := r.materials[paintID]
	return b, ok
}

// ReleasePaint unbinds the brush bound to paintID, if any.
func (r *Renderer) ReleasePaint(paintID uint32) {
	delete(r.materials, paintID)
}

// Flush submits the current batch to the backend and clears it. It is a
// no-op when nothing has been drawn since the last flush.
func (r *Renderer) Flush() error {
	if len(r.drawables) == 0 {
		return nil
	}
	verts, idx := packTileQuads(r.drawables)
	err := r.back.Submit(backend.RenderState{
		Viewport:    r.backendViewport(),
		Program:     backend.ProgramTile,
		VertexArray: backend.VertexArray{Vertices: verts, Indices: idx},
		Blend:       backend.BlendPremultipliedSrcOver,
		Uniforms: backend.Uniforms{
			SampleCount: r.opts.SampleCount,
			TileSize:    float32(r.opts.TileSize),
		},
	})
	r.drawables = r.drawables[:0]
	r.pendingVerts, r.pendingIndices, r.pendingCurves, r.pendingBandIdx = 0, 0, 0, 0
	return err
}

// flushOverlays submits the queued ui_rect/ui_square instances and the
// ui_circle instances as two additional RenderStates, in that order,
// after the main tile/fill pass.
func (r *Renderer) flushOverlays() error {
	if len(r.overlayRects) > 0 {
		verts, idx := packOverlayQuads(r.overlayRects)
		if err := r.back.Submit(backend.RenderState{
			Viewport:    r.backendViewport(),
			Program:     backend.ProgramRect,
			VertexArray: backend.VertexArray{Vertices: verts, Indices: idx},
			Blend:       backend.BlendDisabled,
			Depth:       backend.DepthStencilState{DepthWrite: true, DepthTest: true},
		}); err != nil {
			return err
		}
		r.overlayRects = r.overlayRects[:0]
	}
	if len(r.overlayCircles) > 0 {
		verts, idx := packOverlayQuads(r.overlayCircles)
		if err := r.back.Submit(backend.RenderState{
			Viewport:    r.backendViewport(),
			Program:     backend.ProgramCircle,
			VertexArray: backend.VertexArray{Vertices: verts, Indices: idx},
			Blend:       backend.BlendPremultipliedSrcOver,
		}); err != nil {
			return err
		}
		r.overlayCircles = r.overlayCircles[:0]
	}
	return nil
}

// EndFrame flushes the overlay buffers and the final main-pass batch.
func (r *Renderer) EndFrame() error {
	if err := r.flushOverlays(); err != nil {
		r.frameOpen = false
		return err
	}
	err := r.Flush()
	r.frameOpen = false
	return err
}

// Close releases every pooled texture and the backend itself.
func (r *Renderer) Close() {
	for id, t := range r.textures {
		r.back.DestroyTexture(t)
		delete(r.textures, id)
	}
	r.back.Close()
}

func (r *Renderer) classifyOpts() tile.ClassifyOptions {
	return tile.ClassifyOptions{
		TileSize:     r.opts.TileSize,
		BandHeightPx: r.opts.DefaultBandHeightPx,
		ViewportZoom: r.viewport.Zoom,
	}
}

// classifyCached resolves a fill or stroke Drawable through the
// stable-ID cache, bypassing it entirely for stableID 0 or an
// outline-only request (per §4.9, those never replay a cached result).
func (r *Renderer) classifyCached(stableID uint64, kindBit uint64, p *gg.Path, rule tile.FillRule, kind tile.PaintKind, paintID uint32, outlineOnly bool) tile.Drawable {
	if stableID == 0 || outlineOnly {
		d := tile.Classify(p, rule, kind, paintID, r.classifyOpts())
		if outlineOnly {
			d.Fills = nil
		}
		return d
	}

	key := stableID<<1 | kindBit
	if e, ok := r.cache.Get(key); ok && e.generation == r.generation {
		return e.drawable
	}
	d := tile.Classify(p, rule, kind, paintID, r.classifyOpts())
	r.cache.Set(key, &cacheEntry{drawable: d, generation: r.generation})
	return d
}

// resolvePaintColors walks d.Paints and, for every range whose PaintID
// is bound to a gg.Brush via SetPaint, evaluates that brush at each of
// the range's tile/fill records and stamps the result into the
// record's Color field. PaintTexture ranges are left untouched; their
// material is sampled by the backend from the bound texture (§ texture
// pool) using the record's UV, not a per-record color.
func (r *Renderer) resolvePaintColors(d *tile.Drawable) {
	if len(r.materials) == 0 {
		return
	}
	tilesStart, fillsStart := 0, 0
	for _, pr := range d.Paints {
		if pr.Kind == tile.PaintSolid || pr.Kind == tile.PaintGradient {
			if brush, ok := r.materials[pr.PaintID]; ok {
				colorRecords(d.Tiles[tilesStart:pr.TilesEnd], brush)
				colorRecords(d.Fills[fillsStart:pr.FillsEnd], brush)
			}
		}
		tilesStart, fillsStart = pr.TilesEnd, pr.FillsEnd
	}
}

func colorRecords(recs []tile.TileRecord, brush gg.Brush) {
	for i := range recs {
		center := recs[i].Rect.Min.Add(recs[i].Rect.Max).Mul(0.5)
		recs[i].Color = brush.ColorAt(center.X, center.Y)
	}
}

func (r *Renderer) appendDrawable(d tile.Drawable) {
	r.resolvePaintColors(&d)
	nTiles := len(d.Tiles) + len(d.Fills)
	nVerts, nIdx := nTiles*4, nTiles*6
	nCurves, nBandIdx := len(d.Curves), len(d.Bands)

	if r.wouldExceed(nVerts, nIdx, nCurves, nBandIdx) {
		if err := r.Flush(); err != nil {
			gg.Logger().Warn("render: auto-flush failed", "error", err)
		}
	}

	r.pendingVerts += nVerts
	r.pendingIndices += nIdx
	r.pendingCurves += nCurves
	r.pendingBandIdx += nBandIdx
	r.zIndex += uint32(len(d.Paints))
	r.drawables = append(r.drawables, d)
}

func (r *Renderer) wouldExceed(v, i, c, b int) bool {
	return r.pendingVerts+v > r.caps.MaxVertices ||
		r.pendingIndices+i > r.caps.MaxIndices ||
		r.pendingCurves+c > r.caps.MaxCurves ||
		r.pendingBandIdx+b > r.caps.MaxBandIndices
}

func (r *Renderer) backendViewport() backend.Viewport {
	bg := r.viewport.Background
	return backend.Viewport{
		Width:      r.viewport.Width,
		Height:     r.viewport.Height,
		DPR:        r.viewport.DPR,
		OffsetX:    r.viewport.Position.X,
		OffsetY:    r.viewport.Position.Y,
		Zoom:       r.viewport.Zoom,
		Background: [4]float32{float32(bg.R), float32(bg.G), float32(bg.B), float32(bg.A)},
	}
}

// tileVertexStride is the float32 count per vertex: 2 position
// components plus 4 premultiplied-alpha-agnostic RGBA components, so a
// resolved Brush/Gradient color (§ resolvePaintColors) survives into
// the backend without a second, parallel buffer.
const tileVertexStride = 6

// packTileQuads flattens every non-skipped tile/fill record across ds
// into one triangle-list vertex/index buffer, two triangles per quad,
// carrying each record's resolved Color on all four of its vertices.
func packTileQuads(ds []tile.Drawable) ([]float32, []uint32) {
	var verts []float32
	var idx []uint32
	for _, d := range ds {
		for _, t := range d.Tiles {
			appendQuad(&verts, &idx, t.Rect, t.Color, t.Skip)
		}
		for _, t := range d.Fills {
			appendQuad(&verts, &idx, t.Rect, t.Color, t.Skip)
		}
	}
	return verts, idx
}

func packOverlayQuads(instances []overlayInstance) ([]float32, []uint32) {
	var verts []float32
	var idx []uint32
	for _, inst := range instances {
		appendQuad(&verts, &idx, inst.rect, inst.color, false)
	}
	return verts, idx
}

func appendQuad(verts *[]float32, idx *[]uint32, rect gg.Rect, c gg.RGBA, skip bool) {
	if skip {
		return
	}
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	base := uint32(len(*verts) / tileVertexStride)
	*verts = append(*verts,
		float32(rect.Min.X), float32(rect.Min.Y), r, g, b, a,
		float32(rect.Max.X), float32(rect.Min.Y), r, g, b, a,
		float32(rect.Max.X), float32(rect.Max.Y), r, g, b, a,
		float32(rect.Min.X), float32(rect.Max.Y), r, g, b, a,
	)
	*idx = append(*idx, base, base+1, base+2, base, base+2, base+3)
}
