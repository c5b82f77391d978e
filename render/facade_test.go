package render

import (
	"testing"

	"github.com/gogpu/gputypes"

	gg "github.com/vecgraph/vgcore"
	"github.com/vecgraph/vgcore/backend"
	"github.com/vecgraph/vgcore/backend/software"
)

func square(x, y, w, h float64) *gg.Path {
	return gg.BuildPath().Rect(x, y, w, h).Build()
}

func newTestRenderer(t *testing.T) (*Renderer, *software.Backend) {
	t.Helper()
	b := software.New(64, 64)
	r := New(b, DefaultOptions())
	return r, b
}

func TestRenderer_BeginEndFrameEmptyScene(t *testing.T) {
	r, _ := newTestRenderer(t)
	vp := Viewport{Width: 64, Height: 64, Zoom: 1, Background: gg.RGBA{A: 1}}
	if err := r.BeginFrame(vp); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestRenderer_DrawFillProducesBatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	vp := Viewport{Width: 64, Height: 64, Zoom: 1}
	if err := r.BeginFrame(vp); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	r.Draw(square(4, 4, 20, 20), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	if len(r.drawables) == 0 {
		t.Fatal("expected at least one queued drawable after Draw")
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestRenderer_DrawIgnoredOutsideFrame(t *testing.T) {
	r, _ := newTestRenderer(t)
	fill := SolidFill(1)
	r.Draw(square(0, 0, 10, 10), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	if len(r.drawables) != 0 {
		t.Error("expected Draw outside a frame to be a no-op")
	}
}

func TestRenderer_DrawNilOrEmptyPathIsNoop(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 8, Height: 8}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	r.Draw(nil, DrawOptions{Fill: &fill})
	r.Draw(gg.NewPath(), DrawOptions{Fill: &fill})
	if len(r.drawables) != 0 {
		t.Error("expected nil/empty path draws to be ignored")
	}
}

func TestRenderer_StableIDCacheReusesDrawable(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	opts := DrawOptions{Transform: gg.Identity(), Fill: &fill, StableID: 7}
	r.Draw(square(0, 0, 16, 16), opts)
	if r.cache.Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", r.cache.Len())
	}
	first, _ := r.cache.Get(7 << 1)
	r.Draw(square(0, 0, 16, 16), opts)
	second, _ := r.cache.Get(7 << 1)
	if first != second {
		t.Error("expected the same cache entry pointer across repeated draws with the same stable ID")
	}
}

func TestRenderer_ResetInvalidatesCache(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	opts := DrawOptions{Transform: gg.Identity(), Fill: &fill, StableID: 3}
	r.Draw(square(0, 0, 8, 8), opts)
	e0, _ := r.cache.Get(3 << 1)
	gen0 := e0.generation

	r.Reset()
	r.Draw(square(0, 0, 8, 8), opts)
	e1, _ := r.cache.Get(3 << 1)
	gen1 := e1.generation
	if gen0 == gen1 {
		t.Error("expected Reset to bump the generation a cached entry is rebuilt under")
	}
}

func TestRenderer_DrawBatchPreservesSubmissionOrder(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	items := []BatchItem{
		{Path: square(0, 0, 8, 8), Options: DrawOptions{Transform: gg.Identity(), Fill: &fill}},
		{Path: square(16, 16, 8, 8), Options: DrawOptions{Transform: gg.Identity(), Fill: &fill}},
		{Path: square(32, 32, 8, 8), Options: DrawOptions{Transform: gg.Identity(), Fill: &fill}},
	}
	r.DrawBatch(items)
	if len(r.drawables) != len(items) {
		t.Fatalf("expected %d drawables, got %d", len(items), len(r.drawables))
	}
	if r.drawables[0].BoundingRect.Min.X >= r.drawables[1].BoundingRect.Min.X {
		t.Error("expected batch order to follow submission order")
	}
	if r.drawables[1].BoundingRect.Min.X >= r.drawables[2].BoundingRect.Min.X {
		t.Error("expected batch order to follow submission order")
	}
}

func TestRenderer_CapacityTriggersAutoFlush(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetCapacities(Capacities{MaxVertices: 4, MaxIndices: 6, MaxCurves: 1 << 20, MaxBandIndices: 1 << 20})
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	r.Draw(square(0, 0, 8, 8), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	r.Draw(square(16, 16, 8, 8), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	if len(r.drawables) != 1 {
		t.Errorf("expected the first draw to have been auto-flushed, leaving 1 queued drawable, got %d", len(r.drawables))
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
}

func TestRenderer_OverlayPrimitivesFlushOnEndFrame(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 32, Height: 32, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	r.UISquare(gg.Pt(16, 16), 8, gg.RGBA{R: 1, A: 1})
	r.UICircle(gg.Pt(16, 16), 4, gg.RGBA{G: 1, A: 1})
	if len(r.overlayRects) != 1 || len(r.overlayCircles) != 1 {
		t.Fatalf("expected one queued rect and one queued circle, got %d/%d", len(r.overlayRects), len(r.overlayCircles))
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	if len(r.overlayRects) != 0 || len(r.overlayCircles) != 0 {
		t.Error("expected overlay queues to be drained by EndFrame")
	}
}

func TestRenderer_StrokeProducesSecondDrawable(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	stroke := gg.DefaultStroke().WithWidth(2)
	r.Draw(square(8, 8, 16, 16), DrawOptions{Transform: gg.Identity(), Fill: &fill, Stroke: &stroke, StrokePaintID: 2})
	if len(r.drawables) != 2 {
		t.Fatalf("expected one fill and one stroke drawable, got %d", len(r.drawables))
	}
}

func defaultTextureDescriptorForTest() backend.TextureDescriptor {
	return backend.DefaultTextureDescriptor(8, 8, gputypes.TextureFormat(0))
}

func TestRenderer_TexturePoolLifecycle(t *testing.T) {
	r, _ := newTestRenderer(t)
	desc := defaultTextureDescriptorForTest()
	tex, err := r.SetTexture(5, desc)
	if err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	got, ok := r.Texture(5)
	if !ok || got != tex {
		t.Fatal("expected Texture to return the texture just set")
	}
	r.ReleaseTexture(5)
	if _, ok := r.Texture(5); ok {
		t.Error("expected texture to be gone after ReleaseTexture")
	}
}

func TestRenderer_PaintPoolLifecycle(t *testing.T) {
	r, _ := newTestRenderer(t)
	brush := gg.Solid(gg.RGBA{R: 1, A: 1})
	r.SetPaint(9, brush)
	got, ok := r.Paint(9)
	if !ok || got != gg.Brush(brush) {
		t.Fatal("expected Paint to return the brush just set")
	}
	r.ReleasePaint(9)
	if _, ok := r.Paint(9); ok {
		t.Error("expected paint to be gone after ReleasePaint")
	}
}

func TestRenderer_DrawResolvesBoundBrushColor(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.SetPaint(1, gg.Solid(gg.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}))
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(1)
	r.Draw(square(4, 4, 20, 20), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	if len(r.drawables) == 0 {
		t.Fatal("expected at least one queued drawable after Draw")
	}
	d := r.drawables[0]
	if len(d.Tiles) == 0 && len(d.Fills) == 0 {
		t.Fatal("expected the drawable to carry at least one tile or fill record")
	}
	for _, rec := range d.Tiles {
		if rec.Color != (gg.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}) {
			t.Errorf("tile color = %+v, want the bound brush's color", rec.Color)
		}
	}
	for _, rec := range d.Fills {
		if rec.Color != (gg.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}) {
			t.Errorf("fill color = %+v, want the bound brush's color", rec.Color)
		}
	}
}

func TestRenderer_DrawWithoutBoundBrushDefaultsToBlack(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.BeginFrame(Viewport{Width: 64, Height: 64, Zoom: 1}); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	fill := SolidFill(42)
	r.Draw(square(4, 4, 20, 20), DrawOptions{Transform: gg.Identity(), Fill: &fill})
	for _, rec := range r.drawables[0].Tiles {
		if rec.Color != gg.Black {
			t.Errorf("tile color = %+v, want gg.Black for an unbound paint ID", rec.Color)
		}
	}
}

func TestRenderer_Close(t *testing.T) {
	r, _ := newTestRenderer(t)
	desc := defaultTextureDescriptorForTest()
	if _, err := r.SetTexture(1, desc); err != nil {
		t.Fatalf("SetTexture: %v", err)
	}
	r.Close()
}
