// Package software is the CPU fallback backend.Backend adapter. It
// renders the same RenderState a GPU adapter would consume, using
// golang.org/x/image/vector for scanline rasterization and the core's
// own Pixmap as the render target. This is the path the test suite
// exercises end-to-end without a real GPU device.
package software

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/gogpu/gputypes"

	gg "github.com/vecgraph/vgcore"
	"github.com/vecgraph/vgcore/backend"
)

// vertexStride is the float32 count per vertex in a RenderState's
// VertexArray: 2 position components plus the 4-component RGBA color
// the façade's packTileQuads/packOverlayQuads stamp onto every vertex.
const vertexStride = 6

// Backend rasterizes RenderStates onto an in-memory gg.Pixmap.
type Backend struct {
	mu     sync.Mutex
	target *gg.Pixmap
	closed bool
}

// New creates a software backend with an initial target size. Submit
// resizes the target automatically if a later Viewport differs.
func New(width, height int) *Backend {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Backend{target: gg.NewPixmap(width, height)}
}

// Name identifies this adapter.
func (b *Backend) Name() string { return "software" }

// Close releases the backing pixmap.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = nil
	b.closed = true
}

// Target returns the current render target, useful for tests and for
// presenting the frame when no swapchain exists.
func (b *Backend) Target() *gg.Pixmap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.target
}

// Submit rasterizes state.VertexArray (interpreted as a triangle list in
// viewport pixel coordinates) onto the target pixmap.
func (b *Backend) Submit(state backend.RenderState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("software: %w: backend closed", backend.ErrBackendUnavailable)
	}

	w, h := state.Viewport.Width, state.Viewport.Height
	if w <= 0 || h <= 0 {
		w, h = b.target.Width(), b.target.Height()
	}
	if b.target == nil || b.target.Width() != w || b.target.Height() != h {
		b.target = gg.NewPixmap(w, h)
	}

	if state.ClearOps.ClearColor {
		bg := state.Viewport.Background
		b.target.Clear(gg.RGBA{
			R: float64(clamp01(bg[0])),
			G: float64(clamp01(bg[1])),
			B: float64(clamp01(bg[2])),
			A: float64(clamp01(bg[3])),
		})
	}

	va := state.VertexArray
	if len(va.Indices) < 3 || len(va.Vertices) < vertexStride {
		gg.Logger().Debug("software: submit with no geometry", "program", state.Program.String())
		return nil
	}

	// Every vertex carries its own resolved material color (facade.go's
	// packTileQuads/appendQuad), and every tile/fill/overlay quad the
	// façade emits is uniformly colored across its four vertices, so each
	// triangle is rasterized and drawn on its own against its first
	// vertex's color rather than batched into one pass against a single
	// hardcoded fill.
	raster := vector.NewRasterizer(w, h)
	triangles := 0
	for i := 0; i+2 < len(va.Indices); i += 3 {
		p0 := vertexAt(va.Vertices, va.Indices[i])
		p1 := vertexAt(va.Vertices, va.Indices[i+1])
		p2 := vertexAt(va.Vertices, va.Indices[i+2])
		raster.MoveTo(p0)
		raster.LineTo(p1)
		raster.LineTo(p2)
		raster.ClosePath()
		triangles++

		src := image.NewUniform(vertexColor(va.Vertices, va.Indices[i]))
		raster.Draw(b.target, b.target.Bounds(), src, image.Point{})
		raster.Reset(w, h)
	}

	gg.Logger().Debug("software: submit",
		"program", state.Program.String(),
		"triangles", triangles,
	)
	return nil
}

func vertexAt(vertices []float32, index uint32) f32.Vec2 {
	off := int(index) * vertexStride
	if off+1 >= len(vertices) {
		return f32.Vec2{0, 0}
	}
	return f32.Vec2{vertices[off], vertices[off+1]}
}

// vertexColor reads the RGBA color packed alongside index's position,
// falling back to opaque black for a vertex buffer with no color
// channel (e.g. a legacy overlay batch built without one).
func vertexColor(vertices []float32, index uint32) color.NRGBA {
	off := int(index) * vertexStride
	if off+5 >= len(vertices) {
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	}
	return color.NRGBA{
		R: uint8(clamp01(vertices[off+2]) * 255),
		G: uint8(clamp01(vertices[off+3]) * 255),
		B: uint8(clamp01(vertices[off+4]) * 255),
		A: uint8(clamp01(vertices[off+5]) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}


// texture is the backend.Texture returned by CreateTexture, backed by
// its own Pixmap so a CPU-only embedder can still round-trip images and
// gradients through the same interface a GPU adapter exposes.
type texture struct {
	pix    *gg.Pixmap
	owner  *Backend
	format gputypes.TextureFormat
}

func (t *texture) Width() uint32  { return uint32(t.pix.Width()) }
func (t *texture) Height() uint32 { return uint32(t.pix.Height()) }
func (t *texture) Format() gputypes.TextureFormat {
	return t.format
}
func (t *texture) Destroy() { t.owner.DestroyTexture(t) }

// CreateTexture allocates a CPU-backed texture.
func (b *Backend) CreateTexture(desc backend.TextureDescriptor) (backend.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("software: %w: backend closed", backend.ErrBackendUnavailable)
	}
	return &texture{
		pix:    gg.NewPixmap(int(desc.Width), int(desc.Height)),
		owner:  b,
		format: desc.Format,
	}, nil
}

// DestroyTexture is a no-op beyond dropping the reference; Go's GC
// reclaims the backing pixmap once unreferenced.
func (b *Backend) DestroyTexture(tex backend.Texture) { _ = tex }

var _ backend.Backend = (*Backend)(nil)
