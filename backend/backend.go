// Package backend defines the exchange format and interface between the
// renderer façade and a concrete GPU device API. The façade assembles a
// RenderState and hands it to a Backend; how that state reaches silicon
// is the adapter's concern, not the façade's.
package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// ErrBackendUnavailable is returned by an adapter that cannot obtain or
// has lost its device.
var ErrBackendUnavailable = errors.New("backend: unavailable")

// ErrShaderCompile is returned when a program variant fails to compile.
// Per the error handling design, a missing shader elsewhere is a fatal
// programmer error; a compile failure at the adapter boundary is not.
var ErrShaderCompile = errors.New("backend: shader compile failed")

// Program names one of the fixed shader variants the façade can submit.
type Program uint8

const (
	ProgramTile Program = iota
	ProgramFill
	ProgramLine
	ProgramRect
	ProgramCircle
	ProgramImage
)

func (p Program) String() string {
	switch p {
	case ProgramTile:
		return "tile"
	case ProgramFill:
		return "fill"
	case ProgramLine:
		return "line"
	case ProgramRect:
		return "rect"
	case ProgramCircle:
		return "circle"
	case ProgramImage:
		return "image"
	default:
		return "unknown"
	}
}

// BlendMode selects the fixed-function blend state for a draw.
type BlendMode uint8

const (
	// BlendPremultipliedSrcOver is used for tile/fill quads.
	BlendPremultipliedSrcOver BlendMode = iota
	// BlendDisabled is used for opaque fills.
	BlendDisabled
)

// Viewport describes the target surface the façade is rendering into.
type Viewport struct {
	Width, Height int
	DPR           float64
	OffsetX       float64
	OffsetY       float64
	Zoom          float64
	Background    [4]float32
}

// ClearOps describes the clear operations to apply before drawing.
type ClearOps struct {
	Color        [4]float32
	ClearColor   bool
	ClearDepth   bool
	ClearStencil bool
}

// DepthStencilState configures depth/stencil behavior for one draw.
type DepthStencilState struct {
	DepthWrite bool
	DepthTest  bool
	StencilUse bool
}

// Uniforms carries the per-frame uniform values described in the
// external-interfaces surface: view-projection, sampling, and the
// texture bindings the tile/fill programs look curves and paints up in.
type Uniforms struct {
	ViewProjection  [16]float32
	SampleCount     int
	TileSize        float32
	FramebufferSize [2]float32
	PaintColors     []gputypes.TextureFormat // placeholder binding slots; real paint color array lives in Textures
	Textures        map[string]Texture
}

// VertexArray is the backend-agnostic vertex/index payload for one draw
// call; adapters translate it into their own buffer bindings.
type VertexArray struct {
	Vertices []float32
	Indices  []uint32
}

// RenderState is one submittable unit of GPU work: everything a backend
// needs to issue a draw without knowing anything about gg's own types.
type RenderState struct {
	Viewport    Viewport
	Program     Program
	VertexArray VertexArray
	ClearOps    ClearOps
	Blend       BlendMode
	Depth       DepthStencilState
	Stencil     bool
	Uniforms    Uniforms
}

// TextureUsage specifies how a texture may be bound.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// TextureDescriptor describes parameters for creating a texture.
type TextureDescriptor struct {
	Label         string
	Width, Height uint32
	MipLevelCount uint32
	SampleCount   uint32
	Format        gputypes.TextureFormat
	Usage         TextureUsage
}

// DefaultTextureDescriptor returns sane defaults for a sampled render
// target; only Width, Height, and Format typically need overriding.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// Texture is a handle to a device-resident texture, opaque to the
// façade beyond basic introspection and disposal.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Destroy()
}

// Backend is the interface the façade's Flush/end_frame submits
// RenderStates to. It is the one seam in the module where an ordinary Go
// error is idiomatic, since device loss and shader compile failure are
// true I/O-boundary errors.
type Backend interface {
	// Name identifies the adapter ("wgpu", "software").
	Name() string

	// Submit issues one RenderState's draw work.
	Submit(state RenderState) error

	// CreateTexture allocates a device texture.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// DestroyTexture releases a texture obtained from CreateTexture.
	DestroyTexture(tex Texture)

	// Close releases all adapter-owned resources.
	Close()
}
