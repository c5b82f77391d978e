package software

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/vecgraph/vgcore/backend"
)

func TestBackend_SubmitClearOnly(t *testing.T) {
	b := New(4, 4)
	err := b.Submit(backend.RenderState{
		Viewport: backend.Viewport{Width: 4, Height: 4, Background: [4]float32{1, 0, 0, 1}},
		ClearOps: backend.ClearOps{ClearColor: true},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	r, _, _, _ := b.Target().At(0, 0).RGBA()
	if r == 0 {
		t.Errorf("expected cleared target to carry red channel, got r=%d", r)
	}
}

func TestBackend_SubmitTriangle(t *testing.T) {
	b := New(8, 8)
	state := backend.RenderState{
		Viewport: backend.Viewport{Width: 8, Height: 8},
		Program:  backend.ProgramFill,
		VertexArray: backend.VertexArray{
			// x, y, r, g, b, a per vertex.
			Vertices: []float32{
				0, 0, 1, 0, 0, 1,
				8, 0, 1, 0, 0, 1,
				0, 8, 1, 0, 0, 1,
			},
			Indices: []uint32{0, 1, 2},
		},
	}
	if err := b.Submit(state); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	r, _, _, a := b.Target().At(1, 1).RGBA()
	if r == 0 || a == 0 {
		t.Errorf("expected the rasterized triangle to carry its vertex color, got r=%d a=%d", r, a)
	}
}

func TestBackend_SubmitAfterCloseFails(t *testing.T) {
	b := New(2, 2)
	b.Close()
	if err := b.Submit(backend.RenderState{}); err == nil {
		t.Error("expected error submitting to closed backend")
	}
}

func TestBackend_CreateAndDestroyTexture(t *testing.T) {
	b := New(2, 2)
	tex, err := b.CreateTexture(backend.DefaultTextureDescriptor(16, 16, gputypes.TextureFormat(0)))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 16 {
		t.Errorf("texture size = %dx%d, want 16x16", tex.Width(), tex.Height())
	}
	tex.Destroy()
}

func TestBackend_Name(t *testing.T) {
	if New(1, 1).Name() != "software" {
		t.Error("expected backend name \"software\"")
	}
}
