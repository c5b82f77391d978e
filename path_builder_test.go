package gg

import (
	"testing"
)

func TestPathBuilder_Basic(t *testing.T) {
	path := BuildPath().
		MoveTo(0, 0).
		LineTo(100, 0).
		LineTo(100, 100).
		Close().
		Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	count := path.NumCommands()
	if count != 3 { // Move, Line, Line (Close doesn't add a command)
		t.Errorf("expected 3 commands, got %d", count)
	}
	if !path.IsClosed() {
		t.Error("expected path to be closed")
	}
}

func TestPathBuilder_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		builder   func() *PathBuilder
		minCmds   int
	}{
		{"Rect", func() *PathBuilder { return BuildPath().Rect(0, 0, 100, 100) }, 4},
		{"Circle", func() *PathBuilder { return BuildPath().Circle(50, 50, 25) }, 5},
		{"Ellipse", func() *PathBuilder { return BuildPath().Ellipse(50, 50, 30, 20) }, 5},
		{"Polygon5", func() *PathBuilder { return BuildPath().Polygon(50, 50, 25, 5) }, 5},
		{"Star5", func() *PathBuilder { return BuildPath().Star(50, 50, 30, 15, 5) }, 10},
		{"RoundRect", func() *PathBuilder { return BuildPath().RoundRect(0, 0, 100, 100, 10) }, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.builder().Build()
			count := path.NumCommands()
			if count < tt.minCmds {
				t.Errorf("expected at least %d commands, got %d", tt.minCmds, count)
			}
		})
	}
}

func TestPathBuilder_Chaining(t *testing.T) {
	path := BuildPath().
		Circle(100, 100, 50).
		Rect(200, 50, 100, 100).
		Star(400, 100, 40, 20, 5).
		Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	count := path.NumCommands()
	if count < 18 {
		t.Errorf("expected at least 18 commands from chained shapes, got %d", count)
	}
}

func TestPathBuilder_InvalidPolygon(t *testing.T) {
	path := BuildPath().Polygon(50, 50, 25, 2).Build()

	if !path.IsEmpty() {
		t.Errorf("expected empty path for invalid polygon, got %d commands", path.NumCommands())
	}
}

func TestPathBuilder_InvalidStar(t *testing.T) {
	path := BuildPath().Star(50, 50, 30, 15, 2).Build()

	if !path.IsEmpty() {
		t.Errorf("expected empty path for invalid star, got %d commands", path.NumCommands())
	}
}

func TestPathBuilder_QuadTo(t *testing.T) {
	path := BuildPath().
		MoveTo(0, 0).
		QuadTo(50, 100, 100, 0).
		Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	count := path.NumCommands()
	if count != 2 {
		t.Errorf("expected 2 commands, got %d", count)
	}
}

func TestPathBuilder_CubicTo(t *testing.T) {
	path := BuildPath().
		MoveTo(0, 0).
		CubicTo(25, 100, 75, 100, 100, 0).
		Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	count := path.NumCommands()
	if count != 2 {
		t.Errorf("expected 2 commands, got %d", count)
	}
}

func TestPathBuilder_PathAlias(t *testing.T) {
	builder := BuildPath().MoveTo(0, 0).LineTo(100, 100)

	pathFromBuild := builder.Build()
	pathFromPath := builder.Path()

	if pathFromBuild != pathFromPath {
		t.Error("Build() and Path() should return the same path")
	}
}

func TestPathBuilder_RoundRectRadiusClamping(t *testing.T) {
	path := BuildPath().RoundRect(0, 0, 100, 50, 100).Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	count := path.NumCommands()
	if count < 8 {
		t.Errorf("expected at least 8 commands for rounded rect, got %d", count)
	}
}

func TestPathBuilder_EmptyPath(t *testing.T) {
	path := BuildPath().Build()

	if path == nil {
		t.Fatal("expected non-nil path")
	}

	if !path.IsEmpty() {
		t.Errorf("expected 0 commands for empty path, got %d", path.NumCommands())
	}
}
