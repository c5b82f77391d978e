package gg

import (
	"math"
	"testing"
)

func square() *Path {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(1, 0), false)
	p.LineTo(Pt(1, 1), false)
	p.LineTo(Pt(0, 1), false)
	p.Close()
	return p
}

func rectPath(x, y, w, h float64) *Path {
	return BuildPath().Rect(x, y, w, h).Build()
}

func circlePath(cx, cy, r float64) *Path {
	return BuildPath().Circle(cx, cy, r).Build()
}

// TestPathArea tests the Area() method for various shapes.
func TestPathArea(t *testing.T) {
	tests := []struct {
		name      string
		buildPath func() *Path
		wantArea  float64
		tolerance float64
	}{
		{
			name:      "unit square clockwise",
			buildPath: square,
			wantArea:  1.0,
			tolerance: 0.001,
		},
		{
			name: "unit square counter-clockwise",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(0, 1), false)
				p.LineTo(Pt(1, 1), false)
				p.LineTo(Pt(1, 0), false)
				p.Close()
				return p
			},
			wantArea:  -1.0,
			tolerance: 0.001,
		},
		{
			name:      "10x10 square",
			buildPath: func() *Path { return rectPath(0, 0, 10, 10) },
			wantArea:  100,
			tolerance: 0.1,
		},
		{
			name: "triangle",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(4, 0), false)
				p.LineTo(Pt(2, 3), false)
				p.Close()
				return p
			},
			wantArea:  6,
			tolerance: 0.1,
		},
		{
			name:      "circle radius 1",
			buildPath: func() *Path { return circlePath(0, 0, 1) },
			wantArea:  math.Pi,
			tolerance: 0.5,
		},
		{
			name:      "empty path",
			buildPath: NewPath,
			wantArea:  0,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.buildPath()
			got := p.Area()
			if math.Abs(math.Abs(got)-math.Abs(tt.wantArea)) > tt.tolerance {
				t.Errorf("Area() = %v, want approximately %v (tolerance %v)", got, tt.wantArea, tt.tolerance)
			}
		})
	}
}

// TestPathWinding tests the Winding() method.
func TestPathWinding(t *testing.T) {
	sq := square()

	tests := []struct {
		name   string
		point  Point
		expect int
	}{
		{"point inside square", Pt(0.5, 0.5), 1},
		{"point outside square left", Pt(-1, 0.5), 0},
		{"point outside square right", Pt(2, 0.5), 0},
		{"point outside square above", Pt(0.5, 2), 0},
		{"point outside square below", Pt(0.5, -1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sq.Winding(tt.point)
			if (got != 0) != (tt.expect != 0) {
				t.Errorf("Winding(%v) = %d, expected non-zero=%v", tt.point, got, tt.expect != 0)
			}
		})
	}
}

// TestPathContains tests the Contains() method.
func TestPathContains(t *testing.T) {
	tests := []struct {
		name      string
		buildPath func() *Path
		point     Point
		want      bool
	}{
		{"inside square", func() *Path { return rectPath(0, 0, 10, 10) }, Pt(5, 5), true},
		{"outside square", func() *Path { return rectPath(0, 0, 10, 10) }, Pt(15, 5), false},
		{"inside circle", func() *Path { return circlePath(5, 5, 3) }, Pt(5, 5), true},
		{"outside circle", func() *Path { return circlePath(5, 5, 3) }, Pt(0, 0), false},
		{
			"inside triangle",
			func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				p.LineTo(Pt(5, 10), false)
				p.Close()
				return p
			},
			Pt(5, 3), true,
		},
		{
			"outside triangle",
			func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				p.LineTo(Pt(5, 10), false)
				p.Close()
				return p
			},
			Pt(0, 10), false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.buildPath()
			got := p.Contains(tt.point)
			if got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

// TestPathBoundingRect tests the BoundingRect() method.
func TestPathBoundingRect(t *testing.T) {
	tests := []struct {
		name      string
		buildPath func() *Path
		wantMin   Point
		wantMax   Point
	}{
		{
			name:      "simple rectangle",
			buildPath: func() *Path { return rectPath(10, 20, 30, 40) },
			wantMin:   Pt(10, 20),
			wantMax:   Pt(40, 60),
		},
		{
			name: "triangle",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				p.LineTo(Pt(5, 8), false)
				p.Close()
				return p
			},
			wantMin: Pt(0, 0),
			wantMax: Pt(10, 8),
		},
		{
			name:      "circle at origin",
			buildPath: func() *Path { return circlePath(0, 0, 5) },
			wantMin:   Pt(-5, -5),
			wantMax:   Pt(5, 5),
		},
		{
			name: "quadratic curve",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)
				return p
			},
			wantMin: Pt(0, 0),
			wantMax: Pt(10, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.buildPath()
			bbox := p.BoundingRect()

			tolerance := 0.5

			if math.Abs(bbox.Min.X-tt.wantMin.X) > tolerance ||
				math.Abs(bbox.Min.Y-tt.wantMin.Y) > tolerance {
				t.Errorf("BoundingRect().Min = %v, want %v", bbox.Min, tt.wantMin)
			}
			if math.Abs(bbox.Max.X-tt.wantMax.X) > tolerance ||
				math.Abs(bbox.Max.Y-tt.wantMax.Y) > tolerance {
				t.Errorf("BoundingRect().Max = %v, want %v", bbox.Max, tt.wantMax)
			}
		})
	}
}

// TestPathFlatten tests the Flatten() method.
func TestPathFlatten(t *testing.T) {
	tests := []struct {
		name       string
		buildPath  func() *Path
		tolerance  float64
		minPoints  int
		checkFirst Point
		checkLast  Point
	}{
		{
			name: "simple line",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 10), false)
				return p
			},
			tolerance:  1.0,
			minPoints:  2,
			checkFirst: Pt(0, 0),
			checkLast:  Pt(10, 10),
		},
		{
			name: "quadratic curve",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)
				return p
			},
			tolerance:  0.5,
			minPoints:  3,
			checkFirst: Pt(0, 0),
			checkLast:  Pt(10, 0),
		},
		{
			name: "cubic curve",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.CubicTo(Pt(3, 10), Pt(7, 10), Pt(10, 0), false)
				return p
			},
			tolerance:  0.5,
			minPoints:  3,
			checkFirst: Pt(0, 0),
			checkLast:  Pt(10, 0),
		},
		{
			name: "high precision",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)
				return p
			},
			tolerance:  0.05,
			minPoints:  5,
			checkFirst: Pt(0, 0),
			checkLast:  Pt(10, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.buildPath()
			points := p.Flatten(tt.tolerance)

			if len(points) < tt.minPoints {
				t.Errorf("Flatten() returned %d points, expected at least %d", len(points), tt.minPoints)
			}

			if len(points) > 0 {
				first := points[0]
				last := points[len(points)-1]

				if first.Distance(tt.checkFirst) > 0.01 {
					t.Errorf("First point = %v, want %v", first, tt.checkFirst)
				}
				if last.Distance(tt.checkLast) > 0.01 {
					t.Errorf("Last point = %v, want %v", last, tt.checkLast)
				}
			}
		})
	}
}

// TestPathFlattenCallback tests the FlattenCallback() method.
func TestPathFlattenCallback(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(5, 0), false)
	p.QuadraticTo(Pt(7.5, 5), Pt(10, 0), false)

	var points []Point
	p.FlattenCallback(0.5, func(pt Point) {
		points = append(points, pt)
	})

	if len(points) < 3 {
		t.Errorf("FlattenCallback() generated %d points, expected at least 3", len(points))
	}

	if points[0].Distance(Pt(0, 0)) > 0.01 {
		t.Errorf("First point = %v, want (0, 0)", points[0])
	}
	if points[len(points)-1].Distance(Pt(10, 0)) > 0.01 {
		t.Errorf("Last point = %v, want (10, 0)", points[len(points)-1])
	}
}

// TestPathReversed tests the Reversed() method.
func TestPathReversed(t *testing.T) {
	tests := []struct {
		name      string
		buildPath func() *Path
	}{
		{
			name: "simple line path",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				p.LineTo(Pt(10, 10), false)
				return p
			},
		},
		{
			name:      "closed rectangle",
			buildPath: func() *Path { return rectPath(0, 0, 10, 10) },
		},
		{
			name: "path with quadratic",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)
				return p
			},
		},
		{
			name: "path with cubic",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.CubicTo(Pt(3, 10), Pt(7, 10), Pt(10, 0), false)
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.buildPath()
			reversed := original.Reversed()

			if original.NumCommands() > 0 && reversed.NumCommands() == 0 {
				t.Error("Reversed path should have commands")
			}

			if original.IsClosed() != reversed.IsClosed() {
				t.Errorf("Reversed().IsClosed() = %v, want %v", reversed.IsClosed(), original.IsClosed())
			}

			origPoints := original.Flatten(0.5)
			revPoints := reversed.Flatten(0.5)
			if len(origPoints) == 0 || len(revPoints) == 0 {
				return
			}

			tolerance := 0.5
			if origPoints[0].Distance(revPoints[len(revPoints)-1]) > tolerance {
				t.Errorf("Original first %v should match reversed last %v", origPoints[0], revPoints[len(revPoints)-1])
			}
			if origPoints[len(origPoints)-1].Distance(revPoints[0]) > tolerance {
				t.Errorf("Original last %v should match reversed first %v", origPoints[len(origPoints)-1], revPoints[0])
			}
		})
	}
}

// TestPathLength tests the Length() method.
func TestPathLength(t *testing.T) {
	tests := []struct {
		name       string
		buildPath  func() *Path
		accuracy   float64
		wantLength float64
		tolerance  float64
	}{
		{
			name: "horizontal line",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				return p
			},
			accuracy:   0.001,
			wantLength: 10,
			tolerance:  0.001,
		},
		{
			name: "diagonal line",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(3, 4), false)
				return p
			},
			accuracy:   0.001,
			wantLength: 5,
			tolerance:  0.001,
		},
		{
			name: "square perimeter",
			buildPath: func() *Path {
				p := NewPath()
				p.MoveTo(Pt(0, 0))
				p.LineTo(Pt(10, 0), false)
				p.LineTo(Pt(10, 10), false)
				p.LineTo(Pt(0, 10), false)
				p.LineTo(Pt(0, 0), false)
				return p
			},
			accuracy:   0.001,
			wantLength: 40,
			tolerance:  0.001,
		},
		{
			name:       "circle circumference",
			buildPath:  func() *Path { return circlePath(0, 0, 1) },
			accuracy:   0.001,
			wantLength: 2 * math.Pi,
			tolerance:  0.1,
		},
		{
			name:       "empty path",
			buildPath:  NewPath,
			accuracy:   0.001,
			wantLength: 0,
			tolerance:  0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.buildPath()
			got := p.Length(tt.accuracy)
			if math.Abs(got-tt.wantLength) > tt.tolerance {
				t.Errorf("Length(%v) = %v, want %v (tolerance %v)", tt.accuracy, got, tt.wantLength, tt.tolerance)
			}
		})
	}
}

// TestBoundingRectWithCurves tests that bounding rects correctly include curve extrema.
func TestBoundingRectWithCurves(t *testing.T) {
	p := NewPath()
	p.MoveTo(Pt(0, 0))
	p.QuadraticTo(Pt(5, 10), Pt(10, 0), false)

	bbox := p.BoundingRect()

	if bbox.Max.Y < 4 {
		t.Errorf("BoundingRect max Y = %v, expected >= 4 (curve should bulge up)", bbox.Max.Y)
	}
}

// TestContainsWithCurves tests containment for paths with curves.
func TestContainsWithCurves(t *testing.T) {
	p := circlePath(5, 5, 3)

	tests := []struct {
		point Point
		want  bool
	}{
		{Pt(5, 5), true},
		{Pt(5, 7), true},
		{Pt(5, 9), false},
		{Pt(0, 0), false},
		{Pt(5, 2.5), true},
	}

	for _, tt := range tests {
		got := p.Contains(tt.point)
		if got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
		}
	}
}

// TestLengthAccuracy tests that smaller accuracy values give more precise results.
func TestLengthAccuracy(t *testing.T) {
	p := circlePath(0, 0, 1)

	expectedLength := 2 * math.Pi

	length1 := p.Length(0.1)
	length3 := p.Length(0.001)

	err1 := math.Abs(length1 - expectedLength)
	err3 := math.Abs(length3 - expectedLength)

	if err3 > err1*2 {
		t.Errorf("Higher accuracy should give better results: err(0.001)=%v > err(0.1)=%v", err3, err1)
	}
}

// TestEmptyPathOperations tests that empty paths handle all operations gracefully.
func TestEmptyPathOperations(t *testing.T) {
	p := NewPath()

	if area := p.Area(); area != 0 {
		t.Errorf("Empty path Area() = %v, want 0", area)
	}

	if w := p.Winding(Pt(0, 0)); w != 0 {
		t.Errorf("Empty path Winding() = %v, want 0", w)
	}

	if c := p.Contains(Pt(0, 0)); c {
		t.Errorf("Empty path Contains() = %v, want false", c)
	}

	bbox := p.BoundingRect()
	if bbox.Width() != 0 || bbox.Height() != 0 {
		t.Errorf("Empty path BoundingRect() = %v, want zero rect", bbox)
	}

	if pts := p.Flatten(1.0); len(pts) > 0 {
		t.Errorf("Empty path Flatten() = %v, want nil or empty", pts)
	}

	rev := p.Reversed()
	if rev.NumCommands() != 0 {
		t.Errorf("Empty path Reversed() has %d commands, want 0", rev.NumCommands())
	}

	if l := p.Length(0.001); l != 0 {
		t.Errorf("Empty path Length() = %v, want 0", l)
	}
}
