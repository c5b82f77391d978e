package tile

import (
	"testing"

	gg "github.com/vecgraph/vgcore"
)

func square(x, y, w, h float64) *gg.Path {
	return gg.BuildPath().Rect(x, y, w, h).Build()
}

func TestClassify_EmptyPathIsEmptyDrawable(t *testing.T) {
	p := gg.NewPath()
	d := Classify(p, NonZero, PaintSolid, 0, DefaultClassifyOptions())
	if len(d.Tiles) != 0 || len(d.Fills) != 0 {
		t.Errorf("expected no tiles/fills for empty path, got %d/%d", len(d.Tiles), len(d.Fills))
	}
}

func TestClassify_LargeSquareCoversWithSingleTile(t *testing.T) {
	// 128*128 bounds at zoom 1 is above coverageTileThreshold (64*64).
	p := square(0, 0, 128, 128)
	opts := DefaultClassifyOptions()
	d := Classify(p, NonZero, PaintSolid, 1, opts)
	if len(d.Tiles) != 1 {
		t.Fatalf("expected single coverage tile for large square, got %d", len(d.Tiles))
	}
	if d.Tiles[0].Rect.Width() <= 0 || d.Tiles[0].Rect.Height() <= 0 {
		t.Errorf("coverage tile has non-positive extent: %+v", d.Tiles[0].Rect)
	}
}

func TestClassify_SmallShapeProducesBandedSpans(t *testing.T) {
	// 48*48 bounds is below coverageTileThreshold; the slanted right edge
	// straddles a span in every band, leaving an interior span to its left.
	p := gg.BuildPath().MoveTo(0, 0).LineTo(40, 0).LineTo(48, 48).LineTo(0, 48).Close().Build()
	d := Classify(p, NonZero, PaintSolid, 2, DefaultClassifyOptions())
	if len(d.Tiles) == 0 {
		t.Fatal("expected boundary tiles for a small shape with a slanted edge")
	}
	if len(d.Fills) == 0 {
		t.Fatal("expected interior fill spans for a small shape with a slanted edge")
	}
	if len(d.BandHeaders) < minBands {
		t.Errorf("expected at least %d band headers, got %d", minBands, len(d.BandHeaders))
	}
}

func TestClassify_BandCountClampedToMax(t *testing.T) {
	p := square(0, 0, 100, 1_000_000)
	opts := DefaultClassifyOptions()
	opts.BandHeightPx = 1
	d := Classify(p, NonZero, PaintSolid, 0, opts)
	if len(d.BandHeaders) > maxBands {
		t.Errorf("band count %d exceeds max %d", len(d.BandHeaders), maxBands)
	}
}

func TestClassify_EvenOddVsNonZeroOnOverlappingSquares(t *testing.T) {
	p := gg.BuildPath().
		Rect(0, 0, 48, 48).
		Rect(8, 8, 24, 12).
		Build()

	nz := Classify(p, NonZero, PaintSolid, 0, DefaultClassifyOptions())
	eo := Classify(p, EvenOdd, PaintSolid, 0, DefaultClassifyOptions())

	if len(nz.Fills) == 0 {
		t.Fatal("expected nonzero fills for nested squares")
	}
	if len(eo.Fills) == 0 {
		t.Fatal("expected even-odd fills for nested squares")
	}
	if len(nz.Fills) == len(eo.Fills) {
		t.Log("nonzero and even-odd fill counts coincide; not necessarily an error but worth a second look")
	}
}

func TestFillRule_Inside(t *testing.T) {
	cases := []struct {
		rule    FillRule
		winding int
		want    bool
	}{
		{NonZero, 0, false},
		{NonZero, 1, true},
		{NonZero, -2, true},
		{EvenOdd, 2, false},
		{EvenOdd, 3, true},
	}
	for _, c := range cases {
		if got := c.rule.Inside(c.winding); got != c.want {
			t.Errorf("Inside(%v, %d) = %v, want %v", c.rule, c.winding, got, c.want)
		}
	}
}

func TestClassify_PaintRangesCoverAllTilesAndFills(t *testing.T) {
	p := square(0, 0, 512, 512)
	d := Classify(p, NonZero, PaintTexture, 7, DefaultClassifyOptions())
	if len(d.Paints) != 1 {
		t.Fatalf("expected one paint range, got %d", len(d.Paints))
	}
	pr := d.Paints[0]
	if pr.TilesEnd != len(d.Tiles) || pr.FillsEnd != len(d.Fills) {
		t.Errorf("paint range %+v does not cover all %d tiles / %d fills", pr, len(d.Tiles), len(d.Fills))
	}
	if pr.Kind != PaintTexture || pr.PaintID != 7 {
		t.Errorf("paint range metadata mismatch: %+v", pr)
	}
}
