package gg

// Brush represents what to paint with. A Brush is bound to a paintID via
// render.Renderer.SetPaint; the façade resolves every tile/fill record
// under that paintID to brush.ColorAt(x, y) in world space before the
// batch reaches a backend (see tile.PaintRange and
// render.Renderer.SetPaint).
//
// This is a sealed interface - only types in this package implement it.
// Built-in brush kinds cover solid colors (SolidBrush), the linear/
// radial/sweep gradients in gradient_linear.go/gradient_radial.go/
// gradient_sweep.go, and an escape hatch for anything else
// (CustomBrush, see brush_custom.go).
//
// Example usage:
//
//	r.SetPaint(1, gg.Solid(gg.Red))
//	r.SetPaint(2, gg.SolidRGB(0.5, 0.5, 0.5))
//	r.SetPaint(3, gg.SolidHex("#FF5733"))
type Brush interface {
	// brushMarker is an unexported method that seals this interface.
	// Only types in this package can implement Brush.
	brushMarker()

	// ColorAt returns the color at the given coordinates.
	// For solid brushes, this returns the same color regardless of position.
	// For pattern-based brushes, this samples the pattern at (x, y).
	ColorAt(x, y float64) RGBA
}

// SolidBrush is a single-color brush.
// It implements the Brush interface and always returns the same color.
type SolidBrush struct {
	// Color is the solid color of this brush.
	Color RGBA
}

// brushMarker implements the sealed Brush interface.
func (SolidBrush) brushMarker() {}

// ColorAt implements Brush. Returns the solid color regardless of position.
func (b SolidBrush) ColorAt(_, _ float64) RGBA {
	return b.Color
}

// Solid creates a SolidBrush from an RGBA color.
//
// Example:
//
//	brush := gg.Solid(gg.Red)
//	brush := gg.Solid(gg.RGBA{R: 1, G: 0, B: 0, A: 1})
func Solid(c RGBA) SolidBrush {
	return SolidBrush{Color: c}
}

// SolidRGB creates a SolidBrush from RGB components (0-1 range).
// Alpha is set to 1.0 (fully opaque).
//
// Example:
//
//	brush := gg.SolidRGB(1, 0, 0) // Red
//	brush := gg.SolidRGB(0.5, 0.5, 0.5) // Gray
func SolidRGB(r, g, b float64) SolidBrush {
	return SolidBrush{Color: RGB(r, g, b)}
}

// SolidRGBA creates a SolidBrush from RGBA components (0-1 range).
//
// Example:
//
//	brush := gg.SolidRGBA(1, 0, 0, 0.5) // Semi-transparent red
func SolidRGBA(r, g, b, a float64) SolidBrush {
	return SolidBrush{Color: RGBA2(r, g, b, a)}
}

// SolidHex creates a SolidBrush from a hex color string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with optional '#' prefix.
//
// Example:
//
//	brush := gg.SolidHex("#FF5733")
//	brush := gg.SolidHex("FF5733")
//	brush := gg.SolidHex("#F53")
func SolidHex(hex string) SolidBrush {
	return SolidBrush{Color: Hex(hex)}
}

// WithAlpha returns a new SolidBrush with the specified alpha value.
// The RGB components are preserved.
//
// Example:
//
//	opaqueBrush := gg.Solid(gg.Red)
//	semiBrush := opaqueBrush.WithAlpha(0.5)
func (b SolidBrush) WithAlpha(alpha float64) SolidBrush {
	return SolidBrush{
		Color: RGBA{
			R: b.Color.R,
			G: b.Color.G,
			B: b.Color.B,
			A: alpha,
		},
	}
}

// Opaque returns a new SolidBrush with alpha set to 1.0.
func (b SolidBrush) Opaque() SolidBrush {
	return b.WithAlpha(1.0)
}

// Transparent returns a new SolidBrush with alpha set to 0.0.
func (b SolidBrush) Transparent() SolidBrush {
	return b.WithAlpha(0.0)
}

// Lerp performs linear interpolation between two solid brushes.
// Returns a new SolidBrush with the interpolated color.
//
// Example:
//
//	red := gg.Solid(gg.Red)
//	blue := gg.Solid(gg.Blue)
//	purple := red.Lerp(blue, 0.5)
func (b SolidBrush) Lerp(other SolidBrush, t float64) SolidBrush {
	return SolidBrush{Color: b.Color.Lerp(other.Color, t)}
}

