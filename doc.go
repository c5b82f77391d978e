// Package gg provides the geometric and rasterization core of a 2D
// vector-graphics editor: a packed path representation, curve algebra for
// quadratic and cubic Beziers, cubic-to-quadratic conversion, stroke
// expansion and cubic offsetting, and a tile/band classifier feeding a
// Renderer facade over pluggable GPU and software backends.
//
// Stroke outline expansion (BuildStrokeOutline, joins, caps, offsetting)
// lives directly in this package rather than an internal subpackage,
// since it operates on the public Path and QuadraticPath types.
//
// # Architecture
//
//   - Public API: Path, Segment, QuadraticPath, CubicPath, Stroke, Paint,
//     Brush, Matrix, Point
//   - tile: per-path tile/band classification into GPU-bound Drawables
//   - render: the Renderer facade (begin_frame/draw/end_frame), the
//     stable-ID Drawable cache, and the texture pool
//   - gpucore: render-state vocabulary shared by backend adapters
//   - internal/path: packed path encoding and vertex iteration, used by
//     tile for winding computation
//   - internal/cache: the generic Cache and ShardedCache primitives the
//     render package's Drawable cache is built on
//   - internal/parallel: frame-scoped worker pool used by render.DrawBatch
//     to classify independent paths concurrently
//   - backend: Backend adapter interface, backend/wgpu and backend/software
//     implementations
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, 0 is right, increases counter-clockwise
package gg
