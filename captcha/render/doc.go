// Package render implements the procedural image-synthesis pipeline for
// arrow-sequence challenges.
//
// The pipeline has three stages, composed in order by the challenge
// manager:
//
//  1. Synthesizer.Render rasterizes a layered canvas: speckled background,
//     six gradient-filled circular badges holding the answer's arrow
//     glyphs, rows of rotated translucent noise characters, bold noise
//     lines, and sinusoidal distortion curves with scattered dots.
//  2. PostProcess applies scale-dependent degradation: block pixelation
//     above zoom 1 and an edge-preserving box blur above zoom 2.
//  3. EncodeJPEG serializes the finished canvas as a 24-bit RGB JPEG at a
//     fixed quality factor.
//
// Every visual parameter scales linearly with the zoom level (1–4), which
// multiplies the 180x35 base canvas.
//
// Rendering takes an explicit random source so tests can reproduce an
// exact canvas; production callers pass a freshly crypto-seeded source per
// challenge.
package render
