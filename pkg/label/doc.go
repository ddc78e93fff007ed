// Package label lays out and rasterizes card labels.
//
// A label is a fixed-size canvas with three left-aligned lines of black text
// on a white background:
//
//	Pikachu
//	58 COMMON
//	Base Set
//
// The first line is the card name, the second the upper-cased catalog number
// and rarity, the third the set name. Lines two and three are truncated to
// [MaxLineLength] characters with a trailing "...".
//
// # Geometry
//
// For a canvas of width w and height h every line starts at x = round(w*0.05).
// Line tops sit at round(h*0.05), round(h*0.35) and round(h*0.65), and the
// font is sized to round(h*0.25) pixels.
//
// # Rendering
//
// [Renderer.Render] produces one opaque RGBA raster per card. Output is a pure
// function of the card and the [Spec]: two calls with the same inputs produce
// identical pixels.
//
// [Batch] drives a renderer over many cards on a bounded worker pool. Results
// are slotted by input position, so order never depends on which worker
// finishes first:
//
//	b := label.NewBatch(label.NewRenderer(nil), label.WithWorkers(4))
//	rasters, err := b.RenderAll(ctx, cards, label.Spec{Width: 450, Height: 150})
//
// [Batch.WriteDir] writes label_<key>.png files instead of keeping rasters
// in memory.
package label
