package label

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tcglabels/pkg/card"
	"github.com/matzehuels/tcglabels/pkg/fonts"
)

// Layout proportions, as fractions of the canvas width (margin) and height
// (line tops).
const (
	marginRatio = 0.05
)

var lineTopRatios = [3]float64{0.05, 0.35, 0.65}

// FontResolver turns a font identifier into a face sized for a canvas height.
// *fonts.Registry satisfies it.
type FontResolver interface {
	Resolve(id fonts.ID, canvasHeight int) (font.Face, error)
}

// Geometry holds the pixel positions derived from a Spec.
type Geometry struct {
	X        float64    // left margin of every line
	LineTops [3]float64 // top edge of each line
	FontSize float64    // face size in pixels
}

// GeometryFor computes the label geometry for spec.
func GeometryFor(spec Spec) Geometry {
	w, h := float64(spec.Width), float64(spec.Height)
	g := Geometry{
		X:        math.Round(w * marginRatio),
		FontSize: fonts.PointSize(spec.Height),
	}
	for i, r := range lineTopRatios {
		g.LineTops[i] = math.Round(h * r)
	}
	return g
}

// Renderer draws labels. It holds no per-render state and is safe for
// concurrent use as long as its FontResolver is.
type Renderer struct {
	fonts FontResolver
}

// NewRenderer creates a renderer that resolves fonts through f.
// A nil resolver selects fonts.Builtin().
func NewRenderer(f FontResolver) *Renderer {
	if f == nil {
		f = fonts.Builtin()
	}
	return &Renderer{fonts: f}
}

// Render draws the label for c on a fresh spec.Width x spec.Height canvas.
//
// The canvas is opaque white with black text. Each line is drawn with its
// top-left corner at (Geometry.X, Geometry.LineTops[i]); text is
// left-aligned and is clipped, not wrapped, at the right edge.
func (r *Renderer) Render(c card.Card, spec Spec) (*image.RGBA, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	face, err := r.fonts.Resolve(spec.FontID(), spec.Height)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dc := gg.NewContext(spec.Width, spec.Height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetFontFace(face)

	geo := GeometryFor(spec)
	// DrawString positions the baseline; shift by the ascent so the
	// line's top edge lands on its LineTop.
	ascent := float64(face.Metrics().Ascent.Ceil())
	for i, line := range Layout(c) {
		if line == "" {
			continue
		}
		dc.DrawString(line, geo.X, geo.LineTops[i]+ascent)
	}

	return toRGBA(dc.Image()), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}
