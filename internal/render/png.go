package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
)

type PNGOptions struct {
	// Background is a hex color; empty leaves the surface transparent.
	Background string
	// Font defaults to the bundled face.
	Font *text.FontSource
}

// PNG rasterizes the placed words at the layout size. Each word is drawn
// upright on its own surface, filled, then rotated onto the canvas around its
// center.
func PNG(w io.Writer, res layout.Result, b layout.Bounds, palette mapper.Palette, opts PNGOptions) error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: empty surface %dx%d", ErrExport, b.Width, b.Height)
	}
	if b.Width > layout.MaxSideLimit || b.Height > layout.MaxSideLimit {
		return fmt.Errorf("%w: surface %dx%d exceeds %d pixels a side", ErrExport, b.Width, b.Height, layout.MaxSideLimit)
	}

	font := opts.Font
	if font == nil {
		var err error
		if font, err = DefaultFontSource(); err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
	}
	measurer := NewFontMeasurer(font)

	canvas := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	if opts.Background != "" {
		bg := gg.Hex(opts.Background).Color()
		xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	}

	for _, pw := range res.Words {
		if !pw.Placed {
			continue
		}
		glyphs, err := rasterizeWord(pw, measurer.Face(pw.FontSize), palette)
		if err != nil {
			return err
		}
		composite(canvas, glyphs, pw)
	}

	dc := gg.NewContextForImage(canvas)
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("%w: encode png: %w", ErrExport, err)
	}
	return nil
}

func rasterizeWord(pw layout.PlacedWord, face text.Face, palette mapper.Palette) (image.Image, error) {
	width, height := text.Measure(pw.Text, face)
	cw := int(math.Ceil(width)) + 2
	ch := int(math.Ceil(height)) + 2

	dc := gg.NewContext(cw, ch)
	defer dc.Close()
	dc.SetFont(face)

	g, gradient := palette.GradientForFill(pw.Fill)
	if gradient {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(gg.Hex(pw.Fill).Color())
	}
	dc.DrawString(pw.Text, 1, 1+face.Metrics().Ascent)

	img := dc.Image()
	if !gradient {
		return img, nil
	}
	return paintGradient(img, g, float64(cw), float64(ch))
}

type colorSampler interface {
	ColorAt(x, y float64) gg.RGBA
}

// paintGradient keeps the coverage of mask and takes the color from g.
func paintGradient(mask image.Image, g mapper.Gradient, w, h float64) (image.Image, error) {
	var brush colorSampler
	switch g.Type {
	case mapper.GradientRadial:
		rb := gg.NewRadialGradientBrush(w/2, h/2, 0, math.Max(w, h)/2)
		for _, s := range g.Stops {
			rb.AddColorStop(s.Offset, gg.Hex(s.Color))
		}
		brush = rb
	case mapper.GradientLinear:
		rad := g.Angle * math.Pi / 180
		dx, dy := math.Cos(rad)*w/2, math.Sin(rad)*h/2
		lb := gg.NewLinearGradientBrush(w/2-dx, h/2-dy, w/2+dx, h/2+dy)
		for _, s := range g.Stops {
			lb.AddColorStop(s.Offset, gg.Hex(s.Color))
		}
		brush = lb
	default:
		return nil, fmt.Errorf("%w: gradient %s has unknown type %q", ErrExport, g.ID, g.Type)
	}

	bounds := mask.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := mask.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			c := brush.ColorAt(float64(x)+0.5, float64(y)+0.5)
			out.SetNRGBA(x, y, color.NRGBA{
				R: channel(c.R),
				G: channel(c.G),
				B: channel(c.B),
				A: channel(c.A * float64(a) / 0xffff),
			})
		}
	}
	return out, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// composite draws src centered on the word position, rotated clockwise by the
// word's rotation in degrees.
func composite(dst *image.RGBA, src image.Image, pw layout.PlacedWord) {
	sb := src.Bounds()
	hw, hh := float64(sb.Dx())/2, float64(sb.Dy())/2
	rad := float64(pw.Rotation) * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	s2d := f64.Aff3{
		cos, -sin, pw.X - cos*hw + sin*hh,
		sin, cos, pw.Y - sin*hw - cos*hh,
	}
	xdraw.ApproxBiLinear.Transform(dst, s2d, src, sb, xdraw.Over, nil)
}
