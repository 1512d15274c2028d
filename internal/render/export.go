// Package render turns a placed cloud into SVG or PNG documents. SVG keeps
// every placed word as a text element with gradient definitions; PNG
// rasterizes the same layout with a real font.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/gg/text"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
)

var (
	ErrExport            = errors.New("export failed")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Exporter renders results with a shared font and palette.
type Exporter struct {
	palette    mapper.Palette
	font       *text.FontSource
	background string
}

func NewExporter(palette mapper.Palette, font *text.FontSource, background string) *Exporter {
	return &Exporter{palette: palette, font: font, background: background}
}

// Export writes res in the requested format. Every failure wraps ErrExport.
func (e *Exporter) Export(w io.Writer, format Format, res layout.Result, b layout.Bounds, style Style) error {
	switch format {
	case FormatSVG:
		return SVG(w, res, b, e.palette, SVGOptions{
			Background:  e.background,
			Interactive: true,
			Style:       style,
			Hover:       NoHover(),
		})
	case FormatPNG:
		return PNG(w, res, b, e.palette, PNGOptions{
			Background: e.background,
			Font:       e.font,
		})
	}
	return fmt.Errorf("%w: %w: %q", ErrExport, ErrUnsupportedFormat, format)
}
