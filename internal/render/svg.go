package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

type SVGOptions struct {
	// Background fills the whole surface when set.
	Background string
	// Interactive adds the hover and entrance animation stylesheet.
	Interactive bool
	Style       Style
	Hover       HoverState
}

// SVG writes a standalone document: namespaces declared, referenced
// gradients defined, one text element per placed word centered on its
// position. Unplaced words are left out.
func SVG(w io.Writer, res layout.Result, b layout.Bounds, palette mapper.Palette, opts SVGOptions) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="%s" xmlns:xlink="%s" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgNS, xlinkNS, b.Width, b.Height, b.Width, b.Height)
	buf.WriteByte('\n')

	if opts.Interactive {
		writeStylesheet(&buf, opts.Style)
	}
	if err := writeDefs(&buf, res, palette); err != nil {
		return err
	}
	if opts.Background != "" {
		fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(opts.Background))
	}

	buf.WriteString("<g>\n")
	for i, pw := range res.Words {
		if !pw.Placed {
			continue
		}
		writeWord(&buf, i, pw, opts)
	}
	buf.WriteString("</g>\n</svg>\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write svg: %w", ErrExport, err)
	}
	return nil
}

func writeStylesheet(buf *bytes.Buffer, s Style) {
	buf.WriteString("<style><![CDATA[\n")
	buf.WriteString("@keyframes wc-enter { from { opacity: 0; } to { opacity: 1; } }\n")
	fmt.Fprintf(buf, ".wc-word { cursor: default; animation: wc-enter 0.5s ease both; transition: %s; }\n", cssValue(s.Transition))
	fmt.Fprintf(buf, ".wc-word:hover { transform: scale(%s); transition: %s; }\n",
		strconv.FormatFloat(s.ScaleSize, 'f', -1, 64), s.scaleTransition())
	buf.WriteString("]]></style>\n")
}

func writeDefs(buf *bytes.Buffer, res layout.Result, palette mapper.Palette) error {
	seen := make(map[string]struct{})
	var used []mapper.Gradient
	for _, pw := range res.Words {
		if !pw.Placed || !strings.HasPrefix(pw.Fill, "url(#") {
			continue
		}
		g, ok := palette.GradientForFill(pw.Fill)
		if !ok {
			return fmt.Errorf("%w: unknown gradient fill %q", ErrExport, pw.Fill)
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		used = append(used, g)
	}
	if len(used) == 0 {
		return nil
	}

	buf.WriteString("<defs>\n")
	for _, g := range used {
		switch g.Type {
		case mapper.GradientRadial:
			fmt.Fprintf(buf, `<radialGradient id="%s" cx="50%%" cy="50%%" r="50%%">`+"\n", escape(g.ID))
			writeStops(buf, g.Stops)
			buf.WriteString("</radialGradient>\n")
		default:
			fmt.Fprintf(buf, `<linearGradient id="%s" x1="0%%" y1="0%%" x2="100%%" y2="0%%" gradientTransform="rotate(%s 0.5 0.5)">`+"\n",
				escape(g.ID), num(g.Angle))
			writeStops(buf, g.Stops)
			buf.WriteString("</linearGradient>\n")
		}
	}
	buf.WriteString("</defs>\n")
	return nil
}

func writeStops(buf *bytes.Buffer, stops []mapper.GradientStop) {
	for _, s := range stops {
		fmt.Fprintf(buf, `<stop offset="%s%%" stop-color="%s"/>`+"\n", num(s.Offset*100), escape(s.Color))
	}
}

func writeWord(buf *bytes.Buffer, index int, pw layout.PlacedWord, opts SVGOptions) {
	ws := opts.Style.WordStyle(opts.Hover, index, pw.Fill)

	var style strings.Builder
	fmt.Fprintf(&style, "font-family:%s;font-style:%s;font-weight:%d;font-size:%dpx;fill:%s",
		cssValue(pw.FontFamily), cssValue(string(pw.FontStyle)), pw.FontWeight, pw.FontSize, cssValue(pw.Fill))
	if ws.Transform != "" {
		style.WriteString(";transform:" + cssValue(ws.Transform))
	}
	if ws.Filter != "" {
		style.WriteString(";filter:" + cssValue(ws.Filter))
	}
	if opts.Interactive {
		style.WriteString(";transition:" + cssValue(ws.Transition))
		fmt.Fprintf(&style, ";animation-delay:%dms", pw.AnimationDelay)
	}

	fmt.Fprintf(buf, `<g transform="translate(%s,%s) rotate(%d)">`, num(pw.X), num(pw.Y), pw.Rotation)
	class := ""
	if opts.Interactive {
		class = ` class="wc-word"`
	}
	fmt.Fprintf(buf, `<text%s text-anchor="middle" dominant-baseline="central" style="%s">`, class, escape(style.String()))
	if pw.Tooltip != nil {
		fmt.Fprintf(buf, "<title>%s: %d</title>", escape(pw.Tooltip.Text), pw.Tooltip.Value)
	}
	buf.WriteString(escape(pw.Text))
	buf.WriteString("</text></g>\n")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// cssValue drops what could end a CSS value, rule or the enclosing markup.
// Configs are validated before they get here; this covers callers that build
// a Style or a Result by hand.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>{};:\`, r) {
			return -1
		}
		return r
	}, s)
}

// num formats v with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
