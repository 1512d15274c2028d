package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
	"github.com/wgomg/wordcloud/internal/words"
)

func placed(text string, value int, fill string, x, y float64, rotation int) layout.PlacedWord {
	return layout.PlacedWord{
		FinalWord: mapper.FinalWord{
			WeightedWord: words.WeightedWord{Text: text, Value: value},
			Attributes:   mapper.Attributes{FontSize: 40, FontWeight: 700, Rotation: rotation, Fill: fill},
			FontFamily:   "Impact",
			FontStyle:    mapper.FontStyleNormal,
		},
		X: x, Y: y, Width: 80, Height: 40,
		Placed: true,
	}
}

func sampleResult() layout.Result {
	skipped := placed("Hidden", 1, "#d62728", 0, 0, 0)
	skipped.Placed = false
	return layout.Result{
		Words: []layout.PlacedWord{
			placed("Cloud", 5, "url(#gradient2)", 200, 100, 0),
			placed("Word", 3, "#1f77b4", 100, 60, 90),
			skipped,
		},
		Placed:  2,
		Skipped: 1,
	}
}

func testBounds() layout.Bounds {
	b := layout.DefaultBounds()
	b.Width, b.Height = 400, 200
	return b
}

func TestSVGDocument(t *testing.T) {
	var buf bytes.Buffer
	err := SVG(&buf, sampleResult(), testBounds(), mapper.DefaultPalette(), SVGOptions{Hover: NoHover()})
	require.NoError(t, err)

	doc := buf.String()
	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"`))
	assert.Contains(t, doc, `viewBox="0 0 400 200"`)
	assert.Contains(t, doc, `<linearGradient id="gradient2"`)
	assert.NotContains(t, doc, `id="gradient1"`, "only referenced gradients are defined")
	assert.Contains(t, doc, `translate(200,100) rotate(0)`)
	assert.Contains(t, doc, `translate(100,60) rotate(90)`)
	assert.Contains(t, doc, "font-size:40px")
	assert.Contains(t, doc, ">Cloud</text>")
	assert.NotContains(t, doc, "Hidden")
	assert.NotContains(t, doc, "wc-word")
	assert.NotContains(t, doc, "data-")
}

func TestSVGWithoutGradientsHasNoDefs(t *testing.T) {
	res := layout.Result{Words: []layout.PlacedWord{placed("Plain", 1, "#2ca02c", 50, 50, 0)}, Placed: 1}

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, res, testBounds(), mapper.DefaultPalette(), SVGOptions{Hover: NoHover()}))
	assert.NotContains(t, buf.String(), "<defs>")
}

func TestSVGEscapesText(t *testing.T) {
	w := placed("A&B<c>", 2, "#2ca02c", 50, 50, 0)
	w.Tooltip = &mapper.Tooltip{Text: "A&B<c>", Value: 2}
	res := layout.Result{Words: []layout.PlacedWord{w}, Placed: 1}

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, res, testBounds(), mapper.DefaultPalette(), SVGOptions{Hover: NoHover()}))
	assert.Contains(t, buf.String(), "<title>A&amp;B&lt;c&gt;: 2</title>A&amp;B&lt;c&gt;</text>")
}

func TestSVGUnknownGradient(t *testing.T) {
	res := layout.Result{Words: []layout.PlacedWord{placed("Odd", 1, "url(#nope)", 50, 50, 0)}, Placed: 1}

	err := SVG(&bytes.Buffer{}, res, testBounds(), mapper.DefaultPalette(), SVGOptions{})
	assert.ErrorIs(t, err, ErrExport)
}

func TestSVGInteractive(t *testing.T) {
	cfg := mapper.DefaultVisualConfig()
	res := sampleResult()
	res.Words[1].AnimationDelay = 10

	var buf bytes.Buffer
	opts := SVGOptions{Background: "#ffffff", Interactive: true, Style: StyleFromConfig(cfg), Hover: NoHover().Enter(1)}
	require.NoError(t, SVG(&buf, res, testBounds(), mapper.DefaultPalette(), opts))

	doc := buf.String()
	assert.Contains(t, doc, "@keyframes wc-enter")
	assert.Contains(t, doc, ".wc-word:hover { transform: scale(1.5); transition: transform 300ms ease; }")
	assert.Contains(t, doc, `<rect width="100%" height="100%" fill="#ffffff"/>`)
	assert.Contains(t, doc, "animation-delay:10ms")
	assert.Contains(t, doc, "transform:scale(1.5)")
	assert.Equal(t, 1, strings.Count(doc, "transform:scale(1.5);"), "only the hovered word is scaled inline")
}

func TestSVGKeepsStyleValuesInsideCSS(t *testing.T) {
	w := placed("Cat", 1, "#2ca02c", 50, 50, 0)
	w.FontFamily = `Impact;fill:red"><script>alert(1)</script>`
	res := layout.Result{Words: []layout.PlacedWord{w}, Placed: 1}

	style := StyleFromConfig(mapper.DefaultVisualConfig())
	style.Transition = "all .5s</style><script>alert(1)</script><style>"

	var buf bytes.Buffer
	opts := SVGOptions{Interactive: true, Style: style, Hover: NoHover()}
	require.NoError(t, SVG(&buf, res, testBounds(), mapper.DefaultPalette(), opts))

	doc := buf.String()
	assert.NotContains(t, doc, "<script>")
	assert.NotContains(t, doc, "</style><")
	assert.NotContains(t, doc, "fill:red")
	assert.Equal(t, 1, strings.Count(doc, "</style>"))
	assert.Contains(t, doc, "<style><![CDATA[\n")
	assert.Contains(t, doc, "]]></style>")
}

func TestPNGExport(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, sampleResult(), testBounds(), mapper.DefaultPalette(), PNGOptions{Background: "#ffffff"})
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 199).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "background corner")

	inked := 0
	for y := 80; y < 120; y++ {
		for x := 160; x < 240; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				inked++
			}
		}
	}
	assert.Positive(t, inked, "the centered word leaves ink")
}

func TestPNGRejectsEmptySurface(t *testing.T) {
	err := PNG(&bytes.Buffer{}, sampleResult(), layout.Bounds{}, mapper.DefaultPalette(), PNGOptions{})
	assert.ErrorIs(t, err, ErrExport)
}

func TestPNGRejectsOversizedSurface(t *testing.T) {
	b := layout.Bounds{Width: 200000, Height: 200000}
	err := PNG(&bytes.Buffer{}, sampleResult(), b, mapper.DefaultPalette(), PNGOptions{})
	assert.ErrorIs(t, err, ErrExport)
	assert.ErrorContains(t, err, "exceeds")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportWrapsWriteErrors(t *testing.T) {
	font, err := DefaultFontSource()
	require.NoError(t, err)
	e := NewExporter(mapper.DefaultPalette(), font, "")

	for _, f := range []Format{FormatSVG, FormatPNG} {
		err := e.Export(failingWriter{}, f, sampleResult(), testBounds(), StyleFromConfig(mapper.DefaultVisualConfig()))
		assert.ErrorIs(t, err, ErrExport, f)
	}

	err = e.Export(&bytes.Buffer{}, Format("gif"), sampleResult(), testBounds(), Style{})
	assert.ErrorIs(t, err, ErrExport)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	assert.Equal(t, "image/png", f.ContentType())
	assert.Equal(t, ".png", f.Extension())

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("jpeg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFontMeasurer(t *testing.T) {
	font, err := DefaultFontSource()
	require.NoError(t, err)
	m := NewFontMeasurer(font)

	w30, h30 := m.Measure("Cloud", 30, 400)
	w60, h60 := m.Measure("Cloud", 60, 400)
	assert.Positive(t, w30)
	assert.Greater(t, w60, w30)
	assert.Greater(t, h60, h30)

	heavy, _ := m.Measure("Cloud", 30, 900)
	assert.Greater(t, heavy, w30)
	assert.Same(t, m.Face(30), m.Face(30))
}

func TestFontMeasurerEvictsLeastRecentlyUsed(t *testing.T) {
	font, err := DefaultFontSource()
	require.NoError(t, err)
	m := NewFontMeasurer(font)
	m.limit = 4

	kept := m.Face(30)
	for size := 1; size <= 100; size++ {
		m.Face(size)
		m.Face(30)
		require.LessOrEqual(t, m.lru.Len(), 4)
		require.LessOrEqual(t, len(m.faces), 4)
	}
	assert.Same(t, kept, m.Face(30), "a size in steady use is never evicted")

	_, stillCached := m.faces[1]
	assert.False(t, stillCached)
	_, stillCached = m.faces[100]
	assert.True(t, stillCached)
}

func TestWeightFactor(t *testing.T) {
	assert.Equal(t, 1.0, weightFactor(100))
	assert.Equal(t, 1.0, weightFactor(400))
	assert.InDelta(t, 1.1, weightFactor(900), 1e-9)
	assert.InDelta(t, 1.1, weightFactor(2000), 1e-9)
}

func TestLoadFontSourceMissingFile(t *testing.T) {
	_, err := LoadFontSource("/does/not/exist.ttf")
	assert.Error(t, err)

	src, err := LoadFontSource("")
	require.NoError(t, err)
	assert.NotNil(t, src)
}
