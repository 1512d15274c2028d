package render

import (
	"container/list"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSource parses the bundled Go Regular face.
func DefaultFontSource() (*text.FontSource, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	return src, nil
}

// LoadFontSource reads a TrueType or OpenType file. An empty path falls back
// to the bundled face.
func LoadFontSource(path string) (*text.FontSource, error) {
	if path == "" {
		return DefaultFontSource()
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return src, nil
}

// maxCachedFaces bounds the per-size face cache. Font sizes come from request
// configs, so a long-running service would otherwise keep one face for every
// size it has ever seen.
const maxCachedFaces = 128

// FontMeasurer measures words with a real font so the placement engine packs
// the same boxes the rasterizer draws. Faces are cached per pixel size; the
// least recently used one is dropped once the cache is full.
type FontMeasurer struct {
	source *text.FontSource
	limit  int

	mu    sync.Mutex
	faces map[int]*list.Element
	lru   *list.List
}

type cachedFace struct {
	size int
	face text.Face
}

func NewFontMeasurer(source *text.FontSource) *FontMeasurer {
	return &FontMeasurer{
		source: source,
		limit:  maxCachedFaces,
		faces:  make(map[int]*list.Element),
		lru:    list.New(),
	}
}

func (m *FontMeasurer) Face(fontSize int) text.Face {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.faces[fontSize]; ok {
		m.lru.MoveToFront(el)
		return el.Value.(*cachedFace).face
	}

	face := m.source.Face(float64(fontSize))
	m.faces[fontSize] = m.lru.PushFront(&cachedFace{size: fontSize, face: face})
	for m.lru.Len() > m.limit {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.faces, oldest.Value.(*cachedFace).size)
	}
	return face
}

// Measure returns the advance width and line height of s. The font has a
// single weight, so heavier weights widen the advance by up to a tenth.
func (m *FontMeasurer) Measure(s string, fontSize, fontWeight int) (float64, float64) {
	w, h := text.Measure(s, m.Face(fontSize))
	return math.Ceil(w * weightFactor(fontWeight)), math.Ceil(h)
}

func weightFactor(weight int) float64 {
	extra := float64(weight-400) / 500
	return 1 + 0.1*math.Max(0, math.Min(1, extra))
}
