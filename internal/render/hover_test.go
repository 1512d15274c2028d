package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wgomg/wordcloud/internal/mapper"
)

func TestHoverTransitions(t *testing.T) {
	h := NoHover()
	_, ok := h.Hovered()
	assert.False(t, ok)

	h = h.Enter(2)
	i, ok := h.Hovered()
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	// Leaving a word that is not hovered changes nothing.
	assert.Equal(t, h, h.Leave(5))

	h = h.Enter(3)
	i, _ = h.Hovered()
	assert.Equal(t, 3, i, "at most one word is hovered")
	assert.Equal(t, 2, h.leaving)

	h = h.Leave(3)
	_, ok = h.Hovered()
	assert.False(t, ok)
	assert.Equal(t, 3, h.leaving)

	h = h.Settle()
	assert.Equal(t, NoHover(), h)
}

func TestWordStyle(t *testing.T) {
	s := StyleFromConfig(mapper.DefaultVisualConfig())
	h := NoHover().Enter(0)

	hovered := s.WordStyle(h, 0, "#1f77b4")
	assert.Equal(t, "scale(1.5)", hovered.Transform)
	assert.Equal(t, "transform 300ms ease", hovered.Transition)
	assert.Equal(t, "drop-shadow(0 0 4px #1f77b4E6)", hovered.Filter)

	idle := s.WordStyle(h, 1, "#ff7f0e")
	assert.Equal(t, WordStyle{Transition: "all .5s ease"}, idle)

	left := s.WordStyle(h.Leave(0), 0, "#1f77b4")
	assert.Equal(t, WordStyle{Transition: "transform 300ms ease"}, left)
	assert.Equal(t, idle, s.WordStyle(h.Leave(0).Settle(), 0, "#1f77b4"))
}

func TestWordStyleGradientShadow(t *testing.T) {
	cfg := mapper.DefaultVisualConfig()
	cfg.UseGradients = true
	s := StyleFromConfig(cfg)

	ws := s.WordStyle(NoHover().Enter(0), 0, "url(#gradient1)")
	assert.Equal(t, "drop-shadow(0 0 4px rgba(0, 0, 0, 0.9))", ws.Filter)
}
