package render

import (
	"fmt"
	"strconv"

	"github.com/wgomg/wordcloud/internal/mapper"
)

// Style holds the interaction settings of a cloud.
type Style struct {
	Transition    string
	ScaleSize     float64
	ScaleDuration int
	UseGradients  bool
}

func StyleFromConfig(cfg mapper.VisualConfig) Style {
	return Style{
		Transition:    cfg.Transition,
		ScaleSize:     cfg.ScaleSize,
		ScaleDuration: cfg.ScaleDuration,
		UseGradients:  cfg.UseGradients,
	}
}

// HoverState tracks which word the pointer is over. At most one word is
// hovered; a word that was just left keeps the fast scale transition until
// Settle is called.
type HoverState struct {
	hovered int
	leaving int
}

func NoHover() HoverState {
	return HoverState{hovered: -1, leaving: -1}
}

func (h HoverState) Enter(index int) HoverState {
	leaving := h.leaving
	if h.hovered >= 0 && h.hovered != index {
		leaving = h.hovered
	}
	if leaving == index {
		leaving = -1
	}
	return HoverState{hovered: index, leaving: leaving}
}

// Leave only has an effect on the hovered word.
func (h HoverState) Leave(index int) HoverState {
	if h.hovered != index {
		return h
	}
	return HoverState{hovered: -1, leaving: index}
}

// Settle restores the configured transition on a word that was left.
func (h HoverState) Settle() HoverState {
	return HoverState{hovered: h.hovered, leaving: -1}
}

func (h HoverState) Hovered() (int, bool) {
	return h.hovered, h.hovered >= 0
}

// WordStyle is the inline styling of one word for a hover state.
type WordStyle struct {
	Transform  string `json:"transform,omitempty"`
	Transition string `json:"transition,omitempty"`
	Filter     string `json:"filter,omitempty"`
}

func (s Style) WordStyle(h HoverState, index int, fill string) WordStyle {
	switch index {
	case h.hovered:
		return WordStyle{
			Transform:  "scale(" + strconv.FormatFloat(s.ScaleSize, 'f', -1, 64) + ")",
			Transition: s.scaleTransition(),
			Filter:     "drop-shadow(0 0 4px " + s.shadowColor(fill) + ")",
		}
	case h.leaving:
		return WordStyle{Transition: s.scaleTransition()}
	default:
		return WordStyle{Transition: s.Transition}
	}
}

func (s Style) scaleTransition() string {
	return fmt.Sprintf("transform %dms ease", s.ScaleDuration)
}

func (s Style) shadowColor(fill string) string {
	if s.UseGradients || len(fill) == 0 || fill[0] != '#' {
		return "rgba(0, 0, 0, 0.9)"
	}
	return fill + "E6"
}
