package api

import (
	"time"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
	"github.com/wgomg/wordcloud/internal/processor"
)

// LayoutOptions is the wire form of layout.Bounds.
type LayoutOptions struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Padding      int           `json:"padding"`
	Spiral       layout.Spiral `json:"spiral"`
	TimeBudgetMs int           `json:"timeBudgetMs"`
}

func layoutOptionsFrom(b layout.Bounds) LayoutOptions {
	return LayoutOptions{
		Width:        b.Width,
		Height:       b.Height,
		Padding:      b.Padding,
		Spiral:       b.Spiral,
		TimeBudgetMs: int(b.TimeInterval / time.Millisecond),
	}
}

func (o LayoutOptions) Bounds() layout.Bounds {
	return layout.Bounds{
		Width:        o.Width,
		Height:       o.Height,
		Padding:      o.Padding,
		Spiral:       o.Spiral,
		TimeInterval: time.Duration(o.TimeBudgetMs) * time.Millisecond,
	}
}

// CloudOptions are decoded over the server defaults, so a client only sends
// the fields it wants to change.
type CloudOptions struct {
	Config *mapper.VisualConfig `json:"config,omitempty"`
	Layout *LayoutOptions       `json:"layout,omitempty"`
	Seed   *uint64              `json:"seed,omitempty"`
	Place  bool                 `json:"place"`
}

type CloudRequest struct {
	Text string `json:"text"`
	CloudOptions
}

type CloudResponse struct {
	Words    []mapper.FinalWord     `json:"words"`
	Range    mapper.OccurrenceRange `json:"range"`
	Stats    processor.Stats        `json:"stats"`
	Seed     uint64                 `json:"seed"`
	Layout   *layout.Result         `json:"layout,omitempty"`
	Revision int                    `json:"revision,omitempty"`
}

type DraftRequest struct {
	Text string `json:"text"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
