// Package processor runs the word cloud pipeline: extract weighted words from
// committed text, rank and cap them, resolve their visual attributes and hand
// the ordered list to a placer.
package processor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wgomg/wordcloud/internal/layout"
	"github.com/wgomg/wordcloud/internal/mapper"
	"github.com/wgomg/wordcloud/internal/utils"
	"github.com/wgomg/wordcloud/internal/words"
)

var tracer = otel.Tracer("github.com/wgomg/wordcloud/internal/processor")

// Stats describes one extraction pass.
type Stats struct {
	InputWords int `json:"inputWords"`
	Tokens     int `json:"tokens"`
	Distinct   int `json:"distinct"`
	Kept       int `json:"kept"`
}

// Cloud is the attributed, ordered word list ready for placement.
type Cloud struct {
	Words  []mapper.FinalWord     `json:"words"`
	Range  mapper.OccurrenceRange `json:"range"`
	Config mapper.VisualConfig    `json:"config"`
	Stats  Stats                  `json:"stats"`
}

type Processor struct {
	extractor *words.Extractor
	palette   mapper.Palette
	logger    *utils.Logger
}

func New(extractor *words.Extractor, palette mapper.Palette, logger *utils.Logger) *Processor {
	if extractor == nil {
		extractor = words.NewExtractor()
	}
	if logger == nil {
		logger = utils.NewDiscardLogger()
	}
	return &Processor{
		extractor: extractor,
		palette:   palette,
		logger:    logger,
	}
}

func (p *Processor) Palette() mapper.Palette {
	return p.palette
}

// Generate validates cfg before touching text, so a bad config is reported
// even for empty input. Text that leaves no words fails with
// mapper.ErrEmptyWorkingSet.
func (p *Processor) Generate(ctx context.Context, text string, cfg mapper.VisualConfig, rng mapper.RandomSource) (*Cloud, error) {
	_, span := tracer.Start(ctx, "processor.Generate")
	defer span.End()

	if err := cfg.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid configuration")
		return nil, err
	}

	extracted := p.extractor.Extract(text)
	ranked := mapper.WorkingSet(extracted, cfg.MaxWords)

	stats := Stats{
		InputWords: utils.CountWords(text),
		Distinct:   len(extracted),
		Kept:       len(ranked),
	}
	for _, w := range extracted {
		stats.Tokens += w.Value
	}
	span.SetAttributes(
		attribute.Int("cloud.tokens", stats.Tokens),
		attribute.Int("cloud.distinct", stats.Distinct),
		attribute.Int("cloud.kept", stats.Kept),
	)

	m, err := mapper.New(ranked, cfg, p.palette, rng)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	cloud := &Cloud{
		Words:  m.FinalWords(),
		Range:  m.Range(),
		Config: cfg,
		Stats:  stats,
	}

	p.logger.Debug("generated cloud: %d tokens, %d distinct, %d kept, range %d..%d",
		stats.Tokens, stats.Distinct, stats.Kept, cloud.Range.Min, cloud.Range.Max)

	return cloud, nil
}

// Layout hands the finished list to placer. The cloud is not modified.
func (p *Processor) Layout(ctx context.Context, cloud *Cloud, placer layout.Placer, bounds layout.Bounds) (layout.Result, error) {
	ctx, span := tracer.Start(ctx, "processor.Layout")
	defer span.End()

	res, err := placer.Place(ctx, cloud.Words, bounds)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return layout.Result{}, fmt.Errorf("place words: %w", err)
	}

	span.SetAttributes(
		attribute.Int("layout.placed", res.Placed),
		attribute.Int("layout.skipped", res.Skipped),
	)
	if res.Skipped > 0 {
		p.logger.Info("layout skipped %d of %d words in %dx%d", res.Skipped, len(res.Words), bounds.Width, bounds.Height)
	}

	return res, nil
}
