// Package mapper translates word frequencies into the visual attributes a
// placement engine needs: font size, font weight, rotation and fill.
//
// A Mapper is built once per layout pass from a capped, sorted working set and
// a validated VisualConfig. Size and weight are pure functions of the word;
// rotation and gradient fills draw from the injected RandomSource.
package mapper

import (
	"errors"
	"math"

	"github.com/wgomg/wordcloud/internal/words"
)

// Attributes are the per-word values derived for one layout pass.
type Attributes struct {
	FontSize   int    `json:"fontSize"`
	FontWeight int    `json:"fontWeight"`
	Rotation   int    `json:"rotation"`
	Fill       string `json:"fill"`
}

// Tooltip carries what a hover tooltip shows and how it is styled.
type Tooltip struct {
	Text       string `json:"text"`
	Value      int    `json:"value"`
	Background string `json:"background"`
	FontFamily string `json:"fontFamily"`
	FontWeight int    `json:"fontWeight"`
}

// FinalWord is a working-set word with its resolved attributes, in the order
// it is handed to the placement engine.
type FinalWord struct {
	words.WeightedWord
	Attributes
	FontFamily     string    `json:"fontFamily"`
	FontStyle      FontStyle `json:"fontStyle"`
	AnimationDelay int       `json:"animationDelay"`
	Tooltip        *Tooltip  `json:"tooltip,omitempty"`
}

const gradientTooltipBackground = "rgba(0, 0, 0, 0.9)"

type Mapper struct {
	cfg     VisualConfig
	palette Palette
	rng     RandomSource
	words   []words.WeightedWord
	rangeOf OccurrenceRange
}

// New validates cfg and palette and fixes the occurrence range of ws, which
// must already be sorted and capped (see WorkingSet). An empty ws fails with
// ErrEmptyWorkingSet; a bad config with ErrInvalidConfiguration.
func New(ws []words.WeightedWord, cfg VisualConfig, palette Palette, rng RandomSource) (*Mapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, &ConfigError{Field: "random", Reason: "a random source is required"}
	}

	r, err := NewOccurrenceRange(ws)
	if err != nil {
		return nil, err
	}

	return &Mapper{
		cfg:     cfg,
		palette: palette,
		rng:     rng,
		words:   ws,
		rangeOf: r,
	}, nil
}

func (m *Mapper) Range() OccurrenceRange {
	return m.rangeOf
}

func (m *Mapper) Config() VisualConfig {
	return m.cfg
}

func (m *Mapper) ResolveFontSize(w words.WeightedWord) int {
	return interpolate(m.rangeOf.Fraction(w.Value), m.cfg.MinFontSize, m.cfg.MaxFontSize)
}

func (m *Mapper) ResolveFontWeight(w words.WeightedWord) int {
	return interpolate(m.rangeOf.Fraction(w.Value), m.cfg.MinFontWeight, m.cfg.MaxFontWeight)
}

// ResolveRotation is independent of the word. Continuous policy returns an
// integer in [MinRotation, MaxRotation]; discrete picks from RotationAngles.
func (m *Mapper) ResolveRotation() int {
	if m.cfg.RotationPolicy == RotationDiscrete {
		return m.cfg.RotationAngles[m.rng.IntN(len(m.cfg.RotationAngles))]
	}
	return m.cfg.MinRotation + m.rng.IntN(m.cfg.MaxRotation-m.cfg.MinRotation+1)
}

// ResolveFill returns a gradient reference drawn at random in gradient mode,
// otherwise the flat color at index in the palette cycle. Flat fills are
// stable per index.
func (m *Mapper) ResolveFill(_ words.WeightedWord, index int) string {
	if m.cfg.UseGradients {
		g := m.palette.Gradients[m.rng.IntN(len(m.palette.Gradients))]
		return Ref(g.ID)
	}

	n := len(m.palette.Colors)
	return m.palette.Colors[((index%n)+n)%n]
}

// ResolveTooltip returns nil when tooltips are disabled.
func (m *Mapper) ResolveTooltip(w words.WeightedWord, attrs Attributes) *Tooltip {
	if !m.cfg.EnableTooltip {
		return nil
	}

	background := gradientTooltipBackground
	if !m.cfg.UseGradients {
		background = attrs.Fill + "E6"
	}

	return &Tooltip{
		Text:       w.Text,
		Value:      w.Value,
		Background: background,
		FontFamily: m.cfg.FontFamily,
		FontWeight: attrs.FontWeight,
	}
}

// AnimationDelay is the entrance delay of the word at index, in milliseconds.
func (m *Mapper) AnimationDelay(index int) int {
	return index * m.cfg.AnimationDurationMultiplier
}

func (m *Mapper) Resolve(w words.WeightedWord, index int) Attributes {
	return Attributes{
		FontSize:   m.ResolveFontSize(w),
		FontWeight: m.ResolveFontWeight(w),
		Rotation:   m.ResolveRotation(),
		Fill:       m.ResolveFill(w, index),
	}
}

// FinalWords resolves every word of the working set in order.
func (m *Mapper) FinalWords() []FinalWord {
	out := make([]FinalWord, 0, len(m.words))
	for i, w := range m.words {
		attrs := m.Resolve(w, i)
		out = append(out, FinalWord{
			WeightedWord:   w,
			Attributes:     attrs,
			FontFamily:     m.cfg.FontFamily,
			FontStyle:      m.cfg.FontStyle,
			AnimationDelay: m.AnimationDelay(i),
			Tooltip:        m.ResolveTooltip(w, attrs),
		})
	}
	return out
}

// interpolate maps f in [0, 1] onto [lo, hi], rounding halves up.
func interpolate(f float64, lo, hi int) int {
	v := float64(lo) + f*float64(hi-lo)
	return int(math.Floor(v + 0.5))
}

// IsEmptyWorkingSet reports whether err means there was nothing to render.
func IsEmptyWorkingSet(err error) bool {
	return errors.Is(err, ErrEmptyWorkingSet)
}

// IsInvalidConfiguration reports whether err is a configuration error.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}
