package mapper

import (
	"cmp"
	"slices"

	"github.com/wgomg/wordcloud/internal/words"
)

// WorkingSet sorts a copy of ws by descending value and keeps the first
// maxWords. The sort is stable, so ties keep first-occurrence order and the
// cut at the boundary is deterministic.
func WorkingSet(ws []words.WeightedWord, maxWords int) []words.WeightedWord {
	sorted := slices.Clone(ws)
	slices.SortStableFunc(sorted, func(a, b words.WeightedWord) int {
		return cmp.Compare(b.Value, a.Value)
	})

	if maxWords >= 0 && len(sorted) > maxWords {
		sorted = sorted[:maxWords]
	}
	return sorted
}

// OccurrenceRange is the min and max value of a working set.
type OccurrenceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func NewOccurrenceRange(ws []words.WeightedWord) (OccurrenceRange, error) {
	if len(ws) == 0 {
		return OccurrenceRange{}, ErrEmptyWorkingSet
	}

	r := OccurrenceRange{Min: ws[0].Value, Max: ws[0].Value}
	for _, w := range ws[1:] {
		r.Min = min(r.Min, w.Value)
		r.Max = max(r.Max, w.Value)
	}
	return r, nil
}

// Degenerate reports min == max, where linear normalization is 0/0.
func (r OccurrenceRange) Degenerate() bool {
	return r.Min == r.Max
}

// Fraction maps value into [0, 1]. A degenerate range maps every value to the
// midpoint 0.5; values outside the range are clamped.
func (r OccurrenceRange) Fraction(value int) float64 {
	if r.Degenerate() {
		return 0.5
	}

	f := float64(value-r.Min) / float64(r.Max-r.Min)
	return min(max(f, 0), 1)
}
