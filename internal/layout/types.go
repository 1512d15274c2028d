// Package layout places attributed words inside a rectangle without overlap.
// The Placer interface is the boundary to the placement engine; SpiralPlacer
// is the in-process implementation.
package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/wgomg/wordcloud/internal/mapper"
)

type Spiral string

const (
	SpiralArchimedean Spiral = "archimedean"
	SpiralRectangular Spiral = "rectangular"
)

const (
	// DefaultMaxSide applies when Bounds.MaxSide is zero.
	DefaultMaxSide = 4096
	// MaxSideLimit is the largest MaxSide an operator may configure. A PNG
	// export allocates four bytes per pixel of the surface.
	MaxSideLimit = 16384
)

// Bounds describes the layout surface. TimeInterval caps the search for a
// single word; zero means no cap. A word whose search runs past it is
// reported unplaced. MaxSide caps Width and Height and is set by the
// operator, never by a request.
type Bounds struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Padding      int           `json:"padding"`
	Spiral       Spiral        `json:"spiral"`
	TimeInterval time.Duration `json:"timeInterval"`
	MaxSide      int           `json:"-"`
}

func DefaultBounds() Bounds {
	return Bounds{
		Width:        1800,
		Height:       1000,
		Padding:      1,
		Spiral:       SpiralArchimedean,
		TimeInterval: time.Second,
		MaxSide:      DefaultMaxSide,
	}
}

func (b Bounds) maxSide() int {
	if b.MaxSide == 0 {
		return DefaultMaxSide
	}
	return b.MaxSide
}

func (b Bounds) Validate() error {
	limit := b.maxSide()
	switch {
	case limit < 0 || limit > MaxSideLimit:
		return &mapper.ConfigError{Field: "maxSide", Reason: fmt.Sprintf("must be within [1, %d], got %d", MaxSideLimit, limit)}
	case b.Width <= 0:
		return &mapper.ConfigError{Field: "width", Reason: fmt.Sprintf("must be greater than 0, got %d", b.Width)}
	case b.Width > limit:
		return &mapper.ConfigError{Field: "width", Reason: fmt.Sprintf("must be at most %d, got %d", limit, b.Width)}
	case b.Height <= 0:
		return &mapper.ConfigError{Field: "height", Reason: fmt.Sprintf("must be greater than 0, got %d", b.Height)}
	case b.Height > limit:
		return &mapper.ConfigError{Field: "height", Reason: fmt.Sprintf("must be at most %d, got %d", limit, b.Height)}
	case b.Padding < 0:
		return &mapper.ConfigError{Field: "padding", Reason: fmt.Sprintf("must be at least 0, got %d", b.Padding)}
	case b.TimeInterval < 0:
		return &mapper.ConfigError{Field: "timeInterval", Reason: "must not be negative"}
	case b.Spiral != SpiralArchimedean && b.Spiral != SpiralRectangular:
		return &mapper.ConfigError{Field: "spiral", Reason: fmt.Sprintf("must be archimedean or rectangular, got %q", b.Spiral)}
	}
	return nil
}

// PlacedWord is a FinalWord with its center position. Words that could not be
// fitted have Placed == false and a zero position.
type PlacedWord struct {
	mapper.FinalWord
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Placed bool    `json:"placed"`
}

type Result struct {
	Words   []PlacedWord `json:"words"`
	Placed  int          `json:"placed"`
	Skipped int          `json:"skipped"`
}

// Measurer returns the unrotated extent of a word rendered at a font size and
// weight.
type Measurer interface {
	Measure(text string, fontSize, fontWeight int) (width, height float64)
}

type Placer interface {
	Place(ctx context.Context, words []mapper.FinalWord, bounds Bounds) (Result, error)
}
