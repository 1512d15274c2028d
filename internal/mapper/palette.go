package mapper

import (
	"fmt"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// GradientStop places a color at Offset, a fraction in [0, 1].
type GradientStop struct {
	Offset float64 `json:"offset" yaml:"offset"`
	Color  string  `json:"color" yaml:"color"`
}

// Gradient is a multi-stop fill a word can reference by ID. Angle is in
// degrees and only used by linear gradients.
type Gradient struct {
	ID    string         `json:"id" yaml:"id"`
	Type  GradientType   `json:"type" yaml:"type"`
	Angle float64        `json:"angle,omitempty" yaml:"angle"`
	Stops []GradientStop `json:"stops" yaml:"stops"`
}

// Palette holds the gradients used in gradient mode and the flat colors
// cycled by index otherwise.
type Palette struct {
	Gradients []Gradient `json:"gradients" yaml:"gradients"`
	Colors    []string   `json:"colors" yaml:"colors"`
}

// Ref returns the fill reference for a gradient id.
func Ref(id string) string {
	return "url(#" + id + ")"
}

// Gradient looks a gradient up by id.
func (p Palette) Gradient(id string) (Gradient, bool) {
	for _, g := range p.Gradients {
		if g.ID == id {
			return g, true
		}
	}
	return Gradient{}, false
}

// GradientForFill resolves a fill produced in gradient mode back to its
// gradient. Flat colors return false.
func (p Palette) GradientForFill(fill string) (Gradient, bool) {
	const prefix, suffix = "url(#", ")"
	if len(fill) <= len(prefix)+len(suffix) || fill[:len(prefix)] != prefix || fill[len(fill)-1:] != suffix {
		return Gradient{}, false
	}
	return p.Gradient(fill[len(prefix) : len(fill)-1])
}

func (p Palette) Validate() error {
	if len(p.Colors) == 0 {
		return &ConfigError{Field: "palette.colors", Reason: "must not be empty"}
	}
	if len(p.Gradients) == 0 {
		return &ConfigError{Field: "palette.gradients", Reason: "must not be empty"}
	}

	seen := make(map[string]struct{}, len(p.Gradients))
	for i, g := range p.Gradients {
		field := fmt.Sprintf("palette.gradients[%d]", i)
		if g.ID == "" {
			return &ConfigError{Field: field + ".id", Reason: "is required"}
		}
		if _, dup := seen[g.ID]; dup {
			return &ConfigError{Field: field + ".id", Reason: fmt.Sprintf("duplicate id %q", g.ID)}
		}
		seen[g.ID] = struct{}{}

		if g.Type != GradientLinear && g.Type != GradientRadial {
			return &ConfigError{Field: field + ".type", Reason: fmt.Sprintf("must be linear or radial, got %q", g.Type)}
		}
		if len(g.Stops) == 0 {
			return &ConfigError{Field: field + ".stops", Reason: "must not be empty"}
		}
		for _, s := range g.Stops {
			if s.Offset < 0 || s.Offset > 1 {
				return &ConfigError{Field: field + ".stops", Reason: fmt.Sprintf("offset %v outside [0, 1]", s.Offset)}
			}
		}
	}
	return nil
}

// CategoryColors is the ten-color categorical cycle used for flat fills.
var CategoryColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func linear(id string, angle float64, stops ...GradientStop) Gradient {
	return Gradient{ID: id, Type: GradientLinear, Angle: angle, Stops: stops}
}

func radial(id string, stops ...GradientStop) Gradient {
	return Gradient{ID: id, Type: GradientRadial, Stops: stops}
}

func stop(offset float64, color string) GradientStop {
	return GradientStop{Offset: offset, Color: color}
}

func DefaultPalette() Palette {
	return Palette{
		Gradients: []Gradient{
			linear("gradient1", 45, stop(0, "#ff7e5f"), stop(1, "#feb47b")),
			linear("gradient2", 90, stop(0, "#43cea2"), stop(1, "#185a9d")),
			linear("gradient3", 135, stop(0, "#f7971e"), stop(0.5, "#ffd200"), stop(1, "#ff7e5f")),
			radial("gradient4", stop(0, "#6a11cb"), stop(1, "#2575fc")),
			linear("gradient5", 0, stop(0, "#ff4e50"), stop(1, "#f9d423")),
			radial("gradient6", stop(0, "#1a2980"), stop(1, "#26d0ce")),
			linear("gradient7", 60, stop(0, "#00c6ff"), stop(1, "#0072ff")),
			linear("gradient8", 120, stop(0, "#f953c6"), stop(1, "#b91d73")),
			radial("gradient9", stop(0, "#43e97b"), stop(1, "#38f9d7")),
			linear("gradient10", 30, stop(0, "#ee0979"), stop(0.5, "#ff6a00"), stop(1, "#f7971e")),
			linear("gradient11", 75, stop(0, "#2193b0"), stop(1, "#6dd5ed")),
			radial("gradient12", stop(0, "#cc2b5e"), stop(1, "#753a88")),
			linear("gradient13", 150, stop(0, "#42275a"), stop(1, "#734b6d")),
			radial("gradient14", stop(0, "#ff0844"), stop(1, "#ffb199")),
			linear("gradient15", 90, stop(0, "#00d2ff"), stop(1, "#3a7bd5")),
		},
		Colors: append([]string(nil), CategoryColors...),
	}
}
