package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type FontStyle string

const (
	FontStyleNormal  FontStyle = "normal"
	FontStyleItalic  FontStyle = "italic"
	FontStyleOblique FontStyle = "oblique"
)

type RotationPolicy string

const (
	// RotationContinuous draws an integer uniformly from [MinRotation, MaxRotation].
	RotationContinuous RotationPolicy = "continuous"
	// RotationDiscrete draws from RotationAngles; repeated entries weigh more.
	RotationDiscrete RotationPolicy = "discrete"
)

// DefaultRotationAngles keeps horizontal text twice as likely as either
// vertical orientation.
var DefaultRotationAngles = []int{0, 0, 90, 270}

// VisualConfig is the read-only input of the attribute mapper. Build one with
// DefaultVisualConfig and override fields; never share a mutated copy.
type VisualConfig struct {
	FontFamily     string         `json:"fontFamily" yaml:"fontFamily" validate:"required,fontfamily"`
	FontStyle      FontStyle      `json:"fontStyle" yaml:"fontStyle" validate:"oneof=normal italic oblique"`
	MinFontSize    int            `json:"minFontSize" yaml:"minFontSize" validate:"gt=0"`
	MaxFontSize    int            `json:"maxFontSize" yaml:"maxFontSize" validate:"gtefield=MinFontSize"`
	MinFontWeight  int            `json:"minFontWeight" yaml:"minFontWeight" validate:"gte=1,lte=1000"`
	MaxFontWeight  int            `json:"maxFontWeight" yaml:"maxFontWeight" validate:"gtefield=MinFontWeight,lte=1000"`
	MinRotation    int            `json:"minRotation" yaml:"minRotation" validate:"gte=-360,lte=360"`
	MaxRotation    int            `json:"maxRotation" yaml:"maxRotation" validate:"gtefield=MinRotation,gte=-360,lte=360"`
	RotationPolicy RotationPolicy `json:"rotationPolicy" yaml:"rotationPolicy" validate:"oneof=continuous discrete"`
	RotationAngles []int          `json:"rotationAngles,omitempty" yaml:"rotationAngles"`
	MaxWords       int            `json:"maxWords" yaml:"maxWords" validate:"gt=0"`
	UseGradients   bool           `json:"useGradients" yaml:"useGradients"`

	Transition                  string  `json:"transition" yaml:"transition" validate:"csstransition"`
	AnimationDurationMultiplier int     `json:"animationDurationMultiplier" yaml:"animationDurationMultiplier" validate:"gte=0"`
	EnableTooltip               bool    `json:"enableTooltip" yaml:"enableTooltip"`
	ScaleDuration               int     `json:"scaleDuration" yaml:"scaleDuration" validate:"gte=0"`
	ScaleSize                   float64 `json:"scaleSize" yaml:"scaleSize" validate:"gt=0"`
}

func DefaultVisualConfig() VisualConfig {
	return VisualConfig{
		FontFamily:                  "Impact",
		FontStyle:                   FontStyleNormal,
		MinFontSize:                 30,
		MaxFontSize:                 100,
		MinFontWeight:               400,
		MaxFontWeight:               900,
		MinRotation:                 -270,
		MaxRotation:                 270,
		RotationPolicy:              RotationContinuous,
		RotationAngles:              append([]int(nil), DefaultRotationAngles...),
		MaxWords:                    300,
		UseGradients:                false,
		Transition:                  "all .5s ease",
		AnimationDurationMultiplier: 10,
		EnableTooltip:               true,
		ScaleDuration:               300,
		ScaleSize:                   1.5,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// Both values end up inside CSS in exported SVG documents, so anything
	// that could close a declaration, a rule or the element is refused.
	fontFamilyPattern = regexp.MustCompile(`^[\p{L}\p{N} ,'"._-]+$`)
	transitionPattern = regexp.MustCompile(`^[A-Za-z0-9 .,()%+-]*$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("fontfamily", func(fl validator.FieldLevel) bool {
			return fontFamilyPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("csstransition", func(fl validator.FieldLevel) bool {
			return transitionPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate reports every violated bound as a ConfigError. Several violations
// are joined; errors.Is(err, ErrInvalidConfiguration) holds for all of them.
func (c VisualConfig) Validate() error {
	var errs []error

	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return &ConfigError{Field: "config", Reason: err.Error()}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ConfigError{Field: fe.Field(), Reason: reason(fe)})
		}
	}

	if c.RotationPolicy == RotationDiscrete && len(c.RotationAngles) == 0 {
		errs = append(errs, &ConfigError{
			Field:  "rotationAngles",
			Reason: "must not be empty for the discrete rotation policy",
		})
	}

	return errors.Join(errs...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s, got %v", lowerFirst(fe.Param()), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "fontfamily":
		return "may only hold font names, spaces, commas and quotes"
	case "csstransition":
		return "may only hold a CSS transition list such as \"all .5s ease\""
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
