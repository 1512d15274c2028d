// Package words turns free-form text into weighted words: segmentation,
// normalization, stop-word filtering and occurrence counting.
package words

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Extractor holds a stop list. It is immutable after construction and safe
// for concurrent use; per-call state lives in a fresh normalizer.
type Extractor struct {
	stop map[string]struct{}
}

type Option func(*Extractor)

// WithStopwords adds entries to the default stop list.
func WithStopwords(extra ...string) Option {
	return func(e *Extractor) {
		n := newNormalizer()
		for _, w := range extra {
			if token := n.normalize(w); token != "" {
				e.stop[token] = struct{}{}
			}
		}
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{stop: make(map[string]struct{}, len(english))}

	n := newNormalizer()
	for _, w := range english {
		if token := n.normalize(w); token != "" {
			e.stop[token] = struct{}{}
		}
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor over text.
func Extract(text string) []WeightedWord {
	return defaultExtractor.Extract(text)
}

// IsStopword reports whether an already normalized token is filtered out.
func (e *Extractor) IsStopword(token string) bool {
	_, ok := e.stop[token]
	return ok
}

// Tokens returns the normalized tokens of text in reading order, with stop
// words and tokens of one character or less removed.
func (e *Extractor) Tokens(text string) []string {
	n := newNormalizer()

	var tokens []string
	for _, term := range Segment(text) {
		token := n.normalize(term)
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		if e.IsStopword(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Extract counts every surviving token and emits one WeightedWord per distinct
// token, in order of first occurrence.
func (e *Extractor) Extract(text string) []WeightedWord {
	tokens := e.Tokens(text)
	if len(tokens) == 0 {
		return []WeightedWord{}
	}

	index := make(map[string]int, len(tokens))
	out := make([]WeightedWord, 0, len(tokens))

	for _, token := range tokens {
		if i, ok := index[token]; ok {
			out[i].Value++
			continue
		}
		index[token] = len(out)
		out = append(out, WeightedWord{Text: Capitalize(token), Value: 1})
	}

	return out
}

// Capitalize upper-cases the first rune and leaves the rest unchanged.
func Capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// normalizer is not safe for concurrent use: x/text casers and transform
// chains carry state.
type normalizer struct {
	lower cases.Caser
	fold  transform.Transformer
}

func newNormalizer() *normalizer {
	return &normalizer{
		lower: cases.Lower(language.English),
		fold:  transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// normalize lower-cases term, folds accents onto their base letters and keeps
// only word characters [a-z0-9_].
func (n *normalizer) normalize(term string) string {
	lowered := n.lower.String(term)

	folded, _, err := transform.String(n.fold, lowered)
	if err != nil {
		folded = lowered
	}

	return strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, folded)
}

func isWordRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
