package words

import (
	"strings"

	"github.com/go-text/typesetting/segmenter"
)

// irregular contractions whose stem does not survive suffix removal.
var irregular = map[string][]string{
	"can't":   {"can", "not"},
	"won't":   {"will", "not"},
	"shan't":  {"shall", "not"},
	"ain't":   {"is", "not"},
	"y'all":   {"you", "all"},
	"o'clock": {"oclock"},
}

var clitics = []string{"n't", "'s", "'re", "'ll", "'ve", "'d", "'m"}

// Segment splits text into word-level terms using Unicode word boundaries
// (UAX #29) and separates English contractions into their parts.
// Whitespace-only segments are dropped; punctuation segments are kept and
// left for normalization to discard.
func Segment(text string) []string {
	if text == "" {
		return nil
	}

	var seg segmenter.Segmenter
	seg.Init([]rune(text))

	var terms []string
	iter := seg.WordIterator()
	for iter.Next() {
		term := string(iter.Word().Text)
		if strings.TrimSpace(term) == "" {
			continue
		}
		terms = append(terms, splitContraction(term)...)
	}

	return terms
}

func splitContraction(term string) []string {
	if !strings.ContainsAny(term, "'’") {
		return []string{term}
	}

	plain := strings.ReplaceAll(term, "’", "'")
	lower := strings.ToLower(plain)

	if parts, ok := irregular[lower]; ok {
		return parts
	}

	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			stem := plain[:len(plain)-len(c)]
			if c == "n't" {
				return []string{stem, "not"}
			}
			return []string{stem}
		}
	}

	return []string{plain}
}
