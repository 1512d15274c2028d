package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitContraction(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"cat", []string{"cat"}},
		{"don't", []string{"do", "not"}},
		{"Don’t", []string{"Do", "not"}},
		{"can't", []string{"can", "not"}},
		{"Won't", []string{"will", "not"}},
		{"today's", []string{"today"}},
		{"we're", []string{"we"}},
		{"I'm", []string{"I"}},
		{"'s", []string{"'s"}},
		{"rock'n'roll", []string{"rock'n'roll"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitContraction(tt.in))
		})
	}
}

func TestSegmentEmpty(t *testing.T) {
	assert.Nil(t, Segment(""))
	assert.Empty(t, Segment("   \n\t "))
}

func TestSegmentDropsWhitespace(t *testing.T) {
	for _, term := range Segment("word  cloud\nrenders") {
		assert.NotContains(t, []string{" ", "  ", "\n"}, term)
	}
}
