package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordExtractor_Extract(t *testing.T) {
	extractor := NewKeywordExtractor()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty input yields empty slice",
			input:    "",
			expected: []string{},
		},
		{
			name:     "case variants de-duplicate to one candidate",
			input:    "news news NEWS",
			expected: []string{"news"},
		},
		{
			name:     "stop words are dropped",
			input:    "the election and the campaign",
			expected: []string{"election", "campaign"},
		},
		{
			name:     "markup is stripped before tokenizing",
			input:    "<p>breaking <strong>election</strong> coverage</p>",
			expected: []string{"breaking", "election", "coverage"},
		},
		{
			name:     "short tokens are filtered",
			input:    "eu ai tax policy",
			expected: []string{"tax", "policy"},
		},
		{
			name:     "punctuation-only tokens vanish",
			input:    "!!! --- ... economy ???",
			expected: []string{"economy"},
		},
		{
			name:     "accented characters survive cleaning",
			input:    "élection référendum municipal",
			expected: []string{"élection", "référendum", "municipal"},
		},
		{
			name:     "first-seen order is preserved",
			input:    "markets economy markets inflation economy",
			expected: []string{"markets", "economy", "inflation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.Extract(tt.input))
		})
	}
}

func TestKeywordExtractor_MinLengthAppliesAfterCleaning(t *testing.T) {
	extractor := NewKeywordExtractor()

	// "ab!cd" cleans to "ab cd": both fragments fall under the length floor.
	candidates := extractor.Extract("ab!cd economy")

	assert.Equal(t, []string{"economy"}, candidates)
	for _, c := range candidates {
		assert.GreaterOrEqual(t, len([]rune(c)), 3)
	}
}

func TestKeywordExtractor_CustomStopWords(t *testing.T) {
	extractor := NewKeywordExtractorWithStopWords([]string{"Breaking"}, 3)

	candidates := extractor.Extract("breaking BREAKING storm")

	assert.Equal(t, []string{"storm"}, candidates, "stop-word matching is case-insensitive")
}
