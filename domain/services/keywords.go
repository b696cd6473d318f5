package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// markupPattern matches HTML/markup tags so cached article bodies can be
// mined without dragging formatting into the token stream.
var markupPattern = regexp.MustCompile(`<[^>]*>`)

// wordRanges defines which runes count as word characters. Latin letters
// plus the Latin-1 Supplement and Latin Extended blocks cover accented
// characters in the supported locales; digits survive cleaning but purely
// numeric tokens fall out at the stop-word/length filters.
var wordRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: '0', Hi: '9', Stride: 1},
		{Lo: 'A', Hi: 'Z', Stride: 1},
		{Lo: 'a', Hi: 'z', Stride: 1},
		{Lo: 0x00C0, Hi: 0x00FF, Stride: 1}, // Latin-1 Supplement letters
		{Lo: 0x0100, Hi: 0x017F, Stride: 1}, // Latin Extended-A
		{Lo: 0x0180, Hi: 0x024F, Stride: 1}, // Latin Extended-B
	},
}

// KeywordExtractor turns free text into an ordered set of candidate
// keywords using stop-word filtering and Unicode range matching.
type KeywordExtractor struct {
	stopWords      map[string]bool
	minTokenLength int
}

// NewKeywordExtractor creates an extractor with the default stop-word set
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{
		stopWords:      defaultStopWords(),
		minTokenLength: 3,
	}
}

// NewKeywordExtractorWithStopWords creates an extractor with a custom
// stop-word list; matching is case-insensitive.
func NewKeywordExtractorWithStopWords(stopWords []string, minTokenLength int) *KeywordExtractor {
	set := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		set[strings.ToLower(w)] = true
	}
	if minTokenLength < 1 {
		minTokenLength = 1
	}
	return &KeywordExtractor{stopWords: set, minTokenLength: minTokenLength}
}

// Extract produces the ordered, de-duplicated candidate keywords of a text.
// Markup is stripped, runes outside the word ranges become whitespace,
// tokens shorter than the minimum length or present in the stop-word set
// are dropped, and the remainder is lower-cased with first-seen order
// preserved. Empty input yields an empty (non-nil) slice.
func (e *KeywordExtractor) Extract(text string) []string {
	candidates := []string{}
	if text == "" {
		return candidates
	}

	cleaned := markupPattern.ReplaceAllString(text, " ")

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		if unicode.Is(wordRanges, r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]bool)
	for _, token := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(token) < e.minTokenLength {
			continue
		}
		lowered := strings.ToLower(token)
		if e.stopWords[lowered] || seen[lowered] {
			continue
		}
		seen[lowered] = true
		candidates = append(candidates, lowered)
	}

	return candidates
}

// defaultStopWords returns the common English stop words filtered out of
// candidate keywords.
func defaultStopWords() map[string]bool {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
		"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
		"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
		"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
		"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
		"is", "was", "are", "been", "has", "had", "were", "said", "did", "having",
		"may", "am", "should", "too", "very", "more", "such", "where", "why", "before",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
