// Package textmatch provides the text normalisation and similarity
// primitives used by the candidate ranker and span locator. All functions
// are pure and total: they never fail, and normalisation is idempotent.
package textmatch

import (
	"strings"
	"unicode"
)

// minWordLength filters out stop-word-like tokens that add noise to
// similarity scores.
const minWordLength = 3

// Normalize lowercases the input, replaces every character that is not a
// word character or whitespace with a space, collapses whitespace runs to a
// single space, and trims the result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true // leading whitespace is dropped
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		default:
			// Punctuation and whitespace both collapse to one space.
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Words normalises the input and splits it into tokens, keeping only tokens
// of at least three characters.
func Words(s string) []string {
	fields := strings.Fields(Normalize(s))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minWordLength {
			words = append(words, f)
		}
	}
	return words
}

// WordSet returns the set of tokens produced by Words.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(s) {
		set[w] = struct{}{}
	}
	return set
}

// Sentences splits text into sentences. Newlines are treated as spaces and
// splits happen on whitespace that follows sentence-ending punctuation.
// Empty sentences are dropped.
func Sentences(s string) []string {
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)

	var sentences []string
	var b strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)

		if !isSentenceEnd(r) {
			continue
		}
		// Split only when the terminator is followed by whitespace.
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if sent := strings.TrimSpace(b.String()); sent != "" {
				sentences = append(sentences, sent)
			}
			b.Reset()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}

	if sent := strings.TrimSpace(b.String()); sent != "" {
		sentences = append(sentences, sent)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Jaccard computes |A∩B| / |A∪B| for two token sets. The union size is
// floored to 1, so two empty sets score 0 rather than dividing by zero.
func Jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union < 1 {
		union = 1
	}
	return float64(inter) / float64(union)
}
