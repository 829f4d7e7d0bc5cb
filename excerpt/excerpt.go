// Package excerpt produces bounded-length, match-centered plain-text
// summaries of longer content fields.
package excerpt

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/learnloop/edsearch/segment"
)

// DefaultMaxLength is the excerpt window size in characters when the caller
// passes a non-positive max length.
const DefaultMaxLength = 150

// ellipsis marks a truncated window edge.
const ellipsis = "..."

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Builder extracts excerpts using an injected segmenter.
type Builder struct {
	seg segment.Segmenter
}

// NewBuilder creates a Builder backed by the given segmenter.
func NewBuilder(seg segment.Segmenter) *Builder {
	return &Builder{seg: seg}
}

// Build strips markup from text and returns a window of at most maxLen
// characters centered on the earliest query token occurrence. Text that
// already fits is returned unchanged; truncated edges carry an ellipsis.
func (b *Builder) Build(text, query string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	cleaned := Clean(text)
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned, nil
	}

	match, err := b.earliestMatch(runes, query)
	if err != nil {
		return "", err
	}
	if match < 0 {
		return string(runes[:maxLen]) + ellipsis, nil
	}

	start := match - maxLen/2
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(runes) {
		end = len(runes)
	}

	out := string(runes[start:end])
	if start > 0 {
		out = ellipsis + out
	}
	if end < len(runes) {
		out += ellipsis
	}
	return out, nil
}

// earliestMatch returns the lowest character offset of any query token in
// text, or -1 when no token occurs.
func (b *Builder) earliestMatch(text []rune, query string) (int, error) {
	tokens, err := b.seg.Segment(query)
	if err != nil {
		return 0, err
	}

	lowered := make([]rune, len(text))
	for i, r := range text {
		lowered[i] = unicode.ToLower(r)
	}

	best := -1
	for _, tok := range tokens {
		if at := indexRunes(lowered, lowerRunes(tok)); at >= 0 && (best < 0 || at < best) {
			best = at
		}
	}
	return best, nil
}

func indexRunes(text, token []rune) int {
	if len(token) == 0 || len(token) > len(text) {
		return -1
	}
outer:
	for i := 0; i+len(token) <= len(text); i++ {
		for j, r := range token {
			if text[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// Clean replaces markup tags with a space, collapses whitespace runs to a
// single space, and trims the result.
func Clean(text string) string {
	stripped := tagPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(stripped), " ")
}
