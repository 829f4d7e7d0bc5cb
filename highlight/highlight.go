// Package highlight locates and merges occurrence spans of query tokens
// inside arbitrary text. Offsets are character (rune) offsets, not byte
// offsets, so they line up with how UIs index into the displayed string.
package highlight

import (
	"sort"
	"unicode"

	"github.com/learnloop/edsearch/segment"
)

// Range is a half-open character span into a text field.
// Invariant: 0 <= Start < End <= character length of the text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Finder computes highlight ranges using an injected segmenter.
type Finder struct {
	seg segment.Segmenter
}

// NewFinder creates a Finder backed by the given segmenter.
func NewFinder(seg segment.Segmenter) *Finder {
	return &Finder{seg: seg}
}

// Ranges returns the minimal sorted non-overlapping cover of every
// case-insensitive occurrence of every query token in text. It returns an
// empty slice when text or query is empty or nothing matches.
func (f *Finder) Ranges(text, query string) ([]Range, error) {
	if text == "" || query == "" {
		return []Range{}, nil
	}

	tokens, err := f.seg.Segment(query)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return []Range{}, nil
	}

	lowered := lowerRunes(text)
	var ranges []Range
	for _, tok := range tokens {
		ranges = append(ranges, occurrences(lowered, lowerRunes(tok))...)
	}

	return Merge(ranges), nil
}

// occurrences collects every non-overlapping left-to-right occurrence of
// token in text, advancing past each match so repeated substrings cannot
// loop forever.
func occurrences(text, token []rune) []Range {
	if len(token) == 0 || len(token) > len(text) {
		return nil
	}

	var out []Range
	for i := 0; i+len(token) <= len(text); {
		if !matchAt(text, token, i) {
			i++
			continue
		}
		out = append(out, Range{Start: i, End: i + len(token)})
		i += len(token)
	}
	return out
}

func matchAt(text, token []rune, at int) bool {
	for j, r := range token {
		if text[at+j] != r {
			return false
		}
	}
	return true
}

// Merge sorts ranges by start and collapses adjacent or overlapping spans
// into one, producing a cover suitable for rendering without
// double-highlighting.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := []Range{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// lowerRunes lowercases per rune so offsets stay 1:1 with the original text.
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
