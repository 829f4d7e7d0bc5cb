// Package segment wraps word segmentation behind a small interface so the
// engine can treat tokenization as an external capability. The default
// implementation uses gse, which yields word-like units for both alphabetic
// and CJK runs without pre-splitting by script.
package segment

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-ego/gse"

	"github.com/learnloop/edsearch"
)

// Segmenter turns raw query text into an ordered token sequence.
// Duplicates are preserved; blank input yields an empty sequence.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// Func is a function type that implements Segmenter.
type Func func(text string) ([]string, error)

// Segment implements the Segmenter interface for Func.
func (f Func) Segment(text string) ([]string, error) {
	return f(text)
}

// GSE is a Segmenter backed by the gse dictionary segmenter.
type GSE struct {
	seg gse.Segmenter
}

// New creates a GSE segmenter with the embedded default dictionary.
func New() (*GSE, error) {
	var g GSE
	if err := g.seg.LoadDict(); err != nil {
		return nil, errors.WithSecondaryError(
			edsearch.ErrSegmentation,
			errors.Wrap(err, "loading gse dictionary"),
		)
	}
	return &g, nil
}

// Segment implements the Segmenter interface.
func (g *GSE) Segment(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return Clean(g.seg.CutSearch(text, true)), nil
}

// Clean drops empty and whitespace-only tokens while preserving order.
func Clean(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Fields is a Segmenter that splits on whitespace only. It is the fallback
// for deployments that cannot carry the gse dictionary.
var Fields = Func(func(text string) ([]string, error) {
	return strings.Fields(text), nil
})
