package engine

import (
	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/segment"
)

// FieldFilter builds the match predicate for one text field. The query is
// segmented into tokens and an item matches when any token appears in the
// field, which keeps recall high for short segmentation units. A query that
// segments into zero tokens yields the empty disjunction, signaling that
// this field contributes nothing.
func FieldFilter(seg segment.Segmenter, query, field string) (edsearch.Expression, error) {
	tokens, err := seg.Segment(query)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		return edsearch.Or(), nil
	}
	if len(tokens) == 1 {
		return edsearch.Contains(field, tokens[0]), nil
	}

	exprs := make([]edsearch.Expression, len(tokens))
	for i, tok := range tokens {
		exprs[i] = edsearch.Contains(field, tok)
	}
	return edsearch.Or(exprs...), nil
}
