package inmemory

import (
	"testing"

	"github.com/learnloop/edsearch"
)

func TestExpressionEvaluation(t *testing.T) {
	lesson := Document{
		ID: "1",
		Fields: map[string]interface{}{
			"title":      "Interaction Design Basics",
			"code":       "ixd-101",
			"summary":    "A first course on interaction design for young makers",
			"difficulty": []interface{}{"beginner", "intermediate"},
			"published":  true,
			"loop": map[string]interface{}{
				"title": "Design Foundations",
			},
		},
	}

	card := Document{
		ID: "2",
		Fields: map[string]interface{}{
			"title":     "色彩理论",
			"content":   "这是一个设计课程的知识卡片",
			"tags":      []string{"color", "theory"},
			"published": false,
		},
	}

	tests := map[string]struct {
		doc      Document
		expr     edsearch.Expression
		expected bool
	}{
		"eq_string_match": {
			doc:      lesson,
			expr:     edsearch.Eq("code", "ixd-101"),
			expected: true,
		},
		"eq_string_no_match": {
			doc:      lesson,
			expr:     edsearch.Eq("code", "ixd-102"),
			expected: false,
		},
		"eq_bool_match": {
			doc:      lesson,
			expr:     edsearch.Eq("published", true),
			expected: true,
		},
		"eq_bool_no_match": {
			doc:      card,
			expr:     edsearch.Eq("published", true),
			expected: false,
		},
		"eq_missing_field": {
			doc:      card,
			expr:     edsearch.Eq("code", "ixd-101"),
			expected: false,
		},
		"eq_missing_field_nil": {
			doc:      card,
			expr:     edsearch.Eq("code", nil),
			expected: true,
		},

		"contains_case_insensitive": {
			doc:      lesson,
			expr:     edsearch.Contains("title", "design"),
			expected: true,
		},
		"contains_cjk": {
			doc:      card,
			expr:     edsearch.Contains("content", "设计"),
			expected: true,
		},
		"contains_no_match": {
			doc:      lesson,
			expr:     edsearch.Contains("title", "python"),
			expected: false,
		},
		"contains_missing_field": {
			doc:      lesson,
			expr:     edsearch.Contains("content", "design"),
			expected: false,
		},
		"contains_empty_value": {
			doc:      lesson,
			expr:     edsearch.Contains("title", ""),
			expected: false,
		},
		"contains_string_slice": {
			doc:      card,
			expr:     edsearch.Contains("tags", "col"),
			expected: true,
		},

		"in_scalar_field": {
			doc:      lesson,
			expr:     edsearch.In("code", "ixd-101", "ixd-102"),
			expected: true,
		},
		"in_multi_valued_field": {
			doc:      lesson,
			expr:     edsearch.InStrings("difficulty", []string{"beginner"}),
			expected: true,
		},
		"in_multi_valued_no_overlap": {
			doc:      lesson,
			expr:     edsearch.InStrings("difficulty", []string{"advanced"}),
			expected: false,
		},
		"in_empty_set": {
			doc:      lesson,
			expr:     edsearch.In("difficulty"),
			expected: false,
		},
		"in_string_slice_field": {
			doc:      card,
			expr:     edsearch.InStrings("tags", []string{"theory"}),
			expected: true,
		},

		"and_all_match": {
			doc: lesson,
			expr: edsearch.And(
				edsearch.Eq("published", true),
				edsearch.Contains("summary", "makers"),
			),
			expected: true,
		},
		"and_one_fails": {
			doc: lesson,
			expr: edsearch.And(
				edsearch.Eq("published", true),
				edsearch.Contains("summary", "missing"),
			),
			expected: false,
		},
		"or_one_matches": {
			doc: lesson,
			expr: edsearch.Or(
				edsearch.Contains("title", "python"),
				edsearch.Contains("summary", "interaction"),
			),
			expected: true,
		},
		"or_none_match": {
			doc: lesson,
			expr: edsearch.Or(
				edsearch.Contains("title", "python"),
				edsearch.Contains("summary", "python"),
			),
			expected: false,
		},
		"empty_or_matches_nothing": {
			doc:      lesson,
			expr:     edsearch.Or(),
			expected: false,
		},
		"not_inverts": {
			doc:      card,
			expr:     edsearch.Not(edsearch.Eq("published", true)),
			expected: true,
		},
		"nested_composition": {
			doc: lesson,
			expr: edsearch.And(
				edsearch.Eq("published", true),
				edsearch.Or(
					edsearch.Contains("title", "design"),
					edsearch.Contains("code", "design"),
				),
				edsearch.InStrings("difficulty", []string{"intermediate", "advanced"}),
			),
			expected: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := evaluateExpression(tc.doc, tc.expr); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
