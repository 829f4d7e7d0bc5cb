package algolia

import (
	"context"
	"strings"
	"testing"

	"github.com/learnloop/edsearch"
)

func TestNewStore(t *testing.T) {
	client := NewClient(StaticSecrets("test-app", "test-key"))
	store := NewStore(client, "edsearch-dev")

	if store == nil {
		t.Fatal("NewStore returned nil")
	}

	if store.client != client {
		t.Error("Store client not set correctly")
	}

	if got := store.IndexName(edsearch.CategoryLessons); got != "edsearch-dev_lessons" {
		t.Errorf("Expected index name 'edsearch-dev_lessons', got '%s'", got)
	}
}

func TestLowerExpression(t *testing.T) {
	tests := map[string]struct {
		expr          edsearch.Expression
		wantTerms     []string
		wantFilter    string
		wantMatchNone bool
	}{
		"nil expression": {
			expr: nil,
		},
		"contains becomes query term": {
			expr:      edsearch.Contains("title", "设计"),
			wantTerms: []string{"设计"},
		},
		"equality becomes filter": {
			expr:       edsearch.Eq("published", true),
			wantFilter: "published:true",
		},
		"string equality is quoted": {
			expr:       edsearch.Eq("kind", "video"),
			wantFilter: `kind:"video"`,
		},
		"membership becomes or of equalities": {
			expr:       edsearch.InStrings("difficulty", []string{"beginner", "advanced"}),
			wantFilter: `(difficulty:"beginner" OR difficulty:"advanced")`,
		},
		"single membership has no parens": {
			expr:       edsearch.InStrings("difficulty", []string{"beginner"}),
			wantFilter: `difficulty:"beginner"`,
		},
		"empty membership matches nothing": {
			expr:          edsearch.In("difficulty"),
			wantMatchNone: true,
		},
		"empty disjunction matches nothing": {
			expr:          edsearch.Or(),
			wantMatchNone: true,
		},
		"disjunction of empty disjunctions matches nothing": {
			expr:          edsearch.Or(edsearch.Or(), edsearch.Or()),
			wantMatchNone: true,
		},
		"and of empty disjunction matches nothing": {
			expr: edsearch.And(
				edsearch.Eq("published", true),
				edsearch.Or(),
			),
			wantMatchNone: true,
		},
		"or of contains hoists all terms": {
			expr: edsearch.Or(
				edsearch.Contains("title", "设计"),
				edsearch.Contains("summary", "课程"),
			),
			wantTerms: []string{"设计", "课程"},
		},
		"typical query shape": {
			expr: edsearch.And(
				edsearch.Eq("published", true),
				edsearch.Or(
					edsearch.Contains("title", "design"),
					edsearch.Contains("summary", "design"),
				),
				edsearch.InStrings("difficulty", []string{"beginner"}),
			),
			wantTerms:  []string{"design", "design"},
			wantFilter: `published:true AND difficulty:"beginner"`,
		},
		"not wraps inner filter": {
			expr:       edsearch.Not(edsearch.Eq("kind", "video")),
			wantFilter: `NOT (kind:"video")`,
		},
		"not of empty disjunction matches everything": {
			expr: edsearch.Not(edsearch.Or()),
		},
		"not of contains is dropped": {
			expr: edsearch.Not(edsearch.Contains("title", "design")),
		},
		"or mixing contains and filters": {
			expr: edsearch.Or(
				edsearch.Contains("title", "loop"),
				edsearch.Eq("kind", "article"),
			),
			wantTerms:  []string{"loop"},
			wantFilter: `(kind:"article")`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			lowered := lowerExpression(tt.expr)

			if lowered.matchNone != tt.wantMatchNone {
				t.Fatalf("Expected matchNone=%v, got %v", tt.wantMatchNone, lowered.matchNone)
			}
			if tt.wantMatchNone {
				return
			}

			if len(lowered.queryTerms) != len(tt.wantTerms) {
				t.Fatalf("Expected terms %v, got %v", tt.wantTerms, lowered.queryTerms)
			}
			for i, term := range tt.wantTerms {
				if lowered.queryTerms[i] != term {
					t.Errorf("Expected term %d to be %q, got %q", i, term, lowered.queryTerms[i])
				}
			}

			gotFilter := strings.Join(lowered.filters, " AND ")
			if gotFilter != tt.wantFilter {
				t.Errorf("Expected filter %q, got %q", tt.wantFilter, gotFilter)
			}
		})
	}
}

func TestQueryEmptyDisjunctionSkipsAlgolia(t *testing.T) {
	// The client would fail on first use, so a round trip here means the
	// short circuit is broken.
	client := NewClient(func() (Secrets, error) {
		return Secrets{}, context.DeadlineExceeded
	})
	store := NewStore(client, "edsearch-test")

	items, err := store.Query(context.Background(), edsearch.CategoryLessons, edsearch.Or())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
}

func TestQueryCanceledContext(t *testing.T) {
	client := NewClient(StaticSecrets("test-app", "test-key"))
	store := NewStore(client, "edsearch-test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, edsearch.CategoryLessons, edsearch.Eq("published", true))
	if err != edsearch.ErrCanceled {
		t.Errorf("Expected ErrCanceled, got %v", err)
	}
}

func TestEscapeValue(t *testing.T) {
	tests := map[string]struct {
		value    interface{}
		expected string
	}{
		"nil":             {nil, "null"},
		"string":          {"beginner", `"beginner"`},
		"embedded quotes": {`say "hi"`, `"say \"hi\""`},
		"bool true":       {true, "true"},
		"bool false":      {false, "false"},
		"int":             {42, "42"},
		"float":           {3.5, "3.5"},
		"other type":      {struct{ X int }{1}, `"{1}"`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := escapeValue(tt.value); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEscapeField(t *testing.T) {
	if got := escapeField("difficulty"); got != "difficulty" {
		t.Errorf("Expected plain field to pass through, got %q", got)
	}
	if got := escapeField("loop title"); got != `"loop title"` {
		t.Errorf("Expected quoted field, got %q", got)
	}
}
