package segment

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := map[string]struct {
		in       []string
		expected []string
	}{
		"nil": {
			in:       nil,
			expected: []string{},
		},
		"drops_blank_tokens": {
			in:       []string{"design", " ", "", "course"},
			expected: []string{"design", "course"},
		},
		"preserves_order_and_duplicates": {
			in:       []string{"go", "go", "course"},
			expected: []string{"go", "go", "course"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Clean(tc.in)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %d tokens, got %d (%v)", len(tc.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Token %d: expected %q, got %q", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestFieldsSegmenter(t *testing.T) {
	tokens, err := Fields.Segment("  design   course ")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "design" || tokens[1] != "course" {
		t.Errorf("Expected [design course], got %v", tokens)
	}
}

func TestGSEBlankInput(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Skipf("gse dictionary unavailable: %v", err)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		tokens, err := g.Segment(text)
		if err != nil {
			t.Fatalf("Segment(%q) failed: %v", text, err)
		}
		if len(tokens) != 0 {
			t.Errorf("Segment(%q): expected no tokens, got %v", text, tokens)
		}
	}
}

func TestGSEMixedScript(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Skipf("gse dictionary unavailable: %v", err)
	}

	tokens, err := g.Segment("Go 设计课程")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("Expected tokens for mixed-script input")
	}
	joined := strings.Join(tokens, "")
	if !strings.Contains(joined, "设计") && !strings.Contains(joined, "设") {
		t.Errorf("Expected CJK tokens in output, got %v", tokens)
	}
}
