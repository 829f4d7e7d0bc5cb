package engine

import (
	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/highlight"
)

// Highlights carries the matched character spans for a result's visible
// fields. Each range set is sorted and non-overlapping.
type Highlights struct {
	Title   []highlight.Range `json:"title"`
	Excerpt []highlight.Range `json:"excerpt"`
}

// Result is one matched content item, immutable once constructed.
type Result struct {
	ID         string                 `json:"id"`
	Category   edsearch.Category      `json:"category"`
	Title      string                 `json:"title"`
	Excerpt    string                 `json:"excerpt"`
	Highlights Highlights             `json:"highlights"`
	Meta       map[string]interface{} `json:"meta"`
	URL        string                 `json:"url"`
}

// Response is the aggregated answer to one search query. Results holds the
// requested page slice; Groups holds the full unpaginated per-category
// lists.
type Response struct {
	Results     []Result                       `json:"results"`
	Groups      map[edsearch.Category][]Result `json:"groups"`
	Suggestions []string                       `json:"suggestions"`
	Total       int                            `json:"total"`
	Page        int                            `json:"page"`
	PageSize    int                            `json:"pageSize"`
}

// Query is one inbound search request.
type Query struct {
	// Text is the free-text query.
	Text string

	// Categories limits the search; empty means all known categories.
	Categories []edsearch.Category

	// Difficulty filters lessons by difficulty-tag membership when
	// non-empty.
	Difficulty []string

	// Page is the 1-based result page.
	Page int

	// PageSize is the number of results per page.
	PageSize int
}
