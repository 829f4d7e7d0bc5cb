package algolia

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/cockroachdb/errors"
	"github.com/learnloop/edsearch"
)

// Store implements the edsearch.ContentStore interface on Algolia. Each
// content category maps to its own index named "{prefix}_{category}".
type Store struct {
	client *Client
	prefix string
}

// NewStore creates a Store whose index names are derived from prefix.
func NewStore(client *Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// IndexName returns the Algolia index backing a category.
func (s *Store) IndexName(category edsearch.Category) string {
	return fmt.Sprintf("%s_%s", s.prefix, category)
}

// Query implements the edsearch.ContentStore interface. The filter
// expression is lowered to an Algolia full-text query plus filter string:
// substring predicates become query terms, everything else becomes facet
// filters.
func (s *Store) Query(ctx context.Context, category edsearch.Category, filter edsearch.Expression, opts ...edsearch.QueryOption) ([]edsearch.Item, error) {
	select {
	case <-ctx.Done():
		return nil, edsearch.ErrCanceled
	default:
	}

	cfg := &edsearch.QueryConfig{}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}

	lowered := lowerExpression(filter)
	if lowered.matchNone {
		// The empty disjunction matches nothing; skip the round trip.
		return []edsearch.Item{}, nil
	}

	params := buildQueryParams(cfg, lowered)
	query := strings.Join(lowered.queryTerms, " ")

	res, err := s.client.Search(ctx, s.IndexName(category), query, params...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, edsearch.ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, edsearch.ErrCanceled
		}
		return nil, errors.WithSecondaryError(
			edsearch.ErrStoreUnavailable,
			errors.Wrapf(err, "Algolia query failed for category %s", category),
		)
	}

	items := make([]edsearch.Item, 0, len(res.Hits))
	for _, hit := range res.Hits {
		objectID, ok := hit["objectID"].(string)
		if !ok {
			objectID = ""
		}

		items = append(items, edsearch.Item{
			ID:     objectID,
			Fields: hit,
		})
	}

	return items, nil
}

// loweredQuery is the Algolia-side shape of a filter expression.
type loweredQuery struct {
	// queryTerms are substring predicates hoisted into the full-text query.
	queryTerms []string
	// filters are Algolia filter-syntax fragments, combined with AND.
	filters []string
	// matchNone marks an expression that can match no item at all.
	matchNone bool
}

// lowerExpression converts a filter expression into Algolia query terms and
// filter strings.
func lowerExpression(expr edsearch.Expression) loweredQuery {
	if expr == nil {
		return loweredQuery{}
	}

	switch e := expr.(type) {
	case edsearch.AndExpr:
		return lowerAndExpression(e)
	case edsearch.OrExpr:
		return lowerOrExpression(e)
	case edsearch.NotExpr:
		return lowerNotExpression(e)
	case edsearch.EqExpr:
		return loweredQuery{filters: []string{convertEqExpression(e)}}
	case edsearch.InExpr:
		return lowerInExpression(e)
	case edsearch.ContainsExpr:
		return loweredQuery{queryTerms: []string{e.Value}}
	default:
		return loweredQuery{}
	}
}

func lowerAndExpression(expr edsearch.AndExpr) loweredQuery {
	var combined loweredQuery
	for _, sub := range expr.Exprs {
		lowered := lowerExpression(sub)
		if lowered.matchNone {
			return loweredQuery{matchNone: true}
		}
		combined.queryTerms = append(combined.queryTerms, lowered.queryTerms...)
		combined.filters = append(combined.filters, lowered.filters...)
	}
	return combined
}

func lowerOrExpression(expr edsearch.OrExpr) loweredQuery {
	if len(expr.Exprs) == 0 {
		return loweredQuery{matchNone: true}
	}

	// A disjunction of substring predicates maps onto Algolia's native
	// any-term matching, so those branches become query terms.
	var combined loweredQuery
	var filterBranches []string
	live := 0
	for _, sub := range expr.Exprs {
		if contains, ok := sub.(edsearch.ContainsExpr); ok {
			combined.queryTerms = append(combined.queryTerms, contains.Value)
			live++
			continue
		}

		lowered := lowerExpression(sub)
		if lowered.matchNone {
			continue
		}
		live++
		if len(lowered.filters) > 0 {
			filterBranches = append(filterBranches, "("+strings.Join(lowered.filters, " AND ")+")")
		}
	}
	if live == 0 {
		// Every branch was itself a no-match predicate.
		return loweredQuery{matchNone: true}
	}

	if len(filterBranches) > 0 {
		combined.filters = append(combined.filters, strings.Join(filterBranches, " OR "))
	}
	return combined
}

func lowerNotExpression(expr edsearch.NotExpr) loweredQuery {
	inner := lowerExpression(expr.Inner)
	if inner.matchNone {
		// Negating the empty disjunction matches everything.
		return loweredQuery{}
	}
	if len(inner.filters) == 0 {
		// Substring negation has no Algolia filter form; drop it rather
		// than exclude documents the query terms would match.
		return loweredQuery{}
	}
	return loweredQuery{
		filters: []string{"NOT (" + strings.Join(inner.filters, " AND ") + ")"},
	}
}

func lowerInExpression(expr edsearch.InExpr) loweredQuery {
	if len(expr.Values) == 0 {
		return loweredQuery{matchNone: true}
	}

	branches := make([]string, 0, len(expr.Values))
	for _, value := range expr.Values {
		branches = append(branches, fmt.Sprintf("%s:%s", escapeField(expr.Field), escapeValue(value)))
	}
	if len(branches) == 1 {
		return loweredQuery{filters: branches}
	}
	return loweredQuery{filters: []string{"(" + strings.Join(branches, " OR ") + ")"}}
}

func buildQueryParams(cfg *edsearch.QueryConfig, lowered loweredQuery) []interface{} {
	params := []interface{}{opt.HitsPerPage(cfg.Limit)}
	if len(lowered.filters) > 0 {
		params = append(params, opt.Filters(strings.Join(lowered.filters, " AND ")))
	}
	return params
}

func convertEqExpression(expr edsearch.EqExpr) string {
	return fmt.Sprintf("%s:%s", escapeField(expr.Field), escapeValue(expr.Value))
}

// escapeField quotes field names containing Algolia filter syntax characters.
func escapeField(field string) string {
	if strings.ContainsAny(field, " :-()") {
		return fmt.Sprintf(`"%s"`, field)
	}
	return field
}

// escapeValue renders a filter value in Algolia filter syntax.
func escapeValue(value interface{}) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case string:
		escaped := strings.ReplaceAll(v, `"`, `\"`)
		return fmt.Sprintf(`"%s"`, escaped)
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf(`"%v"`, value)
	}
}
