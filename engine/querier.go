package engine

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/excerpt"
	"github.com/learnloop/edsearch/highlight"
	"github.com/learnloop/edsearch/segment"
)

// DefaultSourceCap bounds the number of items one category contributes per
// request. It is a recall ceiling per category, not a pagination mechanism.
const DefaultSourceCap = 20

// Querier asks the content store for one category's matches and maps raw
// items into the uniform result shape.
type Querier struct {
	store    edsearch.ContentStore
	seg      segment.Segmenter
	finder   *highlight.Finder
	excerpts *excerpt.Builder
	spec     sourceSpec
	cap      int
}

// NewQuerier creates a querier for the given category.
func NewQuerier(store edsearch.ContentStore, seg segment.Segmenter, category edsearch.Category, cap int) (*Querier, error) {
	spec, err := specFor(category)
	if err != nil {
		return nil, err
	}
	if cap <= 0 {
		cap = DefaultSourceCap
	}
	return &Querier{
		store:    store,
		seg:      seg,
		finder:   highlight.NewFinder(seg),
		excerpts: excerpt.NewBuilder(seg),
		spec:     spec,
		cap:      cap,
	}, nil
}

// Category returns the content category this querier serves.
func (q *Querier) Category() edsearch.Category {
	return q.spec.category
}

// Query issues exactly one store query for text and maps every returned
// item into a Result. Store errors propagate to the caller.
func (q *Querier) Query(ctx context.Context, text string, difficulty []string) ([]Result, error) {
	filter, err := q.buildFilter(text, difficulty)
	if err != nil {
		return nil, err
	}

	opts := []edsearch.QueryOption{edsearch.WithLimit(q.cap)}
	if len(q.spec.relations) > 0 {
		opts = append(opts, edsearch.WithInclude(q.spec.relations...))
	}

	items, err := q.store.Query(ctx, q.spec.category, filter, opts...)
	if err != nil {
		return nil, errors.WithSecondaryError(
			edsearch.ErrStoreUnavailable,
			errors.Wrapf(err, "querying %s", q.spec.category),
		)
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		res, err := q.mapItem(item, text)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// buildFilter combines the published marker, the per-field text filters
// (OR across fields), and the optional difficulty membership test.
func (q *Querier) buildFilter(text string, difficulty []string) (edsearch.Expression, error) {
	fieldFilters := make([]edsearch.Expression, 0, len(q.spec.searchFields))
	for _, field := range q.spec.searchFields {
		f, err := FieldFilter(q.seg, text, field)
		if err != nil {
			return nil, errors.WithSecondaryError(
				edsearch.ErrSegmentation,
				errors.Wrapf(err, "segmenting query for %s", q.spec.category),
			)
		}
		fieldFilters = append(fieldFilters, f)
	}

	parts := []edsearch.Expression{
		edsearch.Eq("published", true),
		edsearch.Or(fieldFilters...),
	}
	if q.spec.difficultyField != "" && len(difficulty) > 0 {
		parts = append(parts, edsearch.InStrings(q.spec.difficultyField, difficulty))
	}
	return edsearch.And(parts...), nil
}

// mapItem turns a raw store item into a Result. Highlights are computed
// against the already-extracted title and excerpt strings, not the raw
// fields.
func (q *Querier) mapItem(item edsearch.Item, text string) (Result, error) {
	title := item.String(q.spec.titleField)

	body, err := q.excerpts.Build(item.String(q.spec.excerptField), text, excerpt.DefaultMaxLength)
	if err != nil {
		return Result{}, err
	}

	titleRanges, err := q.finder.Ranges(title, text)
	if err != nil {
		return Result{}, err
	}
	excerptRanges, err := q.finder.Ranges(body, text)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ID:       item.ID,
		Category: q.spec.category,
		Title:    title,
		Excerpt:  body,
		Highlights: Highlights{
			Title:   titleRanges,
			Excerpt: excerptRanges,
		},
		Meta: q.spec.meta(item),
		URL:  q.spec.url(item),
	}, nil
}
