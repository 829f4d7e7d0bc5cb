// Package engine aggregates free-text search over heterogeneous educational
// content. One Engine owns a querier per content category, fans out to them
// concurrently per request, and memoizes complete responses in a TTL cache.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/learnloop/edsearch"
	"github.com/learnloop/edsearch/segment"
)

const (
	// minQueryLength is the relevance floor: shorter trimmed queries get
	// an empty response, not an error.
	minQueryLength = 2

	// DefaultPageSize applies when a query does not set one.
	DefaultPageSize = 20

	tracerName = "github.com/learnloop/edsearch/engine"
)

// Engine is the search aggregator. Construct it with New; the zero value is
// not usable.
type Engine struct {
	queriers map[edsearch.Category]*Querier
	cache    *Cache
	suggest  SuggestFunc
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCache replaces the response cache, e.g. to change the TTL.
func WithCache(cache *Cache) Option {
	return func(e *Engine) error {
		if cache == nil {
			return fmt.Errorf("engine: nil cache")
		}
		e.cache = cache
		return nil
	}
}

// WithSuggestions replaces the suggestion strategy.
func WithSuggestions(fn SuggestFunc) Option {
	return func(e *Engine) error {
		if fn == nil {
			return fmt.Errorf("engine: nil suggestion strategy")
		}
		e.suggest = fn
		return nil
	}
}

// WithSourceCap overrides the per-category result ceiling.
func WithSourceCap(cap int) Option {
	return func(e *Engine) error {
		if cap <= 0 {
			return fmt.Errorf("engine: source cap must be positive")
		}
		for _, q := range e.queriers {
			q.cap = cap
		}
		return nil
	}
}

// New creates an Engine over the given content store and segmenter, with
// one querier per known category.
func New(store edsearch.ContentStore, seg segment.Segmenter, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine: content store required")
	}
	if seg == nil {
		return nil, fmt.Errorf("engine: segmenter required")
	}

	e := &Engine{
		queriers: make(map[edsearch.Category]*Querier),
		cache:    NewCache(DefaultCacheTTL),
		suggest:  FirstTitles,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, category := range edsearch.Categories() {
		q, err := NewQuerier(store, seg, category, DefaultSourceCap)
		if err != nil {
			return nil, err
		}
		e.queriers[q.Category()] = q
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search answers one search query. Sub-threshold queries return an empty
// response immediately; cache hits return the shared cached response; on a
// miss the active categories are queried concurrently, merged in fixed
// category order, paginated and cached.
func (e *Engine) Search(ctx context.Context, query Query) (*Response, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Search",
		trace.WithAttributes(attribute.String("query.text", query.Text)))
	defer span.End()

	normalize(&query)

	if utf8.RuneCountInString(strings.TrimSpace(query.Text)) < minQueryLength {
		return emptyResponse(query), nil
	}

	key := cacheKey(query)
	if cached := e.cache.Get(key); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	started := time.Now()
	active := query.Categories
	if len(active) == 0 {
		active = edsearch.Categories()
	}

	groups, err := e.fanOut(ctx, active, query)
	if err != nil {
		return nil, err
	}

	var all []Result
	for _, category := range edsearch.Categories() {
		all = append(all, groups[category]...)
	}

	response := &Response{
		Results:     pageSlice(all, query.Page, query.PageSize),
		Groups:      groups,
		Suggestions: e.suggest(all),
		Total:       len(all),
		Page:        query.Page,
		PageSize:    query.PageSize,
	}

	e.cache.Set(key, response)
	e.logger.Debug("search completed",
		"query", query.Text,
		"categories", len(active),
		"total", response.Total,
		"took", time.Since(started))
	return response, nil
}

// ClearCache synchronously empties the response cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// fanOut queries every active category concurrently and waits for all of
// them. The first error cancels the remaining store calls and fails the
// request.
func (e *Engine) fanOut(ctx context.Context, active []edsearch.Category, query Query) (map[edsearch.Category][]Result, error) {
	type slot struct {
		category edsearch.Category
		results  []Result
	}

	g, ctx := errgroup.WithContext(ctx)
	slots := make([]slot, len(active))
	for i, category := range active {
		querier, ok := e.queriers[category]
		if !ok {
			// Unknown categories contribute nothing rather than failing
			// the request.
			slots[i].category = category
			continue
		}
		g.Go(func() error {
			results, err := querier.Query(ctx, query.Text, query.Difficulty)
			if err != nil {
				return err
			}
			slots[i] = slot{category: category, results: results}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	groups := make(map[edsearch.Category][]Result, len(active))
	for _, s := range slots {
		if s.category == "" {
			continue
		}
		if s.results == nil {
			s.results = []Result{}
		}
		groups[s.category] = s.results
	}
	return groups, nil
}

func normalize(query *Query) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = DefaultPageSize
	}
}

func emptyResponse(query Query) *Response {
	return &Response{
		Results:     []Result{},
		Groups:      map[edsearch.Category][]Result{},
		Suggestions: []string{},
		Total:       0,
		Page:        query.Page,
		PageSize:    query.PageSize,
	}
}

// cacheKey deterministically serializes a query. Set-valued fields are
// sorted so logically identical queries share one entry.
func cacheKey(query Query) string {
	categories := make([]string, len(query.Categories))
	for i, c := range query.Categories {
		categories[i] = string(c)
	}
	sort.Strings(categories)

	difficulty := append([]string(nil), query.Difficulty...)
	sort.Strings(difficulty)

	var b strings.Builder
	b.WriteString("text=")
	b.WriteString(query.Text)
	b.WriteString("|categories=")
	b.WriteString(strings.Join(categories, ","))
	b.WriteString("|difficulty=")
	b.WriteString(strings.Join(difficulty, ","))
	fmt.Fprintf(&b, "|page=%d|pageSize=%d", query.Page, query.PageSize)
	return b.String()
}

func pageSlice(all []Result, page, pageSize int) []Result {
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []Result{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
