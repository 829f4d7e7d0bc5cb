package edsearch

import "context"

// ContentStore defines the narrow query contract the engine expects from a
// content backend. Each category maps to its own collection on the store
// side (an index, a table, a slice). The store must support equality,
// case-insensitive substring containment, membership-in-set, and AND/OR/NOT
// composition over named fields, plus inclusion of related sub-objects by
// name.
type ContentStore interface {
	// Query returns the items in category matching filter, bounded and
	// shaped by opts.
	Query(ctx context.Context, category Category, filter Expression, opts ...QueryOption) ([]Item, error)
}

// StoreFunc is a function type that implements ContentStore.
// This allows using a function as a store, similar to http.HandlerFunc.
type StoreFunc func(context.Context, Category, Expression, ...QueryOption) ([]Item, error)

// Query implements the ContentStore interface for StoreFunc.
func (f StoreFunc) Query(ctx context.Context, category Category, filter Expression, opts ...QueryOption) ([]Item, error) {
	return f(ctx, category, filter, opts...)
}
