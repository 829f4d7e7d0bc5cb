// Package inmemory implements the content store contract over in-process
// per-category document collections. It is the reference store for tests
// and small deployments.
package inmemory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/learnloop/edsearch"
)

// Document represents a JSON document in the in-memory store.
type Document struct {
	// ID is the unique identifier for the document within its category.
	ID string
	// Fields contains the document's data as key-value pairs. Related
	// sub-objects stay embedded here, so include options are a no-op.
	Fields map[string]interface{}
}

// collection holds one category's documents in insertion order.
type collection struct {
	documents []Document
	idIndex   map[string]int // maps document ID to index in documents slice
}

// Store implements the edsearch.ContentStore interface over in-memory
// per-category collections.
type Store struct {
	mu          sync.RWMutex
	collections map[edsearch.Category]*collection
}

// New creates a new in-memory store.
// The store is ready to use and is safe for concurrent operations.
func New() *Store {
	return &Store{
		collections: make(map[edsearch.Category]*collection),
	}
}

func (s *Store) collectionFor(category edsearch.Category) *collection {
	col, ok := s.collections[category]
	if !ok {
		col = &collection{idIndex: make(map[string]int)}
		s.collections[category] = col
	}
	return col
}

// AddDocument adds a document to a category's collection.
// If a document with the same ID already exists there, it will be updated.
// This method is safe for concurrent use.
func (s *Store) AddDocument(category edsearch.Category, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collectionFor(category)
	if idx, exists := col.idIndex[doc.ID]; exists {
		col.documents[idx] = doc
	} else {
		col.idIndex[doc.ID] = len(col.documents)
		col.documents = append(col.documents, doc)
	}
}

// AddJSON adds a document by parsing the provided JSON data.
// This method is safe for concurrent use.
func (s *Store) AddJSON(category edsearch.Category, id string, jsonData []byte) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(jsonData, &fields); err != nil {
		return errors.Wrap(err, "failed to unmarshal JSON")
	}

	s.AddDocument(category, Document{
		ID:     id,
		Fields: fields,
	})
	return nil
}

// RemoveDocument removes a document by ID from a category's collection.
// Returns true if the document was found and removed.
// This method is safe for concurrent use.
func (s *Store) RemoveDocument(category edsearch.Category, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[category]
	if !ok {
		return false
	}
	idx, exists := col.idIndex[id]
	if !exists {
		return false
	}

	col.documents = append(col.documents[:idx], col.documents[idx+1:]...)

	delete(col.idIndex, id)
	for i := idx; i < len(col.documents); i++ {
		col.idIndex[col.documents[i].ID] = i
	}

	return true
}

// Clear removes all documents from every collection.
// This method is safe for concurrent use.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = make(map[edsearch.Category]*collection)
}

// Size returns the number of documents held for a category.
// This method is safe for concurrent use.
func (s *Store) Size(category edsearch.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[category]
	if !ok {
		return 0
	}
	return len(col.documents)
}

// Query implements the edsearch.ContentStore interface. Documents are
// matched against filter in insertion order and the result is bounded by
// the configured limit.
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
	if filter != nil {
		filter.Apply(cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[category]
	if !ok {
		return []edsearch.Item{}, nil
	}

	items := make([]edsearch.Item, 0, cfg.Limit)
	for _, doc := range col.documents {
		select {
		case <-ctx.Done():
			return nil, edsearch.ErrCanceled
		default:
		}

		if !matchesFilters(doc, cfg.Filters) {
			continue
		}

		items = append(items, edsearch.Item{
			ID:     doc.ID,
			Fields: doc.Fields,
		})
		if len(items) >= cfg.Limit {
			break
		}
	}

	return items, nil
}
