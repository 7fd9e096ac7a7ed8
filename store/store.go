// Package store implements the persistent collection store: named
// collections of records with whole-collection read/replace semantics.
package store

import "context"

// Store reads and replaces entire named collections. There are no partial
// updates: every mutating operation upstream reads a full snapshot, changes
// it in memory and writes the full collection back, so concurrent writers to
// the same collection race last-writer-wins. That weak-consistency policy is
// deliberate (small, fully materialized collections in a single process);
// backends must not serialize callers with locking of their own beyond
// plain in-process memory safety.
type Store interface {
	// ReadAll decodes every record of the collection into out, which must be
	// a pointer to a slice. A collection that was never written reads as
	// empty, not as an error.
	ReadAll(ctx context.Context, collection string, out any) error
	// WriteAll replaces the collection with list in its entirety.
	WriteAll(ctx context.Context, collection string, list any) error
	Close(ctx context.Context) error
}

// ReadAll is the typed convenience form of Store.ReadAll.
func ReadAll[T any](ctx context.Context, s Store, collection string) ([]T, error) {
	var list []T
	if err := s.ReadAll(ctx, collection, &list); err != nil {
		return nil, err
	}
	return list, nil
}
