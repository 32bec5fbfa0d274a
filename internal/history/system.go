package history

import "context"

// System defines the public contract for the classification history store.
type System interface {
	// List returns every stored record ordered by CreatedAt, newest first.
	// Each call re-reads durable storage.
	List(ctx context.Context) ([]Record, error)
	// Upsert inserts the record or replaces the stored record with the same id.
	Upsert(ctx context.Context, rec Record) error
	// Find returns the record with id. A missing record is reported by the
	// boolean, not as an error.
	Find(ctx context.Context, id string) (Record, bool, error)
	// Delete removes the record with id. Returns ErrNotFound if it is absent.
	Delete(ctx context.Context, id string) error
}
