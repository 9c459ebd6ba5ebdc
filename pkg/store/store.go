// Package store defines the persistence boundary of the crawl engine.
//
// # Collections
//
// A [Store] exposes three collections: [Authors], [Keywords] and [Stages].
// Every write is a single-document operation; there are no transactions and
// no cross-document consistency guarantees. The engine relies on idempotent
// writes instead.
//
// # Implementations
//
//   - [github.com/matzehuels/harvester/pkg/store/mongo]: MongoDB, for production
//   - [github.com/matzehuels/harvester/pkg/store/memory]: in-process maps, for
//     tests and dry runs
//
// # Lookups
//
// Point lookups return (nil, nil) when the document does not exist; an error
// always means the store itself failed.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/harvester/pkg/model"
)

// ErrDuplicate is returned by inserts that violate a uniqueness constraint.
// Callers treat it as "someone else inserted it first".
var ErrDuplicate = errors.New("duplicate key")

// Authors is the author collection, keyed by email.
type Authors interface {
	// FindByEmail returns the author with exactly this email, or nil.
	FindByEmail(ctx context.Context, email string) (*model.Author, error)

	// Insert stores a new author document.
	Insert(ctx context.Context, a *model.Author) error

	// AppendPublication pushes p onto the publications of the author with email.
	AppendPublication(ctx context.Context, email string, p model.Publication) error

	// Count returns the number of stored authors.
	Count(ctx context.Context) (int64, error)
}

// Keywords is the shared keyword pool, keyed by value.
type Keywords interface {
	// Exists reports whether a keyword with exactly this value is stored.
	Exists(ctx context.Context, value string) (bool, error)

	// Insert stores a new keyword.
	Insert(ctx context.Context, k model.Keyword) error

	// Since returns up to limit keywords with timestamp >= ts, ordered by
	// timestamp ascending.
	Since(ctx context.Context, ts int64, limit int) ([]model.Keyword, error)

	// Count returns the size of the keyword pool.
	Count(ctx context.Context) (int64, error)
}

// Stages holds one checkpoint per worker.
type Stages interface {
	// Get returns the checkpoint of worker, or nil when none was recorded.
	Get(ctx context.Context, worker model.Source) (*model.Stage, error)

	// Save upserts the checkpoint of s.Worker.
	Save(ctx context.Context, s model.Stage) error

	// Delete removes the checkpoint of worker. Deleting a missing checkpoint
	// is not an error.
	Delete(ctx context.Context, worker model.Source) error

	// List returns every recorded checkpoint ordered by worker.
	List(ctx context.Context) ([]model.Stage, error)
}

// Store groups the three collections behind one connection.
type Store interface {
	Authors() Authors
	Keywords() Keywords
	Stages() Stages

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
