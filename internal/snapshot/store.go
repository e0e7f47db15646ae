// Package snapshot persists the whole user graph as a single snapshot,
// fully rewritten on every save and fully read at startup. The persisted
// schema is a set of plain records, converted to and from the domain
// model at the load/save boundary so format changes stay out of the
// business logic.
package snapshot

import (
	"context"
	"errors"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// Version is the snapshot payload version. A snapshot carrying any other
// version is treated as corrupt and discarded on load.
const Version = 1

var (
	// ErrSnapshotNotFound indicates no snapshot exists yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotCorrupt indicates the snapshot payload could not be
	// decoded or has an unexpected shape. Loaders recover by starting
	// from an empty graph.
	ErrSnapshotCorrupt = errors.New("snapshot is corrupt")
)

// Store loads and saves the complete user graph.
type Store interface {
	// Load reads the snapshot and rebuilds the domain graph.
	// Returns ErrSnapshotNotFound when no snapshot exists and
	// ErrSnapshotCorrupt (possibly wrapped) for undecodable payloads.
	Load(ctx context.Context) ([]*domain.User, error)

	// Save rewrites the snapshot with the given graph in one operation.
	// A failed save leaves the previous snapshot untouched where the
	// backend allows it, and never mutates the in-memory graph.
	Save(ctx context.Context, users []*domain.User) error

	// Close releases backend resources.
	Close() error
}
