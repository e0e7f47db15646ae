// Package snapshot persists the whole user graph as a single snapshot.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// document is the self-describing payload the file backend writes: a
// header identifying the snapshot plus the complete user graph.
type document struct {
	Version    int          `json:"version"`
	SnapshotID uuid.UUID    `json:"snapshot_id"`
	SavedAt    time.Time    `json:"saved_at"`
	Users      []UserRecord `json:"users"`
}

// FileStore keeps the snapshot as one JSON file at a fixed path,
// fully overwritten on every save.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed snapshot store. The file does not
// have to exist yet; the parent directory is created on first save.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("snapshot", "file").Logger(),
	}
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load(ctx context.Context) ([]*domain.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, doc.Version)
	}

	users, err := DecodeUsers(doc.Users)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("snapshot_id", doc.SnapshotID.String()).
		Time("saved_at", doc.SavedAt).
		Int("users", len(users)).
		Msg("snapshot loaded")

	return users, nil
}

// Save writes the full graph to a temporary file in the same directory
// and renames it over the snapshot, so a crash mid-write never leaves a
// truncated snapshot behind.
func (s *FileStore) Save(ctx context.Context, users []*domain.User) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
	}

	doc := document{
		Version:    Version,
		SnapshotID: uuid.New(),
		SavedAt:    time.Now().UTC(),
		Users:      EncodeUsers(users),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.dat")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot %s: %w", s.path, err)
	}

	s.logger.Debug().
		Str("snapshot_id", doc.SnapshotID.String()).
		Int("users", len(doc.Users)).
		Msg("snapshot saved")

	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
