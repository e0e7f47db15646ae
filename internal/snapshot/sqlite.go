// Package snapshot persists the whole user graph as a single snapshot.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// SQLiteConfig holds SQLite snapshot store settings.
type SQLiteConfig struct {
	// Path is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	Path string

	// JournalMode sets the SQLite journal mode (WAL recommended).
	JournalMode string

	// BusyTimeout sets the busy timeout in milliseconds.
	BusyTimeout int

	// SynchronousMode sets the synchronous mode (NORMAL, FULL, OFF).
	SynchronousMode string
}

// DefaultSQLiteConfig returns a default SQLite configuration.
func DefaultSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{
		Path:            path,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		SynchronousMode: "NORMAL",
	}
}

// schema is the full snapshot schema. The store treats the database as a
// snapshot container, not an incremental store: every save rewrites all
// rows inside one transaction.
const schema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	version     INTEGER NOT NULL,
	snapshot_id TEXT    NOT NULL,
	saved_at    TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS photos (
	username  TEXT NOT NULL,
	file_path TEXT NOT NULL,
	caption   TEXT NOT NULL,
	taken_at  TEXT NOT NULL,
	PRIMARY KEY (username, file_path)
);
CREATE TABLE IF NOT EXISTS photo_tags (
	username  TEXT    NOT NULL,
	file_path TEXT    NOT NULL,
	position  INTEGER NOT NULL,
	name      TEXT    NOT NULL,
	value     TEXT    NOT NULL,
	PRIMARY KEY (username, file_path, position)
);
CREATE TABLE IF NOT EXISTS albums (
	username TEXT NOT NULL,
	name     TEXT NOT NULL,
	PRIMARY KEY (username, name)
);
CREATE TABLE IF NOT EXISTS album_photos (
	username   TEXT    NOT NULL,
	album_name TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	file_path  TEXT    NOT NULL,
	PRIMARY KEY (username, album_name, position)
);
`

// SQLiteStore keeps the snapshot in an embedded SQLite database using
// modernc.org/sqlite, a pure Go implementation that doesn't require CGO.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
	path   string
}

// NewSQLiteStore opens (creating if necessary) the snapshot database.
func NewSQLiteStore(ctx context.Context, cfg SQLiteConfig, logger zerolog.Logger) (*SQLiteStore, error) {
	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf(
		"%s?_journal_mode=%s&_busy_timeout=%d&_synchronous=%s&_foreign_keys=ON",
		cfg.Path,
		cfg.JournalMode,
		cfg.BusyTimeout,
		cfg.SynchronousMode,
	)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Single writer; the catalog serializes access anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply snapshot schema: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Str("journal_mode", cfg.JournalMode).
		Msg("opened SQLite snapshot store")

	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("snapshot", "sqlite").Logger(),
		path:   cfg.Path,
	}, nil
}

// Load reads the complete graph from the database.
func (s *SQLiteStore) Load(ctx context.Context) ([]*domain.User, error) {
	var version int
	var snapshotID, savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT version, snapshot_id, saved_at FROM snapshot_meta`).
		Scan(&version, &snapshotID, &savedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, version)
	}

	records, err := s.readRecords(ctx)
	if err != nil {
		return nil, err
	}

	users, err := DecodeUsers(records)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("snapshot_id", snapshotID).
		Int("users", len(users)).
		Msg("snapshot loaded")

	return users, nil
}

// readRecords assembles persisted records from the row data.
func (s *SQLiteStore) readRecords(ctx context.Context) ([]UserRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, password FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	defer rows.Close()

	var records []UserRecord
	for rows.Next() {
		var rec UserRecord
		if err := rows.Scan(&rec.Username, &rec.Password); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	for i := range records {
		photos, err := s.readPhotos(ctx, records[i].Username)
		if err != nil {
			return nil, err
		}
		albums, err := s.readAlbums(ctx, records[i].Username)
		if err != nil {
			return nil, err
		}
		records[i].Photos = photos
		records[i].Albums = albums
	}

	return records, nil
}

func (s *SQLiteStore) readPhotos(ctx context.Context, username string) ([]PhotoRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_path, caption, taken_at
		FROM photos
		WHERE username = ?
		ORDER BY file_path`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read photos: %w", err)
	}
	defer rows.Close()

	var photos []PhotoRecord
	for rows.Next() {
		var rec PhotoRecord
		var takenAt string
		if err := rows.Scan(&rec.FilePath, &rec.Caption, &takenAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		rec.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt)
		if err != nil {
			return nil, fmt.Errorf("%w: bad photo timestamp %q", ErrSnapshotCorrupt, takenAt)
		}
		photos = append(photos, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read photos: %w", err)
	}

	for i := range photos {
		tags, err := s.readTags(ctx, username, photos[i].FilePath)
		if err != nil {
			return nil, err
		}
		photos[i].Tags = tags
	}

	return photos, nil
}

func (s *SQLiteStore) readTags(ctx context.Context, username, filePath string) ([]TagRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value
		FROM photo_tags
		WHERE username = ? AND file_path = ?
		ORDER BY position`,
		username, filePath,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	defer rows.Close()

	var tags []TagRecord
	for rows.Next() {
		var rec TagRecord
		if err := rows.Scan(&rec.Name, &rec.Value); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, rec)
	}
	return tags, rows.Err()
}

func (s *SQLiteStore) readAlbums(ctx context.Context, username string) ([]AlbumRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name
		FROM albums
		WHERE username = ?
		ORDER BY name`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read albums: %w", err)
	}
	defer rows.Close()

	var albums []AlbumRecord
	for rows.Next() {
		var rec AlbumRecord
		if err := rows.Scan(&rec.Name); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read albums: %w", err)
	}

	for i := range albums {
		paths, err := s.readAlbumPhotos(ctx, username, albums[i].Name)
		if err != nil {
			return nil, err
		}
		albums[i].PhotoPaths = paths
	}

	return albums, nil
}

func (s *SQLiteStore) readAlbumPhotos(ctx context.Context, username, albumName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_path
		FROM album_photos
		WHERE username = ? AND album_name = ?
		ORDER BY position`,
		username, albumName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read album photos: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan album photo: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Save rewrites every table with the given graph in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, users []*domain.User) error {
	records := EncodeUsers(users)
	snapshotID := uuid.New()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"snapshot_meta", "users", "photos", "photo_tags", "albums", "album_photos"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_meta (version, snapshot_id, saved_at) VALUES (?, ?, ?)`,
			Version, snapshotID.String(), time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to write snapshot header: %w", err)
		}

		for _, rec := range records {
			if err := s.insertUser(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) insertUser(ctx context.Context, tx *sql.Tx, rec UserRecord) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		rec.Username, rec.Password,
	); err != nil {
		return fmt.Errorf("failed to insert user %q: %w", rec.Username, err)
	}

	for _, photo := range rec.Photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO photos (username, file_path, caption, taken_at) VALUES (?, ?, ?, ?)`,
			rec.Username, photo.FilePath, photo.Caption, photo.TakenAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to insert photo %q: %w", photo.FilePath, err)
		}
		for i, tag := range photo.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO photo_tags (username, file_path, position, name, value) VALUES (?, ?, ?, ?, ?)`,
				rec.Username, photo.FilePath, i, tag.Name, tag.Value,
			); err != nil {
				return fmt.Errorf("failed to insert tag %q: %w", tag.Name, err)
			}
		}
	}

	for _, album := range rec.Albums {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO albums (username, name) VALUES (?, ?)`,
			rec.Username, album.Name,
		); err != nil {
			return fmt.Errorf("failed to insert album %q: %w", album.Name, err)
		}
		for i, path := range album.PhotoPaths {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO album_photos (username, album_name, position, file_path) VALUES (?, ?, ?, ?)`,
				rec.Username, album.Name, i, path,
			); err != nil {
				return fmt.Errorf("failed to insert album photo %q: %w", path, err)
			}
		}
	}

	return nil
}

// withTx executes fn within a transaction, rolling back on error.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.logger.Debug().Msg("closing SQLite snapshot store")
	return s.db.Close()
}
