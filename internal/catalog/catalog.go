// Package catalog owns the in-memory user graph and its persistence.
// A Catalog is the process-wide repository: it loads the snapshot (or
// starts fresh), seeds the reserved stock account, and serves all
// user-level operations behind one coarse lock. There is deliberately no
// package-level singleton; callers construct a Catalog once at startup
// and pass it around, which also keeps tests isolated.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prn-tf/beatrix-photos/internal/config"
	"github.com/prn-tf/beatrix-photos/internal/domain"
	"github.com/prn-tf/beatrix-photos/internal/snapshot"
)

// Catalog is the repository of users. Public methods are individually
// thread-safe; there are no multi-step transactions, so "mutate then
// Save" is two separate locked calls by design of the persistence model.
type Catalog struct {
	mu     sync.Mutex
	users  map[string]*domain.User // key: lowercased username
	store  snapshot.Store
	seed   config.SeedConfig
	logger zerolog.Logger
}

// Open loads the snapshot and seeds the stock account.
//
// A missing, corrupt or version-incompatible snapshot is not an error:
// the catalog logs the condition and starts from an empty graph, per the
// accepted data-loss-on-corruption trade-off. Seeding then runs
// unconditionally and saves after every structural change, so a failure
// mid-seed still leaves partial progress on disk.
func Open(ctx context.Context, seedCfg config.SeedConfig, store snapshot.Store, logger zerolog.Logger) (*Catalog, error) {
	c := &Catalog{
		users:  make(map[string]*domain.User),
		store:  store,
		seed:   seedCfg,
		logger: logger.With().Str("component", "catalog").Logger(),
	}

	users, err := store.Load(ctx)
	switch {
	case err == nil:
		for _, u := range users {
			c.users[strings.ToLower(u.Username)] = u
		}
		c.logger.Info().Int("users", len(users)).Msg("snapshot loaded")
	case errors.Is(err, snapshot.ErrSnapshotNotFound):
		c.logger.Info().Msg("no snapshot found, starting with an empty catalog")
	default:
		c.logger.Warn().Err(err).Msg("snapshot unreadable, starting with an empty catalog")
	}

	c.mu.Lock()
	c.seedStock(ctx)
	c.mu.Unlock()

	return c, nil
}

// GetUser returns the user for a username, matched case-insensitively,
// or nil when no such user exists.
func (c *Catalog) GetUser(username string) *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.users[strings.ToLower(username)]
}

// AddUser registers a user. Returns false when a user with the same
// username, compared case-insensitively, already exists.
func (c *Catalog) AddUser(user *domain.User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, exists := c.users[key]; exists {
		return false
	}
	c.users[key] = user

	c.logger.Info().Str("username", user.Username).Msg("user added")
	return true
}

// DeleteUser removes a user by username (case-insensitive) and reports
// whether one was present. The catalog itself does not shield the stock
// account from deletion; that policy belongs to the presentation layer.
func (c *Catalog) DeleteUser(username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := c.users[key]; !exists {
		return false
	}
	delete(c.users, key)

	c.logger.Info().Str("username", username).Msg("user deleted")
	return true
}

// Users returns all users sorted by their lowercased username.
func (c *Catalog) Users() []*domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usersLocked()
}

// Save rewrites the snapshot with the current graph. The error is
// surfaced to the caller, who decides whether to retry, warn or carry on
// with an unsaved session; the in-memory graph is never affected by a
// failed save.
func (c *Catalog) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(ctx)
}

// Close performs the final save and releases the snapshot store.
func (c *Catalog) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	saveErr := c.saveLocked(ctx)
	if saveErr != nil {
		c.logger.Error().Err(saveErr).Msg("final save failed")
	}
	return errors.Join(saveErr, c.store.Close())
}

// usersLocked snapshots the user set in deterministic order.
// Caller must hold the lock.
func (c *Catalog) usersLocked() []*domain.User {
	keys := make([]string, 0, len(c.users))
	for key := range c.users {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	users := make([]*domain.User, 0, len(keys))
	for _, key := range keys {
		users = append(users, c.users[key])
	}
	return users
}

// saveLocked writes the snapshot. Caller must hold the lock.
func (c *Catalog) saveLocked(ctx context.Context) error {
	return c.store.Save(ctx, c.usersLocked())
}
