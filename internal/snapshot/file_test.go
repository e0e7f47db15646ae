package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// newTestGraph builds a small populated graph: alice with a shared photo
// across two albums, and bob with an empty album.
func newTestGraph(t *testing.T) []*domain.User {
	t.Helper()

	alice := domain.NewUser("Alice", "secret")
	alice.CreateAlbum("trip")
	alice.CreateAlbum("best-of")
	taken := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	alice.AddPhotoToAlbum("trip", "/a.jpg", taken)
	alice.AddPhotoToAlbum("trip", "/b.jpg", taken.AddDate(0, 1, 0))
	alice.AddPhotoToAlbum("best-of", "/a.jpg", taken)
	alice.Photo("/a.jpg").SetCaption("paris in spring")
	alice.Photo("/a.jpg").AddTag(domain.NewTag("location", "Paris"))
	alice.Photo("/a.jpg").AddTag(domain.NewTag("person", "Bob"))

	bob := domain.NewUser("bob", "")
	bob.CreateAlbum("empty")

	return []*domain.User{alice, bob}
}

// requireGraphEqual asserts that a reloaded graph matches the original on
// usernames, album names, photo paths, captions, timestamps and tag sets.
func requireGraphEqual(t *testing.T, want, got []*domain.User) {
	t.Helper()
	require.Len(t, got, len(want))

	byName := make(map[string]*domain.User, len(got))
	for _, u := range got {
		byName[u.Username] = u
	}

	for _, wantUser := range want {
		gotUser, ok := byName[wantUser.Username]
		require.True(t, ok, "user %q missing after reload", wantUser.Username)
		require.Equal(t, wantUser.Password, gotUser.Password)
		require.Equal(t, wantUser.AlbumNames(), gotUser.AlbumNames())

		for _, name := range wantUser.AlbumNames() {
			wantAlbum, gotAlbum := wantUser.Album(name), gotUser.Album(name)
			require.Equal(t, wantAlbum.Size(), gotAlbum.Size(), "album %q", name)
			for i, wantPhoto := range wantAlbum.Photos {
				gotPhoto := gotAlbum.Photos[i]
				require.Equal(t, wantPhoto.FilePath, gotPhoto.FilePath)
				require.Equal(t, wantPhoto.Caption, gotPhoto.Caption)
				require.True(t, wantPhoto.TakenAt.Equal(gotPhoto.TakenAt))
				require.Equal(t, wantPhoto.Tags, gotPhoto.Tags)
			}
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	store := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	users := newTestGraph(t)
	require.NoError(t, store.Save(ctx, users))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	requireGraphEqual(t, users, reloaded)

	// Identity sharing survives the round trip.
	alice := reloaded[0]
	if alice.Username != "Alice" {
		alice = reloaded[1]
	}
	require.Same(t, alice.Album("trip").Photos[0], alice.Album("best-of").Photos[0])
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "users.dat"), zerolog.Nop())

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "this is not a snapshot"},
		{"wrong version", `{"version": 99, "users": []}`},
		{"album references unknown photo", `{
			"version": 1,
			"users": [{"username": "x", "password": "", "albums": [{"name": "a", "photo_paths": ["/ghost.jpg"]}]}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "users.dat")
			require.NoError(t, os.WriteFile(path, []byte(tt.payload), 0o644))

			store := NewFileStore(path, zerolog.Nop())
			_, err := store.Load(context.Background())
			require.ErrorIs(t, err, ErrSnapshotCorrupt)
		})
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	store := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTestGraph(t)))
	require.NoError(t, store.Save(ctx, []*domain.User{domain.NewUser("only", "")}))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	require.Equal(t, "only", reloaded[0].Username)
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "users.dat")
	store := NewFileStore(path, zerolog.Nop())

	require.NoError(t, store.Save(context.Background(), nil))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestUnreferencedPhotosAreDropped(t *testing.T) {
	u := domain.NewUser("alice", "")
	u.CreateAlbum("trip")
	u.AddPhotoToAlbum("trip", "/a.jpg", time.Now())
	u.RemovePhotoFromAlbum("trip", "/a.jpg")

	records := EncodeUsers([]*domain.User{u})
	require.Len(t, records, 1)
	require.Empty(t, records[0].Photos, "a photo no album references must not be serialized")
}
