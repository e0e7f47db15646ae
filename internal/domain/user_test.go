package domain

import (
	"testing"
	"time"
)

func TestUserCreateAlbum(t *testing.T) {
	u := NewUser("alice", "")

	if !u.CreateAlbum("trip") {
		t.Fatal("first create must succeed")
	}
	if u.CreateAlbum("trip") {
		t.Error("duplicate album name must be rejected")
	}
	if !u.CreateAlbum("Trip") {
		t.Error("album names are exact-match, Trip is distinct from trip")
	}
}

func TestUserDeleteAlbum(t *testing.T) {
	tests := []struct {
		name     string
		username string
		album    string
		del      string
		want     bool
	}{
		{"regular album", "alice", "trip", "trip", true},
		{"absent album", "alice", "trip", "other", false},
		{"stock album of stock user", "stock", StockAlbumName, StockAlbumName, false},
		{"stock album of stock user, cased username", "Stock", StockAlbumName, StockAlbumName, false},
		{"album merely named stock on a regular user", "alice", "stock", "stock", true},
		{"other album of stock user", "stock", "extra", "extra", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUser(tt.username, "")
			u.CreateAlbum(tt.album)
			if got := u.DeleteAlbum(tt.del); got != tt.want {
				t.Errorf("DeleteAlbum(%q) = %v, want %v", tt.del, got, tt.want)
			}
		})
	}
}

func TestUserRenameAlbum(t *testing.T) {
	tests := []struct {
		name     string
		username string
		albums   []string
		oldName  string
		newName  string
		want     bool
	}{
		{"simple rename", "alice", []string{"trip"}, "trip", "vacation", true},
		{"old name missing", "alice", []string{"trip"}, "other", "vacation", false},
		{"new name taken", "alice", []string{"trip", "vacation"}, "trip", "vacation", false},
		{"protected stock album", "stock", []string{StockAlbumName}, StockAlbumName, "renamed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUser(tt.username, "")
			for _, name := range tt.albums {
				u.CreateAlbum(name)
			}

			if got := u.RenameAlbum(tt.oldName, tt.newName); got != tt.want {
				t.Fatalf("RenameAlbum = %v, want %v", got, tt.want)
			}

			if tt.want {
				if u.Album(tt.oldName) != nil {
					t.Error("old name must be free after rename")
				}
				album := u.Album(tt.newName)
				if album == nil || album.Name != tt.newName {
					t.Error("album must live under the new name with updated display name")
				}
				if !u.CreateAlbum(tt.oldName) {
					t.Error("the old name must be reusable immediately")
				}
			} else if len(tt.albums) > 0 {
				// A failed rename is atomic: nothing moved.
				if u.Album(tt.albums[0]) == nil {
					t.Error("failed rename must leave the original album in place")
				}
			}
		})
	}
}

func TestUserPhotoIdentitySharing(t *testing.T) {
	u := NewUser("alice", "")
	u.CreateAlbum("trip")
	u.CreateAlbum("best-of")
	taken := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if !u.AddPhotoToAlbum("trip", "/a.jpg", taken) {
		t.Fatal("add to first album must succeed")
	}
	if !u.AddPhotoToAlbum("best-of", "/a.jpg", taken.Add(time.Hour)) {
		t.Fatal("add to second album must succeed")
	}

	fromTrip := u.Album("trip").Photos[0]
	fromBest := u.Album("best-of").Photos[0]
	if fromTrip != fromBest {
		t.Fatal("both albums must share one photo instance")
	}
	if !fromBest.TakenAt.Equal(taken) {
		t.Error("the pooled photo keeps its original capture time")
	}

	fromTrip.SetCaption("seen everywhere")
	fromTrip.AddTag(NewTag("person", "Bob"))
	if fromBest.Caption != "seen everywhere" || !fromBest.HasTag(NewTag("person", "Bob")) {
		t.Error("edits must be visible from every containing album")
	}
}

func TestUserAddPhotoToAlbumFailures(t *testing.T) {
	u := NewUser("alice", "")
	u.CreateAlbum("trip")
	now := time.Now()

	if u.AddPhotoToAlbum("missing", "/a.jpg", now) {
		t.Error("adding to an absent album must fail")
	}
	if u.Photo("/a.jpg") != nil {
		t.Error("a failed add must not pool the photo")
	}

	u.AddPhotoToAlbum("trip", "/a.jpg", now)
	if u.AddPhotoToAlbum("trip", "/a.jpg", now) {
		t.Error("adding a photo already in the album must fail")
	}
	if u.Album("trip").Size() != 1 {
		t.Error("failed duplicate add must not grow the album")
	}
}

func TestUserPhotoPoolPruning(t *testing.T) {
	u := NewUser("alice", "")
	u.CreateAlbum("trip")
	u.CreateAlbum("best-of")
	now := time.Now()
	u.AddPhotoToAlbum("trip", "/a.jpg", now)
	u.AddPhotoToAlbum("best-of", "/a.jpg", now)

	u.RemovePhotoFromAlbum("trip", "/a.jpg")
	if u.Photo("/a.jpg") == nil {
		t.Fatal("photo still referenced by best-of must stay pooled")
	}

	u.RemovePhotoFromAlbum("best-of", "/a.jpg")
	if u.Photo("/a.jpg") != nil {
		t.Error("photo with no referencing album must leave the pool")
	}

	// Deleting an album also releases its last references.
	u.AddPhotoToAlbum("trip", "/b.jpg", now)
	u.DeleteAlbum("trip")
	if u.Photo("/b.jpg") != nil {
		t.Error("album deletion must release the pool entry")
	}
}

func TestUserCheckPassword(t *testing.T) {
	u := NewUser("alice", "secret")
	if !u.CheckPassword("secret") {
		t.Error("exact password must match")
	}
	if u.CheckPassword("Secret") {
		t.Error("password comparison is case-sensitive")
	}
	if u.CheckPassword("") {
		t.Error("empty candidate must not match a set password")
	}
	if !NewUser("bob", "").CheckPassword("") {
		t.Error("empty password matches the empty candidate")
	}
}
