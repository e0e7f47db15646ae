// Package domain contains the core business entities for Beatrix Photos.
package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	// StockUsername is the reserved account seeded at startup.
	// Matching is case-insensitive.
	StockUsername = "stock"

	// StockAlbumName is the reserved album owned by the stock user.
	// It can be neither deleted nor renamed.
	StockAlbumName = "stock"
)

// User is a named account owning albums. Photos are held in a pool keyed
// by file path so that every album referencing a path shares one *Photo
// instance: caption and tag edits are visible from every containing album.
type User struct {
	// Username is the account name with its original casing. The catalog
	// indexes users by the lowercased form.
	Username string `json:"username"`

	// Password is compared by plain string equality. This is a
	// convenience check, not a security mechanism.
	Password string `json:"password"`

	// Albums maps album name (exact string) to the album.
	Albums map[string]*Album `json:"albums"`

	// photos is the pool of photos reachable from this user's albums,
	// keyed by file path. An entry is dropped as soon as the last album
	// referencing it lets go.
	photos map[string]*Photo
}

// NewUser creates a user with no albums.
func NewUser(username, password string) *User {
	return &User{
		Username: username,
		Password: password,
		Albums:   make(map[string]*Album),
		photos:   make(map[string]*Photo),
	}
}

// CheckPassword reports whether the candidate matches exactly.
func (u *User) CheckPassword(candidate string) bool {
	return u.Password == candidate
}

// IsStock reports whether this is the reserved stock account.
func (u *User) IsStock() bool {
	return strings.EqualFold(u.Username, StockUsername)
}

// protectedAlbum reports whether the named album is shielded from
// delete and rename on this user.
func (u *User) protectedAlbum(name string) bool {
	return u.IsStock() && name == StockAlbumName
}

// CreateAlbum creates an empty album. Returns false when the name is
// already used by this user.
func (u *User) CreateAlbum(name string) bool {
	if _, exists := u.Albums[name]; exists {
		return false
	}
	u.Albums[name] = NewAlbum(name)
	return true
}

// DeleteAlbum removes an album and reports whether it was present.
// The stock user's stock album is protected and never removed. Pool
// entries that lose their last referencing album are dropped with it.
func (u *User) DeleteAlbum(name string) bool {
	if u.protectedAlbum(name) {
		return false
	}
	album, exists := u.Albums[name]
	if !exists {
		return false
	}
	delete(u.Albums, name)
	for _, p := range album.Photos {
		u.prune(p.FilePath)
	}
	return true
}

// RenameAlbum moves an album under a new name and updates its display
// name. Returns false when the old name is protected, does not exist, or
// the new name is already taken. The three checks are atomic: a failed
// rename leaves nothing half-moved.
func (u *User) RenameAlbum(oldName, newName string) bool {
	if u.protectedAlbum(oldName) {
		return false
	}
	album, exists := u.Albums[oldName]
	if !exists {
		return false
	}
	if _, taken := u.Albums[newName]; taken {
		return false
	}
	delete(u.Albums, oldName)
	album.Rename(newName)
	u.Albums[newName] = album
	return true
}

// Album returns the named album, or nil.
func (u *User) Album(name string) *Album {
	return u.Albums[name]
}

// AlbumNames returns the user's album names sorted lexicographically.
func (u *User) AlbumNames() []string {
	names := make([]string, 0, len(u.Albums))
	for name := range u.Albums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Photo returns the pooled photo for a file path, or nil when no album
// of this user references the path.
func (u *User) Photo(filePath string) *Photo {
	return u.photos[filePath]
}

// Photos returns the pooled photos sorted by file path.
func (u *User) Photos() []*Photo {
	photos := make([]*Photo, 0, len(u.photos))
	for _, p := range u.photos {
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].FilePath < photos[j].FilePath
	})
	return photos
}

// EnsurePhoto returns the pooled photo for the path, creating and pooling
// a fresh one with the given capture timestamp when the path is new.
// An existing pool entry keeps its timestamp, caption and tags.
func (u *User) EnsurePhoto(filePath string, takenAt time.Time) *Photo {
	if p, exists := u.photos[filePath]; exists {
		return p
	}
	p := NewPhoto(filePath, takenAt)
	u.photos[filePath] = p
	return p
}

// AddPhotoToAlbum adds the photo identified by filePath to the named
// album. A path already pooled for this user is reused so the same
// logical photo is shared across albums. Returns false when the album
// does not exist or already contains the photo.
func (u *User) AddPhotoToAlbum(albumName, filePath string, takenAt time.Time) bool {
	album, exists := u.Albums[albumName]
	if !exists {
		return false
	}
	if album.Contains(filePath) {
		return false
	}
	album.AddPhoto(u.EnsurePhoto(filePath, takenAt))
	return true
}

// RemovePhotoFromAlbum removes the photo from the named album and reports
// whether one was removed. The pool entry is dropped when no album of
// this user references the path anymore.
func (u *User) RemovePhotoFromAlbum(albumName, filePath string) bool {
	album, exists := u.Albums[albumName]
	if !exists {
		return false
	}
	if !album.RemovePhotoByPath(filePath) {
		return false
	}
	u.prune(filePath)
	return true
}

// referenced reports whether any album of this user contains the path.
func (u *User) referenced(filePath string) bool {
	for _, album := range u.Albums {
		if album.Contains(filePath) {
			return true
		}
	}
	return false
}

// prune drops the pool entry for a path that no album references.
func (u *User) prune(filePath string) {
	if !u.referenced(filePath) {
		delete(u.photos, filePath)
	}
}
