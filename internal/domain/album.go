// Package domain contains the core business entities for Beatrix Photos.
package domain

import "time"

// Album is a named, insertion-ordered collection of photo references.
// An album never contains two photos with the same identity. Albums are
// owned by a User, which enforces name uniqueness across its albums.
type Album struct {
	// Name is the album's display name, unique within its owning user.
	Name string `json:"name"`

	// Photos holds the member photos in insertion order. Entries are
	// shared with the owning user's photo pool, never copies.
	Photos []*Photo `json:"photos"`
}

// NewAlbum creates an empty album with the given name.
func NewAlbum(name string) *Album {
	return &Album{Name: name}
}

// AddPhoto appends a photo to the album. Returns false without mutation
// when a photo with the same identity is already present.
func (a *Album) AddPhoto(photo *Photo) bool {
	if a.Contains(photo.FilePath) {
		return false
	}
	a.Photos = append(a.Photos, photo)
	return true
}

// RemovePhoto removes the first entry with the same identity and reports
// whether one was removed.
func (a *Album) RemovePhoto(photo *Photo) bool {
	return a.RemovePhotoByPath(photo.FilePath)
}

// RemovePhotoByPath removes the first entry with the given file path.
func (a *Album) RemovePhotoByPath(filePath string) bool {
	for i, p := range a.Photos {
		if p.FilePath == filePath {
			a.Photos = append(a.Photos[:i], a.Photos[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the album holds a photo with the given path.
func (a *Album) Contains(filePath string) bool {
	for _, p := range a.Photos {
		if p.FilePath == filePath {
			return true
		}
	}
	return false
}

// Size returns the number of photos in the album.
func (a *Album) Size() int {
	return len(a.Photos)
}

// Rename changes the display name only. The owning user is responsible
// for keeping its album index consistent.
func (a *Album) Rename(newName string) {
	a.Name = newName
}

// DateRange returns the earliest and latest capture timestamps across the
// album's photos. ok is false when the album is empty, in which case the
// range is undefined. The range is derived, never stored.
func (a *Album) DateRange() (start, end time.Time, ok bool) {
	if len(a.Photos) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = a.Photos[0].TakenAt, a.Photos[0].TakenAt
	for _, p := range a.Photos[1:] {
		if p.TakenAt.Before(start) {
			start = p.TakenAt
		}
		if p.TakenAt.After(end) {
			end = p.TakenAt
		}
	}
	return start, end, true
}
