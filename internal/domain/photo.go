// Package domain contains the core business entities for Beatrix Photos.
package domain

import (
	"strings"
	"time"
)

// TagNameLocation is the tag name that is unique per photo: a photo
// carries at most one location tag at a time, any number of tags of
// other names.
const TagNameLocation = "location"

// Photo is a catalogued image. Identity is the file path: two photos
// with the same path are the same logical entity, and every album of
// one user that contains the path shares a single *Photo instance.
type Photo struct {
	// FilePath is the path of the image file. Exact string identity,
	// case and format sensitive.
	FilePath string `json:"file_path"`

	// Caption is the user-supplied caption. Empty by default.
	Caption string `json:"caption"`

	// TakenAt is the capture timestamp derived from file metadata at
	// creation time. The Unix epoch marks a photo whose source file
	// was unreadable when it was catalogued.
	TakenAt time.Time `json:"taken_at"`

	// Tags is the set of tags on this photo, insertion ordered,
	// with no two entries equal by exact (name, value).
	Tags []Tag `json:"tags,omitempty"`
}

// NewPhoto creates a photo for the given file path with an empty caption.
func NewPhoto(filePath string, takenAt time.Time) *Photo {
	return &Photo{
		FilePath: filePath,
		TakenAt:  takenAt,
	}
}

// SetCaption replaces the caption unconditionally.
func (p *Photo) SetCaption(caption string) {
	p.Caption = caption
}

// AddTag adds a tag to the photo. Returns false without mutation when an
// exactly equal tag is already present. Adding a location tag first evicts
// any existing location tag regardless of case, so at most one survives.
func (p *Photo) AddTag(tag Tag) bool {
	for _, existing := range p.Tags {
		if existing.Equal(tag) {
			return false
		}
	}

	if strings.EqualFold(tag.Name, TagNameLocation) {
		kept := p.Tags[:0]
		for _, existing := range p.Tags {
			if !strings.EqualFold(existing.Name, TagNameLocation) {
				kept = append(kept, existing)
			}
		}
		p.Tags = kept
	}

	p.Tags = append(p.Tags, tag)
	return true
}

// RemoveTag removes an exactly equal tag and reports whether one was removed.
func (p *Photo) RemoveTag(tag Tag) bool {
	for i, existing := range p.Tags {
		if existing.Equal(tag) {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// HasTag reports whether the photo carries an exactly equal tag.
func (p *Photo) HasTag(tag Tag) bool {
	for _, existing := range p.Tags {
		if existing.Equal(tag) {
			return true
		}
	}
	return false
}

// HasTagFold reports whether the photo carries a tag whose (name, value)
// pair matches case-insensitively. This is the match search uses.
func (p *Photo) HasTagFold(name, value string) bool {
	for _, existing := range p.Tags {
		if existing.EqualFold(name, value) {
			return true
		}
	}
	return false
}

// SameIdentity reports whether two photos are the same logical entity,
// i.e. share the exact file path.
func (p *Photo) SameIdentity(other *Photo) bool {
	return other != nil && p.FilePath == other.FilePath
}
