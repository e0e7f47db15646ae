// Package domain contains the core business entities for Beatrix Photos.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the photo catalogue.
package domain

import (
	"fmt"
	"strings"
)

// Tag is an immutable name/value pair attached to a photo,
// for example location:Paris or person:Alice.
type Tag struct {
	// Name is the tag name/kind (e.g. "location", "person").
	Name string `json:"name"`

	// Value is the tag value (e.g. "Paris").
	Value string `json:"value"`
}

// NewTag creates a tag. No content validation happens at this layer;
// callers enforce non-empty names and values.
func NewTag(name, value string) Tag {
	return Tag{Name: name, Value: value}
}

// Equal reports whether both name and value match exactly.
// This is the equality used for de-duplication within a photo.
func (t Tag) Equal(other Tag) bool {
	return t.Name == other.Name && t.Value == other.Value
}

// EqualFold reports whether the (name, value) pair matches
// case-insensitively. Search uses this relaxed form.
func (t Tag) EqualFold(name, value string) bool {
	return strings.EqualFold(t.Name, name) && strings.EqualFold(t.Value, value)
}

// String returns the canonical "name:value" form.
func (t Tag) String() string {
	return fmt.Sprintf("%s:%s", t.Name, t.Value)
}
