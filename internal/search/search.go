// Package search provides stateless queries over one user's albums.
// Searches never mutate the graph; the only way a result becomes
// persistent state is Materialize, which copies it into a new album.
package search

import (
	"time"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// Combinator joins the primary and secondary tag queries.
type Combinator string

const (
	// And matches photos carrying both tag pairs. With no secondary
	// pair it degrades to a primary-only match.
	And Combinator = "AND"

	// Or matches photos carrying either tag pair.
	Or Combinator = "OR"
)

// TagQuery is a (name, value) pair matched case-insensitively on both
// parts, unlike the case-sensitive equality used for de-duplication.
type TagQuery struct {
	Name  string
	Value string
}

// ByDateRange returns every photo across the user's albums whose capture
// date falls within [start, end], compared by calendar date rather than
// time of day. Results are de-duplicated by photo identity, in first-seen
// order over the albums sorted by name.
func ByDateRange(user *domain.User, start, end time.Time) []*domain.Photo {
	from, to := dateOnly(start), dateOnly(end)
	return collect(user, func(p *domain.Photo) bool {
		d := dateOnly(p.TakenAt)
		return !d.Before(from) && !d.After(to)
	})
}

// ByTags returns every photo matching the tag queries. The primary pair
// is required; the secondary is optional. Under And a photo must carry
// both pairs (or just the primary when no secondary is given); under Or
// either pair suffices. Results are de-duplicated by identity.
func ByTags(user *domain.User, primary TagQuery, secondary *TagQuery, op Combinator) []*domain.Photo {
	return collect(user, func(p *domain.Photo) bool {
		matchPrimary := p.HasTagFold(primary.Name, primary.Value)
		if secondary == nil {
			return matchPrimary
		}
		matchSecondary := p.HasTagFold(secondary.Name, secondary.Value)
		if op == And {
			return matchPrimary && matchSecondary
		}
		return matchPrimary || matchSecondary
	})
}

// Materialize stores search results as a brand-new album owned by the
// user. Returns false when the album name is already taken; the results
// share photo identity with the pool, as any album does.
func Materialize(user *domain.User, albumName string, photos []*domain.Photo) bool {
	if !user.CreateAlbum(albumName) {
		return false
	}
	album := user.Album(albumName)
	for _, p := range photos {
		album.AddPhoto(user.EnsurePhoto(p.FilePath, p.TakenAt))
	}
	return true
}

// collect walks the user's albums in name order and gathers photos
// passing the predicate, de-duplicated by file path.
func collect(user *domain.User, match func(*domain.Photo) bool) []*domain.Photo {
	seen := make(map[string]bool)
	var result []*domain.Photo
	for _, name := range user.AlbumNames() {
		for _, p := range user.Album(name).Photos {
			if seen[p.FilePath] || !match(p) {
				continue
			}
			seen[p.FilePath] = true
			result = append(result, p)
		}
	}
	return result
}

// dateOnly strips the time of day, keeping the calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
