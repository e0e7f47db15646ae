package search

import (
	"testing"
	"time"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// newAliceTrip builds a user with album "trip" holding /a.jpg
// (location:Paris, taken March 1st) and /b.jpg (person:Bob, taken May 20th).
func newAliceTrip(t *testing.T) *domain.User {
	t.Helper()

	u := domain.NewUser("alice", "")
	u.CreateAlbum("trip")

	dayA := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	dayB := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	u.AddPhotoToAlbum("trip", "/a.jpg", dayA)
	u.AddPhotoToAlbum("trip", "/b.jpg", dayB)
	u.Photo("/a.jpg").AddTag(domain.NewTag("location", "Paris"))
	u.Photo("/b.jpg").AddTag(domain.NewTag("person", "Bob"))

	return u
}

func paths(photos []*domain.Photo) []string {
	result := make([]string, 0, len(photos))
	for _, p := range photos {
		result = append(result, p.FilePath)
	}
	return result
}

func assertPaths(t *testing.T, got []*domain.Photo, want ...string) {
	t.Helper()
	gotPaths := paths(got)
	if len(gotPaths) != len(want) {
		t.Fatalf("got %v, want %v", gotPaths, want)
	}
	for i := range want {
		if gotPaths[i] != want[i] {
			t.Fatalf("got %v, want %v", gotPaths, want)
		}
	}
}

func TestByDateRange(t *testing.T) {
	u := newAliceTrip(t)

	// Single-day range on /a.jpg's calendar date, ignoring time of day.
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assertPaths(t, ByDateRange(u, day, day), "/a.jpg")

	// Range covering both photos.
	assertPaths(t, ByDateRange(u, day, day.AddDate(0, 3, 0)), "/a.jpg", "/b.jpg")

	// Range touching neither.
	assertPaths(t, ByDateRange(u, day.AddDate(-1, 0, 0), day.AddDate(-1, 0, 1)))
}

func TestByDateRangeDeduplicates(t *testing.T) {
	u := newAliceTrip(t)
	u.CreateAlbum("best-of")
	u.AddPhotoToAlbum("best-of", "/a.jpg", time.Now())

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assertPaths(t, ByDateRange(u, day, day), "/a.jpg")
}

func TestByTags(t *testing.T) {
	u := newAliceTrip(t)
	paris := TagQuery{Name: "location", Value: "paris"}
	bob := TagQuery{Name: "PERSON", Value: "BOB"}

	tests := []struct {
		name      string
		primary   TagQuery
		secondary *TagQuery
		op        Combinator
		want      []string
	}{
		{"or matches either pair, any case", paris, &bob, Or, []string{"/a.jpg", "/b.jpg"}},
		{"and requires both pairs", paris, &bob, And, nil},
		{"and without secondary degrades to primary only", paris, nil, And, []string{"/a.jpg"}},
		{"or without secondary degrades to primary only", bob, nil, Or, []string{"/b.jpg"}},
		{"no match", TagQuery{Name: "location", Value: "Tokyo"}, nil, Or, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPaths(t, ByTags(u, tt.primary, tt.secondary, tt.op), tt.want...)
		})
	}
}

func TestByTagsBothOnOnePhoto(t *testing.T) {
	u := newAliceTrip(t)
	u.Photo("/a.jpg").AddTag(domain.NewTag("person", "Bob"))

	got := ByTags(u, TagQuery{Name: "location", Value: "paris"},
		&TagQuery{Name: "person", Value: "bob"}, And)
	assertPaths(t, got, "/a.jpg")
}

func TestMaterialize(t *testing.T) {
	u := newAliceTrip(t)
	results := ByTags(u, TagQuery{Name: "location", Value: "paris"}, nil, Or)

	if !Materialize(u, "paris-only", results) {
		t.Fatal("materializing into a fresh album name must succeed")
	}
	if Materialize(u, "trip", results) {
		t.Error("materializing into an existing album name must fail")
	}

	album := u.Album("paris-only")
	if album == nil || album.Size() != 1 {
		t.Fatal("materialized album must hold the results")
	}
	if album.Photos[0] != u.Photo("/a.jpg") {
		t.Error("materialized album must share photo identity with the pool")
	}
}
