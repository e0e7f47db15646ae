// Package snapshot persists the whole user graph as a single snapshot.
package snapshot

import (
	"fmt"
	"time"

	"github.com/prn-tf/beatrix-photos/internal/domain"
)

// TagRecord is the persisted form of a tag.
type TagRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PhotoRecord is the persisted form of a photo. Photos are stored once
// per user, flat; albums reference them by file path.
type PhotoRecord struct {
	FilePath string      `json:"file_path"`
	Caption  string      `json:"caption,omitempty"`
	TakenAt  time.Time   `json:"taken_at"`
	Tags     []TagRecord `json:"tags,omitempty"`
}

// AlbumRecord is the persisted form of an album: the name plus the
// member photo paths in album order.
type AlbumRecord struct {
	Name       string   `json:"name"`
	PhotoPaths []string `json:"photo_paths"`
}

// UserRecord is the persisted form of a user. Albums are written sorted
// by name; photo order within an album is preserved.
type UserRecord struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Photos   []PhotoRecord `json:"photos,omitempty"`
	Albums   []AlbumRecord `json:"albums"`
}

// EncodeUsers converts the domain graph into persisted records. The
// photo pool is flattened per user; shared photos appear once regardless
// of how many albums reference them.
func EncodeUsers(users []*domain.User) []UserRecord {
	records := make([]UserRecord, 0, len(users))
	for _, u := range users {
		rec := UserRecord{
			Username: u.Username,
			Password: u.Password,
		}
		for _, p := range u.Photos() {
			tags := make([]TagRecord, 0, len(p.Tags))
			for _, t := range p.Tags {
				tags = append(tags, TagRecord{Name: t.Name, Value: t.Value})
			}
			rec.Photos = append(rec.Photos, PhotoRecord{
				FilePath: p.FilePath,
				Caption:  p.Caption,
				TakenAt:  p.TakenAt,
				Tags:     tags,
			})
		}
		for _, name := range u.AlbumNames() {
			album := u.Album(name)
			paths := make([]string, 0, album.Size())
			for _, p := range album.Photos {
				paths = append(paths, p.FilePath)
			}
			rec.Albums = append(rec.Albums, AlbumRecord{Name: name, PhotoPaths: paths})
		}
		records = append(records, rec)
	}
	return records
}

// DecodeUsers rebuilds the domain graph from persisted records. An album
// referencing a photo path absent from the user's photo list has an
// unexpected shape and is reported as corruption.
func DecodeUsers(records []UserRecord) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(records))
	for _, rec := range records {
		u := domain.NewUser(rec.Username, rec.Password)
		for _, albumRec := range rec.Albums {
			if !u.CreateAlbum(albumRec.Name) {
				return nil, fmt.Errorf("%w: duplicate album %q for user %q", ErrSnapshotCorrupt, albumRec.Name, rec.Username)
			}
		}
		photos := make(map[string]PhotoRecord, len(rec.Photos))
		for _, photoRec := range rec.Photos {
			photos[photoRec.FilePath] = photoRec
		}
		for _, albumRec := range rec.Albums {
			album := u.Album(albumRec.Name)
			for _, path := range albumRec.PhotoPaths {
				photoRec, known := photos[path]
				if !known {
					return nil, fmt.Errorf("%w: album %q references unknown photo %q", ErrSnapshotCorrupt, albumRec.Name, path)
				}
				p := u.EnsurePhoto(path, photoRec.TakenAt)
				if !album.AddPhoto(p) {
					return nil, fmt.Errorf("%w: duplicate photo %q in album %q", ErrSnapshotCorrupt, path, albumRec.Name)
				}
				p.Caption = photoRec.Caption
				if p.Tags == nil {
					for _, t := range photoRec.Tags {
						p.Tags = append(p.Tags, domain.NewTag(t.Name, t.Value))
					}
				}
			}
		}
		users = append(users, u)
	}
	return users, nil
}
