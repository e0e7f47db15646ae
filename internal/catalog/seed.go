// Package catalog owns the in-memory user graph and its persistence.
// This file seeds the reserved stock account at startup.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/prn-tf/beatrix-photos/internal/domain"
	"github.com/prn-tf/beatrix-photos/internal/photometa"
)

// imageExtensions is the allow-list identifying seed directory entries
// as images, matched case-insensitively.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// seedStock ensures the stock user and its stock album exist and pulls
// images from the seed directory into the album. Runs once during Open,
// after the snapshot load, regardless of whether the load succeeded.
// Each structural change is followed by an immediate save so partial
// progress survives a failure mid-seed; save failures here are logged
// and do not abort seeding.
func (c *Catalog) seedStock(ctx context.Context) {
	stock := c.users[domain.StockUsername]
	if stock == nil {
		stock = domain.NewUser(domain.StockUsername, c.seed.StockPassword)
		c.users[domain.StockUsername] = stock
		c.logger.Info().Msg("created stock user")
		c.seedSave(ctx)
	}

	if stock.CreateAlbum(domain.StockAlbumName) {
		c.logger.Info().Msg("created stock album")
		c.seedSave(ctx)
	}
	album := stock.Album(domain.StockAlbumName)

	entries, err := os.ReadDir(c.seed.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug().Str("dir", c.seed.Dir).Msg("seed directory absent, skipping stock photos")
		} else {
			c.logger.Warn().Err(err).Str("dir", c.seed.Dir).Msg("failed to scan seed directory")
		}
		return
	}

	qualifying := 0
	added := 0
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		qualifying++

		path := filepath.Join(c.seed.Dir, entry.Name())
		if album.Contains(path) {
			continue
		}
		album.AddPhoto(stock.EnsurePhoto(path, photometa.CaptureTime(path)))
		added++
		c.seedSave(ctx)
	}

	if qualifying < c.seed.MinPhotos || qualifying > c.seed.MaxPhotos {
		c.logger.Warn().
			Int("found", qualifying).
			Int("min", c.seed.MinPhotos).
			Int("max", c.seed.MaxPhotos).
			Str("dir", c.seed.Dir).
			Msg("seed directory photo count outside expected range")
	}

	if added > 0 {
		c.logger.Info().Int("added", added).Int("total", album.Size()).Msg("stock album seeded")
	}
}

// seedSave saves during seeding. Failures are logged, never fatal.
func (c *Catalog) seedSave(ctx context.Context) {
	if err := c.saveLocked(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("save during seeding failed")
	}
}

// isImageFile reports whether the file name carries an image extension.
func isImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
