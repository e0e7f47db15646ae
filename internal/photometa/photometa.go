// Package photometa derives photo metadata from image files on disk.
package photometa

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureTime returns the capture timestamp for an image file.
//
// The EXIF DateTimeOriginal is preferred when the file carries decodable
// EXIF data. Files without EXIF fall back to the filesystem modification
// time, and an inaccessible file degrades to the Unix epoch instead of
// failing: cataloguing a photo never errors on a bad source file, callers
// that need real dates must treat the epoch as "unknown".
func CaptureTime(path string) time.Time {
	if taken, ok := exifTime(path); ok {
		return taken
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return info.ModTime()
}

// exifTime reads DateTimeOriginal (or the EXIF fallback chain goexif
// applies) from the file. ok is false for unreadable files and files
// without usable EXIF data.
func exifTime(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	taken, err := meta.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}
