package photometa

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCaptureTimeInaccessibleFile(t *testing.T) {
	got := CaptureTime(filepath.Join(t.TempDir(), "missing.jpg"))
	if !got.Equal(time.Unix(0, 0)) {
		t.Errorf("inaccessible file must degrade to the epoch, got %v", got)
	}
}

func TestCaptureTimeFallsBackToModTime(t *testing.T) {
	// A file with no EXIF data uses the filesystem modification time.
	path := filepath.Join(t.TempDir(), "plain.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	modTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}

	if got := CaptureTime(path); !got.Equal(modTime) {
		t.Errorf("CaptureTime = %v, want mod time %v", got, modTime)
	}
}
