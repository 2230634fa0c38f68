package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	s := NewScreenshots("shots", "scene")
	s.now = fixedClock
	assert.Equal(t, filepath.Join("shots", "scene_2024-05-01_12-30-00.000.png"), s.Filename())
}

func TestSavePixelsFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewScreenshots(dir, "frame")
	s.now = fixedClock

	// Bottom row red, top row blue, as OpenGL reads them back.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.SavePixels(pixels, 1, 2)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
	r, _, b, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)
}

func TestSavePixelsRejectsSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "frame")
	_, err := s.SavePixels(make([]byte, 7), 1, 2)
	assert.Error(t, err)
}
