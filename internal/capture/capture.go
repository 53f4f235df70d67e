// Package capture writes rendered frames to disk as PNG files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// FileName is the download name every screenshot is saved under.
const FileName = "solar_system.png"

var ErrEmptyImage = errors.New("capture: image has no pixels")

func Encode(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	return png.Encode(w, img)
}

// Save writes img to dir/FileName, replacing any previous screenshot, and
// returns the written path.
func Save(img image.Image, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, ".solar_system-*.png")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, img); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
