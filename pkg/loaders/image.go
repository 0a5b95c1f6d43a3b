// Package loaders reads meshes and images from disk into scene building
// blocks.
package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned for file extensions no loader handles
var ErrUnsupportedFormat = errors.New("unsupported format")

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true,
}

// LoadTexture loads an image file as a texture. Color images are stored
// sRGB encoded, so linearize should be set for them and cleared for data
// such as normal or alpha maps.
func LoadTexture(filename string, linearize bool) (*material.ImageTexture, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("texture %s: %w %q", filename, ErrUnsupportedFormat, ext)
	}
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	return material.NewImageTextureFromImage(img, linearize), nil
}
