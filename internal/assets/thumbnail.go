package assets

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"lookbook/internal/domain"
)

const (
	// LowFidelityMaxSize bounds the longest edge of a derived variant.
	LowFidelityMaxSize = 512
	lowFidelityQuality = 75
)

// LowFidelity decodes an uploaded image and re-encodes it as a JPEG whose
// longest edge is at most maxDim. Smaller images keep their dimensions.
func LowFidelity(data []byte, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = LowFidelityMaxSize
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("assets: decode: %w", err)
	}
	var out image.Image = img
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		out = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(lowFidelityQuality)); err != nil {
		return nil, fmt.Errorf("assets: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func missing(slot domain.Slot) error {
	return fmt.Errorf("assets: %w: %s", domain.ErrMissingAsset, slot)
}
