package imgproc

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// LoadBinary decodes a BMP or PNG bitmap and returns it as a binary image anchored at (0, 0).
// Pixels brighter than mid-gray become Foreground.
func LoadBinary(path string) (*image.Gray, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ToBinary(img), nil
}

// Load decodes a BMP or PNG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		img, err = bmp.Decode(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// ToBinary thresholds img at mid-gray and moves the result to the origin.
func ToBinary(img image.Image) *image.Gray {
	gray := ToGray(img)
	bounds := gray.Bounds()
	result := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > 127 {
				result.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: Foreground})
			}
		}
	}
	return result
}
