package region

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
)

// Relative-mode limits, as divisors of the searched image's rows and columns.
const (
	relHeightMinDiv = 1.6
	relHeightMaxDiv = 1.3
	relWidthMinDiv  = 9.3
	relWidthMaxDiv  = 4.1
)

// Color gate limits on the 8-bit HSV scale.
const (
	colorMinSat   = 70
	colorMinVal   = 30
	colorMinCount = 12
)

// SizeFilter bounds a candidate's height and width, inclusive on both ends.
// The zero value selects relative mode, where the limits derive from the searched image size.
type SizeFilter struct {
	HeightMin int `mapstructure:"height_min"`
	HeightMax int `mapstructure:"height_max"`
	WidthMin  int `mapstructure:"width_min"`
	WidthMax  int `mapstructure:"width_max"`
}

// IsZero reports whether f selects relative mode.
func (f SizeFilter) IsZero() bool {
	return f == SizeFilter{}
}

// Accepts reports whether a box of the given size passes f inside an image of rows x cols.
func (f SizeFilter) Accepts(size image.Point, rows, cols int) bool {
	if f.IsZero() {
		h, w := float64(size.Y), float64(size.X)
		return h >= float64(rows)/relHeightMinDiv && h <= float64(rows)/relHeightMaxDiv &&
			w >= float64(cols)/relWidthMinDiv && w <= float64(cols)/relWidthMaxDiv
	}
	return size.Y >= f.HeightMin && size.Y <= f.HeightMax &&
		size.X >= f.WidthMin && size.X <= f.WidthMax
}

// Options configures Locate.
type Options struct {
	Size SizeFilter
	// Masks discard every box with a corner strictly inside any of them.
	Masks []Mask
	// Color, when set, enables the color gate. It shares bin's coordinate space.
	Color image.Image
}

// Locate returns the bounding boxes of the external components of bin that pass every filter
// of opts, in discovery order.
func Locate(bin *image.Gray, opts Options) []image.Rectangle {
	b := bin.Bounds()
	var result []image.Rectangle
	for _, box := range ExternalComponents(bin) {
		if !opts.Size.Accepts(box.Size(), b.Dy(), b.Dx()) {
			continue
		}
		if Masked(box, opts.Masks) {
			continue
		}
		if opts.Color != nil && TooColorful(opts.Color, box) {
			continue
		}
		result = append(result, box)
	}
	return result
}

// Corners returns the four corners of box tested against masks.
func Corners(box image.Rectangle) [4]image.Point {
	return [4]image.Point{
		box.Min,
		{box.Max.X, box.Min.Y},
		{box.Min.X, box.Max.Y},
		box.Max,
	}
}

// Masked reports whether any corner of box lies strictly inside any mask.
func Masked(box image.Rectangle, masks []Mask) bool {
	for _, m := range masks {
		for _, c := range Corners(box) {
			if m.Inside(c) {
				return true
			}
		}
	}
	return false
}

// TooColorful reports whether box holds enough saturated, bright pixels to be HUD art
// rather than a white digit.
func TooColorful(img image.Image, box image.Rectangle) bool {
	limit := max(colorMinCount, 2*box.Dx())
	return imgproc.CountColorful(img, box, colorMinSat, colorMinVal) >= limit
}
