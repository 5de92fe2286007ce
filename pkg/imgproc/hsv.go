package imgproc

import (
	"image"
	"math"
)

// PixelHSV returns Hue [0, 360) and Saturation/Value on the 8-bit [0, 255] scale.
func PixelHSV(img image.Image, x, y int) (float64, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	fr, fg, fb := float64(r>>8)/255.0, float64(g>>8)/255.0, float64(b>>8)/255.0

	maxC := math.Max(fr, math.Max(fg, fb))
	minC := math.Min(fr, math.Min(fg, fb))
	delta := maxC - minC

	var h float64
	if delta == 0 {
		h = 0
	} else if maxC == fr {
		h = 60 * math.Mod((fg-fb)/delta, 6)
	} else if maxC == fg {
		h = 60 * ((fb-fr)/delta + 2)
	} else {
		h = 60 * ((fr-fg)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	s := 0.0
	if maxC != 0 {
		s = delta / maxC
	}
	return h, uint8(math.Round(s * 255)), uint8(math.Round(maxC * 255))
}

// CountColorful counts the pixels of rect whose saturation and value both exceed the limits.
func CountColorful(img image.Image, rect image.Rectangle, minSat, minVal uint8) int {
	rect = rect.Intersect(img.Bounds())
	count := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			_, s, v := PixelHSV(img, x, y)
			if s > minSat && v > minVal {
				count++
			}
		}
	}
	return count
}
