package digit

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
	"golang.org/x/image/draw"
)

// A template is skipped when the region's h/w ratio is off by more than 20%.
const (
	maxRatioFactor = 1.2
	minRatioFactor = 0.8
)

// Classify returns the digit whose template disagrees least with region,
// or false when no template's error rate falls strictly below errThres.
func Classify(region *image.Gray, set *Set, errThres float64) (int, bool) {
	d, _, ok := Match(region, set, errThres)
	return d, ok
}

// Match is Classify that also reports the winning error rate.
//
// region must be a binary image; its bounds select the pixels compared. Each candidate
// template is compared after a nearest-neighbor resample of region to the template size.
// Ties keep the lower digit.
func Match(region *image.Gray, set *Set, errThres float64) (int, float64, bool) {
	rb := region.Bounds()
	if set == nil || rb.Dx() <= 0 || rb.Dy() <= 0 {
		return 0, 0, false
	}
	hwRegion := float64(rb.Dy()) / float64(rb.Dx())

	best := -1
	minErr := errThres
	for _, tpl := range set.templates {
		factor := hwRegion / tpl.hwRatio()
		if factor > maxRatioFactor || factor < minRatioFactor {
			continue
		}
		tb := tpl.Bitmap.Bounds()
		scaled := image.NewGray(tb)
		draw.NearestNeighbor.Scale(scaled, tb, region, rb, draw.Src, nil)

		errRate := disagreement(scaled, tpl.Bitmap)
		if errRate < minErr {
			minErr = errRate
			best = tpl.Digit
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, minErr, true
}

// disagreement is the share of pixels set in exactly one of a and b. Both share bounds.
func disagreement(a, b *image.Gray) float64 {
	bounds := b.Bounds()
	errs := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if imgproc.IsSet(a.GrayAt(x, y).Y) != imgproc.IsSet(b.GrayAt(x, y).Y) {
				errs++
			}
		}
	}
	return float64(errs) / float64(bounds.Dx()*bounds.Dy())
}
