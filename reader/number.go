// Package reader turns binarized screen areas into numbers using digit templates.
package reader

import (
	"image"
	"sort"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/rs/zerolog/log"
)

var readerLog = log.With().Str("module", "reader").Logger()

// ReadNumber reads one multi-digit number from roi.
//
// Pixels brighter than binThres are foreground (Otsu when binThres <= 0). Every located
// region is classified; accepted digits are concatenated by ascending x, most significant
// first. A region sharing its x with an earlier accepted one is ignored. Unrecognized regions
// are skipped, which shifts the significance of the remaining digits.
// Returns 0 when nothing is recognized.
func ReadNumber(roi image.Image, set *digit.Set, errThres float64, binThres int, size region.SizeFilter) int {
	bin := imgproc.Binarize(roi, binThres)
	boxes := region.Locate(bin, region.Options{Size: size})

	byX := make(map[int]int, len(boxes))
	for _, box := range boxes {
		if _, dup := byX[box.Min.X]; dup {
			continue
		}
		d, errRate, ok := digit.Match(bin.SubImage(box).(*image.Gray), set, errThres)
		if !ok {
			readerLog.Debug().Str("set", set.Name()).Stringer("box", box).Msg("region not recognized")
			continue
		}
		readerLog.Debug().Str("set", set.Name()).Int("digit", d).Float64("error", errRate).Msg("digit recognized")
		byX[box.Min.X] = d
	}

	xs := make([]int, 0, len(byX))
	for x := range byX {
		xs = append(xs, x)
	}
	sort.Ints(xs)

	value := 0
	for _, x := range xs {
		value = value*10 + byX[x]
	}
	return value
}
