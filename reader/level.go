package reader

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
)

// Two digits belong to one level icon when their top-left corners are this close.
const (
	pairMaxDY = 3
	pairMinDX = 8
	pairMaxDX = 15
)

// MaxLevel is the highest hero level a level icon can show.
const MaxLevel = 15

// LevelOptions configures ReadLevelIcons.
type LevelOptions struct {
	ErrThreshold float64
	// Size is applied to the whole frame; the zero value selects relative mode.
	Size  region.SizeFilter
	Masks []region.Mask
	// ColorGate drops regions whose pixels in the source frame are too colorful.
	ColorGate bool
}

type detection struct {
	digit int
	pos   image.Point
}

// ReadLevelIcons finds level digits anywhere on frame and pairs neighbours into two-digit levels.
//
// A detection's position is the top-left corner of its region. For each unpaired detection in
// order, later unpaired detections are scanned for a partner with |dy| < 3 and 8 < |dx| < 15;
// the left digit is the tens digit and the pair reports the right member's position. Pairs
// above MaxLevel are skipped and the scan goes on. A detection left alone reports its own digit,
// except 0 which is dropped. Returned observations carry no timestamp.
func ReadLevelIcons(frame image.Image, binThres int, set *digit.Set, opts LevelOptions) []tracker.Observation {
	bin := imgproc.Binarize(frame, binThres)
	locateOpts := region.Options{Size: opts.Size, Masks: opts.Masks}
	if opts.ColorGate {
		locateOpts.Color = frame
	}

	var dets []detection
	for _, box := range region.Locate(bin, locateOpts) {
		if d, ok := digit.Classify(bin.SubImage(box).(*image.Gray), set, opts.ErrThreshold); ok {
			dets = append(dets, detection{digit: d, pos: box.Min})
		}
	}
	return pairLevels(dets)
}

func pairLevels(dets []detection) []tracker.Observation {
	var result []tracker.Observation
	paired := make([]bool, len(dets))
	for i, a := range dets {
		if paired[i] {
			continue
		}
		for j := i + 1; j < len(dets); j++ {
			if paired[j] {
				continue
			}
			b := dets[j]
			dy, dx := abs(a.pos.Y-b.pos.Y), abs(a.pos.X-b.pos.X)
			if dy >= pairMaxDY || dx <= pairMinDX || dx >= pairMaxDX {
				continue
			}
			left, right := a, b
			if a.pos.X > b.pos.X {
				left, right = b, a
			}
			level := left.digit*10 + right.digit
			if level > MaxLevel {
				readerLog.Debug().Int("level", level).Msg("pair above max level skipped")
				continue
			}
			paired[i], paired[j] = true, true
			result = append(result, tracker.Observation{Level: level, Position: right.pos})
			break
		}
		if !paired[i] && a.digit > 0 {
			result = append(result, tracker.Observation{Level: a.digit, Position: a.pos})
		}
	}
	return result
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
