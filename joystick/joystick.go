// Package joystick estimates the on-screen virtual joystick direction.
package joystick

import (
	"image"
	"math"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/rs/zerolog/log"
)

var jsLog = log.With().Str("module", "joystick").Logger()

// Config locates the joystick on a canonical frame.
type Config struct {
	ROI  image.Rectangle
	Axis image.Point
	// BinThreshold binarizes the ROI; <= 0 selects Otsu.
	BinThreshold int
	MinDiameter  int
	MaxDiameter  int
}

// DefaultConfig returns the joystick layout of a 1280x720 frame.
func DefaultConfig() Config {
	return Config{
		ROI:          image.Rect(58, 411, 58+294, 411+309),
		Axis:         image.Pt(206, 559),
		BinThreshold: 0,
		MinDiameter:  80,
		MaxDiameter:  100,
	}
}

// Reading is one detected joystick position.
type Reading struct {
	Center image.Point
	// Angle in degrees from the positive x axis, counter-clockwise on screen, in (-180, 180].
	Angle float64
	// Distance from the axis in pixels.
	Distance float64
}

// Estimator detects the joystick thumb and remembers its distance from the axis over time.
type Estimator struct {
	cfg       Config
	distances []float64
}

// New creates an Estimator.
func New(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Config returns the estimator's configuration.
func (e *Estimator) Config() Config { return e.cfg }

// Estimate looks for the joystick thumb in frame. ok is false when no circle-sized blob is found.
func (e *Estimator) Estimate(frame image.Image) (Reading, bool) {
	roi := e.cfg.ROI.Intersect(frame.Bounds())
	if roi.Empty() {
		return Reading{}, false
	}
	sub, ok := frame.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return Reading{}, false
	}
	bin := imgproc.Binarize(sub.SubImage(roi), e.cfg.BinThreshold)
	boxes := region.Locate(bin, region.Options{Size: region.SizeFilter{
		HeightMin: e.cfg.MinDiameter,
		HeightMax: e.cfg.MaxDiameter,
		WidthMin:  e.cfg.MinDiameter,
		WidthMax:  e.cfg.MaxDiameter,
	}})
	if len(boxes) == 0 {
		return Reading{}, false
	}

	best := boxes[0]
	for _, b := range boxes[1:] {
		if squareness(b) < squareness(best) {
			best = b
		}
	}
	center := image.Pt(best.Min.X+best.Dx()/2, best.Min.Y+best.Dy()/2)
	r := Reading{
		Center:   center,
		Angle:    Angle(e.cfg.Axis, center),
		Distance: math.Hypot(float64(center.X-e.cfg.Axis.X), float64(center.Y-e.cfg.Axis.Y)),
	}
	e.distances = append(e.distances, r.Distance)
	jsLog.Debug().Int("x", center.X).Int("y", center.Y).Float64("angle", r.Angle).Msg("joystick detected")
	return r, true
}

// Angle returns the direction from axis to p in degrees, with screen y pointing down.
func Angle(axis, p image.Point) float64 {
	return math.Atan2(float64(axis.Y-p.Y), float64(p.X-axis.X)) * 180 / math.Pi
}

func squareness(r image.Rectangle) int {
	d := r.Dx() - r.Dy()
	if d < 0 {
		return -d
	}
	return d
}

// AxisStats returns the mean and sample standard deviation of the thumb-to-axis distances seen
// so far, and how many there were. A stable distance validates the configured axis.
func (e *Estimator) AxisStats() (mean, stddev float64, n int) {
	n = len(e.distances)
	if n == 0 {
		return 0, 0, 0
	}
	for _, d := range e.distances {
		mean += d
	}
	mean /= float64(n)
	if n < 2 {
		return mean, 0, n
	}
	var sum float64
	for _, d := range e.distances {
		sum += (d - mean) * (d - mean)
	}
	return mean, math.Sqrt(sum / float64(n-1)), n
}

// Reset forgets the distance history.
func (e *Estimator) Reset() {
	e.distances = nil
}
