// Package analyzer runs the per-frame telemetry pipeline over normalized gameplay frames.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/joystick"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/reader"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

var anaLog = log.With().Str("module", "analyzer").Logger()

// ErrOutOfOrder is returned for a frame older than the previously processed one.
var ErrOutOfOrder = errors.New("analyzer: frame timestamp went backwards")

// Analyzer owns the tracker, joystick history and timeline of one capture session.
// It is not safe for concurrent use; see Session.
type Analyzer struct {
	params   Params
	sets     *digit.Sets
	masks    []region.Mask
	tracker  *tracker.Tracker
	joystick *joystick.Estimator
	timeline status.Timeline

	lastTS int64
	seen   bool
}

// New creates an Analyzer. masks exclude areas of the frame from the level icon search.
func New(sets *digit.Sets, params Params, masks ...region.Mask) *Analyzer {
	jsCfg := joystick.DefaultConfig()
	jsCfg.ROI = JOYSTICK_ROI
	jsCfg.Axis = JOYSTICK_AXIS
	jsCfg.BinThreshold = params.Joystick.BinThreshold
	jsCfg.MinDiameter = params.Joystick.MinDiameter
	jsCfg.MaxDiameter = params.Joystick.MaxDiameter

	return &Analyzer{
		params:   params,
		sets:     sets,
		masks:    masks,
		tracker:  tracker.New(params.Tracker),
		joystick: joystick.New(jsCfg),
	}
}

// Normalize returns img at WORK_W x WORK_H anchored at the origin.
func Normalize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) && b.Dx() == WORK_W && b.Dy() == WORK_H {
		return img
	}
	return imaging.Resize(img, WORK_W, WORK_H, imaging.Linear)
}

// ProcessFrame reads one frame, updates the tracker and appends the result to the timeline.
func (a *Analyzer) ProcessFrame(ctx context.Context, f framesource.Frame) (status.FrameStatus, error) {
	if err := ctx.Err(); err != nil {
		return status.FrameStatus{}, err
	}
	if a.seen && f.Timestamp < a.lastTS {
		return status.FrameStatus{}, fmt.Errorf("%w: %s at %d after %d", ErrOutOfOrder, f.Name, f.Timestamp, a.lastTS)
	}
	img := Normalize(f.Image)

	fs := status.FrameStatus{Timestamp: f.Timestamp}
	fs.Heroes = a.trackHeroes(f.Timestamp, img)

	var wg sync.WaitGroup
	for i, roi := range SpellROIs() {
		wg.Go(func() { fs.SpellCooldowns[i] = a.readCooldown(img, roi) })
	}
	for i, roi := range SkillROIs() {
		wg.Go(func() { fs.SkillCooldowns[i] = a.readCooldown(img, roi) })
	}
	wg.Go(func() { fs.Money = a.ReadMoney(img) })
	wg.Go(func() {
		if r, ok := a.joystick.Estimate(img); ok {
			fs.JoystickAngle = r.Angle
			fs.JoystickDetected = true
		}
	})
	wg.Wait()

	a.timeline.Append(fs)
	a.lastTS = f.Timestamp
	a.seen = true
	anaLog.Debug().Str("frame", f.Name).Object("status", fs).Msg("frame processed")
	return fs, nil
}

// TrackHeroes reads the level icons of a normalized frame and resolves them into identities,
// then prunes stale low-confidence heroes at ts. The timeline is not touched.
func (a *Analyzer) TrackHeroes(ts int64, img image.Image) []tracker.HeroStatus {
	return a.trackHeroes(ts, Normalize(img))
}

func (a *Analyzer) trackHeroes(ts int64, img image.Image) []tracker.HeroStatus {
	lp := a.params.Level
	obs := reader.ReadLevelIcons(img, lp.BinThreshold, a.sets.Level, reader.LevelOptions{
		ErrThreshold: lp.ErrThreshold,
		Size:         lp.Size,
		Masks:        a.masks,
		ColorGate:    lp.ColorGate,
	})
	heroes := a.tracker.Update(ts, obs)
	removed := a.tracker.Prune(ts, a.params.Prune.InactiveTimeout, a.params.Prune.MinAppearances)
	if len(removed) > 0 {
		anaLog.Debug().Int64("ts", ts).Int("removed", len(removed)).Int("live", a.tracker.Len()).Msg("heroes pruned")
	}
	return heroes
}

func (a *Analyzer) readCooldown(img image.Image, roi image.Rectangle) int {
	cp := a.params.Cooldown
	return reader.ReadNumber(imaging.Crop(img, roi), a.sets.Cooldown, cp.ErrThreshold, cp.BinThreshold, region.SizeFilter{})
}

// ReadSpell reads the cooldown of spell slot i (0-2) from a normalized frame.
func (a *Analyzer) ReadSpell(img image.Image, i int) int {
	return a.readCooldown(img, SpellROIs()[i])
}

// ReadSkill reads the cooldown of skill slot i (0-3) from a normalized frame.
func (a *Analyzer) ReadSkill(img image.Image, i int) int {
	return a.readCooldown(img, SkillROIs()[i])
}

// ReadMoney reads the money counter from a normalized frame.
func (a *Analyzer) ReadMoney(img image.Image) int {
	mp := a.params.Money
	return reader.ReadNumber(imaging.Crop(img, MONEY_ROI), a.sets.Money, mp.ErrThreshold, mp.BinThreshold, MONEY_SIZE)
}

// Heroes returns a copy of the live hero entities.
func (a *Analyzer) Heroes() []tracker.HeroEntity { return a.tracker.Entities() }

// Timeline returns the frame records.
func (a *Analyzer) Timeline() *status.Timeline { return &a.timeline }

// AxisStats reports the joystick-to-axis distance statistics.
func (a *Analyzer) AxisStats() (mean, stddev float64, n int) { return a.joystick.AxisStats() }

// Reset starts a new capture: heroes, joystick history and timeline are dropped and any next
// timestamp is accepted.
func (a *Analyzer) Reset() {
	a.tracker.Reset()
	a.joystick.Reset()
	a.timeline.Reset()
	a.seen = false
}
