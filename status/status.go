// Package status holds the per-frame telemetry record and its timeline.
package status

import (
	"sort"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
	"github.com/rs/zerolog"
)

// Slot counts of the HUD.
const (
	SpellSlots = 3
	SkillSlots = 4
)

// FrameStatus is everything read from one frame.
type FrameStatus struct {
	Timestamp        int64                `json:"timestamp"`
	JoystickAngle    float64              `json:"joystick_angle"`
	JoystickDetected bool                 `json:"joystick_detected"`
	SpellCooldowns   [SpellSlots]int      `json:"spell_cooldowns"`
	SkillCooldowns   [SkillSlots]int      `json:"skill_cooldowns"`
	Money            int                  `json:"money"`
	Heroes           []tracker.HeroStatus `json:"heroes"`
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (f FrameStatus) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("ts", f.Timestamp).
		Int("money", f.Money).
		Ints("spells", f.SpellCooldowns[:]).
		Ints("skills", f.SkillCooldowns[:]).
		Int("heroes", len(f.Heroes))
	if f.JoystickDetected {
		e.Float64("joystick", f.JoystickAngle)
	}
}

// Timeline is an append-only, timestamp-ordered list of frame records.
// It is not safe for concurrent use.
type Timeline struct {
	frames []FrameStatus
}

// Append adds f at the end.
func (t *Timeline) Append(f FrameStatus) {
	t.frames = append(t.frames, f)
}

// Reset drops every record.
func (t *Timeline) Reset() { t.frames = nil }

// Len returns the number of records.
func (t *Timeline) Len() int { return len(t.frames) }

// Latest returns the last record.
func (t *Timeline) Latest() (FrameStatus, bool) {
	if len(t.frames) == 0 {
		return FrameStatus{}, false
	}
	return t.frames[len(t.frames)-1], true
}

// Since returns up to limit records with Timestamp >= from. limit <= 0 means no limit.
func (t *Timeline) Since(from int64, limit int) []FrameStatus {
	start := sort.Search(len(t.frames), func(i int) bool {
		return t.frames[i].Timestamp >= from
	})
	end := len(t.frames)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	out := make([]FrameStatus, end-start)
	copy(out, t.frames[start:end])
	return out
}

// All returns a copy of every record.
func (t *Timeline) All() []FrameStatus {
	return t.Since(0, 0)
}
