// Package overlay draws frame records on top of their frames for debugging.
package overlay

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/analyzer"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/fogleman/gg"
)

const joystickLineLen = 60

// Render returns a copy of frame, normalized to the work size, with the areas read and the
// values found drawn over it.
func Render(frame image.Image, fs status.FrameStatus) image.Image {
	dc := gg.NewContextForImage(analyzer.Normalize(frame))
	dc.SetLineWidth(2)

	dc.SetHexColor("#ff0000")
	m := analyzer.MONEY_ROI
	dc.DrawRectangle(float64(m.Min.X), float64(m.Min.Y), float64(m.Dx()), float64(m.Dy()))
	dc.Stroke()
	dc.DrawString(fmt.Sprintf("$%d", fs.Money), float64(m.Max.X+4), float64(m.Max.Y))

	for i, c := range analyzer.SPELL_CENTERS {
		drawCooldown(dc, c, analyzer.SPELL_RADIUS, fs.SpellCooldowns[i])
	}
	for i, c := range analyzer.SKILL_CENTERS {
		drawCooldown(dc, c, analyzer.SKILL_RADIUS, fs.SkillCooldowns[i])
	}

	axis := analyzer.JOYSTICK_AXIS
	ax, ay := float64(axis.X), float64(axis.Y)
	dc.SetHexColor("#ff0000")
	dc.DrawLine(ax-10, ay, ax+30, ay)
	dc.DrawLine(ax, ay-10, ax, ay+10)
	dc.Stroke()
	if fs.JoystickDetected {
		rad := gg.Radians(fs.JoystickAngle)
		dc.DrawLine(ax, ay, ax+joystickLineLen*math.Cos(rad), ay-joystickLineLen*math.Sin(rad))
		dc.Stroke()
	}

	dc.SetHexColor("#00ff00")
	for _, h := range fs.Heroes {
		x, y := float64(h.Position.X), float64(h.Position.Y)
		dc.DrawRectangle(x-12, y, 22, 15)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("#%d L%d", h.ID, h.Level), x, y-4, 0.5, 0)
	}
	return dc.Image()
}

func drawCooldown(dc *gg.Context, center image.Point, radius float64, value int) {
	x, y := float64(center.X), float64(center.Y)
	dc.SetHexColor("#ff0000")
	dc.DrawCircle(x, y, radius)
	dc.Stroke()
	roi := analyzer.CooldownROI(center, radius)
	dc.SetHexColor("#ffff00")
	dc.DrawRectangle(float64(roi.Min.X), float64(roi.Min.Y), float64(roi.Dx()), float64(roi.Dy()))
	dc.Stroke()
	if value > 0 {
		dc.DrawStringAnchored(fmt.Sprint(value), x, y+radius+12, 0.5, 0.5)
	}
}

// Sink saves a rendered PNG per frame into a directory.
type Sink struct {
	dir string
}

// NewSink creates dir if needed.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug dir: %w", err)
	}
	return &Sink{dir: dir}, nil
}

// WriteFrame implements analyzer.Sink.
func (s *Sink) WriteFrame(_ context.Context, f framesource.Frame, fs status.FrameStatus) error {
	name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	if name == "" {
		name = fmt.Sprintf("frame_%d", fs.Timestamp)
	}
	return gg.SavePNG(filepath.Join(s.dir, name+".png"), Render(f.Image, fs))
}
