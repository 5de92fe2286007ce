package analyzer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"testing"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit/digittest"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func testSets() *digit.Sets {
	return &digit.Sets{
		Cooldown: digittest.Set(digit.PrefixCooldown, 1),
		Money:    digittest.Set(digit.PrefixMoney, 1),
		Level:    digittest.Set(digit.PrefixLevel, 2),
	}
}

// hudMask hides the money counter from the level icon search.
var hudMask = region.Polygon{{10, 330}, {100, 330}, {100, 370}, {10, 370}}

func hudFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, WORK_W, WORK_H))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)

	// level 12 icon
	digittest.Draw(img, 1, image.Pt(400, 200), 2, white)
	digittest.Draw(img, 2, image.Pt(411, 200), 2, white)
	// spell 1 cooldown 12
	digittest.Draw(img, 1, image.Pt(1125, 405), 4, white)
	digittest.Draw(img, 2, image.Pt(1145, 405), 4, white)
	// skill 1 cooldown 7
	digittest.Draw(img, 7, image.Pt(630, 633), 3, white)
	// money 35
	digittest.Draw(img, 3, image.Pt(22, 344), 2, white)
	digittest.Draw(img, 5, image.Pt(34, 344), 2, white)
	// joystick thumb right of the axis
	c := image.Pt(266, 559)
	for y := c.Y - 45; y <= c.Y+45; y++ {
		for x := c.X - 45; x <= c.X+45; x++ {
			if (x-c.X)*(x-c.X)+(y-c.Y)*(y-c.Y) <= 45*45 {
				img.Set(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
			}
		}
	}
	return img
}

func TestCooldownROI(t *testing.T) {
	if got := SpellROIs()[0]; got != image.Rect(1119, 399, 1119+83, 399+41) {
		t.Errorf("unexpected spell ROI %v", got)
	}
	if got := SkillROIs()[0]; got != image.Rect(611, 628, 611+64, 628+32) {
		t.Errorf("unexpected skill ROI %v", got)
	}
}

func TestProcessFrame(t *testing.T) {
	a := New(testSets(), DefaultParams(), hudMask)
	ctx := context.Background()
	frame := hudFrame()

	fs, err := a.ProcessFrame(ctx, framesource.Frame{Image: frame, Timestamp: 0, Name: "f_0.png"})
	if err != nil {
		t.Fatalf("ProcessFrame failed: %v", err)
	}
	if fs.SpellCooldowns != [3]int{12, 0, 0} {
		t.Errorf("expected spells [12 0 0], got %v", fs.SpellCooldowns)
	}
	if fs.SkillCooldowns != [4]int{7, 0, 0, 0} {
		t.Errorf("expected skills [7 0 0 0], got %v", fs.SkillCooldowns)
	}
	if fs.Money != 35 {
		t.Errorf("expected money 35, got %d", fs.Money)
	}
	if !fs.JoystickDetected || fs.JoystickAngle != 0 {
		t.Errorf("expected joystick at 0 degrees, got %v (detected=%v)", fs.JoystickAngle, fs.JoystickDetected)
	}
	if len(fs.Heroes) != 1 || fs.Heroes[0].Level != 12 || fs.Heroes[0].Position.X != 411 {
		t.Fatalf("expected one level 12 hero at x=411, got %+v", fs.Heroes)
	}

	fs, err = a.ProcessFrame(ctx, framesource.Frame{Image: frame, Timestamp: 100, Name: "f_0.1.png"})
	if err != nil {
		t.Fatalf("ProcessFrame failed: %v", err)
	}
	if len(fs.Heroes) != 1 || fs.Heroes[0].ID != 0 {
		t.Errorf("expected hero 0 to persist, got %+v", fs.Heroes)
	}
	if heroes := a.Heroes(); len(heroes) != 1 || heroes[0].Appearances != 2 {
		t.Errorf("expected one hero seen twice, got %+v", heroes)
	}

	if _, err := a.ProcessFrame(ctx, framesource.Frame{Image: frame, Timestamp: 50}); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
	if a.Timeline().Len() != 2 {
		t.Errorf("expected 2 timeline records, got %d", a.Timeline().Len())
	}
	if _, _, n := a.AxisStats(); n != 2 {
		t.Errorf("expected 2 joystick samples, got %d", n)
	}
}

func TestProcessFrameCancelled(t *testing.T) {
	a := New(testSets(), DefaultParams())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.ProcessFrame(ctx, framesource.Frame{Image: hudFrame()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if a.Timeline().Len() != 0 {
		t.Error("expected no record for a cancelled frame")
	}
}

func TestNormalize(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 640, 360))
	if b := Normalize(small).Bounds(); b != image.Rect(0, 0, WORK_W, WORK_H) {
		t.Errorf("expected canonical bounds, got %v", b)
	}
	shifted := image.NewRGBA(image.Rect(5, 5, 5+WORK_W, 5+WORK_H))
	if b := Normalize(shifted).Bounds(); b.Min != (image.Point{}) {
		t.Errorf("expected frame moved to the origin, got %v", b)
	}
	canonical := image.NewRGBA(image.Rect(0, 0, WORK_W, WORK_H))
	if Normalize(canonical) != image.Image(canonical) {
		t.Error("expected canonical frame to be returned as is")
	}
}

func TestResetStartsNewTimeline(t *testing.T) {
	a := New(testSets(), DefaultParams(), hudMask)
	ctx := context.Background()
	if _, err := a.ProcessFrame(ctx, framesource.Frame{Image: hudFrame(), Timestamp: 1000}); err != nil {
		t.Fatalf("ProcessFrame failed: %v", err)
	}
	a.Reset()
	if len(a.Heroes()) != 0 {
		t.Error("expected no heroes after reset")
	}
	if _, err := a.ProcessFrame(ctx, framesource.Frame{Image: hudFrame(), Timestamp: 0}); err != nil {
		t.Errorf("expected any timestamp after reset, got %v", err)
	}
	if a.Timeline().Len() != 1 {
		t.Fatalf("expected only the post-reset frame, got %d", a.Timeline().Len())
	}
	if got := a.Timeline().Since(0, 0); got[0].Timestamp != 0 {
		t.Errorf("expected the post-reset frame, got ts %d", got[0].Timestamp)
	}
	if got := a.Timeline().Since(500, 0); len(got) != 0 {
		t.Errorf("expected no pre-reset records, got %d", len(got))
	}
}

type sliceSource struct {
	frames []framesource.Frame
}

func (s *sliceSource) Next(ctx context.Context) (framesource.Frame, error) {
	if err := ctx.Err(); err != nil {
		return framesource.Frame{}, err
	}
	if len(s.frames) == 0 {
		return framesource.Frame{}, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

type recordSink struct {
	got []int64
	err error
}

func (r *recordSink) WriteFrame(_ context.Context, _ framesource.Frame, fs status.FrameStatus) error {
	r.got = append(r.got, fs.Timestamp)
	return r.err
}

func TestRunSkipsOutOfOrder(t *testing.T) {
	frame := hudFrame()
	src := &sliceSource{}
	for _, ts := range []int64{0, 100, 50, 200} {
		src.frames = append(src.frames, framesource.Frame{Image: frame, Timestamp: ts})
	}
	sink := &recordSink{}
	session := NewSession(New(testSets(), DefaultParams(), hudMask))

	n, err := Run(context.Background(), session, src, sink)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 3 || len(sink.got) != 3 || sink.got[2] != 200 {
		t.Errorf("expected 3 frames ending at 200, got n=%d %v", n, sink.got)
	}
	if latest, ok := session.Latest(); !ok || latest.Timestamp != 200 {
		t.Errorf("expected latest at 200, got %+v", latest)
	}
	if got := session.Since(100, 0); len(got) != 2 {
		t.Errorf("expected 2 records since 100, got %d", len(got))
	}
}

func TestRunStopsOnSinkError(t *testing.T) {
	src := &sliceSource{frames: []framesource.Frame{{Image: hudFrame(), Timestamp: 0}, {Image: hudFrame(), Timestamp: 1}}}
	boom := errors.New("disk full")
	n, err := Run(context.Background(), New(testSets(), DefaultParams()), src, &recordSink{err: boom})
	if !errors.Is(err, boom) || n != 1 {
		t.Errorf("expected sink error after 1 frame, got n=%d err=%v", n, err)
	}
}
