package framesource

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"
)

// ScreenSource captures a rectangle of the live desktop at a fixed interval.
type ScreenSource struct {
	rect     image.Rectangle
	interval time.Duration
	start    time.Time
	last     time.Time
	count    int
	capture  func(image.Rectangle) (*image.RGBA, error)
}

var _ Source = (*ScreenSource)(nil)

// NewScreenSource captures rect every interval. An empty rect selects the bounds of display 0.
func NewScreenSource(rect image.Rectangle, interval time.Duration) (*ScreenSource, error) {
	if rect.Empty() {
		if screenshot.NumActiveDisplays() == 0 {
			return nil, fmt.Errorf("no active display")
		}
		rect = screenshot.GetDisplayBounds(0)
	}
	return &ScreenSource{rect: rect, interval: interval, capture: screenshot.CaptureRect}, nil
}

// Next implements Source. It never returns io.EOF; cancel ctx to stop.
func (s *ScreenSource) Next(ctx context.Context) (Frame, error) {
	if !s.last.IsZero() && s.interval > 0 {
		wait := time.Until(s.last.Add(s.interval))
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Frame{}, ctx.Err()
			case <-timer.C:
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	now := time.Now()
	if s.start.IsZero() {
		s.start = now
	}
	img, err := s.capture(s.rect)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	s.last = now
	s.count++
	return Frame{
		Image:     img,
		Timestamp: now.Sub(s.start).Milliseconds(),
		Name:      fmt.Sprintf("screen_%06d", s.count),
	}, nil
}
