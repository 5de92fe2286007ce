package analyzer

import (
	"context"
	"image"
	"sync"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/tracker"
)

// Session shares an Analyzer between one writer and many readers. Each frame update is
// applied under the write lock, so readers never observe a half-processed frame.
type Session struct {
	mu sync.RWMutex
	a  *Analyzer
}

// NewSession wraps a.
func NewSession(a *Analyzer) *Session {
	return &Session{a: a}
}

// ProcessFrame is Analyzer.ProcessFrame under the write lock.
func (s *Session) ProcessFrame(ctx context.Context, f framesource.Frame) (status.FrameStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.ProcessFrame(ctx, f)
}

// TrackHeroes is Analyzer.TrackHeroes under the write lock.
func (s *Session) TrackHeroes(ts int64, img image.Image) []tracker.HeroStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.TrackHeroes(ts, img)
}

// Reset is Analyzer.Reset under the write lock.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Heroes returns the live hero entities.
func (s *Session) Heroes() []tracker.HeroEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Heroes()
}

// Latest returns the most recent frame record.
func (s *Session) Latest() (status.FrameStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Timeline().Latest()
}

// Since returns up to limit frame records starting at timestamp from.
func (s *Session) Since(from int64, limit int) []status.FrameStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Timeline().Since(from, limit)
}

// AxisStats reports the joystick-to-axis distance statistics.
func (s *Session) AxisStats() (mean, stddev float64, n int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.AxisStats()
}

// Analyzer exposes the stateless readers of the wrapped analyzer.
func (s *Session) Analyzer() Reader { return s.a }

// Reader is the stateless part of an Analyzer, safe to call without the session lock.
type Reader interface {
	ReadSpell(img image.Image, i int) int
	ReadSkill(img image.Image, i int) int
	ReadMoney(img image.Image) int
}
