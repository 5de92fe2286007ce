package herorecog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/analyzer"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
)

const maskFile = "mask.bmp"

// state is the analyzer shared by every recognition of the agent process.
type state struct {
	once    sync.Once
	session *analyzer.Session
	err     error

	clockMu sync.Mutex
	start   time.Time
}

var shared state

// ensureReady loads the digit samples and the level icon mask once.
func (s *state) ensureReady() (*analyzer.Session, error) {
	s.once.Do(func() {
		dir, err := digit.ResolveSamplesDir()
		if err != nil {
			s.err = fmt.Errorf("failed to resolve samples dir: %w", err)
			return
		}
		sets, err := digit.LoadSets(dir)
		if err != nil {
			s.err = err
			return
		}

		var masks []region.Mask
		maskPath := filepath.Join(dir, maskFile)
		if _, statErr := os.Stat(maskPath); statErr == nil {
			m, err := region.LoadRasterMask(maskPath)
			if err != nil {
				s.err = err
				return
			}
			masks = append(masks, m)
		} else {
			recoLog.Warn().Str("path", maskPath).Msg("level icon mask not found, searching the whole frame")
		}

		s.session = analyzer.NewSession(analyzer.New(sets, analyzer.DefaultParams(), masks...))
		recoLog.Info().Str("dir", dir).Int("masks", len(masks)).Msg("hero recognition ready")
	})
	return s.session, s.err
}

// now returns milliseconds since the current task started.
func (s *state) now() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	if s.start.IsZero() {
		s.start = time.Now()
	}
	return time.Since(s.start).Milliseconds()
}

// restart resets the task clock and the tracked heroes.
func (s *state) restart() error {
	s.clockMu.Lock()
	s.start = time.Now()
	s.clockMu.Unlock()
	sess, err := s.ensureReady()
	if err != nil {
		return err
	}
	sess.Reset()
	return nil
}
