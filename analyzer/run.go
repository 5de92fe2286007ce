package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
)

// Processor turns frames into records. Analyzer and Session implement it.
type Processor interface {
	ProcessFrame(ctx context.Context, f framesource.Frame) (status.FrameStatus, error)
}

// Sink receives every processed frame.
type Sink interface {
	WriteFrame(ctx context.Context, f framesource.Frame, fs status.FrameStatus) error
}

// Run feeds frames from src to p until src is exhausted or ctx is cancelled, handing each record
// to every sink. Out-of-order frames are skipped. Run returns the number of processed frames;
// exhaustion is not an error.
func Run(ctx context.Context, p Processor, src framesource.Source, sinks ...Sink) (int, error) {
	n := 0
	for {
		f, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			anaLog.Info().Int("frames", n).Msg("frame source exhausted")
			return n, nil
		}
		if err != nil {
			return n, err
		}

		fs, err := p.ProcessFrame(ctx, f)
		if errors.Is(err, ErrOutOfOrder) {
			anaLog.Warn().Err(err).Msg("frame skipped")
			continue
		}
		if err != nil {
			return n, err
		}
		n++

		for _, sink := range sinks {
			if err := sink.WriteFrame(ctx, f, fs); err != nil {
				return n, fmt.Errorf("sink failed on %s: %w", f.Name, err)
			}
		}
	}
}
