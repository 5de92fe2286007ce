// Package store persists frame records.
package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/framesource"
	"github.com/MaaXYZ/MaaEnd/agent/game-video/status"
	"github.com/bytedance/sonic"
)

// JSONLSink writes one JSON object per frame record and line.
type JSONLSink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
}

// NewJSONLSink creates (or truncates) the file at path.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &JSONLSink{w: bufio.NewWriter(f), closer: f}, nil
}

// NewJSONLWriter writes to w. Close flushes but does not close w.
func NewJSONLWriter(w io.Writer) *JSONLSink {
	return &JSONLSink{w: bufio.NewWriter(w)}
}

// WriteFrame appends fs.
func (s *JSONLSink) WriteFrame(_ context.Context, _ framesource.Frame, fs status.FrameStatus) error {
	b, err := sonic.Marshal(fs)
	if err != nil {
		return fmt.Errorf("failed to encode frame %d: %w", fs.Timestamp, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Close flushes buffered records and closes the file, if any.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// ReadJSONL decodes every record written by a JSONLSink. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]status.FrameStatus, error) {
	var out []status.FrameStatus
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var fs status.FrameStatus
		if err := sonic.Unmarshal(sc.Bytes(), &fs); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, fs)
	}
	return out, sc.Err()
}
