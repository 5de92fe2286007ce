package framesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true}

// DirSource reads captures named <anything>_<seconds>.<ext> from a directory in name order.
type DirSource struct {
	files []capture
	pos   int
}

type capture struct {
	path string
	ts   int64
}

var _ Source = (*DirSource)(nil)

// NewDirSource lists the images of dir and keeps the index window [start, end).
// end <= 0 keeps everything from start on. Images without a timestamp in their name are skipped.
func NewDirSource(dir string, start, end int) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list captures: %w", err)
	}
	var files []capture
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		ts, err := ParseTimestamp(e.Name())
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("capture skipped")
			continue
		}
		files = append(files, capture{path: filepath.Join(dir, e.Name()), ts: ts})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	if end <= 0 || end > len(files) {
		end = len(files)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	log.Info().Str("dir", dir).Int("total", len(files)).Int("start", start).Int("end", end).Msg("capture directory listed")
	return &DirSource{files: files[start:end]}, nil
}

// Len returns the number of frames in the window.
func (s *DirSource) Len() int { return len(s.files) }

// Next implements Source.
func (s *DirSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.pos >= len(s.files) {
		return Frame{}, io.EOF
	}
	c := s.files[s.pos]
	s.pos++

	name := filepath.Base(c.path)
	img, err := imaging.Open(c.path)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return Frame{Image: img, Timestamp: c.ts, Name: name}, nil
}

// ParseTimestamp reads the seconds between the last '_' and the last '.' of name
// and returns them in milliseconds.
func ParseTimestamp(name string) (int64, error) {
	us := strings.LastIndex(name, "_")
	dot := strings.LastIndex(name, ".")
	if us < 0 || dot <= us {
		return 0, fmt.Errorf("capture name %q has no _<seconds>.<ext> suffix", name)
	}
	secs, err := strconv.ParseFloat(name[us+1:dot], 64)
	if err != nil {
		return 0, fmt.Errorf("capture name %q: %w", name, err)
	}
	return int64(secs * 1000), nil
}
