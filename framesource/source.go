// Package framesource supplies gameplay frames in timestamp order.
package framesource

import (
	"context"
	"image"
)

// Frame is one screen capture.
type Frame struct {
	Image image.Image
	// Timestamp in milliseconds.
	Timestamp int64
	Name      string
}

// Source yields frames until it returns io.EOF.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}
