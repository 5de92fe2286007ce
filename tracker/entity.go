package tracker

import (
	"image"

	"github.com/rs/zerolog"
)

// Observation is one level reading at a screen position.
type Observation struct {
	Level    int
	Position image.Point
	// Timestamp in milliseconds.
	Timestamp int64
}

// HeroEntity is a persistent hero identity.
type HeroEntity struct {
	ID          int
	Position    image.Point
	Level       int
	LastUpdated int64
	Appearances int
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (h HeroEntity) MarshalZerologObject(e *zerolog.Event) {
	e.Int("id", h.ID).
		Int("level", h.Level).
		Int("x", h.Position.X).
		Int("y", h.Position.Y).
		Int64("last_updated", h.LastUpdated).
		Int("appearances", h.Appearances)
}

// Status returns the per-frame view of h.
func (h HeroEntity) Status() HeroStatus {
	return HeroStatus{ID: h.ID, Position: Point{X: h.Position.X, Y: h.Position.Y}, Level: h.Level}
}

// Point is a JSON friendly screen position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HeroStatus is the resolved identity of one observation in one frame.
type HeroStatus struct {
	ID       int   `json:"id"`
	Position Point `json:"position"`
	Level    int   `json:"level"`
}
