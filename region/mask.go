package region

import (
	"fmt"
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
)

// Mask is an exclusion area. Inside reports whether p lies strictly inside it.
type Mask interface {
	Inside(p image.Point) bool
}

// Polygon is a closed polygon given by its vertices in order.
type Polygon []image.Point

var _ Mask = Polygon(nil)

// Inside uses the even-odd rule. Points on an edge are not inside.
func (poly Polygon) Inside(p image.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[j], poly[i]
		if onSegment(a, b, p) {
			return false
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			// x of the edge at row p.Y, compared without division
			lhs := (p.X - a.X) * (b.Y - a.Y)
			rhs := (b.X - a.X) * (p.Y - a.Y)
			if b.Y > a.Y {
				if lhs < rhs {
					inside = !inside
				}
			} else if lhs > rhs {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, p image.Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// RasterMask is built from a binary exclusion bitmap. Every foreground component has its
// holes filled; a point is inside when it is covered and is not on the covered area's border.
type RasterMask struct {
	bounds   image.Rectangle
	interior []bool
}

var _ Mask = (*RasterMask)(nil)

// NewRasterMask builds a mask from bin, whose foreground pixels mark excluded areas.
func NewRasterMask(bin *image.Gray) *RasterMask {
	g := newGrid(bin)
	m := &RasterMask{bounds: bin.Bounds(), interior: make([]bool, len(g.set))}
	if len(g.set) == 0 {
		return m
	}
	out := g.outside()
	covered := func(x, y int) bool {
		return g.in(x, y) && !out[y*g.w+x]
	}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if !covered(x, y) {
				continue
			}
			border := false
			for _, d := range neighbors4 {
				if !covered(x+d.X, y+d.Y) {
					border = true
					break
				}
			}
			m.interior[y*g.w+x] = !border
		}
	}
	return m
}

// LoadRasterMask reads a BMP or PNG exclusion bitmap; nonzero pixels are excluded.
func LoadRasterMask(path string) (*RasterMask, error) {
	img, err := imgproc.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask: %w", err)
	}
	return NewRasterMask(imgproc.Threshold(imgproc.ToGray(img), 0)), nil
}

// Inside implements Mask.
func (m *RasterMask) Inside(p image.Point) bool {
	if !p.In(m.bounds) {
		return false
	}
	w := m.bounds.Dx()
	return m.interior[(p.Y-m.bounds.Min.Y)*w+p.X-m.bounds.Min.X]
}

// Bounds returns the area covered by the bitmap.
func (m *RasterMask) Bounds() image.Rectangle { return m.bounds }
