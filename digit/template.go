package digit

import (
	"errors"
	"fmt"
	"image"
)

// Count is the number of templates in a Set, one per decimal digit.
const Count = 10

// ErrIncompleteSet is returned when a set is built from anything but ten usable bitmaps.
var ErrIncompleteSet = errors.New("digit: template set needs ten non-empty bitmaps")

// Template is the reference bitmap of one digit.
type Template struct {
	Digit  int
	Bitmap *image.Gray
}

// hwRatio returns height divided by width.
func (t Template) hwRatio() float64 {
	b := t.Bitmap.Bounds()
	return float64(b.Dy()) / float64(b.Dx())
}

// Set is an ordered, immutable group of ten digit templates.
// The order is the tie-break priority during classification.
type Set struct {
	name      string
	templates [Count]Template
}

// NewSet builds a Set from bitmaps for the digits 0 to 9, in that order.
func NewSet(name string, bitmaps []*image.Gray) (*Set, error) {
	if len(bitmaps) != Count {
		return nil, fmt.Errorf("%w: %s has %d", ErrIncompleteSet, name, len(bitmaps))
	}
	s := &Set{name: name}
	for i, bm := range bitmaps {
		if bm == nil || bm.Bounds().Empty() {
			return nil, fmt.Errorf("%w: %s digit %d is empty", ErrIncompleteSet, name, i)
		}
		s.templates[i] = Template{Digit: i, Bitmap: bm}
	}
	return s, nil
}

// Name returns the set name given at construction, or "" for a nil set.
func (s *Set) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Template returns the template of digit d.
func (s *Set) Template(d int) Template { return s.templates[d] }
