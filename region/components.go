package region

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
)

var (
	neighbors4 = [4]image.Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	neighbors8 = [8]image.Point{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

// grid is a binary image flattened to a bool slice in local coordinates.
type grid struct {
	origin image.Point
	w, h   int
	set    []bool
}

func newGrid(bin *image.Gray) *grid {
	b := bin.Bounds()
	g := &grid{origin: b.Min, w: b.Dx(), h: b.Dy(), set: make([]bool, b.Dx()*b.Dy())}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.set[y*g.w+x] = imgproc.IsSet(bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return g
}

func (g *grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

// outside flood-fills the background reachable from the image border through 4-connected steps.
func (g *grid) outside() []bool {
	out := make([]bool, len(g.set))
	stack := make([]int, 0, 2*(g.w+g.h))
	push := func(x, y int) {
		i := y*g.w + x
		if !g.set[i] && !out[i] {
			out[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < g.w; x++ {
		push(x, 0)
		push(x, g.h-1)
	}
	for y := 0; y < g.h; y++ {
		push(0, y)
		push(g.w-1, y)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%g.w, i/g.w
		for _, d := range neighbors4 {
			if nx, ny := x+d.X, y+d.Y; g.in(nx, ny) {
				push(nx, ny)
			}
		}
	}
	return out
}

// ExternalComponents returns the bounding boxes of the 8-connected foreground components
// of bin that are not enclosed by another component, in raster discovery order.
// Boxes are in bin's coordinate space.
func ExternalComponents(bin *image.Gray) []image.Rectangle {
	g := newGrid(bin)
	if g.w == 0 || g.h == 0 {
		return nil
	}
	out := g.outside()
	seen := make([]bool, len(g.set))

	var boxes []image.Rectangle
	var stack []int
	for start := range g.set {
		if !g.set[start] || seen[start] {
			continue
		}
		seen[start] = true
		stack = append(stack[:0], start)
		box := image.Rect(start%g.w, start/g.w, start%g.w+1, start/g.w+1)
		external := false

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%g.w, i/g.w
			box = box.Union(image.Rect(x, y, x+1, y+1))

			if !external {
				if x == 0 || y == 0 || x == g.w-1 || y == g.h-1 {
					external = true
				} else {
					for _, d := range neighbors4 {
						if out[(y+d.Y)*g.w+x+d.X] {
							external = true
							break
						}
					}
				}
			}

			for _, d := range neighbors8 {
				nx, ny := x+d.X, y+d.Y
				if !g.in(nx, ny) {
					continue
				}
				if j := ny*g.w + nx; g.set[j] && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
		if external {
			boxes = append(boxes, box.Add(g.origin))
		}
	}
	return boxes
}
