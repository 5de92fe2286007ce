// Package digittest provides synthetic digit glyphs for tests of the recognition pipeline.
package digittest

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/digit"
)

// Glyphs are tight-cropped 7-row digit shapes, each a single 8-connected component.
var Glyphs = [digit.Count][]string{
	{".###.", "#...#", "#...#", "#...#", "#...#", "#...#", ".###."},
	{".#.", "##.", ".#.", ".#.", ".#.", ".#.", "###"},
	{".###.", "#...#", "....#", "...#.", "..#..", ".#...", "#####"},
	{"####.", "....#", "....#", ".###.", "....#", "....#", "####."},
	{"...#.", "..##.", ".#.#.", "#..#.", "#####", "...#.", "...#."},
	{"#####", "#....", "####.", "....#", "....#", "#...#", ".###."},
	{"..##.", ".#...", "#....", "####.", "#...#", "#...#", ".###."},
	{"#####", "....#", "...#.", "..#..", "..#..", "..#..", "..#.."},
	{".###.", "#...#", "#...#", ".###.", "#...#", "#...#", ".###."},
	{".###.", "#...#", "#...#", ".####", "....#", "...#.", ".##.."},
}

// Size returns the pixel size of digit d drawn at scale.
func Size(d, scale int) image.Point {
	return image.Pt(len(Glyphs[d][0])*scale, len(Glyphs[d])*scale)
}

// Bitmap renders digit d at scale as a binary image anchored at the origin.
func Bitmap(d, scale int) *image.Gray {
	sz := Size(d, scale)
	img := image.NewGray(image.Rectangle{Max: sz})
	Draw(img, d, image.Point{}, scale, color.Gray{Y: 0xff})
	return img
}

// Draw paints digit d with its top-left corner at at and returns the painted bounding box.
func Draw(dst draw.Image, d int, at image.Point, scale int, c color.Color) image.Rectangle {
	for y, row := range Glyphs[d] {
		for x, ch := range row {
			if ch != '#' {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					dst.Set(at.X+x*scale+dx, at.Y+y*scale+dy, c)
				}
			}
		}
	}
	return image.Rectangle{Min: at, Max: at.Add(Size(d, scale))}
}

// Set builds a template set from the glyphs at scale.
func Set(name string, scale int) *digit.Set {
	bitmaps := make([]*image.Gray, digit.Count)
	for d := range bitmaps {
		bitmaps[d] = Bitmap(d, scale)
	}
	s, err := digit.NewSet(name, bitmaps)
	if err != nil {
		panic(err)
	}
	return s
}
