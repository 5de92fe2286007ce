package region

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/pkg/imgproc"
)

func fillRect(img *image.Gray, r image.Rectangle) {
	draw.Draw(img, r, image.NewUniform(color.Gray{Y: imgproc.Foreground}), image.Point{}, draw.Src)
}

func TestExternalComponentsOrderAndBoxes(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 30, 20))
	fillRect(bin, image.Rect(20, 2, 24, 8))
	fillRect(bin, image.Rect(3, 5, 6, 15))

	boxes := ExternalComponents(bin)
	if len(boxes) != 2 {
		t.Fatalf("expected 2 components, got %v", boxes)
	}
	if boxes[0] != image.Rect(20, 2, 24, 8) || boxes[1] != image.Rect(3, 5, 6, 15) {
		t.Errorf("unexpected boxes or order: %v", boxes)
	}
}

func TestExternalComponentsSkipsEnclosed(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 20, 20))
	fillRect(bin, image.Rect(2, 2, 18, 18))
	draw.Draw(bin, image.Rect(4, 4, 16, 16), image.NewUniform(color.Gray{}), image.Point{}, draw.Src)
	fillRect(bin, image.Rect(8, 8, 11, 11))

	boxes := ExternalComponents(bin)
	if len(boxes) != 1 || boxes[0] != image.Rect(2, 2, 18, 18) {
		t.Errorf("expected only the ring, got %v", boxes)
	}
}

func TestExternalComponentsDiagonalAndBorder(t *testing.T) {
	bin := image.NewGray(image.Rect(10, 10, 20, 20))
	bin.SetGray(10, 10, color.Gray{Y: 0xff})
	bin.SetGray(11, 11, color.Gray{Y: 0xff})
	bin.SetGray(15, 15, color.Gray{Y: 0xff})

	boxes := ExternalComponents(bin)
	if len(boxes) != 2 {
		t.Fatalf("expected 2 components, got %v", boxes)
	}
	if boxes[0] != image.Rect(10, 10, 12, 12) {
		t.Errorf("expected diagonal pixels merged at the border, got %v", boxes[0])
	}
}

func TestSizeFilterRelative(t *testing.T) {
	var f SizeFilter
	if !f.IsZero() {
		t.Fatal("expected zero filter to be relative")
	}
	// 20 rows, 40 cols: height in [12.5, 15.38], width in [4.30, 9.76]
	cases := []struct {
		size image.Point
		want bool
	}{
		{image.Pt(6, 14), true},
		{image.Pt(5, 13), true},
		{image.Pt(9, 15), true},
		{image.Pt(6, 12), false},
		{image.Pt(6, 16), false},
		{image.Pt(4, 14), false},
		{image.Pt(10, 14), false},
	}
	for _, c := range cases {
		if got := f.Accepts(c.size, 20, 40); got != c.want {
			t.Errorf("size %v: expected %v, got %v", c.size, c.want, got)
		}
	}
}

func TestSizeFilterExplicitInclusive(t *testing.T) {
	f := SizeFilter{HeightMin: 12, HeightMax: 15, WidthMin: 4, WidthMax: 10}
	if !f.Accepts(image.Pt(4, 12), 720, 1280) || !f.Accepts(image.Pt(10, 15), 720, 1280) {
		t.Error("expected limits to be inclusive")
	}
	if f.Accepts(image.Pt(11, 14), 720, 1280) || f.Accepts(image.Pt(6, 11), 720, 1280) {
		t.Error("expected out-of-range sizes to be rejected")
	}
}

func TestPolygonInside(t *testing.T) {
	poly := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cases := []struct {
		p    image.Point
		want bool
	}{
		{image.Pt(5, 5), true},
		{image.Pt(1, 9), true},
		{image.Pt(0, 5), false},
		{image.Pt(10, 10), false},
		{image.Pt(5, 0), false},
		{image.Pt(11, 5), false},
		{image.Pt(-1, -1), false},
	}
	for _, c := range cases {
		if got := poly.Inside(c.p); got != c.want {
			t.Errorf("point %v: expected %v, got %v", c.p, c.want, got)
		}
	}

	tri := Polygon{{0, 0}, {10, 10}, {0, 10}}
	if !tri.Inside(image.Pt(2, 8)) || tri.Inside(image.Pt(8, 2)) || tri.Inside(image.Pt(5, 5)) {
		t.Error("unexpected triangle containment")
	}
	if (Polygon{{0, 0}, {5, 5}}).Inside(image.Pt(2, 2)) {
		t.Error("expected degenerate polygon to contain nothing")
	}
}

func TestRasterMaskFillsHolesAndExcludesBorder(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 20, 20))
	fillRect(bin, image.Rect(5, 5, 15, 15))
	draw.Draw(bin, image.Rect(7, 7, 13, 13), image.NewUniform(color.Gray{}), image.Point{}, draw.Src)
	m := NewRasterMask(bin)

	cases := []struct {
		p    image.Point
		want bool
	}{
		{image.Pt(10, 10), true},
		{image.Pt(6, 6), true},
		{image.Pt(5, 5), false},
		{image.Pt(14, 10), false},
		{image.Pt(2, 2), false},
		{image.Pt(40, 40), false},
	}
	for _, c := range cases {
		if got := m.Inside(c.p); got != c.want {
			t.Errorf("point %v: expected %v, got %v", c.p, c.want, got)
		}
	}
}

func TestLocateMaskCornerRule(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 100, 40))
	fillRect(bin, image.Rect(10, 10, 16, 24))
	fillRect(bin, image.Rect(40, 10, 46, 24))
	fillRect(bin, image.Rect(70, 10, 76, 24))

	masks := []Mask{
		// covers only the top-left corner of the first box
		Polygon{{5, 5}, {12, 5}, {12, 12}, {5, 12}},
		// sits inside the second box without reaching any corner
		Polygon{{41, 12}, {44, 12}, {44, 20}, {41, 20}},
	}
	boxes := Locate(bin, Options{Size: SizeFilter{HeightMin: 12, HeightMax: 15, WidthMin: 4, WidthMax: 10}, Masks: masks})
	if len(boxes) != 2 || boxes[0].Min.X != 40 || boxes[1].Min.X != 70 {
		t.Errorf("expected boxes at x=40 and x=70, got %v", boxes)
	}
}

func TestLocateColorGate(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 60, 30))
	draw.Draw(frame, image.Rect(5, 5, 11, 19), image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), image.Point{}, draw.Src)
	draw.Draw(frame, image.Rect(30, 5, 36, 19), image.NewUniform(color.RGBA{R: 255, G: 220, A: 255}), image.Point{}, draw.Src)

	bin := imgproc.Binarize(frame, 100)
	opts := Options{Size: SizeFilter{HeightMin: 12, HeightMax: 15, WidthMin: 4, WidthMax: 10}}
	if boxes := Locate(bin, opts); len(boxes) != 2 {
		t.Fatalf("expected both boxes without the gate, got %v", boxes)
	}

	opts.Color = frame
	boxes := Locate(bin, opts)
	if len(boxes) != 1 || boxes[0] != image.Rect(5, 5, 11, 19) {
		t.Errorf("expected only the white box, got %v", boxes)
	}
}
