package analyzer

import (
	"image"

	"github.com/MaaXYZ/MaaEnd/agent/game-video/region"
)

const (
	WORK_W = 1280
	WORK_H = 720
)

// Money counter
var (
	MONEY_ROI  = image.Rect(18, 340, 18+64, 340+22)
	MONEY_SIZE = region.SizeFilter{HeightMin: 10, HeightMax: 16, WidthMin: 3, WidthMax: 11}
)

// Ability icons, cooldown digits are read inside the circles
var (
	SPELL_RADIUS  = 52.0
	SPELL_CENTERS = [3]image.Point{{1161, 420}, {1028, 497}, {949, 630}}
	SKILL_RADIUS  = 40.0
	SKILL_CENTERS = [4]image.Point{{643, 644}, {738, 644}, {837, 644}, {1155, 279}}
)

// Level icons
var (
	LEVEL_SIZE = region.SizeFilter{HeightMin: 12, HeightMax: 15, WidthMin: 4, WidthMax: 10}
)

// Virtual joystick
var (
	JOYSTICK_ROI          = image.Rect(58, 411, 58+294, 411+309)
	JOYSTICK_AXIS         = image.Pt(206, 559)
	JOYSTICK_MIN_DIAMETER = 80
	JOYSTICK_MAX_DIAMETER = 100
)

// CooldownROI returns the digit area of an ability circle: 1.6r wide and 0.8r high, centered.
func CooldownROI(center image.Point, radius float64) image.Rectangle {
	x := int(float64(center.X) - radius*0.8)
	y := int(float64(center.Y) - radius*0.4)
	return image.Rect(x, y, x+int(radius*1.6), y+int(radius*0.8))
}

// SpellROIs returns the cooldown areas of the three spells.
func SpellROIs() [3]image.Rectangle {
	var rois [3]image.Rectangle
	for i, c := range SPELL_CENTERS {
		rois[i] = CooldownROI(c, SPELL_RADIUS)
	}
	return rois
}

// SkillROIs returns the cooldown areas of the four skills.
func SkillROIs() [4]image.Rectangle {
	var rois [4]image.Rectangle
	for i, c := range SKILL_CENTERS {
		rois[i] = CooldownROI(c, SKILL_RADIUS)
	}
	return rois
}
