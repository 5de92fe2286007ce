package imgproc

import (
	"image"
	"image/color"
)

const (
	// Foreground is the pixel value of a set pixel in every binary image of this module.
	Foreground uint8 = 0xff
	// Background is the pixel value of an unset pixel.
	Background uint8 = 0x00
)

// ToGray converts an image to grayscale with the luma formula Y = 0.299*R + 0.587*G + 0.114*B.
// The bounds of the source image are kept, so sub-images stay in frame coordinates.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	grayImg := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA() is [0, 65535], shift to [0, 255]
			lum := uint8(0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8))
			grayImg.SetGray(x, y, color.Gray{Y: lum})
		}
	}
	return grayImg
}

// Threshold marks every pixel strictly brighter than thres as Foreground.
func Threshold(gray *image.Gray, thres uint8) *image.Gray {
	bounds := gray.Bounds()
	result := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > thres {
				result.SetGray(x, y, color.Gray{Y: Foreground})
			}
		}
	}
	return result
}

// Binarize converts img to grayscale and thresholds it.
// A threshold <= 0 selects Otsu's automatic threshold; values above 255 leave the result empty.
func Binarize(img image.Image, thres int) *image.Gray {
	gray := ToGray(img)
	switch {
	case thres <= 0:
		return Threshold(gray, OtsuThreshold(gray))
	case thres > 255:
		return image.NewGray(gray.Bounds())
	default:
		return Threshold(gray, uint8(thres))
	}
}

// IsSet reports whether a binary pixel value counts as foreground.
func IsSet(v uint8) bool {
	return v != Background
}

// OtsuThreshold 使用大津法计算最佳二值化阈值
// OtsuThreshold picks the threshold maximizing the between-class variance of the histogram.
func OtsuThreshold(img *image.Gray) uint8 {
	bounds := img.Bounds()

	var histogram [256]int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[img.GrayAt(x, y).Y]++
		}
	}

	totalPixels := bounds.Dx() * bounds.Dy()
	if totalPixels == 0 {
		return 128
	}

	var totalSum float64
	for i := 0; i < 256; i++ {
		totalSum += float64(i) * float64(histogram[i])
	}

	var sumBackground float64
	var weightBackground, weightForeground int
	var maxVariance float64
	var bestThreshold uint8

	for t := 0; t < 256; t++ {
		weightBackground += histogram[t]
		if weightBackground == 0 {
			continue
		}

		weightForeground = totalPixels - weightBackground
		if weightForeground == 0 {
			break
		}

		sumBackground += float64(t) * float64(histogram[t])

		meanBackground := sumBackground / float64(weightBackground)
		meanForeground := (totalSum - sumBackground) / float64(weightForeground)

		variance := float64(weightBackground) * float64(weightForeground) *
			(meanBackground - meanForeground) * (meanBackground - meanForeground)

		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = uint8(t)
		}
	}

	return bestThreshold
}
