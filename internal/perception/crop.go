package perception

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

const maxCropScale = 8

// CropScaled copies rect out of img into a new image anchored at the origin,
// resampling by factor with Catmull-Rom when factor is not 1.
func CropScaled(img image.Image, rect image.Rectangle, factor float64) (image.Image, error) {
	rect = rect.Canon()
	clipped := rect.Intersect(img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("region %v outside image bounds %v", rect, img.Bounds())
	}
	if factor <= 0 || factor == 1 {
		dst := image.NewRGBA(image.Rect(0, 0, clipped.Dx(), clipped.Dy()))
		draw.Draw(dst, dst.Bounds(), img, clipped.Min, draw.Src)
		return dst, nil
	}
	if factor > maxCropScale {
		factor = maxCropScale
	}
	width := max(1, int(math.Round(float64(clipped.Dx())*factor)))
	height := max(1, int(math.Round(float64(clipped.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, clipped, draw.Src, nil)
	return dst, nil
}
