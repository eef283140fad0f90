package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// CropAndCenter crops to the bounding box of non-transparent pixels, then
// scales it to fill fillRatio of a size×size canvas and centers it.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	r, ok := AlphaBounds(img)
	if !ok {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}
	return scaleAndCenter(img.SubImage(r).(*image.NRGBA), size, fillRatio)
}

// AlphaBounds returns the smallest rectangle holding every pixel with
// non-zero alpha. ok is false for a fully transparent image.
func AlphaBounds(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func scaleAndCenter(img *image.NRGBA, canvasSize int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return canvas
	}
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = 1
	}

	// Scale to fit within fillRatio of canvas
	scaleF := float64(canvasSize) * fillRatio / math.Max(float64(srcW), float64(srcH))
	newW := max(1, int(float64(srcW)*scaleF+0.5))
	newH := max(1, int(float64(srcH)*scaleF+0.5))

	offX := (canvasSize - newW) / 2
	offY := (canvasSize - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, b, draw.Src, nil)
	return canvas
}
