package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a square supersampled render to targetSize with
// premultiplied-alpha CatmullRom filtering, so transparent edges do not
// pick up dark fringes.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if targetSize <= 0 || (b.Dx() <= targetSize && b.Dy() <= targetSize) {
		return img
	}

	// image.RGBA is premultiplied; draw converts on the way in.
	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	return unpremultiply(dst)
}

func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := float64(src.Pix[i+3])
		if a > 1 {
			inv := 255.0 / a
			out.Pix[i] = clamp8(float64(src.Pix[i]) * inv)
			out.Pix[i+1] = clamp8(float64(src.Pix[i+1]) * inv)
			out.Pix[i+2] = clamp8(float64(src.Pix[i+2]) * inv)
		}
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
