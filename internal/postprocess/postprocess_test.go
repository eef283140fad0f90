package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func TestAlphaBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if _, ok := AlphaBounds(img); ok {
		t.Fatal("transparent image reported bounds")
	}
	img.SetNRGBA(2, 3, color.NRGBA{A: 1})
	img.SetNRGBA(6, 8, color.NRGBA{A: 255})
	r, ok := AlphaBounds(img)
	if want := image.Rect(2, 3, 7, 9); !ok || r != want {
		t.Fatalf("AlphaBounds\nhave %v, %v\nwant %v", r, ok, want)
	}
}

func TestCropAndCenter(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, 30+y, color.NRGBA{R: 255, A: 255})
		}
	}
	out := CropAndCenter(img, 20, 1)
	r, ok := AlphaBounds(out)
	if !ok {
		t.Fatal("crop lost every pixel")
	}
	if r.Dx() != 20 || r.Min.Y < 4 || r.Max.Y > 16 {
		t.Fatalf("centered bounds\nhave %v\nwant full width, vertically centered", r)
	}
	if c := out.NRGBAAt(10, 10); c.A == 0 || c.R < 200 {
		t.Fatalf("center pixel\nhave %v", c)
	}

	empty := CropAndCenter(image.NewNRGBA(image.Rect(0, 0, 5, 5)), 8, 0.9)
	if empty.Bounds().Dx() != 8 {
		t.Fatalf("empty canvas size\nhave %v", empty.Bounds())
	}
}

func TestDownsample(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 100, 150, 200, 255
	}
	out := Downsample(img, 4)
	if out.Bounds().Dx() != 4 {
		t.Fatalf("size\nhave %v\nwant 4x4", out.Bounds())
	}
	c := out.NRGBAAt(1, 1)
	want := color.NRGBA{100, 150, 200, 255}
	if near(c.R, want.R) && near(c.G, want.G) && near(c.B, want.B) && near(c.A, want.A) {
		return
	}
	t.Fatalf("uniform pixel\nhave %v\nwant %v", c, want)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestDownsampleNoop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	if Downsample(img, 16) != img {
		t.Fatal("upscale request did not return the input")
	}
}
