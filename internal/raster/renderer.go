package raster

import (
	"image"

	"md5-bind-renderer/internal/mathutil"
	"md5-bind-renderer/internal/skin"
	"md5-bind-renderer/internal/texture"
	"md5-bind-renderer/internal/viewmatrix"
)

// Render draws merged skinned buffers under the view rotation R to an
// NRGBA image of size*supersample pixels square. Each range is textured
// with the diffuse map its shader resolves to, or flat grey.
func Render(
	b *skin.Buffers,
	R mathutil.Mat3,
	texResolver texture.Resolver,
	size int,
	supersample int,
) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	renderSize := size * supersample
	if b == nil || len(b.Indices) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	proj := viewmatrix.Fit(b.Positions, R, renderSize, 16*supersample)
	px, py, pz := proj.ProjectVertices(b.Positions)
	vs := &Vertices{
		PX:      px,
		PY:      py,
		PZ:      pz,
		Normals: proj.RotateNormals(b.Normals),
		UVs:     b.TexCoords,
	}

	// Allocate framebuffer
	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	for _, r := range b.Ranges {
		if r.IndexCount == 0 {
			continue
		}

		var tex *image.NRGBA
		if texResolver != nil {
			tex = texResolver.Resolve(r.Shader)
		}

		// Default color is the texture average when one exists
		var defR, defG, defB, defA uint8 = 160, 160, 170, 255
		if tex != nil {
			defR, defG, defB, defA = averageColor(tex)
		}

		tris := b.Indices[r.FirstIndex : r.FirstIndex+r.IndexCount]
		for i := 0; i+2 < len(tris); i += 3 {
			idx := [3]int{int(tris[i]), int(tris[i+1]), int(tris[i+2])}
			RasterizeTriangle(fb, vs, idx, tex, defR, defG, defB, defA, &lc)
		}
	}

	return fb.Image()
}

func averageColor(tex *image.NRGBA) (uint8, uint8, uint8, uint8) {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 160, 160, 170, 255
	}

	var sumR, sumG, sumB float64
	stride := tex.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255
}
