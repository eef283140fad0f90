package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"md5-bind-renderer/internal/mathutil"
)

// Vertices is one projected submesh: screen coordinates, view-space
// normals and texture coordinates, all indexed alike.
type Vertices struct {
	PX, PY, PZ []float64
	Normals    []mathutil.Vec3
	UVs        []mgl32.Vec2
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, and ACES tone mapping.
//
// Shading is Gouraud: the lighting scalar is evaluated at each corner from
// the smoothed vertex normal and interpolated. A corner with a zero normal
// uses the face normal instead.
func RasterizeTriangle(
	fb *FrameBuffer,
	vs *Vertices,
	idx [3]int,
	tex *image.NRGBA,
	defaultR, defaultG, defaultB, defaultA uint8,
	lc *LightConfig,
) {
	nv := len(vs.PX)
	for _, i := range idx {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := vs.PX[idx[0]], vs.PY[idx[0]], vs.PZ[idx[0]]
	x1, y1, z1 := vs.PX[idx[1]], vs.PY[idx[1]], vs.PZ[idx[1]]
	x2, y2, z2 := vs.PX[idx[2]], vs.PY[idx[2]], vs.PZ[idx[2]]

	hasUV := tex != nil && len(vs.UVs) == nv
	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(vs.UVs[idx[0]][0]), float64(vs.UVs[idx[0]][1])
		u1, v1uv = float64(vs.UVs[idx[1]][0]), float64(vs.UVs[idx[1]][1])
		u2, v2uv = float64(vs.UVs[idx[2]][0]), float64(vs.UVs[idx[2]][1])
	}

	// Face normal, the fallback for corners without a smoothed normal
	face := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0})
	if face.Len() < 1e-8 {
		return
	}
	face = face.Normalize()
	var shade [3]float64
	for k, i := range idx {
		n := face
		if len(vs.Normals) == nv && vs.Normals[i].Len() > 0 {
			n = vs.Normals[i].Normalize()
		}
		shade[k] = lc.ComputeShade(n)
	}

	// Bounding box
	size := fb.Width
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= size {
		maxX = size - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	invGamma := lc.InvGamma

	// Pixel loop, no allocations
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			} else {
				cr, cg, cb, ca = defaultR, defaultG, defaultB, defaultA
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			s := (w0*shade[0] + w1*shade[1] + w2*shade[2]) * exposure

			// sRGB decode → linear (LUT), shade, tone map, encode
			fr := math.Pow(ACESTonemap(srgbToLinear[cr]*s), invGamma)
			fg := math.Pow(ACESTonemap(srgbToLinear[cg]*s), invGamma)
			ffb := math.Pow(ACESTonemap(srgbToLinear[cb]*s), invGamma)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(fr * 255)
			fb.Color[pxIdx+1] = clamp255(fg * 255)
			fb.Color[pxIdx+2] = clamp255(ffb * 255)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
