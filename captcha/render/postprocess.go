package render

import "image"

// PostProcess applies the scale-dependent degradation stage to a rendered
// canvas. Zoom 1 passes through unchanged; higher zooms are pixelated, and
// zooms above 2 additionally get a box blur. The input image is never
// modified.
func PostProcess(img *image.RGBA, zoom int) *image.RGBA {
	if zoom <= 1 {
		return img
	}
	out := pixelate(img, zoom)
	if zoom > 2 {
		out = boxBlur(out, zoom)
	}
	return out
}

// pixelate partitions the canvas into square blocks of side max(1, zoom/4)
// and floods each block with the color of its top-left pixel.
func pixelate(img *image.RGBA, zoom int) *image.RGBA {
	block := zoom / 4
	if block <= 1 {
		return img
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	out := image.NewRGBA(bounds)

	for by := 0; by < h; by += block {
		for bx := 0; bx < w; bx += block {
			c := img.RGBAAt(bounds.Min.X+bx, bounds.Min.Y+by)
			for y := by; y < by+block && y < h; y++ {
				for x := bx; x < bx+block && x < w; x++ {
					out.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, c)
				}
			}
		}
	}
	return out
}

// boxBlur convolves the canvas with a uniform square kernel of side
// max(1, zoom/6) whose weights sum to 0.3 + 0.1*zoom. Pixels where the
// kernel would read out of bounds keep their original value; there is no
// wraparound or edge extension. A kernel of side 1 would only scale pixel
// intensities, so it is skipped.
func boxBlur(img *image.RGBA, zoom int) *image.RGBA {
	side := zoom / 6
	if side <= 1 {
		return img
	}

	strength := 0.3 + 0.1*float64(zoom)
	weight := strength / float64(side*side)

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	out := image.NewRGBA(bounds)
	copy(out.Pix, img.Pix)

	// Kernel origin matches a centered convolution.
	origin := (side - 1) / 2

	for y := 0; y < h; y++ {
		if y-origin < 0 || y-origin+side > h {
			continue
		}
		for x := 0; x < w; x++ {
			if x-origin < 0 || x-origin+side > w {
				continue
			}
			var sumR, sumG, sumB float64
			for ky := 0; ky < side; ky++ {
				for kx := 0; kx < side; kx++ {
					c := img.RGBAAt(bounds.Min.X+x-origin+kx, bounds.Min.Y+y-origin+ky)
					sumR += float64(c.R) * weight
					sumG += float64(c.G) * weight
					sumB += float64(c.B) * weight
				}
			}
			idx := out.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			out.Pix[idx] = clampByte(sumR)
			out.Pix[idx+1] = clampByte(sumG)
			out.Pix[idx+2] = clampByte(sumB)
			out.Pix[idx+3] = 255
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
