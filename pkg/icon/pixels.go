package icon

import "image"

// fromBGRA converts a premultiplied top-down BGRA buffer, as GDI renders it, to an image. Icons
// without an alpha channel leave alpha at zero; their opacity comes from the AND mask, which is
// black where the icon is painted. Without a mask every pixel of such an icon is opaque.
func fromBGRA(bgra, mask []byte, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	hasAlpha := false
	for i := 3; i < len(bgra); i += 4 {
		if bgra[i] != 0 {
			hasAlpha = true
			break
		}
	}

	for i := 0; i+3 < len(bgra) && i+3 < len(img.Pix); i += 4 {
		b, g, r, a := bgra[i], bgra[i+1], bgra[i+2], bgra[i+3]
		if !hasAlpha {
			a = 0xFF
			if i+2 < len(mask) && mask[i]|mask[i+1]|mask[i+2] != 0 {
				r, g, b, a = 0, 0, 0, 0
			}
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}
