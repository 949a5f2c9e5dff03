package imgio

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// DecodeTIFFDepth decodes a 16-bit grayscale TIFF depth map into dst.
// Pixel values are interpreted as metric depth in millimeters, matching
// the PGM convention. Some depth-completion tools publish their output in
// this format instead of PGM.
func DecodeTIFFDepth(r io.Reader, dst *Depth) error {
	img, err := tiff.Decode(r)
	if err != nil {
		return fmt.Errorf("decode tiff: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		return dimError(b.Dx(), b.Dy(), dst.Width, dst.Height)
	}

	if src, ok := img.(*image.Gray16); ok {
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				i := y*src.Stride + x*2
				v := uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
				if v > 32767 {
					v = 32767
				}
				dst.Pix[y*dst.Width+x] = int16(v)
			}
		}
		return nil
	}

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			v, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if v > 32767 {
				v = 32767
			}
			dst.Pix[y*dst.Width+x] = int16(v)
		}
	}
	return nil
}
