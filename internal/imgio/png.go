package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

// ErrDimensions reports that a decoded file's dimensions disagree with
// the destination buffer (i.e. with the calibration descriptor).
var ErrDimensions = errors.New("imgio: frame dimensions disagree with buffer")

func dimError(gotW, gotH, wantW, wantH int) error {
	return fmt.Errorf("%w: file %dx%d, buffer %dx%d", ErrDimensions, gotW, gotH, wantW, wantH)
}

// DecodeGrayPNG decodes an 8-bit grayscale PNG into dst, converting from
// other color models if the file is not stored as grayscale.
func DecodeGrayPNG(r io.Reader, dst *Gray) error {
	img, err := png.Decode(r)
	if err != nil {
		return fmt.Errorf("decode gray png: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		return dimError(b.Dx(), b.Dy(), dst.Width, dst.Height)
	}

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < dst.Height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+dst.Width]
			copy(dst.Pix[y*dst.Width:], row)
		}
		return nil
	}

	// Slow path for PNGs not stored as 8-bit grayscale.
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, 16-bit channels scaled back to 8.
			luma := (299*cr + 587*cg + 114*cb) / 1000
			dst.Pix[y*dst.Width+x] = uint8(luma >> 8)
		}
	}
	return nil
}

// DecodeRGBPNG decodes a color PNG into dst, dropping any alpha channel.
func DecodeRGBPNG(r io.Reader, dst *RGB) error {
	img, err := png.Decode(r)
	if err != nil {
		return fmt.Errorf("decode rgb png: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		return dimError(b.Dx(), b.Dy(), dst.Width, dst.Height)
	}

	switch src := img.(type) {
	case *image.NRGBA:
		packRGBA(dst, src.Pix, src.Stride)
	case *image.RGBA:
		packRGBA(dst, src.Pix, src.Stride)
	default:
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*dst.Width + x) * 3
				dst.Pix[i] = uint8(cr >> 8)
				dst.Pix[i+1] = uint8(cg >> 8)
				dst.Pix[i+2] = uint8(cb >> 8)
			}
		}
	}
	return nil
}

// packRGBA copies 4-byte-per-pixel rows into dst's 3-byte layout.
func packRGBA(dst *RGB, pix []uint8, stride int) {
	for y := 0; y < dst.Height; y++ {
		srcRow := pix[y*stride:]
		dstRow := dst.Pix[y*dst.Width*3:]
		for x := 0; x < dst.Width; x++ {
			dstRow[x*3] = srcRow[x*4]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}
}
