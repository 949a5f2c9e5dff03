// Package testutil builds synthetic stereo/RGBD dataset fixtures.
//
// This package centralises the encoders and sequence builders the
// ingestion tests share, so individual tests only describe the shape of
// the dataset they need (frame count, resolution, depth format) and not
// the bytes of every file.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/densemap/stereofeed/internal/dataset"
	"github.com/densemap/stereofeed/internal/fsutil"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// GrayPNG encodes a w×h 8-bit grayscale PNG whose pixel (x, y) holds
// seed+x+y, so tests can verify which file landed in which buffer.
func GrayPNG(w, h int, seed uint8) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: seed + uint8(x) + uint8(y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("testutil: encode gray png: %v", err))
	}
	return buf.Bytes()
}

// ColorPNG encodes a w×h color PNG with R=seed, G=x, B=y per pixel.
func ColorPNG(w, h int, seed uint8) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: seed, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("testutil: encode color png: %v", err))
	}
	return buf.Bytes()
}

// PGM16 encodes a w×h 16-bit binary PGM where every pixel holds value.
func PGM16(w, h int, value uint16) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P5\n%d %d\n65535\n", w, h)
	for i := 0; i < w*h; i++ {
		buf.WriteByte(byte(value >> 8))
		buf.WriteByte(byte(value))
	}
	return buf.Bytes()
}

// PFM encodes a w×h little-endian single-channel PFM where every pixel
// holds value. Rows are written bottom-to-top per the format.
func PFM(w, h int, value float32) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Pf\n%d %d\n-1.0\n", w, h)
	bits := math.Float32bits(value)
	row := make([]byte, w*4)
	for x := 0; x < w; x++ {
		binary.LittleEndian.PutUint32(row[x*4:], bits)
	}
	for y := 0; y < h; y++ {
		buf.Write(row)
	}
	return buf.Bytes()
}

// SequenceOpts shapes a synthetic dataset written by WriteSequence.
type SequenceOpts struct {
	Frames     int
	W, H       int
	DepthMM    uint16  // value in every PGM depth pixel
	Disparity  float32 // value in every PFM disparity pixel
	SkipFrames []int   // indices whose files are not written
}

// WriteSequence materialises a dataset under root in fs, following the
// given layout: the four image streams for every frame, plus the depth
// stream in whichever format the layout's template names.
func WriteSequence(t *testing.T, fs fsutil.FileSystem, root string, layout dataset.Layout, opts SequenceOpts) {
	t.Helper()

	skip := make(map[int]bool, len(opts.SkipFrames))
	for _, f := range opts.SkipFrames {
		skip[f] = true
	}

	for frame := 0; frame < opts.Frames; frame++ {
		if skip[frame] {
			continue
		}
		seed := uint8(frame)
		write(t, fs, dataset.FramePath(root, layout.LeftGray.Folder, layout.LeftGray.Template, frame), GrayPNG(opts.W, opts.H, seed))
		write(t, fs, dataset.FramePath(root, layout.RightGray.Folder, layout.RightGray.Template, frame), GrayPNG(opts.W, opts.H, seed+100))
		write(t, fs, dataset.FramePath(root, layout.LeftColor.Folder, layout.LeftColor.Template, frame), ColorPNG(opts.W, opts.H, seed))
		write(t, fs, dataset.FramePath(root, layout.RightColor.Folder, layout.RightColor.Template, frame), ColorPNG(opts.W, opts.H, seed+100))

		if d := layout.Depth; d != nil {
			path := dataset.FramePath(root, d.Folder, d.Template, frame)
			if d.ReadDepth {
				write(t, fs, path, PGM16(opts.W, opts.H, opts.DepthMM))
			} else {
				write(t, fs, path, PFM(opts.W, opts.H, opts.Disparity))
			}
		}
	}
}

// Calib returns an RGBDCalib with identical w×h color and depth sensors,
// which is what the KITTI-style fixtures use.
func Calib(w, h int) dataset.RGBDCalib {
	in := dataset.Intrinsics{Width: w, Height: h, Fx: 707.09, Fy: 707.09, Cx: float64(w) / 2, Cy: float64(h) / 2}
	return dataset.RGBDCalib{RGB: in, Depth: in}
}

func write(t *testing.T, fs fsutil.FileSystem, path string, data []byte) {
	t.Helper()
	if err := fs.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}
