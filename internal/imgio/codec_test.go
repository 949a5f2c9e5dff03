package imgio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/tiff"
)

func grayPNG(t *testing.T, w, h int, at func(x, y int) uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: at(x, y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func colorPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNewGrayPanicsOnBadDims(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewGray(0, 10) should panic")
		}
	}()
	NewGray(0, 10)
}

func TestDecodeGrayPNG(t *testing.T) {
	data := grayPNG(t, 8, 4, func(x, y int) uint8 { return uint8(10*y + x) })
	dst := NewGray(8, 4)
	if err := DecodeGrayPNG(bytes.NewReader(data), dst); err != nil {
		t.Fatalf("DecodeGrayPNG: %v", err)
	}
	if got := dst.At(3, 2); got != 23 {
		t.Errorf("At(3,2) = %d, want 23", got)
	}
	if got := dst.At(7, 0); got != 7 {
		t.Errorf("At(7,0) = %d, want 7", got)
	}
}

func TestDecodeGrayPNGDimensionMismatch(t *testing.T) {
	data := grayPNG(t, 8, 4, func(x, y int) uint8 { return 0 })
	dst := NewGray(8, 5)
	err := DecodeGrayPNG(bytes.NewReader(data), dst)
	if !errors.Is(err, ErrDimensions) {
		t.Errorf("want ErrDimensions, got %v", err)
	}
}

func TestDecodeGrayPNGTruncated(t *testing.T) {
	data := grayPNG(t, 8, 4, func(x, y int) uint8 { return 0 })
	dst := NewGray(8, 4)
	if err := DecodeGrayPNG(bytes.NewReader(data[:len(data)/2]), dst); err == nil {
		t.Error("truncated PNG should fail to decode")
	}
}

func TestDecodeRGBPNG(t *testing.T) {
	data := colorPNG(t, 6, 3)
	dst := NewRGB(6, 3)
	if err := DecodeRGBPNG(bytes.NewReader(data), dst); err != nil {
		t.Fatalf("DecodeRGBPNG: %v", err)
	}
	r, g, b := dst.At(4, 2)
	if r != 4 || g != 2 || b != 6 {
		t.Errorf("At(4,2) = (%d,%d,%d), want (4,2,6)", r, g, b)
	}
}

func TestDecodePGMDepth16(t *testing.T) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P5\n# depth fixture\n3 2\n65535\n")
	values := []uint16{0, 1500, 30000, 40000, 32767, 7}
	for _, v := range values {
		buf.WriteByte(byte(v >> 8))
		buf.WriteByte(byte(v))
	}

	dst := NewDepth(3, 2)
	if err := DecodePGMDepth(&buf, dst); err != nil {
		t.Fatalf("DecodePGMDepth: %v", err)
	}
	want := []int16{0, 1500, 30000, 32767, 32767, 7} // 40000 clamps
	for i, w := range want {
		if dst.Pix[i] != w {
			t.Errorf("Pix[%d] = %d, want %d", i, dst.Pix[i], w)
		}
	}
}

func TestDecodePGMDepth8Bit(t *testing.T) {
	buf := bytes.NewBufferString("P5 2 2 255\n")
	buf.Write([]byte{9, 200, 0, 255})
	dst := NewDepth(2, 2)
	if err := DecodePGMDepth(buf, dst); err != nil {
		t.Fatalf("DecodePGMDepth: %v", err)
	}
	want := []int16{9, 200, 0, 255}
	for i, w := range want {
		if dst.Pix[i] != w {
			t.Errorf("Pix[%d] = %d, want %d", i, dst.Pix[i], w)
		}
	}
}

func TestDecodePGMDepthErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong magic", "P6 2 2 255\n...."},
		{"zero maxval", "P5 2 2 0\n...."},
		{"huge maxval", "P5 2 2 70000\n...."},
		{"truncated", "P5 4 4 255\nxx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := NewDepth(2, 2)
			if tt.name == "truncated" {
				dst = NewDepth(4, 4)
			}
			if err := DecodePGMDepth(bytes.NewBufferString(tt.data), dst); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestDecodePGMDepthDimensionMismatch(t *testing.T) {
	buf := bytes.NewBufferString("P5 2 2 255\n")
	buf.Write([]byte{1, 2, 3, 4})
	dst := NewDepth(3, 3)
	if err := DecodePGMDepth(buf, dst); !errors.Is(err, ErrDimensions) {
		t.Errorf("want ErrDimensions, got %v", err)
	}
}

// PFM rows are stored bottom-to-top; the decoder must flip them into the
// buffer's top-down layout.
func TestDecodePFMRowOrder(t *testing.T) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Pf\n2 2\n-1.0\n")
	// File order: bottom row first.
	bottom := []float32{3, 4}
	top := []float32{1, 2}
	for _, v := range append(bottom, top...) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}

	dst := NewFloatMap(2, 2)
	if err := DecodePFM(&buf, dst); err != nil {
		t.Fatalf("DecodePFM: %v", err)
	}
	want := []float32{1, 2, 3, 4}
	for i, w := range want {
		if dst.Pix[i] != w {
			t.Errorf("Pix[%d] = %g, want %g", i, dst.Pix[i], w)
		}
	}
}

func TestDecodePFMBigEndian(t *testing.T) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Pf\n1 1\n1.0\n")
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(42.5))
	buf.Write(b[:])

	dst := NewFloatMap(1, 1)
	if err := DecodePFM(&buf, dst); err != nil {
		t.Fatalf("DecodePFM: %v", err)
	}
	if dst.Pix[0] != 42.5 {
		t.Errorf("Pix[0] = %g, want 42.5", dst.Pix[0])
	}
}

func TestDecodePFMRejectsColor(t *testing.T) {
	buf := bytes.NewBufferString("PF\n2 2\n-1.0\n")
	dst := NewFloatMap(2, 2)
	if err := DecodePFM(buf, dst); err == nil {
		t.Error("color PFM should be rejected")
	}
}

func TestDecodeTIFFDepth(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	vals := []uint16{0, 500, 12000, 33000, 32767, 1}
	for i, v := range vals {
		img.SetGray16(i%3, i/3, color.Gray16{Y: v})
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}

	dst := NewDepth(3, 2)
	if err := DecodeTIFFDepth(&buf, dst); err != nil {
		t.Fatalf("DecodeTIFFDepth: %v", err)
	}
	want := []int16{0, 500, 12000, 32767, 32767, 1} // 33000 clamps
	for i, w := range want {
		if dst.Pix[i] != w {
			t.Errorf("Pix[%d] = %d, want %d", i, dst.Pix[i], w)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	g := NewGray(4, 4)
	g.Pix[0] = 7
	c := g.Clone()
	c.Pix[0] = 99
	if g.Pix[0] != 7 {
		t.Error("Clone shares backing storage with original")
	}

	d := NewDepth(4, 4)
	d.Pix[5] = 1234
	dc := d.Clone()
	dc.Pix[5] = 0
	if d.Pix[5] != 1234 {
		t.Error("Depth Clone shares backing storage with original")
	}
}
