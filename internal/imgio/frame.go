package imgio

import "fmt"

// Gray is an 8-bit single-channel frame buffer, one byte per pixel,
// row-major.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray allocates a Gray buffer. Dimensions must be positive.
func NewGray(w, h int) *Gray {
	mustPositive(w, h)
	return &Gray{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// Clone returns an independent copy of the buffer.
func (g *Gray) Clone() *Gray {
	c := NewGray(g.Width, g.Height)
	copy(c.Pix, g.Pix)
	return c
}

// At returns the pixel at (x, y). Row-major, no bounds checking beyond
// the slice's own.
func (g *Gray) At(x, y int) uint8 { return g.Pix[y*g.Width+x] }

// RGB is an 8-bit three-channel frame buffer, three bytes per pixel
// (R, G, B interleaved), row-major.
type RGB struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGB allocates an RGB buffer. Dimensions must be positive.
func NewRGB(w, h int) *RGB {
	mustPositive(w, h)
	return &RGB{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

// Clone returns an independent copy of the buffer.
func (m *RGB) Clone() *RGB {
	c := NewRGB(m.Width, m.Height)
	copy(c.Pix, m.Pix)
	return c
}

// At returns the (r, g, b) triple at (x, y).
func (m *RGB) At(x, y int) (r, g, b uint8) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Depth is a signed 16-bit single-channel frame buffer holding metric
// depth in millimeters, row-major. Zero means no measurement.
type Depth struct {
	Width  int
	Height int
	Pix    []int16
}

// NewDepth allocates a Depth buffer. Dimensions must be positive.
func NewDepth(w, h int) *Depth {
	mustPositive(w, h)
	return &Depth{Width: w, Height: h, Pix: make([]int16, w*h)}
}

// Clone returns an independent copy of the buffer.
func (d *Depth) Clone() *Depth {
	c := NewDepth(d.Width, d.Height)
	copy(c.Pix, d.Pix)
	return c
}

// At returns the depth in millimeters at (x, y).
func (d *Depth) At(x, y int) int16 { return d.Pix[y*d.Width+x] }

// FloatMap is a 32-bit float single-channel buffer, used as disparity
// scratch space by the depth provider, row-major top-down.
type FloatMap struct {
	Width  int
	Height int
	Pix    []float32
}

// NewFloatMap allocates a FloatMap buffer. Dimensions must be positive.
func NewFloatMap(w, h int) *FloatMap {
	mustPositive(w, h)
	return &FloatMap{Width: w, Height: h, Pix: make([]float32, w*h)}
}

// At returns the value at (x, y).
func (f *FloatMap) At(x, y int) float32 { return f.Pix[y*f.Width+x] }

func mustPositive(w, h int) {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("imgio: non-positive frame dimensions %dx%d", w, h))
	}
}
