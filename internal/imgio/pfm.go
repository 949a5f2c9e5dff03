package imgio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// DecodePFM decodes a single-channel PFM ("Pf") float map into dst.
// The header's scale line selects byte order: negative means
// little-endian, positive big-endian. Rows are stored bottom-to-top and
// are flipped into dst's top-down layout. DispNet publishes its disparity
// maps in this format.
func DecodePFM(r io.Reader, dst *FloatMap) error {
	br := bufio.NewReader(r)

	magic, err := pnmToken(br)
	if err != nil {
		return fmt.Errorf("decode pfm: %w", err)
	}
	if magic == "PF" {
		return fmt.Errorf("decode pfm: color PFM not supported")
	}
	if magic != "Pf" {
		return fmt.Errorf("decode pfm: unsupported magic %q", magic)
	}

	var w, h int
	for _, field := range []*int{&w, &h} {
		tok, err := pnmToken(br)
		if err != nil {
			return fmt.Errorf("decode pfm: %w", err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("decode pfm: bad dimension %q: %w", tok, err)
		}
		*field = v
	}
	scaleTok, err := pnmToken(br)
	if err != nil {
		return fmt.Errorf("decode pfm: %w", err)
	}
	scale, err := strconv.ParseFloat(scaleTok, 64)
	if err != nil {
		return fmt.Errorf("decode pfm: bad scale %q: %w", scaleTok, err)
	}
	if w != dst.Width || h != dst.Height {
		return dimError(w, h, dst.Width, dst.Height)
	}

	order := binary.ByteOrder(binary.BigEndian)
	if scale < 0 {
		order = binary.LittleEndian
	}

	row := make([]byte, w*4)
	for y := h - 1; y >= 0; y-- {
		if _, err := io.ReadFull(br, row); err != nil {
			return fmt.Errorf("decode pfm: truncated at row %d: %w", y, err)
		}
		for x := 0; x < w; x++ {
			bits := order.Uint32(row[x*4:])
			dst.Pix[y*w+x] = math.Float32frombits(bits)
		}
	}
	return nil
}
