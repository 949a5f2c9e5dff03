package imgio

import (
	"bufio"
	"fmt"
	"io"
)

// DecodePGMDepth decodes a binary Netpbm P5 (PGM) depth map into dst.
// Pixel values are interpreted as metric depth in millimeters. Files with
// maxval above 255 carry two bytes per sample, most significant byte
// first, per the Netpbm specification.
func DecodePGMDepth(r io.Reader, dst *Depth) error {
	br := bufio.NewReader(r)

	magic, err := pnmToken(br)
	if err != nil {
		return fmt.Errorf("decode pgm: %w", err)
	}
	if magic != "P5" {
		return fmt.Errorf("decode pgm: unsupported magic %q", magic)
	}

	var w, h, maxval int
	for _, field := range []*int{&w, &h, &maxval} {
		tok, err := pnmToken(br)
		if err != nil {
			return fmt.Errorf("decode pgm: %w", err)
		}
		if _, err := fmt.Sscanf(tok, "%d", field); err != nil {
			return fmt.Errorf("decode pgm: bad header field %q: %w", tok, err)
		}
	}
	if maxval <= 0 || maxval > 65535 {
		return fmt.Errorf("decode pgm: maxval %d out of range", maxval)
	}
	if w != dst.Width || h != dst.Height {
		return dimError(w, h, dst.Width, dst.Height)
	}

	if maxval <= 255 {
		row := make([]byte, w)
		for y := 0; y < h; y++ {
			if _, err := io.ReadFull(br, row); err != nil {
				return fmt.Errorf("decode pgm: truncated at row %d: %w", y, err)
			}
			for x, v := range row {
				dst.Pix[y*w+x] = int16(v)
			}
		}
		return nil
	}

	row := make([]byte, w*2)
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return fmt.Errorf("decode pgm: truncated at row %d: %w", y, err)
		}
		for x := 0; x < w; x++ {
			v := uint16(row[x*2])<<8 | uint16(row[x*2+1])
			if v > 32767 {
				v = 32767
			}
			dst.Pix[y*w+x] = int16(v)
		}
	}
	return nil
}

// pnmToken reads the next whitespace-delimited header token, skipping
// '#' comments.
func pnmToken(br *bufio.Reader) (string, error) {
	var tok []byte
	inComment := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case inComment:
			if b == '\n' {
				inComment = false
			}
		case b == '#':
			inComment = true
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}
