// Package depth defines the pluggable depth-production strategy used by
// the frame reader, plus the precomputed-file implementation.
//
// Two capabilities make up a Provider: computing depth from a rectified
// stereo pair, and decoding depth from a precomputed file. Which one the
// reader exercises is decided by the dataset layout; swapping providers
// mid-session is allowed so the same pipeline can compare on-the-fly and
// precomputed depth.
package depth

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/densemap/stereofeed/internal/dataset"
	"github.com/densemap/stereofeed/internal/fsutil"
	"github.com/densemap/stereofeed/internal/imgio"
)

// Provider produces metric depth (int16 millimeters) for one frame.
// Implementations must fill out without resizing it; out's dimensions
// come from the depth-sensor calibration.
type Provider interface {
	// FromStereo fills out with depth computed from a rectified
	// grayscale stereo pair.
	FromStereo(left, right *imgio.Gray, out *imgio.Depth) error

	// FromFile fills out with depth decoded from a precomputed depth or
	// disparity file.
	FromFile(path string, out *imgio.Depth) error
}

// Name reports a short identifier for a provider, for log lines and
// comparison tooling.
type Name interface {
	Name() string
}

// DefaultMaxDepthMeters caps converted disparity depth. Stereo depth
// beyond this range is noise at automotive baselines.
const DefaultMaxDepthMeters = 30.0

// maxRepresentableMeters is the largest depth an int16 millimeter buffer
// can hold. Caps above it would wrap to negative values on conversion.
const maxRepresentableMeters = math.MaxInt16 / 1000.0

// Precomputed reads depth from files produced by an offline tool.
// Metric-depth files (.pgm, .tif/.tiff) are decoded directly; disparity
// files (.pfm) are converted with depth = baseline * focal / disparity
// and clamped to MaxDepthMeters.
type Precomputed struct {
	fs             fsutil.FileSystem
	stereo         dataset.StereoCalib
	maxDepthMeters float64

	// disparity scratch, allocated lazily and reused while the output
	// buffer keeps the same dimensions
	disp *imgio.FloatMap
}

// NewPrecomputed creates a Precomputed provider. A nil fs defaults to the
// OS filesystem; a non-positive maxDepthMeters defaults to
// DefaultMaxDepthMeters, and caps beyond the int16 millimeter range are
// reduced to 32.767 m so conversion can never wrap.
func NewPrecomputed(fs fsutil.FileSystem, stereo dataset.StereoCalib, maxDepthMeters float64) *Precomputed {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if maxDepthMeters <= 0 {
		maxDepthMeters = DefaultMaxDepthMeters
	}
	if maxDepthMeters > maxRepresentableMeters {
		maxDepthMeters = maxRepresentableMeters
	}
	return &Precomputed{fs: fs, stereo: stereo, maxDepthMeters: maxDepthMeters}
}

// Name identifies the provider in logs.
func (p *Precomputed) Name() string { return "precomputed" }

// FromStereo is not supported: this provider only reads offline results.
// Plug in a stereo-matching provider to compute depth from images.
func (p *Precomputed) FromStereo(left, right *imgio.Gray, out *imgio.Depth) error {
	return fmt.Errorf("depth: precomputed provider cannot compute from stereo; configure a depth stream or use a matching provider")
}

// FromFile decodes one precomputed file into out, dispatching on the
// file extension.
func (p *Precomputed) FromFile(path string, out *imgio.Depth) error {
	f, err := p.fs.Open(path)
	if err != nil {
		return fmt.Errorf("depth: open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pgm":
		return imgio.DecodePGMDepth(f, out)
	case ".tif", ".tiff":
		return imgio.DecodeTIFFDepth(f, out)
	case ".pfm":
		if p.disp == nil || p.disp.Width != out.Width || p.disp.Height != out.Height {
			p.disp = imgio.NewFloatMap(out.Width, out.Height)
		}
		if err := imgio.DecodePFM(f, p.disp); err != nil {
			return err
		}
		p.disparityToDepth(out)
		return nil
	default:
		return fmt.Errorf("depth: unsupported depth file extension %q", ext)
	}
}

// disparityToDepth converts the disparity scratch buffer into metric
// millimeters in out. Non-finite and non-positive disparities become
// zero (no measurement).
func (p *Precomputed) disparityToDepth(out *imgio.Depth) {
	scale := p.stereo.BaselineMeters * p.stereo.FocalPx
	maxMM := p.maxDepthMeters * 1000.0
	for i, d := range p.disp.Pix {
		df := float64(d)
		if !(df > 0) || math.IsInf(df, 0) {
			out.Pix[i] = 0
			continue
		}
		mm := scale / df * 1000.0
		if mm > maxMM {
			out.Pix[i] = 0
			continue
		}
		out.Pix[i] = int16(mm)
	}
}
