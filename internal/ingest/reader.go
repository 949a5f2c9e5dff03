package ingest

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/densemap/stereofeed/internal/dataset"
	"github.com/densemap/stereofeed/internal/depth"
	"github.com/densemap/stereofeed/internal/fsutil"
	"github.com/densemap/stereofeed/internal/imgio"
)

// Config wires a Reader to one dataset session.
type Config struct {
	// FS is the filesystem to read from. Nil defaults to the OS
	// filesystem.
	FS fsutil.FileSystem

	// Root is the dataset sequence directory, e.g.
	// ".../kitti/odometry/sequences/06".
	Root string

	// Layout describes where each stream lives under Root.
	Layout dataset.Layout

	// Calib supplies the buffer dimensions. Read-only; the caller owns
	// it. Non-positive resolutions are a programming error and panic at
	// construction.
	Calib dataset.RGBDCalib

	// Stereo is the rectified stereo geometry, passed through to depth
	// providers that need it.
	Stereo dataset.StereoCalib

	// Provider produces the depth buffer when the layout's depth stream
	// is disparity (ReadDepth false) or absent. Borrowed: the caller
	// manages its lifetime and may swap it via SetProvider.
	Provider depth.Provider

	// FrameOffset is the index of the first frame to read.
	FrameOffset int
}

// Reader walks a dataset frame by frame. Buffers are allocated once at
// construction and reused; the accessors return borrowed views that are
// only valid until the next ReadNextFrame.
type Reader struct {
	fs       fsutil.FileSystem
	root     string
	layout   dataset.Layout
	calib    dataset.RGBDCalib
	stereo   dataset.StereoCalib
	provider depth.Provider

	frame int

	leftGray   *imgio.Gray
	rightGray  *imgio.Gray
	leftColor  *imgio.RGB
	rightColor *imgio.RGB
	depthBuf   *imgio.Depth
}

// New creates a Reader for one dataset session. Panics if the
// calibration resolutions are not positive.
func New(cfg Config) *Reader {
	if cfg.FS == nil {
		cfg.FS = fsutil.OSFileSystem{}
	}
	if !cfg.Calib.RGB.Valid() || !cfg.Calib.Depth.Valid() {
		panic(fmt.Sprintf("ingest: calibration resolutions must be positive (rgb %dx%d, depth %dx%d)",
			cfg.Calib.RGB.Width, cfg.Calib.RGB.Height, cfg.Calib.Depth.Width, cfg.Calib.Depth.Height))
	}
	rw, rh := cfg.Calib.RGB.Width, cfg.Calib.RGB.Height
	dw, dh := cfg.Calib.Depth.Width, cfg.Calib.Depth.Height
	return &Reader{
		fs:         cfg.FS,
		root:       cfg.Root,
		layout:     cfg.Layout,
		calib:      cfg.Calib,
		stereo:     cfg.Stereo,
		provider:   cfg.Provider,
		frame:      cfg.FrameOffset,
		leftGray:   imgio.NewGray(rw, rh),
		rightGray:  imgio.NewGray(rw, rh),
		leftColor:  imgio.NewRGB(rw, rh),
		rightColor: imgio.NewRGB(rw, rh),
		depthBuf:   imgio.NewDepth(dw, dh),
	}
}

// HasMoreImages reports whether the mandatory image streams exist for
// the current frame index. Only the grayscale pair and the left color
// stream are probed: optional streams (depth, segmentation, velodyne)
// may legitimately have holes and surface through ReadNextFrame instead.
// Never mutates the reader.
func (r *Reader) HasMoreImages() bool {
	for _, s := range []dataset.StreamSpec{r.layout.LeftGray, r.layout.RightGray, r.layout.LeftColor} {
		if !r.fs.Exists(dataset.FramePath(r.root, s.Folder, s.Template, r.frame)) {
			return false
		}
	}
	return true
}

// ReadNextFrame loads every enabled stream for the current frame index
// into the reusable buffers, in dependency order: grayscale pair first
// (on-the-fly depth needs it), then the color pair, then depth. On full
// success the cursor advances and the method returns true. On any
// failure it returns false, the cursor stays put so the same index can
// be retried, and the buffer contents are undefined until the next
// success.
func (r *Reader) ReadNextFrame() bool {
	err := r.loadFrame(r.frame, r.leftGray, r.rightGray, r.leftColor, r.rightColor, r.depthBuf)
	if err != nil {
		log.Printf("[ingest] frame %d not read: %v", r.frame, err)
		return false
	}
	r.frame++
	return true
}

// Images returns borrowed views of the current left color frame and
// depth map. Valid only until the next ReadNextFrame; copy (Clone) for
// anything longer-lived.
func (r *Reader) Images() (rgb *imgio.RGB, d *imgio.Depth) {
	return r.leftColor, r.depthBuf
}

// StereoGray returns borrowed views of the current grayscale pair.
// Same lifetime contract as Images.
func (r *Reader) StereoGray() (left, right *imgio.Gray) {
	return r.leftGray, r.rightGray
}

// FrameImages performs a random-access read of an arbitrary frame index
// and returns freshly allocated copies the caller owns. The sequential
// cursor and its buffers are untouched, so out-of-order sampling (e.g.
// evaluation tooling) cannot perturb the main ingestion loop.
func (r *Reader) FrameImages(frame int) (*imgio.RGB, *imgio.Depth, error) {
	rw, rh := r.calib.RGB.Width, r.calib.RGB.Height
	lg := imgio.NewGray(rw, rh)
	rg := imgio.NewGray(rw, rh)
	lc := imgio.NewRGB(rw, rh)
	rc := imgio.NewRGB(rw, rh)
	d := imgio.NewDepth(r.calib.Depth.Width, r.calib.Depth.Height)
	if err := r.loadFrame(frame, lg, rg, lc, rc, d); err != nil {
		return nil, nil, err
	}
	return lc, d, nil
}

// CurrentFrame returns the dataset index the next ReadNextFrame will
// load. May differ from the pipeline's own frame count when a frame
// offset was used.
func (r *Reader) CurrentFrame() int { return r.frame }

// RGBSize returns the color frame dimensions from the calibration
// descriptor.
func (r *Reader) RGBSize() (w, h int) {
	return r.calib.RGB.Width, r.calib.RGB.Height
}

// DepthSize returns the depth frame dimensions from the calibration
// descriptor.
func (r *Reader) DepthSize() (w, h int) {
	return r.calib.Depth.Width, r.calib.Depth.Height
}

// SequenceName returns the final component of the dataset root path,
// e.g. "06" for ".../sequences/06".
func (r *Reader) SequenceName() string {
	return filepath.Base(strings.TrimRight(r.root, "/"))
}

// DatasetID combines the layout name and sequence name into one
// identifier, e.g. "kitti-odometry-06".
func (r *Reader) DatasetID() string {
	return r.layout.Name + "-" + r.SequenceName()
}

// Provider returns the depth provider currently in use.
func (r *Reader) Provider() depth.Provider { return r.provider }

// SetProvider swaps the depth provider mid-session, e.g. to compare
// on-the-fly stereo depth against precomputed maps on the same frames.
func (r *Reader) SetProvider(p depth.Provider) { r.provider = p }

// Layout returns the dataset layout this reader was built with.
func (r *Reader) Layout() dataset.Layout { return r.layout }

// VelodynePath resolves the LIDAR point-cloud file for a frame index.
// ok is false when the layout has no velodyne stream. The file itself is
// consumed by an external reader.
func (r *Reader) VelodynePath(frame int) (path string, ok bool) {
	v := r.layout.Velodyne
	if v == nil {
		return "", false
	}
	return dataset.FramePath(r.root, v.Folder, v.Template, frame), true
}

// SegmentationDir resolves the precomputed segmentation directory.
// Mask filenames inside it derive from the color frame names and are the
// segmentation reader's business.
func (r *Reader) SegmentationDir() (dir string, ok bool) {
	s := r.layout.Segmentation
	if s == nil {
		return "", false
	}
	return filepath.Join(r.root, s.Folder), true
}

// OdometrySource reports the ground-truth odometry selection for the
// external trajectory reader.
func (r *Reader) OdometrySource() (spec dataset.OdometrySpec, ok bool) {
	o := r.layout.Odometry
	if o == nil {
		return dataset.OdometrySpec{}, false
	}
	return *o, true
}

// loadFrame populates the given buffers for one frame index. Shared by
// the sequential and random-access paths; the caller decides whether the
// buffers are the reusable ones or fresh copies.
func (r *Reader) loadFrame(frame int, lg, rg *imgio.Gray, lc, rc *imgio.RGB, d *imgio.Depth) error {
	if err := r.decodeGray(r.layout.LeftGray, frame, lg); err != nil {
		return fmt.Errorf("left gray: %w", err)
	}
	if err := r.decodeGray(r.layout.RightGray, frame, rg); err != nil {
		return fmt.Errorf("right gray: %w", err)
	}
	if err := r.decodeColor(r.layout.LeftColor, frame, lc); err != nil {
		return fmt.Errorf("left color: %w", err)
	}
	if err := r.decodeColor(r.layout.RightColor, frame, rc); err != nil {
		return fmt.Errorf("right color: %w", err)
	}
	if err := r.loadDepth(frame, lg, rg, d); err != nil {
		return fmt.Errorf("depth: %w", err)
	}
	return nil
}

// loadDepth fills the depth buffer according to the acquisition policy:
// direct decode when the layout says the files hold metric depth,
// provider FromFile when they hold disparity, provider FromStereo when
// there is no depth stream at all. With neither a depth stream nor a
// provider the stream is disabled and the buffer is left untouched.
func (r *Reader) loadDepth(frame int, lg, rg *imgio.Gray, d *imgio.Depth) error {
	spec := r.layout.Depth
	if spec == nil {
		if r.provider == nil {
			return nil
		}
		return r.provider.FromStereo(lg, rg, d)
	}

	path := dataset.FramePath(r.root, spec.Folder, spec.Template, frame)
	if spec.ReadDepth {
		return r.decodeDepthFile(path, d)
	}
	if r.provider == nil {
		return fmt.Errorf("disparity stream %s configured but no depth provider set", spec.Folder)
	}
	return r.provider.FromFile(path, d)
}

// decodeDepthFile reads a file that already holds metric depth.
func (r *Reader) decodeDepthFile(path string, d *imgio.Depth) error {
	f, err := r.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pgm":
		return wrapDecode(path, imgio.DecodePGMDepth(f, d))
	case ".tif", ".tiff":
		return wrapDecode(path, imgio.DecodeTIFFDepth(f, d))
	default:
		return fmt.Errorf("%s: unsupported metric depth extension %q", path, ext)
	}
}

func (r *Reader) decodeGray(s dataset.StreamSpec, frame int, dst *imgio.Gray) error {
	path := dataset.FramePath(r.root, s.Folder, s.Template, frame)
	f, err := r.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return wrapDecode(path, imgio.DecodeGrayPNG(f, dst))
}

func (r *Reader) decodeColor(s dataset.StreamSpec, frame int, dst *imgio.RGB) error {
	path := dataset.FramePath(r.root, s.Folder, s.Template, frame)
	f, err := r.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return wrapDecode(path, imgio.DecodeRGBPNG(f, dst))
}

func wrapDecode(path string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
