package dataset

import (
	"fmt"
	"path/filepath"
)

// StreamSpec locates one per-frame file stream inside a dataset root:
// a folder name and a printf-style filename template taking a single
// integer frame index (e.g. "%06d.png").
type StreamSpec struct {
	Folder   string
	Template string
}

// DepthSpec locates the precomputed depth/disparity stream.
// ReadDepth selects the file semantics: true means the files hold metric
// depth that can be decoded directly; false means they hold raw disparity
// values that the depth provider must convert.
type DepthSpec struct {
	Folder    string
	Template  string
	ReadDepth bool
}

// SegSpec locates the precomputed segmentation stream. There is no
// filename template: mask names are derived from the corresponding color
// frame's filename by the external segmentation reader.
type SegSpec struct {
	Folder string
}

// OdometrySpec selects the ground-truth odometry source. OxTS true means
// a per-frame directory of OxTS pose dumps (raw KITTI); false means a
// single trajectory file named File (kitti-odometry convention).
type OdometrySpec struct {
	OxTS bool
	File string
}

// Layout is an immutable description of a dataset's on-disk convention.
// The four grayscale/color streams are mandatory; the remaining streams
// are optional and absent when nil. Construct one from a preset factory
// (KittiOdometry, KittiOdometryDispnet) or explicit fields, then treat it
// as a value: derive variants by copying and overriding fields.
type Layout struct {
	// Name identifies the dataset convention, e.g. "kitti-odometry".
	Name string

	LeftGray   StreamSpec
	RightGray  StreamSpec
	LeftColor  StreamSpec
	RightColor StreamSpec

	// CalibFile is the calibration descriptor filename inside the dataset
	// root. Parsing it is the calibration parser's job, not this package's.
	CalibFile string

	Depth        *DepthSpec
	Segmentation *SegSpec
	Velodyne     *StreamSpec
	Odometry     *OdometrySpec
}

// KittiOdometry returns the layout of the KITTI odometry benchmark with
// ELAS-precomputed metric depth maps.
func KittiOdometry() Layout {
	return Layout{
		Name:       "kitti-odometry",
		LeftGray:   StreamSpec{Folder: "image_0", Template: "%06d.png"},
		RightGray:  StreamSpec{Folder: "image_1", Template: "%06d.png"},
		LeftColor:  StreamSpec{Folder: "image_2", Template: "%06d.png"},
		RightColor: StreamSpec{Folder: "image_3", Template: "%06d.png"},
		CalibFile:  "itm-calib.txt",
		Depth: &DepthSpec{
			Folder:    "precomputed-depth/Frames",
			Template:  "%04d.pgm",
			ReadDepth: true,
		},
		Segmentation: &SegSpec{Folder: "seg_image_2/mnc"},
		Velodyne:     &StreamSpec{Folder: "velodyne", Template: "%06d.bin"},
		Odometry:     &OdometrySpec{OxTS: false, File: "ground-truth-poses.txt"},
	}
}

// KittiOdometryDispnet returns KittiOdometry with only the depth stream
// overridden: DispNet disparity maps stored as PFM, which the depth
// provider converts to metric depth.
func KittiOdometryDispnet() Layout {
	l := KittiOdometry()
	l.Depth = &DepthSpec{
		Folder:    "precomputed-depth-dispnet",
		Template:  "%06d.pfm",
		ReadDepth: false,
	}
	return l
}

// FramePath resolves the on-disk path of one stream's file for a frame
// index: <root>/<folder>/<template % frame>. Pure string composition; a
// malformed template is a programming error and shows up verbatim in the
// produced filename.
func FramePath(root, folder, template string, frame int) string {
	return filepath.Join(root, folder, fmt.Sprintf(template, frame))
}
