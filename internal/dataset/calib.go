package dataset

// Intrinsics holds one pinhole sensor's resolution and projection
// parameters. Width and Height are fixed for the dataset's lifetime and
// must be positive; the frame reader sizes its buffers from them.
type Intrinsics struct {
	Width  int
	Height int
	Fx     float64
	Fy     float64
	Cx     float64
	Cy     float64
}

// Valid reports whether the resolution is usable for buffer sizing.
func (in Intrinsics) Valid() bool {
	return in.Width > 0 && in.Height > 0
}

// RGBDCalib pairs the color and depth sensor intrinsics for a dataset.
// It is produced by an external calibration-file parser and consumed
// read-only by this module.
type RGBDCalib struct {
	RGB   Intrinsics
	Depth Intrinsics
}

// StereoCalib holds the rectified stereo geometry needed to turn
// disparity into metric depth: depth = BaselineMeters * FocalPx / disp.
type StereoCalib struct {
	BaselineMeters float64
	FocalPx        float64
}
