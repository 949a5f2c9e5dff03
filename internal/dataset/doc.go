// Package dataset describes where a stereo/RGBD dataset lives on disk.
//
// Responsibilities: the immutable Layout descriptor (per-stream folders
// and filename templates, with named presets for common conventions),
// pure frame-index → path resolution, and the calibration/geometry
// descriptor types consumed by the frame reader.
// Key types: Layout, StreamSpec, RGBDCalib, StereoCalib.
//
// The package performs no I/O; it only names things. Reading the files a
// Layout points at is the job of internal/ingest.
package dataset
