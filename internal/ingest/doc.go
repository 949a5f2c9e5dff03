// Package ingest owns the buffered frame reader: the stateful core that
// walks a stereo/RGBD dataset one frame index at a time and hands the
// downstream mapping pipeline borrowed views of its reusable buffers.
//
// One Reader owns one set of buffers, sized once from the calibration
// descriptor and overwritten in place on every successful advance. All
// I/O is synchronous and blocking; a Reader must not be shared across
// goroutines.
package ingest
