// Package imgio owns the reusable frame buffers and the decode-into-place
// codecs for the formats the supported datasets use on disk.
//
// Buffers (Gray, RGB, Depth, FloatMap) are allocated once, sized from the
// calibration descriptor, and overwritten in place on every frame so the
// ingestion loop allocates nothing per frame. Codecs refuse to resize a
// buffer: a file whose dimensions disagree with the buffer is a decode
// error, which is how calibration mismatches surface.
//
// Formats: PNG via image/png, 16-bit grayscale TIFF via
// golang.org/x/image/tiff, and hand-rolled readers for Netpbm P5 (PGM)
// depth maps and PFM float disparity maps.
package imgio
