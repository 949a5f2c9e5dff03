// framecheck walks a stereo/RGBD dataset sequence with the buffered
// frame reader and reports per-frame stream coverage: how many frames
// read cleanly, where the first failure happened, and which optional
// streams (depth, velodyne) have holes. Useful before pointing a mapping
// pipeline at a freshly assembled dataset.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/densemap/stereofeed/internal/dataset"
	"github.com/densemap/stereofeed/internal/depth"
	"github.com/densemap/stereofeed/internal/fsutil"
	"github.com/densemap/stereofeed/internal/ingest"
)

var (
	root      = flag.String("root", "", "Dataset sequence directory (required)")
	layoutArg = flag.String("layout", "kitti-odometry", "Dataset layout: kitti-odometry or kitti-odometry-dispnet")
	offset    = flag.Int("offset", 0, "First frame index to read")
	maxFrames = flag.Int("max-frames", 0, "Stop after this many frames (0 = until end of dataset)")
	width     = flag.Int("width", 1242, "Calibrated frame width in pixels")
	height    = flag.Int("height", 375, "Calibrated frame height in pixels")
	baseline  = flag.Float64("baseline", 0.537, "Stereo baseline in meters")
	focal     = flag.Float64("focal", 707.09, "Focal length in pixels")
)

func main() {
	flag.Parse()
	if *root == "" {
		flag.Usage()
		os.Exit(2)
	}

	layout, err := layoutByName(*layoutArg)
	if err != nil {
		log.Fatalf("[framecheck] %v", err)
	}

	fs := fsutil.OSFileSystem{}
	calib := dataset.RGBDCalib{
		RGB:   dataset.Intrinsics{Width: *width, Height: *height, Fx: *focal, Fy: *focal},
		Depth: dataset.Intrinsics{Width: *width, Height: *height, Fx: *focal, Fy: *focal},
	}
	stereo := dataset.StereoCalib{BaselineMeters: *baseline, FocalPx: *focal}

	cfg := ingest.Config{
		FS:          fs,
		Root:        *root,
		Layout:      layout,
		Calib:       calib,
		Stereo:      stereo,
		Provider:    depth.NewPrecomputed(fs, stereo, 0),
		FrameOffset: *offset,
	}
	reader := ingest.New(cfg)

	runID := uuid.New()
	log.Printf("[framecheck] run %s: dataset %s, layout %s, starting at frame %d",
		runID, reader.DatasetID(), layout.Name, *offset)

	var read, failed, velodyneMissing int
	for reader.HasMoreImages() {
		if *maxFrames > 0 && read+failed >= *maxFrames {
			break
		}
		frame := reader.CurrentFrame()

		if path, ok := reader.VelodynePath(frame); ok && !fs.Exists(path) {
			velodyneMissing++
		}

		if !reader.ReadNextFrame() {
			failed++
			log.Printf("[framecheck] frame %d failed; skipping", frame)
			// A failed read never advances the cursor. The checker wants
			// to keep going, so restart it just past the broken frame.
			cfg.FrameOffset = frame + 1
			reader = ingest.New(cfg)
			continue
		}
		read++
	}

	w, h := reader.RGBSize()
	fmt.Printf("run         %s\n", runID)
	fmt.Printf("dataset     %s\n", reader.DatasetID())
	fmt.Printf("resolution  %dx%d\n", w, h)
	fmt.Printf("frames ok   %d\n", read)
	fmt.Printf("frames bad  %d\n", failed)
	fmt.Printf("stopped at  %d\n", reader.CurrentFrame())
	if _, ok := reader.VelodynePath(0); ok {
		fmt.Printf("velodyne    %d missing\n", velodyneMissing)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func layoutByName(name string) (dataset.Layout, error) {
	switch name {
	case "kitti-odometry":
		return dataset.KittiOdometry(), nil
	case "kitti-odometry-dispnet":
		return dataset.KittiOdometryDispnet(), nil
	default:
		return dataset.Layout{}, fmt.Errorf("unknown layout %q", name)
	}
}
