/*
Example code showing how to render a tracked output file onto its source
video with tracker ID labels and motion trails
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/swdee/go-bytetrack/dataset"
	"github.com/swdee/go-bytetrack/render"
	"github.com/swdee/go-bytetrack/tracker"
	"gocv.io/x/gocv"
)

// Annotator renders tracked detections onto video frames
type Annotator struct {
	log     logs.Log
	tracked *dataset.Output
	trail   *tracker.Trail
	font    render.Font
	caption *render.CaptionFont
	// showUntracked draws boxes of detections with no tracker ID
	showUntracked bool
}

// NewAnnotator returns an annotator for the tracked output.  If fontFile is
// set a frame counter caption is written with that TTF font.  A trailSize of
// zero disables trails
func NewAnnotator(logger logs.Log, tracked *dataset.Output, fontFile string,
	trailSize int, showUntracked bool) (*Annotator, error) {

	a := &Annotator{
		log:           logger,
		tracked:       tracked,
		font:          render.DefaultFont(),
		showUntracked: showUntracked,
	}

	if trailSize > 0 {
		a.trail = tracker.NewTrail(trailSize)
	}

	if fontFile != "" {
		cf, err := render.LoadCaptionFont(fontFile, render.DefaultCaptionSize)

		if err != nil {
			return nil, err
		}

		a.caption = cf
	}

	return a, nil
}

// Close releases the caption font
func (a *Annotator) Close() error {
	if a.caption != nil {
		return a.caption.Close()
	}
	return nil
}

// AnnotateFrame draws the tracked detections of frameNum onto img.  Frames
// beyond the tracked output are left untouched
func (a *Annotator) AnnotateFrame(img *gocv.Mat, frameNum int) error {

	if frameNum >= len(a.tracked.Detections) {
		return nil
	}

	dets := a.tracked.Detections[frameNum]

	if a.trail != nil {
		a.trail.AddFrame(dets)
		render.Trail(img, dets, a.trail, render.DefaultTrailStyle())
	}

	render.TrackerBoxes(img, dets, a.font, 2, a.showUntracked)

	if a.caption != nil {
		text := fmt.Sprintf("Frame %d/%d", frameNum+1, a.tracked.TotalFrames)
		x := img.Cols() - a.caption.Width(text) - 8

		if err := render.Caption(img, a.caption, text, x, render.DefaultCaptionSize+4,
			render.White); err != nil {
			return err
		}
	}

	return nil
}

// AnnotateVideo reads every frame of the input video, annotates it and
// writes it to the output video.  It returns the number of frames written
func (a *Annotator) AnnotateVideo(vidFile, outFile string) (int, error) {

	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return 0, fmt.Errorf("failed to open video %s: %w", vidFile, err)
	}

	defer video.Close()

	fps := video.Get(gocv.VideoCaptureFPS)
	width := int(video.Get(gocv.VideoCaptureFrameWidth))
	height := int(video.Get(gocv.VideoCaptureFrameHeight))

	writer, err := gocv.VideoWriterFile(outFile, "mp4v", fps, width, height, true)

	if err != nil {
		return 0, fmt.Errorf("failed to create video %s: %w", outFile, err)
	}

	defer writer.Close()

	img := gocv.NewMat()
	defer img.Close()

	frameNum := 0

	for {
		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			break
		}

		if img.Empty() {
			continue
		}

		if err := a.AnnotateFrame(&img, frameNum); err != nil {
			return frameNum, err
		}

		if err := writer.Write(img); err != nil {
			return frameNum, fmt.Errorf("failed to write frame %d: %w", frameNum, err)
		}

		frameNum++

		if frameNum%100 == 0 {
			a.log.Infof("Frame %d/%d processed", frameNum, a.tracked.TotalFrames)
		}
	}

	if frameNum != a.tracked.TotalFrames {
		a.log.Warnf("Video has %d frames but tracked output has %d",
			frameNum, a.tracked.TotalFrames)
	}

	return frameNum, nil
}

// videoPath picks the video to annotate, falling back to the video_path
// recorded in the detections file
func videoPath(vidFile, detFile string) (string, error) {

	if vidFile != "" {
		return vidFile, nil
	}

	if detFile == "" {
		return "", errors.New("either a video or a detections file is required")
	}

	in, err := dataset.LoadInput(detFile)

	if err != nil {
		return "", err
	}

	if in.VideoPath == nil || *in.VideoPath == "" {
		return "", fmt.Errorf("detections file %s has no video_path", detFile)
	}

	return *in.VideoPath, nil
}

func main() {

	parser := argparse.NewParser("annotate", "Render tracked detections onto a video")
	vidFile := parser.String("v", "video", &argparse.Options{Help: "Input video file", Required: false, Default: ""})
	detFile := parser.String("d", "detections", &argparse.Options{Help: "Detections JSON file to take the video path from", Required: false, Default: ""})
	trackedFile := parser.String("t", "tracked", &argparse.Options{Help: "Tracked output JSON file", Required: true})
	outFile := parser.String("o", "output", &argparse.Options{Help: "Output annotated video file", Required: false, Default: "annotated.mp4"})
	fontFile := parser.String("", "font", &argparse.Options{Help: "TTF font for the frame counter caption", Required: false, Default: ""})
	trailSize := parser.Int("", "trail", &argparse.Options{Help: "Number of frames of motion trail to draw, 0 disables", Required: false, Default: 30})
	untracked := parser.Flag("", "untracked", &argparse.Options{Help: "Also draw detections without a tracker ID"})
	err := parser.Parse(os.Args)

	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()

	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	video, err := videoPath(*vidFile, *detFile)

	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	tracked, err := dataset.LoadOutput(*trackedFile)

	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	a, err := NewAnnotator(logger, tracked, *fontFile, *trailSize, *untracked)

	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	defer a.Close()

	frames, err := a.AnnotateVideo(video, *outFile)

	if err != nil {
		logger.Criticalf("%v", err)
		a.Close()
		os.Exit(1)
	}

	logger.Infof("Processed %d frames", frames)
	logger.Infof("Saved annotated video to %s", *outFile)
}

