package config

import (
	"github.com/swdee/go-bytetrack/tracker"
)

// Config is the root of the YAML configuration file
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Output  OutputConfig  `yaml:"output"`
}

// TrackerConfig holds the BYTETracker construction parameters
type TrackerConfig struct {
	// LostTrackBuffer is the number of frames, at 30 FPS, an activated
	// track is kept while unmatched
	LostTrackBuffer int `yaml:"lost_track_buffer" validate:"gt=0"`
	// FrameRate of the detection sequence
	FrameRate float32 `yaml:"frame_rate" validate:"gt=0"`
	// TrackActivationThreshold is the minimum score for a detection to
	// spawn a new track
	TrackActivationThreshold float32 `yaml:"track_activation_threshold" validate:"gte=0,lte=1"`
	// MinimumConsecutiveFrames is the number of observations before a
	// track is given an identity
	MinimumConsecutiveFrames int `yaml:"minimum_consecutive_frames" validate:"gte=1"`
	// MinimumIoUThreshold is the minimum IoU for a track and detection
	// to be matched
	MinimumIoUThreshold float32 `yaml:"minimum_iou_threshold" validate:"gte=0,lte=1"`
	// HighConfDetThreshold splits detections into the first and second
	// association rounds
	HighConfDetThreshold float32 `yaml:"high_conf_det_threshold" validate:"gte=0,lte=1"`
}

// OutputConfig holds settings of the tracking harness output
type OutputConfig struct {
	// Tracker is the name written into the tracked output document
	Tracker string `yaml:"tracker" validate:"required"`
	// Tolerance is the maximum box coordinate difference allowed when
	// comparing against a reference output
	Tolerance float32 `yaml:"tolerance" validate:"gte=0"`
	// ProgressEvery logs progress every N frames, 0 disables it
	ProgressEvery int `yaml:"progress_every" validate:"gte=0"`
}

// New creates a BYTETracker from the configuration
func (c TrackerConfig) New() *tracker.BYTETracker {
	return tracker.NewBYTETracker(c.LostTrackBuffer, c.FrameRate,
		c.TrackActivationThreshold, c.MinimumConsecutiveFrames,
		c.MinimumIoUThreshold, c.HighConfDetThreshold)
}
