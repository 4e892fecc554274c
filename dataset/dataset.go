package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/swdee/go-bytetrack/tracker"
)

// Input is the detector output, one list of detections per video frame
type Input struct {
	VideoPath   *string               `json:"video_path,omitempty"`
	Model       *string               `json:"model,omitempty"`
	Threshold   *float32              `json:"threshold,omitempty"`
	TotalFrames int                   `json:"total_frames"`
	Detections  [][]tracker.Detection `json:"detections"`
}

// Output is the tracker output, one list of tracked detections per video
// frame
type Output struct {
	SourceFile       string                       `json:"source_file"`
	Tracker          string                       `json:"tracker"`
	TotalFrames      int                          `json:"total_frames"`
	AvgPerformanceMs *float64                     `json:"avg_performance_ms,omitempty"`
	Detections       [][]tracker.TrackedDetection `json:"detections"`
}

// LoadInput reads a detections file
func LoadInput(path string) (*Input, error) {

	in := &Input{}

	if err := readJSON(path, in); err != nil {
		return nil, err
	}

	if len(in.Detections) != in.TotalFrames {
		return nil, fmt.Errorf("detections file %s has %d frames but total_frames is %d",
			path, len(in.Detections), in.TotalFrames)
	}

	return in, nil
}

// LoadOutput reads a tracked detections file
func LoadOutput(path string) (*Output, error) {

	out := &Output{}

	if err := readJSON(path, out); err != nil {
		return nil, err
	}

	if len(out.Detections) != out.TotalFrames {
		return nil, fmt.Errorf("tracked file %s has %d frames but total_frames is %d",
			path, len(out.Detections), out.TotalFrames)
	}

	return out, nil
}

// SaveOutput writes a tracked detections file as indented JSON
func SaveOutput(path string, out *Output) error {

	data, err := json.MarshalIndent(out, "", "  ")

	if err != nil {
		return fmt.Errorf("failed to serialize tracked output: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracked file %s: %w", path, err)
	}

	return nil
}

// readJSON decodes the JSON file at path into v
func readJSON(path string, v any) error {

	data, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON file %s: %w", path, err)
	}

	return nil
}
