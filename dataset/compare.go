package dataset

import (
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DefaultTolerance is the maximum box coordinate difference for two outputs
// to be considered equal
const DefaultTolerance = 1e-6

// Mismatch describes one difference between two tracked outputs.  Frame and
// Detection are -1 when the mismatch is not specific to one
type Mismatch struct {
	Frame     int
	Detection int
	Field     string
	Got       float64
	Want      float64
}

// String formats the mismatch for logging
func (m Mismatch) String() string {

	switch {
	case m.Frame < 0:
		return fmt.Sprintf("%s mismatch: got=%v, want=%v", m.Field, m.Got, m.Want)

	case m.Detection < 0:
		return fmt.Sprintf("Frame %d: %s mismatch: got=%v, want=%v",
			m.Frame, m.Field, m.Got, m.Want)

	default:
		return fmt.Sprintf("Frame %d, Detection %d: %s mismatch: got=%v, want=%v",
			m.Frame, m.Detection, m.Field, m.Got, m.Want)
	}
}

// Compare checks got against the reference output want.  Tracker IDs must
// be equal and box coordinates within tolerance.  Frames whose detection
// count differs are reported once and not compared further.  An empty
// result means the outputs match
func Compare(got, want *Output, tolerance float64) []Mismatch {

	var mismatches []Mismatch

	if got.TotalFrames != want.TotalFrames {
		mismatches = append(mismatches, Mismatch{
			Frame: -1, Detection: -1, Field: "total_frames",
			Got: float64(got.TotalFrames), Want: float64(want.TotalFrames),
		})
	}

	if len(got.Detections) != len(want.Detections) {
		mismatches = append(mismatches, Mismatch{
			Frame: -1, Detection: -1, Field: "frame count",
			Got: float64(len(got.Detections)), Want: float64(len(want.Detections)),
		})
	}

	frames := min(len(got.Detections), len(want.Detections))

	for f := 0; f < frames; f++ {

		gotFrame := got.Detections[f]
		wantFrame := want.Detections[f]

		if len(gotFrame) != len(wantFrame) {
			mismatches = append(mismatches, Mismatch{
				Frame: f, Detection: -1, Field: "detection count",
				Got: float64(len(gotFrame)), Want: float64(len(wantFrame)),
			})
			continue
		}

		for d := range gotFrame {

			if gotFrame[d].TrackerID != wantFrame[d].TrackerID {
				mismatches = append(mismatches, Mismatch{
					Frame: f, Detection: d, Field: "tracker_id",
					Got:  float64(gotFrame[d].TrackerID),
					Want: float64(wantFrame[d].TrackerID),
				})
			}

			for c := 0; c < 4; c++ {
				g := float64(gotFrame[d].Box[c])
				w := float64(wantFrame[d].Box[c])

				if math.Abs(g-w) > tolerance {
					mismatches = append(mismatches, Mismatch{
						Frame: f, Detection: d, Field: fmt.Sprintf("box[%d]", c),
						Got: g, Want: w,
					})
				}
			}
		}
	}

	return mismatches
}

// Diff returns a human readable diff of the tracked detections of two
// outputs, or an empty string when they are equal within tolerance.  The
// source file and timing fields are ignored
func Diff(got, want *Output, tolerance float64) string {
	return cmp.Diff(want, got,
		cmpopts.IgnoreFields(Output{}, "SourceFile", "AvgPerformanceMs"),
		cmpopts.EquateApprox(0, tolerance),
		cmpopts.EquateEmpty(),
	)
}
