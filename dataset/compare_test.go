package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-bytetrack/tracker"
)

func reference() *Output {
	return &Output{
		SourceFile:  "detections.json",
		Tracker:     "ByteTrack",
		TotalFrames: 2,
		Detections: [][]tracker.TrackedDetection{
			{{Box: tracker.NewBox(0, 0, 10, 10), TrackerID: -1}},
			{
				{Box: tracker.NewBox(1, 1, 11, 11), TrackerID: 0},
				{Box: tracker.NewBox(50, 50, 60, 60), TrackerID: -1},
			},
		},
	}
}

func TestCompareWithinTolerance(t *testing.T) {

	got := reference()
	got.SourceFile = "other.json"
	got.Detections[1][0].Box[2] += 1e-7

	assert.Empty(t, Compare(got, reference(), DefaultTolerance))
	assert.Empty(t, Diff(got, reference(), DefaultTolerance))
}

func TestCompareTrackerID(t *testing.T) {

	got := reference()
	got.Detections[1][1].TrackerID = 3

	mismatches := Compare(got, reference(), DefaultTolerance)

	require.Len(t, mismatches, 1)
	assert.Equal(t, Mismatch{Frame: 1, Detection: 1, Field: "tracker_id", Got: 3, Want: -1},
		mismatches[0])
	assert.Equal(t, "Frame 1, Detection 1: tracker_id mismatch: got=3, want=-1",
		mismatches[0].String())

	assert.NotEmpty(t, Diff(got, reference(), DefaultTolerance))
}

func TestCompareBox(t *testing.T) {

	got := reference()
	got.Detections[0][0].Box[3] = 10.5

	mismatches := Compare(got, reference(), DefaultTolerance)

	require.Len(t, mismatches, 1)
	assert.Equal(t, "box[3]", mismatches[0].Field)
	assert.Equal(t, 10.5, mismatches[0].Got)
}

func TestCompareCounts(t *testing.T) {

	got := reference()
	got.TotalFrames = 3
	got.Detections[1] = got.Detections[1][:1]
	got.Detections = append(got.Detections, nil)

	mismatches := Compare(got, reference(), DefaultTolerance)

	require.Len(t, mismatches, 3)
	assert.Equal(t, "total_frames", mismatches[0].Field)
	assert.Equal(t, "frame count", mismatches[1].Field)
	assert.Equal(t, "Frame 1: detection count mismatch: got=1, want=2",
		mismatches[2].String())
}
