package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-bytetrack/tracker"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	return s
}

func TestCreateRun(t *testing.T) {

	s := openTestStore(t)

	runID, err := s.CreateRun(&Run{
		SourceFile:  "detections.json",
		Tracker:     "ByteTrack",
		TotalFrames: 3,
		ParamsYAML:  "tracker:\n  frame_rate: 30\n",
	})

	require.NoError(t, err)
	assert.Len(t, runID, 36)

	run, err := s.Run(runID)
	require.NoError(t, err)

	assert.Equal(t, "detections.json", run.SourceFile)
	assert.Equal(t, 3, run.TotalFrames)
	assert.Nil(t, run.AvgPerformanceMs)
	assert.Equal(t, "tracker:\n  frame_rate: 30\n", run.ParamsYAML)
	assert.NotZero(t, run.CreatedAt)

	require.NoError(t, s.SetAvgPerformance(runID, 0.125))

	run, err = s.Run(runID)
	require.NoError(t, err)
	require.NotNil(t, run.AvgPerformanceMs)
	assert.Equal(t, 0.125, *run.AvgPerformanceMs)
}

func TestRunNotFound(t *testing.T) {

	s := openTestStore(t)

	_, err := s.Run("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, s.SetAvgPerformance("missing", 1), sql.ErrNoRows)
}

func TestFramesRoundTrip(t *testing.T) {

	s := openTestStore(t)

	runID, err := s.CreateRun(&Run{SourceFile: "detections.json", Tracker: "ByteTrack", TotalFrames: 3})
	require.NoError(t, err)

	frame0 := []tracker.TrackedDetection{
		{Box: tracker.NewBox(0.1, 0.2, 10.3, 10.4), TrackerID: -1},
	}
	frame2 := []tracker.TrackedDetection{
		{Box: tracker.NewBox(50, 50, 60, 60), TrackerID: 1},
		{Box: tracker.NewBox(1.5, 1.5, 11.5, 11.5), TrackerID: 0},
	}

	require.NoError(t, s.InsertFrame(runID, 0, frame0))
	require.NoError(t, s.InsertFrame(runID, 1, nil))
	require.NoError(t, s.InsertFrame(runID, 2, frame2))

	frames, err := s.Frames(runID)
	require.NoError(t, err)

	assert.Equal(t, [][]tracker.TrackedDetection{
		frame0,
		{},
		frame2,
	}, frames)
}

func TestInsertFrameUnknownRun(t *testing.T) {

	s := openTestStore(t)

	err := s.InsertFrame("missing", 0, []tracker.TrackedDetection{
		{Box: tracker.NewBox(0, 0, 1, 1), TrackerID: 0},
	})

	assert.Error(t, err)
}

func TestRunsOrdered(t *testing.T) {

	s := openTestStore(t)

	_, err := s.CreateRun(&Run{RunID: "first", SourceFile: "a.json", Tracker: "ByteTrack", CreatedAt: 100})
	require.NoError(t, err)

	_, err = s.CreateRun(&Run{RunID: "second", SourceFile: "b.json", Tracker: "ByteTrack", CreatedAt: 200})
	require.NoError(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].RunID)
	assert.Equal(t, "first", runs[1].RunID)

	// run ids are unique
	_, err = s.CreateRun(&Run{RunID: "first", SourceFile: "a.json", Tracker: "ByteTrack"})
	assert.Error(t, err)
}
