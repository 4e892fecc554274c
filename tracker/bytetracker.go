package tracker

import (
	"errors"

	"github.com/cyclopcam/logs"
)

// referenceFrameRate is the frame rate the lost track buffer is expressed in
const referenceFrameRate = 30.0

// BYTETracker represents the BYTE Tracker
type BYTETracker struct {
	// Maximum number of frames a track can go unmatched before it is removed
	maxTimeLost int
	// Number of successful observations a track needs before it is given
	// an identity
	minConsecutiveFrames int
	// Minimum IoU between a track and detection for them to be matched
	matchThresh float32
	// Minimum score of an unmatched high confidence detection to spawn a
	// new track
	trackThresh float32
	// Detections scoring at or above this are matched in the first round
	highThresh float32
	// Next identity to hand out on activation
	nextTrackerID int
	// List of live tracks
	tracks []*STrack
	// Kalman correction failures recorded during the last Update
	faults []*KalmanError
	// log is optional, nil disables logging
	log logs.Log

	// per frame scratch buffers reused between calls
	highDets       []Detection
	lowDets        []Detection
	highBoxes      []Box
	lowBoxes       []Box
	predictedBoxes []Box
	remainBoxes    []Box
}

// NewBYTETracker initializes and returns a new BYTETracker.  The number of
// frames a lost track is kept for is lostTrackBuffer scaled from 30 FPS to
// the given frameRate
func NewBYTETracker(lostTrackBuffer int, frameRate float32,
	trackActivationThreshold float32, minimumConsecutiveFrames int,
	minimumIoUThreshold float32, highConfDetThreshold float32) *BYTETracker {

	return &BYTETracker{
		maxTimeLost:          int(frameRate / referenceFrameRate * float32(lostTrackBuffer)),
		minConsecutiveFrames: minimumConsecutiveFrames,
		matchThresh:          minimumIoUThreshold,
		trackThresh:          trackActivationThreshold,
		highThresh:           highConfDetThreshold,
	}
}

// SetLogger sets the logger used to report track update failures
func (bt *BYTETracker) SetLogger(log logs.Log) {
	bt.log = log
}

// MaxTimeLost returns the number of consecutive missed frames that removes
// an activated track
func (bt *BYTETracker) MaxTimeLost() int {
	return bt.maxTimeLost
}

// Reset clears the tracked data and resets everything
func (bt *BYTETracker) Reset() {
	bt.nextTrackerID = 0
	bt.tracks = nil
	bt.faults = nil
}

// Tracks returns the live tracks.  The returned tracks must not be modified
func (bt *BYTETracker) Tracks() []*STrack {
	tracks := make([]*STrack, len(bt.tracks))
	copy(tracks, bt.tracks)
	return tracks
}

// Faults returns the track corrections that failed during the last Update
func (bt *BYTETracker) Faults() []*KalmanError {
	return bt.faults
}

// Update runs the tracker over the detections of the next frame and returns
// the tracked detections for the frame in the order: first round matches,
// second round matches, unmatched low confidence detections and detections
// that spawned a new track
func (bt *BYTETracker) Update(detections []Detection) []TrackedDetection {

	if len(bt.tracks) == 0 && len(detections) == 0 {
		return []TrackedDetection{}
	}

	bt.faults = nil
	output := make([]TrackedDetection, 0, len(detections))

	// Step 1: predict current position of every track
	bt.predictedBoxes = bt.predictedBoxes[:0]

	for _, track := range bt.tracks {
		track.Predict()
		bt.predictedBoxes = append(bt.predictedBoxes, track.GetBox())
	}

	bt.splitDetections(detections)

	// Step 2: first association, high confidence detections
	matchesIdx, unmatchTrackIdx, unmatchDetectionIdx := Associate(
		IoUBatch(bt.predictedBoxes, bt.highBoxes),
		len(bt.predictedBoxes), len(bt.highBoxes), bt.matchThresh,
	)

	output = bt.updateMatched(bt.highDets, matchesIdx, output)

	// Step 3: second association, remaining tracks with low confidence
	// detections
	bt.remainBoxes = bt.remainBoxes[:0]

	for _, idx := range unmatchTrackIdx {
		bt.remainBoxes = append(bt.remainBoxes, bt.predictedBoxes[idx])
	}

	lowMatchesIdx, _, unmatchLowIdx := Associate(
		IoUBatch(bt.remainBoxes, bt.lowBoxes),
		len(bt.remainBoxes), len(bt.lowBoxes), bt.matchThresh,
	)

	// map rows back to the index into bt.tracks
	for i := range lowMatchesIdx {
		lowMatchesIdx[i][0] = unmatchTrackIdx[lowMatchesIdx[i][0]]
	}

	output = bt.updateMatched(bt.lowDets, lowMatchesIdx, output)

	for _, idx := range unmatchLowIdx {
		output = append(output, TrackedDetection{
			Box:       bt.lowDets[idx].Box,
			TrackerID: UnassignedID,
		})
	}

	// Step 4: init new tracks from unmatched high confidence detections
	for _, idx := range unmatchDetectionIdx {
		det := bt.highDets[idx]

		if det.Score < bt.trackThresh {
			continue
		}

		bt.tracks = append(bt.tracks, NewSTrack(det.Box))

		output = append(output, TrackedDetection{
			Box:       det.Box,
			TrackerID: UnassignedID,
		})
	}

	// Step 5: remove tracks that are no longer alive
	bt.pruneTracks()

	return output
}

// splitDetections partitions detections into high and low confidence
// keeping their relative order
func (bt *BYTETracker) splitDetections(detections []Detection) {

	bt.highDets = bt.highDets[:0]
	bt.lowDets = bt.lowDets[:0]
	bt.highBoxes = bt.highBoxes[:0]
	bt.lowBoxes = bt.lowBoxes[:0]

	for _, det := range detections {
		if det.Score >= bt.highThresh {
			bt.highDets = append(bt.highDets, det)
			bt.highBoxes = append(bt.highBoxes, det.Box)
		} else {
			bt.lowDets = append(bt.lowDets, det)
			bt.lowBoxes = append(bt.lowBoxes, det.Box)
		}
	}
}

// updateMatched corrects each matched track with its detection, activates
// tracks that have reached the minimum number of consecutive frames and
// appends a tracked detection per match to output
func (bt *BYTETracker) updateMatched(dets []Detection, matchesIdx [][2]int,
	output []TrackedDetection) []TrackedDetection {

	for _, matchIdx := range matchesIdx {

		track := bt.tracks[matchIdx[0]]
		det := dets[matchIdx[1]]

		if err := track.Update(det.Box); err != nil {
			bt.recordFault(err)

		} else if track.GetSuccessfulUpdates() >= bt.minConsecutiveFrames &&
			!track.IsActivated() {

			track.activate(bt.nextTrackerID)
			bt.nextTrackerID++
		}

		output = append(output, TrackedDetection{
			Box:       det.Box,
			TrackerID: track.GetTrackerID(),
		})
	}

	return output
}

// recordFault keeps a failed correction for Faults() and logs it
func (bt *BYTETracker) recordFault(err error) {

	var kerr *KalmanError

	if !errors.As(err, &kerr) {
		kerr = &KalmanError{TrackerID: UnassignedID, Err: err}
	}

	bt.faults = append(bt.faults, kerr)

	if bt.log != nil {
		bt.log.Warnf("Skipping track correction: %v", kerr)
	}
}

// pruneTracks drops tracks that have been lost for too long and immature
// tracks that missed a single frame
func (bt *BYTETracker) pruneTracks() {

	alive := bt.tracks[:0]

	for _, track := range bt.tracks {
		if bt.isAlive(track) {
			alive = append(alive, track)
		}
	}

	// release dropped tracks held in the tail of the backing array
	for i := len(alive); i < len(bt.tracks); i++ {
		bt.tracks[i] = nil
	}

	bt.tracks = alive
}

// isAlive reports whether a track survives into the next frame
func (bt *BYTETracker) isAlive(track *STrack) bool {

	isMature := track.GetSuccessfulUpdates() >= bt.minConsecutiveFrames
	isActive := track.GetTimeSinceUpdate() == 0

	return track.GetTimeSinceUpdate() < bt.maxTimeLost && (isMature || isActive)
}
