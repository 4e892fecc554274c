package tracker

import (
	"gonum.org/v1/gonum/mat"
)

// UnassignedID is the tracker ID of a track that has not yet been activated
// and of output rows not attached to any activated track
const UnassignedID = -1

// defaultKalmanFilter is shared by all tracks created with NewSTrack, its
// matrices are never modified after creation
var defaultKalmanFilter = NewKalmanFilter(DefaultProcessNoise, DefaultMeasurementNoise)

// STrack represents a single track of an object
type STrack struct {
	// Kalman filter used for tracking
	kalmanFilter *KalmanFilter
	// Mean state vector (x1, y1, x2, y2, vx1, vy1, vx2, vy2)
	mean *mat.VecDense
	// Covariance matrix
	covariance *mat.Dense
	// Unique ID for the track, UnassignedID until activated
	trackerID int
	// Number of frames since the last successful correction
	timeSinceUpdate int
	// Number of successful observations including the one that created
	// the track
	successfulUpdates int
}

// NewSTrack creates a new STrack from the bounding box of the detection that
// spawned it
func NewSTrack(box Box) *STrack {
	return NewSTrackWithFilter(defaultKalmanFilter, box)
}

// NewSTrackWithFilter creates a new STrack using the given Kalman filter
func NewSTrackWithFilter(kf *KalmanFilter, box Box) *STrack {

	mean, covariance := kf.Initiate(box)

	return &STrack{
		kalmanFilter:      kf,
		mean:              mean,
		covariance:        covariance,
		trackerID:         UnassignedID,
		timeSinceUpdate:   0,
		successfulUpdates: 1,
	}
}

// GetTrackerID returns the unique ID for the track or UnassignedID if it
// has not been activated
func (s *STrack) GetTrackerID() int {
	return s.trackerID
}

// IsActivated returns whether the track has been given an identity
func (s *STrack) IsActivated() bool {
	return s.trackerID != UnassignedID
}

// GetTimeSinceUpdate returns the number of predictions made since the last
// successful correction
func (s *STrack) GetTimeSinceUpdate() int {
	return s.timeSinceUpdate
}

// GetSuccessfulUpdates returns the number of successful observations of
// the track
func (s *STrack) GetSuccessfulUpdates() int {
	return s.successfulUpdates
}

// GetBox returns the bounding box position from the current state
func (s *STrack) GetBox() Box {
	return Box{
		float32(s.mean.AtVec(0)),
		float32(s.mean.AtVec(1)),
		float32(s.mean.AtVec(2)),
		float32(s.mean.AtVec(3)),
	}
}

// GetVelocity returns the per frame velocity of each box coordinate
func (s *STrack) GetVelocity() [4]float32 {
	return [4]float32{
		float32(s.mean.AtVec(4)),
		float32(s.mean.AtVec(5)),
		float32(s.mean.AtVec(6)),
		float32(s.mean.AtVec(7)),
	}
}

// activate gives the track its permanent identity.  Only the first call
// has any effect
func (s *STrack) activate(trackerID int) {
	if s.trackerID == UnassignedID {
		s.trackerID = trackerID
	}
}

// Predict predicts the next state of the track
func (s *STrack) Predict() {
	s.kalmanFilter.Predict(s.mean, s.covariance)
	s.timeSinceUpdate++
}

// Update corrects the track with a new detection box.  If the correction
// fails a *KalmanError is returned and the track keeps its predicted state
// and counters
func (s *STrack) Update(box Box) error {

	err := s.kalmanFilter.Update(s.mean, s.covariance, box)

	if err != nil {
		return &KalmanError{TrackerID: s.trackerID, Err: err}
	}

	s.timeSinceUpdate = 0
	s.successfulUpdates++

	return nil
}
