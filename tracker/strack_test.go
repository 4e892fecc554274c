package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSTrack(t *testing.T) {

	s := NewSTrack(NewBox(5, 6, 15, 26))

	assert.Equal(t, UnassignedID, s.GetTrackerID())
	assert.False(t, s.IsActivated())
	assert.Equal(t, 0, s.GetTimeSinceUpdate())
	assert.Equal(t, 1, s.GetSuccessfulUpdates())
	assert.Equal(t, NewBox(5, 6, 15, 26), s.GetBox())
	assert.Equal(t, [4]float32{}, s.GetVelocity())
}

func TestSTrackCounters(t *testing.T) {

	s := NewSTrack(NewBox(0, 0, 10, 10))

	s.Predict()
	s.Predict()
	assert.Equal(t, 2, s.GetTimeSinceUpdate())
	assert.Equal(t, 1, s.GetSuccessfulUpdates())

	require.NoError(t, s.Update(NewBox(1, 1, 11, 11)))
	assert.Equal(t, 0, s.GetTimeSinceUpdate())
	assert.Equal(t, 2, s.GetSuccessfulUpdates())

	s.Predict()
	require.NoError(t, s.Update(NewBox(2, 2, 12, 12)))
	assert.Equal(t, 0, s.GetTimeSinceUpdate())
	assert.Equal(t, 3, s.GetSuccessfulUpdates())

	// moving down and right so all velocities are positive
	for _, v := range s.GetVelocity() {
		assert.Greater(t, v, float32(0))
	}
}

func TestSTrackActivateOnce(t *testing.T) {

	s := NewSTrack(NewBox(0, 0, 10, 10))

	s.activate(7)
	assert.Equal(t, 7, s.GetTrackerID())
	assert.True(t, s.IsActivated())

	s.activate(8)
	assert.Equal(t, 7, s.GetTrackerID())
}

func TestSTrackFailedUpdate(t *testing.T) {

	s := NewSTrackWithFilter(NewKalmanFilter(0, 0), NewBox(0, 0, 10, 10))
	s.covariance.Zero()
	s.activate(3)

	s.Predict()
	err := s.Update(NewBox(1, 1, 11, 11))

	require.Error(t, err)

	var kerr *KalmanError
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, 3, kerr.TrackerID)
	assert.True(t, errors.Is(err, ErrSingularInnovation))

	// prediction stands and counters are not touched
	assert.Equal(t, 1, s.GetTimeSinceUpdate())
	assert.Equal(t, 1, s.GetSuccessfulUpdates())
	assert.Equal(t, NewBox(0, 0, 10, 10), s.GetBox())
}
