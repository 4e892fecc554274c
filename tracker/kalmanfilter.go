package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// stateDim is the size of the state vector (x1, y1, x2, y2, vx1, vy1,
	// vx2, vy2)
	stateDim = 8
	// measureDim is the size of the measurement vector (x1, y1, x2, y2)
	measureDim = 4

	// DefaultProcessNoise is the diagonal value of the process noise
	// covariance Q
	DefaultProcessNoise = 0.01
	// DefaultMeasurementNoise is the diagonal value of the measurement
	// noise covariance R
	DefaultMeasurementNoise = 0.1
)

// ErrSingularInnovation is returned when the innovation covariance of a
// correction step can not be inverted
var ErrSingularInnovation = errors.New("singular innovation covariance")

// KalmanError records a failed correction of a single track
type KalmanError struct {
	// TrackerID of the track that failed to update, -1 if not yet activated
	TrackerID int
	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *KalmanError) Error() string {
	return fmt.Sprintf("kalman update of track %d failed: %v", e.TrackerID, e.Err)
}

// Unwrap returns the underlying cause
func (e *KalmanError) Unwrap() error {
	return e.Err
}

// KalmanFilter is a constant velocity Kalman filter over bounding box
// corners.  The matrices are fixed at creation and never re-estimated so a
// single filter can be shared by any number of tracks
type KalmanFilter struct {
	// motionMat is the 8x8 transition matrix F
	motionMat *mat.Dense
	// updateMat is the 4x8 measurement matrix H
	updateMat *mat.Dense
	// processCov is the 8x8 process noise covariance Q
	processCov *mat.Dense
	// measurementCov is the 4x4 measurement noise covariance R
	measurementCov *mat.SymDense
}

// NewKalmanFilter initializes and returns a new KalmanFilter with the given
// process and measurement noise applied along the diagonals of Q and R
func NewKalmanFilter(processNoise, measurementNoise float64) *KalmanFilter {

	// create identity matrix for motionMat and couple each position with
	// its velocity
	motionMat := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < measureDim; i++ {
		motionMat.Set(i, measureDim+i, 1.0)
	}

	// create updateMat as a 4x8 matrix with first 4 diagonal elements set to 1
	updateMat := mat.NewDense(measureDim, stateDim, nil)

	for i := 0; i < measureDim; i++ {
		updateMat.Set(i, i, 1.0)
	}

	processCov := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		processCov.Set(i, i, processNoise)
	}

	measurementCov := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		measurementCov.SetSym(i, i, measurementNoise)
	}

	return &KalmanFilter{
		motionMat:      motionMat,
		updateMat:      updateMat,
		processCov:     processCov,
		measurementCov: measurementCov,
	}
}

// Initiate creates the state mean and covariance for a new track from its
// first measurement.  Velocities start at zero and the covariance at identity
func (kf *KalmanFilter) Initiate(measurement Box) (*mat.VecDense, *mat.Dense) {

	mean := mat.NewVecDense(stateDim, nil)

	for i := 0; i < measureDim; i++ {
		mean.SetVec(i, float64(measurement[i]))
	}

	covariance := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		covariance.Set(i, i, 1.0)
	}

	return mean, covariance
}

// Predict propagates the state mean and covariance one frame forward
func (kf *KalmanFilter) Predict(mean *mat.VecDense, covariance *mat.Dense) {

	var predMean mat.VecDense
	predMean.MulVec(kf.motionMat, mean)
	mean.CopyVec(&predMean)

	// P = F * P * F^T + Q
	var fp, fpf mat.Dense
	fp.Mul(kf.motionMat, covariance)
	fpf.Mul(&fp, kf.motionMat.T())
	covariance.Add(&fpf, kf.processCov)
}

// Update corrects the state mean and covariance with a measurement.  On
// failure the mean and covariance are left unchanged and the returned error
// wraps ErrSingularInnovation
func (kf *KalmanFilter) Update(mean *mat.VecDense, covariance *mat.Dense,
	measurement Box) error {

	// project the state mean and covariance to measurement space
	projectedMean, projectedCov := kf.project(mean, covariance)

	// factorize the innovation covariance, this fails when it is singular
	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return ErrSingularInnovation
	}

	// compute B = P * H^T, then solve S * K^T = B^T for the Kalman gain
	B := mat.NewDense(stateDim, measureDim, nil)
	B.Mul(covariance, kf.updateMat.T())

	var gainT mat.Dense
	err := chol.SolveTo(&gainT, B.T())

	if err != nil {
		return fmt.Errorf("%w: %v", ErrSingularInnovation, err)
	}

	// compute the innovation (measurement residual)
	innovation := mat.NewVecDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		innovation.SetVec(i, float64(measurement[i])-projectedMean.AtVec(i))
	}

	// update the state mean with the innovation
	var correction mat.VecDense
	correction.MulVec(gainT.T(), innovation)
	mean.AddVec(mean, &correction)

	// P = (I - K * H) * P
	kh := mat.NewDense(stateDim, stateDim, nil)
	kh.Mul(gainT.T(), kf.updateMat)

	ikh := mat.NewDense(stateDim, stateDim, nil)

	for i := 0; i < stateDim; i++ {
		ikh.Set(i, i, 1.0)
	}

	ikh.Sub(ikh, kh)

	var newCov mat.Dense
	newCov.Mul(ikh, covariance)
	covariance.Copy(&newCov)

	return nil
}

// project projects the state mean and covariance to measurement space
// returning H * x and the innovation covariance S = H * P * H^T + R
func (kf *KalmanFilter) project(mean *mat.VecDense,
	covariance *mat.Dense) (*mat.VecDense, *mat.SymDense) {

	projectedMean := mat.NewVecDense(measureDim, nil)
	projectedMean.MulVec(kf.updateMat, mean)

	temp := mat.NewDense(measureDim, stateDim, nil)
	temp.Mul(kf.updateMat, covariance)
	temp2 := mat.NewDense(measureDim, measureDim, nil)
	temp2.Mul(temp, kf.updateMat.T())

	projectedCov := mat.NewSymDense(measureDim, nil)

	for i := 0; i < measureDim; i++ {
		for j := i; j < measureDim; j++ {
			projectedCov.SetSym(i, j, temp2.At(i, j))
		}
	}

	projectedCov.AddSym(projectedCov, kf.measurementCov)

	return projectedMean, projectedCov
}
