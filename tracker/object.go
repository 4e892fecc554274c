package tracker

// Detection represents an object detected in a single frame and handed to
// the tracker
type Detection struct {
	// Box is the bounding box of the detected object in (x1, y1, x2, y2)
	// format
	Box Box `json:"box"`
	// ClassID is the class label of the object detected
	ClassID int `json:"class_id"`
	// Score is the confidence/probability of the object detected
	Score float32 `json:"score"`
}

// NewDetection is a constructor function for the Detection struct
func NewDetection(box Box, classID int, score float32) Detection {
	return Detection{
		Box:     box,
		ClassID: classID,
		Score:   score,
	}
}

// TrackedDetection is a single row of tracker output for a frame
type TrackedDetection struct {
	// Box is the bounding box of the detection the track was matched to
	Box Box `json:"box"`
	// TrackerID is the identity of the track, or UnassignedID if the
	// detection is not attached to an activated track
	TrackerID int `json:"tracker_id"`
}

// IsTracked returns true if the detection carries an activated track identity
func (t TrackedDetection) IsTracked() bool {
	return t.TrackerID != UnassignedID
}
