package tracker

import "sync"

// Point represents the x,y coordinates of the center of a tracked
// detection's bounding box
type Point struct {
	X, Y int
}

// Track represents a track history
type Track struct {
	points []Point
}

// Trail is the struct to keep a history of tracked detection centers per
// tracker ID, used for drawing a trail
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of tracked points
	history map[int]*Track
	sync.Mutex
}

// NewTrail returns a new trail history track instance.  Size is the number
// of most recent trails to keep and specifies the maximum length of the trail
// to maintain
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int]*Track),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int]*Track)
}

// Add a tracked detection to the history.  Detections without an activated
// tracker ID have no history and are ignored
func (t *Trail) Add(det TrackedDetection) {

	if !det.IsTracked() {
		return
	}

	t.Lock()
	defer t.Unlock()

	// init map if no history exists yet for track id
	if _, exists := t.history[det.TrackerID]; !exists {
		t.history[det.TrackerID] = &Track{}
	}

	// add bounding box center point to track history
	track := t.history[det.TrackerID]

	x, y := det.Box.Center()

	track.points = append(track.points, Point{
		X: int(x),
		Y: int(y),
	})

	// check if history is exceeded and drop oldest point
	if len(track.points) > t.size {
		track.points = track.points[1:]
	}
}

// AddFrame adds every tracked detection of a frame to the history
func (t *Trail) AddFrame(dets []TrackedDetection) {
	for _, det := range dets {
		t.Add(det)
	}
}

// GetPoints gets the point history for a specific track id
func (t *Trail) GetPoints(id int) []Point {
	t.Lock()
	defer t.Unlock()

	if _, exists := t.history[id]; exists {
		points := make([]Point, len(t.history[id].points))
		copy(points, t.history[id].points)
		return points
	}

	// no history yet
	return nil
}
