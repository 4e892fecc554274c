package tracker

import (
	"image"
)

// Tlwh (top, left, width, height) represents a 1x4 matrix
type Tlwh []float32

// Box is an axis aligned bounding box in (x1, y1, x2, y2) format where
// (x1, y1) is the top left corner and (x2, y2) the bottom right corner
type Box [4]float32

// NewBox creates a new Box from its corner coordinates
func NewBox(x1, y1, x2, y2 float32) Box {
	return Box{x1, y1, x2, y2}
}

// GenerateBoxByTlwh creates a Box from Tlwh (top, left, width, height) format
func GenerateBoxByTlwh(tlwh Tlwh) Box {
	return Box{tlwh[0], tlwh[1], tlwh[0] + tlwh[2], tlwh[1] + tlwh[3]}
}

// X1 returns the top-left x coordinate of the box
func (b Box) X1() float32 {
	return b[0]
}

// Y1 returns the top-left y coordinate of the box
func (b Box) Y1() float32 {
	return b[1]
}

// X2 returns the bottom-right x coordinate of the box
func (b Box) X2() float32 {
	return b[2]
}

// Y2 returns the bottom-right y coordinate of the box
func (b Box) Y2() float32 {
	return b[3]
}

// Width returns the width of the box
func (b Box) Width() float32 {
	return b[2] - b[0]
}

// Height returns the height of the box
func (b Box) Height() float32 {
	return b[3] - b[1]
}

// Area returns the area of the box.  Degenerate boxes may return zero or a
// negative value
func (b Box) Area() float32 {
	return b.Width() * b.Height()
}

// Center returns the center point of the box
func (b Box) Center() (float32, float32) {
	return b[0] + b.Width()/2, b[1] + b.Height()/2
}

// GetTlwh converts the box to Tlwh (top, left, width, height) format
func (b Box) GetTlwh() Tlwh {
	return Tlwh{b[0], b[1], b.Width(), b.Height()}
}

// Rect converts the box to an image.Rectangle truncating coordinates to
// whole pixels
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b[0]), int(b[1]), int(b[2]), int(b[3]))
}

// CalcIoU calculates the Intersection over Union (IoU) with another box.
// Boxes that do not overlap, or whose union has no area, have an IoU of 0
func (b Box) CalcIoU(other Box) float32 {

	x1 := max(b[0], other[0])
	y1 := max(b[1], other[1])
	x2 := min(b[2], other[2])
	y2 := min(b[3], other[3])

	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	inter := (x2 - x1) * (y2 - y1)
	union := b.Area() + other.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// IoU calculates the Intersection over Union between two boxes
func IoU(a, b Box) float32 {
	return a.CalcIoU(b)
}

// IoUBatch calculates the IoU between every predicted box and every
// detection box returning a len(preds) x len(dets) matrix.  If either side
// is empty the rows are all zero length or zero valued respectively
func IoUBatch(preds, dets []Box) [][]float32 {

	ious := make([][]float32, len(preds))

	for i := range ious {
		ious[i] = make([]float32, len(dets))
	}

	if len(preds) == 0 || len(dets) == 0 {
		return ious
	}

	for i, pred := range preds {
		for j, det := range dets {
			ious[i][j] = pred.CalcIoU(det)
		}
	}

	return ious
}
