package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-bytetrack/tracker"
	"gocv.io/x/gocv"
)

// boxLabel holds a precalculated label so all labels can be drawn after the
// boxes
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// LabelText returns the label drawn above a tracked detection
func LabelText(det tracker.TrackedDetection) string {
	return fmt.Sprintf("ID: %d", det.TrackerID)
}

// TrackerBoxes renders the bounding boxes of a frame's tracked detections
// with their tracker ID label.  Detections without an identity are only
// drawn when showUntracked is set
func TrackerBoxes(img *gocv.Mat, dets []tracker.TrackedDetection,
	font Font, lineThickness int, showUntracked bool) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(dets))

	for _, det := range dets {

		if !det.IsTracked() && !showUntracked {
			continue
		}

		rect := det.Box.Rect()
		useClr := TrackColor(det.TrackerID)

		// draw rectangle around tracked object
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := LabelText(det)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		boxLabels = append(boxLabels, boxLabel{
			rect:    labelRect(rect, textSize, font, lineThickness),
			clr:     useClr,
			text:    text,
			textPos: labelPosition(rect, textSize, font, lineThickness),
		})
	}

	// draw labels last so they are the top most layer and are not
	// overlapped by neighbouring boxes
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// labelCenterX calculates the horizontal center of a label given the font
// alignment
func labelCenterX(rect image.Rectangle, textSize image.Point, font Font,
	lineThickness int) int {

	switch font.Alignment {
	case Center:
		return (rect.Min.X + rect.Max.X) / 2

	case Right:
		return rect.Max.X - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		return rect.Min.X + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}
}

// labelPosition returns the text origin so the text sits centered in its
// label box
func labelPosition(rect image.Rectangle, textSize image.Point, font Font,
	lineThickness int) image.Point {

	centerX := labelCenterX(rect, textSize, font, lineThickness)
	return image.Pt(centerX-textSize.X/2, rect.Min.Y-font.BottomPad)
}

// labelRect returns the filled box the label text is written on
func labelRect(rect image.Rectangle, textSize image.Point, font Font,
	lineThickness int) image.Rectangle {

	centerX := labelCenterX(rect, textSize, font, lineThickness)

	return image.Rect(centerX-textSize.X/2-font.LeftPad,
		rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad, rect.Min.Y)
}
