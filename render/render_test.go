package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-bytetrack/tracker"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLabelText(t *testing.T) {

	assert.Equal(t, "ID: 7", LabelText(tracker.TrackedDetection{
		Box: tracker.NewBox(0, 0, 10, 10), TrackerID: 7,
	}))

	assert.Equal(t, "ID: -1", LabelText(tracker.TrackedDetection{
		Box: tracker.NewBox(0, 0, 10, 10), TrackerID: tracker.UnassignedID,
	}))
}

func TestTrackColor(t *testing.T) {

	assert.Equal(t, Gray, TrackColor(tracker.UnassignedID))
	assert.Equal(t, trackColors[0], TrackColor(0))
	// palette wraps around
	assert.Equal(t, TrackColor(3), TrackColor(3+len(trackColors)))
}

func TestLabelRectAboveBox(t *testing.T) {

	font := DefaultFont()
	box := image.Rect(100, 100, 200, 200)
	textSize := image.Pt(40, 10)

	rect := labelRect(box, textSize, font, 2)

	assert.Equal(t, box.Min.Y, rect.Max.Y)
	assert.Equal(t, box.Min.Y-textSize.Y-font.TopPad-font.BottomPad, rect.Min.Y)
	assert.Equal(t, textSize.X+font.LeftPad+font.RightPad, rect.Dx())

	pos := labelPosition(box, textSize, font, 2)
	assert.Equal(t, rect.Min.X+font.LeftPad, pos.X)
}

func TestCaptionFont(t *testing.T) {

	cf, err := ParseCaptionFont(goregular.TTF, DefaultCaptionSize)
	require.NoError(t, err)
	defer cf.Close()

	assert.Greater(t, cf.Width("Frame 10"), cf.Width("F"))

	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	cf.DrawCaption(img, "Frame 10", 4, 24, White)

	drawn := 0

	for _, p := range img.Pix {
		if p != 0 {
			drawn++
		}
	}

	assert.NotZero(t, drawn)
}

func TestParseCaptionFontInvalid(t *testing.T) {
	_, err := ParseCaptionFont([]byte("not a font"), DefaultCaptionSize)
	assert.Error(t, err)
}
