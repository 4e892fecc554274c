package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultCaptionSize is the point size of caption text
const DefaultCaptionSize = 18

// CaptionFont is a TrueType face used to write captions, such as the frame
// counter, that the Hershey fonts can not render
type CaptionFont struct {
	face font.Face
}

// LoadCaptionFont loads the TTF font file at path
func LoadCaptionFont(path string, size float64) (*CaptionFont, error) {

	fontBytes, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	return ParseCaptionFont(fontBytes, size)
}

// ParseCaptionFont creates a caption font from TTF or OTF data
func ParseCaptionFont(data []byte, size float64) (*CaptionFont, error) {

	f, err := opentype.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &CaptionFont{face: face}, nil
}

// Close releases the font face
func (c *CaptionFont) Close() error {
	return c.face.Close()
}

// Width returns the advance width in pixels of text
func (c *CaptionFont) Width(text string) int {
	return font.MeasureString(c.face, text).Ceil()
}

// DrawCaption writes text onto an RGBA image with its baseline starting at
// x,y
func (c *CaptionFont) DrawCaption(dst draw.Image, text string, x, y int,
	clr color.RGBA) {

	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: c.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		},
	}
	dr.DrawString(text)
}

// Caption writes text onto the BGR image img at x,y
func Caption(img *gocv.Mat, cf *CaptionFont, text string, x, y int,
	clr color.RGBA) error {

	// write text on a transparent overlay the size of the frame
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	cf.DrawCaption(rgba, text, x, y, clr)

	overlay, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if err != nil {
		return fmt.Errorf("error creating Mat from RGBA: %w", err)
	}

	defer overlay.Close()

	gocv.CvtColor(overlay, &overlay, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, overlay, 1.0, 0, img)

	return nil
}
