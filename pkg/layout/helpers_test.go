package layout

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

func colorWhite() color.Color {
	return color.RGBA{255, 255, 255, 255}
}

// createTestImage builds a uniformly filled RGBA image.
func createTestImage(width, height int, fill color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{fill}, image.Point{}, draw.Src)
	return img
}

// stubDetector returns a fixed face list per image size, or a fixed error.
type stubDetector struct {
	faces map[image.Point][]Rect
	err   error
}

func (d *stubDetector) Detect(img image.Image) ([]Rect, error) {
	if d.err != nil {
		return nil, d.err
	}
	size := image.Pt(img.Bounds().Dx(), img.Bounds().Dy())
	return d.faces[size], nil
}

var errDetectorDown = errors.New("detector unavailable")
