package layout

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gray = color.RGBA{128, 128, 128, 255}

func TestMaxCropWindow(t *testing.T) {
	t.Run("WiderSourceCropsSides", func(t *testing.T) {
		src := Rect{W: 1600, H: 900}
		win := MaxCropWindow(src, 1.0)
		assert.InDelta(t, 900.0, win.W, 1e-9)
		assert.InDelta(t, 900.0, win.H, 1e-9)
		assert.InDelta(t, 350.0, win.X, 1e-9)
		assert.InDelta(t, 0.0, win.Y, 1e-9)
	})

	t.Run("TallerSourceCropsTopBottom", func(t *testing.T) {
		src := Rect{W: 600, H: 800}
		win := MaxCropWindow(src, 16.0/9.0)
		assert.InDelta(t, 600.0, win.W, 1e-9)
		assert.InDelta(t, 600.0/(16.0/9.0), win.H, 1e-9)
		assert.InDelta(t, 16.0/9.0, win.Aspect(), 1e-9)
	})
}

func TestCrop_NoFaces(t *testing.T) {
	cropper := NewCropper(nil)
	src := createTestImage(1600, 900, gray)

	out := cropper.Crop(src, 400, 400, nil)
	bounds := out.Bounds()
	assert.Equal(t, 400, bounds.Dx())
	assert.Equal(t, 400, bounds.Dy())

	// The selected source window is at the target aspect ratio.
	win := cropper.selectWindow(Rect{W: 1600, H: 900}, 400, 400, nil)
	assert.InDelta(t, 1.0, win.Aspect(), 1e-6)
}

func TestCrop_FacesInsideMaxCropReturnsMaxCrop(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 1600, H: 1200} // 4:3
	targetRatio := 16.0 / 9.0
	maxCrop := MaxCropWindow(src, targetRatio)

	// A centered face well inside the maximum crop.
	face := Rect{X: 750, Y: 550, W: 100, H: 100}
	union := cropper.paddedUnion([]Rect{face}, src)
	require.True(t, maxCrop.Contains(union))

	win := cropper.selectWindow(src, 1600, 900, &union)
	assert.Equal(t, maxCrop, win, "crop must be the unshifted maximum crop")

	// Idempotent: identical inputs give identical windows.
	again := cropper.selectWindow(src, 1600, 900, &union)
	assert.Equal(t, win, again)
}

func TestCrop_SingleCenteredFaceUnshifted(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 1600, H: 1200}

	face := Rect{X: 740, Y: 540, W: 120, H: 120}
	union := cropper.paddedUnion([]Rect{face}, src)
	win := cropper.selectWindow(src, 1920, 1080, &union)

	maxCrop := MaxCropWindow(src, 16.0/9.0)
	assert.Equal(t, maxCrop, win)
	cx, cy := win.Center()
	assert.InDelta(t, 800.0, cx, 1e-9)
	assert.InDelta(t, 600.0, cy, 1e-9)
}

func TestCrop_ShiftKeepsFaceWithoutResizing(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 1600, H: 1200}
	maxCrop := MaxCropWindow(src, 16.0/9.0) // y 150..1050

	// Face near the top: partially outside the centered window but with
	// enough overlap to shift into view.
	face := Rect{X: 700, Y: 80, W: 200, H: 300}
	union := cropper.paddedUnion([]Rect{face}, src)
	require.False(t, maxCrop.Contains(union))
	require.Greater(t, maxCrop.OverlapFrac(union), cropper.tuning.FaceShiftMinOverlap)

	win := cropper.selectWindow(src, 1920, 1080, &union)
	assert.InDelta(t, maxCrop.W, win.W, 1e-9, "shift must not change the window size")
	assert.InDelta(t, maxCrop.H, win.H, 1e-9)
	assert.True(t, win.Contains(union), "shifted window must contain the face union")
}

func TestCrop_SquareSourceToThreeToOneTarget(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 1000, H: 1000}

	face := Rect{X: 420, Y: 420, W: 160, H: 160}
	union := cropper.paddedUnion([]Rect{face}, src)
	win := cropper.selectWindow(src, 900, 300, &union)

	assert.InDelta(t, 3.0, win.Aspect(), 1e-6)
	assert.True(t, win.Contains(union), "3:1 window must fully contain the face union")

	out := cropper.Crop(createTestImage(1000, 1000, gray), 900, 300, []Rect{face})
	assert.Equal(t, 900, out.Bounds().Dx())
	assert.Equal(t, 300, out.Bounds().Dy())
}

func TestCrop_ExtremeMismatchExpandsContext(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 800, H: 1200} // portrait source
	// 5:1 target over a 2:3 source is far beyond the ratio factor.
	require.True(t, cropper.extremeMismatch(5.0, src.Aspect()))

	face := Rect{X: 350, Y: 500, W: 60, H: 60}
	union := cropper.paddedUnion([]Rect{face}, src)
	win := cropper.selectWindow(src, 1000, 200, &union)

	assert.InDelta(t, 5.0, win.Aspect(), 1e-6)
	assert.True(t, win.Contains(union))
	assert.True(t, Rect{W: 800, H: 1200}.Contains(win), "window must stay inside the source")
	// Context expansion: the window shows more than the bare union.
	assert.Greater(t, win.Area(), union.Area()*2)
}

func TestCrop_PaddedUnionClampedToSource(t *testing.T) {
	cropper := NewCropper(nil)
	src := Rect{W: 400, H: 400}
	face := Rect{X: 0, Y: 0, W: 80, H: 80} // corner face, padding would spill
	union := cropper.paddedUnion([]Rect{face}, src)

	assert.GreaterOrEqual(t, union.X, 0.0)
	assert.GreaterOrEqual(t, union.Y, 0.0)
	assert.True(t, src.Contains(union))
	// Padding applied: the union is larger than the raw face box.
	assert.Greater(t, union.Area(), face.Area())
}

func TestCrop_NonPositiveTargetReturnsSource(t *testing.T) {
	cropper := NewCropper(nil)
	src := createTestImage(100, 100, gray)
	assert.Equal(t, src, cropper.Crop(src, 0, 50, nil))
	assert.Equal(t, src, cropper.Crop(src, 50, -1, nil))
}

func TestCropAround_FocusKeptVisible(t *testing.T) {
	cropper := NewCropper(nil)
	src := createTestImage(1600, 900, gray)
	focus := Rect{X: 1200, Y: 100, W: 300, H: 300}

	out := cropper.CropAround(src, 500, 500, focus)
	assert.Equal(t, 500, out.Bounds().Dx())
	assert.Equal(t, 500, out.Bounds().Dy())

	win := cropper.selectWindow(Rect{W: 1600, H: 900}, 500, 500, &focus)
	assert.True(t, win.Contains(focus))
}
