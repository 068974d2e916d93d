package layout

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestComposite_SurfaceSizeAndBackground(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	comp := NewCompositor(pool, nil)

	regions := []Region{{Rect: Rect{X: 10, Y: 10, W: 100, H: 80}}}
	crops := []image.Image{createTestImage(100, 80, color.RGBA{255, 0, 0, 255})}

	out := comp.Composite(regions, crops, 400, 300)
	require.NotNil(t, out)
	defer pool.Release(out)

	assert.Equal(t, 400, out.Width())
	assert.Equal(t, 300, out.Height())

	// Outside any region the surface shows the background fill.
	bg := rgbaAt(out.Img, 399, 299)
	assert.Equal(t, uint8(24), bg.R)
	assert.Equal(t, uint8(27), bg.B)

	// Inside the region the crop's pixels show through.
	got := rgbaAt(out.Img, 50, 50)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, got)
}

func TestComposite_NilCropGetsFallbackFill(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	comp := NewCompositor(pool, nil)

	regions := []Region{{Rect: Rect{X: 0, Y: 0, W: 60, H: 60}}}

	out := comp.Composite(regions, []image.Image{nil}, 120, 120)
	require.NotNil(t, out)
	defer pool.Release(out)

	got := rgbaAt(out.Img, 30, 30)
	assert.Equal(t, uint8(fallbackFill.R), got.R)
	assert.Equal(t, uint8(fallbackFill.G), got.G)
	assert.Equal(t, uint8(fallbackFill.B), got.B)
}

func TestComposite_MissingCropSliceEntryFallsBack(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	comp := NewCompositor(pool, nil)

	regions := []Region{
		{Rect: Rect{X: 0, Y: 0, W: 50, H: 50}},
		{Rect: Rect{X: 60, Y: 0, W: 50, H: 50}},
	}
	crops := []image.Image{createTestImage(50, 50, color.RGBA{0, 255, 0, 255})}

	out := comp.Composite(regions, crops, 120, 60)
	require.NotNil(t, out)
	defer pool.Release(out)

	assert.Equal(t, color.RGBA{0, 255, 0, 255}, rgbaAt(out.Img, 25, 25))
	second := rgbaAt(out.Img, 85, 25)
	assert.Equal(t, uint8(fallbackFill.R), second.R)
}

func TestComposite_MismatchedCropIsRescaled(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	comp := NewCompositor(pool, nil)

	regions := []Region{{Rect: Rect{X: 0, Y: 0, W: 100, H: 100}}}
	// Crop is half the region size; the compositor rescales instead of
	// leaving a gap.
	crops := []image.Image{createTestImage(50, 50, color.RGBA{0, 0, 255, 255})}

	out := comp.Composite(regions, crops, 100, 100)
	require.NotNil(t, out)
	defer pool.Release(out)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgbaAt(out.Img, 50, 50))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgbaAt(out.Img, 95, 95))
}

func TestComposite_RotatedPrintCoversRegionCenter(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	comp := NewCompositor(pool, nil)

	regions := []Region{{
		Rect:     Rect{X: 100, Y: 100, W: 120, H: 90},
		Rotation: 20,
	}}
	crops := []image.Image{createTestImage(120, 90, color.RGBA{200, 40, 40, 255})}

	out := comp.Composite(regions, crops, 400, 300)
	require.NotNil(t, out)
	defer pool.Release(out)

	// The rotated print stays centered on the region, so its center pixel
	// is the photo color, not the background.
	got := rgbaAt(out.Img, 160, 145)
	assert.Equal(t, uint8(200), got.R)

	// Far corner of the surface remains background.
	corner := rgbaAt(out.Img, 5, 295)
	assert.Equal(t, uint8(24), corner.R)
}

func TestComposite_RegionBorderStroke(t *testing.T) {
	pool := NewPool()
	defer pool.Clear()
	cfg := DefaultTuningConfig()
	cfg.RegionBorderWidth = 3
	comp := NewCompositor(pool, cfg)

	regions := []Region{{Rect: Rect{X: 20, Y: 20, W: 80, H: 80}}}
	crops := []image.Image{createTestImage(80, 80, color.RGBA{0, 128, 0, 255})}

	out := comp.Composite(regions, crops, 200, 200)
	require.NotNil(t, out)
	defer pool.Release(out)

	edge := rgbaAt(out.Img, 21, 21)
	assert.Equal(t, uint8(matFill.R), edge.R)
	inner := rgbaAt(out.Img, 60, 60)
	assert.Equal(t, color.RGBA{0, 128, 0, 255}, inner)
}
