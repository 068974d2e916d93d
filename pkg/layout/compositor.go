package layout

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/framelight76/photowall/util/log"
)

var (
	// backgroundFill is the surface color visible in the border insets and
	// behind rotated collage prints.
	backgroundFill = color.NRGBA{R: 24, G: 24, B: 27, A: 255}
	// fallbackFill replaces a region whose photo failed to crop; one failed
	// photo never aborts the pass.
	fallbackFill = color.NRGBA{R: 64, G: 64, B: 70, A: 255}
	// matFill is the polaroid-style border around rotated collage prints.
	matFill = color.NRGBA{R: 250, G: 250, B: 248, A: 255}
)

// Compositor draws cropped rasters into their regions on an output buffer.
// Compositing is single-threaded by design: it mutates one shared surface.
type Compositor struct {
	pool   *Pool
	tuning *TuningConfig
}

// NewCompositor builds a compositor drawing through the given pool.
func NewCompositor(pool *Pool, cfg *TuningConfig) *Compositor {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	return &Compositor{pool: pool, tuning: cfg}
}

// Composite renders every region onto a fresh surface buffer acquired from
// the pool. crops[i] belongs to regions[i]; a nil crop falls back to a flat
// color fill. Rotated regions are drawn in slice order, so later regions
// overlap earlier ones.
func (c *Compositor) Composite(regions []Region, crops []image.Image, w, h int) *PixelBuffer {
	out := c.pool.Acquire(w, h, FormatRGBA)
	if out == nil {
		return nil
	}
	draw.Draw(out.Img, out.Bounds(), image.NewUniform(backgroundFill), image.Point{}, draw.Src)

	for i, region := range regions {
		var crop image.Image
		if i < len(crops) {
			crop = crops[i]
		}
		if crop == nil {
			c.fillRegion(out.Img, region)
			continue
		}
		if region.Rotation != 0 {
			c.drawRotated(out.Img, region, crop)
		} else {
			c.drawStraight(out.Img, region, crop)
		}
	}
	return out
}

// drawStraight pastes a crop into an axis-aligned region. Crops normally
// arrive at the region's exact pixel size; a mismatch is scaled defensively
// and logged.
func (c *Compositor) drawStraight(dst draw.Image, region Region, crop image.Image) {
	target := region.Rect.ToImageRect()
	cb := crop.Bounds()
	if cb.Dx() != target.Dx() || cb.Dy() != target.Dy() {
		log.Printf("composite: crop %dx%d does not match region %dx%d, rescaling",
			cb.Dx(), cb.Dy(), target.Dx(), target.Dy())
		xdraw.CatmullRom.Scale(dst, target, crop, cb, xdraw.Src, nil)
	} else {
		draw.Draw(dst, target, crop, cb.Min, draw.Src)
	}
	if c.tuning.RegionBorderWidth > 0 {
		c.strokeRegion(dst, target, int(math.Round(c.tuning.RegionBorderWidth)))
	}
}

// drawRotated mats the crop in a white border, rotates it, and pastes the
// result centered on the region with alpha compositing.
func (c *Compositor) drawRotated(dst draw.Image, region Region, crop image.Image) {
	cb := crop.Bounds()
	mat := int(math.Round(float64(min(cb.Dx(), cb.Dy())) * c.tuning.CollageBorderFrac))
	if mat < 1 {
		mat = 1
	}

	matted := image.NewNRGBA(image.Rect(0, 0, cb.Dx()+2*mat, cb.Dy()+2*mat))
	draw.Draw(matted, matted.Bounds(), image.NewUniform(matFill), image.Point{}, draw.Src)
	draw.Draw(matted, image.Rect(mat, mat, mat+cb.Dx(), mat+cb.Dy()), crop, cb.Min, draw.Src)

	rotated := imaging.Rotate(matted, region.Rotation, color.NRGBA{})

	cx, cy := region.Rect.Center()
	rb := rotated.Bounds()
	target := image.Rect(0, 0, rb.Dx(), rb.Dy()).
		Add(image.Pt(int(math.Round(cx))-rb.Dx()/2, int(math.Round(cy))-rb.Dy()/2))
	draw.Draw(dst, target, rotated, rb.Min, draw.Over)
}

// fillRegion paints the fallback color over a region whose photo could not
// be prepared.
func (c *Compositor) fillRegion(dst draw.Image, region Region) {
	draw.Draw(dst, region.Rect.ToImageRect(), image.NewUniform(fallbackFill), image.Point{}, draw.Src)
}

// strokeRegion draws a border of the given width just inside rect.
func (c *Compositor) strokeRegion(dst draw.Image, rect image.Rectangle, width int) {
	stroke := image.NewUniform(matFill)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width),
		image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y),
		image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, stroke, image.Point{}, draw.Src)
	}
}
