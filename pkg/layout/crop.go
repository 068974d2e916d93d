package layout

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/framelight76/photowall/util/log"
)

// Cropper selects a source sub-rectangle at the target aspect ratio and
// scales it to fill the target exactly (no letterboxing), showing as much
// of the source as possible while keeping detected faces in frame.
type Cropper struct {
	Filter  imaging.ResampleFilter
	Padding float64 // face padding as a fraction of the smaller face dimension
	tuning  *TuningConfig
}

// NewCropper builds a cropper with the Lanczos resampler and
// the tuned face padding.
func NewCropper(cfg *TuningConfig) *Cropper {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	return &Cropper{
		Filter:  imaging.Lanczos,
		Padding: cfg.FacePadding,
		tuning:  cfg,
	}
}

// Crop fills targetW x targetH from src. With no faces the result is the
// centered maximum crop. With faces the window is chosen to keep the padded
// face union visible: unshifted when the union already fits, shifted when
// it nearly fits, and a minimal expanded window otherwise. Extreme aspect
// mismatches get a face-centered window with bounded context expansion.
// Non-positive target dimensions return src unchanged (caller contract
// violation, logged).
func (c *Cropper) Crop(src image.Image, targetW, targetH int, faces []Rect) image.Image {
	if targetW <= 0 || targetH <= 0 {
		log.Printf("crop: non-positive target %dx%d, returning source", targetW, targetH)
		return src
	}

	srcBounds := RectFromImage(src.Bounds())
	if srcBounds.Empty() {
		return src
	}

	var union *Rect
	if len(faces) > 0 {
		u := c.paddedUnion(faces, srcBounds)
		union = &u
	}
	window := c.selectWindow(srcBounds, targetW, targetH, union)
	return c.extract(src, window, targetW, targetH)
}

// CropAround behaves like Crop but keeps an arbitrary focal rectangle
// (e.g. a saliency region) visible instead of faces. No padding is applied;
// the focal region is taken as-is.
func (c *Cropper) CropAround(src image.Image, targetW, targetH int, focus Rect) image.Image {
	if targetW <= 0 || targetH <= 0 {
		log.Printf("crop: non-positive target %dx%d, returning source", targetW, targetH)
		return src
	}
	srcBounds := RectFromImage(src.Bounds())
	if srcBounds.Empty() {
		return src
	}
	focus = focus.ClampTo(srcBounds)
	window := c.selectWindow(srcBounds, targetW, targetH, &focus)
	return c.extract(src, window, targetW, targetH)
}

// MaxCropWindow returns the largest sub-rectangle of a srcW x srcH source
// at the target aspect ratio, centered. If the source is relatively wider
// than the target the sides are cropped, otherwise top and bottom.
func MaxCropWindow(src Rect, targetRatio float64) Rect {
	if targetRatio <= 0 || src.Empty() {
		return src
	}
	srcRatio := src.Aspect()
	var out Rect
	if srcRatio > targetRatio {
		out = Rect{W: src.H * targetRatio, H: src.H}
	} else {
		out = Rect{W: src.W, H: src.W / targetRatio}
	}
	cx, cy := src.Center()
	return out.CenteredAt(cx, cy)
}

// paddedUnion pads every face box and returns their bounding rectangle
// clamped to the source. Per-face padding is the larger of a floor derived
// from the source size and a fraction of the face itself, capped at the
// tuned ceiling.
func (c *Cropper) paddedUnion(faces []Rect, src Rect) Rect {
	minSrcDim := math.Min(src.W, src.H)
	padCeil := minSrcDim * c.tuning.FacePadMaxFrac

	union := Rect{}
	for _, f := range faces {
		pad := math.Max(minSrcDim*c.tuning.FacePadMinFrac, math.Min(f.W, f.H)*c.Padding)
		if pad > padCeil {
			pad = padCeil
		}
		union = union.Union(f.Expand(pad))
	}
	return union.ClampTo(src)
}

// selectWindow picks the source window for one crop. union may be nil
// (center-crop fallback).
func (c *Cropper) selectWindow(src Rect, targetW, targetH int, union *Rect) Rect {
	targetRatio := float64(targetW) / float64(targetH)
	maxCrop := MaxCropWindow(src, targetRatio)
	if union == nil || union.Empty() {
		return maxCrop
	}

	if c.extremeMismatch(targetRatio, src.Aspect()) {
		return c.extremeWindow(src, targetRatio, *union)
	}

	// Best case: the union already sits inside the maximum crop, exactly or
	// effectively. Full zoom-out with faces safe.
	if maxCrop.Contains(*union) || maxCrop.OverlapFrac(*union) >= c.tuning.FaceInsideOverlap {
		return maxCrop
	}

	// Near miss: slide the same-size window toward the union.
	if maxCrop.OverlapFrac(*union) > c.tuning.FaceShiftMinOverlap {
		shifted := shiftToContain(maxCrop, *union, src)
		if shifted.Contains(*union) {
			return shifted
		}
	}

	return c.minimalWindow(src, targetRatio, *union)
}

// extremeMismatch reports whether target and source shapes differ so much
// that a maximum crop would be useless.
func (c *Cropper) extremeMismatch(targetRatio, srcRatio float64) bool {
	if srcRatio <= 0 || targetRatio <= 0 {
		return false
	}
	t := c.tuning
	ratio := targetRatio / srcRatio
	if ratio > t.ExtremeRatioFactor || 1/ratio > t.ExtremeRatioFactor {
		return true
	}
	if targetRatio > t.ExtremeWideRatio && srcRatio < 1 {
		return true
	}
	if targetRatio < t.ExtremeTallRatio && srcRatio > 1 {
		return true
	}
	return false
}

// extremeWindow builds a target-ratio window just containing the union,
// expands it isotropically up to the tuned context factor (bounded by the
// source), centers it on the union centroid, and clamps to the source.
// When even the minimal window overflows the source the factor drops below
// 1: the ratio is preserved and the union overhang is sacrificed.
func (c *Cropper) extremeWindow(src Rect, targetRatio float64, union Rect) Rect {
	w := math.Max(union.W, union.H*targetRatio)
	h := w / targetRatio

	fit := math.Min(src.W/w, src.H/h)
	factor := math.Min(c.tuning.ExtremeContextScale, fit)
	if factor > 0 {
		w *= factor
		h *= factor
	}

	cx, cy := union.Center()
	return Rect{W: w, H: h}.CenteredAt(cx, cy).ClampTo(src)
}

// shiftToContain slides window (size unchanged) the minimum distance that
// brings union inside it, then clamps to the source.
func shiftToContain(window, union, src Rect) Rect {
	out := window
	if union.X < out.X {
		out.X = union.X
	} else if union.MaxX() > out.MaxX() {
		out.X = union.MaxX() - out.W
	}
	if union.Y < out.Y {
		out.Y = union.Y
	} else if union.MaxY() > out.MaxY() {
		out.Y = union.MaxY() - out.H
	}
	return out.ClampTo(src)
}

// minimalWindow encloses the union at the target ratio, centered on its
// centroid, then grows symmetrically by the largest factor that still fits
// the source. A factor below 1 means the union cannot fit at the target
// ratio at all; the window shrinks to preserve the ratio and the overhang
// is cropped away.
func (c *Cropper) minimalWindow(src Rect, targetRatio float64, union Rect) Rect {
	w := math.Max(union.W, union.H*targetRatio)
	h := w / targetRatio

	factor := math.Min(src.W/w, src.H/h)
	if factor > 0 {
		w *= factor
		h *= factor
	}

	cx, cy := union.Center()
	return Rect{W: w, H: h}.CenteredAt(cx, cy).ClampTo(src)
}

// extract crops the selected window out of src and scales it to exactly
// targetW x targetH. The window is clamped to valid pixel indices first.
func (c *Cropper) extract(src image.Image, window Rect, targetW, targetH int) image.Image {
	rect := window.ToImageRect().Intersect(src.Bounds())
	if rect.Empty() {
		log.Printf("crop: window collapsed to empty rect, using full source")
		rect = src.Bounds()
	}
	cropped := imaging.Crop(src, rect)
	return imaging.Resize(cropped, targetW, targetH, c.Filter)
}
