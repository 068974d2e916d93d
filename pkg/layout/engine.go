package layout

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math/rand"
	"time"

	"github.com/framelight76/photowall/util"
	"github.com/framelight76/photowall/util/log"
)

// RenderedSurface is the output of one layout pass.
type RenderedSurface struct {
	Buffer     *PixelBuffer
	Regions    []Region
	Assignment []int // photo index per region

	pool *Pool
}

// Release returns the surface buffer to the engine's pool. Call it when the
// rendered raster is no longer displayed.
func (s *RenderedSurface) Release() {
	if s.pool != nil && s.Buffer != nil {
		s.pool.Release(s.Buffer)
		s.Buffer = nil
	}
}

// Engine is the composed layout pipeline a UI layer drives. One engine owns
// one pool; everything after analysis runs on the calling goroutine because
// it mutates a shared output raster.
type Engine struct {
	analyzer   *Analyzer
	cropper    *Cropper
	compositor *Compositor
	pool       *Pool
	tuning     *TuningConfig
	rng        *rand.Rand
	lowMemory  *util.SafeFlag
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every randomized decision (smart-3 coin flip, scatter
// placement, shuffled assignment) reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// NewEngine builds an engine around a face detector. detector may be nil;
// every photo then renders with the center-crop (or saliency) fallback.
func NewEngine(detector FaceDetector, cfg *TuningConfig, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	pool := NewPool()
	e := &Engine{
		analyzer:   NewAnalyzer(detector, cfg),
		cropper:    NewCropper(cfg),
		compositor: NewCompositor(pool, cfg),
		pool:       pool,
		tuning:     cfg,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		lowMemory:  util.NewSafeBool(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pool exposes the engine's buffer pool for host telemetry.
func (e *Engine) Pool() *Pool { return e.pool }

// ReleasePool discards all pooled buffers. Wire this to the hosting
// environment's low-memory callback.
func (e *Engine) ReleasePool() {
	e.lowMemory.Set(true)
	e.pool.Clear()
	log.Printf("engine: pool released under memory pressure")
}

// GenerateLayout runs one full layout pass: analyze photos concurrently,
// generate regions, score and assign, crop, composite. Per-photo failures
// degrade to color-filled regions; the only fatal conditions are invalid
// dimensions and too few photos, both reported before any asynchronous
// work starts. On cancellation every buffer acquired during the pass is
// released back to the pool.
func (e *Engine) GenerateLayout(ctx context.Context, photos []image.Image, tpl Template, surfaceW, surfaceH int) (*RenderedSurface, error) {
	if surfaceW <= 0 || surfaceH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, surfaceW, surfaceH)
	}
	if len(photos) < tpl.RequiredPhotos() {
		return nil, fmt.Errorf("%w: template %s needs %d, got %d",
			ErrInsufficientPhotos, tpl, tpl.RequiredPhotos(), len(photos))
	}

	start := time.Now()
	analyses, err := e.analyzer.AnalyzeAll(ctx, photos)
	if err != nil {
		return nil, fmt.Errorf("analyzing photos: %w", err)
	}

	w := float64(surfaceW)
	h := float64(surfaceH)
	var regions []Region
	if tpl == TemplateScattered {
		requested := len(photos)
		if requested < e.tuning.ScatterMinCount {
			requested = e.tuning.ScatterMinCount // photos repeat by design
		}
		regions = PlaceScattered(w, h, requested, e.tuning, e.rng)
	} else {
		regions = GenerateRegions(tpl, w, h, e.tuning, e.rng)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: no regions for %dx%d", ErrInvalidDimensions, surfaceW, surfaceH)
	}

	var assignment []int
	if tpl == TemplateScattered {
		assignment = AssignShuffled(len(regions), len(photos), e.rng)
	} else {
		matrix := ScoreMatrix(analyses, regions, w*h, e.tuning)
		assignment = Assign(matrix, len(photos))
	}

	crops := make([]*PixelBuffer, len(regions))
	releaseCrops := func() {
		for _, buf := range crops {
			if buf != nil {
				e.pool.Release(buf)
			}
		}
	}

	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			releaseCrops()
			return nil, err
		}
		crops[i] = e.renderCrop(analyses[assignment[i]], region)
	}

	if err := ctx.Err(); err != nil {
		releaseCrops()
		return nil, err
	}

	images := make([]image.Image, len(crops))
	for i, buf := range crops {
		if buf != nil {
			images[i] = buf.Img
		}
	}
	out := e.compositor.Composite(regions, images, surfaceW, surfaceH)
	releaseCrops()
	if out == nil {
		return nil, fmt.Errorf("%w: could not allocate %dx%d surface", ErrInvalidDimensions, surfaceW, surfaceH)
	}

	log.Debugf("engine: %s layout of %d photos into %d regions in %v",
		tpl, len(photos), len(regions), time.Since(start))
	return &RenderedSurface{
		Buffer:     out,
		Regions:    regions,
		Assignment: assignment,
		pool:       e.pool,
	}, nil
}

// renderCrop crops one photo into a pool buffer sized for its region.
// Returns nil when the region or photo is unusable; the compositor then
// color-fills the region.
func (e *Engine) renderCrop(a PhotoAnalysis, region Region) *PixelBuffer {
	target := region.Rect.ToImageRect()
	tw, th := target.Dx(), target.Dy()
	if tw <= 0 || th <= 0 || a.Source == nil {
		return nil
	}

	var cropped image.Image
	switch {
	case len(a.Faces) > 0:
		cropped = e.cropper.Crop(a.Source, tw, th, a.Faces)
	case a.Saliency != nil:
		cropped = e.cropper.CropAround(a.Source, tw, th, *a.Saliency)
	default:
		cropped = e.cropper.Crop(a.Source, tw, th, nil)
	}
	if cropped == nil {
		return nil
	}

	buf := e.pool.Acquire(tw, th, FormatRGBA)
	if buf == nil {
		return nil
	}
	draw.Draw(buf.Img, buf.Bounds(), cropped, cropped.Bounds().Min, draw.Src)
	return buf
}
