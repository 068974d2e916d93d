package layout

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"golang.org/x/sync/errgroup"

	"github.com/framelight76/photowall/util/log"
)

// FaceDetector is the boundary interface to the external face-detection
// service. Implementations may return an empty slice on failure; they must
// not block indefinitely (the caller imposes any deadline).
type FaceDetector interface {
	Detect(img image.Image) ([]Rect, error)
}

// Orientation classifies a photo's shape.
type Orientation int

const (
	// OrientationSquare means the aspect ratio is within 2% of 1:1.
	OrientationSquare Orientation = iota
	// OrientationLandscape means width exceeds height.
	OrientationLandscape
	// OrientationPortrait means height exceeds width.
	OrientationPortrait
)

// PhotoAnalysis is the per-photo metadata a layout pass works from. It is
// created once per pass and read-only afterward.
type PhotoAnalysis struct {
	Source      image.Image
	Aspect      float64
	Faces       []Rect // empty when detection found nothing or failed
	FaceUnion   *Rect  // unpadded bounding box of Faces, nil when empty
	Orientation Orientation
	Saliency    *Rect // focal region for face-less photos, nil when disabled
}

// Analyzer produces PhotoAnalysis values, fanning face detection out across
// photos. Detection failures degrade to an empty face list; they never
// abort a pass.
type Analyzer struct {
	detector FaceDetector
	tuning   *TuningConfig
}

// NewAnalyzer wraps a detector. A nil detector is allowed; every photo then
// analyzes as face-less (same degradation as detector failure).
func NewAnalyzer(detector FaceDetector, cfg *TuningConfig) *Analyzer {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	return &Analyzer{detector: detector, tuning: cfg}
}

// Analyze computes the metadata for one photo.
func (a *Analyzer) Analyze(img image.Image) PhotoAnalysis {
	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	analysis := PhotoAnalysis{Source: img}
	if h > 0 {
		analysis.Aspect = w / h
	}
	switch {
	case analysis.Aspect > 1.02:
		analysis.Orientation = OrientationLandscape
	case analysis.Aspect > 0 && analysis.Aspect < 0.98:
		analysis.Orientation = OrientationPortrait
	default:
		analysis.Orientation = OrientationSquare
	}

	if a.detector != nil {
		faces, err := a.detector.Detect(img)
		if err != nil {
			log.Printf("analyze: face detection failed, continuing without faces: %v", err)
		} else {
			analysis.Faces = faces
		}
	}

	if len(analysis.Faces) > 0 {
		union := Rect{}
		for _, f := range analysis.Faces {
			union = union.Union(f)
		}
		analysis.FaceUnion = &union
	} else if a.tuning.SaliencyFallback {
		if focal := saliencyRegion(img); focal != nil {
			analysis.Saliency = focal
		}
	}
	return analysis
}

// AnalyzeAll analyzes every photo concurrently and returns the results in
// input order. The only error it returns is context cancellation; per-photo
// failures have already degraded inside Analyze.
func (a *Analyzer) AnalyzeAll(ctx context.Context, photos []image.Image) ([]PhotoAnalysis, error) {
	results := make([]PhotoAnalysis, len(photos))

	g, ctx := errgroup.WithContext(ctx)
	if a.tuning.AnalyzeConcurrency > 0 {
		g.SetLimit(a.tuning.AnalyzeConcurrency)
	}
	for i, photo := range photos {
		i, photo := i, photo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(photo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// saliencyRegion finds a focal region for a photo without faces using
// smartcrop's energy analysis at half the photo's own size.
func saliencyRegion(img image.Image) *Rect {
	bounds := img.Bounds()
	w := bounds.Dx() / 2
	h := bounds.Dy() / 2
	if w < 1 || h < 1 {
		return nil
	}
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: imaging.Lanczos})
	best, err := analyzer.FindBestCrop(img, w, h)
	if err != nil {
		log.Debugf("analyze: saliency fallback failed: %v", err)
		return nil
	}
	focal := RectFromImage(best)
	return &focal
}

// resizer adapts imaging to the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
