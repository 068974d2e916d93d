package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// TuningConfig holds the internal magic numbers and thresholds for layout
// and cropping. These values were chosen empirically; they are centralized
// here as named, tunable fields rather than re-derived from a formula.
type TuningConfig struct {
	// Region generation
	BorderInset       float64 `json:"border_inset"`        // Default: 4 (gap between adjoining regions, px)
	RegionBorderWidth float64 `json:"region_border_width"` // Default: 0 (stroke around fixed regions, px)

	// Suitability scoring
	LargeRegionAreaFrac float64 `json:"large_region_area_frac"` // Default: 0.3 (region counts as "large")

	// Face union padding
	FacePadMinFrac float64 `json:"face_pad_min_frac"` // Default: 0.05 (of min source dimension)
	FacePadMaxFrac float64 `json:"face_pad_max_frac"` // Default: 0.15 (padding ceiling)
	FacePadding    float64 `json:"face_padding"`      // Default: 0.1 (of min face dimension)

	// Crop window selection
	FaceInsideOverlap   float64 `json:"face_inside_overlap"`   // Default: 0.85 ("effectively inside" threshold)
	FaceShiftMinOverlap float64 `json:"face_shift_min_overlap"` // Default: 0.2 (below this, shifting is pointless)
	ExtremeRatioFactor  float64 `json:"extreme_ratio_factor"`  // Default: 4.0 (target/source ratio mismatch)
	ExtremeWideRatio    float64 `json:"extreme_wide_ratio"`    // Default: 2.5 (wide target vs portrait source)
	ExtremeTallRatio    float64 `json:"extreme_tall_ratio"`    // Default: 0.4 (tall target vs landscape source)
	ExtremeContextScale float64 `json:"extreme_context_scale"` // Default: 3.0 (max isotropic context expansion)
	SaliencyFallback    bool    `json:"saliency_fallback"`     // Default: true (focal-region crop for face-less photos)

	// Face detection (pigo)
	FaceScaleFactor   float64 `json:"face_scale_factor"`    // Default: 1.1 (pigo pyramid step)
	FaceDetectShift   float64 `json:"face_detect_shift"`    // Default: 0.1 (stride)
	FaceMinSizePct    int     `json:"face_min_size_pct"`    // Default: 1 (1% of min dim)
	FaceQThreshold    float32 `json:"face_q_threshold"`     // Default: 10.0 (base confidence filter)
	FaceIoUThreshold  float64 `json:"face_iou_threshold"`   // Default: 0.2 (cluster merging)
	AnalyzeConcurrency int    `json:"analyze_concurrency"`  // Default: 0 (0 = GOMAXPROCS)

	// Scattered collage
	ScatterCellSize     float64 `json:"scatter_cell_size"`      // Default: 350 (coverage grid cell, px)
	ScatterMinCount     int     `json:"scatter_min_count"`      // Default: 8
	ScatterMaxCount     int     `json:"scatter_max_count"`      // Default: 20
	ScatterCandidates   int     `json:"scatter_candidates"`     // Default: 15 (positions sampled per slot)
	ScatterMinOnSurface float64 `json:"scatter_min_on_surface"` // Default: 0.8 (visible area fraction)
	ScatterSizeMin      float64 `json:"scatter_size_min"`       // Default: 0.85 (of optimal size)
	ScatterSizeMax      float64 `json:"scatter_size_max"`       // Default: 1.4
	ScatterAspectMin    float64 `json:"scatter_aspect_min"`     // Default: 0.65
	ScatterAspectMax    float64 `json:"scatter_aspect_max"`     // Default: 1.7
	ScatterRotationMax  float64 `json:"scatter_rotation_max"`   // Default: 35 (degrees, either direction)
	ScatterBoostSizeMin float64 `json:"scatter_boost_size_min"` // Default: 1.3 (landscape bottom-right anchor)
	ScatterBoostSizeMax float64 `json:"scatter_boost_size_max"` // Default: 1.6
	ScatterBoostRotMax  float64 `json:"scatter_boost_rot_max"`  // Default: 15 (degrees)
	CollageBorderFrac   float64 `json:"collage_border_frac"`    // Default: 0.04 (mat width, of min crop dim)
}

// DefaultTuningConfig returns the standard values.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		BorderInset:         4,
		RegionBorderWidth:   0,
		LargeRegionAreaFrac: 0.3,
		FacePadMinFrac:      0.05,
		FacePadMaxFrac:      0.15,
		FacePadding:         0.1,
		FaceInsideOverlap:   0.85,
		FaceShiftMinOverlap: 0.2,
		ExtremeRatioFactor:  4.0,
		ExtremeWideRatio:    2.5,
		ExtremeTallRatio:    0.4,
		ExtremeContextScale: 3.0,
		SaliencyFallback:    true,
		FaceScaleFactor:     1.1,
		FaceDetectShift:     0.1,
		FaceMinSizePct:      1,
		FaceQThreshold:      10.0,
		FaceIoUThreshold:    0.2,
		AnalyzeConcurrency:  0,
		ScatterCellSize:     350,
		ScatterMinCount:     8,
		ScatterMaxCount:     20,
		ScatterCandidates:   15,
		ScatterMinOnSurface: 0.8,
		ScatterSizeMin:      0.85,
		ScatterSizeMax:      1.4,
		ScatterAspectMin:    0.65,
		ScatterAspectMax:    1.7,
		ScatterRotationMax:  35,
		ScatterBoostSizeMin: 1.3,
		ScatterBoostSizeMax: 1.6,
		ScatterBoostRotMax:  15,
		CollageBorderFrac:   0.04,
	}
}

// LoadTuningConfig reads JSON overrides from path on top of the defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cfg := DefaultTuningConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tuning config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing tuning config: %w", err)
	}
	return cfg, nil
}
