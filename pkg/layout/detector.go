package layout

import (
	"encoding/binary"
	"fmt"
	"image"

	pigo "github.com/esimov/pigo/core"
)

// cascadeHeaderSize covers the 8 reserved bytes plus the tree depth and
// tree count words at the front of a facefinder cascade.
const cascadeHeaderSize = 16

// PigoDetector runs the pigo cascade classifier over a photo and returns
// the clustered face boxes. It is safe for concurrent use: RunCascade does
// not mutate classifier state.
type PigoDetector struct {
	classifier *pigo.Pigo
	tuning     *TuningConfig
}

// NewPigoDetector unpacks a facefinder cascade. Malformed cascade bytes
// yield an error, never a panic; callers treat that the same as a missing
// model and fall back to a nil detector.
func NewPigoDetector(cascade []byte, cfg *TuningConfig) (det *PigoDetector, err error) {
	if cfg == nil {
		cfg = DefaultTuningConfig()
	}
	if len(cascade) < cascadeHeaderSize {
		return nil, fmt.Errorf("unpacking face detection cascade: %d bytes is shorter than the cascade header", len(cascade))
	}
	treeDepth := binary.LittleEndian.Uint32(cascade[8:12])
	treeNum := binary.LittleEndian.Uint32(cascade[12:16])
	if treeDepth == 0 || treeNum == 0 {
		return nil, fmt.Errorf("unpacking face detection cascade: empty cascade (depth %d, trees %d)", treeDepth, treeNum)
	}

	// Unpack indexes into the packet without bounds checks, so a truncated
	// or corrupt cascade panics instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			det = nil
			err = fmt.Errorf("unpacking face detection cascade: %v", r)
		}
	}()
	classifier, uerr := pigo.NewPigo().Unpack(cascade)
	if uerr != nil {
		return nil, fmt.Errorf("unpacking face detection cascade: %w", uerr)
	}
	return &PigoDetector{classifier: classifier, tuning: cfg}, nil
}

// Detect returns the face bounding boxes found in img, filtered by the
// tuned confidence threshold and clustered by IoU.
func (d *PigoDetector) Detect(img image.Image) ([]Rect, error) {
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols := src.Bounds().Dx()
	rows := src.Bounds().Dy()
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("degenerate image %dx%d", cols, rows)
	}

	minDim := cols
	if rows < minDim {
		minDim = rows
	}
	minSize := minDim * d.tuning.FaceMinSizePct / 100
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     minDim,
		ShiftFactor: d.tuning.FaceDetectShift,
		ScaleFactor: d.tuning.FaceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.tuning.FaceIoUThreshold)

	var faces []Rect
	for _, det := range dets {
		if det.Q < d.tuning.FaceQThreshold {
			continue
		}
		size := float64(det.Scale)
		face := Rect{
			X: float64(det.Col) - size/2,
			Y: float64(det.Row) - size/2,
			W: size,
			H: size,
		}
		faces = append(faces, face.ClampTo(Rect{W: float64(cols), H: float64(rows)}))
	}
	return faces, nil
}
