package layout

import (
	"fmt"
	"math/rand"
	"strings"
)

// Region is a target rectangle within the output surface. Scattered
// regions additionally carry a rotation. Regions are immutable once
// generated; suitability scores live in a separate matrix.
type Region struct {
	Rect     Rect
	Rotation float64 // degrees, non-zero only for scattered layouts
}

// Template identifies a region-partitioning scheme. The set is closed:
// adding a template means adding a generator to the dispatch table.
type Template int

const (
	// TemplateTwoVertical splits the surface into two side-by-side halves.
	TemplateTwoVertical Template = iota
	// TemplateTwoHorizontal splits the surface into two stacked halves.
	TemplateTwoHorizontal
	// TemplateThreeMainLeft places a large main region on the left and two
	// stacked regions on the right.
	TemplateThreeMainLeft
	// TemplateThreeMainRight mirrors TemplateThreeMainLeft.
	TemplateThreeMainRight
	// TemplateFourGrid is a 2x2 grid.
	TemplateFourGrid
	// TemplateMasonry is a staggered three-column layout with five regions.
	TemplateMasonry
	// TemplateSmartThree randomly picks a horizontal (main left/right) or
	// vertical (main top/bottom) three-region variant.
	TemplateSmartThree
	// TemplateScattered places many rotated, overlapping regions.
	TemplateScattered
)

var templateNames = map[Template]string{
	TemplateTwoVertical:    "2-vertical",
	TemplateTwoHorizontal:  "2-horizontal",
	TemplateThreeMainLeft:  "3-main-left",
	TemplateThreeMainRight: "3-main-right",
	TemplateFourGrid:       "4-grid",
	TemplateMasonry:        "masonry",
	TemplateSmartThree:     "smart-3",
	TemplateScattered:      "scattered",
}

// String returns the template's identifier.
func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return fmt.Sprintf("template(%d)", int(t))
}

// ParseTemplate resolves a template identifier string.
func ParseTemplate(name string) (Template, error) {
	for t, n := range templateNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown template %q", name)
}

// RequiredPhotos returns the minimum number of distinct photos a template
// needs for a sensible result. Region counts may be higher: the assigner
// reuses photos when regions outnumber them.
func (t Template) RequiredPhotos() int {
	switch t {
	case TemplateMasonry:
		return 3
	case TemplateScattered:
		return 1
	case TemplateTwoVertical, TemplateTwoHorizontal,
		TemplateThreeMainLeft, TemplateThreeMainRight,
		TemplateFourGrid, TemplateSmartThree:
		return 2
	}
	return 1
}

// generator computes the regions for one template. Generators are pure
// except for the smart-3 coin flip and the scattered placement, both of
// which draw from the supplied rng only.
type generator func(w, h float64, cfg *TuningConfig, rng *rand.Rand) []Region

var generators = map[Template]generator{
	TemplateTwoVertical:    genTwoVertical,
	TemplateTwoHorizontal:  genTwoHorizontal,
	TemplateThreeMainLeft:  genThreeMainLeft,
	TemplateThreeMainRight: genThreeMainRight,
	TemplateFourGrid:       genFourGrid,
	TemplateMasonry:        genMasonry,
	TemplateSmartThree:     genSmartThree,
}

// GenerateRegions computes the target rectangles for a template. Output
// order is stable per template (the scorer depends on it). Non-positive
// surface dimensions yield an empty slice; the caller falls back to
// single-photo display. TemplateScattered is handled by PlaceScattered
// because its region count depends on the requested photo count.
func GenerateRegions(tpl Template, w, h float64, cfg *TuningConfig, rng *rand.Rand) []Region {
	if w <= 0 || h <= 0 {
		return nil
	}
	gen, ok := generators[tpl]
	if !ok {
		return nil
	}
	regions := gen(w, h, cfg, rng)
	bounds := Rect{W: w, H: h}
	for i := range regions {
		regions[i].Rect = regions[i].Rect.ClampTo(bounds)
	}
	return regions
}

func genTwoVertical(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: w/2 - half, H: h}},
		{Rect: Rect{X: w/2 + half, Y: 0, W: w/2 - half, H: h}},
	}
}

func genTwoHorizontal(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: w, H: h/2 - half}},
		{Rect: Rect{X: 0, Y: h/2 + half, W: w, H: h/2 - half}},
	}
}

// genThreeMainLeft gives the main region the left 60% of the surface and
// stacks the two secondary regions in the remaining column.
func genThreeMainLeft(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	mainW := w*0.6 - half
	sideX := w*0.6 + half
	sideW := w*0.4 - half
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: mainW, H: h}},
		{Rect: Rect{X: sideX, Y: 0, W: sideW, H: h/2 - half}},
		{Rect: Rect{X: sideX, Y: h/2 + half, W: sideW, H: h/2 - half}},
	}
}

func genThreeMainRight(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	sideW := w*0.4 - half
	mainX := w*0.4 + half
	return []Region{
		{Rect: Rect{X: mainX, Y: 0, W: w*0.6 - half, H: h}},
		{Rect: Rect{X: 0, Y: 0, W: sideW, H: h/2 - half}},
		{Rect: Rect{X: 0, Y: h/2 + half, W: sideW, H: h/2 - half}},
	}
}

func genThreeMainTop(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	mainH := h*0.6 - half
	lowY := h*0.6 + half
	lowH := h*0.4 - half
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: w, H: mainH}},
		{Rect: Rect{X: 0, Y: lowY, W: w/2 - half, H: lowH}},
		{Rect: Rect{X: w/2 + half, Y: lowY, W: w/2 - half, H: lowH}},
	}
}

func genThreeMainBottom(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	topH := h*0.4 - half
	mainY := h*0.4 + half
	return []Region{
		{Rect: Rect{X: 0, Y: mainY, W: w, H: h*0.6 - half}},
		{Rect: Rect{X: 0, Y: 0, W: w/2 - half, H: topH}},
		{Rect: Rect{X: w/2 + half, Y: 0, W: w/2 - half, H: topH}},
	}
}

func genFourGrid(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	cw := w/2 - half
	rh := h/2 - half
	x1 := w/2 + half
	y1 := h/2 + half
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: cw, H: rh}},
		{Rect: Rect{X: x1, Y: 0, W: cw, H: rh}},
		{Rect: Rect{X: 0, Y: y1, W: cw, H: rh}},
		{Rect: Rect{X: x1, Y: y1, W: cw, H: rh}},
	}
}

// genMasonry lays out five regions across three columns with staggered row
// splits so adjacent columns never share a horizontal seam.
func genMasonry(w, h float64, cfg *TuningConfig, _ *rand.Rand) []Region {
	half := cfg.BorderInset / 2
	c0w := w*0.36 - half
	c1x := w*0.36 + half
	c1w := w*0.36 - cfg.BorderInset
	c2x := w*0.72 + half
	c2w := w*0.28 - half
	return []Region{
		{Rect: Rect{X: 0, Y: 0, W: c0w, H: h*0.55 - half}},
		{Rect: Rect{X: 0, Y: h*0.55 + half, W: c0w, H: h*0.45 - half}},
		{Rect: Rect{X: c1x, Y: 0, W: c1w, H: h*0.45 - half}},
		{Rect: Rect{X: c1x, Y: h*0.45 + half, W: c1w, H: h*0.55 - half}},
		{Rect: Rect{X: c2x, Y: 0, W: c2w, H: h}},
	}
}

// genSmartThree flips two coins: orientation (horizontal vs vertical main)
// and which side the main region lands on. This is the only randomness in
// the fixed templates.
func genSmartThree(w, h float64, cfg *TuningConfig, rng *rand.Rand) []Region {
	horizontal := rng.Intn(2) == 0
	first := rng.Intn(2) == 0
	switch {
	case horizontal && first:
		return genThreeMainLeft(w, h, cfg, rng)
	case horizontal:
		return genThreeMainRight(w, h, cfg, rng)
	case first:
		return genThreeMainTop(w, h, cfg, rng)
	default:
		return genThreeMainBottom(w, h, cfg, rng)
	}
}
