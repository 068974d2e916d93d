package layout

import (
	"math"
	"math/rand"
)

// scatterAnchor is a normalized seed position for the first wave of
// scattered placements.
type scatterAnchor struct {
	nx, ny float64
	boost  bool // landscape-mode oversize slot (bottom-right quadrant)
}

// scatterAnchors lists the strategic seed points in placement order: four
// corners, four edge midpoints, center, four quadrant centers. The
// bottom-right quadrant anchor is flagged because template defaults leave
// that area under-covered on landscape surfaces.
var scatterAnchors = []scatterAnchor{
	{nx: 0, ny: 0},
	{nx: 1, ny: 0},
	{nx: 0, ny: 1},
	{nx: 1, ny: 1},
	{nx: 0.5, ny: 0},
	{nx: 0, ny: 0.5},
	{nx: 1, ny: 0.5},
	{nx: 0.5, ny: 1},
	{nx: 0.5, ny: 0.5},
	{nx: 0.25, ny: 0.25},
	{nx: 0.75, ny: 0.25},
	{nx: 0.25, ny: 0.75},
	{nx: 0.75, ny: 0.75, boost: true},
}

// coverageGrid approximates per-pixel paint coverage at the granularity of
// the scatter cell size.
type coverageGrid struct {
	cells      []float64
	cols, rows int
	cell       float64
}

func newCoverageGrid(w, h, cell float64) *coverageGrid {
	cols := int(math.Ceil(w / cell))
	rows := int(math.Ceil(h / cell))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &coverageGrid{
		cells: make([]float64, cols*rows),
		cols:  cols,
		rows:  rows,
		cell:  cell,
	}
}

// sum accumulates coverage under the rectangle's footprint.
func (g *coverageGrid) sum(r Rect) float64 {
	total := 0.0
	g.each(r, func(i int) { total += g.cells[i] })
	return total
}

// add marks the rectangle's footprint as covered.
func (g *coverageGrid) add(r Rect) {
	g.each(r, func(i int) { g.cells[i]++ })
}

func (g *coverageGrid) each(r Rect, fn func(i int)) {
	c0 := clampInt(int(r.X/g.cell), 0, g.cols-1)
	c1 := clampInt(int(r.MaxX()/g.cell), 0, g.cols-1)
	r0 := clampInt(int(r.Y/g.cell), 0, g.rows-1)
	r1 := clampInt(int(r.MaxY()/g.cell), 0, g.rows-1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			fn(row*g.cols + col)
		}
	}
}

// PlaceScattered computes the regions for a scattered collage. The
// effective count derives from the surface area (one slot per cell-sized
// patch, clamped to the configured range) and is capped by requested. Each
// region carries a rotation; at least the configured fraction of every
// rectangle stays on-surface. This is a heuristic coverage algorithm, not
// an optimal packing.
func PlaceScattered(w, h float64, requested int, cfg *TuningConfig, rng *rand.Rand) []Region {
	if w <= 0 || h <= 0 || requested <= 0 {
		return nil
	}

	cell := cfg.ScatterCellSize
	effective := clampInt(int(w*h/(cell*cell)), cfg.ScatterMinCount, cfg.ScatterMaxCount)
	if requested < effective {
		effective = requested
	}

	// Optimal size is derived from the surface diagonal spread across the
	// slots; even the smallest size factor then guarantees the summed
	// rectangle area exceeds the surface area, so overlap is built in.
	optimal := math.Hypot(w, h) / math.Sqrt(float64(effective)) * 0.95
	landscape := w > h
	grid := newCoverageGrid(w, h, cell)
	bounds := Rect{W: w, H: h}

	regions := make([]Region, 0, effective+1)
	centers := make([][2]float64, 0, effective+1)

	place := func(cx, cy float64, boosted bool) {
		size := optimal * lerp(cfg.ScatterSizeMin, cfg.ScatterSizeMax, rng.Float64())
		rot := (rng.Float64()*2 - 1) * cfg.ScatterRotationMax
		if boosted {
			size = optimal * lerp(cfg.ScatterBoostSizeMin, cfg.ScatterBoostSizeMax, rng.Float64())
			rot = (rng.Float64()*2 - 1) * cfg.ScatterBoostRotMax
		}
		aspect := lerp(cfg.ScatterAspectMin, cfg.ScatterAspectMax, rng.Float64())
		rw := size * math.Sqrt(aspect)
		rh := size / math.Sqrt(aspect)

		r := Rect{W: rw, H: rh}.CenteredAt(cx, cy)
		r = keepOnSurface(r, bounds, cfg.ScatterMinOnSurface)

		regions = append(regions, Region{Rect: r, Rotation: rot})
		ccx, ccy := r.Center()
		centers = append(centers, [2]float64{ccx, ccy})
		grid.add(r.Intersect(bounds))
	}

	// Phase 1: seed at the strategic anchors, jittered.
	seeds := len(scatterAnchors)
	if seeds > effective {
		seeds = effective
	}
	jitter := cell * 0.15
	for i := 0; i < seeds; i++ {
		a := scatterAnchors[i]
		cx := a.nx*w + (rng.Float64()*2-1)*jitter
		cy := a.ny*h + (rng.Float64()*2-1)*jitter
		place(cx, cy, landscape && a.boost)
	}

	// Phase 2: fill remaining slots by sampling candidates and picking the
	// least-covered, least-crowded position.
	for len(regions) < effective {
		bestX, bestY := w/2, h/2
		bestScore := math.Inf(1)
		for c := 0; c < cfg.ScatterCandidates; c++ {
			cx := rng.Float64() * w
			cy := rng.Float64() * h
			probe := Rect{W: optimal, H: optimal}.CenteredAt(cx, cy)
			score := grid.sum(probe.Intersect(bounds))
			score += repulsion(cx, cy, centers, cell)
			score -= centerDistance(cx, cy, w, h) / math.Hypot(w, h)
			if landscape && cx > w/2 && cy > h/2 {
				score -= 2.0
			}
			if score < bestScore {
				bestScore = score
				bestX, bestY = cx, cy
			}
		}
		place(bestX, bestY, false)
	}

	// Landscape surfaces get one final oversized placement aimed at the
	// bottom-right quadrant, skipped if an existing center already sits
	// there.
	if landscape && len(regions) < cfg.ScatterMaxCount {
		tx := w*0.75 + (rng.Float64()*2-1)*jitter
		ty := h*0.75 + (rng.Float64()*2-1)*jitter
		crowded := false
		for _, c := range centers {
			if math.Hypot(c[0]-tx, c[1]-ty) < cell*0.9 {
				crowded = true
				break
			}
		}
		if !crowded {
			place(tx, ty, true)
		}
	}

	return regions
}

// keepOnSurface shifts r so at least minFrac of its area stays inside
// bounds. The per-axis visible fraction is held at sqrt(minFrac), which
// bounds the product from below.
func keepOnSurface(r Rect, bounds Rect, minFrac float64) Rect {
	axis := math.Sqrt(minFrac)
	maxOffX := r.W * (1 - axis)
	maxOffY := r.H * (1 - axis)
	out := r
	out.X = clampFloat(out.X, bounds.X-maxOffX, bounds.MaxX()-out.W+maxOffX)
	out.Y = clampFloat(out.Y, bounds.Y-maxOffY, bounds.MaxY()-out.H+maxOffY)
	return out
}

// repulsion penalizes candidates near already-placed centers; the penalty
// grows sharply inside one grid cell.
func repulsion(cx, cy float64, centers [][2]float64, cell float64) float64 {
	total := 0.0
	for _, c := range centers {
		d := math.Hypot(c[0]-cx, c[1]-cy)
		if d < cell {
			total += (cell - d) / cell * 10
		}
	}
	return total
}

func centerDistance(cx, cy, w, h float64) float64 {
	return math.Hypot(cx-w/2, cy-h/2)
}

func lerp(lo, hi, t float64) float64 {
	return lo + (hi-lo)*t
}
