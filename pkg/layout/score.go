package layout

import (
	"math/rand"
	"sort"
)

// Scoring weights. The aspect term dominates; the bonuses reward keeping
// faces in large, well-matched regions and matching photo orientation.
const (
	aspectWeight          = 0.4
	faceMatchBonus        = 0.3
	largeRegionFaceBonus  = 0.2
	orientationMatchBonus = 0.2
	highConfidenceScore   = 0.9 // phase-1 greedy threshold
)

// aspectBucket maps a raw min/max aspect ratio similarity onto the
// non-linear score scale.
func aspectBucket(similarity float64) float32 {
	switch {
	case similarity >= 0.9:
		return 1.0
	case similarity >= 0.8:
		return 0.9
	case similarity >= 0.7:
		return 0.8
	case similarity >= 0.6:
		return 0.7
	case similarity >= 0.5:
		return 0.6
	case similarity >= 0.4:
		return 0.4
	case similarity >= 0.3:
		return 0.2
	default:
		return 0
	}
}

// SuitabilityScore estimates how well a photo fits a region, in [0,1].
func SuitabilityScore(a PhotoAnalysis, region Region, surfaceArea float64, cfg *TuningConfig) float32 {
	pa := a.Aspect
	ra := region.Rect.Aspect()
	var similarity float64
	if pa > 0 && ra > 0 {
		similarity = min(pa, ra) / max(pa, ra)
	}
	bucket := aspectBucket(similarity)

	score := bucket * aspectWeight
	hasFace := len(a.Faces) > 0
	if hasFace && bucket > 0.7 {
		score += faceMatchBonus
	}
	if hasFace && surfaceArea > 0 && region.Rect.Area()/surfaceArea > cfg.LargeRegionAreaFrac {
		score += largeRegionFaceBonus
	}
	if (ra > 1 && a.Orientation == OrientationLandscape) ||
		(ra < 1 && a.Orientation == OrientationPortrait) {
		score += orientationMatchBonus
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ScoreMatrix builds the region-by-photo suitability matrix consumed by
// Assign. Regions stay immutable; all scores live here.
func ScoreMatrix(analyses []PhotoAnalysis, regions []Region, surfaceArea float64, cfg *TuningConfig) [][]float32 {
	matrix := make([][]float32, len(regions))
	for ri, region := range regions {
		row := make([]float32, len(analyses))
		for pi, a := range analyses {
			row[pi] = SuitabilityScore(a, region, surfaceArea, cfg)
		}
		matrix[ri] = row
	}
	return matrix
}

type scoredPair struct {
	region, photo int
	score         float32
}

// Assign maps each region to a photo index using a two-phase greedy pass.
// Phase 1 locks in high-confidence pairs by descending score; phase 2 gives
// each remaining region the best unused photo in region order. Regions left
// over when photos run out wrap around by region index - deliberate reuse,
// not an error. Greedy is a speed trade-off; this is not an optimal
// matching.
func Assign(matrix [][]float32, photoCount int) []int {
	regionCount := len(matrix)
	assignment := make([]int, regionCount)
	if regionCount == 0 || photoCount <= 0 {
		return assignment
	}

	for i := range assignment {
		assignment[i] = -1
	}
	photoUsed := make([]bool, photoCount)

	// Phase 1: high-confidence pairs, best first. Ties break by region then
	// photo index so the result is deterministic.
	var pairs []scoredPair
	for ri, row := range matrix {
		for pi, s := range row {
			if pi < photoCount && s >= highConfidenceScore {
				pairs = append(pairs, scoredPair{region: ri, photo: pi, score: s})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		if pairs[i].region != pairs[j].region {
			return pairs[i].region < pairs[j].region
		}
		return pairs[i].photo < pairs[j].photo
	})
	for _, p := range pairs {
		if assignment[p.region] != -1 || photoUsed[p.photo] {
			continue
		}
		assignment[p.region] = p.photo
		photoUsed[p.photo] = true
	}

	// Phase 2: remaining regions take the best-scoring unused photo.
	for ri := range matrix {
		if assignment[ri] != -1 {
			continue
		}
		best := -1
		var bestScore float32 = -1
		for pi := 0; pi < photoCount && pi < len(matrix[ri]); pi++ {
			if photoUsed[pi] {
				continue
			}
			if matrix[ri][pi] > bestScore {
				bestScore = matrix[ri][pi]
				best = pi
			}
		}
		if best != -1 {
			assignment[ri] = best
			photoUsed[best] = true
		}
	}

	// Wrap-around: more regions than photos.
	for ri := range assignment {
		if assignment[ri] == -1 {
			assignment[ri] = ri % photoCount
		}
	}
	return assignment
}

// AssignShuffled maps regions to photos by a shuffled index sequence.
// Scattered layouts have no stable spatial shape to score against, so
// suitability scoring is skipped entirely.
func AssignShuffled(regionCount, photoCount int, rng *rand.Rand) []int {
	assignment := make([]int, regionCount)
	if regionCount == 0 || photoCount <= 0 {
		return assignment
	}
	perm := rng.Perm(photoCount)
	for i := range assignment {
		assignment[i] = perm[i%photoCount]
	}
	return assignment
}
