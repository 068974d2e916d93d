package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisWithAspect(aspect float64, faces int) PhotoAnalysis {
	a := PhotoAnalysis{Aspect: aspect}
	switch {
	case aspect > 1.02:
		a.Orientation = OrientationLandscape
	case aspect < 0.98:
		a.Orientation = OrientationPortrait
	default:
		a.Orientation = OrientationSquare
	}
	for i := 0; i < faces; i++ {
		a.Faces = append(a.Faces, Rect{X: float64(i) * 10, Y: 50, W: 40, H: 40})
	}
	return a
}

func TestAspectBucket(t *testing.T) {
	cases := []struct {
		similarity float64
		want       float32
	}{
		{0.95, 1.0},
		{0.9, 1.0},
		{0.85, 0.9},
		{0.75, 0.8},
		{0.65, 0.7},
		{0.55, 0.6},
		{0.45, 0.4},
		{0.35, 0.2},
		{0.2, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, aspectBucket(tc.similarity), "similarity %v", tc.similarity)
	}
}

func TestSuitabilityScore(t *testing.T) {
	cfg := DefaultTuningConfig()
	surfaceArea := 1920.0 * 1080.0

	t.Run("PerfectMatchNoFace", func(t *testing.T) {
		region := Region{Rect: Rect{W: 400, H: 300}}
		score := SuitabilityScore(analysisWithAspect(4.0/3.0, 0), region, surfaceArea, cfg)
		// 0.4 aspect weight + 0.2 orientation bonus.
		assert.InDelta(t, 0.6, float64(score), 1e-6)
	})

	t.Run("FaceBonusNeedsGoodAspect", func(t *testing.T) {
		region := Region{Rect: Rect{W: 400, H: 300}}
		withFace := SuitabilityScore(analysisWithAspect(4.0/3.0, 1), region, surfaceArea, cfg)
		assert.InDelta(t, 0.9, float64(withFace), 1e-6)

		// Poor aspect match: no face-match bonus even with a face.
		tall := Region{Rect: Rect{W: 100, H: 400}}
		score := SuitabilityScore(analysisWithAspect(4.0/3.0, 1), tall, surfaceArea, cfg)
		assert.Less(t, float64(score), 0.3)
	})

	t.Run("LargeRegionFaceBonus", func(t *testing.T) {
		large := Region{Rect: Rect{W: 1200, H: 900}} // >30% of surface
		small := Region{Rect: Rect{W: 400, H: 300}}
		a := analysisWithAspect(4.0/3.0, 1)
		assert.Greater(t, SuitabilityScore(a, large, surfaceArea, cfg), SuitabilityScore(a, small, surfaceArea, cfg))
	})

	t.Run("ClampedToOne", func(t *testing.T) {
		large := Region{Rect: Rect{W: 1200, H: 900}}
		score := SuitabilityScore(analysisWithAspect(4.0/3.0, 2), large, surfaceArea, cfg)
		assert.LessOrEqual(t, float64(score), 1.0)
		assert.InDelta(t, 1.0, float64(score), 1e-6)
	})

	t.Run("DegenerateAspect", func(t *testing.T) {
		region := Region{Rect: Rect{W: 400, H: 300}}
		score := SuitabilityScore(PhotoAnalysis{}, region, surfaceArea, cfg)
		assert.GreaterOrEqual(t, float64(score), 0.0)
	})
}

func TestAssign_BijectionWhenEnoughPhotos(t *testing.T) {
	cfg := DefaultTuningConfig()
	regions := GenerateRegions(TemplateFourGrid, 1920, 1080, cfg, testRNG())
	analyses := []PhotoAnalysis{
		analysisWithAspect(16.0/9.0, 0),
		analysisWithAspect(1.0, 1),
		analysisWithAspect(0.7, 0),
		analysisWithAspect(1.5, 2),
		analysisWithAspect(1.2, 0),
	}
	matrix := ScoreMatrix(analyses, regions, 1920*1080, cfg)
	assignment := Assign(matrix, len(analyses))

	require.Len(t, assignment, len(regions))
	seen := map[int]bool{}
	for _, pi := range assignment {
		assert.GreaterOrEqual(t, pi, 0, "every region must be assigned")
		assert.Less(t, pi, len(analyses))
		assert.False(t, seen[pi], "photo %d assigned twice", pi)
		seen[pi] = true
	}
}

func TestAssign_WrapAroundWhenPhotosShort(t *testing.T) {
	cfg := DefaultTuningConfig()
	regions := GenerateRegions(TemplateMasonry, 1920, 1080, cfg, testRNG())
	analyses := []PhotoAnalysis{
		analysisWithAspect(1.0, 0),
		analysisWithAspect(1.5, 0),
	}
	matrix := ScoreMatrix(analyses, regions, 1920*1080, cfg)
	assignment := Assign(matrix, len(analyses))

	require.Len(t, assignment, 5)
	for ri, pi := range assignment {
		assert.GreaterOrEqual(t, pi, 0, "region %d unassigned", ri)
		assert.Less(t, pi, 2)
	}
}

func TestAssign_HighConfidencePhaseWinsFirst(t *testing.T) {
	// Region 1 strongly prefers photo 0; region 0 only mildly does. The
	// high-confidence phase must give photo 0 to region 1 even though
	// region 0 comes first.
	matrix := [][]float32{
		{0.6, 0.5},
		{0.95, 0.4},
	}
	assignment := Assign(matrix, 2)
	assert.Equal(t, []int{1, 0}, assignment)
}

func TestAssign_EmptyInputs(t *testing.T) {
	assert.Empty(t, Assign(nil, 3))
	assignment := Assign([][]float32{{0.5}}, 0)
	require.Len(t, assignment, 1)
}

func TestAssignShuffled(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assignment := AssignShuffled(12, 5, rng)
	require.Len(t, assignment, 12)

	counts := map[int]int{}
	for _, pi := range assignment {
		assert.GreaterOrEqual(t, pi, 0)
		assert.Less(t, pi, 5)
		counts[pi]++
	}
	// Every photo appears at least once when regions outnumber photos.
	assert.Len(t, counts, 5)
}
