package estimator

import (
	"math/rand/v2"
	"testing"

	"ViralGen/internal/domain/models"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestUniformStaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.Int64Range(0, 1_000_000).Draw(t, "min")
		span := rapid.Int64Range(1, 1_000_000).Draw(t, "span")
		seed := rapid.Uint64().Draw(t, "seed")

		u := NewUniformWithSource(min, min+span, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		a := u.Estimate(models.NicheWealth)
		if a.ProjectedViews < min || a.ProjectedViews >= min+span {
			t.Fatalf("views %d outside [%d,%d)", a.ProjectedViews, min, min+span)
		}
		if a.EstimatedRevenue != 0 || a.EngagementRate != 0 {
			t.Fatalf("revenue and engagement must stay zero: %+v", a)
		}
	})
}

func TestUniformDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	a := NewUniformWithSource(5000, 805000, rand.NewPCG(1, 2))
	b := NewUniformWithSource(5000, 805000, rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Estimate(models.NicheComedy), b.Estimate(models.NicheComedy))
	}
}

func TestUniformDegenerateRange(t *testing.T) {
	t.Parallel()
	u := NewUniform(10, 10)
	require.EqualValues(t, 10, u.Estimate(models.NicheTech).ProjectedViews)
}
