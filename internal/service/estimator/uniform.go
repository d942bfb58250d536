// Package estimator produces placeholder analytics for generated content.
// None of the figures are measured.
package estimator

import (
	"math/rand/v2"
	"sync"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
)

// Uniform draws projected views uniformly from [Min, Max) and leaves
// revenue and engagement at zero.
type Uniform struct {
	Min, Max int64

	mu  sync.Mutex
	rng *rand.Rand
}

var _ drepo.Estimator = (*Uniform)(nil)

func NewUniform(min, max int64) *Uniform {
	return NewUniformWithSource(min, max, rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewUniformWithSource uses src, for reproducible draws.
func NewUniformWithSource(min, max int64, src rand.Source) *Uniform {
	if max <= min {
		max = min + 1
	}
	return &Uniform{Min: min, Max: max, rng: rand.New(src)}
}

func (u *Uniform) Estimate(models.Niche) models.Analytics {
	u.mu.Lock()
	views := u.Min + u.rng.Int64N(u.Max-u.Min)
	u.mu.Unlock()
	return models.Analytics{ProjectedViews: views}
}
