// Package sim generates synthetic telemetry: vital-sign snapshots and the
// bootstrap patient population with its historical tracking backfill.
package sim

import (
	"math/rand"

	"github.com/losmon/losmon/internal/domain/tracking"
)

// Generator produces vital-sign snapshots. Fresh snapshots are drawn from
// population distributions; Perturb walks an existing snapshot by a small
// step, so consecutive readings for one patient stay correlated instead of
// being redrawn independently.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded from the given source. Tests pass
// a fixed seed for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Fresh draws a snapshot from scratch.
func (g *Generator) Fresh() tracking.VitalSigns {
	return tracking.VitalSigns{
		HeartRate:        g.rng.NormFloat64()*5 + 75,
		BloodPressure:    g.rng.NormFloat64()*10 + 120,
		Temperature:      g.rng.NormFloat64()*0.3 + 37,
		OxygenSaturation: capSaturation(g.rng.NormFloat64()*1 + 98),
	}
}

// Perturb derives the next snapshot from a baseline with small variations.
func (g *Generator) Perturb(b tracking.VitalSigns) tracking.VitalSigns {
	return tracking.VitalSigns{
		HeartRate:        b.HeartRate + g.rng.NormFloat64()*2,
		BloodPressure:    b.BloodPressure + g.rng.NormFloat64()*3,
		Temperature:      b.Temperature + g.rng.NormFloat64()*0.1,
		OxygenSaturation: capSaturation(b.OxygenSaturation + g.rng.NormFloat64()*0.5),
	}
}

func capSaturation(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
