package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losmon/losmon/internal/domain/tracking"
)

func TestGenerator_Fresh_SaturationNeverExceeds100(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		g := NewGenerator(seed)
		for i := 0; i < 50; i++ {
			vs := g.Fresh()
			require.LessOrEqual(t, vs.OxygenSaturation, 100.0,
				"seed %d draw %d", seed, i)
		}
	}
}

func TestGenerator_Fresh_PlausibleRanges(t *testing.T) {
	g := NewGenerator(42)

	var sumHR, sumBP, sumTemp float64
	const n = 2000
	for i := 0; i < n; i++ {
		vs := g.Fresh()
		sumHR += vs.HeartRate
		sumBP += vs.BloodPressure
		sumTemp += vs.Temperature
	}

	// Sample means converge on the population parameters.
	assert.InDelta(t, 75, sumHR/n, 1.0)
	assert.InDelta(t, 120, sumBP/n, 2.0)
	assert.InDelta(t, 37, sumTemp/n, 0.1)
}

func TestGenerator_Perturb_StaysNearBaseline(t *testing.T) {
	g := NewGenerator(7)
	baseline := tracking.VitalSigns{
		HeartRate:        75,
		BloodPressure:    120,
		Temperature:      37,
		OxygenSaturation: 98,
	}

	for i := 0; i < 1000; i++ {
		next := g.Perturb(baseline)
		// Steps beyond six standard deviations would indicate an
		// independent redraw rather than a walk.
		assert.Less(t, math.Abs(next.HeartRate-baseline.HeartRate), 12.0)
		assert.Less(t, math.Abs(next.BloodPressure-baseline.BloodPressure), 18.0)
		assert.Less(t, math.Abs(next.Temperature-baseline.Temperature), 0.6)
		assert.LessOrEqual(t, next.OxygenSaturation, 100.0)
	}
}

func TestGenerator_Perturb_CapsSaturation(t *testing.T) {
	g := NewGenerator(1)
	baseline := tracking.VitalSigns{
		HeartRate:        75,
		BloodPressure:    120,
		Temperature:      37,
		OxygenSaturation: 100,
	}

	for i := 0; i < 500; i++ {
		next := g.Perturb(baseline)
		require.LessOrEqual(t, next.OxygenSaturation, 100.0)
		baseline = next
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(99)
	b := NewGenerator(99)

	for i := 0; i < 10; i++ {
		require.Equal(t, a.Fresh(), b.Fresh())
	}
}
