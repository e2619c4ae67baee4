package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/losmon/losmon/internal/domain/patient"
	"github.com/losmon/losmon/internal/domain/tracking"
)

// backfillStep is the spacing of synthetic historical observations.
const backfillStep = 8 * time.Hour

var departments = []string{"Cardiology", "Orthopedics", "General Medicine"}

var diagnosesByDepartment = map[string][]string{
	"Cardiology":       {"Heart Failure", "Myocardial Infarction"},
	"Orthopedics":      {"Hip Fracture", "Knee Replacement"},
	"General Medicine": {"Pneumonia", "Diabetes"},
}

var insuranceTypes = []string{"Medicare", "Medicaid", "Private"}

var genders = []string{"Male", "Female"}

// SeedConfig controls the volume and shape of generated synthetic data.
type SeedConfig struct {
	PatientCount int
	// Seed fixes the random source; 0 means derive from the clock.
	Seed int64
	// Now overrides the reference time for admissions and backfill.
	Now time.Time
}

// DefaultSeedConfig returns the bootstrap defaults.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{PatientCount: 5}
}

// SeedResult summarizes the output of a seed operation.
type SeedResult struct {
	Patients        int `json:"patients"`
	TrackingRecords int `json:"tracking_records"`
}

// Seeder populates an empty store with a synthetic patient population and
// their historical tracking backfill. It is a one-time bootstrap; callers
// check the store is empty first.
type Seeder struct {
	patients patient.Repository
	records  tracking.Repository
}

func NewSeeder(patients patient.Repository, records tracking.Repository) *Seeder {
	return &Seeder{patients: patients, records: records}
}

// Seed creates cfg.PatientCount patients with randomized admissions over
// the last three days, then backfills tracking history from each admission
// to now in fixed steps. Backfill snapshots are drawn independently; the
// random walk only starts once live monitoring takes over.
func (s *Seeder) Seed(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if cfg.PatientCount <= 0 {
		cfg.PatientCount = DefaultSeedConfig().PatientCount
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	rng := rand.New(rand.NewSource(seed))
	gen := NewGenerator(rng.Int63())

	result := &SeedResult{}
	for i := 1; i <= cfg.PatientCount; i++ {
		department := departments[rng.Intn(len(departments))]
		severity := rng.Intn(5) + 1

		// Sicker patients stay longer, but never predict under three
		// days.
		predictedLOS := rng.NormFloat64()*1.5 + float64(severity*2)
		if predictedLOS < 3 {
			predictedLOS = 3
		}

		daysAgo := rng.Intn(4)
		admission := now.AddDate(0, 0, -daysAgo)

		diagnoses := diagnosesByDepartment[department]
		p := &patient.Patient{
			ID:            fmt.Sprintf("P%03d", i),
			AdmissionDate: admission,
			PredictedLOS:  predictedLOS,
			Department:    department,
			Diagnosis:     diagnoses[rng.Intn(len(diagnoses))],
			Age:           rng.Intn(61) + 25,
			Gender:        genders[rng.Intn(len(genders))],
			Insurance:     insuranceTypes[rng.Intn(len(insuranceTypes))],
			Severity:      severity,
			Status:        patient.StatusActive,
		}
		if err := s.patients.Create(ctx, p); err != nil {
			return result, fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
		result.Patients++

		for at := admission; !at.After(now); at = at.Add(backfillStep) {
			rec := &tracking.Record{
				PatientID:    p.ID,
				TrackingDate: at,
				CurrentLOS:   at.Sub(admission).Hours() / 24,
				VitalSigns:   gen.Fresh(),
			}
			if err := s.records.Append(ctx, rec); err != nil {
				return result, fmt.Errorf("seed tracking for %s: %w", p.ID, err)
			}
			result.TrackingRecords++
		}
	}

	return result, nil
}
