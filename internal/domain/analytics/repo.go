package analytics

import (
	"context"
)

// Repository computes the read-only aggregate views. Results are derived
// per call from the patient and tracking tables; nothing is cached.
type Repository interface {
	// DepartmentStats groups active patients by department.
	DepartmentStats(ctx context.Context) ([]*DepartmentStats, error)
	// LOSDistribution emits one row per active patient that has at least
	// one tracking record, using the latest record (seq breaking
	// timestamp ties).
	LOSDistribution(ctx context.Context) ([]*LOSDistributionRow, error)
	// PatientSummary lists every patient with their tracking record
	// count.
	PatientSummary(ctx context.Context) ([]*PatientSummaryRow, error)
	// RecentVitals returns the latest vitals per patient, keeping
	// patients without records as rows with nil vitals.
	RecentVitals(ctx context.Context) ([]*RecentVitalsRow, error)
}
