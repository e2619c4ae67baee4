package tracking

import (
	"context"
)

type Repository interface {
	// Append inserts a record. The store does not verify that the patient
	// exists; callers are expected to pass IDs they obtained from the
	// patient store.
	Append(ctx context.Context, rec *Record) error
	// HistoryByPatient returns all records for a patient in ascending
	// tracking date order, seq breaking ties.
	HistoryByPatient(ctx context.Context, patientID string) ([]*Record, error)
	// LatestByPatient returns the record with the greatest tracking date
	// for a patient, highest seq winning ties. ErrNoRecords when none.
	LatestByPatient(ctx context.Context, patientID string) (*Record, error)
	Count(ctx context.Context) (int, error)
}
