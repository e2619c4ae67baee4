package tracking

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordObservation validates and appends one tracking record.
func (s *Service) RecordObservation(ctx context.Context, rec *Record) error {
	if rec.TrackingDate.IsZero() {
		rec.TrackingDate = time.Now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid tracking record: %w", err)
	}
	return s.repo.Append(ctx, rec)
}

// History returns a patient's full tracking series in ascending time order.
// A patient with no records yields an empty slice, not an error.
func (s *Service) History(ctx context.Context, patientID string) ([]*Record, error) {
	return s.repo.HistoryByPatient(ctx, patientID)
}

// Latest returns the most recent record for a patient.
func (s *Service) Latest(ctx context.Context, patientID string) (*Record, error) {
	return s.repo.LatestByPatient(ctx, patientID)
}
