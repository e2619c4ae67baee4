package analytics

import (
	"context"

	"github.com/losmon/losmon/internal/domain/patient"
	"github.com/losmon/losmon/internal/domain/tracking"
)

// Service exposes the aggregate views the dashboard renders. All queries
// are computed per call; empty stores yield empty slices, never errors.
type Service struct {
	repo     Repository
	patients patient.Repository
	records  tracking.Repository
}

func NewService(repo Repository, patients patient.Repository, records tracking.Repository) *Service {
	return &Service{repo: repo, patients: patients, records: records}
}

func (s *Service) DepartmentStats(ctx context.Context) ([]*DepartmentStats, error) {
	stats, err := s.repo.DepartmentStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*DepartmentStats{}
	}
	return stats, nil
}

func (s *Service) LOSDistribution(ctx context.Context) ([]*LOSDistributionRow, error) {
	dist, err := s.repo.LOSDistribution(ctx)
	if err != nil {
		return nil, err
	}
	if dist == nil {
		dist = []*LOSDistributionRow{}
	}
	return dist, nil
}

func (s *Service) PatientSummary(ctx context.Context) ([]*PatientSummaryRow, error) {
	summary, err := s.repo.PatientSummary(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = []*PatientSummaryRow{}
	}
	return summary, nil
}

func (s *Service) RecentVitals(ctx context.Context) ([]*RecentVitalsRow, error) {
	vitals, err := s.repo.RecentVitals(ctx)
	if err != nil {
		return nil, err
	}
	if vitals == nil {
		vitals = []*RecentVitalsRow{}
	}
	return vitals, nil
}

// PatientDetail composes a patient's attributes with their full tracking
// history. Returns patient.ErrNotFound for unknown IDs; a known patient
// with no history gets an empty series.
func (s *Service) PatientDetail(ctx context.Context, id string) (*PatientDetail, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.records.HistoryByPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*tracking.Record{}
	}
	return &PatientDetail{Patient: p, History: history}, nil
}
