package patient

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

// AdmitPatient validates and inserts a new patient. The admission defaults
// to now and the status to Active when unset.
func (s *Service) AdmitPatient(ctx context.Context, p *Patient) error {
	if p.AdmissionDate.IsZero() {
		p.AdmissionDate = time.Now().UTC()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid patient: %w", err)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActivePatients(ctx context.Context) ([]*Patient, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// DischargePatient transitions an active patient to Discharged. The
// discharge time defaults to now and must not precede admission.
func (s *Service) DischargePatient(ctx context.Context, id string, when time.Time) error {
	if when.IsZero() {
		when = time.Now().UTC()
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive() {
		return ErrAlreadyDischarged
	}
	if when.Before(p.AdmissionDate) {
		return fmt.Errorf("discharge time %s precedes admission %s", when, p.AdmissionDate)
	}
	return s.repo.Discharge(ctx, id, when)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
