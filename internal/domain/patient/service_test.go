package patient

import (
	"context"
	"sort"
	"testing"
	"time"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[string]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; ok {
		return ErrDuplicateID
	}
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = time.Now()
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.Status == StatusActive {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AdmissionDate.After(result[j].AdmissionDate)
	})
	return result, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) Discharge(_ context.Context, id string, when time.Time) error {
	p, ok := m.patients[id]
	if !ok {
		return ErrNotFound
	}
	if p.Status != StatusActive {
		return ErrAlreadyDischarged
	}
	p.Status = StatusDischarged
	p.DischargeDate = &when
	return nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.patients), nil
}

// -- Tests --

func TestService_AdmitPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := &Patient{
		ID:           "TEST001",
		PredictedLOS: 5.0,
		Department:   "Test Dept",
		Diagnosis:    "Test Diagnosis",
		Age:          50,
		Gender:       "Male",
		Insurance:    "Test Insurance",
		Severity:     3,
	}
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Status != StatusActive {
		t.Errorf("expected status to default to Active, got %s", p.Status)
	}
	if p.AdmissionDate.IsZero() {
		t.Error("expected admission date to default to now")
	}

	got, err := svc.GetPatient(context.Background(), "TEST001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID || got.Department != p.Department || got.PredictedLOS != p.PredictedLOS ||
		got.Diagnosis != p.Diagnosis || got.Age != p.Age || got.Gender != p.Gender ||
		got.Insurance != p.Insurance || got.Severity != p.Severity {
		t.Errorf("fetched patient does not round-trip: %+v vs %+v", got, p)
	}
}

func TestService_AdmitPatient_DuplicateID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := validPatient()
	err := svc.AdmitPatient(context.Background(), dup)
	if err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	// Store unchanged: still exactly one patient.
	n, _ := svc.CountPatients(context.Background())
	if n != 1 {
		t.Errorf("expected 1 patient, got %d", n)
	}
}

func TestService_AdmitPatient_RejectsInvalid(t *testing.T) {
	svc := NewService(newMockRepo())

	p := validPatient()
	p.Severity = 9
	if err := svc.AdmitPatient(context.Background(), p); err == nil {
		t.Error("expected validation error for severity out of range")
	}

	p = validPatient()
	p.PredictedLOS = -1
	if err := svc.AdmitPatient(context.Background(), p); err == nil {
		t.Error("expected validation error for non-positive predicted LOS")
	}
}

func TestService_GetPatient_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.GetPatient(context.Background(), "NOPE")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListActivePatients(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	p.ID = "TEST001"
	p.PredictedLOS = 5.0
	p.Severity = 3
	p.Department = "Test Dept"
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := svc.ListActivePatients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected exactly 1 active patient, got %d", len(active))
	}
	if active[0].ID != "TEST001" {
		t.Errorf("expected TEST001, got %s", active[0].ID)
	}
}

func TestService_ListActivePatients_OrderedByAdmissionDesc(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"P001", "P002", "P003"} {
		p := validPatient()
		p.ID = id
		p.AdmissionDate = base.Add(time.Duration(i) * 24 * time.Hour)
		if err := svc.AdmitPatient(context.Background(), p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	active, err := svc.ListActivePatients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"P003", "P002", "P001"}
	for i, id := range want {
		if active[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, active[i].ID)
		}
	}
}

func TestService_DischargePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	if err := svc.AdmitPatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	when := p.AdmissionDate.Add(96 * time.Hour)
	if err := svc.DischargePatient(context.Background(), p.ID, when); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := svc.GetPatient(context.Background(), p.ID)
	if got.Status != StatusDischarged {
		t.Errorf("expected Discharged, got %s", got.Status)
	}
	if got.DischargeDate == nil || !got.DischargeDate.Equal(when) {
		t.Errorf("expected discharge date %s, got %v", when, got.DischargeDate)
	}

	// No active patients remain.
	active, _ := svc.ListActivePatients(context.Background())
	if len(active) != 0 {
		t.Errorf("expected 0 active patients, got %d", len(active))
	}
}

func TestService_DischargePatient_Errors(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	if err := svc.DischargePatient(context.Background(), "NOPE", time.Time{}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	p := validPatient()
	svc.AdmitPatient(context.Background(), p)

	// Discharge before admission is rejected.
	before := p.AdmissionDate.Add(-time.Hour)
	if err := svc.DischargePatient(context.Background(), p.ID, before); err == nil {
		t.Error("expected error for discharge before admission")
	}

	when := p.AdmissionDate.Add(time.Hour)
	if err := svc.DischargePatient(context.Background(), p.ID, when); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DischargePatient(context.Background(), p.ID, when); err != ErrAlreadyDischarged {
		t.Errorf("expected ErrAlreadyDischarged, got %v", err)
	}
}
