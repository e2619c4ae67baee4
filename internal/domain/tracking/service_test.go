package tracking

import (
	"context"
	"sort"
	"testing"
	"time"
)

// -- Mock Repository --

type mockRepo struct {
	records []*Record
	nextSeq int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextSeq: 1}
}

func (m *mockRepo) Append(_ context.Context, rec *Record) error {
	cp := *rec
	cp.Seq = m.nextSeq
	m.nextSeq++
	m.records = append(m.records, &cp)
	rec.Seq = cp.Seq
	return nil
}

func (m *mockRepo) HistoryByPatient(_ context.Context, patientID string) ([]*Record, error) {
	var result []*Record
	for _, r := range m.records {
		if r.PatientID == patientID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TrackingDate.Equal(result[j].TrackingDate) {
			return result[i].TrackingDate.Before(result[j].TrackingDate)
		}
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (m *mockRepo) LatestByPatient(_ context.Context, patientID string) (*Record, error) {
	history, _ := m.HistoryByPatient(context.Background(), patientID)
	if len(history) == 0 {
		return nil, ErrNoRecords
	}
	return history[len(history)-1], nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.records), nil
}

func testVitals() VitalSigns {
	return VitalSigns{
		HeartRate:        75,
		BloodPressure:    120,
		Temperature:      37,
		OxygenSaturation: 98,
	}
}

// -- Tests --

func TestService_RecordObservation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	rec := &Record{
		PatientID:    "TEST002",
		TrackingDate: time.Now(),
		CurrentLOS:   1.5,
		VitalSigns:   testVitals(),
	}
	if err := svc.RecordObservation(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := svc.History(context.Background(), "TEST002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].CurrentLOS != 1.5 {
		t.Errorf("expected current_los 1.5, got %v", history[0].CurrentLOS)
	}
}

func TestService_RecordObservation_RejectsInvalid(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"missing patient id", func(r *Record) { r.PatientID = "" }},
		{"negative LOS", func(r *Record) { r.CurrentLOS = -0.5 }},
		{"oxygen above 100", func(r *Record) { r.VitalSigns.OxygenSaturation = 101 }},
		{"negative heart rate", func(r *Record) { r.VitalSigns.HeartRate = -10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Record{
				PatientID:    "TEST002",
				TrackingDate: time.Now(),
				CurrentLOS:   1.0,
				VitalSigns:   testVitals(),
			}
			tc.mutate(rec)
			if err := svc.RecordObservation(context.Background(), rec); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestService_History_AscendingOrder(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	// Append out of time order; history must still come back ascending.
	for _, offset := range []time.Duration{16 * time.Hour, 0, 8 * time.Hour} {
		rec := &Record{
			PatientID:    "P001",
			TrackingDate: base.Add(offset),
			CurrentLOS:   offset.Hours() / 24,
			VitalSigns:   testVitals(),
		}
		if err := svc.RecordObservation(context.Background(), rec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history, err := svc.History(context.Background(), "P001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].TrackingDate.Before(history[i-1].TrackingDate) {
			t.Errorf("history not ascending at position %d", i)
		}
	}
}

func TestService_Latest_TieBreaksBySeq(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	when := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	first := &Record{PatientID: "P001", TrackingDate: when, CurrentLOS: 1.0, VitalSigns: testVitals()}
	second := &Record{PatientID: "P001", TrackingDate: when, CurrentLOS: 2.0, VitalSigns: testVitals()}
	svc.RecordObservation(context.Background(), first)
	svc.RecordObservation(context.Background(), second)

	// Identical timestamps: the later insertion wins.
	latest, err := svc.Latest(context.Background(), "P001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Seq != second.Seq {
		t.Errorf("expected seq %d, got %d", second.Seq, latest.Seq)
	}
	if latest.CurrentLOS != 2.0 {
		t.Errorf("expected current_los 2.0, got %v", latest.CurrentLOS)
	}
}

func TestService_Latest_NoRecords(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Latest(context.Background(), "NOPE"); err != ErrNoRecords {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}
