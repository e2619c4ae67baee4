package patient

import (
	"errors"
	"fmt"
	"time"
)

// Patient status values. A patient is Active from admission until an
// explicit discharge transition; Discharged is terminal.
const (
	StatusActive     = "Active"
	StatusDischarged = "Discharged"
)

var (
	// ErrNotFound is returned when no patient exists with the given ID.
	ErrNotFound = errors.New("patient not found")
	// ErrDuplicateID is returned when inserting a patient whose ID is
	// already present.
	ErrDuplicateID = errors.New("patient id already exists")
	// ErrAlreadyDischarged is returned when discharging a non-active
	// patient.
	ErrAlreadyDischarged = errors.New("patient already discharged")
)

// Patient maps to the patients table.
type Patient struct {
	ID            string     `db:"id" json:"id"`
	AdmissionDate time.Time  `db:"admission_date" json:"admission_date"`
	PredictedLOS  float64    `db:"predicted_los" json:"predicted_los"`
	Department    string     `db:"department" json:"department"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Age           int        `db:"age" json:"age"`
	Gender        string     `db:"gender" json:"gender"`
	Insurance     string     `db:"insurance" json:"insurance"`
	Severity      int        `db:"severity" json:"severity"`
	Status        string     `db:"status" json:"status"`
	DischargeDate *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the patient has not been discharged.
func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// CurrentLOS returns the length of stay in days at the given instant. For a
// discharged patient the stay ends at the discharge date regardless of now.
func (p *Patient) CurrentLOS(now time.Time) float64 {
	end := now
	if p.DischargeDate != nil {
		end = *p.DischargeDate
	}
	return end.Sub(p.AdmissionDate).Hours() / 24
}

// Validate checks the model invariants before persistence.
func (p *Patient) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.AdmissionDate.IsZero() {
		return fmt.Errorf("admission_date is required")
	}
	if p.PredictedLOS <= 0 {
		return fmt.Errorf("predicted_los must be positive, got %v", p.PredictedLOS)
	}
	if p.Department == "" {
		return fmt.Errorf("department is required")
	}
	if p.Severity < 1 || p.Severity > 5 {
		return fmt.Errorf("severity must be between 1 and 5, got %d", p.Severity)
	}
	if p.Status != StatusActive && p.Status != StatusDischarged {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	// discharge_date set iff status is non-active, and never before
	// admission
	if p.Status == StatusActive && p.DischargeDate != nil {
		return fmt.Errorf("active patient must not have a discharge_date")
	}
	if p.Status == StatusDischarged {
		if p.DischargeDate == nil {
			return fmt.Errorf("discharged patient requires a discharge_date")
		}
		if p.DischargeDate.Before(p.AdmissionDate) {
			return fmt.Errorf("discharge_date precedes admission_date")
		}
	}
	return nil
}
