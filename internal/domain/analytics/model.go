package analytics

import (
	"time"

	"github.com/losmon/losmon/internal/domain/patient"
	"github.com/losmon/losmon/internal/domain/tracking"
)

// DepartmentStats is one row of the per-department aggregate over active
// patients.
type DepartmentStats struct {
	Department      string  `db:"department" json:"department"`
	PatientCount    int     `db:"patient_count" json:"patient_count"`
	AvgPredictedLOS float64 `db:"avg_predicted_los" json:"avg_predicted_los"`
	AvgSeverity     float64 `db:"avg_severity" json:"avg_severity"`
}

// LOSDistributionRow pairs an active patient's department with the LOS from
// that patient's latest tracking record. Patients without tracking records
// do not appear.
type LOSDistributionRow struct {
	PatientID  string  `db:"patient_id" json:"patient_id"`
	Department string  `db:"department" json:"department"`
	CurrentLOS float64 `db:"current_los" json:"current_los"`
}

// PatientSummaryRow lists every patient with the size of their tracking
// history; zero for patients never observed.
type PatientSummaryRow struct {
	PatientID       string    `db:"patient_id" json:"patient_id"`
	Department      string    `db:"department" json:"department"`
	Diagnosis       string    `db:"diagnosis" json:"diagnosis"`
	AdmissionDate   time.Time `db:"admission_date" json:"admission_date"`
	PredictedLOS    float64   `db:"predicted_los" json:"predicted_los"`
	TrackingRecords int       `db:"tracking_records" json:"tracking_records"`
}

// RecentVitalsRow carries the latest vitals snapshot per patient. The
// snapshot and its date are nil for patients with no records.
type RecentVitalsRow struct {
	PatientID    string               `db:"patient_id" json:"patient_id"`
	Department   string               `db:"department" json:"department"`
	TrackingDate *time.Time           `db:"tracking_date" json:"tracking_date,omitempty"`
	VitalSigns   *tracking.VitalSigns `db:"vital_signs" json:"vital_signs,omitempty"`
}

// PatientDetail is the single-patient dashboard view: attributes plus the
// full tracking series in ascending time order.
type PatientDetail struct {
	Patient *patient.Patient   `json:"patient"`
	History []*tracking.Record `json:"history"`
}
