package tracking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoRecords is returned when a patient has no tracking history.
	ErrNoRecords = errors.New("no tracking records for patient")
)

// VitalSigns is one structured snapshot of a patient's readings. It is
// persisted as JSONB; the fixed field set replaces the free-form blob the
// dashboard used to parse.
type VitalSigns struct {
	HeartRate        float64 `json:"heart_rate"`
	BloodPressure    float64 `json:"blood_pressure"`
	Temperature      float64 `json:"temperature"`
	OxygenSaturation float64 `json:"oxygen_saturation"`
}

// Validate checks the numeric ranges at the persistence boundary.
func (v VitalSigns) Validate() error {
	if v.OxygenSaturation > 100 {
		return fmt.Errorf("oxygen_saturation must not exceed 100, got %v", v.OxygenSaturation)
	}
	if v.HeartRate < 0 || v.BloodPressure < 0 || v.Temperature < 0 || v.OxygenSaturation < 0 {
		return fmt.Errorf("vital signs must not be negative")
	}
	return nil
}

// Record maps to the los_tracking table. Records are append-only: one
// observation of a patient's LOS and vitals. Seq is assigned by the store
// and orders records that share a tracking date.
type Record struct {
	Seq          int64      `db:"seq" json:"seq"`
	PatientID    string     `db:"patient_id" json:"patient_id"`
	TrackingDate time.Time  `db:"tracking_date" json:"tracking_date"`
	CurrentLOS   float64    `db:"current_los" json:"current_los"`
	VitalSigns   VitalSigns `db:"vital_signs" json:"vital_signs"`
}

// Validate checks the record invariants before it is appended.
func (r *Record) Validate() error {
	if r.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if r.TrackingDate.IsZero() {
		return fmt.Errorf("tracking_date is required")
	}
	if r.CurrentLOS < 0 {
		return fmt.Errorf("current_los must not be negative, got %v", r.CurrentLOS)
	}
	return r.VitalSigns.Validate()
}
