package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losmon/losmon/internal/domain/patient"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) DepartmentStats(ctx context.Context) ([]*DepartmentStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			department,
			COUNT(*) AS patient_count,
			AVG(predicted_los) AS avg_predicted_los,
			AVG(severity) AS avg_severity
		FROM patients
		WHERE status = $1
		GROUP BY department
		ORDER BY department`, patient.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*DepartmentStats
	for rows.Next() {
		var s DepartmentStats
		if err := rows.Scan(&s.Department, &s.PatientCount, &s.AvgPredictedLOS, &s.AvgSeverity); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

func (r *repoPG) LOSDistribution(ctx context.Context) ([]*LOSDistributionRow, error) {
	// DISTINCT ON picks the latest record per patient; seq is the
	// deterministic tie-break for identical tracking dates.
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (p.id)
			p.id,
			p.department,
			t.current_los
		FROM patients p
		JOIN los_tracking t ON t.patient_id = p.id
		WHERE p.status = $1
		ORDER BY p.id, t.tracking_date DESC, t.seq DESC`, patient.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dist []*LOSDistributionRow
	for rows.Next() {
		var row LOSDistributionRow
		if err := rows.Scan(&row.PatientID, &row.Department, &row.CurrentLOS); err != nil {
			return nil, err
		}
		dist = append(dist, &row)
	}
	return dist, rows.Err()
}

func (r *repoPG) PatientSummary(ctx context.Context) ([]*PatientSummaryRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			p.id,
			p.department,
			p.diagnosis,
			p.admission_date,
			p.predicted_los,
			COUNT(t.seq) AS tracking_records
		FROM patients p
		LEFT JOIN los_tracking t ON t.patient_id = p.id
		GROUP BY p.id, p.department, p.diagnosis, p.admission_date, p.predicted_los
		ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []*PatientSummaryRow
	for rows.Next() {
		var row PatientSummaryRow
		if err := rows.Scan(&row.PatientID, &row.Department, &row.Diagnosis,
			&row.AdmissionDate, &row.PredictedLOS, &row.TrackingRecords); err != nil {
			return nil, err
		}
		summary = append(summary, &row)
	}
	return summary, rows.Err()
}

func (r *repoPG) RecentVitals(ctx context.Context) ([]*RecentVitalsRow, error) {
	rows, err := r.pool.Query(ctx, `
		WITH ranked AS (
			SELECT
				patient_id,
				tracking_date,
				vital_signs,
				ROW_NUMBER() OVER (
					PARTITION BY patient_id
					ORDER BY tracking_date DESC, seq DESC
				) AS rn
			FROM los_tracking
		)
		SELECT
			p.id,
			p.department,
			rv.tracking_date,
			rv.vital_signs
		FROM patients p
		LEFT JOIN ranked rv ON rv.patient_id = p.id AND rv.rn = 1
		ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vitals []*RecentVitalsRow
	for rows.Next() {
		var row RecentVitalsRow
		if err := rows.Scan(&row.PatientID, &row.Department, &row.TrackingDate, &row.VitalSigns); err != nil {
			return nil, err
		}
		vitals = append(vitals, &row)
	}
	return vitals, rows.Err()
}
