package tracking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const recordCols = `seq, patient_id, tracking_date, current_los, vital_signs`

func (r *repoPG) Append(ctx context.Context, rec *Record) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO los_tracking (patient_id, tracking_date, current_los, vital_signs)
		VALUES ($1, $2, $3, $4)
		RETURNING seq`,
		rec.PatientID, rec.TrackingDate, rec.CurrentLOS, rec.VitalSigns,
	).Scan(&rec.Seq)
}

func (r *repoPG) HistoryByPatient(ctx context.Context, patientID string) ([]*Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordCols+`
		FROM los_tracking
		WHERE patient_id = $1
		ORDER BY tracking_date, seq`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repoPG) LatestByPatient(ctx context.Context, patientID string) (*Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `
		SELECT `+recordCols+`
		FROM los_tracking
		WHERE patient_id = $1
		ORDER BY tracking_date DESC, seq DESC
		LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRecords
	}
	return rec, err
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM los_tracking`).Scan(&n)
	return n, err
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.Seq, &rec.PatientID, &rec.TrackingDate, &rec.CurrentLOS, &rec.VitalSigns)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
