package patient

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, admission_date, predicted_los, department, diagnosis,
	age, gender, insurance, severity, status, discharge_date, created_at, updated_at`

// uniqueViolation is the Postgres error code for duplicate key inserts.
const uniqueViolation = "23505"

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (
			id, admission_date, predicted_los, department, diagnosis,
			age, gender, insurance, severity, status, discharge_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.AdmissionDate, p.PredictedLOS, p.Department, p.Diagnosis,
		p.Age, p.Gender, p.Insurance, p.Severity, p.Status, p.DischargeDate,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) ListActive(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+`
		FROM patients
		WHERE status = $1
		ORDER BY admission_date DESC`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPatients(rows)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientCols+`
		FROM patients
		ORDER BY admission_date DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *repoPG) Discharge(ctx context.Context, id string, when time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET status = $2, discharge_date = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, StatusDischarged, when, StatusActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing patient from a repeated discharge.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyDischarged
	}
	return nil
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n)
	return n, err
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.AdmissionDate, &p.PredictedLOS, &p.Department, &p.Diagnosis,
		&p.Age, &p.Gender, &p.Insurance, &p.Severity, &p.Status, &p.DischargeDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}
