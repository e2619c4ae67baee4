package patient

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	// ListActive returns all active patients ordered by admission date
	// descending.
	ListActive(ctx context.Context) ([]*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	// Discharge transitions the patient to the Discharged status and
	// records the discharge timestamp.
	Discharge(ctx context.Context, id string, when time.Time) error
	Count(ctx context.Context) (int, error)
}
