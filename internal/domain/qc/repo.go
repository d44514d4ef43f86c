package qc

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists QC results. Results are write-once.
type Repository interface {
	Create(ctx context.Context, r *Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*Result, error)
	ListByRecord(ctx context.Context, recordID uuid.UUID, limit, offset int) ([]*Result, int, error)
	List(ctx context.Context, status string, limit, offset int) ([]*Result, int, error)
}
