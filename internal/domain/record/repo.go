package record

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence interface for clinical records.
type Repository interface {
	Create(ctx context.Context, r *ClinicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error)
	Update(ctx context.Context, r *ClinicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, recordType string, limit, offset int) ([]*ClinicalRecord, int, error)
}
