package rule

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence interface for the QC rule library.
type Repository interface {
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, category string, limit, offset int) ([]*Rule, int, error)
	ListActive(ctx context.Context) ([]*Rule, error)
}
