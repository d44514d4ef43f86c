package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides clinical record CRUD with input validation.
type Service struct {
	repo Repository
}

// NewService creates a record service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *ClinicalRecord) error {
	if r.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if r.RecordType == "" {
		return fmt.Errorf("record_type is required")
	}
	if !ValidTypes[r.RecordType] {
		return fmt.Errorf("invalid record_type: %s", r.RecordType)
	}
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}
	if r.AdmissionDate != nil && r.DischargeDate != nil && r.DischargeDate.Before(*r.AdmissionDate) {
		return fmt.Errorf("discharge_date is before admission_date")
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *ClinicalRecord) error {
	if r.RecordType != "" && !ValidTypes[r.RecordType] {
		return fmt.Errorf("invalid record_type: %s", r.RecordType)
	}
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, recordType string, limit, offset int) ([]*ClinicalRecord, int, error) {
	return s.repo.List(ctx, recordType, limit, offset)
}
