package rule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validSeverities = map[string]bool{"minor": true, "major": true, "critical": true}

// Service provides QC rule CRUD and the content-rule lookup used by the
// content_rule checker.
type Service struct {
	repo Repository
}

// NewService creates a rule service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *Rule) error {
	if r.RuleID == "" {
		return fmt.Errorf("rule_id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validSeverities[r.Severity] {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if r.Status == "" {
		r.Status = "active"
	}
	if _, err := ParseCondition(r.Condition); err != nil {
		return fmt.Errorf("invalid condition: %w", err)
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Rule) error {
	if r.Severity != "" && !validSeverities[r.Severity] {
		return fmt.Errorf("invalid severity: %s", r.Severity)
	}
	if r.Condition != "" {
		if _, err := ParseCondition(r.Condition); err != nil {
			return fmt.Errorf("invalid condition: %w", err)
		}
	}
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, category string, limit, offset int) ([]*Rule, int, error) {
	return s.repo.List(ctx, category, limit, offset)
}

// ContentRules returns the active content rules applying to documentType,
// with their conditions parsed. Rules with malformed conditions are
// dropped here so checkers never see them. This is the rule feed for QC
// runs.
func (s *Service) ContentRules(ctx context.Context, documentType string) ([]*Rule, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Rule
	for _, r := range active {
		if r.Category != "content_rule" {
			continue
		}
		cond, err := r.Parsed()
		if err != nil {
			continue
		}
		if cond.DocumentType != "" && cond.DocumentType != documentType {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
