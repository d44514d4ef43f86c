package qc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// RuleSource supplies the content rules applying to a document type.
type RuleSource interface {
	ContentRules(ctx context.Context, documentType string) ([]*rule.Rule, error)
}

// RecordSource supplies clinical records by id.
type RecordSource interface {
	Get(ctx context.Context, id uuid.UUID) (*record.ClinicalRecord, error)
}

// Service ties the document pipeline, the rule library and the QC runner
// together and persists the results.
type Service struct {
	pipeline *nlp.Pipeline
	runner   *Runner
	rules    RuleSource
	records  RecordSource
	results  Repository
	defaults Options
	log      zerolog.Logger
}

// NewService creates the QC service.
func NewService(pipeline *nlp.Pipeline, runner *Runner, rules RuleSource, records RecordSource, results Repository, log zerolog.Logger) *Service {
	return &Service{
		pipeline: pipeline,
		runner:   runner,
		rules:    rules,
		records:  records,
		results:  results,
		log:      log,
	}
}

// SetDefaults sets the options applied when a QC request leaves them unset.
func (s *Service) SetDefaults(opts Options) {
	s.defaults = opts
}

// Analyze runs the document pipeline over a record's content.
func (s *Service) Analyze(ctx context.Context, recordID uuid.UUID) (*nlp.Result, error) {
	rec, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	return s.pipeline.Run(rec.Content), nil
}

// RunQC analyzes a record and executes quality control over the result,
// persisting the outcome. A failed rule load degrades to an empty rule
// set rather than aborting the run.
func (s *Service) RunQC(ctx context.Context, recordID uuid.UUID, opts Options) (*Result, error) {
	rec, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}

	if opts.Mode == "" {
		opts.Mode = s.defaults.Mode
	}
	if !opts.StopOnCritical {
		opts.StopOnCritical = s.defaults.StopOnCritical
	}

	structured := s.pipeline.Run(rec.Content)

	rules, err := s.rules.ContentRules(ctx, string(rec.RecordType))
	if err != nil {
		s.log.Warn().Err(err).Msg("rule load failed, running QC without rules")
		rules = nil
	}

	result := s.runner.Run(rec, structured, rules, opts)

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist qc result: %w", err)
	}
	return result, nil
}

// RunQCOnRecord executes quality control over a caller-supplied record and
// structured result without persistence. Used by the CLI analyze command.
func (s *Service) RunQCOnRecord(rec *record.ClinicalRecord, structured *nlp.Result, rules []*rule.Rule, opts Options) *Result {
	return s.runner.Run(rec, structured, rules, opts)
}

// GetResult loads one QC result.
func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.results.GetByID(ctx, id)
}

// ListResults lists QC results, optionally filtered by status.
func (s *Service) ListResults(ctx context.Context, status string, limit, offset int) ([]*Result, int, error) {
	return s.results.List(ctx, status, limit, offset)
}

// ListResultsByRecord lists the QC history of one record.
func (s *Service) ListResultsByRecord(ctx context.Context, recordID uuid.UUID, limit, offset int) ([]*Result, int, error) {
	return s.results.ListByRecord(ctx, recordID, limit, offset)
}

// Report builds the reviewer report for a stored result.
func (s *Service) Report(ctx context.Context, id uuid.UUID) (*Report, error) {
	res, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return GenerateReport(res), nil
}
