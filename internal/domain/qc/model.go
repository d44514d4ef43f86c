package qc

import (
	"time"

	"github.com/google/uuid"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// Severity grades a quality issue.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Issue is a single quality defect found by a checker. Issues are
// append-only: produced once per checker invocation, never edited.
type Issue struct {
	Type       string   `json:"type"` // matches the emitting checker's name
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	RuleID     string   `json:"rule_id,omitempty"`
}

// Mode is a named preset selecting which checkers run.
type Mode string

const (
	ModeFast          Mode = "fast"
	ModeStandard      Mode = "standard"
	ModeComprehensive Mode = "comprehensive"
	ModeAI            Mode = "ai"
)

// Status is the pass/fail verdict of a QC run.
type Status string

const (
	StatusPass            Status = "pass"
	StatusPassWithWarning Status = "pass_with_warning"
	StatusFail            Status = "fail"
)

// RunState tracks QC run execution.
type RunState string

const (
	RunNotStarted        RunState = "not_run"
	RunRunning           RunState = "running"
	RunCompleted         RunState = "completed"
	RunPartiallyComplete RunState = "partially_completed_with_errors"
)

// Result maps to the qc_result table. Immutable once constructed; a
// record may have many.
type Result struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	RecordID     uuid.UUID      `db:"record_id" json:"record_id"`
	TotalScore   int            `db:"total_score" json:"total_score"`     // raw rounded mean
	OverallScore int            `db:"overall_score" json:"overall_score"` // after the critical cap
	Status       Status         `db:"status" json:"status"`
	Scores       map[string]int `db:"scores" json:"scores"` // checker name -> score
	Issues       []Issue        `db:"issues" json:"issues"`
	Mode         Mode           `db:"mode" json:"mode"`
	State        RunState       `db:"state" json:"state"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// HasSeverity reports whether any issue carries the given severity.
func (r *Result) HasSeverity(sev Severity) bool {
	for _, is := range r.Issues {
		if is.Severity == sev {
			return true
		}
	}
	return false
}

// Checker is one independent rule-evaluation unit. Implementations are
// stateless, total functions: they never panic for malformed but
// well-typed input and tolerate nil structured results.
type Checker interface {
	Name() string
	Check(rec *record.ClinicalRecord, res *nlp.Result, rules []*rule.Rule) []Issue
}

// Options tunes a single QC run.
type Options struct {
	Mode           Mode     `json:"mode,omitempty"`
	Checkers       []string `json:"checkers,omitempty"` // overrides the mode table
	StopOnCritical bool     `json:"stop_on_critical,omitempty"`
}
