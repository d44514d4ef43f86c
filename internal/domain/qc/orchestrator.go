package qc

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// Severity deductions per issue, subtracted from the 100-point checker
// baseline.
const (
	deductCritical = 20
	deductMajor    = 10
	deductMinor    = 5
)

// criticalCap limits the overall score whenever any critical issue is
// present; 59 keeps the record below the pass threshold.
const criticalCap = 59

// modeCheckers selects which checkers run per mode, by name, in run order.
var modeCheckers = map[Mode][]string{
	ModeFast:     {"completeness", "logic"},
	ModeStandard: {"completeness", "timeliness", "consistency", "formatting", "logic"},
	ModeComprehensive: {
		"completeness", "timeliness", "consistency", "formatting", "logic",
		"diagnosis", "medication_safety", "content_rule", "cross_document", "duplicate",
	},
	ModeAI: {
		"completeness", "timeliness", "consistency", "formatting", "logic",
		"diagnosis", "medication_safety", "content_rule", "cross_document", "duplicate",
	},
}

// Runner orchestrates a QC run: selects the checker subset, executes
// sequentially with per-checker failure isolation, scores and derives the
// verdict.
type Runner struct {
	checkers []Checker
	byName   map[string]Checker
	log      zerolog.Logger
}

// NewRunner creates a runner over an ordered checker list.
func NewRunner(checkers []Checker, log zerolog.Logger) *Runner {
	byName := make(map[string]Checker, len(checkers))
	for _, c := range checkers {
		byName[c.Name()] = c
	}
	return &Runner{checkers: checkers, byName: byName, log: log}
}

// DefaultCheckers returns the full checker set in canonical run order.
func DefaultCheckers(deps CheckerDeps) []Checker {
	return []Checker{
		NewCompletenessChecker(deps.Departments),
		NewTimelinessChecker(),
		NewConsistencyChecker(),
		NewFormattingChecker(),
		NewLogicChecker(deps.Contradictions),
		NewDiagnosisChecker(deps.Terminology),
		NewMedicationChecker(deps.Drugs),
		NewContentRuleChecker(),
		NewCrossDocChecker(deps.Symptoms, deps.Drugs),
		NewDuplicateChecker(),
	}
}

// Run executes QC over one record. It never panics outward: a checker
// failure is logged and skipped, and a run where every checker failed
// still yields a well-formed zero-score result.
func (r *Runner) Run(rec *record.ClinicalRecord, res *nlp.Result, rules []*rule.Rule, opts Options) *Result {
	selected := r.selectCheckers(opts)

	out := &Result{
		Scores:    map[string]int{},
		Mode:      opts.Mode,
		State:     RunRunning,
		CreatedAt: time.Now(),
	}
	if out.Mode == "" {
		out.Mode = ModeStandard
	}
	if rec != nil {
		out.RecordID = rec.ID
	}

	failed := false
	for _, checker := range selected {
		issues, ok := r.runChecker(checker, rec, res, rules)
		if !ok {
			failed = true
			continue
		}

		out.Scores[checker.Name()] = scoreIssues(issues)
		out.Issues = append(out.Issues, issues...)

		if opts.StopOnCritical && hasCritical(issues) {
			break
		}
	}

	out.TotalScore = meanScore(out.Scores)
	out.OverallScore = out.TotalScore
	if out.HasSeverity(SeverityCritical) && out.OverallScore > criticalCap {
		out.OverallScore = criticalCap
	}
	out.Status = verdict(out)

	if failed {
		out.State = RunPartiallyComplete
	} else {
		out.State = RunCompleted
	}
	return out
}

// selectCheckers resolves the checker subset: an explicit list overrides
// the mode table. Unknown names are ignored.
func (r *Runner) selectCheckers(opts Options) []Checker {
	names := opts.Checkers
	if len(names) == 0 {
		mode := opts.Mode
		if mode == "" {
			mode = ModeStandard
		}
		names = modeCheckers[mode]
		if names == nil {
			names = modeCheckers[ModeStandard]
		}
	}

	var out []Checker
	for _, name := range names {
		if c, ok := r.byName[name]; ok {
			out = append(out, c)
		}
	}
	return out
}

// runChecker isolates a single checker execution; a panic is logged and
// reported as a failure.
func (r *Runner) runChecker(c Checker, rec *record.ClinicalRecord, res *nlp.Result, rules []*rule.Rule) (issues []Issue, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn().Str("checker", c.Name()).Interface("panic", p).Msg("checker failed, skipping")
			issues, ok = nil, false
		}
	}()
	return c.Check(rec, res, rules), true
}

// scoreIssues computes a per-checker score: 100 minus severity deductions,
// floored at 0.
func scoreIssues(issues []Issue) int {
	score := 100
	for _, is := range issues {
		switch is.Severity {
		case SeverityCritical:
			score -= deductCritical
		case SeverityMajor:
			score -= deductMajor
		case SeverityMinor:
			score -= deductMinor
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// meanScore is the unweighted mean of per-checker scores rounded to the
// nearest integer; zero checkers yields 0.
func meanScore(scores map[string]int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

// verdict derives the pass/fail status from issues and the capped score.
func verdict(res *Result) Status {
	if res.HasSeverity(SeverityCritical) || res.OverallScore < 60 {
		return StatusFail
	}
	if res.HasSeverity(SeverityMajor) || res.OverallScore < 70 {
		return StatusPassWithWarning
	}
	return StatusPass
}

func hasCritical(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// CheckerDeps bundles the knowledge stores the checkers draw on.
type CheckerDeps struct {
	Symptoms       *knowledge.SymptomStore
	Drugs          *knowledge.DrugStore
	Terminology    *knowledge.TerminologyStore
	Contradictions *knowledge.ContradictionStore
	Departments    *knowledge.DepartmentStore
}
