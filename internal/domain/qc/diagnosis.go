package qc

import (
	"fmt"
	"regexp"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// icdPattern matches ICD-10 style diagnosis codes, e.g. "I10" or "N39.0".
var icdPattern = regexp.MustCompile(`[A-Z][0-9]{2}(\.[0-9]+)?`)

// DiagnosisChecker validates diagnosis entities against the standard
// terminology and checks coding and symptom support.
type DiagnosisChecker struct {
	terminology *knowledge.TerminologyStore
}

// NewDiagnosisChecker creates a diagnosis checker.
func NewDiagnosisChecker(terminology *knowledge.TerminologyStore) *DiagnosisChecker {
	return &DiagnosisChecker{terminology: terminology}
}

func (c *DiagnosisChecker) Name() string { return "diagnosis" }

func (c *DiagnosisChecker) Check(_ *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil {
		return issues
	}

	diagnoses := res.EntitiesOfType(nlp.EntityDiagnosis)
	if len(diagnoses) == 0 {
		return issues
	}

	hasSymptoms := len(res.SymptomMatches) > 0 || len(res.EntitiesOfType(nlp.EntitySymptom)) > 0

	seen := map[string]bool{}
	for _, d := range diagnoses {
		if seen[d.Text] {
			continue
		}
		seen[d.Text] = true

		var term *knowledge.StandardTerm
		if c.terminology != nil {
			term = c.terminology.Lookup(d.Text)
		}
		if term == nil {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("诊断 %q 不在标准术语表中", d.Text),
				Suggestion: "使用标准诊断名称",
			})
			continue
		}
		if term.Serious && !hasSymptoms {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("严重诊断 %s 缺少症状支持", term.StandardName),
				Suggestion: "补充支持该诊断的症状与体征描述",
			})
		}
	}

	if s, ok := res.Section(nlp.SectionDiagnosis); ok && s.Content != "" {
		if !icdPattern.MatchString(s.Content) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    "诊断章节缺少ICD编码",
				Suggestion: "为诊断补充ICD-10编码",
			})
		}
	}

	return issues
}
