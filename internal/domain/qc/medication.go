package qc

import (
	"fmt"
	"regexp"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

var (
	dosagePattern    = regexp.MustCompile(`[0-9]+(\.[0-9]+)?\s*(mg|g|ml|μg|ug|IU|U|片|粒|支|袋|単位|单位)`)
	frequencyPattern = regexp.MustCompile(`(每日|每天|一日|日[一二三四]次|qd|bid|tid|qid|q[0-9]+h|每[0-9]+小时|睡前|必要时|prn)`)
)

// dosageWindow is how many bytes around a medication mention are searched
// for dosage and frequency context.
const dosageWindow = 60

// MedicationChecker verifies dosage context, contraindications and
// pairwise drug interactions.
type MedicationChecker struct {
	drugs *knowledge.DrugStore
}

// NewMedicationChecker creates a medication safety checker.
func NewMedicationChecker(drugs *knowledge.DrugStore) *MedicationChecker {
	return &MedicationChecker{drugs: drugs}
}

func (c *MedicationChecker) Name() string { return "medication_safety" }

func (c *MedicationChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil {
		return issues
	}

	medications := res.EntitiesOfType(nlp.EntityMedication)
	if len(medications) == 0 {
		return issues
	}

	var content string
	if rec != nil {
		content = rec.Content
	}

	seen := map[string]bool{}
	var distinct []nlp.Entity
	for _, m := range medications {
		if !seen[m.Text] {
			seen[m.Text] = true
			distinct = append(distinct, m)
		}
	}

	for _, med := range distinct {
		ctx := contextWindow(content, med.Start, med.End, dosageWindow)
		if ctx != "" && !dosagePattern.MatchString(ctx) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("用药 %s 缺少剂量记录", med.Text),
				Suggestion: "补充药物剂量",
			})
		}
		if ctx != "" && !frequencyPattern.MatchString(ctx) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("用药 %s 缺少用药频次", med.Text),
				Suggestion: "补充用药频次（如每日一次）",
			})
		}
	}

	if c.drugs != nil {
		issues = append(issues, c.checkContraindications(distinct, res)...)
		issues = append(issues, c.checkInteractions(distinct)...)
	}

	return issues
}

func (c *MedicationChecker) checkContraindications(medications []nlp.Entity, res *nlp.Result) []Issue {
	var issues []Issue
	diagnoses := res.EntitiesOfType(nlp.EntityDiagnosis)

	for _, med := range medications {
		d := c.drugs.Get(med.Text)
		if d == nil {
			continue
		}
		for _, contra := range d.Contraindications {
			for _, diag := range diagnoses {
				if diag.Text == contra {
					issues = append(issues, Issue{
						Type:       c.Name(),
						Severity:   SeverityCritical,
						Message:    fmt.Sprintf("%s 禁用于 %s 患者", d.Name, contra),
						Suggestion: "重新评估用药方案",
					})
				}
			}
		}
	}
	return dedupeIssues(issues)
}

func (c *MedicationChecker) checkInteractions(medications []nlp.Entity) []Issue {
	var issues []Issue
	for i := 0; i < len(medications); i++ {
		for j := i + 1; j < len(medications); j++ {
			if c.drugs.Interacts(medications[i].Text, medications[j].Text) {
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMajor,
					Message:    fmt.Sprintf("药物相互作用：%s 与 %s", medications[i].Text, medications[j].Text),
					Suggestion: "评估联合用药风险，必要时调整",
				})
			}
		}
	}
	return issues
}

// contextWindow slices the bytes around [start,end), clamped to the text.
func contextWindow(text string, start, end, window int) string {
	if text == "" || start < 0 || end > len(text) || start > end {
		return ""
	}
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func dedupeIssues(issues []Issue) []Issue {
	seen := map[string]bool{}
	var out []Issue
	for _, is := range issues {
		if seen[is.Message] {
			continue
		}
		seen[is.Message] = true
		out = append(out, is)
	}
	return out
}
