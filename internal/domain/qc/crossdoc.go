package qc

import (
	"fmt"
	"strings"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// Rule identifiers for the fixed intra-document contradiction checks.
const (
	RuleCrossChiefHPI       = "CROSS_CHIEF_HPI"
	RuleCrossSurgeryHistory = "CROSS_SURGERY_HISTORY"
	RuleCrossDrugAllergy    = "CROSS_DRUG_ALLERGY"
)

// surgeryDenials are the phrasings of a denied surgical history.
var surgeryDenials = []string{"否认手术史", "否认手术外伤史", "无手术史"}

// surgicalEvidence is vocabulary that implies prior surgery.
var surgicalEvidence = []string{"手术切口", "手术瘢痕", "手术疤痕", "术后改变", "术后状态", "切口愈合"}

// allergyDenials are the phrasings of a denied drug allergy history.
var allergyDenials = []string{"否认药物过敏史", "否认药物过敏", "无药物过敏史", "否认食物药物过敏史"}

// CrossDocChecker detects contradictions between sections of a single
// document. True cross-record checking is out of scope.
type CrossDocChecker struct {
	symptoms *knowledge.SymptomStore
	drugs    *knowledge.DrugStore
}

// NewCrossDocChecker creates a cross-section contradiction checker.
func NewCrossDocChecker(symptoms *knowledge.SymptomStore, drugs *knowledge.DrugStore) *CrossDocChecker {
	return &CrossDocChecker{symptoms: symptoms, drugs: drugs}
}

func (c *CrossDocChecker) Name() string { return "cross_document" }

func (c *CrossDocChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil {
		return issues
	}

	var content string
	if rec != nil {
		content = rec.Content
	}

	issues = append(issues, c.checkChiefComplaint(res)...)
	issues = append(issues, c.checkSurgeryHistory(res, content)...)
	issues = append(issues, c.checkDrugAllergy(res, content)...)
	return issues
}

// checkChiefComplaint flags chief-complaint symptoms that the present
// illness never mentions, not even through a known alias.
func (c *CrossDocChecker) checkChiefComplaint(res *nlp.Result) []Issue {
	var issues []Issue
	chief, okChief := res.Section(nlp.SectionChiefComplaint)
	hpi, okHPI := res.Section(nlp.SectionPresentIllness)
	if !okChief || !okHPI || chief.Content == "" || hpi.Content == "" {
		return issues
	}

	reported := map[string]bool{}
	for _, m := range res.SymptomMatches {
		if !strings.Contains(chief.Content, m.MatchedAlias) || reported[m.CanonicalName] {
			continue
		}
		reported[m.CanonicalName] = true

		found := strings.Contains(hpi.Content, m.CanonicalName)
		if !found && c.symptoms != nil {
			for _, alias := range c.symptoms.Aliases(m.CanonicalName) {
				if alias != "" && strings.Contains(hpi.Content, alias) {
					found = true
					break
				}
			}
		}
		if !found {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("主诉症状 %s 在现病史中无对应描述", m.CanonicalName),
				Suggestion: "在现病史中描述主诉症状的发生发展过程",
				RuleID:     RuleCrossChiefHPI,
			})
		}
	}
	return issues
}

// checkSurgeryHistory flags a denied surgical history contradicted by
// surgical-scar or post-operative vocabulary elsewhere in the document.
func (c *CrossDocChecker) checkSurgeryHistory(res *nlp.Result, content string) []Issue {
	past, ok := res.Section(nlp.SectionPastHistory)
	if !ok || !containsAny(past.Content, surgeryDenials) {
		return nil
	}
	for _, ev := range surgicalEvidence {
		if strings.Contains(content, ev) {
			return []Issue{{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("既往史否认手术史，但病历中出现 %q", ev),
				Suggestion: "核实手术史记录的真实性",
				RuleID:     RuleCrossSurgeryHistory,
			}}
		}
	}
	return nil
}

// checkDrugAllergy flags a denied drug allergy while the document names a
// member of a high-risk drug family anywhere. The mention alone is the
// contradiction signal: a patient with a denied allergy history must not
// have a high-risk family drug on record without reconciliation.
func (c *CrossDocChecker) checkDrugAllergy(res *nlp.Result, content string) []Issue {
	past, ok := res.Section(nlp.SectionPastHistory)
	denied := ok && containsAny(past.Content, allergyDenials)
	if !denied {
		if s, okA := res.Section(nlp.SectionAllergyHistory); okA {
			denied = containsAny(s.Content, allergyDenials)
		}
	}
	if !denied || c.drugs == nil {
		return nil
	}

	for _, family := range c.drugs.AllergyFamilies() {
		for _, member := range family.Members {
			if strings.Contains(content, member) {
				return []Issue{{
					Type:       c.Name(),
					Severity:   SeverityCritical,
					Message:    fmt.Sprintf("既往史否认药物过敏，但病历中出现高风险药物 %s（%s）", member, family.Family),
					Suggestion: "立即核实药物过敏史并修正记录",
					RuleID:     RuleCrossDrugAllergy,
				}}
			}
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
