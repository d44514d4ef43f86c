package qc

import (
	"fmt"
	"unicode/utf8"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// requiredSections must be present in every record type.
var requiredSections = []nlp.SectionName{
	nlp.SectionChiefComplaint,
	nlp.SectionPresentIllness,
	nlp.SectionPastHistory,
	nlp.SectionPhysicalExam,
	nlp.SectionDiagnosis,
}

// typeSections adds per-record-type required sections.
var typeSections = map[record.RecordType][]nlp.SectionName{
	record.TypeAdmission:        {nlp.SectionTreatmentPlan},
	record.TypeSurgical:         {nlp.SectionSurgicalRecord},
	record.TypeDischargeSummary: {nlp.SectionDischargeSummary, nlp.SectionTreatmentPlan},
	record.TypeWardRound:        {nlp.SectionWardRound},
	record.TypeNursing:          {nlp.SectionNursingRecord},
	record.TypeProgress:         {nlp.SectionProgressNote},
	record.TypeConsultation:     {nlp.SectionConsultation},
}

// requiredVitals is the minimum indicator coverage for a complete record.
var requiredVitals = []string{"血压", "心率", "体温", "呼吸频率"}

// minContentRunes is the minimum document length for a usable record.
const minContentRunes = 100

// CompletenessChecker verifies section presence, content length and vital
// sign coverage.
type CompletenessChecker struct {
	departments *knowledge.DepartmentStore
}

// NewCompletenessChecker creates a completeness checker.
func NewCompletenessChecker(departments *knowledge.DepartmentStore) *CompletenessChecker {
	return &CompletenessChecker{departments: departments}
}

func (c *CompletenessChecker) Name() string { return "completeness" }

func (c *CompletenessChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if rec == nil {
		return issues
	}

	var sections map[nlp.SectionName]nlp.Section
	if res != nil {
		sections = res.Sections
	}

	coreMissing := 0
	for _, name := range requiredSections {
		if s, ok := sections[name]; !ok || s.Content == "" {
			coreMissing++
		}
	}

	if utf8.RuneCountInString(rec.Content) < minContentRunes {
		if coreMissing == len(requiredSections) {
			// under-length and no core section at all: the record cannot
			// be assessed and must not pass review
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityCritical,
				Message:    "病历内容为空或缺失全部核心章节，无法评估",
				Suggestion: "重新书写完整病历后再提交质控",
			})
		} else {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("病历内容过短（不足%d字）", minContentRunes),
				Suggestion: "补充完整的病历记录内容",
			})
		}
	}

	required := append([]nlp.SectionName{}, requiredSections...)
	required = append(required, typeSections[rec.RecordType]...)
	for _, name := range required {
		s, ok := sections[name]
		if !ok || s.Content == "" {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    fmt.Sprintf("缺少必需章节：%s", name),
				Suggestion: fmt.Sprintf("补充 %s 章节内容", name),
			})
		}
	}

	// departments in the acute/critical category document a treatment plan
	if c.departments != nil && rec.Department != nil {
		if d := c.departments.Resolve(*rec.Department); d != nil && d.Category == "急危重症" {
			if _, ok := sections[nlp.SectionTreatmentPlan]; !ok {
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMajor,
					Message:    fmt.Sprintf("%s 病历缺少诊疗计划章节", d.Name),
					Suggestion: "急危重症病历必须记录诊疗计划",
				})
			}
		}
	}

	if res != nil {
		for _, vital := range requiredVitals {
			if _, ok := res.IndicatorByName(vital); !ok {
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMinor,
					Message:    fmt.Sprintf("缺少生命体征记录：%s", vital),
					Suggestion: fmt.Sprintf("补充 %s 测量值", vital),
				})
			}
		}
	}

	return issues
}
