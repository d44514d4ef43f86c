package qc

import (
	"fmt"
	"time"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// completionDeadlines is the maximum time allowed between admission and
// record completion, per record type.
var completionDeadlines = map[record.RecordType]time.Duration{
	record.TypeAdmission:        24 * time.Hour,
	record.TypeProgress:         72 * time.Hour,
	record.TypeWardRound:        48 * time.Hour,
	record.TypeSurgical:         24 * time.Hour,
	record.TypeDischargeSummary: 24 * time.Hour,
	record.TypeConsultation:     48 * time.Hour,
	record.TypeNursing:          24 * time.Hour,
}

// expectedOrder is the canonical section ordering in a narrative record.
var expectedOrder = []nlp.SectionName{
	nlp.SectionChiefComplaint,
	nlp.SectionPresentIllness,
	nlp.SectionPastHistory,
	nlp.SectionPersonalHistory,
	nlp.SectionFamilyHistory,
	nlp.SectionPhysicalExam,
	nlp.SectionAuxiliaryExam,
	nlp.SectionDiagnosis,
	nlp.SectionTreatmentPlan,
}

// minEditGap is the smallest believable interval between creating a record
// and finishing its last edit.
const minEditGap = time.Minute

// TimelinessChecker verifies completion deadlines, section ordering and
// edit timing.
type TimelinessChecker struct{}

// NewTimelinessChecker creates a timeliness checker.
func NewTimelinessChecker() *TimelinessChecker {
	return &TimelinessChecker{}
}

func (c *TimelinessChecker) Name() string { return "timeliness" }

func (c *TimelinessChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if rec == nil {
		return issues
	}

	if deadline, ok := completionDeadlines[rec.RecordType]; ok && rec.AdmissionDate != nil {
		if gap := rec.CreatedAt.Sub(*rec.AdmissionDate); gap > deadline {
			issues = append(issues, Issue{
				Type:     c.Name(),
				Severity: SeverityMajor,
				Message: fmt.Sprintf("病历超时完成：入院后 %.0f 小时才书写（时限 %.0f 小时）",
					gap.Hours(), deadline.Hours()),
				Suggestion: "按照时限要求及时完成病历书写",
			})
		}
	}

	if res != nil {
		issues = append(issues, c.checkOrder(res)...)
	}

	if gap := rec.UpdatedAt.Sub(rec.CreatedAt); gap > 0 && gap < minEditGap {
		issues = append(issues, Issue{
			Type:       c.Name(),
			Severity:   SeverityMinor,
			Message:    fmt.Sprintf("病历创建后 %s 内即完成修改，疑似复制粘贴", gap.Round(time.Second)),
			Suggestion: "确认病历内容为本次实际书写",
		})
	}

	return issues
}

// checkOrder flags sections that appear before a section that should
// precede them.
func (c *TimelinessChecker) checkOrder(res *nlp.Result) []Issue {
	var issues []Issue
	lastStart := -1
	var lastName nlp.SectionName
	for _, name := range expectedOrder {
		s, ok := res.Sections[name]
		if !ok {
			continue
		}
		if lastStart >= 0 && s.Start < lastStart {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("章节顺序异常：%s 出现在 %s 之前", name, lastName),
				Suggestion: "按照规范顺序组织病历章节",
			})
			continue
		}
		lastStart = s.Start
		lastName = name
	}
	return issues
}
