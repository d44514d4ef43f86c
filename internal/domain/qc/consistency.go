package qc

import (
	"fmt"
	"unicode/utf8"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// minPlanRunes is how long the treatment plan must be when a critical
// vital sign is present.
const minPlanRunes = 30

// ConsistencyChecker cross-checks entities and indicators against each
// other: findings without support are flagged.
type ConsistencyChecker struct{}

// NewConsistencyChecker creates a consistency checker.
func NewConsistencyChecker() *ConsistencyChecker {
	return &ConsistencyChecker{}
}

func (c *ConsistencyChecker) Name() string { return "consistency" }

func (c *ConsistencyChecker) Check(_ *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil {
		return issues
	}

	diagnoses := res.EntitiesOfType(nlp.EntityDiagnosis)
	medications := res.EntitiesOfType(nlp.EntityMedication)
	labs := res.EntitiesOfType(nlp.EntityLabResult)

	if len(diagnoses) > 0 && len(res.SymptomMatches) == 0 && len(res.EntitiesOfType(nlp.EntitySymptom)) == 0 {
		issues = append(issues, Issue{
			Type:       c.Name(),
			Severity:   SeverityMajor,
			Message:    "存在诊断但未记录任何症状",
			Suggestion: "补充支持诊断的症状描述",
		})
	}

	if len(medications) > 0 && len(diagnoses) == 0 {
		issues = append(issues, Issue{
			Type:       c.Name(),
			Severity:   SeverityMajor,
			Message:    "存在用药记录但缺少诊断",
			Suggestion: "补充用药对应的诊断依据",
		})
	}

	if len(diagnoses) == 0 {
		for _, ind := range res.Indicators {
			if ind.IsAbnormal && len(labs) > 0 {
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMinor,
					Message:    fmt.Sprintf("实验室指标 %s 异常但缺少相应诊断", ind.Name),
					Suggestion: "针对异常检验结果补充诊断或说明",
				})
				break
			}
		}
	}

	if hasCriticalIndicator(res) {
		plan, ok := res.Section(nlp.SectionTreatmentPlan)
		if !ok || utf8.RuneCountInString(plan.Content) < minPlanRunes {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    "存在危急生命体征但诊疗计划缺失或过于简略",
				Suggestion: "针对危急值制定并记录详细处理方案",
			})
		}
	}

	return issues
}

func hasCriticalIndicator(res *nlp.Result) bool {
	for _, ind := range res.Indicators {
		if ind.Severity == nlp.SeverityCritical {
			return true
		}
	}
	return false
}
