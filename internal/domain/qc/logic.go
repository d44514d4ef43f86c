package qc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// LogicChecker finds internal contradictions: impossible dates,
// contradictory diagnosis pairs and inverted blood pressure readings.
type LogicChecker struct {
	contradictions *knowledge.ContradictionStore
}

// NewLogicChecker creates a logic checker.
func NewLogicChecker(contradictions *knowledge.ContradictionStore) *LogicChecker {
	return &LogicChecker{contradictions: contradictions}
}

func (c *LogicChecker) Name() string { return "logic" }

func (c *LogicChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue

	if rec != nil {
		if rec.AdmissionDate != nil && rec.DischargeDate != nil && rec.AdmissionDate.After(*rec.DischargeDate) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityCritical,
				Message:    "入院日期晚于出院日期",
				Suggestion: "核对入院与出院日期",
			})
		}
		if rec.AdmissionDate != nil && rec.CreatedAt.Before(*rec.AdmissionDate) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMajor,
				Message:    "病历创建时间早于入院时间",
				Suggestion: "核对病历书写时间",
			})
		}
	}

	if res != nil {
		issues = append(issues, c.checkDiagnoses(res)...)
		issues = append(issues, c.checkBloodPressure(res)...)
		issues = append(issues, c.checkCriticalValues(res)...)
	}

	return issues
}

// checkDiagnoses flags duplicated and contradictory diagnosis pairs.
func (c *LogicChecker) checkDiagnoses(res *nlp.Result) []Issue {
	var issues []Issue
	diagnoses := res.EntitiesOfType(nlp.EntityDiagnosis)

	counts := map[string]int{}
	var distinct []string
	for _, d := range diagnoses {
		if counts[d.Text] == 0 {
			distinct = append(distinct, d.Text)
		}
		counts[d.Text]++
	}

	if c.contradictions != nil {
		reported := map[string]bool{}
		for i := 0; i < len(distinct); i++ {
			for j := i + 1; j < len(distinct); j++ {
				p := c.contradictions.Find(distinct[i], distinct[j])
				if p == nil {
					continue
				}
				key := p.A + "|" + p.B
				if reported[key] {
					continue
				}
				reported[key] = true
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityCritical,
					Message:    fmt.Sprintf("诊断互相矛盾：%s 与 %s（%s）", p.A, p.B, p.Reason),
					Suggestion: "复核诊断，删除矛盾项",
				})
			}
		}
	}

	return issues
}

// checkBloodPressure flags systolic < diastolic inversions.
func (c *LogicChecker) checkBloodPressure(res *nlp.Result) []Issue {
	var issues []Issue
	for _, ind := range res.Indicators {
		if ind.Name != "血压" {
			continue
		}
		parts := strings.SplitN(ind.Value, "/", 2)
		if len(parts) != 2 {
			continue
		}
		sys, errS := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		dia, errD := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errS != nil || errD != nil {
			continue
		}
		if sys < dia {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityCritical,
				Message:    fmt.Sprintf("血压记录异常：收缩压 %s 低于舒张压 %s", parts[0], parts[1]),
				Suggestion: "核实血压测量记录是否写反",
			})
		}
	}
	return issues
}

// checkCriticalValues flags indicators the pipeline graded critical.
func (c *LogicChecker) checkCriticalValues(res *nlp.Result) []Issue {
	var issues []Issue
	for _, ind := range res.Indicators {
		if ind.Severity != nlp.SeverityCritical {
			continue
		}
		issues = append(issues, Issue{
			Type:       c.Name(),
			Severity:   SeverityCritical,
			Message:    fmt.Sprintf("指标 %s 达到危急值：%s%s", ind.Name, ind.Value, ind.Unit),
			Suggestion: "确认危急值已按流程上报和处置",
		})
	}
	return issues
}
