package qc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

// durationPattern matches a duration expression: arabic or CJK numerals
// followed by a time unit.
var durationPattern = regexp.MustCompile(`[0-9０-９一二两三四五六七八九十百半数]+[\s]*(天|日|周|月|年|小时|分钟|秒)`)

// ContentRuleChecker applies externally supplied per-document-type rules
// with typed conditions. Rules whose conditions fail to parse are skipped.
type ContentRuleChecker struct{}

// NewContentRuleChecker creates a content rule checker.
func NewContentRuleChecker() *ContentRuleChecker {
	return &ContentRuleChecker{}
}

func (c *ContentRuleChecker) Name() string { return "content_rule" }

func (c *ContentRuleChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, rules []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil {
		return issues
	}

	for _, r := range rules {
		if !r.Active() || r.Category != "content_rule" {
			continue
		}
		cond, err := r.Parsed()
		if err != nil {
			continue
		}
		if rec != nil && cond.DocumentType != "" && cond.DocumentType != string(rec.RecordType) {
			continue
		}

		target, ok := c.targetText(rec, res, cond)
		if !ok {
			// a rule scoped to an absent section cannot be evaluated
			continue
		}

		if is := c.apply(r, cond, target, res); is != nil {
			issues = append(issues, *is)
		}
	}

	return issues
}

// targetText resolves the text a condition applies to: a named section or
// the whole document.
func (c *ContentRuleChecker) targetText(rec *record.ClinicalRecord, res *nlp.Result, cond *rule.Condition) (string, bool) {
	if cond.Section == "" {
		if rec != nil {
			return rec.Content, true
		}
		return "", false
	}
	s, ok := res.Section(nlp.SectionName(cond.Section))
	if !ok {
		return "", false
	}
	return s.Content, true
}

func (c *ContentRuleChecker) apply(r *rule.Rule, cond *rule.Condition, target string, res *nlp.Result) *Issue {
	switch cond.Kind {
	case rule.CondMustContainEntity:
		count := 0
		for _, e := range res.Entities {
			if string(e.Type) == cond.EntityType && (cond.Section == "" || strings.Contains(target, e.Text)) {
				count++
			}
		}
		if count < cond.MinCount {
			return c.issue(r, fmt.Sprintf("应包含至少 %d 个 %s 类实体，实际 %d 个",
				cond.MinCount, cond.EntityType, count))
		}
	case rule.CondMustContainDuration:
		if !durationPattern.MatchString(target) {
			return c.issue(r, "缺少病程时长描述（如“3天”“两周”）")
		}
	case rule.CondMustNotBeGeneric:
		for _, phrase := range cond.Phrases {
			if phrase != "" && strings.Contains(target, phrase) {
				return c.issue(r, fmt.Sprintf("包含模板化表述 %q", phrase))
			}
		}
	}
	return nil
}

func (c *ContentRuleChecker) issue(r *rule.Rule, msg string) *Issue {
	sev := Severity(r.Severity)
	if sev != SeverityMinor && sev != SeverityMajor && sev != SeverityCritical {
		sev = SeverityMinor
	}
	return &Issue{
		Type:       c.Name(),
		Severity:   sev,
		Message:    fmt.Sprintf("%s：%s", r.Name, msg),
		Suggestion: "按照质控规则要求修改病历内容",
		RuleID:     r.RuleID,
	}
}
