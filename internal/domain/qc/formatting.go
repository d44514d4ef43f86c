package qc

import (
	"fmt"
	"strings"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

const (
	maxIndentRatio = 0.5
	maxBlankRatio  = 0.3
)

// disallowedChars are characters that must not appear in a clinical
// document (control characters are checked separately).
var disallowedChars = []rune{'\uFFFD', '\x00', '\u200b'}

// FormattingChecker verifies document layout: indentation, blank lines,
// heading style, units and character set.
type FormattingChecker struct{}

// NewFormattingChecker creates a formatting checker.
func NewFormattingChecker() *FormattingChecker {
	return &FormattingChecker{}
}

func (c *FormattingChecker) Name() string { return "formatting" }

func (c *FormattingChecker) Check(rec *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if rec == nil || rec.Content == "" {
		return issues
	}

	lines := strings.Split(rec.Content, "\n")
	indented, blank := 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "　") {
			indented++
		}
	}

	if n := len(lines); n > 0 {
		if ratio := float64(indented) / float64(n); ratio > maxIndentRatio {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("缩进行占比过高（%.0f%%）", ratio*100),
				Suggestion: "统一段落缩进格式",
			})
		}
		if ratio := float64(blank) / float64(n); ratio > maxBlankRatio {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("空行占比过高（%.0f%%）", ratio*100),
				Suggestion: "删除多余空行",
			})
		}
	}

	if strings.Contains(rec.Content, "：") && strings.Contains(rec.Content, ": ") {
		issues = append(issues, Issue{
			Type:       c.Name(),
			Severity:   SeverityMinor,
			Message:    "标题分隔符混用全角与半角冒号",
			Suggestion: "统一使用全角冒号",
		})
	}

	if res != nil {
		for _, ind := range res.Indicators {
			if ind.Unit == "" {
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMinor,
					Message:    fmt.Sprintf("指标 %s 缺少单位", ind.Name),
					Suggestion: "为检验检查指标补充计量单位",
				})
			}
		}
	}

	for _, r := range rec.Content {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    "病历包含非法控制字符",
				Suggestion: "清除文档中的控制字符",
			})
			break
		}
	}
	for _, bad := range disallowedChars {
		if strings.ContainsRune(rec.Content, bad) {
			issues = append(issues, Issue{
				Type:       c.Name(),
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("病历包含非法字符 %q", bad),
				Suggestion: "清除文档中的非法字符",
			})
			break
		}
	}

	return issues
}
