package qc

import (
	"strings"
	"testing"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/platform/nlp"
)

func formatIssueMessages(issues []Issue) []string {
	var out []string
	for _, is := range issues {
		out = append(out, is.Message)
	}
	return out
}

func TestFormatting_CleanDocument(t *testing.T) {
	c := NewFormattingChecker()
	rec := &record.ClinicalRecord{Content: "主诉：发热三天。\n现病史：患者三天前出现发热。"}

	if issues := c.Check(rec, nil, nil); len(issues) != 0 {
		t.Errorf("clean document produced issues: %v", issues)
	}
}

func TestFormatting_MixedColons(t *testing.T) {
	c := NewFormattingChecker()
	rec := &record.ClinicalRecord{Content: "主诉：发热。\n既往史: 体健。"}

	issues := c.Check(rec, nil, nil)

	found := false
	for _, is := range issues {
		if strings.Contains(is.Message, "冒号") {
			found = true
		}
	}
	if !found {
		t.Errorf("mixed colons not flagged: %v", formatIssueMessages(issues))
	}
}

func TestFormatting_ExcessiveBlankLines(t *testing.T) {
	c := NewFormattingChecker()
	rec := &record.ClinicalRecord{Content: "第一行\n\n\n\n第二行"}

	issues := c.Check(rec, nil, nil)

	found := false
	for _, is := range issues {
		if strings.Contains(is.Message, "空行") {
			found = true
		}
	}
	if !found {
		t.Errorf("blank lines not flagged: %v", formatIssueMessages(issues))
	}
}

func TestFormatting_ExcessiveIndentation(t *testing.T) {
	c := NewFormattingChecker()
	rec := &record.ClinicalRecord{Content: "　缩进一\n　缩进二\n　缩进三\n正常行"}

	issues := c.Check(rec, nil, nil)

	found := false
	for _, is := range issues {
		if strings.Contains(is.Message, "缩进") {
			found = true
		}
	}
	if !found {
		t.Errorf("indentation not flagged: %v", formatIssueMessages(issues))
	}
}

func TestFormatting_MissingUnit(t *testing.T) {
	c := NewFormattingChecker()
	rec := &record.ClinicalRecord{Content: "心率记录"}
	res := nlp.EmptyResult()
	res.Indicators = []nlp.Indicator{
		{Name: "心率", Value: "75"},
		{Name: "体温", Value: "36.8", Unit: "℃"},
	}

	issues := c.Check(rec, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityMinor {
		t.Fatalf("expected one minor issue, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "心率") {
		t.Errorf("unexpected message: %q", issues[0].Message)
	}
}

func TestFormatting_IllegalCharacters(t *testing.T) {
	c := NewFormattingChecker()
	tests := []struct {
		name    string
		content string
		keyword string
	}{
		{"control char", "记录\x07内容", "控制字符"},
		{"replacement char", "记录�内容", "非法字符"},
		{"zero width space", "记录​内容", "非法字符"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &record.ClinicalRecord{Content: tt.content}
			issues := c.Check(rec, nil, nil)
			found := false
			for _, is := range issues {
				if strings.Contains(is.Message, tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("%q not flagged: %v", tt.content, formatIssueMessages(issues))
			}
		})
	}
}

func TestFormatting_EmptyContent(t *testing.T) {
	c := NewFormattingChecker()
	if issues := c.Check(&record.ClinicalRecord{}, nil, nil); len(issues) != 0 {
		t.Errorf("empty content produced issues: %v", issues)
	}
	if issues := c.Check(nil, nil, nil); len(issues) != 0 {
		t.Errorf("nil record produced issues: %v", issues)
	}
}
