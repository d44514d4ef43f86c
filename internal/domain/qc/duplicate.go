package qc

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/domain/rule"
	"github.com/medqc/medqc/internal/platform/nlp"
)

const (
	// minDuplicateRunes excludes short sections from comparison.
	minDuplicateRunes = 20
	majorSimilarity   = 0.9
	minorSimilarity   = 0.7
)

// DuplicateChecker flags pairs of sections with near-identical content,
// measured by Jaccard similarity over rune bigrams.
type DuplicateChecker struct{}

// NewDuplicateChecker creates a duplicate content checker.
func NewDuplicateChecker() *DuplicateChecker {
	return &DuplicateChecker{}
}

func (c *DuplicateChecker) Name() string { return "duplicate" }

func (c *DuplicateChecker) Check(_ *record.ClinicalRecord, res *nlp.Result, _ []*rule.Rule) []Issue {
	var issues []Issue
	if res == nil || len(res.Sections) < 2 {
		return issues
	}

	var names []nlp.SectionName
	for name, s := range res.Sections {
		if utf8.RuneCountInString(s.Content) >= minDuplicateRunes {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := res.Sections[names[i]], res.Sections[names[j]]
			sim := bigramJaccard(a.Content, b.Content)
			switch {
			case sim > majorSimilarity:
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMajor,
					Message:    fmt.Sprintf("章节 %s 与 %s 内容高度重复（相似度 %.0f%%）", names[i], names[j], sim*100),
					Suggestion: "删除重复内容，按章节职责分别记录",
				})
			case sim > minorSimilarity:
				issues = append(issues, Issue{
					Type:       c.Name(),
					Severity:   SeverityMinor,
					Message:    fmt.Sprintf("章节 %s 与 %s 内容相似（相似度 %.0f%%）", names[i], names[j], sim*100),
					Suggestion: "检查章节内容是否存在复制粘贴",
				})
			}
		}
	}

	return issues
}

// bigramJaccard computes Jaccard similarity between the rune-bigram sets
// of two strings. Symmetric by construction.
func bigramJaccard(a, b string) float64 {
	setA, setB := bigrams(a), bigrams(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for g := range setA {
		if setB[g] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func bigrams(s string) map[string]bool {
	runes := []rune(s)
	out := map[string]bool{}
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])] = true
	}
	return out
}
