package qc

import "fmt"

// Report is the reviewer-facing summary built from a QC result.
type Report struct {
	Summary          string             `json:"summary"`
	IssuesByType     map[string][]Issue `json:"issues_by_type"`
	IssuesBySeverity map[Severity]int   `json:"issues_by_severity"`
	ScoreBreakdown   map[string]int     `json:"score_breakdown"`
	Recommendations  []string           `json:"recommendations"`
}

// GenerateReport renders a Report from an immutable QC result.
func GenerateReport(res *Result) *Report {
	r := &Report{
		IssuesByType:     map[string][]Issue{},
		IssuesBySeverity: map[Severity]int{},
		ScoreBreakdown:   map[string]int{},
	}
	if res == nil {
		r.Summary = "无质控结果"
		return r
	}

	for name, score := range res.Scores {
		r.ScoreBreakdown[name] = score
	}
	for _, is := range res.Issues {
		r.IssuesByType[is.Type] = append(r.IssuesByType[is.Type], is)
		r.IssuesBySeverity[is.Severity]++
	}

	r.Summary = fmt.Sprintf("质控得分 %d 分（%s），共发现 %d 个问题：严重 %d、重要 %d、轻微 %d",
		res.OverallScore, statusLabel(res.Status), len(res.Issues),
		r.IssuesBySeverity[SeverityCritical],
		r.IssuesBySeverity[SeverityMajor],
		r.IssuesBySeverity[SeverityMinor])

	seen := map[string]bool{}
	for _, is := range res.Issues {
		if is.Suggestion == "" || seen[is.Suggestion] {
			continue
		}
		seen[is.Suggestion] = true
		r.Recommendations = append(r.Recommendations, is.Suggestion)
	}

	return r
}

func statusLabel(s Status) string {
	switch s {
	case StatusPass:
		return "合格"
	case StatusPassWithWarning:
		return "合格但有警告"
	case StatusFail:
		return "不合格"
	default:
		return string(s)
	}
}
