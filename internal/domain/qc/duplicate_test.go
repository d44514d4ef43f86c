package qc

import (
	"strings"
	"testing"

	"github.com/medqc/medqc/internal/platform/nlp"
)

func TestDuplicate_IdenticalSections(t *testing.T) {
	c := NewDuplicateChecker()
	text := "患者神志清楚，精神可，诉腹痛较前缓解，继续目前治疗方案观察病情变化。"
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionWardRound] = nlp.Section{Name: nlp.SectionWardRound, Content: text}
	res.Sections[nlp.SectionProgressNote] = nlp.Section{Name: nlp.SectionProgressNote, Content: text}

	issues := c.Check(nil, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityMajor {
		t.Fatalf("expected one major issue, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "高度重复") {
		t.Errorf("unexpected message: %q", issues[0].Message)
	}
}

func TestDuplicate_SimilarSections(t *testing.T) {
	c := NewDuplicateChecker()
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionWardRound] = nlp.Section{
		Name:    nlp.SectionWardRound,
		Content: "患者神志清楚，精神状态良好，诉腹痛较前明显缓解，无发热恶心呕吐，继续观察。",
	}
	res.Sections[nlp.SectionProgressNote] = nlp.Section{
		Name:    nlp.SectionProgressNote,
		Content: "患者神志清楚，精神状态良好，诉腹痛较前明显缓解，无发热恶心呕吐，明日复查。",
	}

	issues := c.Check(nil, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityMinor {
		t.Fatalf("expected one minor issue, got %v", issues)
	}
}

func TestDuplicate_DistinctSections(t *testing.T) {
	c := NewDuplicateChecker()
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionChiefComplaint] = nlp.Section{
		Name:    nlp.SectionChiefComplaint,
		Content: "发热三天，咳嗽两天，伴全身乏力不适，进食减少明显。",
	}
	res.Sections[nlp.SectionTreatmentPlan] = nlp.Section{
		Name:    nlp.SectionTreatmentPlan,
		Content: "完善血常规胸片等检查，经验性抗感染治疗，监测体温变化。",
	}

	if issues := c.Check(nil, res, nil); len(issues) != 0 {
		t.Errorf("distinct sections flagged: %v", issues)
	}
}

func TestDuplicate_ShortSectionsIgnored(t *testing.T) {
	c := NewDuplicateChecker()
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionChiefComplaint] = nlp.Section{Name: nlp.SectionChiefComplaint, Content: "发热三天"}
	res.Sections[nlp.SectionDiagnosis] = nlp.Section{Name: nlp.SectionDiagnosis, Content: "发热三天"}

	if issues := c.Check(nil, res, nil); len(issues) != 0 {
		t.Errorf("short identical sections flagged: %v", issues)
	}
}

func TestBigramJaccard(t *testing.T) {
	if sim := bigramJaccard("腹痛缓解", "腹痛缓解"); sim != 1 {
		t.Errorf("identical strings similarity = %f, want 1", sim)
	}
	if sim := bigramJaccard("腹痛缓解", "头晕发热"); sim != 0 {
		t.Errorf("disjoint strings similarity = %f, want 0", sim)
	}
	if sim := bigramJaccard("", "腹痛"); sim != 0 {
		t.Errorf("empty string similarity = %f, want 0", sim)
	}
	a, b := "患者腹痛缓解明显", "患者腹痛加重明显"
	if sim := bigramJaccard(a, b); sim <= 0 || sim >= 1 {
		t.Errorf("partial overlap similarity = %f, want in (0,1)", sim)
	}
	if bigramJaccard(a, b) != bigramJaccard(b, a) {
		t.Error("similarity not symmetric")
	}
}
