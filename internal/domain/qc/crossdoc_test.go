package qc

import (
	"strings"
	"testing"

	"github.com/medqc/medqc/internal/domain/record"
	"github.com/medqc/medqc/internal/platform/knowledge"
	"github.com/medqc/medqc/internal/platform/nlp"
)

func newCrossDocChecker() *CrossDocChecker {
	return NewCrossDocChecker(knowledge.NewSymptomStore(nil), knowledge.NewDrugStore(nil, nil))
}

func TestCrossDoc_ChiefComplaintUnsupported(t *testing.T) {
	c := newCrossDocChecker()
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionChiefComplaint] = nlp.Section{Name: nlp.SectionChiefComplaint, Content: "发热三天"}
	res.Sections[nlp.SectionPresentIllness] = nlp.Section{Name: nlp.SectionPresentIllness, Content: "患者自述腹部不适。"}
	res.SymptomMatches = []nlp.SymptomMatch{{CanonicalName: "发热", MatchedAlias: "发热", Position: 0}}

	issues := c.Check(nil, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityMajor {
		t.Fatalf("expected one major issue, got %v", issues)
	}
	if issues[0].RuleID != RuleCrossChiefHPI {
		t.Errorf("rule id = %q, want %q", issues[0].RuleID, RuleCrossChiefHPI)
	}
}

func TestCrossDoc_ChiefComplaintSupportedByAlias(t *testing.T) {
	c := newCrossDocChecker()
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionChiefComplaint] = nlp.Section{Name: nlp.SectionChiefComplaint, Content: "发热三天"}
	// present illness uses the colloquial alias, not the canonical name
	res.Sections[nlp.SectionPresentIllness] = nlp.Section{Name: nlp.SectionPresentIllness, Content: "患者三天前开始发烧。"}
	res.SymptomMatches = []nlp.SymptomMatch{{CanonicalName: "发热", MatchedAlias: "发热", Position: 0}}

	if issues := c.Check(nil, res, nil); len(issues) != 0 {
		t.Errorf("alias-supported symptom flagged: %v", issues)
	}
}

func TestCrossDoc_SurgeryDenialContradicted(t *testing.T) {
	c := newCrossDocChecker()
	content := "既往史：否认手术史。体格检查：腹部可见手术切口愈合瘢痕。"
	rec := &record.ClinicalRecord{Content: content}
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionPastHistory] = nlp.Section{Name: nlp.SectionPastHistory, Content: "否认手术史。"}

	issues := c.Check(rec, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityMajor {
		t.Fatalf("expected one major issue, got %v", issues)
	}
	if issues[0].RuleID != RuleCrossSurgeryHistory {
		t.Errorf("rule id = %q, want %q", issues[0].RuleID, RuleCrossSurgeryHistory)
	}
}

func TestCrossDoc_SurgeryDenialWithoutEvidence(t *testing.T) {
	c := newCrossDocChecker()
	rec := &record.ClinicalRecord{Content: "既往史：否认手术史。查体无特殊。"}
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionPastHistory] = nlp.Section{Name: nlp.SectionPastHistory, Content: "否认手术史。"}

	if issues := c.Check(rec, res, nil); len(issues) != 0 {
		t.Errorf("denial without evidence flagged: %v", issues)
	}
}

func TestCrossDoc_DrugAllergyDenialContradicted(t *testing.T) {
	c := newCrossDocChecker()
	content := "既往史：否认药物过敏史。辅助检查：患者诉青霉素过敏，皮试阳性。"
	rec := &record.ClinicalRecord{Content: content}
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionPastHistory] = nlp.Section{Name: nlp.SectionPastHistory, Content: "否认药物过敏史。"}

	issues := c.Check(rec, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical issue, got %v", issues)
	}
	if issues[0].RuleID != RuleCrossDrugAllergy {
		t.Errorf("rule id = %q, want %q", issues[0].RuleID, RuleCrossDrugAllergy)
	}
	if !strings.Contains(issues[0].Message, "青霉素") {
		t.Errorf("unexpected message: %q", issues[0].Message)
	}
}

func TestCrossDoc_DrugAllergyDenialWithFamilyDrugOrdered(t *testing.T) {
	c := newCrossDocChecker()
	// no explicit allergy wording near the drug: ordering a high-risk
	// family member at all contradicts the denied history
	content := "既往史：否认药物过敏史。诊疗计划：阿莫西林胶囊 0.5g 每日三次口服。"
	rec := &record.ClinicalRecord{Content: content}
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionPastHistory] = nlp.Section{Name: nlp.SectionPastHistory, Content: "否认药物过敏史。"}

	issues := c.Check(rec, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical issue, got %v", issues)
	}
	if issues[0].RuleID != RuleCrossDrugAllergy {
		t.Errorf("rule id = %q, want %q", issues[0].RuleID, RuleCrossDrugAllergy)
	}
	if !strings.Contains(issues[0].Message, "阿莫西林") {
		t.Errorf("unexpected message: %q", issues[0].Message)
	}
}

func TestCrossDoc_AllergyDenialInAllergySection(t *testing.T) {
	c := newCrossDocChecker()
	content := "药物过敏史：否认药物过敏。补充：对头孢曲松过敏。"
	rec := &record.ClinicalRecord{Content: content}
	res := nlp.EmptyResult()
	res.Sections[nlp.SectionAllergyHistory] = nlp.Section{Name: nlp.SectionAllergyHistory, Content: "否认药物过敏。"}

	issues := c.Check(rec, res, nil)

	if len(issues) != 1 || issues[0].Severity != SeverityCritical {
		t.Fatalf("expected one critical issue, got %v", issues)
	}
}

func TestCrossDoc_NilResult(t *testing.T) {
	if issues := newCrossDocChecker().Check(nil, nil, nil); len(issues) != 0 {
		t.Errorf("nil result produced issues: %v", issues)
	}
}
