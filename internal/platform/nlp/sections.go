package nlp

import (
	"strings"
	"unicode/utf8"
)

// sectionKeyword pairs a section name with one of its anchor keywords.
// Kept as an ordered slice so matching is deterministic; longer keywords
// come before their shorter variants.
type sectionKeyword struct {
	name    SectionName
	keyword string
}

var sectionKeywords = []sectionKeyword{
	{SectionChiefComplaint, "主诉"},
	{SectionPresentIllness, "现病史"},
	{SectionPastHistory, "既往史"},
	{SectionPersonalHistory, "个人史"},
	{SectionFamilyHistory, "家族史"},
	{SectionAllergyHistory, "过敏史"},
	{SectionAllergyHistory, "药物过敏史"},
	{SectionPhysicalExam, "体格检查"},
	{SectionPhysicalExam, "查体"},
	{SectionAuxiliaryExam, "辅助检查"},
	{SectionAuxiliaryExam, "实验室检查"},
	{SectionDiagnosis, "入院诊断"},
	{SectionDiagnosis, "出院诊断"},
	{SectionDiagnosis, "初步诊断"},
	{SectionDiagnosis, "诊断"},
	{SectionTreatmentPlan, "诊疗计划"},
	{SectionTreatmentPlan, "治疗计划"},
	{SectionTreatmentPlan, "治疗方案"},
	{SectionTreatmentPlan, "处理意见"},
	{SectionWardRound, "查房记录"},
	{SectionSurgicalRecord, "手术记录"},
	{SectionSurgicalRecord, "手术经过"},
	{SectionMedicationRecord, "用药记录"},
	{SectionMedicationRecord, "医嘱"},
	{SectionNursingRecord, "护理记录"},
	{SectionProgressNote, "病程记录"},
	{SectionDischargeSummary, "出院小结"},
	{SectionDischargeSummary, "出院记录"},
	{SectionConsultation, "会诊记录"},
	{SectionConsultation, "会诊意见"},
}

// anchorDelimiters are the characters that may terminate a section title.
var anchorDelimiters = []string{"：", ":", "——", "—", "－", "-"}

// maxAnchorLineRunes is the longest a line can be and still count as a
// section title.
const maxAnchorLineRunes = 100

// fallbackPenalty scales positional-fallback confidence so it always stays
// below anchor-based confidence for a document with the same section count.
const fallbackPenalty = 0.5

// Indexer splits raw clinical text into named sections. It holds no
// mutable state and is safe for concurrent use.
type Indexer struct{}

// NewIndexer creates a section indexer.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// Index returns the section map for text and a confidence in [0,1].
// Empty input yields an empty map with confidence 0.
func (ix *Indexer) Index(text string) (map[SectionName]Section, float64) {
	sections := map[SectionName]Section{}
	if strings.TrimSpace(text) == "" {
		return sections, 0
	}

	type openSection struct {
		name  SectionName
		start int
		parts []string
	}

	var cur *openSection
	anchored := false

	closeCurrent := func(end int) {
		if cur == nil {
			return
		}
		content := strings.TrimSpace(strings.Join(cur.parts, "\n"))
		// First anchor for a name wins; a repeated anchor does not
		// overwrite an already-emitted section.
		if _, exists := sections[cur.name]; !exists {
			sections[cur.name] = Section{
				Name:    cur.name,
				Content: content,
				Start:   cur.start,
				End:     end,
			}
		}
		cur = nil
	}

	offset := 0
	for _, line := range strings.Split(text, "\n") {
		lineStart := offset
		offset += len(line) + 1 // keep byte offsets, +1 for the newline

		if name, inline, ok := matchStrongAnchor(line); ok {
			closeCurrent(lineStart)
			anchored = true
			cur = &openSection{name: name, start: lineStart}
			if inline != "" {
				cur.parts = append(cur.parts, inline)
			}
			continue
		}
		if name, ok := matchWeakAnchor(line); ok {
			closeCurrent(lineStart)
			anchored = true
			cur = &openSection{name: name, start: lineStart}
			continue
		}
		if cur != nil {
			cur.parts = append(cur.parts, line)
		}
	}
	closeCurrent(len(text))

	if !anchored {
		return ix.fallback(text)
	}

	conf := float64(len(sections)) / sectionNameCount
	if conf > 1 {
		conf = 1
	}
	return sections, conf
}

// fallback treats anchor-free text as an undifferentiated narrative
// partitioned by paragraph boundaries. Its confidence is strictly lower
// than what an anchor-based parse of the same document would yield.
func (ix *Indexer) fallback(text string) (map[SectionName]Section, float64) {
	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	if paragraphs == 0 {
		paragraphs = 1
	}

	sections := map[SectionName]Section{
		SectionNarrative: {
			Name:    SectionNarrative,
			Content: strings.TrimSpace(text),
			Start:   0,
			End:     len(text),
		},
	}

	conf := float64(paragraphs) / sectionNameCount
	if conf > 1 {
		conf = 1
	}
	return sections, conf * fallbackPenalty
}

// matchStrongAnchor reports whether line is a section title with a trailing
// delimiter, returning any inline content after the delimiter.
func matchStrongAnchor(line string) (SectionName, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) >= maxAnchorLineRunes {
		return "", "", false
	}
	for _, sk := range sectionKeywords {
		idx := strings.Index(trimmed, sk.keyword)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(trimmed[idx+len(sk.keyword):], " \t")
		for _, d := range anchorDelimiters {
			if strings.HasPrefix(rest, d) {
				inline := strings.TrimSpace(strings.TrimPrefix(rest, d))
				return sk.name, inline, true
			}
		}
	}
	return "", "", false
}

// matchWeakAnchor reports whether line is exactly a section keyword.
func matchWeakAnchor(line string) (SectionName, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	for _, sk := range sectionKeywords {
		if trimmed == sk.keyword {
			return sk.name, true
		}
	}
	return "", false
}
