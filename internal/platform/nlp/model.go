package nlp

// SectionName identifies one of the named clinical document sections.
type SectionName string

const (
	SectionChiefComplaint   SectionName = "chief_complaint"
	SectionPresentIllness   SectionName = "present_illness"
	SectionPastHistory      SectionName = "past_history"
	SectionPersonalHistory  SectionName = "personal_history"
	SectionFamilyHistory    SectionName = "family_history"
	SectionAllergyHistory   SectionName = "allergy_history"
	SectionPhysicalExam     SectionName = "physical_exam"
	SectionAuxiliaryExam    SectionName = "auxiliary_exam"
	SectionDiagnosis        SectionName = "diagnosis"
	SectionTreatmentPlan    SectionName = "treatment_plan"
	SectionWardRound        SectionName = "ward_round"
	SectionSurgicalRecord   SectionName = "surgical_record"
	SectionMedicationRecord SectionName = "medication_record"
	SectionNursingRecord    SectionName = "nursing_record"
	SectionProgressNote     SectionName = "progress_note"
	SectionDischargeSummary SectionName = "discharge_summary"
	SectionConsultation     SectionName = "consultation"
	SectionNarrative        SectionName = "narrative"
)

// sectionNameCount is the number of distinct named sections the indexer can
// produce; the indexer confidence is normalized against it.
const sectionNameCount = 18

// Section is a named, contiguous span of a clinical document.
type Section struct {
	Name    SectionName `json:"name"`
	Content string      `json:"content"`
	Start   int         `json:"start"`
	End     int         `json:"end"`
}

// EntityType categorizes an extracted entity span.
type EntityType string

const (
	EntityMedication EntityType = "medication"
	EntityDiagnosis  EntityType = "diagnosis"
	EntityLabResult  EntityType = "lab_result"
	EntityProcedure  EntityType = "procedure"
	EntitySymptom    EntityType = "symptom"
	EntityVitalSign  EntityType = "vital_sign"
	EntityOther      EntityType = "other"
)

// Entity is a span of text tagged with a domain category. Entities may
// overlap; no dedup is guaranteed across keyword variants.
type Entity struct {
	Text       string     `json:"text"`
	Type       EntityType `json:"type"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
}

// Severity grades how far a value or issue deviates from normal.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Indicator is a quantified clinical measurement. Value may be a plain
// numeric string or an "a/b" composite (blood pressure). The reference
// normalizer is the only stage that mutates indicators in place.
type Indicator struct {
	Name           string   `json:"name"`
	Value          string   `json:"value"`
	Unit           string   `json:"unit,omitempty"`
	ReferenceRange string   `json:"reference_range,omitempty"`
	IsAbnormal     bool     `json:"is_abnormal"`
	Severity       Severity `json:"severity,omitempty"`
}

// SymptomMatch is one occurrence of a vocabulary symptom in the text.
type SymptomMatch struct {
	CanonicalName string `json:"canonical_name"`
	MatchedAlias  string `json:"matched_alias"`
	BodyPart      string `json:"body_part,omitempty"`
	Category      string `json:"category,omitempty"`
	Position      int    `json:"position"`
}

// Relationship links two extracted entities (e.g. medication treats
// diagnosis). Produced opportunistically; consumers must tolerate absence.
type Relationship struct {
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
	Type       string `json:"type"`
}

// BreakpointKind tags the origin of a detected breakpoint.
type BreakpointKind string

const (
	BreakSectionBoundary BreakpointKind = "section_boundary"
	BreakLogical         BreakpointKind = "logical_break"
	BreakEmphasis        BreakpointKind = "emphasis_mark"
)

// Breakpoint marks a byte offset where the document shifts topic or
// emphasis. Breakpoints at identical offsets collapse to one.
type Breakpoint struct {
	Offset int            `json:"offset"`
	Kind   BreakpointKind `json:"kind"`
	Marker string         `json:"marker,omitempty"`
}

// ValidationIssue flags an indicator value outside physiological
// plausibility bounds. Indicators are never discarded, only flagged.
type ValidationIssue struct {
	Indicator string `json:"indicator"`
	Message   string `json:"message"`
	Level     string `json:"level"` // "warning" or "error"
}

// StageError records a pipeline stage failure. The failed stage's
// confidence contribution is omitted from the product.
type StageError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Level   string `json:"level"` // "warning" or "error"
}

// Result is the structured output of a full pipeline run over one
// document. Confidence is the product of all successful stage
// confidences, in [0,1].
type Result struct {
	Sections         map[SectionName]Section `json:"sections"`
	Indicators       []Indicator             `json:"indicators"`
	Entities         []Entity                `json:"entities"`
	SymptomMatches   []SymptomMatch          `json:"symptom_matches"`
	Relationships    []Relationship          `json:"relationships"`
	Breakpoints      []Breakpoint            `json:"breakpoints"`
	ValidationIssues []ValidationIssue       `json:"validation_issues"`
	Errors           []StageError            `json:"errors,omitempty"`
	Confidence       float64                 `json:"confidence"`
}

// EmptyResult returns a zero-confidence result with initialized maps, used
// when the pipeline fails outright.
func EmptyResult() *Result {
	return &Result{
		Sections:   map[SectionName]Section{},
		Confidence: 0,
	}
}

// Section returns the named section and whether it exists.
func (r *Result) Section(name SectionName) (Section, bool) {
	s, ok := r.Sections[name]
	return s, ok
}

// EntitiesOfType filters entities by type.
func (r *Result) EntitiesOfType(t EntityType) []Entity {
	var out []Entity
	for _, e := range r.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// IndicatorByName returns the first indicator with the given name.
func (r *Result) IndicatorByName(name string) (Indicator, bool) {
	for _, ind := range r.Indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return Indicator{}, false
}
