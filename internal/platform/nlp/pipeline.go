package nlp

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Pipeline sequences the document-to-structure stages. Every stage runs in
// a failure-isolated block: a panic inside one stage is recorded as a stage
// error and that stage's confidence contribution is omitted from the
// product, instead of aborting the run.
type Pipeline struct {
	indexer    *Indexer
	breaker    *Breaker
	extractor  *Extractor
	matcher    *Matcher
	normalizer *Normalizer
	validator  *Validator
	log        zerolog.Logger
}

// NewPipeline wires the six stages over the injected knowledge stores.
func NewPipeline(vocab SymptomVocabulary, refs ReferenceLookup, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		indexer:    NewIndexer(),
		breaker:    NewBreaker(),
		extractor:  NewExtractor(vocab),
		matcher:    NewMatcher(vocab),
		normalizer: NewNormalizer(refs),
		validator:  NewValidator(),
		log:        log,
	}
}

// Run executes the full pipeline over text. It never panics outward: a
// total failure yields an empty result with confidence 0.
func (p *Pipeline) Run(text string) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("pipeline failed outright")
			result = EmptyResult()
		}
	}()

	result = EmptyResult()
	confidence := 1.0

	// 1. section indexing
	ok := p.stage(result, "section_index", "error", func() {
		sections, conf := p.indexer.Index(text)
		result.Sections = sections
		confidence *= conf
	})

	// 2. breakpoint detection
	p.stage(result, "circuit_break", "warning", func() {
		sections, points, conf := p.breaker.Detect(text, result.Sections)
		result.Sections = sections
		result.Breakpoints = points
		confidence *= conf
	})

	// 3. metric / entity extraction
	p.stage(result, "metric_extract", "warning", func() {
		indicators, entities, conf := p.extractor.Extract(text)
		result.Indicators = indicators
		result.Entities = entities
		confidence *= conf
	})

	// 4. symptom matching, independent of extraction
	p.stage(result, "symptom_match", "warning", func() {
		result.SymptomMatches = p.matcher.Match(text)
	})

	// 5. reference normalization
	p.stage(result, "reference_normalize", "warning", func() {
		conf := p.normalizer.Normalize(result.Indicators)
		confidence *= conf
	})

	// 6. validation
	p.stage(result, "validate", "error", func() {
		result.ValidationIssues = p.validator.Validate(result.Indicators)
	})

	p.stage(result, "relationships", "warning", func() {
		result.Relationships = deriveRelationships(result)
	})

	if !ok && len(result.Sections) == 0 {
		confidence = 0
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	result.Confidence = confidence
	return result
}

// stage runs fn with panic isolation. On panic it appends a StageError at
// the given level and reports false; the confidence closure is never
// applied for a failed stage because fn aborts before the multiply.
func (p *Pipeline) stage(result *Result, name, level string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Debug().Str("stage", name).Interface("panic", r).Msg("pipeline stage failed")
			result.Errors = append(result.Errors, StageError{
				Stage:   name,
				Message: fmt.Sprintf("%v", r),
				Level:   level,
			})
			ok = false
		}
	}()
	fn()
	return true
}

// deriveRelationships links co-occurring entities: each diagnosis to the
// symptoms in the document, and each medication to each diagnosis.
func deriveRelationships(result *Result) []Relationship {
	var out []Relationship

	diagnoses := dedupeTexts(result.EntitiesOfType(EntityDiagnosis))
	medications := dedupeTexts(result.EntitiesOfType(EntityMedication))

	seen := map[string]bool{}
	for _, m := range result.SymptomMatches {
		for _, d := range diagnoses {
			key := d + "|" + m.CanonicalName
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Relationship{SourceText: d, TargetText: m.CanonicalName, Type: "associated_symptom"})
		}
	}
	for _, med := range medications {
		for _, d := range diagnoses {
			out = append(out, Relationship{SourceText: med, TargetText: d, Type: "treats"})
		}
	}
	return out
}

func dedupeTexts(entities []Entity) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range entities {
		if !seen[e.Text] {
			seen[e.Text] = true
			out = append(out, e.Text)
		}
	}
	return out
}
