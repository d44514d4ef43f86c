package nlp

import (
	"strconv"
	"strings"

	"github.com/medqc/medqc/internal/platform/knowledge"
)

// ReferenceLookup is the read API of the reference-range knowledge table.
type ReferenceLookup interface {
	Lookup(name string) (knowledge.ReferenceRange, bool)
	NormalizeUnit(unit string) string
}

// Normalizer fills missing reference ranges and units on indicators from
// the knowledge table and recomputes abnormality. It is the only pipeline
// stage that mutates its input slice in place.
type Normalizer struct {
	refs ReferenceLookup
}

// NewNormalizer creates a reference normalizer over the given table.
func NewNormalizer(refs ReferenceLookup) *Normalizer {
	return &Normalizer{refs: refs}
}

// Normalize fills units and reference ranges in place and returns the
// fraction of indicators that end up with a reference range.
func (n *Normalizer) Normalize(indicators []Indicator) float64 {
	if len(indicators) == 0 {
		// vacuously complete: nothing required normalization
		return 1
	}

	withRange := 0
	for i := range indicators {
		ind := &indicators[i]

		if n.refs != nil {
			ind.Unit = n.refs.NormalizeUnit(ind.Unit)
		}

		if ind.ReferenceRange == "" && n.refs != nil {
			if ref, ok := n.refs.Lookup(ind.Name); ok {
				ind.ReferenceRange = ref.Range()
				if ind.Unit == "" {
					ind.Unit = ref.Unit
				}
				n.regrade(ind, ref)
			}
		}

		if ind.ReferenceRange != "" {
			withRange++
		}
	}

	return float64(withRange) / float64(len(indicators))
}

// regrade recomputes IsAbnormal and Severity from the filled range when the
// value parses to a number. Composite and range-form values are averaged
// before comparison; unparseable values are left as extracted.
func (n *Normalizer) regrade(ind *Indicator, ref knowledge.ReferenceRange) {
	v, ok := parseIndicatorValue(ind.Value)
	if !ok {
		return
	}
	sev := gradeValue(v, ref.Low, ref.High, ref.CriticalLow, ref.CriticalHigh)
	// Never soften a grade the extractor assigned from its own component
	// thresholds (blood pressure grades per component, not on the mean).
	ind.Severity = worseSeverity(ind.Severity, sev)
	ind.IsAbnormal = ind.IsAbnormal || sev != ""
}

// parseIndicatorValue parses a plain numeric value, or averages an "a/b"
// composite or "a-b" range string.
func parseIndicatorValue(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return v, true
	}

	for _, sep := range []string{"/", "-", "~", "—"} {
		parts := strings.SplitN(value, sep, 2)
		if len(parts) != 2 {
			continue
		}
		a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errA == nil && errB == nil {
			return (a + b) / 2, true
		}
	}

	return 0, false
}
