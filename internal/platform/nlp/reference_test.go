package nlp

import (
	"testing"

	"github.com/medqc/medqc/internal/platform/knowledge"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(knowledge.NewReferenceStore(nil, nil))
}

func TestNormalizer_FillsRangeAndUnit(t *testing.T) {
	n := newTestNormalizer()
	indicators := []Indicator{{Name: "心率", Value: "75"}}

	frac := n.Normalize(indicators)

	if frac != 1 {
		t.Errorf("fraction = %f, want 1", frac)
	}
	if indicators[0].ReferenceRange != "60-100" {
		t.Errorf("range = %q, want 60-100", indicators[0].ReferenceRange)
	}
	if indicators[0].Unit != "次/分" {
		t.Errorf("unit = %q, want 次/分", indicators[0].Unit)
	}
	if indicators[0].IsAbnormal {
		t.Error("75 within 60-100 should not be abnormal")
	}
}

func TestNormalizer_RegradesFromRange(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name     string
		value    string
		severity Severity
	}{
		{"critical tachycardia", "150", SeverityCritical},
		{"mild tachycardia", "110", SeverityMajor},
		{"normal", "80", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicators := []Indicator{{Name: "心率", Value: tt.value}}
			n.Normalize(indicators)
			if indicators[0].Severity != tt.severity {
				t.Errorf("severity = %q, want %q", indicators[0].Severity, tt.severity)
			}
		})
	}
}

func TestNormalizer_NeverSoftensExtractorGrade(t *testing.T) {
	n := newTestNormalizer()
	// The extractor graded per component; a normal mean must not clear it.
	indicators := []Indicator{{
		Name: "血糖", Value: "8.0",
		IsAbnormal: true, Severity: SeverityCritical,
	}}
	n.Normalize(indicators)
	if indicators[0].Severity != SeverityCritical {
		t.Errorf("severity softened to %q", indicators[0].Severity)
	}
	if !indicators[0].IsAbnormal {
		t.Error("abnormal flag cleared")
	}
}

func TestNormalizer_UnitAliases(t *testing.T) {
	n := newTestNormalizer()
	indicators := []Indicator{
		{Name: "体温", Value: "36.8", Unit: "°c", ReferenceRange: "36-37.3"},
	}
	n.Normalize(indicators)
	if indicators[0].Unit != "℃" {
		t.Errorf("unit = %q, want ℃", indicators[0].Unit)
	}
}

func TestNormalizer_UnknownIndicator(t *testing.T) {
	n := newTestNormalizer()
	indicators := []Indicator{
		{Name: "血压", Value: "120/80"},
		{Name: "心率", Value: "75"},
	}
	frac := n.Normalize(indicators)
	if frac != 0.5 {
		t.Errorf("fraction = %f, want 0.5", frac)
	}
	if indicators[0].ReferenceRange != "" {
		t.Errorf("composite indicator gained range %q from missing table entry", indicators[0].ReferenceRange)
	}
}

func TestNormalizer_EmptySlice(t *testing.T) {
	if frac := newTestNormalizer().Normalize(nil); frac != 1 {
		t.Errorf("Normalize(nil) = %f, want 1", frac)
	}
}

func TestParseIndicatorValue(t *testing.T) {
	tests := []struct {
		value  string
		want   float64
		wantOK bool
	}{
		{"75", 75, true},
		{" 36.8 ", 36.8, true},
		{"120/80", 100, true},
		{"3.9-6.1", 5, true},
		{"阴性", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseIndicatorValue(tt.value)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseIndicatorValue(%q) = (%f, %v), want (%f, %v)", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}
