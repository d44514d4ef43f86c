package nlp

import (
	"testing"

	"github.com/medqc/medqc/internal/platform/knowledge"
)

func TestExtractor_BloodPressure(t *testing.T) {
	e := NewExtractor(knowledge.NewSymptomStore(nil))
	tests := []struct {
		name     string
		text     string
		value    string
		severity Severity
		abnormal bool
	}{
		{"normal", "查体：血压120/80mmHg", "120/80", "", false},
		{"elevated systolic", "血压150/85mmHg", "150/85", SeverityMajor, true},
		{"critical systolic", "血压 200/60 mmHg", "200/60", SeverityCritical, true},
		{"critical diastolic", "血压130/120mmHg", "130/120", SeverityCritical, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicators, _, _ := e.Extract(tt.text)
			var bp *Indicator
			for i := range indicators {
				if indicators[i].Name == "血压" {
					bp = &indicators[i]
				}
			}
			if bp == nil {
				t.Fatalf("blood pressure not extracted from %q", tt.text)
			}
			if bp.Value != tt.value {
				t.Errorf("value = %q, want %q", bp.Value, tt.value)
			}
			if bp.Severity != tt.severity {
				t.Errorf("severity = %q, want %q", bp.Severity, tt.severity)
			}
			if bp.IsAbnormal != tt.abnormal {
				t.Errorf("abnormal = %v, want %v", bp.IsAbnormal, tt.abnormal)
			}
			if bp.Unit != "mmHg" {
				t.Errorf("unit = %q, want mmHg", bp.Unit)
			}
		})
	}
}

func TestExtractor_ScalarVitals(t *testing.T) {
	e := NewExtractor(knowledge.NewSymptomStore(nil))
	tests := []struct {
		name     string
		text     string
		vital    string
		severity Severity
	}{
		{"normal heart rate", "心率75次/分", "心率", ""},
		{"bradycardia", "心率55次/分", "心率", SeverityMajor},
		{"critical tachycardia", "心率150次/分", "心率", SeverityCritical},
		{"high fever", "体温40.0℃", "体温", SeverityCritical},
		{"low-grade fever", "体温38.2℃", "体温", SeverityMajor},
		{"hypoxia", "SpO2 88%", "血氧饱和度", SeverityCritical},
		{"hyperglycemia", "空腹血糖8.5mmol/L", "血糖", SeverityMajor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicators, _, _ := e.Extract(tt.text)
			var got *Indicator
			for i := range indicators {
				if indicators[i].Name == tt.vital {
					got = &indicators[i]
				}
			}
			if got == nil {
				t.Fatalf("%s not extracted from %q (got %v)", tt.vital, tt.text, indicators)
			}
			if got.Severity != tt.severity {
				t.Errorf("severity = %q, want %q", got.Severity, tt.severity)
			}
		})
	}
}

func TestExtractor_Entities(t *testing.T) {
	e := NewExtractor(knowledge.NewSymptomStore(nil))
	text := "患者因高血压入院，诉头痛，予硝苯地平口服，查肌酐正常。"

	_, entities, _ := e.Extract(text)

	wantTypes := map[string]EntityType{
		"高血压":  EntityDiagnosis,
		"头痛":   EntitySymptom,
		"硝苯地平": EntityMedication,
		"肌酐":   EntityLabResult,
	}
	for span, wantType := range wantTypes {
		found := false
		for _, ent := range entities {
			if ent.Text == span && ent.Type == wantType {
				found = true
				if ent.Confidence <= 0 || ent.Confidence > 1 {
					t.Errorf("%s confidence out of range: %f", span, ent.Confidence)
				}
			}
		}
		if !found {
			t.Errorf("entity %q (%s) not extracted", span, wantType)
		}
	}
}

func TestExtractor_VitalSignEntity(t *testing.T) {
	e := NewExtractor(knowledge.NewSymptomStore(nil))
	_, entities, _ := e.Extract("血压130/85mmHg")

	found := false
	for _, ent := range entities {
		if ent.Type == EntityVitalSign {
			found = true
			if ent.Confidence != vitalEntityConfidence {
				t.Errorf("vital entity confidence = %f, want %f", ent.Confidence, vitalEntityConfidence)
			}
		}
	}
	if !found {
		t.Error("vital sign entity not emitted")
	}
}

func TestExtractor_EmptyText(t *testing.T) {
	e := NewExtractor(knowledge.NewSymptomStore(nil))
	indicators, entities, conf := e.Extract("")
	if indicators != nil || entities != nil || conf != 0 {
		t.Errorf("Extract(\"\") = (%v, %v, %f), want empty", indicators, entities, conf)
	}
}

func TestGradeValue(t *testing.T) {
	tests := []struct {
		v    float64
		want Severity
	}{
		{100, ""},
		{139.9, ""},
		{150, SeverityMajor},
		{85, SeverityMajor},
		{200, SeverityCritical},
		{60, SeverityCritical},
	}
	for _, tt := range tests {
		if got := gradeValue(tt.v, 90, 140, 70, 160); got != tt.want {
			t.Errorf("gradeValue(%f) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestWorseSeverity(t *testing.T) {
	tests := []struct {
		a, b, want Severity
	}{
		{"", "", ""},
		{SeverityMinor, "", SeverityMinor},
		{SeverityMajor, SeverityCritical, SeverityCritical},
		{SeverityCritical, SeverityMajor, SeverityCritical},
	}
	for _, tt := range tests {
		if got := worseSeverity(tt.a, tt.b); got != tt.want {
			t.Errorf("worseSeverity(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
