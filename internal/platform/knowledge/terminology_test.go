package knowledge

import "testing"

func TestTerminologyStore_Lookup(t *testing.T) {
	s := NewTerminologyStore(nil)

	term := s.Lookup("高血压")
	if term == nil {
		t.Fatal("高血压 not in built-in table")
	}
	if term.ICDCode != "I10" {
		t.Errorf("icd = %q, want I10", term.ICDCode)
	}

	// alias and embedded mention both resolve
	if term := s.Lookup("心衰"); term == nil || term.StandardName != "心力衰竭" {
		t.Errorf("alias lookup = %+v", term)
	}
	if term := s.Lookup("急性心肌梗死（下壁）"); term == nil || term.StandardName != "心肌梗死" {
		t.Errorf("embedded lookup = %+v", term)
	}

	if s.Lookup("未收录疾病") != nil {
		t.Error("unknown term resolved")
	}
	if s.Lookup("") != nil {
		t.Error("empty term resolved")
	}
}

func TestTerminologyStore_SeriousDiagnoses(t *testing.T) {
	s := NewTerminologyStore(nil)
	serious := s.SeriousDiagnoses()
	if len(serious) == 0 {
		t.Fatal("no serious diagnoses in built-in table")
	}
	seen := map[string]bool{}
	for _, name := range serious {
		seen[name] = true
	}
	if !seen["心力衰竭"] || !seen["脑出血"] {
		t.Errorf("expected 心力衰竭 and 脑出血 flagged serious, got %v", serious)
	}
	if seen["高血压"] {
		t.Error("高血压 should not be serious")
	}
}
