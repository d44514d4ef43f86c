package nlp

import "sort"

// Matcher scans text against the symptom vocabulary, producing positioned
// matches for canonical names and aliases alike.
type Matcher struct {
	vocab SymptomVocabulary
}

// NewMatcher creates a symptom matcher over the given vocabulary.
func NewMatcher(vocab SymptomVocabulary) *Matcher {
	return &Matcher{vocab: vocab}
}

// Match returns one SymptomMatch per occurrence, sorted by position. A
// canonical name is never matched twice at the same position, but the same
// canonical name matching through different aliases at different positions
// yields distinct matches.
func (m *Matcher) Match(text string) []SymptomMatch {
	if text == "" || m.vocab == nil {
		return nil
	}

	type matchKey struct {
		canonical string
		position  int
	}
	seen := map[matchKey]bool{}
	var out []SymptomMatch

	add := func(canonical, alias, bodyPart, category string, pos int) {
		key := matchKey{canonical: canonical, position: pos}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, SymptomMatch{
			CanonicalName: canonical,
			MatchedAlias:  alias,
			BodyPart:      bodyPart,
			Category:      category,
			Position:      pos,
		})
	}

	for _, sym := range m.vocab.All() {
		for _, pos := range allIndexes(text, sym.Canonical) {
			add(sym.Canonical, sym.Canonical, sym.BodyPart, sym.Category, pos)
		}
		for _, alias := range sym.Aliases {
			if alias == "" {
				continue
			}
			for _, pos := range allIndexes(text, alias) {
				add(sym.Canonical, alias, sym.BodyPart, sym.Category, pos)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CanonicalName < out[j].CanonicalName
	})
	return out
}
