package knowledge

import "strings"

// ContradictionPair names two diagnoses that cannot coexist in one record.
type ContradictionPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Reason string `json:"reason,omitempty"`
}

// ContradictionStore holds the contradictory-diagnosis pairs.
type ContradictionStore struct {
	pairs []ContradictionPair
}

// NewContradictionStore builds a store; nil loads the built-in pairs.
func NewContradictionStore(pairs []ContradictionPair) *ContradictionStore {
	if pairs == nil {
		pairs = defaultContradictions
	}
	return &ContradictionStore{pairs: pairs}
}

// Pairs returns all contradiction pairs.
func (s *ContradictionStore) Pairs() []ContradictionPair {
	return s.pairs
}

// Find returns the pair contradicted by the two diagnosis texts, or nil.
func (s *ContradictionStore) Find(diagA, diagB string) *ContradictionPair {
	for i := range s.pairs {
		p := &s.pairs[i]
		if (strings.Contains(diagA, p.A) && strings.Contains(diagB, p.B)) ||
			(strings.Contains(diagA, p.B) && strings.Contains(diagB, p.A)) {
			return p
		}
	}
	return nil
}

var defaultContradictions = []ContradictionPair{
	{A: "甲亢", B: "甲减", Reason: "甲状腺功能亢进与减退互斥"},
	{A: "低血压", B: "高血压", Reason: "血压状态互斥"},
	{A: "1型糖尿病", B: "2型糖尿病", Reason: "糖尿病分型互斥"},
	{A: "贫血", B: "红细胞增多症", Reason: "血红蛋白状态互斥"},
	{A: "甲状腺功能亢进", B: "甲状腺功能减退", Reason: "甲状腺功能状态互斥"},
	{A: "心动过速", B: "心动过缓", Reason: "心率状态互斥"},
}
