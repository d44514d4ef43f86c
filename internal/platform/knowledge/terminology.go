package knowledge

import "strings"

// StandardTerm is a standardized diagnosis term with its ICD code.
type StandardTerm struct {
	StandardName string   `json:"standard_name"`
	ICDCode      string   `json:"icd_code"`
	Aliases      []string `json:"aliases,omitempty"`
	Serious      bool     `json:"serious"`
}

// TerminologyStore resolves free-text diagnosis terms against the standard
// terminology table. Read-only after construction.
type TerminologyStore struct {
	terms []StandardTerm
}

// NewTerminologyStore builds a store; nil loads the built-in table.
func NewTerminologyStore(terms []StandardTerm) *TerminologyStore {
	if terms == nil {
		terms = defaultTerms
	}
	return &TerminologyStore{terms: terms}
}

// Lookup returns the standard term whose name or alias appears in term,
// or nil when nothing matches.
func (s *TerminologyStore) Lookup(term string) *StandardTerm {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	for i := range s.terms {
		t := &s.terms[i]
		if strings.Contains(term, t.StandardName) {
			return t
		}
		for _, a := range t.Aliases {
			if a != "" && strings.Contains(term, a) {
				return t
			}
		}
	}
	return nil
}

// SeriousDiagnoses returns the standard names flagged as serious.
func (s *TerminologyStore) SeriousDiagnoses() []string {
	var out []string
	for i := range s.terms {
		if s.terms[i].Serious {
			out = append(out, s.terms[i].StandardName)
		}
	}
	return out
}

// defaultTerms carries the disease list and ICD codes from the hospital
// knowledge base.
var defaultTerms = []StandardTerm{
	{StandardName: "高血压", ICDCode: "I10", Aliases: []string{"高血压病"}},
	{StandardName: "2型糖尿病", ICDCode: "E11", Aliases: []string{"糖尿病", "II型糖尿病"}},
	{StandardName: "冠心病", ICDCode: "I25", Aliases: []string{"冠状动脉粥样硬化性心脏病"}},
	{StandardName: "心力衰竭", ICDCode: "I50", Aliases: []string{"心衰"}, Serious: true},
	{StandardName: "房颤", ICDCode: "I48", Aliases: []string{"心房颤动"}},
	{StandardName: "脑梗死", ICDCode: "I63", Aliases: []string{"脑梗塞", "缺血性脑卒中"}, Serious: true},
	{StandardName: "脑出血", ICDCode: "I61", Serious: true},
	{StandardName: "肺炎", ICDCode: "J18", Aliases: []string{"社区获得性肺炎"}},
	{StandardName: "慢阻肺", ICDCode: "J44", Aliases: []string{"慢性阻塞性肺疾病", "COPD"}},
	{StandardName: "哮喘", ICDCode: "J45", Aliases: []string{"支气管哮喘"}},
	{StandardName: "肝硬化", ICDCode: "K74", Serious: true},
	{StandardName: "消化性溃疡", ICDCode: "K27", Aliases: []string{"胃溃疡", "十二指肠溃疡"}},
	{StandardName: "急性胰腺炎", ICDCode: "K85", Serious: true},
	{StandardName: "慢性肾病", ICDCode: "N18", Aliases: []string{"慢性肾脏病", "肾功能不全"}},
	{StandardName: "肾结石", ICDCode: "N20"},
	{StandardName: "贫血", ICDCode: "D64"},
	{StandardName: "甲亢", ICDCode: "E05", Aliases: []string{"甲状腺功能亢进"}},
	{StandardName: "甲减", ICDCode: "E03", Aliases: []string{"甲状腺功能减退"}},
	{StandardName: "痛风", ICDCode: "M10"},
	{StandardName: "类风湿关节炎", ICDCode: "M05"},
	{StandardName: "腰椎间盘突出", ICDCode: "M51", Aliases: []string{"腰椎间盘突出症"}},
	{StandardName: "骨折", ICDCode: "T14.2"},
	{StandardName: "阑尾炎", ICDCode: "K35", Aliases: []string{"急性阑尾炎"}},
	{StandardName: "胆囊炎", ICDCode: "K81", Aliases: []string{"急性胆囊炎"}},
	{StandardName: "乳腺癌", ICDCode: "C50", Serious: true},
	{StandardName: "肺癌", ICDCode: "C34", Serious: true},
	{StandardName: "胃癌", ICDCode: "C16", Serious: true},
	{StandardName: "肝癌", ICDCode: "C22", Serious: true},
	{StandardName: "结直肠癌", ICDCode: "C18", Aliases: []string{"结肠癌", "直肠癌"}, Serious: true},
	{StandardName: "抑郁症", ICDCode: "F32"},
	{StandardName: "癫痫", ICDCode: "G40"},
	{StandardName: "帕金森病", ICDCode: "G20"},
	{StandardName: "深静脉血栓", ICDCode: "I80", Aliases: []string{"下肢深静脉血栓"}, Serious: true},
	{StandardName: "肺栓塞", ICDCode: "I26", Serious: true},
	{StandardName: "败血症", ICDCode: "A41", Aliases: []string{"脓毒症", "脓毒血症"}, Serious: true},
	{StandardName: "心肌梗死", ICDCode: "I21", Aliases: []string{"急性心肌梗死", "心梗"}, Serious: true},
	{StandardName: "上呼吸道感染", ICDCode: "J06", Aliases: []string{"感冒", "上感"}},
	{StandardName: "尿路感染", ICDCode: "N39.0", Aliases: []string{"泌尿系感染"}},
}
