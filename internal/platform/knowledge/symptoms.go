package knowledge

import "strings"

// Symptom is one vocabulary entry: a canonical symptom name with its
// colloquial and abbreviated aliases.
type Symptom struct {
	Canonical string   `json:"canonical"`
	Aliases   []string `json:"aliases"`
	BodyPart  string   `json:"body_part"`
	Category  string   `json:"category"`
}

// SymptomStore is a read-only symptom vocabulary. It is constructed once
// at startup and injected into the pipeline and checkers.
type SymptomStore struct {
	entries []Symptom
	byName  map[string]*Symptom
}

// NewSymptomStore builds a store from the given vocabulary. Passing nil
// loads the built-in vocabulary.
func NewSymptomStore(entries []Symptom) *SymptomStore {
	if entries == nil {
		entries = defaultSymptoms
	}
	s := &SymptomStore{entries: entries, byName: make(map[string]*Symptom, len(entries))}
	for i := range s.entries {
		s.byName[s.entries[i].Canonical] = &s.entries[i]
	}
	return s
}

// All returns every vocabulary entry.
func (s *SymptomStore) All() []Symptom {
	return s.entries
}

// Aliases returns the aliases of a canonical symptom name, or nil when the
// name is not in the vocabulary.
func (s *SymptomStore) Aliases(name string) []string {
	if e, ok := s.byName[name]; ok {
		return e.Aliases
	}
	return nil
}

// Lookup resolves either a canonical name or an alias to its entry.
func (s *SymptomStore) Lookup(term string) (*Symptom, bool) {
	term = strings.TrimSpace(term)
	if e, ok := s.byName[term]; ok {
		return e, true
	}
	for i := range s.entries {
		for _, a := range s.entries[i].Aliases {
			if a == term {
				return &s.entries[i], true
			}
		}
	}
	return nil, false
}

// defaultSymptoms is the built-in Chinese symptom vocabulary.
var defaultSymptoms = []Symptom{
	{Canonical: "发热", Aliases: []string{"发烧", "体温升高", "低热", "高热"}, BodyPart: "全身", Category: "全身症状"},
	{Canonical: "咳嗽", Aliases: []string{"干咳", "咳痰", "阵咳"}, BodyPart: "胸部", Category: "呼吸系统"},
	{Canonical: "胸痛", Aliases: []string{"胸口痛", "心前区疼痛", "胸部疼痛"}, BodyPart: "胸部", Category: "心血管系统"},
	{Canonical: "胸闷", Aliases: []string{"气短", "憋气", "胸部压迫感"}, BodyPart: "胸部", Category: "心血管系统"},
	{Canonical: "心悸", Aliases: []string{"心慌", "心跳加快"}, BodyPart: "胸部", Category: "心血管系统"},
	{Canonical: "呼吸困难", Aliases: []string{"气促", "喘息", "呼吸急促"}, BodyPart: "胸部", Category: "呼吸系统"},
	{Canonical: "头痛", Aliases: []string{"头部疼痛", "偏头痛", "头胀痛"}, BodyPart: "头部", Category: "神经系统"},
	{Canonical: "头晕", Aliases: []string{"眩晕", "头昏"}, BodyPart: "头部", Category: "神经系统"},
	{Canonical: "腹痛", Aliases: []string{"肚子痛", "腹部疼痛", "上腹痛", "下腹痛"}, BodyPart: "腹部", Category: "消化系统"},
	{Canonical: "腹泻", Aliases: []string{"拉肚子", "大便次数增多", "稀便"}, BodyPart: "腹部", Category: "消化系统"},
	{Canonical: "恶心", Aliases: []string{"想吐", "泛恶"}, BodyPart: "腹部", Category: "消化系统"},
	{Canonical: "呕吐", Aliases: []string{"吐", "呕"}, BodyPart: "腹部", Category: "消化系统"},
	{Canonical: "乏力", Aliases: []string{"疲乏", "疲劳", "全身无力"}, BodyPart: "全身", Category: "全身症状"},
	{Canonical: "水肿", Aliases: []string{"浮肿", "下肢水肿", "双下肢浮肿"}, BodyPart: "四肢", Category: "全身症状"},
	{Canonical: "腰痛", Aliases: []string{"腰部疼痛", "腰酸"}, BodyPart: "腰部", Category: "骨骼肌肉"},
	{Canonical: "关节痛", Aliases: []string{"关节疼痛", "关节酸痛"}, BodyPart: "四肢", Category: "骨骼肌肉"},
	{Canonical: "便血", Aliases: []string{"黑便", "大便带血"}, BodyPart: "腹部", Category: "消化系统"},
	{Canonical: "咯血", Aliases: []string{"咳血", "痰中带血"}, BodyPart: "胸部", Category: "呼吸系统"},
	{Canonical: "尿频", Aliases: []string{"小便次数增多"}, BodyPart: "泌尿系统", Category: "泌尿系统"},
	{Canonical: "意识障碍", Aliases: []string{"昏迷", "嗜睡", "神志不清"}, BodyPart: "头部", Category: "神经系统"},
	{Canonical: "抽搐", Aliases: []string{"惊厥", "肢体抽动"}, BodyPart: "全身", Category: "神经系统"},
	{Canonical: "皮疹", Aliases: []string{"红疹", "斑丘疹", "荨麻疹"}, BodyPart: "皮肤", Category: "皮肤"},
	{Canonical: "黄疸", Aliases: []string{"皮肤黄染", "巩膜黄染"}, BodyPart: "全身", Category: "消化系统"},
	{Canonical: "消瘦", Aliases: []string{"体重下降", "体重减轻"}, BodyPart: "全身", Category: "全身症状"},
	{Canonical: "盗汗", Aliases: []string{"夜间出汗"}, BodyPart: "全身", Category: "全身症状"},
	{Canonical: "食欲不振", Aliases: []string{"纳差", "食欲下降", "不思饮食"}, BodyPart: "腹部", Category: "消化系统"},
}
