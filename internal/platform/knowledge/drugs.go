package knowledge

import "strings"

// Drug is one entry in the medication knowledge table.
type Drug struct {
	Name              string   `json:"name"`
	Aliases           []string `json:"aliases,omitempty"`
	MaxDailyDose      string   `json:"max_daily_dose,omitempty"`
	Contraindications []string `json:"contraindications,omitempty"` // diagnosis names
	Interactions      []string `json:"interactions,omitempty"`      // other drug names
}

// AllergyFamily is a high-risk drug family checked against denied drug
// allergy history.
type AllergyFamily struct {
	Family  string   `json:"family"`
	Members []string `json:"members"`
}

// DrugStore is the read-only medication knowledge base.
type DrugStore struct {
	drugs    []Drug
	families []AllergyFamily
}

// NewDrugStore builds a store; nil arguments load the built-in tables.
func NewDrugStore(drugs []Drug, families []AllergyFamily) *DrugStore {
	if drugs == nil {
		drugs = defaultDrugs
	}
	if families == nil {
		families = defaultAllergyFamilies
	}
	return &DrugStore{drugs: drugs, families: families}
}

// Get resolves a medication name (or alias) to its entry, or nil.
func (s *DrugStore) Get(name string) *Drug {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for i := range s.drugs {
		d := &s.drugs[i]
		if strings.Contains(name, d.Name) {
			return d
		}
		for _, a := range d.Aliases {
			if strings.Contains(name, a) {
				return d
			}
		}
	}
	return nil
}

// Interacts reports whether two drugs appear in each other's interaction
// lists. The relation is symmetric.
func (s *DrugStore) Interacts(a, b string) bool {
	da, db := s.Get(a), s.Get(b)
	if da == nil || db == nil || da.Name == db.Name {
		return false
	}
	for _, x := range da.Interactions {
		if x == db.Name {
			return true
		}
	}
	for _, x := range db.Interactions {
		if x == da.Name {
			return true
		}
	}
	return false
}

// AllergyFamilies returns the high-risk drug families.
func (s *DrugStore) AllergyFamilies() []AllergyFamily {
	return s.families
}

var defaultDrugs = []Drug{
	{Name: "阿司匹林", Aliases: []string{"拜阿司匹灵"}, MaxDailyDose: "300mg",
		Contraindications: []string{"消化性溃疡"}, Interactions: []string{"华法林"}},
	{Name: "华法林", MaxDailyDose: "15mg",
		Contraindications: []string{"脑出血"}, Interactions: []string{"阿司匹林", "左氧氟沙星"}},
	{Name: "氯吡格雷", Aliases: []string{"波立维"}, MaxDailyDose: "75mg",
		Contraindications: []string{"消化性溃疡"}},
	{Name: "二甲双胍", MaxDailyDose: "2550mg",
		Contraindications: []string{"慢性肾病", "肝硬化"}},
	{Name: "胰岛素", Interactions: []string{"普萘洛尔"}},
	{Name: "美托洛尔", Aliases: []string{"倍他乐克"}, MaxDailyDose: "200mg",
		Contraindications: []string{"哮喘"}, Interactions: []string{"维拉帕米"}},
	{Name: "普萘洛尔", Aliases: []string{"心得安"}, Contraindications: []string{"哮喘", "慢阻肺"}},
	{Name: "硝苯地平", MaxDailyDose: "90mg"},
	{Name: "维拉帕米", Interactions: []string{"美托洛尔", "地高辛"}},
	{Name: "地高辛", MaxDailyDose: "0.25mg", Interactions: []string{"维拉帕米", "呋塞米"}},
	{Name: "呋塞米", Aliases: []string{"速尿"}, MaxDailyDose: "600mg", Interactions: []string{"地高辛"}},
	{Name: "螺内酯", Contraindications: []string{"慢性肾病"}},
	{Name: "阿托伐他汀", Aliases: []string{"立普妥"}, MaxDailyDose: "80mg",
		Contraindications: []string{"肝硬化"}},
	{Name: "青霉素", Interactions: []string{"丙磺舒"}},
	{Name: "阿莫西林"},
	{Name: "头孢呋辛", Aliases: []string{"头孢"}},
	{Name: "左氧氟沙星", MaxDailyDose: "750mg", Interactions: []string{"华法林"},
		Contraindications: []string{"癫痫"}},
	{Name: "布洛芬", MaxDailyDose: "2400mg", Contraindications: []string{"消化性溃疡", "慢性肾病"}},
	{Name: "泼尼松", Contraindications: []string{"消化性溃疡", "2型糖尿病"}},
	{Name: "吗啡", MaxDailyDose: "60mg", Contraindications: []string{"慢阻肺"}},
}

var defaultAllergyFamilies = []AllergyFamily{
	{Family: "青霉素类", Members: []string{"青霉素", "阿莫西林", "氨苄西林", "哌拉西林"}},
	{Family: "头孢类", Members: []string{"头孢", "头孢呋辛", "头孢曲松", "头孢哌酮"}},
	{Family: "磺胺类", Members: []string{"磺胺", "复方新诺明"}},
	{Family: "喹诺酮类", Members: []string{"左氧氟沙星", "环丙沙星", "莫西沙星"}},
	{Family: "碘造影剂", Members: []string{"碘海醇", "碘克沙醇", "造影剂"}},
}
