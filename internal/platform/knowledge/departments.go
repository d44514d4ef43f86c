package knowledge

import "strings"

// Department is one hospital department with its alias spellings.
type Department struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases"`
	Category string   `json:"category"`
}

// DepartmentStore resolves free-text department mentions to department
// codes. Used to pick department-specific required sections.
type DepartmentStore struct {
	departments []Department
}

// NewDepartmentStore builds a store; nil loads the built-in mapping.
func NewDepartmentStore(departments []Department) *DepartmentStore {
	if departments == nil {
		departments = defaultDepartments
	}
	return &DepartmentStore{departments: departments}
}

// Resolve returns the department matching text by name or alias, or nil.
func (s *DepartmentStore) Resolve(text string) *Department {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for i := range s.departments {
		d := &s.departments[i]
		if strings.Contains(text, d.Name) {
			return d
		}
		for _, a := range d.Aliases {
			if a != "" && strings.Contains(text, a) {
				return d
			}
		}
	}
	return nil
}

// All returns every department.
func (s *DepartmentStore) All() []Department {
	return s.departments
}

var defaultDepartments = []Department{
	{Code: "ICU", Name: "重症医学科", Aliases: []string{"ICU", "重症监护室", "MICU", "SICU"}, Category: "急危重症"},
	{Code: "ER", Name: "急诊科", Aliases: []string{"急诊", "急诊室"}, Category: "急危重症"},
	{Code: "CARD", Name: "心血管内科", Aliases: []string{"心内科", "心内"}, Category: "内科系统"},
	{Code: "RESP", Name: "呼吸内科", Aliases: []string{"呼吸科", "呼吸"}, Category: "内科系统"},
	{Code: "GASTRO", Name: "消化内科", Aliases: []string{"消化科", "消化"}, Category: "内科系统"},
	{Code: "NEPHRO", Name: "肾脏内科", Aliases: []string{"肾内科", "肾内"}, Category: "内科系统"},
	{Code: "ENDO", Name: "内分泌科", Aliases: []string{"内分泌"}, Category: "内科系统"},
	{Code: "NEURO", Name: "神经内科", Aliases: []string{"神内科", "神内"}, Category: "内科系统"},
	{Code: "GS", Name: "普通外科", Aliases: []string{"普外科", "普外"}, Category: "外科系统"},
	{Code: "ORTHO", Name: "骨科", Aliases: []string{"骨外科"}, Category: "外科系统"},
	{Code: "NSURG", Name: "神经外科", Aliases: []string{"脑外科"}, Category: "外科系统"},
	{Code: "OB", Name: "妇产科", Aliases: []string{"妇科", "产科"}, Category: "妇儿系统"},
	{Code: "PED", Name: "儿科", Aliases: []string{"小儿科"}, Category: "妇儿系统"},
	{Code: "ONC", Name: "肿瘤科", Aliases: []string{"肿瘤内科"}, Category: "肿瘤"},
}
