package nlp

import (
	"regexp"
	"strconv"

	"github.com/medqc/medqc/internal/platform/knowledge"
)

// SymptomVocabulary is the read API of the external symptom vocabulary.
type SymptomVocabulary interface {
	All() []knowledge.Symptom
	Aliases(name string) []string
}

// vitalPattern defines a vital-sign regex with its normal and critical
// thresholds. Values outside the normal band are abnormal (major); values
// outside the critical band are critical.
type vitalPattern struct {
	name        string
	re          *regexp.Regexp
	unit        string
	low, high   float64
	critLow     float64
	critHigh    float64
	composite   bool // "a/b" value, e.g. blood pressure
	secondName  string
	secondLow   float64
	secondHigh  float64
	secondCLow  float64
	secondCHigh float64
}

var vitalPatterns = []vitalPattern{
	{
		name: "血压", re: regexp.MustCompile(`(?:血压|BP)[：:\s]*([0-9]{2,3})\s*/\s*([0-9]{2,3})\s*(mmHg|毫米汞柱)?`),
		unit: "mmHg", low: 90, high: 140, critLow: 70, critHigh: 160,
		composite: true, secondName: "舒张压",
		secondLow: 60, secondHigh: 90, secondCLow: 40, secondCHigh: 110,
	},
	{
		name: "心率", re: regexp.MustCompile(`(?:心率|脉搏|HR)[：:\s]*([0-9]{2,3})\s*(次/分|bpm)?`),
		unit: "次/分", low: 60, high: 100, critLow: 40, critHigh: 140,
	},
	{
		name: "体温", re: regexp.MustCompile(`(?:体温|T)[：:\s]*([3-4][0-9](?:\.[0-9])?)\s*(℃|°C|度)?`),
		unit: "℃", low: 36.0, high: 37.3, critLow: 35.0, critHigh: 39.5,
	},
	{
		name: "呼吸频率", re: regexp.MustCompile(`(?:呼吸频率|呼吸|RR)[：:\s]*([0-9]{1,2})\s*(次/分)?`),
		unit: "次/分", low: 12, high: 20, critLow: 8, critHigh: 30,
	},
	{
		name: "血氧饱和度", re: regexp.MustCompile(`(?:血氧饱和度|氧饱和度|SpO2|SPO2)[：:\s]*([0-9]{2,3})\s*(%)?`),
		unit: "%", low: 95, high: 100, critLow: 90, critHigh: 100,
	},
	{
		name: "血糖", re: regexp.MustCompile(`(?:空腹血糖|随机血糖|血糖|GLU)[：:\s]*([0-9]{1,2}(?:\.[0-9])?)\s*(mmol/L)?`),
		unit: "mmol/L", low: 3.9, high: 6.1, critLow: 2.8, critHigh: 16.7,
	},
}

// entityKeywords are the per-type keyword tables scanned by the extractor.
// The symptom table is not listed here: it comes from the injected
// vocabulary store.
var entityKeywords = map[EntityType][]string{
	EntityMedication: {
		"阿司匹林", "华法林", "氯吡格雷", "二甲双胍", "胰岛素", "美托洛尔", "普萘洛尔",
		"硝苯地平", "维拉帕米", "地高辛", "呋塞米", "螺内酯", "阿托伐他汀", "青霉素",
		"阿莫西林", "头孢呋辛", "左氧氟沙星", "布洛芬", "泼尼松", "吗啡",
	},
	EntityDiagnosis: {
		"高血压", "糖尿病", "冠心病", "心力衰竭", "心衰", "房颤", "脑梗死", "脑出血",
		"肺炎", "慢阻肺", "哮喘", "肝硬化", "消化性溃疡", "急性胰腺炎", "慢性肾病",
		"贫血", "甲亢", "甲减", "痛风", "骨折", "阑尾炎", "胆囊炎", "肺癌", "胃癌",
		"乳腺癌", "心肌梗死", "败血症", "肺栓塞", "深静脉血栓", "上呼吸道感染",
	},
	EntityProcedure: {
		"手术", "穿刺", "插管", "引流", "透析", "化疗", "放疗", "胃镜", "肠镜",
		"支架植入", "介入治疗", "气管切开", "心肺复苏",
	},
	EntityLabResult: {
		"白细胞", "血红蛋白", "血小板", "肌酐", "尿素氮", "转氨酶", "血钾", "血钠",
		"肌钙蛋白", "C反应蛋白", "降钙素原", "尿蛋白",
	},
}

const (
	keywordEntityConfidence = 0.85
	symptomEntityConfidence = 0.8
	vitalEntityConfidence   = 0.9
	metricNorm              = 20
)

// Extractor pulls vital-sign indicators and domain entities out of raw
// text. The symptom vocabulary is injected; everything else is fixed.
type Extractor struct {
	symptoms SymptomVocabulary
}

// NewExtractor creates a metric extractor over the given vocabulary.
func NewExtractor(symptoms SymptomVocabulary) *Extractor {
	return &Extractor{symptoms: symptoms}
}

// Extract returns the indicators and entities found in text with a
// confidence in [0,1].
func (e *Extractor) Extract(text string) ([]Indicator, []Entity, float64) {
	if text == "" {
		return nil, nil, 0
	}

	indicators := e.extractVitals(text)
	entities := e.extractEntities(text)

	conf := float64(len(indicators)+len(entities)) / metricNorm
	if conf > 1 {
		conf = 1
	}
	return indicators, entities, conf
}

func (e *Extractor) extractVitals(text string) []Indicator {
	var out []Indicator
	for _, vp := range vitalPatterns {
		for _, m := range vp.re.FindAllStringSubmatchIndex(text, -1) {
			groups := vp.re.FindStringSubmatch(text[m[0]:m[1]])
			if groups == nil {
				continue
			}
			if vp.composite {
				out = append(out, e.bloodPressure(vp, groups))
			} else {
				out = append(out, e.scalarVital(vp, groups))
			}
		}
	}
	return out
}

// bloodPressure grades a composite "systolic/diastolic" reading by the
// worse of its two components.
func (e *Extractor) bloodPressure(vp vitalPattern, groups []string) Indicator {
	sys, _ := strconv.ParseFloat(groups[1], 64)
	dia, _ := strconv.ParseFloat(groups[2], 64)

	sevSys := gradeValue(sys, vp.low, vp.high, vp.critLow, vp.critHigh)
	sevDia := gradeValue(dia, vp.secondLow, vp.secondHigh, vp.secondCLow, vp.secondCHigh)
	sev := worseSeverity(sevSys, sevDia)

	return Indicator{
		Name:       vp.name,
		Value:      groups[1] + "/" + groups[2],
		Unit:       vp.unit,
		IsAbnormal: sev != "",
		Severity:   sev,
	}
}

func (e *Extractor) scalarVital(vp vitalPattern, groups []string) Indicator {
	v, _ := strconv.ParseFloat(groups[1], 64)
	sev := gradeValue(v, vp.low, vp.high, vp.critLow, vp.critHigh)
	return Indicator{
		Name:       vp.name,
		Value:      groups[1],
		Unit:       vp.unit,
		IsAbnormal: sev != "",
		Severity:   sev,
	}
}

func (e *Extractor) extractEntities(text string) []Entity {
	var out []Entity

	for _, t := range []EntityType{EntityMedication, EntityDiagnosis, EntityProcedure, EntityLabResult} {
		for _, kw := range entityKeywords[t] {
			for _, off := range allIndexes(text, kw) {
				out = append(out, Entity{
					Text:       kw,
					Type:       t,
					Start:      off,
					End:        off + len(kw),
					Confidence: keywordEntityConfidence,
				})
			}
		}
	}

	if e.symptoms != nil {
		for _, sym := range e.symptoms.All() {
			for _, off := range allIndexes(text, sym.Canonical) {
				out = append(out, Entity{
					Text:       sym.Canonical,
					Type:       EntitySymptom,
					Start:      off,
					End:        off + len(sym.Canonical),
					Confidence: symptomEntityConfidence,
				})
			}
		}
	}

	for _, vp := range vitalPatterns {
		for _, m := range vp.re.FindAllStringIndex(text, -1) {
			out = append(out, Entity{
				Text:       text[m[0]:m[1]],
				Type:       EntityVitalSign,
				Start:      m[0],
				End:        m[1],
				Confidence: vitalEntityConfidence,
			})
		}
	}

	return out
}

// gradeValue returns the severity of v against a normal band and a wider
// critical band; empty severity means normal.
func gradeValue(v, low, high, critLow, critHigh float64) Severity {
	if v >= low && v <= high {
		return ""
	}
	if v < critLow || v > critHigh {
		return SeverityCritical
	}
	return SeverityMajor
}

func worseSeverity(a, b Severity) Severity {
	rank := map[Severity]int{"": 0, SeverityMinor: 1, SeverityMajor: 2, SeverityCritical: 3}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}
