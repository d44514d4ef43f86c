package nlp

import "fmt"

// plausibilityBound is a broad physiological bound. Values outside it are
// flagged, never discarded.
type plausibilityBound struct {
	min, max float64
	hardMin  float64
	hardMax  float64
}

// plausibilityBounds covers the indicators the extractor can produce.
// The soft band yields warnings, the hard band yields errors.
var plausibilityBounds = map[string]plausibilityBound{
	"血压":    {min: 50, max: 260, hardMin: 20, hardMax: 350},
	"舒张压":   {min: 30, max: 160, hardMin: 10, hardMax: 250},
	"心率":    {min: 25, max: 220, hardMin: 10, hardMax: 350},
	"体温":    {min: 33, max: 42.5, hardMin: 30, hardMax: 45},
	"呼吸频率":  {min: 5, max: 60, hardMin: 1, hardMax: 100},
	"血氧饱和度": {min: 50, max: 100, hardMin: 20, hardMax: 100},
	"血糖":    {min: 1, max: 40, hardMin: 0.3, hardMax: 100},
}

// Validator sanity-checks normalized indicators against plausibility
// bounds. Stateless; safe for concurrent use.
type Validator struct{}

// NewValidator creates an indicator validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate flags implausible indicator values. Indicators whose values do
// not parse are skipped rather than flagged; unparseable data is handled
// upstream as missing normalization.
func (v *Validator) Validate(indicators []Indicator) []ValidationIssue {
	var issues []ValidationIssue
	for _, ind := range indicators {
		bound, ok := plausibilityBounds[ind.Name]
		if !ok {
			continue
		}
		val, parsed := parseIndicatorValue(ind.Value)
		if !parsed {
			continue
		}
		switch {
		case val < bound.hardMin || val > bound.hardMax:
			issues = append(issues, ValidationIssue{
				Indicator: ind.Name,
				Message:   fmt.Sprintf("%s 值 %s 超出生理可能范围", ind.Name, ind.Value),
				Level:     "error",
			})
		case val < bound.min || val > bound.max:
			issues = append(issues, ValidationIssue{
				Indicator: ind.Name,
				Message:   fmt.Sprintf("%s 值 %s 超出合理范围，请核实", ind.Name, ind.Value),
				Level:     "warning",
			})
		}
	}
	return issues
}

// Summary renders a short human-readable validation summary.
func (v *Validator) Summary(issues []ValidationIssue) string {
	if len(issues) == 0 {
		return "所有指标均在合理范围内"
	}
	errs := 0
	for _, is := range issues {
		if is.Level == "error" {
			errs++
		}
	}
	return fmt.Sprintf("发现 %d 项可疑指标（其中 %d 项严重），首项：%s",
		len(issues), errs, issues[0].Message)
}
