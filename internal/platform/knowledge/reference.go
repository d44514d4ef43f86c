package knowledge

import (
	"strconv"
	"strings"
)

// ReferenceRange is the normal range and unit for one indicator, with the
// wider critical band used for severity grading.
type ReferenceRange struct {
	Low          float64
	High         float64
	Unit         string
	CriticalLow  float64
	CriticalHigh float64
}

// Range formats the normal range as "low-high".
func (r ReferenceRange) Range() string {
	return trimFloat(r.Low) + "-" + trimFloat(r.High)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ReferenceStore resolves indicator names to reference ranges and
// normalizes unit spelling. Read-only after construction.
type ReferenceStore struct {
	ranges      map[string]ReferenceRange
	unitAliases map[string]string
}

// NewReferenceStore builds a store. Nil arguments load the built-in tables.
func NewReferenceStore(ranges map[string]ReferenceRange, unitAliases map[string]string) *ReferenceStore {
	if ranges == nil {
		ranges = defaultRanges
	}
	if unitAliases == nil {
		unitAliases = defaultUnitAliases
	}
	lowered := make(map[string]string, len(unitAliases))
	for k, v := range unitAliases {
		lowered[strings.ToLower(k)] = v
	}
	return &ReferenceStore{ranges: ranges, unitAliases: lowered}
}

// Lookup returns the reference range for an indicator name.
func (s *ReferenceStore) Lookup(name string) (ReferenceRange, bool) {
	r, ok := s.ranges[name]
	return r, ok
}

// NormalizeUnit maps a unit spelling variant to its canonical form. Unknown
// units are returned unchanged.
func (s *ReferenceStore) NormalizeUnit(unit string) string {
	if unit == "" {
		return ""
	}
	if canonical, ok := s.unitAliases[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return canonical
	}
	return unit
}

var defaultRanges = map[string]ReferenceRange{
	"收缩压":   {Low: 90, High: 140, Unit: "mmHg", CriticalLow: 70, CriticalHigh: 160},
	"舒张压":   {Low: 60, High: 90, Unit: "mmHg", CriticalLow: 40, CriticalHigh: 110},
	"心率":    {Low: 60, High: 100, Unit: "次/分", CriticalLow: 40, CriticalHigh: 140},
	"体温":    {Low: 36.0, High: 37.3, Unit: "℃", CriticalLow: 35.0, CriticalHigh: 39.5},
	"呼吸频率":  {Low: 12, High: 20, Unit: "次/分", CriticalLow: 8, CriticalHigh: 30},
	"血氧饱和度": {Low: 95, High: 100, Unit: "%", CriticalLow: 90, CriticalHigh: 100},
	"血糖":    {Low: 3.9, High: 6.1, Unit: "mmol/L", CriticalLow: 2.8, CriticalHigh: 16.7},
	"白细胞":   {Low: 4.0, High: 10.0, Unit: "×10^9/L", CriticalLow: 1.0, CriticalHigh: 30.0},
	"血红蛋白":  {Low: 110, High: 160, Unit: "g/L", CriticalLow: 60, CriticalHigh: 200},
	"血小板":   {Low: 100, High: 300, Unit: "×10^9/L", CriticalLow: 30, CriticalHigh: 1000},
	"肌酐":    {Low: 44, High: 133, Unit: "μmol/L", CriticalLow: 20, CriticalHigh: 450},
	"血钾":    {Low: 3.5, High: 5.5, Unit: "mmol/L", CriticalLow: 2.5, CriticalHigh: 6.5},
	"血钠":    {Low: 135, High: 145, Unit: "mmol/L", CriticalLow: 120, CriticalHigh: 160},
}

var defaultUnitAliases = map[string]string{
	"mmhg":    "mmHg",
	"毫米汞柱":    "mmHg",
	"bpm":     "次/分",
	"次/min":   "次/分",
	"°c":      "℃",
	"度":       "℃",
	"摄氏度":     "℃",
	"mmol/l":  "mmol/L",
	"g/l":     "g/L",
	"umol/l":  "μmol/L",
	"μmol/l":  "μmol/L",
	"10^9/l":  "×10^9/L",
	"×10^9/l": "×10^9/L",
	"%":       "%",
	"百分比":     "%",
}
