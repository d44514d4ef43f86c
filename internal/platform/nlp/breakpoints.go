package nlp

import (
	"sort"
	"strings"
)

// logicalConnectives are discourse markers that signal a contrast, causal
// or sequence shift inside a narrative.
var logicalConnectives = []string{
	"但是", "然而", "不过", "另外", "此外",
	"因此", "所以", "由于", "因为",
	"随后", "之后", "接着", "其后", "目前", "现",
	"首先", "其次", "最后",
}

// emphasisMarkers are typographic markers that flag emphasized content.
var emphasisMarkers = []string{
	"【", "】", "★", "※", "▲", "!!", "！！", "注意", "重要",
}

// breakpointNorm caps the breakpoint count used for confidence.
const breakpointNorm = 50

// Breaker refines section boundaries by locating logical and emphasis
// breakpoints in the text. Stateless; safe for concurrent use.
type Breaker struct{}

// NewBreaker creates a breakpoint detector.
func NewBreaker() *Breaker {
	return &Breaker{}
}

// Detect returns the refined section map, the sorted de-duplicated
// breakpoint list, and a confidence in [0,1].
func (b *Breaker) Detect(text string, sections map[SectionName]Section) (map[SectionName]Section, []Breakpoint, float64) {
	if text == "" {
		return sections, nil, 0
	}

	seen := map[int]bool{}
	var points []Breakpoint

	add := func(offset int, kind BreakpointKind, marker string) {
		if seen[offset] {
			return
		}
		seen[offset] = true
		points = append(points, Breakpoint{Offset: offset, Kind: kind, Marker: marker})
	}

	for _, s := range sections {
		add(s.Start, BreakSectionBoundary, string(s.Name))
	}
	for _, conn := range logicalConnectives {
		for _, off := range allIndexes(text, conn) {
			add(off, BreakLogical, conn)
		}
	}
	for _, mark := range emphasisMarkers {
		for _, off := range allIndexes(text, mark) {
			add(off, BreakEmphasis, mark)
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Offset < points[j].Offset })

	refined := b.refine(text, sections, points)

	conf := float64(len(points)) / breakpointNorm
	if conf > 1 {
		conf = 1
	}
	return refined, points, conf
}

// refine trims trailing emphasis-marked fragments off section content when
// an emphasis breakpoint falls exactly on the section's tail. Sections are
// otherwise passed through unchanged.
func (b *Breaker) refine(text string, sections map[SectionName]Section, points []Breakpoint) map[SectionName]Section {
	refined := make(map[SectionName]Section, len(sections))
	for name, s := range sections {
		out := s
		for _, p := range points {
			if p.Kind != BreakEmphasis {
				continue
			}
			// An emphasis marker opening at the very end of a section
			// belongs to the following block, not to this section.
			if p.Offset > s.Start && p.Offset < s.End && s.End-p.Offset < len(s.Content)/4 {
				if rel := p.Offset - s.Start; rel > 0 && rel <= len(text) {
					trimmed := strings.TrimSpace(text[s.Start:p.Offset])
					if trimmed != "" && len(trimmed) < len(out.Content) {
						out.Content = trimmed
						out.End = p.Offset
					}
				}
				break
			}
		}
		refined[name] = out
	}
	return refined
}

// allIndexes returns every byte offset at which sub occurs in s.
func allIndexes(s, sub string) []int {
	var out []int
	base := 0
	for {
		idx := strings.Index(s[base:], sub)
		if idx < 0 {
			return out
		}
		out = append(out, base+idx)
		base += idx + len(sub)
	}
}
