package knowledge

import (
	"regexp"
	"sort"

	"github.com/explainium/explainium/pkg/types"
)

const contextRadius = 25

type entityPattern struct {
	label      string
	confidence float64
	re         *regexp.Regexp
}

// Pattern order is fixed so extraction stays deterministic.
var entityPatterns = []entityPattern{
	{types.ENTITY_LABEL_EQUIPMENT, 0.8,
		regexp.MustCompile(`(?i)\b(?:pump|motor|valve|sensor|conveyor|robot|machine|compressor|turbine)(?:\s*(?:#?\d+|[A-Z]\d+))?\b`)},
	{types.ENTITY_LABEL_EQUIPMENT, 0.8,
		regexp.MustCompile(`\b[A-Z]{2,4}-\d{2,6}\b`)},
	{types.ENTITY_LABEL_EQUIPMENT, 0.8,
		regexp.MustCompile(`(?i)\b(?:Model|Part|Serial)\s*(?:No\.?|Number)?\s*:?\s*[A-Z0-9-]+\b`)},

	{types.ENTITY_LABEL_SAFETY_ITEM, 0.9,
		regexp.MustCompile(`(?i)\b(?:PPE|personal protective equipment|safety glasses|hard hat|gloves|respirator|harness)\b`)},
	{types.ENTITY_LABEL_SAFETY_ITEM, 0.9,
		regexp.MustCompile(`(?i)\b(?:hazard|danger|warning|caution|risk)\b`)},
	{types.ENTITY_LABEL_SAFETY_ITEM, 0.9,
		regexp.MustCompile(`(?i)\b(?:OSHA|safety procedure|lockout|tagout|LOTO)\b`)},

	{types.ENTITY_LABEL_PROCESS_STEP, 0.8,
		regexp.MustCompile(`(?i)\b(?:temperature|pressure|flow rate|speed|RPM|PSI)\b`)},
	{types.ENTITY_LABEL_PROCESS_STEP, 0.8,
		regexp.MustCompile(`(?i)\b\d+\s*(?:PSI|RPM|GPM|CFM|Hz)\b`)},
	{types.ENTITY_LABEL_PROCESS_STEP, 0.8,
		regexp.MustCompile(`(?i)\b(?:start(?:up)?|stop|shutdown|pause|resume|emergency stop|e-stop|calibrate|inspect)\b`)},

	{types.ENTITY_LABEL_PERSONNEL_ROLE, 0.8,
		regexp.MustCompile(`(?i)\b(?:operator|technician|engineer|supervisor|manager|worker|inspector)\b`)},
}

// ExtractEntities scans text for industrial entities. Overlapping matches
// are resolved by confidence, a tie goes to the longer span.
func ExtractEntities(text string) []Entity {
	var candidates []Entity
	for _, p := range entityPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, Entity{
				Text:       text[loc[0]:loc[1]],
				Label:      p.label,
				Start:      loc[0],
				End:        loc[1],
				Confidence: p.confidence,
				Context:    snippet(text, loc[0], loc[1]),
			})
		}
	}

	return resolveOverlaps(candidates)
}

// resolveOverlaps keeps, for every overlapping region, the single best span:
// highest confidence first, then the longer span, then the earlier one.
func resolveOverlaps(candidates []Entity) []Entity {
	ranked := make([]Entity, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		li, lj := ranked[i].End-ranked[i].Start, ranked[j].End-ranked[j].Start
		if li != lj {
			return li > lj
		}
		return ranked[i].Start < ranked[j].Start
	})

	var kept []Entity
	for _, c := range ranked {
		overlaps := false
		for _, k := range kept {
			if c.Start < k.End && k.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})
	return kept
}

func snippet(text string, start, end int) string {
	from := start - contextRadius
	if from < 0 {
		from = 0
	}
	to := end + contextRadius
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}
