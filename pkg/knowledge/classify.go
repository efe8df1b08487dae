package knowledge

import (
	"sort"
	"strings"

	"github.com/explainium/explainium/pkg/types"
)

var categoryKeywords = map[string][]string{
	types.CATEGORY_SAFETY_DOCUMENTATION: {
		"safety", "hazard", "ppe", "osha", "emergency", "accident", "injury",
		"lockout", "tagout", "confined space", "chemical", "msds",
	},
	types.CATEGORY_MAINTENANCE_GUIDE: {
		"maintenance", "repair", "service", "inspection", "lubrication",
		"replacement", "troubleshooting", "preventive", "scheduled",
	},
	types.CATEGORY_OPERATIONAL_PROCEDURE: {
		"operation", "startup", "shutdown", "procedure", "step", "instruction",
		"control", "monitor", "adjust", "setting",
	},
	types.CATEGORY_TRAINING_MATERIAL: {
		"training", "course", "lesson", "certification", "competency",
		"skill", "knowledge", "assessment", "qualification",
	},
	types.CATEGORY_TECHNICAL_SPECIFICATION: {
		"specification", "technical", "drawing", "schematic", "blueprint",
		"dimension", "tolerance", "material", "standard",
	},
	types.CATEGORY_QUALITY_STANDARD: {
		"quality", "audit", "compliance", "iso", "calibration", "defect",
		"nonconformance", "acceptance", "verification",
	},
}

// ClassifyContent assigns zero or more taxonomy categories to the document.
// Confidence grows with keyword density; categories below threshold are
// discarded. Output ordering is confidence descending, name ascending on
// ties, so repeated runs produce identical slices.
func ClassifyContent(text string, threshold float64) []Category {
	textLower := strings.ToLower(text)

	var categories []Category
	for name, keywords := range categoryKeywords {
		var hits []string
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}

		confidence := float64(len(hits)) / float64(len(keywords)) * 2
		if confidence > 0.95 {
			confidence = 0.95
		}
		if confidence <= threshold {
			continue
		}

		sort.Strings(hits)
		categories = append(categories, Category{
			Name:       name,
			Confidence: confidence,
			Keywords:   hits,
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Confidence != categories[j].Confidence {
			return categories[i].Confidence > categories[j].Confidence
		}
		return categories[i].Name < categories[j].Name
	})

	return categories
}
