package knowledge

import (
	"github.com/explainium/explainium/pkg/types"
)

// Two entities within this many characters of each other are considered
// related.
const proximityWindow = 50

type labelPair struct {
	source string
	target string
}

var relationshipRules = map[labelPair]string{
	{types.ENTITY_LABEL_PERSONNEL_ROLE, types.ENTITY_LABEL_EQUIPMENT}:      "OPERATES",
	{types.ENTITY_LABEL_PERSONNEL_ROLE, types.ENTITY_LABEL_SAFETY_ITEM}:    "FOLLOWS",
	{types.ENTITY_LABEL_EQUIPMENT, types.ENTITY_LABEL_PROCESS_STEP}:        "CONTROLS",
	{types.ENTITY_LABEL_SAFETY_ITEM, types.ENTITY_LABEL_PROCESS_STEP}:      "PROTECTS",
	{types.ENTITY_LABEL_EQUIPMENT, types.ENTITY_LABEL_EQUIPMENT}:           "CONNECTS_TO",
	{types.ENTITY_LABEL_PERSONNEL_ROLE, types.ENTITY_LABEL_PERSONNEL_ROLE}: "REPORTS_TO",
}

func relationshipType(sourceLabel, targetLabel string) (string, bool) {
	if t, ok := relationshipRules[labelPair{sourceLabel, targetLabel}]; ok {
		return t, true
	}
	t, ok := relationshipRules[labelPair{targetLabel, sourceLabel}]
	return t, ok
}

// ExtractRelationships infers directed relations between entities of the
// same document based on proximity and the label rule table. Entities are
// referenced by index; both endpoints always come from the given slice, so
// relationships never cross documents.
func ExtractRelationships(text string, entities []Entity) []Relationship {
	var relationships []Relationship

	for i := range entities {
		for j := i + 1; j < len(entities); j++ {
			distance := entities[j].Start - entities[i].Start
			if distance < 0 {
				distance = -distance
			}
			if distance >= proximityWindow {
				continue
			}

			relType, ok := relationshipType(entities[i].Label, entities[j].Label)
			if !ok {
				continue
			}

			from := min(entities[i].Start, entities[j].Start) - contextRadius
			if from < 0 {
				from = 0
			}
			to := max(entities[i].End, entities[j].End) + contextRadius
			if to > len(text) {
				to = len(text)
			}

			relationships = append(relationships, Relationship{
				SourceIndex: i,
				TargetIndex: j,
				Type:        relType,
				Confidence:  0.7,
				Context:     text[from:to],
			})
		}
	}

	return relationships
}
