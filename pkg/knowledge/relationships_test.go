package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestExtractRelationshipsOperates(t *testing.T) {
	text := "The operator starts the pump every morning."

	entities := ExtractEntities(text)
	rels := ExtractRelationships(text, entities)
	assert.NotEmpty(t, rels)

	found := false
	for _, r := range rels {
		src, dst := entities[r.SourceIndex], entities[r.TargetIndex]
		if r.Type == "OPERATES" &&
			src.Label == types.ENTITY_LABEL_PERSONNEL_ROLE &&
			dst.Label == types.ENTITY_LABEL_EQUIPMENT {
			found = true
			assert.InDelta(t, 0.7, r.Confidence, 1e-9)
			assert.Contains(t, r.Context, src.Text)
		}
	}
	assert.True(t, found, "expected OPERATES between role and equipment, got %+v", rels)
}

func TestExtractRelationshipsReversedOrder(t *testing.T) {
	// Equipment appears before the role; the rule still applies.
	text := "Pump checks are done by the technician."

	entities := ExtractEntities(text)
	rels := ExtractRelationships(text, entities)

	types_ := make([]string, 0, len(rels))
	for _, r := range rels {
		types_ = append(types_, r.Type)
	}
	assert.Contains(t, types_, "OPERATES")
}

func TestExtractRelationshipsProximityWindow(t *testing.T) {
	// Entities more than 50 characters apart must not relate.
	filler := " the long intermediate description of unrelated plant areas goes here and keeps going"
	text := "operator" + filler + " pump"

	entities := ExtractEntities(text)
	assert.Len(t, entities, 2)
	assert.Empty(t, ExtractRelationships(text, entities))
}

func TestExtractRelationshipsNoRuleForPair(t *testing.T) {
	// safety item + equipment has no rule in either direction.
	text := "gloves rack near pump"

	entities := ExtractEntities(text)
	assert.Len(t, entities, 2)
	assert.Empty(t, ExtractRelationships(text, entities))
}

func TestExtractRelationshipsSameLabelPairs(t *testing.T) {
	text := "pump feeds the compressor"

	entities := ExtractEntities(text)
	assert.Len(t, entities, 2)

	rels := ExtractRelationships(text, entities)
	assert.Len(t, rels, 1)
	assert.Equal(t, "CONNECTS_TO", rels[0].Type)
	assert.Equal(t, 0, rels[0].SourceIndex)
	assert.Equal(t, 1, rels[0].TargetIndex)
}
