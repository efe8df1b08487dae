package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestExtractEntitiesLabels(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{
			name:  "equipment",
			text:  "Check the feed pump before opening the main line.",
			label: types.ENTITY_LABEL_EQUIPMENT,
			want:  "pump",
		},
		{
			name:  "equipment tag",
			text:  "Replace the filter on unit AB-1042 during downtime.",
			label: types.ENTITY_LABEL_EQUIPMENT,
			want:  "AB-1042",
		},
		{
			name:  "safety item",
			text:  "All visitors must wear safety glasses in this area.",
			label: types.ENTITY_LABEL_SAFETY_ITEM,
			want:  "safety glasses",
		},
		{
			name:  "process step",
			text:  "Perform a full system shutdown before maintenance.",
			label: types.ENTITY_LABEL_PROCESS_STEP,
			want:  "shutdown",
		},
		{
			name:  "personnel role",
			text:  "The shift supervisor signs off the checklist.",
			label: types.ENTITY_LABEL_PERSONNEL_ROLE,
			want:  "supervisor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := ExtractEntities(tt.text)

			found := false
			for _, e := range entities {
				if e.Label != tt.label {
					continue
				}
				if strings.EqualFold(e.Text, tt.want) {
					found = true
					assert.Equal(t, tt.want, tt.text[e.Start:e.End], "span offsets must match text")
					assert.Contains(t, e.Context, e.Text)
				}
			}
			assert.True(t, found, "expected %q entity %q in %q, got %+v", tt.label, tt.want, tt.text, entities)
		})
	}
}

func TestExtractEntitiesUppercaseSafetyWarning(t *testing.T) {
	entities := ExtractEntities("HAZARD: WEAR PPE AT ALL TIMES")

	var labels []string
	for _, e := range entities {
		labels = append(labels, e.Label)
	}
	assert.Contains(t, labels, types.ENTITY_LABEL_SAFETY_ITEM)
}

func TestExtractEntitiesSafetyConfidence(t *testing.T) {
	entities := ExtractEntities("The operator wears a hard hat near the conveyor belt.")
	assert.NotEmpty(t, entities)

	for _, e := range entities {
		if e.Label == types.ENTITY_LABEL_SAFETY_ITEM {
			assert.InDelta(t, 0.9, e.Confidence, 1e-9)
		} else {
			assert.InDelta(t, 0.8, e.Confidence, 1e-9)
		}
	}
}

func TestExtractEntitiesNoOverlaps(t *testing.T) {
	text := "The maintenance technician inspects the hydraulic pump motor assembly, " +
		"then the operator wears safety glasses during the lockout procedure."
	entities := ExtractEntities(text)
	assert.NotEmpty(t, entities)

	for i := 1; i < len(entities); i++ {
		assert.GreaterOrEqual(t, entities[i].Start, entities[i-1].End,
			"spans %q and %q overlap", entities[i-1].Text, entities[i].Text)
	}
}

func TestExtractEntitiesDeterministic(t *testing.T) {
	text := "Step 1: the operator starts the pump. Step 2: check the pressure gauge while wearing gloves."

	first := ExtractEntities(text)
	second := ExtractEntities(text)
	assert.Equal(t, first, second)
}

func TestExtractEntitiesEmptyText(t *testing.T) {
	assert.Empty(t, ExtractEntities(""))
	assert.Empty(t, ExtractEntities("nothing matches here at all"))
}
