package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestClassifyContentSafetyDocument(t *testing.T) {
	text := "Safety procedure: identify each hazard, wear PPE, and follow " +
		"OSHA lockout tagout rules before entering a confined space."

	categories := ClassifyContent(text, 0.3)
	assert.NotEmpty(t, categories)
	assert.Equal(t, types.CATEGORY_SAFETY_DOCUMENTATION, categories[0].Name)
	assert.Greater(t, categories[0].Confidence, 0.3)
	assert.LessOrEqual(t, categories[0].Confidence, 0.95)
	assert.Contains(t, categories[0].Keywords, "hazard")
	assert.Contains(t, categories[0].Keywords, "lockout")
}

func TestClassifyContentThreshold(t *testing.T) {
	// One hit out of nine maintenance keywords yields 2/9, below a 0.3
	// threshold but above 0.2.
	text := "annual repair schedule"

	assert.Empty(t, ClassifyContent(text, 0.3))

	categories := ClassifyContent(text, 0.2)
	assert.Len(t, categories, 1)
	assert.Equal(t, types.CATEGORY_MAINTENANCE_GUIDE, categories[0].Name)
	assert.InDelta(t, 2.0/9.0, categories[0].Confidence, 1e-9)
}

func TestClassifyContentConfidenceCap(t *testing.T) {
	text := "safety hazard ppe osha emergency accident injury lockout tagout confined space chemical msds"

	categories := ClassifyContent(text, 0.3)
	assert.NotEmpty(t, categories)
	assert.Equal(t, types.CATEGORY_SAFETY_DOCUMENTATION, categories[0].Name)
	assert.InDelta(t, 0.95, categories[0].Confidence, 1e-9)
}

func TestClassifyContentOrderingStable(t *testing.T) {
	text := "This training course covers the startup procedure and the shutdown " +
		"procedure, with a skills assessment and operator certification."

	first := ClassifyContent(text, 0.3)
	second := ClassifyContent(text, 0.3)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].Confidence, first[i].Confidence)
	}
}

func TestClassifyContentEmpty(t *testing.T) {
	assert.Empty(t, ClassifyContent("", 0.3))
}
