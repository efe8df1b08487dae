package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFullStage(t *testing.T) {
	text := "Maintenance Procedure\n\n" +
		"The technician performs a shutdown of the pump before inspection. " +
		"Wear safety glasses and gloves. Torque spec is 40 PSI on valve VLV-12."

	result := Extract(text, Config{})

	assert.NotEmpty(t, result.Entities)
	assert.NotEmpty(t, result.Categories)
	assert.NotEmpty(t, result.Phrases)
	assert.NotEmpty(t, result.Relationships)

	for _, r := range result.Relationships {
		assert.Less(t, r.SourceIndex, len(result.Entities))
		assert.Less(t, r.TargetIndex, len(result.Entities))
		assert.NotEqual(t, r.SourceIndex, r.TargetIndex)
	}
}

func TestExtractIdempotent(t *testing.T) {
	text := "Startup procedure: the operator calibrates sensor T-100 and checks 1200 RPM."

	first := Extract(text, Config{})
	second := Extract(text, Config{})
	assert.Equal(t, first, second)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.InDelta(t, 0.3, cfg.CategoryThreshold, 1e-9)
	assert.Equal(t, 10, cfg.MaxKeyPhrases)

	custom := Config{CategoryThreshold: 0.5, MaxKeyPhrases: 3}.withDefaults()
	assert.InDelta(t, 0.5, custom.CategoryThreshold, 1e-9)
	assert.Equal(t, 3, custom.MaxKeyPhrases)
}
