package core

import (
	"log/slog"
	"os"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/types"
)

func TestSetupConfigFromEnv(t *testing.T) {
	addr := "localhost:11111"
	os.Setenv("EXPLAINIUM_API_SERVICE_ADDRESS", addr)

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, cfg.Addr, addr)
}

func TestLogSlogLevel(t *testing.T) {
	l := Log{Level: "warn"}
	assert.Equal(t, slog.LevelWarn, l.SlogLevel())

	l = Log{Level: ""}
	assert.Equal(t, slog.LevelDebug, l.SlogLevel())
}

func TestValidationConfigDefaults(t *testing.T) {
	cfg := validationConfig(UploadConfig{})

	assert.Equal(t, int64(100<<20), cfg.MaxSizes[types.UPLOAD_KIND_DOCUMENT])
	assert.Equal(t, int64(20<<20), cfg.MaxSizes[types.UPLOAD_KIND_IMAGE])
	assert.Equal(t, int64(500<<20), cfg.MaxSizes[types.UPLOAD_KIND_VIDEO])
	assert.Contains(t, cfg.AllowedExts[types.UPLOAD_KIND_DOCUMENT], ".pdf")
}

func TestValidationConfigOverrides(t *testing.T) {
	cfg := validationConfig(UploadConfig{
		MaxDocumentSizeMB:  10,
		DocumentExtensions: []string{".txt"},
	})

	assert.Equal(t, int64(10<<20), cfg.MaxSizes[types.UPLOAD_KIND_DOCUMENT])
	assert.Equal(t, []string{".txt"}, cfg.AllowedExts[types.UPLOAD_KIND_DOCUMENT])

	// Untouched kinds keep their defaults.
	assert.Equal(t, int64(20<<20), cfg.MaxSizes[types.UPLOAD_KIND_IMAGE])
	assert.Contains(t, cfg.AllowedExts[types.UPLOAD_KIND_IMAGE], ".png")

	_, err := cfg.Validate(types.UPLOAD_KIND_DOCUMENT, "manual.pdf", 100)
	assert.ErrorIs(t, err, extractor.ErrUnsupportedFormat)

	ext, err := cfg.Validate(types.UPLOAD_KIND_DOCUMENT, "notes.txt", 100)
	assert.NoError(t, err)
	assert.Equal(t, ".txt", ext)

	_, err = cfg.Validate(types.UPLOAD_KIND_DOCUMENT, "notes.txt", 11<<20)
	assert.ErrorIs(t, err, extractor.ErrPayloadTooLarge)
}

func TestExtractConfigTOML(t *testing.T) {
	var cfg CoreConfig
	raw := []byte("[extract]\ncategory_threshold = 0.2\nmax_key_phrases = 5\n\n[upload]\nmax_image_size_mb = 8\n")
	assert.NoError(t, toml.Unmarshal(raw, &cfg))

	assert.Equal(t, 0.2, cfg.Extract.CategoryThreshold)
	assert.Equal(t, 5, cfg.Extract.MaxKeyPhrases)
	assert.Equal(t, int64(8), cfg.Upload.MaxImageSizeMB)
}
