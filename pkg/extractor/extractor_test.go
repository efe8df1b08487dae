package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestValidate(t *testing.T) {
	cfg := DefaultValidationConfig()

	tests := []struct {
		name     string
		kind     types.UploadKind
		filename string
		size     int64
		wantExt  string
		wantErr  error
	}{
		{"pdf ok", types.UPLOAD_KIND_DOCUMENT, "manual.pdf", 1024, ".pdf", nil},
		{"uppercase ext normalized", types.UPLOAD_KIND_DOCUMENT, "MANUAL.PDF", 1024, ".pdf", nil},
		{"docx ok", types.UPLOAD_KIND_DOCUMENT, "sop.docx", 1024, ".docx", nil},
		{"txt ok", types.UPLOAD_KIND_DOCUMENT, "notes.txt", 1, ".txt", nil},
		{"image ok", types.UPLOAD_KIND_IMAGE, "label.jpeg", 1024, ".jpeg", nil},
		{"video ok", types.UPLOAD_KIND_VIDEO, "walkthrough.mov", 1024, ".mov", nil},
		{"wrong kind for ext", types.UPLOAD_KIND_IMAGE, "manual.pdf", 1024, "", ErrUnsupportedFormat},
		{"unknown ext", types.UPLOAD_KIND_DOCUMENT, "archive.zip", 1024, "", ErrUnsupportedFormat},
		{"no ext", types.UPLOAD_KIND_DOCUMENT, "README", 1024, "", ErrUnsupportedFormat},
		{"unknown kind", types.UPLOAD_KIND_UNKNOWN, "manual.pdf", 1024, "", ErrUnsupportedFormat},
		{"image too large", types.UPLOAD_KIND_IMAGE, "scan.png", 21 << 20, "", ErrPayloadTooLarge},
		{"video too large", types.UPLOAD_KIND_VIDEO, "train.mp4", 501 << 20, "", ErrPayloadTooLarge},
		{"zero size", types.UPLOAD_KIND_DOCUMENT, "manual.pdf", 0, "", ErrEmptyPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := cfg.Validate(tt.kind, tt.filename, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestValidateBoundarySize(t *testing.T) {
	cfg := DefaultValidationConfig()

	ext, err := cfg.Validate(types.UPLOAD_KIND_IMAGE, "scan.png", 20<<20)
	assert.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = cfg.Validate(types.UPLOAD_KIND_IMAGE, "scan.png", 20<<20+1)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestSetForKind(t *testing.T) {
	set := NewSet(NewTextExtractor(0))

	e, ok := set.ForKind(types.UPLOAD_KIND_DOCUMENT)
	assert.True(t, ok)
	assert.Equal(t, types.UPLOAD_KIND_DOCUMENT, e.Kind())

	_, ok = set.ForKind(types.UPLOAD_KIND_VIDEO)
	assert.False(t, ok)
}
