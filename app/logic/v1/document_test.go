package v1

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
)

func TestValidationErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unsupported format", extractor.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, pkgerrors.ERROR_UNSUPPORTED_FORMAT},
		{"payload too large", extractor.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, pkgerrors.ERROR_PAYLOAD_TOO_LARGE},
		{"empty payload", extractor.ErrEmptyPayload, http.StatusBadRequest, pkgerrors.ERROR_INVALID_ARGUMENT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validationError("Test.Validate", tt.err)
			ce, ok := err.(*pkgerrors.CustomizedError)
			assert.True(t, ok)
			assert.Equal(t, tt.status, ce.GetCode())
			assert.Equal(t, tt.message, ce.Message())
		})
	}
}
