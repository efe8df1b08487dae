package process

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
)

func TestPermanentFailure(t *testing.T) {
	assert.True(t, permanentFailure(extractor.ErrUnsupportedFormat))
	assert.True(t, permanentFailure(extractor.ErrPayloadTooLarge))
	assert.True(t, permanentFailure(extractor.ErrEmptyPayload))
	assert.True(t, permanentFailure(fmt.Errorf("%w: bad frame data", extractor.ErrExtractionFailed)))

	// Exceeding the wall-clock budget does not heal on retry.
	assert.True(t, permanentFailure(context.DeadlineExceeded))
	assert.True(t, permanentFailure(fmt.Errorf("extract: %w", context.DeadlineExceeded)))

	assert.False(t, permanentFailure(errors.New("connection refused")))
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, pkgerrors.ERROR_TIMEOUT_EXCEEDED, failureMessage(context.DeadlineExceeded))
	assert.Equal(t, pkgerrors.ERROR_TIMEOUT_EXCEEDED, failureMessage(fmt.Errorf("extract: %w", context.DeadlineExceeded)))
	assert.Equal(t, "disk full", failureMessage(errors.New("disk full")))
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "unsupported_format", failureReason(extractor.ErrUnsupportedFormat))
	assert.Equal(t, "payload_too_large", failureReason(extractor.ErrPayloadTooLarge))
	assert.Equal(t, "empty_payload", failureReason(extractor.ErrEmptyPayload))
	assert.Equal(t, "extraction_failed", failureReason(extractor.ErrExtractionFailed))
	assert.Equal(t, "timeout", failureReason(context.DeadlineExceeded))
	assert.Equal(t, "internal", failureReason(errors.New("boom")))
}
