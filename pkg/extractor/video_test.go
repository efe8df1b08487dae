package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestNewVideoExtractorDefaults(t *testing.T) {
	e := NewVideoExtractor(VideoConfig{})
	assert.Equal(t, "ffmpeg", e.ffmpegPath)
	assert.Equal(t, 5, e.intervalSeconds)
	assert.Equal(t, 30, e.maxFrames)
	assert.Equal(t, types.UPLOAD_KIND_VIDEO, e.Kind())
}

func TestNewVideoExtractorConfigured(t *testing.T) {
	e := NewVideoExtractor(VideoConfig{
		FFmpegPath:      "/opt/ffmpeg/bin/ffmpeg",
		IntervalSeconds: 2,
		MaxFrames:       10,
	})
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", e.ffmpegPath)
	assert.Equal(t, 2, e.intervalSeconds)
	assert.Equal(t, 10, e.maxFrames)
}
