package v1

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

func TestBuildPreviewInlinesFrames(t *testing.T) {
	frames := []types.VideoFrame{
		{FrameIndex: 0, TimestampSec: 0, StorageName: "frames/d/frame_00000.jpg"},
		{FrameIndex: 1, TimestampSec: 5, StorageName: "frames/d/frame_00001.jpg"},
		{FrameIndex: 2, TimestampSec: 10, StorageName: "frames/d/frame_00002.jpg"},
	}
	images := map[string][]byte{
		"frames/d/frame_00000.jpg": []byte("jpeg-0"),
		"frames/d/frame_00001.jpg": []byte("jpeg-1"),
	}
	fetch := func(name string) ([]byte, error) {
		raw, ok := images[name]
		if !ok {
			return nil, errors.New("unexpected fetch: " + name)
		}
		return raw, nil
	}

	preview, err := buildPreview(frames, 2, fetch)
	assert.NoError(t, err)
	assert.Len(t, preview, 2)

	assert.Equal(t, 0, preview[0].FrameIndex)
	assert.Equal(t, 5.0, preview[1].TimestampSec)

	decoded, err := base64.StdEncoding.DecodeString(preview[1].Image)
	assert.NoError(t, err)
	assert.Equal(t, []byte("jpeg-1"), decoded)
}

func TestBuildPreviewShortVideo(t *testing.T) {
	frames := []types.VideoFrame{
		{FrameIndex: 0, StorageName: "frames/d/frame_00000.jpg"},
	}
	fetch := func(string) ([]byte, error) { return []byte("jpeg"), nil }

	preview, err := buildPreview(frames, 3, fetch)
	assert.NoError(t, err)
	assert.Len(t, preview, 1)
}

func TestBuildPreviewFetchError(t *testing.T) {
	frames := []types.VideoFrame{
		{FrameIndex: 0, StorageName: "frames/d/frame_00000.jpg"},
	}
	fetch := func(string) ([]byte, error) { return nil, errors.New("object missing") }

	_, err := buildPreview(frames, 3, fetch)
	assert.Error(t, err)
}

func TestBuildPreviewNoFrames(t *testing.T) {
	preview, err := buildPreview(nil, 3, func(string) ([]byte, error) {
		t.Fatal("fetch must not run")
		return nil, nil
	})
	assert.NoError(t, err)
	assert.Empty(t, preview)
}
