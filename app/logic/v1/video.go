package v1

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/app/logic/v1/process"
	pkgerrors "github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/types"
)

type VideoLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewVideoLogic(ctx context.Context, core *core.Core) *VideoLogic {
	return &VideoLogic{
		ctx:  ctx,
		core: core,
	}
}

// FrameView is one sampled frame with its JPEG bytes inlined.
type FrameView struct {
	FrameIndex   int     `json:"frame_index"`
	TimestampSec float64 `json:"timestamp_sec"`
	Image        string  `json:"image"`
}

// VideoUploadResult is returned synchronously: frame sampling runs on the
// request path so the response carries the frame count and a preview strip.
type VideoUploadResult struct {
	Document        *types.Document `json:"document"`
	FramesExtracted int             `json:"frames_extracted"`
	Preview         []FrameView     `json:"preview_frames"`
}

// UploadVideo stores the video, samples frames inline and returns the frame
// count plus the first preview frames as base64.
func (l *VideoLogic) UploadVideo(filename string, data []byte) (*VideoUploadResult, error) {
	doc, err := NewDocumentLogic(l.ctx, l.core).CreateUpload(types.UPLOAD_KIND_VIDEO, filename, data)
	if err != nil {
		return nil, err
	}

	// staleBefore 0: only the fresh pending row qualifies, no stale takeover.
	claimed, err := l.core.Store().DocumentStore().Claim(l.ctx, doc.ID, 0)
	if err != nil {
		return nil, pkgerrors.New("VideoLogic.UploadVideo.Claim", pkgerrors.ERROR_INTERNAL, err)
	}
	if !claimed {
		return nil, pkgerrors.New("VideoLogic.UploadVideo.Claim", pkgerrors.ERROR_INTERNAL, nil)
	}

	if err = process.ProcessDocument(l.ctx, l.core, *doc); err != nil {
		_ = l.core.Store().DocumentStore().FailProcessing(l.ctx, doc.ID, err.Error())

		switch {
		case errors.Is(err, extractor.ErrExtractionFailed):
			return nil, pkgerrors.New("VideoLogic.UploadVideo.Process", pkgerrors.ERROR_EXTRACTION_FAILED, err).Code(http.StatusUnprocessableEntity)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, pkgerrors.New("VideoLogic.UploadVideo.Process", pkgerrors.ERROR_TIMEOUT_EXCEEDED, err).Code(http.StatusGatewayTimeout)
		default:
			return nil, pkgerrors.New("VideoLogic.UploadVideo.Process", pkgerrors.ERROR_INTERNAL, err)
		}
	}

	completed, err := l.core.Store().DocumentStore().Get(l.ctx, doc.ID)
	if err != nil {
		return nil, pkgerrors.New("VideoLogic.UploadVideo.Get", pkgerrors.ERROR_INTERNAL, err)
	}

	frames, err := l.core.Store().VideoFrameStore().ListByDocument(l.ctx, doc.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, pkgerrors.New("VideoLogic.UploadVideo.VideoFrameStore.ListByDocument", pkgerrors.ERROR_INTERNAL, err)
	}

	preview, err := buildPreview(frames, l.previewCount(), l.fetchFrame)
	if err != nil {
		return nil, pkgerrors.New("VideoLogic.UploadVideo.Preview", pkgerrors.ERROR_INTERNAL, err)
	}

	return &VideoUploadResult{
		Document:        completed,
		FramesExtracted: len(frames),
		Preview:         preview,
	}, nil
}

type FrameList struct {
	DocumentID string             `json:"document_id"`
	FrameCount int                `json:"frame_count"`
	Frames     []types.VideoFrame `json:"frames"`
	Preview    []FrameView        `json:"preview"`
}

// ListFrames returns the frame index of a processed video. The first
// preview frames come back inline as base64 so a client can render a strip
// without issuing one request per frame.
func (l *VideoLogic) ListFrames(id string) (*FrameList, error) {
	doc, err := NewDocumentLogic(l.ctx, l.core).GetDocument(id)
	if err != nil {
		return nil, err
	}
	if doc.Kind != types.UPLOAD_KIND_VIDEO {
		return nil, pkgerrors.New("VideoLogic.ListFrames.kind", pkgerrors.ERROR_INVALID_ARGUMENT, nil).Code(http.StatusBadRequest)
	}

	frames, err := l.core.Store().VideoFrameStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, pkgerrors.New("VideoLogic.ListFrames.VideoFrameStore.ListByDocument", pkgerrors.ERROR_INTERNAL, err)
	}

	preview, err := buildPreview(frames, l.previewCount(), l.fetchFrame)
	if err != nil {
		return nil, pkgerrors.New("VideoLogic.ListFrames.Preview", pkgerrors.ERROR_INTERNAL, err)
	}

	return &FrameList{
		DocumentID: id,
		FrameCount: len(frames),
		Frames:     frames,
		Preview:    preview,
	}, nil
}

func (l *VideoLogic) previewCount() int {
	if n := l.core.Cfg().Video.PreviewFrames; n > 0 {
		return n
	}
	return 3
}

func (l *VideoLogic) fetchFrame(storageName string) ([]byte, error) {
	return l.core.FileStore().Get(l.ctx, storageName)
}

// buildPreview inlines the first n frames as base64 views.
func buildPreview(frames []types.VideoFrame, n int, fetch func(string) ([]byte, error)) ([]FrameView, error) {
	var out []FrameView
	for _, f := range frames {
		if len(out) >= n {
			break
		}
		raw, err := fetch(f.StorageName)
		if err != nil {
			return nil, err
		}
		out = append(out, FrameView{
			FrameIndex:   f.FrameIndex,
			TimestampSec: f.TimestampSec,
			Image:        base64.StdEncoding.EncodeToString(raw),
		})
	}
	return out, nil
}

// GetFrame returns one frame's JPEG bytes by (document, index).
func (l *VideoLogic) GetFrame(id string, frameIndex int) (*FrameView, error) {
	frame, err := l.core.Store().VideoFrameStore().GetByIndex(l.ctx, id, frameIndex)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, pkgerrors.New("VideoLogic.GetFrame.VideoFrameStore.GetByIndex", pkgerrors.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, pkgerrors.New("VideoLogic.GetFrame.VideoFrameStore.GetByIndex", pkgerrors.ERROR_INTERNAL, err)
	}

	raw, err := l.core.FileStore().Get(l.ctx, frame.StorageName)
	if err != nil {
		return nil, pkgerrors.New("VideoLogic.GetFrame.FileStore.Get", pkgerrors.ERROR_INTERNAL, err)
	}

	return &FrameView{
		FrameIndex:   frame.FrameIndex,
		TimestampSec: frame.TimestampSec,
		Image:        base64.StdEncoding.EncodeToString(raw),
	}, nil
}
