package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/app/logic/v1/process"
	pkgerrors "github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/types"
)

type ImageLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewImageLogic(ctx context.Context, core *core.Core) *ImageLogic {
	return &ImageLogic{
		ctx:  ctx,
		core: core,
	}
}

// ImageUploadResult is returned synchronously: images run through OCR on the
// request path instead of the worker pool.
type ImageUploadResult struct {
	Document *types.Document `json:"document"`
	Text     string          `json:"text"`
}

// UploadImage stores the image, runs OCR and the knowledge stage inline and
// returns the recognized text. The document comes back already completed.
func (l *ImageLogic) UploadImage(filename string, data []byte) (*ImageUploadResult, error) {
	doc, err := NewDocumentLogic(l.ctx, l.core).CreateUpload(types.UPLOAD_KIND_IMAGE, filename, data)
	if err != nil {
		return nil, err
	}

	// staleBefore 0: only the fresh pending row qualifies, no stale takeover.
	claimed, err := l.core.Store().DocumentStore().Claim(l.ctx, doc.ID, 0)
	if err != nil {
		return nil, pkgerrors.New("ImageLogic.UploadImage.Claim", pkgerrors.ERROR_INTERNAL, err)
	}
	if !claimed {
		return nil, pkgerrors.New("ImageLogic.UploadImage.Claim", pkgerrors.ERROR_INTERNAL, nil)
	}

	if err = process.ProcessDocument(l.ctx, l.core, *doc); err != nil {
		reason := err.Error()
		_ = l.core.Store().DocumentStore().FailProcessing(l.ctx, doc.ID, reason)

		switch {
		case errors.Is(err, extractor.ErrExtractionFailed):
			return nil, pkgerrors.New("ImageLogic.UploadImage.Process", pkgerrors.ERROR_EXTRACTION_FAILED, err).Code(http.StatusUnprocessableEntity)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, pkgerrors.New("ImageLogic.UploadImage.Process", pkgerrors.ERROR_TIMEOUT_EXCEEDED, err).Code(http.StatusGatewayTimeout)
		default:
			return nil, pkgerrors.New("ImageLogic.UploadImage.Process", pkgerrors.ERROR_INTERNAL, err)
		}
	}

	completed, err := l.core.Store().DocumentStore().Get(l.ctx, doc.ID)
	if err != nil {
		return nil, pkgerrors.New("ImageLogic.UploadImage.Get", pkgerrors.ERROR_INTERNAL, err)
	}

	return &ImageUploadResult{
		Document: completed,
		Text:     completed.Content,
	}, nil
}
