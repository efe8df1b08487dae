package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/google/uuid"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/app/logic/v1/process"
	"github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/types"
	"github.com/explainium/explainium/pkg/utils"
)

type DocumentLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewDocumentLogic(ctx context.Context, core *core.Core) *DocumentLogic {
	return &DocumentLogic{
		ctx:  ctx,
		core: core,
	}
}

// validationError maps extractor sentinels onto API errors so every upload
// endpoint reports format and size problems the same way.
func validationError(trace string, err error) error {
	switch err {
	case extractor.ErrUnsupportedFormat:
		return errors.New(trace, errors.ERROR_UNSUPPORTED_FORMAT, err).Code(http.StatusUnsupportedMediaType)
	case extractor.ErrPayloadTooLarge:
		return errors.New(trace, errors.ERROR_PAYLOAD_TOO_LARGE, err).Code(http.StatusRequestEntityTooLarge)
	default:
		return errors.New(trace, errors.ERROR_INVALID_ARGUMENT, err).Code(http.StatusBadRequest)
	}
}

// CreateUpload validates, stores and registers one upload of any kind, and
// returns the pending document. Extraction happens later, off the worker
// pool, unless the caller processes synchronously.
func (l *DocumentLogic) CreateUpload(kind types.UploadKind, filename string, data []byte) (*types.Document, error) {
	ext, err := l.core.Validation().Validate(kind, filename, int64(len(data)))
	if err != nil {
		return nil, validationError("DocumentLogic.CreateUpload.Validate", err)
	}

	storageName := utils.GenStorageName(filename)
	if err = l.core.FileStore().Put(l.ctx, storageName, data); err != nil {
		return nil, errors.New("DocumentLogic.CreateUpload.FileStore.Put", errors.ERROR_STORAGE_FAILURE, err)
	}

	doc := types.Document{
		ID:          uuid.NewString(),
		Filename:    filename,
		Kind:        kind,
		FileType:    ext[1:],
		Status:      types.DOCUMENT_STATUS_PENDING,
		StorageName: storageName,
		Metadata:    types.Metadata{},
	}
	if err = l.core.Store().DocumentStore().Create(l.ctx, doc); err != nil {
		// The stored object is unreachable without a row; clean it up.
		_ = l.core.FileStore().Delete(l.ctx, storageName)
		return nil, errors.New("DocumentLogic.CreateUpload.DocumentStore.Create", errors.ERROR_INTERNAL, err)
	}

	return &doc, nil
}

// UploadDocument registers a document-kind file and queues it for async
// extraction.
func (l *DocumentLogic) UploadDocument(filename string, data []byte) (*types.Document, error) {
	doc, err := l.CreateUpload(types.UPLOAD_KIND_DOCUMENT, filename, data)
	if err != nil {
		return nil, err
	}

	process.NewExtractRequest(*doc)
	return doc, nil
}

func (l *DocumentLogic) GetDocument(id string) (*types.Document, error) {
	doc, err := l.core.Store().DocumentStore().Get(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("DocumentLogic.GetDocument.DocumentStore.Get", errors.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
		}
		return nil, errors.New("DocumentLogic.GetDocument.DocumentStore.Get", errors.ERROR_INTERNAL, err)
	}
	return doc, nil
}

type DocumentList struct {
	List  []types.DocumentSummary `json:"list"`
	Total int64                   `json:"total"`
}

func (l *DocumentLogic) ListDocuments(opts types.ListDocumentOptions, page, pageSize uint64) (*DocumentList, error) {
	list, err := l.core.Store().DocumentStore().ListSummaries(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListDocuments.DocumentStore.ListSummaries", errors.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().DocumentStore().Total(l.ctx, opts)
	if err != nil {
		return nil, errors.New("DocumentLogic.ListDocuments.DocumentStore.Total", errors.ERROR_INTERNAL, err)
	}

	if list == nil {
		list = []types.DocumentSummary{}
	}
	return &DocumentList{List: list, Total: total}, nil
}

// DocumentContent is the full extraction readout for one document.
type DocumentContent struct {
	ID       string               `json:"id"`
	Status   types.DocumentStatus `json:"status"`
	Content  string               `json:"content"`
	Metadata types.Metadata       `json:"metadata"`
}

func (l *DocumentLogic) GetContent(id string) (*DocumentContent, error) {
	doc, err := l.GetDocument(id)
	if err != nil {
		return nil, err
	}
	return &DocumentContent{
		ID:       doc.ID,
		Status:   doc.Status,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}, nil
}

func (l *DocumentLogic) UpdateDocument(id string, args types.UpdateDocumentArgs) error {
	if _, err := l.GetDocument(id); err != nil {
		return err
	}
	if err := l.core.Store().DocumentStore().Update(l.ctx, id, args); err != nil {
		return errors.New("DocumentLogic.UpdateDocument.DocumentStore.Update", errors.ERROR_INTERNAL, err)
	}
	return nil
}

// DeleteDocument removes the document row, all derived records and the
// stored objects. Child rows go with the row through foreign keys; the
// filestore objects need explicit cleanup.
func (l *DocumentLogic) DeleteDocument(id string) error {
	doc, err := l.GetDocument(id)
	if err != nil {
		return err
	}

	frames, err := l.core.Store().VideoFrameStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("DocumentLogic.DeleteDocument.VideoFrameStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}

	if err = l.core.Store().DocumentStore().Delete(l.ctx, id); err != nil {
		return errors.New("DocumentLogic.DeleteDocument.DocumentStore.Delete", errors.ERROR_INTERNAL, err)
	}

	if doc.StorageName != "" {
		_ = l.core.FileStore().Delete(l.ctx, doc.StorageName)
	}
	for _, f := range frames {
		_ = l.core.FileStore().Delete(l.ctx, f.StorageName)
	}
	return nil
}

func (l *DocumentLogic) ListEntities(id string) ([]types.KnowledgeEntity, error) {
	if _, err := l.GetDocument(id); err != nil {
		return nil, err
	}
	res, err := l.core.Store().KnowledgeEntityStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListEntities.KnowledgeEntityStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}
	return res, nil
}

func (l *DocumentLogic) ListCategories(id string) ([]types.ContentCategory, error) {
	if _, err := l.GetDocument(id); err != nil {
		return nil, err
	}
	res, err := l.core.Store().ContentCategoryStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListCategories.ContentCategoryStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}
	return res, nil
}

func (l *DocumentLogic) ListKeyPhrases(id string) ([]types.KeyPhrase, error) {
	if _, err := l.GetDocument(id); err != nil {
		return nil, err
	}
	res, err := l.core.Store().KeyPhraseStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListKeyPhrases.KeyPhraseStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}
	return res, nil
}

func (l *DocumentLogic) ListStructures(id string) ([]types.DocumentStructure, error) {
	if _, err := l.GetDocument(id); err != nil {
		return nil, err
	}
	res, err := l.core.Store().DocumentStructureStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListStructures.DocumentStructureStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}
	return res, nil
}

func (l *DocumentLogic) ListRelationships(id string) ([]types.KnowledgeRelationship, error) {
	if _, err := l.GetDocument(id); err != nil {
		return nil, err
	}
	res, err := l.core.Store().KnowledgeRelationshipStore().ListByDocument(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.ListRelationships.KnowledgeRelationshipStore.ListByDocument", errors.ERROR_INTERNAL, err)
	}
	return res, nil
}
