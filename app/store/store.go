package store

import (
	"context"

	"github.com/explainium/explainium/pkg/sqlstore"
	"github.com/explainium/explainium/pkg/types"
)

type DocumentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Document) error
	Get(ctx context.Context, id string) (*types.Document, error)
	List(ctx context.Context, opts types.ListDocumentOptions, page, pageSize uint64) ([]types.Document, error)
	ListSummaries(ctx context.Context, opts types.ListDocumentOptions, page, pageSize uint64) ([]types.DocumentSummary, error)
	Total(ctx context.Context, opts types.ListDocumentOptions) (int64, error)
	Update(ctx context.Context, id string, args types.UpdateDocumentArgs) error
	// Claim flips a pending document, or a processing one untouched since
	// staleBefore, to processing. It reports false when another worker won
	// the row.
	Claim(ctx context.Context, id string, staleBefore int64) (bool, error)
	FinishProcessing(ctx context.Context, id, content string, meta types.Metadata) error
	FailProcessing(ctx context.Context, id, reason string) error
	// SetRetryTimes bumps the retry counter in place; status stays as is.
	SetRetryTimes(ctx context.Context, id string, retryTimes int) error
	ListUnfinished(ctx context.Context, maxRetryTimes int, staleBefore int64, page, pageSize uint64) ([]types.Document, error)
	Delete(ctx context.Context, id string) error
}

type KnowledgeEntityStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data *types.KnowledgeEntity) error
	BatchCreate(ctx context.Context, datas []*types.KnowledgeEntity) error
	ListByDocument(ctx context.Context, documentID string) ([]types.KnowledgeEntity, error)
	Search(ctx context.Context, opts types.SearchEntityOptions) ([]types.KnowledgeEntity, error)
	CountByLabel(ctx context.Context) ([]types.LabelCount, error)
	AverageConfidence(ctx context.Context) (float64, error)
	Total(ctx context.Context) (int64, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type ContentCategoryStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.ContentCategory) error
	ListByDocument(ctx context.Context, documentID string) ([]types.ContentCategory, error)
	CountByCategory(ctx context.Context) ([]types.LabelCount, error)
	Total(ctx context.Context) (int64, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type KeyPhraseStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.KeyPhrase) error
	ListByDocument(ctx context.Context, documentID string) ([]types.KeyPhrase, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type DocumentStructureStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.DocumentStructure) error
	ListByDocument(ctx context.Context, documentID string) ([]types.DocumentStructure, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type KnowledgeRelationshipStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.KnowledgeRelationship) error
	ListByDocument(ctx context.Context, documentID string) ([]types.KnowledgeRelationship, error)
	CountByType(ctx context.Context) ([]types.LabelCount, error)
	Total(ctx context.Context) (int64, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

type VideoFrameStore interface {
	sqlstore.SqlCommons
	BatchCreate(ctx context.Context, datas []types.VideoFrame) error
	ListByDocument(ctx context.Context, documentID string) ([]types.VideoFrame, error)
	GetByIndex(ctx context.Context, documentID string, frameIndex int) (*types.VideoFrame, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
