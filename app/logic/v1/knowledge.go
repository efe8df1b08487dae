package v1

import (
	"context"
	"database/sql"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/types"
)

type KnowledgeLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewKnowledgeLogic(ctx context.Context, core *core.Core) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:  ctx,
		core: core,
	}
}

const maxSearchLimit = 200

// SearchEntities queries extracted entities across all documents.
func (l *KnowledgeLogic) SearchEntities(opts types.SearchEntityOptions) ([]types.KnowledgeEntity, error) {
	if opts.Limit == 0 || opts.Limit > maxSearchLimit {
		opts.Limit = maxSearchLimit
	}

	res, err := l.core.Store().KnowledgeEntityStore().Search(l.ctx, opts)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("KnowledgeLogic.SearchEntities.KnowledgeEntityStore.Search", errors.ERROR_INTERNAL, err)
	}
	if res == nil {
		res = []types.KnowledgeEntity{}
	}
	return res, nil
}

// Stats aggregates extraction volume and distribution across the corpus.
func (l *KnowledgeLogic) Stats() (*types.KnowledgeStats, error) {
	stats := &types.KnowledgeStats{
		EntityTypes:          map[string]int64{},
		RelationshipTypes:    map[string]int64{},
		CategoryDistribution: map[string]int64{},
	}

	var err error
	if stats.TotalDocuments, err = l.core.Store().DocumentStore().Total(l.ctx, types.ListDocumentOptions{}); err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.DocumentStore.Total", errors.ERROR_INTERNAL, err)
	}
	if stats.TotalEntities, err = l.core.Store().KnowledgeEntityStore().Total(l.ctx); err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.KnowledgeEntityStore.Total", errors.ERROR_INTERNAL, err)
	}
	if stats.TotalRelationships, err = l.core.Store().KnowledgeRelationshipStore().Total(l.ctx); err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.KnowledgeRelationshipStore.Total", errors.ERROR_INTERNAL, err)
	}
	if stats.TotalCategories, err = l.core.Store().ContentCategoryStore().Total(l.ctx); err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.ContentCategoryStore.Total", errors.ERROR_INTERNAL, err)
	}

	entityCounts, err := l.core.Store().KnowledgeEntityStore().CountByLabel(l.ctx)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.KnowledgeEntityStore.CountByLabel", errors.ERROR_INTERNAL, err)
	}
	for _, c := range entityCounts {
		stats.EntityTypes[c.Label] = c.Count
	}

	relCounts, err := l.core.Store().KnowledgeRelationshipStore().CountByType(l.ctx)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.KnowledgeRelationshipStore.CountByType", errors.ERROR_INTERNAL, err)
	}
	for _, c := range relCounts {
		stats.RelationshipTypes[c.Label] = c.Count
	}

	categoryCounts, err := l.core.Store().ContentCategoryStore().CountByCategory(l.ctx)
	if err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.ContentCategoryStore.CountByCategory", errors.ERROR_INTERNAL, err)
	}
	for _, c := range categoryCounts {
		stats.CategoryDistribution[c.Label] = c.Count
	}

	if stats.AverageConfidence, err = l.core.Store().KnowledgeEntityStore().AverageConfidence(l.ctx); err != nil {
		return nil, errors.New("KnowledgeLogic.Stats.KnowledgeEntityStore.AverageConfidence", errors.ERROR_INTERNAL, err)
	}

	return stats, nil
}
