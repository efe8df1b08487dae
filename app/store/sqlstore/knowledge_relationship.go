package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/explainium/explainium/pkg/register"
	"github.com/explainium/explainium/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.KnowledgeRelationshipStore = NewKnowledgeRelationshipStore(provider)
	})
}

type KnowledgeRelationshipStore struct {
	CommonFields
}

func NewKnowledgeRelationshipStore(provider SqlProviderAchieve) *KnowledgeRelationshipStore {
	repo := &KnowledgeRelationshipStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_KNOWLEDGE_RELATIONSHIP)
	repo.SetAllColumns("id", "document_id", "source_entity_id", "target_entity_id", "relationship_type", "confidence", "context", "created_at")
	return repo
}

func (s *KnowledgeRelationshipStore) BatchCreate(ctx context.Context, datas []types.KnowledgeRelationship) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "source_entity_id", "target_entity_id", "relationship_type", "confidence", "context", "created_at")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.SourceEntityID, data.TargetEntityID,
			data.RelationshipType, data.Confidence, data.Context, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *KnowledgeRelationshipStore) ListByDocument(ctx context.Context, documentID string) ([]types.KnowledgeRelationship, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("id ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeRelationship
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeRelationshipStore) CountByType(ctx context.Context) ([]types.LabelCount, error) {
	query := sq.Select("relationship_type AS label", "COUNT(*) AS count").From(s.GetTable()).
		GroupBy("relationship_type").OrderBy("relationship_type ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.LabelCount
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeRelationshipStore) Total(ctx context.Context) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *KnowledgeRelationshipStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}
