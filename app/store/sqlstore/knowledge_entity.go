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
		provider.stores.KnowledgeEntityStore = NewKnowledgeEntityStore(provider)
	})
}

type KnowledgeEntityStore struct {
	CommonFields
}

func NewKnowledgeEntityStore(provider SqlProviderAchieve) *KnowledgeEntityStore {
	repo := &KnowledgeEntityStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_KNOWLEDGE_ENTITY)
	repo.SetAllColumns("id", "document_id", "text", "label", "confidence", "start_pos", "end_pos", "context", "created_at")
	return repo
}

// Create inserts one entity and writes the generated id back onto data. The
// pipeline needs the ids to wire up relationships.
func (s *KnowledgeEntityStore) Create(ctx context.Context, data *types.KnowledgeEntity) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns("document_id", "text", "label", "confidence", "start_pos", "end_pos", "context", "created_at").
		Values(data.DocumentID, data.Text, data.Label, data.Confidence, data.StartPos, data.EndPos, data.Context, data.CreatedAt).
		Suffix("RETURNING id")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	return s.GetMaster(ctx).QueryRowx(queryString, args...).Scan(&data.ID)
}

func (s *KnowledgeEntityStore) BatchCreate(ctx context.Context, datas []*types.KnowledgeEntity) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "text", "label", "confidence", "start_pos", "end_pos", "context", "created_at").
		Suffix("RETURNING id")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.Text, data.Label, data.Confidence, data.StartPos, data.EndPos, data.Context, data.CreatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	rows, err := s.GetMaster(ctx).Queryx(queryString, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	// RETURNING yields ids in insertion order.
	for i := 0; rows.Next(); i++ {
		if err = rows.Scan(&datas[i].ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *KnowledgeEntityStore) ListByDocument(ctx context.Context, documentID string) ([]types.KnowledgeEntity, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("start_pos ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeEntity
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeEntityStore) Search(ctx context.Context, opts types.SearchEntityOptions) ([]types.KnowledgeEntity, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		OrderBy("confidence DESC", "id ASC")

	if opts.Query != "" {
		query = query.Where(sq.ILike{"text": "%" + opts.Query + "%"})
	}
	if len(opts.Labels) > 0 {
		query = query.Where(sq.Eq{"label": opts.Labels})
	}
	if opts.MinConfidence > 0 {
		query = query.Where(sq.GtOrEq{"confidence": opts.MinConfidence})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeEntity
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KnowledgeEntityStore) CountByLabel(ctx context.Context) ([]types.LabelCount, error) {
	query := sq.Select("label", "COUNT(*) AS count").From(s.GetTable()).
		GroupBy("label").OrderBy("label ASC")

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

func (s *KnowledgeEntityStore) AverageConfidence(ctx context.Context) (float64, error) {
	query := sq.Select("COALESCE(AVG(confidence), 0)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var avg float64
	if err = s.GetReplica(ctx).Get(&avg, queryString, args...); err != nil {
		return 0, err
	}
	return avg, nil
}

func (s *KnowledgeEntityStore) Total(ctx context.Context) (int64, error) {
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

func (s *KnowledgeEntityStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
