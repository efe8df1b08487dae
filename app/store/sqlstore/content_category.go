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
		provider.stores.ContentCategoryStore = NewContentCategoryStore(provider)
	})
}

type ContentCategoryStore struct {
	CommonFields
}

func NewContentCategoryStore(provider SqlProviderAchieve) *ContentCategoryStore {
	repo := &ContentCategoryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_CONTENT_CATEGORY)
	repo.SetAllColumns("id", "document_id", "category", "confidence", "keywords", "created_at")
	return repo
}

func (s *ContentCategoryStore) BatchCreate(ctx context.Context, datas []types.ContentCategory) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "category", "confidence", "keywords", "created_at")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.Category, data.Confidence, data.Keywords, data.CreatedAt)
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

func (s *ContentCategoryStore) ListByDocument(ctx context.Context, documentID string) ([]types.ContentCategory, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("confidence DESC", "category ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ContentCategory
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ContentCategoryStore) CountByCategory(ctx context.Context) ([]types.LabelCount, error) {
	query := sq.Select("category AS label", "COUNT(*) AS count").From(s.GetTable()).
		GroupBy("category").OrderBy("category ASC")

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

func (s *ContentCategoryStore) Total(ctx context.Context) (int64, error) {
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

func (s *ContentCategoryStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
