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
		provider.stores.DocumentStructureStore = NewDocumentStructureStore(provider)
	})
}

type DocumentStructureStore struct {
	CommonFields
}

func NewDocumentStructureStore(provider SqlProviderAchieve) *DocumentStructureStore {
	repo := &DocumentStructureStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_DOCUMENT_STRUCTURE)
	repo.SetAllColumns("id", "document_id", "structure_type", "content", "position", "level", "created_at")
	return repo
}

func (s *DocumentStructureStore) BatchCreate(ctx context.Context, datas []types.DocumentStructure) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "structure_type", "content", "position", "level", "created_at")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.StructureType, data.Content, data.Position, data.Level, data.CreatedAt)
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

func (s *DocumentStructureStore) ListByDocument(ctx context.Context, documentID string) ([]types.DocumentStructure, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("position ASC", "id ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.DocumentStructure
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocumentStructureStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
