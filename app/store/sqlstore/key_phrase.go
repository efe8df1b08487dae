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
		provider.stores.KeyPhraseStore = NewKeyPhraseStore(provider)
	})
}

type KeyPhraseStore struct {
	CommonFields
}

func NewKeyPhraseStore(provider SqlProviderAchieve) *KeyPhraseStore {
	repo := &KeyPhraseStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_KEY_PHRASE)
	repo.SetAllColumns("id", "document_id", "phrase", "score", "created_at")
	return repo
}

func (s *KeyPhraseStore) BatchCreate(ctx context.Context, datas []types.KeyPhrase) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "phrase", "score", "created_at")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.Phrase, data.Score, data.CreatedAt)
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

func (s *KeyPhraseStore) ListByDocument(ctx context.Context, documentID string) ([]types.KeyPhrase, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("score DESC", "phrase ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KeyPhrase
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *KeyPhraseStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
