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
		provider.stores.VideoFrameStore = NewVideoFrameStore(provider)
	})
}

type VideoFrameStore struct {
	CommonFields
}

func NewVideoFrameStore(provider SqlProviderAchieve) *VideoFrameStore {
	repo := &VideoFrameStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_VIDEO_FRAME)
	repo.SetAllColumns("id", "document_id", "frame_index", "timestamp_sec", "storage_name", "created_at")
	return repo
}

func (s *VideoFrameStore) BatchCreate(ctx context.Context, datas []types.VideoFrame) error {
	if len(datas) == 0 {
		return nil
	}

	now := time.Now().Unix()
	query := sq.Insert(s.GetTable()).
		Columns("document_id", "frame_index", "timestamp_sec", "storage_name", "created_at")
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = now
		}
		query = query.Values(data.DocumentID, data.FrameIndex, data.TimestampSec, data.StorageName, data.CreatedAt)
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

func (s *VideoFrameStore) ListByDocument(ctx context.Context, documentID string) ([]types.VideoFrame, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("frame_index ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.VideoFrame
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *VideoFrameStore) GetByIndex(ctx context.Context, documentID string, frameIndex int) (*types.VideoFrame, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID, "frame_index": frameIndex})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.VideoFrame
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *VideoFrameStore) DeleteByDocument(ctx context.Context, documentID string) error {
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
