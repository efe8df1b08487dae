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
		provider.stores.DocumentStore = NewDocumentStore(provider)
	})
}

type DocumentStore struct {
	CommonFields
}

func NewDocumentStore(provider SqlProviderAchieve) *DocumentStore {
	repo := &DocumentStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_DOCUMENT)
	repo.SetAllColumns("id", "filename", "kind", "file_type", "status", "content", "metadata", "storage_name", "retry_times", "created_at", "updated_at")
	return repo
}

func (s *DocumentStore) Create(ctx context.Context, data types.Document) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	if data.Status == "" {
		data.Status = types.DOCUMENT_STATUS_PENDING
	}
	if data.Metadata == nil {
		data.Metadata = types.Metadata{}
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Filename, data.Kind, data.FileType, data.Status, data.Content,
			data.Metadata, data.StorageName, data.RetryTimes, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, id string) (*types.Document, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Document
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *DocumentStore) listConditions(query sq.SelectBuilder, opts types.ListDocumentOptions) sq.SelectBuilder {
	if opts.Kind != "" {
		query = query.Where(sq.Eq{"kind": opts.Kind})
	}
	if opts.FileType != "" {
		query = query.Where(sq.Eq{"file_type": opts.FileType})
	}
	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}
	return query
}

func (s *DocumentStore) List(ctx context.Context, opts types.ListDocumentOptions, page, pageSize uint64) ([]types.Document, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	query = s.listConditions(query, opts)
	if page != types.NO_PAGINATION && pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Document
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// ListSummaries is the listing projection: it skips the content column and
// joins in per-document entity and category counts.
func (s *DocumentStore) ListSummaries(ctx context.Context, opts types.ListDocumentOptions, page, pageSize uint64) ([]types.DocumentSummary, error) {
	entityTable := types.TABLE_KNOWLEDGE_ENTITY.Name()
	categoryTable := types.TABLE_CONTENT_CATEGORY.Name()

	query := sq.Select(
		"d.id", "d.filename", "d.kind", "d.file_type", "d.status",
		"LENGTH(d.content) AS content_length",
		"(SELECT COUNT(*) FROM "+entityTable+" e WHERE e.document_id = d.id) AS entity_count",
		"(SELECT COUNT(*) FROM "+categoryTable+" c WHERE c.document_id = d.id) AS category_count",
		"d.created_at",
	).From(s.GetTable() + " d").OrderBy("d.created_at DESC")

	if opts.Kind != "" {
		query = query.Where(sq.Eq{"d.kind": opts.Kind})
	}
	if opts.FileType != "" {
		query = query.Where(sq.Eq{"d.file_type": opts.FileType})
	}
	if opts.Status != nil {
		query = query.Where(sq.Eq{"d.status": *opts.Status})
	}
	if page != types.NO_PAGINATION && pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.DocumentSummary
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocumentStore) Total(ctx context.Context, opts types.ListDocumentOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	query = s.listConditions(query, opts)

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

func (s *DocumentStore) Update(ctx context.Context, id string, args types.UpdateDocumentArgs) error {
	query := sq.Update(s.GetTable()).Where(sq.Eq{"id": id}).Set("updated_at", time.Now().Unix())
	if args.Filename != "" {
		query = query.Set("filename", args.Filename)
	}
	if args.Metadata != nil {
		query = query.Set("metadata", args.Metadata)
	}

	queryString, sqlArgs, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, sqlArgs...); err != nil {
		return err
	}
	return nil
}

// Claim transitions a pending document to processing. The status condition
// makes the update a row-level claim: two workers racing on the same id see
// exactly one affected row between them. A processing row whose updated_at
// is at or before staleBefore is claimable too, which is how abandoned rows
// from crashed workers get picked back up without ever leaving processing.
func (s *DocumentStore) Claim(ctx context.Context, id string, staleBefore int64) (bool, error) {
	query := sq.Update(s.GetTable()).
		Where(sq.Eq{"id": id}).
		Where(sq.Or{
			sq.Eq{"status": types.DOCUMENT_STATUS_PENDING},
			sq.And{
				sq.Eq{"status": types.DOCUMENT_STATUS_PROCESSING},
				sq.LtOrEq{"updated_at": staleBefore},
			},
		}).
		Set("status", types.DOCUMENT_STATUS_PROCESSING).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *DocumentStore) FinishProcessing(ctx context.Context, id, content string, meta types.Metadata) error {
	if meta == nil {
		meta = types.Metadata{}
	}
	query := sq.Update(s.GetTable()).
		Where(sq.Eq{"id": id, "status": types.DOCUMENT_STATUS_PROCESSING}).
		Set("status", types.DOCUMENT_STATUS_COMPLETED).
		Set("content", content).
		Set("metadata", meta).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *DocumentStore) FailProcessing(ctx context.Context, id, reason string) error {
	query := sq.Update(s.GetTable()).
		Where(sq.Eq{"id": id, "status": types.DOCUMENT_STATUS_PROCESSING}).
		Set("status", types.DOCUMENT_STATUS_FAILED).
		Set("metadata", types.Metadata{types.META_KEY_ERROR: reason}).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

// SetRetryTimes records a retry without touching status. The bumped
// updated_at keeps the row out of the stale sweep for another full timeout
// window.
func (s *DocumentStore) SetRetryTimes(ctx context.Context, id string, retryTimes int) error {
	query := sq.Update(s.GetTable()).Where(sq.Eq{"id": id}).
		Set("retry_times", retryTimes).
		Set("updated_at", time.Now().Unix())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

// ListUnfinished returns documents the worker pool should pick up, oldest
// first: pending document-kind rows below the retry budget, and any row
// abandoned in either status since before staleBefore. Fresh pending rows of
// the synchronous kinds (image, video) are owned by the request that created
// them and stay off this list until they go stale.
func (s *DocumentStore) ListUnfinished(ctx context.Context, maxRetryTimes int, staleBefore int64, page, pageSize uint64) ([]types.Document, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Lt{"retry_times": maxRetryTimes}).
		Where(sq.Or{
			sq.And{
				sq.Eq{"status": types.DOCUMENT_STATUS_PENDING},
				sq.Or{
					sq.Eq{"kind": types.UPLOAD_KIND_DOCUMENT},
					sq.LtOrEq{"updated_at": staleBefore},
				},
			},
			sq.And{
				sq.Eq{"status": types.DOCUMENT_STATUS_PROCESSING},
				sq.LtOrEq{"updated_at": staleBefore},
			},
		}).
		OrderBy("created_at ASC")
	if page != types.NO_PAGINATION && pageSize != types.NO_PAGINATION {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Document
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}
