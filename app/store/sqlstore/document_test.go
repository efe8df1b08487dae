package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/explainium/explainium/pkg/types"
)

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("EXPLAINIUM_TEST_POSTGRESQL_DSN")
}

func (m PGConfig) FormatDSN() string {
	return m.DSN
}

func setupTestProvider(t *testing.T) *Provider {
	cfg := PGConfig{}
	cfg.FromENV()
	if cfg.DSN == "" {
		t.Skip("EXPLAINIUM_TEST_POSTGRESQL_DSN is not set")
	}

	p := MustSetup(cfg)()
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDocumentLifecycle(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	doc := types.Document{
		ID:          uuid.NewString(),
		Filename:    "manual.pdf",
		Kind:        types.UPLOAD_KIND_DOCUMENT,
		FileType:    "pdf",
		StorageName: uuid.NewString() + ".pdf",
	}

	assert.NoError(t, p.DocumentStore().Create(ctx, doc))
	defer p.DocumentStore().Delete(ctx, doc.ID)

	got, err := p.DocumentStore().Get(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_PENDING, got.Status)

	claimed, err := p.DocumentStore().Claim(ctx, doc.ID, 0)
	assert.NoError(t, err)
	assert.True(t, claimed)

	// Second claim must lose: the row is no longer pending.
	claimed, err = p.DocumentStore().Claim(ctx, doc.ID, 0)
	assert.NoError(t, err)
	assert.False(t, claimed)

	assert.NoError(t, p.DocumentStore().FinishProcessing(ctx, doc.ID, "extracted text",
		types.Metadata{types.META_KEY_CONTENT_LENGTH: 14}))

	got, err = p.DocumentStore().Get(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_COMPLETED, got.Status)
	assert.Equal(t, "extracted text", got.Content)
}

func backdateDocument(t *testing.T, p *Provider, id string, ts int64) {
	t.Helper()
	ds := p.DocumentStore().(*DocumentStore)
	_, err := ds.GetMaster(context.Background()).Exec(
		"UPDATE "+ds.GetTable()+" SET updated_at = $1 WHERE id = $2", ts, id)
	assert.NoError(t, err)
}

func TestRetryKeepsStatusProcessing(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	doc := types.Document{
		ID:          uuid.NewString(),
		Filename:    "flaky.pdf",
		Kind:        types.UPLOAD_KIND_DOCUMENT,
		FileType:    "pdf",
		StorageName: uuid.NewString() + ".pdf",
	}
	assert.NoError(t, p.DocumentStore().Create(ctx, doc))
	defer p.DocumentStore().Delete(ctx, doc.ID)

	claimed, err := p.DocumentStore().Claim(ctx, doc.ID, 0)
	assert.NoError(t, err)
	assert.True(t, claimed)

	// A recorded retry must not move status backward.
	assert.NoError(t, p.DocumentStore().SetRetryTimes(ctx, doc.ID, 1))

	got, err := p.DocumentStore().Get(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_PROCESSING, got.Status)
	assert.Equal(t, 1, got.RetryTimes)

	// Fresh processing rows are not claimable.
	staleBefore := time.Now().Add(-time.Minute).Unix()
	claimed, err = p.DocumentStore().Claim(ctx, doc.ID, staleBefore)
	assert.NoError(t, err)
	assert.False(t, claimed)

	// Once abandoned long enough, the claim wins while the row stays in
	// processing the whole time.
	backdateDocument(t, p, doc.ID, time.Now().Add(-time.Minute*10).Unix())
	claimed, err = p.DocumentStore().Claim(ctx, doc.ID, staleBefore)
	assert.NoError(t, err)
	assert.True(t, claimed)

	got, err = p.DocumentStore().Get(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_PROCESSING, got.Status)
}

func TestListUnfinishedKindAndStaleness(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	pendingDoc := types.Document{
		ID: uuid.NewString(), Filename: "a.pdf",
		Kind: types.UPLOAD_KIND_DOCUMENT, FileType: "pdf",
	}
	pendingImage := types.Document{
		ID: uuid.NewString(), Filename: "b.png",
		Kind: types.UPLOAD_KIND_IMAGE, FileType: "png",
	}
	staleProcessing := types.Document{
		ID: uuid.NewString(), Filename: "c.png",
		Kind: types.UPLOAD_KIND_IMAGE, FileType: "png",
	}
	for _, d := range []types.Document{pendingDoc, pendingImage, staleProcessing} {
		assert.NoError(t, p.DocumentStore().Create(ctx, d))
		defer p.DocumentStore().Delete(ctx, d.ID)
	}

	claimed, err := p.DocumentStore().Claim(ctx, staleProcessing.ID, 0)
	assert.NoError(t, err)
	assert.True(t, claimed)
	backdateDocument(t, p, staleProcessing.ID, time.Now().Add(-time.Minute*10).Unix())

	staleBefore := time.Now().Add(-time.Minute).Unix()
	list, err := p.DocumentStore().ListUnfinished(ctx, 3, staleBefore, types.NO_PAGINATION, types.NO_PAGINATION)
	assert.NoError(t, err)

	ids := make(map[string]bool)
	for _, d := range list {
		ids[d.ID] = true
	}
	assert.True(t, ids[pendingDoc.ID], "pending document rows belong to the worker pool")
	assert.True(t, ids[staleProcessing.ID], "abandoned processing rows must come back")
	assert.False(t, ids[pendingImage.ID], "fresh pending image rows are request-owned")
}

func TestEntityBatchCreateReturnsIDs(t *testing.T) {
	p := setupTestProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	doc := types.Document{
		ID:       uuid.NewString(),
		Filename: "sop.txt",
		Kind:     types.UPLOAD_KIND_DOCUMENT,
		FileType: "txt",
	}
	assert.NoError(t, p.DocumentStore().Create(ctx, doc))
	defer p.DocumentStore().Delete(ctx, doc.ID)

	entities := []*types.KnowledgeEntity{
		{DocumentID: doc.ID, Text: "pump", Label: types.ENTITY_LABEL_EQUIPMENT, Confidence: 0.8, StartPos: 0, EndPos: 4},
		{DocumentID: doc.ID, Text: "operator", Label: types.ENTITY_LABEL_PERSONNEL_ROLE, Confidence: 0.8, StartPos: 10, EndPos: 18},
	}
	assert.NoError(t, p.KnowledgeEntityStore().BatchCreate(ctx, entities))
	assert.NotZero(t, entities[0].ID)
	assert.NotZero(t, entities[1].ID)
	assert.NotEqual(t, entities[0].ID, entities[1].ID)

	listed, err := p.KnowledgeEntityStore().ListByDocument(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, "pump", listed[0].Text)
}
