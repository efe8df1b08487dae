package process

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"

	"github.com/explainium/explainium/app/core"
	pkgerrors "github.com/explainium/explainium/pkg/errors"
	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/knowledge"
	"github.com/explainium/explainium/pkg/safe"
	"github.com/explainium/explainium/pkg/types"
)

var documentProcess *DocumentProcess

// StartDocumentProcess boots the extraction worker pool. Workers pull
// documents off ExtractChan, claim them and run the full pipeline: load
// bytes, extract, run the knowledge stage and persist everything in one
// transaction.
func StartDocumentProcess(core *core.Core, concurrency int) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	documentProcess = &DocumentProcess{
		concurrency: concurrency,
		ctx:         ctx,
		core:        core,
		ExtractChan: make(chan *ExtractRequest, 1000),
		queued:      make(map[string]struct{}),
	}

	go safe.Run(documentProcess.Start)
	go safe.Run(documentProcess.Flush)
	return cancel
}

type DocumentProcess struct {
	concurrency int
	ctx         context.Context
	core        *core.Core
	ExtractChan chan *ExtractRequest

	mu     sync.Mutex
	queued map[string]struct{}
}

type ExtractRequest struct {
	data types.Document
}

func (p *DocumentProcess) Start() {
	for i := 0; i < p.concurrency; i++ {
		go safe.Run(func() {
			p.processLoop()
		})
	}
}

// Flush re-enqueues documents nobody is working on: pending rows below the
// retry budget, and processing rows whose updated_at is older than the job
// timeout. The latter covers crashed workers and in-place retries, which both
// leave the row in processing until something picks it up again.
func (p *DocumentProcess) Flush() {
	ctx, cancel := context.WithTimeout(p.ctx, time.Second*10)
	defer cancel()

	maxRetry := p.maxRetryTimes()
	list, err := p.core.Store().DocumentStore().ListUnfinished(ctx, maxRetry, p.staleBefore(), 1, 50)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to list unfinished documents", slog.String("error", err.Error()))
		return
	}

	if len(list) > 0 {
		slog.Info("document process flush", slog.Int("length", len(list)))
	}

	for _, v := range list {
		NewExtractRequest(v)
	}
}

// NewExtractRequest hands a document to the worker pool. Duplicate enqueues
// of the same id are dropped; the status claim makes duplicates harmless
// anyway, this just keeps the channel clean.
func NewExtractRequest(data types.Document) {
	if documentProcess == nil || documentProcess.ctx.Err() != nil {
		slog.Error("document process not running", slog.String("document_id", data.ID))
		return
	}

	documentProcess.mu.Lock()
	if _, ok := documentProcess.queued[data.ID]; ok {
		documentProcess.mu.Unlock()
		return
	}
	documentProcess.queued[data.ID] = struct{}{}
	documentProcess.mu.Unlock()

	select {
	case documentProcess.ExtractChan <- &ExtractRequest{data: data}:
		documentProcess.core.Metrics().SetQueueDepth(len(documentProcess.ExtractChan))
	default:
		documentProcess.dequeue(data.ID)
		slog.Warn("extract queue full, document stays pending", slog.String("document_id", data.ID))
	}
}

func (p *DocumentProcess) dequeue(id string) {
	p.mu.Lock()
	delete(p.queued, id)
	p.mu.Unlock()
}

func (p *DocumentProcess) processLoop() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.ExtractChan:
			if req == nil {
				continue
			}
			p.handle(req.data)
			p.core.Metrics().SetQueueDepth(len(p.ExtractChan))
		}
	}
}

func (p *DocumentProcess) jobTimeout() time.Duration {
	if s := p.core.Cfg().Process.JobTimeoutSeconds; s > 0 {
		return time.Duration(s) * time.Second
	}
	return time.Minute * 5
}

func (p *DocumentProcess) maxRetryTimes() int {
	if n := p.core.Cfg().Process.MaxRetryTimes; n > 0 {
		return n
	}
	return 3
}

// staleBefore is the unix timestamp separating live processing rows from
// abandoned ones. A row untouched for longer than the job timeout cannot
// still be inside a worker, its context would have expired.
func (p *DocumentProcess) staleBefore() int64 {
	return time.Now().Add(-p.jobTimeout()).Unix()
}

func (p *DocumentProcess) handle(doc types.Document) {
	defer p.dequeue(doc.ID)

	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout())
	defer cancel()

	claimed, err := p.core.Store().DocumentStore().Claim(ctx, doc.ID, p.staleBefore())
	if err != nil {
		slog.Error("failed to claim document", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
		return
	}
	if !claimed {
		return
	}

	if err = ProcessDocument(ctx, p.core, doc); err != nil {
		p.handleFailure(doc, err)
		return
	}

	p.core.Metrics().DocumentProcessedInc(doc.Kind.String(), types.DOCUMENT_STATUS_COMPLETED.String())
	slog.Info("document processed", slog.String("document_id", doc.ID), slog.String("kind", doc.Kind.String()))
}

// handleFailure decides between retry-in-place and permanent failure.
// Format, extraction and timeout errors never heal on retry. A transient
// failure bumps retry_times while the row stays in processing; the Flush
// sweep picks it up again once it goes stale, so status never moves
// backward.
func (p *DocumentProcess) handleFailure(doc types.Document, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	p.core.Metrics().ExtractionErrorInc(doc.Kind.String(), failureReason(cause))

	if !permanentFailure(cause) && doc.RetryTimes+1 < p.maxRetryTimes() {
		slog.Warn("document processing failed, will retry",
			slog.String("document_id", doc.ID),
			slog.Int("retry_times", doc.RetryTimes+1),
			slog.String("error", cause.Error()))
		if err := p.core.Store().DocumentStore().SetRetryTimes(ctx, doc.ID, doc.RetryTimes+1); err != nil {
			slog.Error("failed to record retry", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
		}
		return
	}

	slog.Error("document processing failed",
		slog.String("document_id", doc.ID),
		slog.String("error", cause.Error()))
	if err := p.core.Store().DocumentStore().FailProcessing(ctx, doc.ID, failureMessage(cause)); err != nil {
		slog.Error("failed to mark document failed", slog.String("document_id", doc.ID), slog.String("error", err.Error()))
	}
	p.core.Metrics().DocumentProcessedInc(doc.Kind.String(), types.DOCUMENT_STATUS_FAILED.String())
}

// permanentFailure reports whether retrying could possibly change the
// outcome. Exceeding the wall-clock budget counts as permanent: the same
// input would blow the same budget again.
func permanentFailure(err error) bool {
	return errors.Is(err, extractor.ErrUnsupportedFormat) ||
		errors.Is(err, extractor.ErrPayloadTooLarge) ||
		errors.Is(err, extractor.ErrEmptyPayload) ||
		errors.Is(err, extractor.ErrExtractionFailed) ||
		errors.Is(err, context.DeadlineExceeded)
}

// failureMessage is the reason stored in document metadata.
func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.ERROR_TIMEOUT_EXCEEDED
	}
	return err.Error()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, extractor.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, extractor.ErrEmptyPayload):
		return "empty_payload"
	case errors.Is(err, extractor.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// ProcessDocument runs the pipeline for one claimed document. The caller is
// responsible for the claim; this function only moves the document from
// processing to completed. All derived records land in a single transaction,
// so a failure at any stage leaves no partial extraction behind.
func ProcessDocument(ctx context.Context, c *core.Core, doc types.Document) error {
	raw, err := c.FileStore().Get(ctx, doc.StorageName)
	if err != nil {
		return fmt.Errorf("failed to load stored file: %w", err)
	}

	ex, ok := c.Extractors().ForKind(doc.Kind)
	if !ok {
		return extractor.ErrUnsupportedFormat
	}

	timer := c.Metrics().StageTimer("extract", doc.Kind.String())
	result, err := ex.Extract(ctx, raw, "."+doc.FileType)
	timer.ObserveDuration()
	if err != nil {
		return err
	}

	if doc.Kind == types.UPLOAD_KIND_VIDEO {
		return persistVideo(ctx, c, doc, result)
	}
	return persistText(ctx, c, doc, result)
}

func persistText(ctx context.Context, c *core.Core, doc types.Document, result *extractor.Result) error {
	timer := c.Metrics().StageTimer("knowledge", doc.Kind.String())
	extraction := knowledge.Extract(result.Text, knowledge.Config{
		CategoryThreshold: c.Cfg().Extract.CategoryThreshold,
		MaxKeyPhrases:     c.Cfg().Extract.MaxKeyPhrases,
	})
	timer.ObserveDuration()

	meta := types.Metadata{
		types.META_KEY_CONTENT_LENGTH:  len(result.Text),
		types.META_KEY_ORIGINAL_LENGTH: result.OriginalLength,
	}
	if result.Truncated {
		meta[types.META_KEY_TRUNCATED] = true
	}
	if result.Text != "" {
		info := whatlanggo.Detect(result.Text)
		meta[types.META_KEY_LANGUAGE] = info.Lang.Iso6393()
	}
	if doc.Kind == types.UPLOAD_KIND_IMAGE {
		meta[types.META_KEY_OCR_CONFIDENCE] = result.Confidence
	}

	entities := lo.Map(extraction.Entities, func(e knowledge.Entity, _ int) *types.KnowledgeEntity {
		return &types.KnowledgeEntity{
			DocumentID: doc.ID,
			Text:       e.Text,
			Label:      e.Label,
			Confidence: e.Confidence,
			StartPos:   e.Start,
			EndPos:     e.End,
			Context:    e.Context,
		}
	})

	categories := lo.Map(extraction.Categories, func(cat knowledge.Category, _ int) types.ContentCategory {
		return types.ContentCategory{
			DocumentID: doc.ID,
			Category:   cat.Name,
			Confidence: cat.Confidence,
			Keywords:   cat.Keywords,
		}
	})

	phrases := lo.Map(extraction.Phrases, func(ph knowledge.Phrase, _ int) types.KeyPhrase {
		return types.KeyPhrase{
			DocumentID: doc.ID,
			Phrase:     ph.Text,
			Score:      ph.Score,
		}
	})

	structures := lo.Map(result.Structures, func(st extractor.Structure, _ int) types.DocumentStructure {
		return types.DocumentStructure{
			DocumentID:    doc.ID,
			StructureType: st.Type,
			Content:       st.Content,
			Position:      st.Position,
			Level:         st.Level,
		}
	})

	return c.Store().Transaction(ctx, func(ctx context.Context) error {
		// Retries may find records from an earlier half-finished run.
		if err := clearDerivedRecords(ctx, c, doc.ID); err != nil {
			return err
		}

		if err := c.Store().KnowledgeEntityStore().BatchCreate(ctx, entities); err != nil {
			return fmt.Errorf("failed to store entities: %w", err)
		}

		relationships := lo.Map(extraction.Relationships, func(r knowledge.Relationship, _ int) types.KnowledgeRelationship {
			return types.KnowledgeRelationship{
				DocumentID:       doc.ID,
				SourceEntityID:   entities[r.SourceIndex].ID,
				TargetEntityID:   entities[r.TargetIndex].ID,
				RelationshipType: r.Type,
				Confidence:       r.Confidence,
				Context:          r.Context,
			}
		})
		if err := c.Store().KnowledgeRelationshipStore().BatchCreate(ctx, relationships); err != nil {
			return fmt.Errorf("failed to store relationships: %w", err)
		}

		if err := c.Store().ContentCategoryStore().BatchCreate(ctx, categories); err != nil {
			return fmt.Errorf("failed to store categories: %w", err)
		}
		if err := c.Store().KeyPhraseStore().BatchCreate(ctx, phrases); err != nil {
			return fmt.Errorf("failed to store key phrases: %w", err)
		}
		if err := c.Store().DocumentStructureStore().BatchCreate(ctx, structures); err != nil {
			return fmt.Errorf("failed to store structures: %w", err)
		}

		return c.Store().DocumentStore().FinishProcessing(ctx, doc.ID, result.Text, meta)
	})
}

func persistVideo(ctx context.Context, c *core.Core, doc types.Document, result *extractor.Result) error {
	frames := make([]types.VideoFrame, 0, len(result.Frames))
	for _, f := range result.Frames {
		storageName := fmt.Sprintf("frames/%s/frame_%05d.jpg", doc.ID, f.Index)
		if err := c.FileStore().Put(ctx, storageName, f.Data); err != nil {
			return fmt.Errorf("failed to store frame %d: %w", f.Index, err)
		}
		frames = append(frames, types.VideoFrame{
			DocumentID:   doc.ID,
			FrameIndex:   f.Index,
			TimestampSec: f.TimestampSec,
			StorageName:  storageName,
		})
	}

	meta := types.Metadata{
		types.META_KEY_FRAME_COUNT: len(frames),
	}

	return c.Store().Transaction(ctx, func(ctx context.Context) error {
		if err := c.Store().VideoFrameStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := c.Store().VideoFrameStore().BatchCreate(ctx, frames); err != nil {
			return fmt.Errorf("failed to store frames: %w", err)
		}
		return c.Store().DocumentStore().FinishProcessing(ctx, doc.ID, "", meta)
	})
}

func clearDerivedRecords(ctx context.Context, c *core.Core, documentID string) error {
	if err := c.Store().KnowledgeRelationshipStore().DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := c.Store().KnowledgeEntityStore().DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := c.Store().ContentCategoryStore().DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := c.Store().KeyPhraseStore().DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	return c.Store().DocumentStructureStore().DeleteByDocument(ctx, documentID)
}
