package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentStatus is the processing lifecycle of an uploaded artifact.
// Transitions are monotonic: pending -> processing -> completed | failed.
type DocumentStatus string

const (
	DOCUMENT_STATUS_PENDING    DocumentStatus = "pending"
	DOCUMENT_STATUS_PROCESSING DocumentStatus = "processing"
	DOCUMENT_STATUS_COMPLETED  DocumentStatus = "completed"
	DOCUMENT_STATUS_FAILED     DocumentStatus = "failed"
)

func (s DocumentStatus) String() string {
	return string(s)
}

// UploadKind is the category the client declares at upload time. It decides
// which extractor handles the file and which extensions are acceptable.
type UploadKind string

const (
	UPLOAD_KIND_DOCUMENT UploadKind = "document"
	UPLOAD_KIND_IMAGE    UploadKind = "image"
	UPLOAD_KIND_VIDEO    UploadKind = "video"
	UPLOAD_KIND_UNKNOWN  UploadKind = "unknown"
)

func UploadKindFromString(s string) UploadKind {
	switch strings.ToLower(s) {
	case string(UPLOAD_KIND_DOCUMENT):
		return UPLOAD_KIND_DOCUMENT
	case string(UPLOAD_KIND_IMAGE):
		return UPLOAD_KIND_IMAGE
	case string(UPLOAD_KIND_VIDEO):
		return UPLOAD_KIND_VIDEO
	default:
		return UPLOAD_KIND_UNKNOWN
	}
}

func (k UploadKind) String() string {
	return string(k)
}

// Metadata is the free-form key-value blob on a document, stored as JSONB.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata source type %T", src)
	}
}

// Metadata keys written by the pipeline.
const (
	META_KEY_ERROR           = "error"
	META_KEY_TRUNCATED       = "truncated"
	META_KEY_ORIGINAL_LENGTH = "original_length"
	META_KEY_CONTENT_LENGTH  = "content_length"
	META_KEY_LANGUAGE        = "language"
	META_KEY_OCR_CONFIDENCE  = "ocr_confidence"
	META_KEY_FRAME_COUNT     = "frame_count"
)

type Document struct {
	ID          string         `json:"id" db:"id"`
	Filename    string         `json:"filename" db:"filename"`
	Kind        UploadKind     `json:"kind" db:"kind"`
	FileType    string         `json:"file_type" db:"file_type"`
	Status      DocumentStatus `json:"status" db:"status"`
	Content     string         `json:"content" db:"content"`
	Metadata    Metadata       `json:"metadata" db:"metadata"`
	StorageName string         `json:"-" db:"storage_name"`
	RetryTimes  int            `json:"-" db:"retry_times"`
	CreatedAt   int64          `json:"created_at" db:"created_at"`
	UpdatedAt   int64          `json:"updated_at" db:"updated_at"`
}

// DocumentSummary is the listing projection: status plus child counts,
// without the (potentially large) content column.
type DocumentSummary struct {
	ID            string         `json:"id" db:"id"`
	Filename      string         `json:"filename" db:"filename"`
	Kind          UploadKind     `json:"kind" db:"kind"`
	FileType      string         `json:"file_type" db:"file_type"`
	Status        DocumentStatus `json:"status" db:"status"`
	ContentLength int            `json:"content_length" db:"content_length"`
	EntityCount   int            `json:"entity_count" db:"entity_count"`
	CategoryCount int            `json:"category_count" db:"category_count"`
	CreatedAt     int64          `json:"created_at" db:"created_at"`
}

type ListDocumentOptions struct {
	Kind     UploadKind
	FileType string
	Status   *DocumentStatus
}

type UpdateDocumentArgs struct {
	Filename string
	Metadata Metadata
}

const NO_PAGINATION uint64 = 0
