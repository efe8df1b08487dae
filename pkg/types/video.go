package types

// VideoFrame is one sampled still from a video document. The JPEG bytes live
// in the filestore under StorageName; the row makes the frame addressable by
// (document, index).
type VideoFrame struct {
	ID           int64   `json:"id" db:"id"`
	DocumentID   string  `json:"document_id" db:"document_id"`
	FrameIndex   int     `json:"frame_index" db:"frame_index"`
	TimestampSec float64 `json:"timestamp_sec" db:"timestamp_sec"`
	StorageName  string  `json:"-" db:"storage_name"`
	CreatedAt    int64   `json:"created_at" db:"created_at"`
}
