package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/explainium/explainium/pkg/types"
)

// Sentinel errors for the validation and extraction stages. The logic layer
// maps them onto HTTP codes and document failure reasons.
var (
	ErrUnsupportedFormat = errors.New("UnsupportedFormat")
	ErrPayloadTooLarge   = errors.New("PayloadTooLarge")
	ErrEmptyPayload      = errors.New("EmptyPayload")
	ErrExtractionFailed  = errors.New("ExtractionFailed")
)

// Structure is one structural unit detected inside a document.
type Structure struct {
	Type     string
	Content  string
	Position int
	Level    int
}

// Region is a detected text bounding box from OCR.
type Region struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Frame is one sampled video still.
type Frame struct {
	Index        int
	TimestampSec float64
	Data         []byte
}

// Result is the tagged output of an extraction run. Which fields are set
// depends on the upload kind: documents fill Text and Structures, images fill
// Text, Confidence and Regions, videos fill Frames.
type Result struct {
	Text           string
	Truncated      bool
	OriginalLength int
	Structures     []Structure
	Confidence     float64
	Regions        []Region
	Frames         []Frame
}

// Extractor turns the raw bytes of a stored artifact into a Result. The file
// extension is the one validated at upload time.
type Extractor interface {
	Kind() types.UploadKind
	Extract(ctx context.Context, data []byte, ext string) (*Result, error)
}

// ValidationConfig is the ingestion router's rule set: which extensions each
// upload kind accepts and how large each kind may be.
type ValidationConfig struct {
	AllowedExts map[types.UploadKind][]string
	MaxSizes    map[types.UploadKind]int64
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		AllowedExts: map[types.UploadKind][]string{
			types.UPLOAD_KIND_DOCUMENT: {".pdf", ".docx", ".txt"},
			types.UPLOAD_KIND_IMAGE:    {".png", ".jpg", ".jpeg", ".tiff"},
			types.UPLOAD_KIND_VIDEO:    {".mp4", ".avi", ".mov"},
		},
		MaxSizes: map[types.UploadKind]int64{
			types.UPLOAD_KIND_DOCUMENT: 100 << 20,
			types.UPLOAD_KIND_IMAGE:    20 << 20,
			types.UPLOAD_KIND_VIDEO:    500 << 20,
		},
	}
}

// Validate checks filename and size against the declared kind. It returns the
// normalized extension on success.
func (c ValidationConfig) Validate(kind types.UploadKind, filename string, size int64) (string, error) {
	if size <= 0 {
		return "", ErrEmptyPayload
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", ErrUnsupportedFormat
	}

	allowed, ok := c.AllowedExts[kind]
	if !ok {
		return "", ErrUnsupportedFormat
	}

	var matched bool
	for _, a := range allowed {
		if a == ext {
			matched = true
			break
		}
	}
	if !matched {
		return "", ErrUnsupportedFormat
	}

	if max, ok := c.MaxSizes[kind]; ok && size > max {
		return "", ErrPayloadTooLarge
	}

	return ext, nil
}

// Set holds one extractor per upload kind.
type Set struct {
	extractors map[types.UploadKind]Extractor
}

func NewSet(extractors ...Extractor) *Set {
	s := &Set{extractors: make(map[types.UploadKind]Extractor)}
	for _, e := range extractors {
		s.extractors[e.Kind()] = e
	}
	return s
}

// ForKind selects the extractor for the declared upload kind. Selection is a
// pure function of the kind, there is no content sniffing here.
func (s *Set) ForKind(kind types.UploadKind) (Extractor, bool) {
	e, ok := s.extractors[kind]
	return e, ok
}
