package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/explainium/explainium/pkg/types"
)

// ImageExtractor sends raster images to a remote OCR service. Orientation and
// contrast normalization run server side; the request flags them on so the
// service may skip them when the language model does not need them.
type ImageExtractor struct {
	apiURL   string
	token    string
	language string
	client   *http.Client
}

type OCRConfig struct {
	APIURL   string `toml:"api_url"`
	Token    string `toml:"token"`
	Language string `toml:"language"`
	Timeout  int    `toml:"timeout_seconds"`
}

func NewImageExtractor(cfg OCRConfig) *ImageExtractor {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &ImageExtractor{
		apiURL:   cfg.APIURL,
		token:    cfg.Token,
		language: lang,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *ImageExtractor) Kind() types.UploadKind {
	return types.UPLOAD_KIND_IMAGE
}

type ocrRequest struct {
	Image             string `json:"image"`
	Language          string `json:"language"`
	NormalizeRotation bool   `json:"normalize_rotation"`
	NormalizeContrast bool   `json:"normalize_contrast"`
}

type ocrResponse struct {
	Result *ocrResult `json:"result"`
	Error  *ocrError  `json:"error,omitempty"`
}

type ocrResult struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Regions    []Region `json:"regions"`
}

type ocrError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte, ext string) (*Result, error) {
	slog.Debug("processing OCR", slog.String("language", e.language), slog.Int("bytes", len(data)))

	reqBody, err := json.Marshal(ocrRequest{
		Image:             base64.StdEncoding.EncodeToString(data),
		Language:          e.language,
		NormalizeRotation: true,
		NormalizeContrast: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("token %s", e.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OCR service returned status %d", ErrExtractionFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR response: %w", err)
	}

	var ocrResp ocrResponse
	if err = json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OCR response: %w", err)
	}

	if ocrResp.Error != nil {
		return nil, fmt.Errorf("%w: OCR error %d: %s", ErrExtractionFailed, ocrResp.Error.Code, ocrResp.Error.Message)
	}
	if ocrResp.Result == nil {
		return nil, fmt.Errorf("%w: OCR response has no result", ErrExtractionFailed)
	}

	// An image without any text is a valid, empty result.
	return &Result{
		Text:           ocrResp.Result.Text,
		OriginalLength: len(ocrResp.Result.Text),
		Confidence:     ocrResp.Result.Confidence,
		Regions:        ocrResp.Result.Regions,
	}, nil
}
