package extractor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageExtractorExtract(t *testing.T) {
	image := []byte("fake-png-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))

		var req ocrRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		assert.NoError(t, err)
		assert.Equal(t, image, decoded)
		assert.Equal(t, "eng", req.Language)

		json.NewEncoder(w).Encode(ocrResponse{
			Result: &ocrResult{
				Text:       "DANGER HIGH VOLTAGE",
				Confidence: 0.93,
				Regions: []Region{
					{Text: "DANGER", Confidence: 0.95, X: 10, Y: 5, Width: 80, Height: 20},
				},
			},
		})
	}))
	defer srv.Close()

	e := NewImageExtractor(OCRConfig{APIURL: srv.URL, Token: "secret"})

	res, err := e.Extract(context.Background(), image, ".png")
	assert.NoError(t, err)
	assert.Equal(t, "DANGER HIGH VOLTAGE", res.Text)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)
	assert.Len(t, res.Regions, 1)
	assert.Equal(t, "DANGER", res.Regions[0].Text)
}

func TestImageExtractorEmptyTextIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Result: &ocrResult{Text: "", Confidence: 0}})
	}))
	defer srv.Close()

	e := NewImageExtractor(OCRConfig{APIURL: srv.URL})

	res, err := e.Extract(context.Background(), []byte("blank"), ".png")
	assert.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Regions)
}

func TestImageExtractorServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ocrResponse{Error: &ocrError{Code: 1101, Message: "bad image"}})
	}))
	defer srv.Close()

	e := NewImageExtractor(OCRConfig{APIURL: srv.URL})

	_, err := e.Extract(context.Background(), []byte("junk"), ".png")
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "bad image")
}

func TestImageExtractorBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := NewImageExtractor(OCRConfig{APIURL: srv.URL})

	_, err := e.Extract(context.Background(), []byte("junk"), ".png")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
