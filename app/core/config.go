package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/types"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Upload        UploadConfig        `toml:"upload"`
	Extract       ExtractConfig       `toml:"extract"`
	OCR           extractor.OCRConfig `toml:"ocr"`
	Video         VideoConfig         `toml:"video"`
	Process       ProcessConfig       `toml:"process"`
}

type ObjectStorageDriver struct {
	Driver    string    `toml:"driver"`
	LocalRoot string    `toml:"local_root"`
	S3        *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

// UploadConfig bounds what the ingestion endpoints accept. Zero values fall
// back to the built-in limits.
type UploadConfig struct {
	// MaxContentLength caps the stored extracted text, in bytes.
	MaxContentLength int `toml:"max_content_length"`
	// RatePerSecond throttles upload endpoints per client. Zero disables
	// the limiter.
	RatePerSecond int `toml:"rate_per_second"`
	RateBurst     int `toml:"rate_burst"`

	// Per-kind upload size ceilings, in megabytes.
	MaxDocumentSizeMB int64 `toml:"max_document_size_mb"`
	MaxImageSizeMB    int64 `toml:"max_image_size_mb"`
	MaxVideoSizeMB    int64 `toml:"max_video_size_mb"`

	// Per-kind allowed extensions, dot included.
	DocumentExtensions []string `toml:"document_extensions"`
	ImageExtensions    []string `toml:"image_extensions"`
	VideoExtensions    []string `toml:"video_extensions"`
}

// validationConfig builds the ingestion rule set from config, keeping the
// defaults wherever a field is unset.
func validationConfig(c UploadConfig) extractor.ValidationConfig {
	cfg := extractor.DefaultValidationConfig()
	if c.MaxDocumentSizeMB > 0 {
		cfg.MaxSizes[types.UPLOAD_KIND_DOCUMENT] = c.MaxDocumentSizeMB << 20
	}
	if c.MaxImageSizeMB > 0 {
		cfg.MaxSizes[types.UPLOAD_KIND_IMAGE] = c.MaxImageSizeMB << 20
	}
	if c.MaxVideoSizeMB > 0 {
		cfg.MaxSizes[types.UPLOAD_KIND_VIDEO] = c.MaxVideoSizeMB << 20
	}
	if len(c.DocumentExtensions) > 0 {
		cfg.AllowedExts[types.UPLOAD_KIND_DOCUMENT] = c.DocumentExtensions
	}
	if len(c.ImageExtensions) > 0 {
		cfg.AllowedExts[types.UPLOAD_KIND_IMAGE] = c.ImageExtensions
	}
	if len(c.VideoExtensions) > 0 {
		cfg.AllowedExts[types.UPLOAD_KIND_VIDEO] = c.VideoExtensions
	}
	return cfg
}

// ExtractConfig tunes the knowledge stage.
type ExtractConfig struct {
	// CategoryThreshold drops classifications below this confidence.
	CategoryThreshold float64 `toml:"category_threshold"`
	// MaxKeyPhrases bounds the retained top-K phrases per document.
	MaxKeyPhrases int `toml:"max_key_phrases"`
}

type VideoConfig struct {
	FFmpegPath      string `toml:"ffmpeg_path"`
	IntervalSeconds int    `toml:"frame_interval_seconds"`
	MaxFrames       int    `toml:"max_frames"`
	PreviewFrames   int    `toml:"preview_frames"`
}

// ProcessConfig tunes the async extraction workers.
type ProcessConfig struct {
	Concurrency int `toml:"concurrency"`
	// JobTimeoutSeconds is the wall clock budget for one document.
	JobTimeoutSeconds int `toml:"job_timeout_seconds"`
	MaxRetryTimes     int `toml:"max_retry_times"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("EXPLAINIUM_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.ObjectStorage.FromENV()
	c.OCR.APIURL = os.Getenv("EXPLAINIUM_OCR_API_URL")
	c.OCR.Token = os.Getenv("EXPLAINIUM_OCR_TOKEN")
	if v := os.Getenv("EXPLAINIUM_PROCESS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Process.Concurrency = n
		}
	}
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("EXPLAINIUM_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

func (o *ObjectStorageDriver) FromENV() {
	o.Driver = os.Getenv("EXPLAINIUM_OBJECT_STORAGE_DRIVER")
	o.LocalRoot = os.Getenv("EXPLAINIUM_OBJECT_STORAGE_LOCAL_ROOT")
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("EXPLAINIUM_API_LOG_LEVEL")
	l.Path = os.Getenv("EXPLAINIUM_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
