package core

import (
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/explainium/explainium/app/store/sqlstore"
	"github.com/explainium/explainium/pkg/extractor"
	"github.com/explainium/explainium/pkg/filestore"
)

type Core struct {
	cfg CoreConfig

	stores     func() *sqlstore.Provider
	httpEngine *gin.Engine

	fileStore  filestore.FileStore
	extractors *extractor.Set
	validation extractor.ValidationConfig

	metrics *Metrics
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		metrics:    NewMetrics("explainium", "core"),
		httpEngine: gin.New(),
		validation: validationConfig(cfg.Upload),
	}

	setupSqlStore(core)
	setupFileStore(core)

	core.extractors = extractor.NewSet(
		extractor.NewTextExtractor(cfg.Upload.MaxContentLength),
		extractor.NewImageExtractor(cfg.OCR),
		extractor.NewVideoExtractor(extractor.VideoConfig{
			FFmpegPath:      cfg.Video.FFmpegPath,
			IntervalSeconds: cfg.Video.IntervalSeconds,
			MaxFrames:       cfg.Video.MaxFrames,
			PreviewFrames:   cfg.Video.PreviewFrames,
		}),
	)

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func setupFileStore(core *Core) {
	switch core.cfg.ObjectStorage.Driver {
	case "s3":
		s3cfg := core.cfg.ObjectStorage.S3
		if s3cfg == nil {
			panic("object_storage.s3 config is required for the s3 driver")
		}
		fs, err := filestore.NewS3(filestore.S3Options{
			Endpoint:     s3cfg.Endpoint,
			Region:       s3cfg.Region,
			Bucket:       s3cfg.Bucket,
			AccessKey:    s3cfg.AccessKey,
			SecretKey:    s3cfg.SecretKey,
			UsePathStyle: s3cfg.UsePathStyle,
		})
		if err != nil {
			panic(err)
		}
		core.fileStore = fs
	default:
		root := core.cfg.ObjectStorage.LocalRoot
		if root == "" {
			root = "./data/uploads"
		}
		fs, err := filestore.NewLocal(root)
		if err != nil {
			panic(err)
		}
		core.fileStore = fs
	}
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) FileStore() filestore.FileStore {
	return s.fileStore
}

func (s *Core) Extractors() *extractor.Set {
	return s.extractors
}

func (s *Core) Validation() extractor.ValidationConfig {
	return s.validation
}
