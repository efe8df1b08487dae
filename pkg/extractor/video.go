package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/explainium/explainium/pkg/types"
)

// VideoExtractor samples frames from a video at a fixed time interval using
// an external ffmpeg binary. Long videos stay cheap: at most MaxFrames frames
// are decoded regardless of duration.
type VideoExtractor struct {
	ffmpegPath      string
	intervalSeconds int
	maxFrames       int
}

type VideoConfig struct {
	FFmpegPath      string `toml:"ffmpeg_path"`
	IntervalSeconds int    `toml:"frame_interval_seconds"`
	MaxFrames       int    `toml:"max_frames"`
	PreviewFrames   int    `toml:"preview_frames"`
}

func NewVideoExtractor(cfg VideoConfig) *VideoExtractor {
	path := cfg.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}
	interval := cfg.IntervalSeconds
	if interval <= 0 {
		interval = 5
	}
	max := cfg.MaxFrames
	if max <= 0 {
		max = 30
	}
	return &VideoExtractor{
		ffmpegPath:      path,
		intervalSeconds: interval,
		maxFrames:       max,
	}
}

func (e *VideoExtractor) Kind() types.UploadKind {
	return types.UPLOAD_KIND_VIDEO
}

func (e *VideoExtractor) Extract(ctx context.Context, data []byte, ext string) (*Result, error) {
	workDir, err := os.MkdirTemp("", "frames-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create frame workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	input := filepath.Join(workDir, "input"+ext)
	if err = os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage video file: %w", err)
	}

	outPattern := filepath.Join(workDir, "frame_%05d.jpg")
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", input,
		"-vf", fmt.Sprintf("fps=1/%d", e.intervalSeconds),
		"-frames:v", fmt.Sprintf("%d", e.maxFrames),
		"-q:v", "4",
		outPattern,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error("ffmpeg failed", slog.String("error", err.Error()), slog.String("stderr", stderr.String()))
		return nil, fmt.Errorf("%w: cannot decode video: %v", ErrExtractionFailed, err)
	}

	names, err := filepath.Glob(filepath.Join(workDir, "frame_*.jpg"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: video contains no decodable frames", ErrExtractionFailed)
	}
	sort.Strings(names)

	res := &Result{}
	for i, name := range names {
		raw, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read extracted frame: %w", err)
		}
		res.Frames = append(res.Frames, Frame{
			Index:        i,
			TimestampSec: float64(i * e.intervalSeconds),
			Data:         raw,
		})
	}

	return res, nil
}
