// Package uplift provides a Go library for AI video upscaling.
//
// Uplift decodes a video into frames through FFmpeg, collapses consecutive
// duplicate frames, super-resolves the rest with an ncnn model, and
// re-encodes the result while copying audio, subtitle and metadata streams
// from the original file.
//
// Basic usage:
//
//	proc, err := uplift.New(
//	    uplift.WithModel("realesrgan"),
//	    uplift.WithDimensions(2560, 1440),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := proc.Run(ctx, "input.mkv", "output/", nil); err != nil {
//	    log.Fatal(err)
//	}
package uplift

import (
	"context"
	"path/filepath"

	"github.com/five82/uplift/internal/config"
	"github.com/five82/uplift/internal/discovery"
	"github.com/five82/uplift/internal/processing"
	"github.com/five82/uplift/internal/reporter"
	"github.com/five82/uplift/internal/upscaler"
	"github.com/five82/uplift/internal/util"
)

// Models returns the accepted model names.
func Models() []string {
	return append([]string(nil), upscaler.ModelNames...)
}

// ValidModel reports whether name is an accepted model name.
func ValidModel(name string) bool {
	_, err := upscaler.ParseModel(name)
	return err == nil
}

// ProgressFunc receives pipeline progress updates. Position and total
// count output-video frames; fps is the average processing rate.
type ProgressFunc func(position, total, duplicates int, fps float64)

// Processor is the main entry point for video upscaling.
type Processor struct {
	config *config.Config
}

// Option configures the processor.
type Option func(*config.Config)

// New creates a new Processor with the given options.
func New(opts ...Option) (*Processor, error) {
	cfg := config.NewConfig(".", ".")

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Processor{config: cfg}, nil
}

// WithDimensions sets the target output dimensions. A zero axis is derived
// from the source aspect ratio.
func WithDimensions(width, height int) Option {
	return func(c *config.Config) {
		c.Width = width
		c.Height = height
	}
}

// WithEncoder sets the ffmpeg video encoder.
func WithEncoder(encoder string) Option {
	return func(c *config.Config) {
		c.Encoder = encoder
	}
}

// WithModel selects the upscaling model.
func WithModel(model string) Option {
	return func(c *config.Config) {
		c.Model = model
	}
}

// WithDuplicateThreshold sets the similarity cutoff for collapsing
// consecutive frames.
func WithDuplicateThreshold(threshold float64) Option {
	return func(c *config.Config) {
		c.DuplicateThreshold = threshold
	}
}

// WithWorkers sets the upscale worker count.
func WithWorkers(workers int) Option {
	return func(c *config.Config) {
		c.UpscaleWorkers = workers
	}
}

// WithReplaceOutput overwrites existing output files instead of skipping.
func WithReplaceOutput() Option {
	return func(c *config.Config) {
		c.ReplaceOutput = true
	}
}

// Run upscales the video file at input, or every recognized video file in
// it when input is a directory. Output may be a file path (single input
// only) or a directory; progress may be nil.
func (p *Processor) Run(ctx context.Context, input, output string, progress ProgressFunc) error {
	cfg := *p.config
	cfg.InputPath = input
	cfg.OutputPath = output

	files, err := discovery.ResolveInputs(input)
	if err != nil {
		return err
	}

	outputDir := output
	override := ""
	if len(files) == 1 && util.HasVideoExtension(output) {
		outputDir = filepath.Dir(output)
		override = filepath.Base(output)
	}
	if err := util.EnsureDirectory(outputDir); err != nil {
		return err
	}

	var rep reporter.Reporter = reporter.NullReporter{}
	if progress != nil {
		rep = &callbackReporter{fn: progress}
	}

	_, err = processing.ProcessVideos(ctx, &cfg, files, outputDir, override, rep, nil)
	return err
}

// callbackReporter adapts a ProgressFunc to the Reporter interface.
type callbackReporter struct {
	reporter.NullReporter
	fn ProgressFunc
}

func (r *callbackReporter) PipelineProgress(s reporter.ProgressSnapshot) {
	r.fn(s.Position, s.Total, s.Duplicates, s.FPS)
}
