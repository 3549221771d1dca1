// Package config provides configuration types and defaults for uplift.
package config

import "fmt"

// Default constants
const (
	// DefaultEncoder is the ffmpeg video encoder used when none is specified.
	DefaultEncoder = "libx264"

	// DefaultModel is the upscaling model used when none is specified.
	DefaultModel = "realesrgan"

	// DefaultDuplicateThreshold is the similarity cutoff for collapsing
	// consecutive frames. 1.0 keeps only exact matches.
	DefaultDuplicateThreshold = 1.0

	// DefaultUpscaleWorkers is the number of parallel upscaling workers.
	DefaultUpscaleWorkers = 4

	// MinDimension is the smallest accepted target width or height.
	MinDimension = 16

	// MaxWidth is the largest accepted target width (8K).
	MaxWidth = 7680

	// MaxHeight is the largest accepted target height (8K).
	MaxHeight = 4320

	// MaxUpscaleFactor is the largest multiplicative upscale any model applies.
	MaxUpscaleFactor = 4
)

// Config holds all configuration for video upscaling.
type Config struct {
	// Input/output paths
	InputPath  string
	OutputPath string
	LogDir     string
	ScratchDir string // Optional, defaults to the system temp directory

	// Target dimensions. Zero means derive from the source and the other axis.
	Width  int
	Height int

	// Encoding and model selection
	Encoder string
	Model   string

	// Duplicate detection
	DuplicateThreshold float64

	// Processing options
	UpscaleWorkers int
	ReplaceOutput  bool

	// Debug options
	Verbose bool
	NoLog   bool
}

// NewConfig creates a new Config with default values.
func NewConfig(inputPath, outputPath string) *Config {
	return &Config{
		InputPath:          inputPath,
		OutputPath:         outputPath,
		Encoder:            DefaultEncoder,
		Model:              DefaultModel,
		DuplicateThreshold: DefaultDuplicateThreshold,
		UpscaleWorkers:     DefaultUpscaleWorkers,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path must not be empty")
	}

	if c.Width != 0 && (c.Width < MinDimension || c.Width > MaxWidth) {
		return fmt.Errorf("width must be %d-%d, got %d", MinDimension, MaxWidth, c.Width)
	}
	if c.Height != 0 && (c.Height < MinDimension || c.Height > MaxHeight) {
		return fmt.Errorf("height must be %d-%d, got %d", MinDimension, MaxHeight, c.Height)
	}

	if c.DuplicateThreshold < 0.0 || c.DuplicateThreshold > 1.0 {
		return fmt.Errorf("duplicate_threshold must be 0.0-1.0, got %g", c.DuplicateThreshold)
	}

	if c.Encoder == "" {
		return fmt.Errorf("encoder must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}

	if c.UpscaleWorkers < 1 {
		return fmt.Errorf("upscale workers must be at least 1, got %d", c.UpscaleWorkers)
	}

	return nil
}
