// Package video builds the per-input job that drives one pipeline run.
package video

import (
	"fmt"
	"math"

	"github.com/five82/uplift/internal/config"
	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/ffprobe"
	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/upscaler"
)

// aspectTolerance is the allowed deviation between requested and source
// aspect ratios before the requested dimensions are corrected.
const aspectTolerance = 0.01

// Video is the immutable per-input job handed to every pipeline stage.
type Video struct {
	Input  string
	Output string

	// Source stream properties.
	SourceWidth  int
	SourceHeight int
	FrameRate    float64
	FrameCount   int

	// Final output dimensions, aspect-corrected.
	Width  int
	Height int

	// Scale is the multiplicative upscale factor the model applies.
	// 1 means the source already covers the target and the job is skipped.
	Scale int

	Model              upscaler.Model
	Encoder            string
	DuplicateThreshold float64

	// Frames issues frame indices for this run only.
	Frames *frame.Counter

	// Notes collects user-visible adjustments made during job setup.
	Notes []string
}

// New builds a job from the configuration and probed stream properties.
func New(cfg *config.Config, input, output string, info *ffprobe.MediaInfo) (*Video, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, errors.NewProbeError("source dimensions are unknown", nil)
	}

	model, err := upscaler.ParseModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	v := &Video{
		Input:              input,
		Output:             output,
		SourceWidth:        info.Width,
		SourceHeight:       info.Height,
		FrameRate:          info.FrameRate,
		FrameCount:         info.FrameCount,
		Model:              model,
		Encoder:            cfg.Encoder,
		DuplicateThreshold: cfg.DuplicateThreshold,
		Frames:             &frame.Counter{},
	}

	v.resolveGeometry(cfg.Width, cfg.Height)
	return v, nil
}

// SkipUpscale reports whether the source already covers the target and no
// model run is needed.
func (v *Video) SkipUpscale() bool {
	return v.Scale < 2
}

// resolveGeometry fixes the final output dimensions and the scale factor.
//
// The target is whatever the user requested, completed along the source
// aspect ratio; a requested pair that breaks the aspect ratio is shrunk on
// the over-specified axis. The scale factor is the smallest integer s with
// source*s covering the target on both axes, capped at the largest factor
// any model ships. Fixed-scale models still run at 4 and rely on the
// encoder's scale filter for the final fit.
func (v *Video) resolveGeometry(requestedWidth, requestedHeight int) {
	aspect := float64(v.SourceWidth) / float64(v.SourceHeight)

	targetWidth, targetHeight := v.targetDimensions(requestedWidth, requestedHeight, aspect)
	finalWidth, finalHeight := adjustForAspect(targetWidth, targetHeight, aspect)

	needed := 1
	for needed < config.MaxUpscaleFactor &&
		(v.SourceWidth*needed < finalWidth || v.SourceHeight*needed < finalHeight) {
		needed++
	}

	switch {
	case needed == 1:
		v.Scale = 1
	case v.Model.VariableScale():
		v.Scale = needed
	default:
		v.Scale = config.MaxUpscaleFactor
	}

	v.Width = finalWidth
	v.Height = finalHeight

	if (requestedWidth > 0 && finalWidth != requestedWidth) ||
		(requestedHeight > 0 && finalHeight != requestedHeight) {
		v.Notes = append(v.Notes, fmt.Sprintf(
			"resolution adjusted from %dx%d to %dx%d to maintain the source aspect ratio",
			requestedWidth, requestedHeight, finalWidth, finalHeight))
	}
}

// targetDimensions completes a partial width/height request along the
// source aspect ratio. With neither axis requested the target is the
// source itself.
func (v *Video) targetDimensions(width, height int, aspect float64) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0:
		return width, int(math.Round(float64(width) / aspect))
	case height > 0:
		return int(math.Round(float64(height) * aspect)), height
	default:
		return v.SourceWidth, v.SourceHeight
	}
}

// adjustForAspect shrinks the over-specified axis when the requested pair
// deviates from the source aspect ratio by more than the tolerance.
func adjustForAspect(width, height int, aspect float64) (int, int) {
	requested := float64(width) / float64(height)
	if math.Abs(requested-aspect) <= aspectTolerance {
		return width, height
	}

	if requested > aspect {
		return int(math.Round(float64(height) * aspect)), height
	}
	return width, int(math.Round(float64(width) / aspect))
}
