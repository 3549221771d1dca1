package upscaler

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/util"
)

// NCNN runs an ncnn-vulkan model executable over a scratch directory.
// Each Upscale call writes the input raster as PNG, invokes the binary and
// reads back the upscaled PNG. Safe for concurrent use; every call gets
// its own file pair.
type NCNN struct {
	model   Model
	scale   int
	binary  string
	scratch *util.ScratchDir
	seq     atomic.Int64
}

// NewNCNN constructs an upscaler for the model at the given scale factor.
// The model binary must be on PATH and the scale supported by the model.
func NewNCNN(model Model, scale int, scratchBase string) (*NCNN, error) {
	if !model.SupportsScale(scale) {
		return nil, errors.NewArgumentError(fmt.Sprintf(
			"model %s does not support scale factor %d", model, scale))
	}

	binary, err := exec.LookPath(model.binary())
	if err != nil {
		return nil, errors.NewToolUnavailableError(model.binary())
	}

	scratch, err := util.CreateScratchDir(scratchBase, "uplift")
	if err != nil {
		return nil, errors.NewIOError("creating upscaler scratch directory", err)
	}

	return &NCNN{
		model:   model,
		scale:   scale,
		binary:  binary,
		scratch: scratch,
	}, nil
}

// Scale returns the configured scale factor.
func (u *NCNN) Scale() int {
	return u.scale
}

// Close removes the scratch directory.
func (u *NCNN) Close() error {
	return u.scratch.Cleanup()
}

// Upscale runs the model over one raster.
func (u *NCNN) Upscale(rgb []byte, width, height int) ([]byte, error) {
	img, err := frame.ImageFromRGB(width, height, rgb)
	if err != nil {
		return nil, err
	}

	seq := u.seq.Add(1)
	inPath := filepath.Join(u.scratch.Path(), "in_"+strconv.FormatInt(seq, 10)+".png")
	outPath := filepath.Join(u.scratch.Path(), "out_"+strconv.FormatInt(seq, 10)+".png")
	defer func() {
		_ = os.Remove(inPath)
		_ = os.Remove(outPath)
	}()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.NewUpscaleError("encoding model input", err)
	}
	if err := os.WriteFile(inPath, buf.Bytes(), 0644); err != nil {
		return nil, errors.NewIOError("writing model input", err)
	}

	cmd := exec.Command(u.binary,
		"-i", inPath,
		"-o", outPath,
		"-s", strconv.Itoa(u.scale),
		"-n", u.model.weightsName(u.scale),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.NewUpscaleError(
			fmt.Sprintf("model %s failed", u.model),
			errors.WrapExecError(u.model.binary(), err, stderr.String()))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.NewUpscaleError("reading model output", err)
	}

	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewUpscaleError("decoding model output", err)
	}

	return normalizeOutput(out, width*u.scale, height*u.scale), nil
}

// normalizeOutput coerces the model's raster to the exact expected
// geometry. Some weights pad their output by a few pixels; resampling to
// the contract dimensions keeps downstream stages honest.
func normalizeOutput(img image.Image, width, height int) []byte {
	rgba, ok := img.(*image.RGBA)
	sized := img.Bounds().Dx() == width && img.Bounds().Dy() == height

	switch {
	case ok && sized:
		// Already in contract form.
	case sized:
		converted := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.Copy(converted, image.Point{}, img, img.Bounds(), xdraw.Src, nil)
		rgba = converted
	default:
		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		rgba = scaled
	}

	f := frame.Frame{Image: rgba}
	return f.RGBPixels()
}
