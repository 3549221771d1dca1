// Package upscaler provides the super-resolution capability used by the
// pipeline and the catalog of supported models.
package upscaler

import (
	"fmt"
	"strings"

	"github.com/five82/uplift/internal/errors"
)

// Upscaler is the abstract super-resolution capability. Input is a packed
// RGB raster; output is a packed RGB raster of (width*s, height*s) pixels
// for the model's scale factor s. Implementations must be safe for
// concurrent use by multiple workers.
type Upscaler interface {
	Upscale(rgb []byte, width, height int) ([]byte, error)
}

// Model identifies a supported upscaling model family.
type Model int

const (
	// ModelRealCUGAN supports scale factors 2-4 and picks the smallest one
	// covering the target resolution.
	ModelRealCUGAN Model = iota
	// ModelRealESRGAN is the general-purpose x4 model.
	ModelRealESRGAN
	// ModelRealESRGANAnime is the x4 model tuned for anime stills.
	ModelRealESRGANAnime
	// ModelRealESRAnime is the x4 model tuned for anime video.
	ModelRealESRAnime
)

// ModelNames lists the accepted --model values.
var ModelNames = []string{"realcugan", "realesrgan", "realesrgan-anime", "realesr-anime"}

// ParseModel converts a model name to a Model value.
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "realcugan":
		return ModelRealCUGAN, nil
	case "realesrgan":
		return ModelRealESRGAN, nil
	case "realesrgan-anime":
		return ModelRealESRGANAnime, nil
	case "realesr-anime":
		return ModelRealESRAnime, nil
	default:
		return 0, errors.NewArgumentError(fmt.Sprintf(
			"unknown model %q (expected one of: %s)", name, strings.Join(ModelNames, ", ")))
	}
}

// String returns the model's CLI name.
func (m Model) String() string {
	switch m {
	case ModelRealCUGAN:
		return "realcugan"
	case ModelRealESRGAN:
		return "realesrgan"
	case ModelRealESRGANAnime:
		return "realesrgan-anime"
	case ModelRealESRAnime:
		return "realesr-anime"
	default:
		return "unknown"
	}
}

// VariableScale reports whether the model can run at scale factors other
// than 4. Only RealCUGAN ships per-scale weights.
func (m Model) VariableScale() bool {
	return m == ModelRealCUGAN
}

// SupportsScale reports whether the model ships weights for the factor.
func (m Model) SupportsScale(scale int) bool {
	if m == ModelRealCUGAN {
		return scale >= 2 && scale <= 4
	}
	return scale == 4
}

// binary returns the ncnn executable that hosts the model.
func (m Model) binary() string {
	if m == ModelRealCUGAN {
		return "realcugan-ncnn-vulkan"
	}
	return "realesrgan-ncnn-vulkan"
}

// weightsName returns the -n model argument for the ncnn executable.
func (m Model) weightsName(scale int) string {
	switch m {
	case ModelRealCUGAN:
		return fmt.Sprintf("models-se/up%dx-conservative", scale)
	case ModelRealESRGAN:
		return "realesrgan-x4plus"
	case ModelRealESRGANAnime:
		return "realesrgan-x4plus-anime"
	case ModelRealESRAnime:
		return "realesr-animevideov3"
	default:
		return ""
	}
}
