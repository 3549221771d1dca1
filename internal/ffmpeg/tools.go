package ffmpeg

import (
	"os/exec"
	"strings"

	"github.com/five82/uplift/internal/errors"
)

// Binary names looked up on PATH.
const (
	FFmpegBin  = "ffmpeg"
	FFprobeBin = "ffprobe"
)

// CheckAvailable verifies that ffmpeg and ffprobe are on PATH.
func CheckAvailable() error {
	for _, tool := range []string{FFmpegBin, FFprobeBin} {
		if _, err := exec.LookPath(tool); err != nil {
			return errors.NewToolUnavailableError(tool)
		}
	}
	return nil
}

// ListEncoders returns the raw output of `ffmpeg -encoders`.
func ListEncoders() (string, error) {
	out, err := exec.Command(FFmpegBin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return "", errors.WrapExecError(FFmpegBin, err, "")
	}
	return string(out), nil
}

// ValidateEncoder checks that the configured encoder appears in ffmpeg's
// encoder list.
func ValidateEncoder(encoder string) error {
	list, err := ListEncoders()
	if err != nil {
		return err
	}
	if !encoderListed(list, encoder) {
		return errors.NewUnsupportedEncoderError(encoder)
	}
	return nil
}

// encoderListed scans the -encoders table for an exact name match. Encoder
// names are the second whitespace-separated field of each entry line.
func encoderListed(list, encoder string) bool {
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == encoder {
			return true
		}
	}
	return false
}
