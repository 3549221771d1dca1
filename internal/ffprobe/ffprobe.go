// Package ffprobe extracts video metadata using ffprobe.
package ffprobe

import (
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/five82/uplift/internal/errors"
)

// MediaInfo contains the video stream properties the pipeline needs.
type MediaInfo struct {
	Width      int
	Height     int
	FrameRate  float64
	FrameCount int
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	NbReadFrames string `json:"nb_read_frames"`
}

// GetMediaInfo probes the first video stream of a file. Frame counting
// decodes the whole stream, so this is the slowest part of job setup.
func GetMediaInfo(inputPath string) (*MediaInfo, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-select_streams", "v:0",
		"-count_frames",
		"-print_format", "json",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.NewProbeError("ffprobe failed", errors.WrapExecError("ffprobe", err, ""))
	}

	return parseMediaInfo(output, inputPath)
}

func parseMediaInfo(output []byte, inputPath string) (*MediaInfo, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, errors.NewProbeError("failed to parse ffprobe output", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}

		info := &MediaInfo{
			Width:     stream.Width,
			Height:    stream.Height,
			FrameRate: parseFrameRate(stream.RFrameRate),
		}
		if stream.NbReadFrames != "" {
			if frames, err := strconv.Atoi(stream.NbReadFrames); err == nil {
				info.FrameCount = frames
			}
		}

		if info.Width <= 0 || info.Height <= 0 {
			return nil, errors.NewProbeError("video stream has no dimensions: "+inputPath, nil)
		}
		return info, nil
	}

	return nil, errors.NewProbeError("no video stream found in "+inputPath, nil)
}

// parseFrameRate converts ffprobe's rational "num/den" frame rate to a float.
func parseFrameRate(value string) float64 {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return 0
	}

	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
