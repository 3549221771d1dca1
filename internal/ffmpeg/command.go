// Package ffmpeg builds and validates the external ffmpeg invocations.
package ffmpeg

import (
	"fmt"
	"strconv"
)

// PipeQueueSize is passed as -thread_queue_size on piped inputs so the
// demuxer does not stall the producer.
const PipeQueueSize = 1024

// ExtractParams describes the decoder invocation that streams the input
// video as concatenated PNGs on stdout.
type ExtractParams struct {
	Input string
}

// MergeParams describes the encoder invocation that re-muxes upscaled
// frames against the original file.
type MergeParams struct {
	Input     string
	Output    string
	FrameRate float64
	Width     int
	Height    int
	Encoder   string
}

// BuildExtractArgs returns the argument list for the extract decoder.
// The child writes PNG images back to back on stdout.
func BuildExtractArgs(p ExtractParams) []string {
	return []string{
		"-hide_banner",
		"-i", p.Input,
		"-thread_queue_size", strconv.Itoa(PipeQueueSize),
		"-q:v", "1",
		"-vcodec", "png",
		"-f", "image2pipe",
		"pipe:1",
	}
}

// BuildMergeArgs returns the argument list for the merge encoder.
// Input 0 is the original file, input 1 is the PNG pipe on stdin. Audio,
// subtitles and metadata come from input 0; video comes from input 1.
func BuildMergeArgs(p MergeParams) []string {
	return []string{
		"-hide_banner",
		"-i", p.Input,
		"-r", formatFrameRate(p.FrameRate),
		"-thread_queue_size", strconv.Itoa(PipeQueueSize),
		"-f", "image2pipe",
		"-vcodec", "png",
		"-i", "-",
		"-map", "0:a",
		"-map", "0:s?",
		"-map", "1:v",
		"-map_metadata", "0",
		"-vf", fmt.Sprintf("scale=%dx%d:flags=lanczos", p.Width, p.Height),
		"-pix_fmt", "yuv420p",
		"-c:v", p.Encoder,
		"-c:a", "copy",
		"-c:s", "copy",
		"-y",
		p.Output,
	}
}

func formatFrameRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
