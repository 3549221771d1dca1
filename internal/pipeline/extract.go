package pipeline

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/ffmpeg"
	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/video"
)

const (
	// extractChunkSize is the read size against the decoder's stdout.
	extractChunkSize = 100 * 1024

	// maxFrameBufferSize caps the rolling frame buffer. A buffer this large
	// without a complete image means the child is not emitting PNGs.
	maxFrameBufferSize = 10 * 1024 * 1024
)

// pngFooter is the fixed 12-byte IEND chunk that terminates every PNG file.
var pngFooter = []byte{0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82}

// Extract spawns the decoder child and returns a stream of decoded frames.
// The child emits PNG images back to back on stdout; a dedicated goroutine
// splits the byte stream on the IEND terminator and decodes each image.
// The child is killed and reaped when the read loop exits, on any path.
func Extract(ctx context.Context, job *video.Video) (<-chan Result, error) {
	cmd := exec.CommandContext(ctx, ffmpeg.FFmpegBin,
		ffmpeg.BuildExtractArgs(ffmpeg.ExtractParams{Input: job.Input})...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.NewCommandStartError(ffmpeg.FFmpegBin, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.NewCommandStartError(ffmpeg.FFmpegBin, err)
	}

	out := newStream()
	go func() {
		defer close(out)
		defer func() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}()
		readFrames(ctx, stdout, job.Frames, out)
	}()

	return out, nil
}

// readFrames reads the decoder's stdout in fixed-size chunks, splits the
// accumulated bytes into PNG images and sends one frame per image. A
// zero-length read ends the stream.
func readFrames(ctx context.Context, r io.Reader, counter *frame.Counter, out chan<- Result) {
	var framer pngFramer
	chunk := make([]byte, extractChunkSize)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			images, ferr := framer.push(chunk[:n])
			if ferr != nil {
				send(ctx, out, Result{Err: ferr})
				return
			}
			for _, data := range images {
				f, derr := frame.FromPNG(data, counter)
				if derr != nil {
					send(ctx, out, Result{Err: derr})
					return
				}
				if !send(ctx, out, Result{Frame: f}) {
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				send(ctx, out, Result{Err: errors.NewIOError("reading decoder output", err)})
			}
			return
		}
	}
}

// pngFramer splits a byte stream into complete PNG files. The terminator
// is searched across read boundaries by scanning the whole rolling buffer,
// and every complete image in the buffer is drained before the next read.
type pngFramer struct {
	buf []byte
}

// push appends a chunk and returns all complete PNG images now available.
func (p *pngFramer) push(chunk []byte) ([][]byte, error) {
	p.buf = append(p.buf, chunk...)

	var images [][]byte
	for {
		idx := bytes.Index(p.buf, pngFooter)
		if idx < 0 {
			break
		}
		end := idx + len(pngFooter)
		img := make([]byte, end)
		copy(img, p.buf[:end])
		p.buf = p.buf[:copy(p.buf, p.buf[end:])]
		images = append(images, img)
	}

	if len(images) == 0 && len(p.buf) > maxFrameBufferSize {
		return nil, errors.NewFrameBufferOverflowError(len(p.buf))
	}
	return images, nil
}
