package pipeline

import (
	"context"
	"io"
	"os/exec"

	"github.com/five82/uplift/internal/errors"
	"github.com/five82/uplift/internal/ffmpeg"
	"github.com/five82/uplift/internal/video"
)

// Merge spawns the encoder child and streams upscaled frames into its
// stdin as PNGs, re-emitting each frame Duplicates+1 times to restore the
// original run-length pattern. The original file rides along as the first
// input so audio, subtitles and metadata survive the re-mux. Blocks until
// the child exits.
func Merge(ctx context.Context, job *video.Video, in <-chan Result) error {
	cmd := exec.CommandContext(ctx, ffmpeg.FFmpegBin,
		ffmpeg.BuildMergeArgs(ffmpeg.MergeParams{
			Input:     job.Input,
			Output:    job.Output,
			FrameRate: job.FrameRate,
			Width:     job.Width,
			Height:    job.Height,
			Encoder:   job.Encoder,
		})...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.NewCommandStartError(ffmpeg.FFmpegBin, err)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewCommandStartError(ffmpeg.FFmpegBin, err)
	}

	writeErr := writeFrames(ctx, in, stdin)
	_ = stdin.Close()

	if writeErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return writeErr
	}

	if err := cmd.Wait(); err != nil {
		return errors.WrapExecError(ffmpeg.FFmpegBin, err, "")
	}
	return nil
}

// writeFrames serializes each frame once and writes the bytes
// Duplicates+1 times. Returns the first upstream or write error.
func writeFrames(ctx context.Context, in <-chan Result, w io.Writer) error {
	for {
		select {
		case res, ok := <-in:
			if !ok {
				return nil
			}
			if res.Err != nil {
				return res.Err
			}

			data, err := res.Frame.PNG()
			if err != nil {
				return err
			}
			for i := 0; i <= res.Frame.Duplicates; i++ {
				if _, err := w.Write(data); err != nil {
					return errors.NewIOError("writing to encoder stdin", err)
				}
			}
		case <-ctx.Done():
			return errors.NewCancelledError()
		}
	}
}
