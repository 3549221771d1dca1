package pipeline

import (
	"context"
	"time"

	"github.com/five82/uplift/internal/reporter"
	"github.com/five82/uplift/internal/video"
)

// Progress forwards frames unchanged while reporting throughput. The
// displayed position counts output-video frames, so a collapsed run
// advances it by the full run length. Rendering happens inside the
// reporter; this stage only does the arithmetic, keeping the critical
// path free of I/O.
func Progress(ctx context.Context, job *video.Video, rep reporter.Reporter, in <-chan Result) <-chan Result {
	out := newStream()

	go func() {
		defer close(out)

		rep.PipelineStarted(job.FrameCount)

		start := time.Now()
		position := 0
		duplicates := 0

		for res := range in {
			if res.Err != nil {
				send(ctx, out, res)
				return
			}

			f := res.Frame
			position += 1 + f.Duplicates
			duplicates += f.Duplicates

			elapsed := time.Since(start)
			var fps float64
			if secs := elapsed.Seconds(); secs > 0 {
				fps = float64(position) / secs
			}

			rep.PipelineProgress(reporter.ProgressSnapshot{
				Position:   position,
				Total:      job.FrameCount,
				Duplicates: duplicates,
				FPS:        fps,
				Elapsed:    elapsed,
			})

			if !send(ctx, out, Result{Frame: f}) {
				return
			}
		}
	}()

	return out
}
