// Package pipeline implements the five-stage concurrent upscaling pipeline.
//
// Stages are connected by bounded channels of Result values. Closing a
// stage's output channel signals end-of-stream; the first error a stage
// sees is forwarded downstream exactly once before the stage closes its
// own output. Back-pressure comes from the channel bound alone: the
// slowest stage dictates throughput and everything upstream parks on send.
package pipeline

import (
	"context"

	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/reporter"
	"github.com/five82/uplift/internal/upscaler"
	"github.com/five82/uplift/internal/video"
)

// channelBound is the capacity of every inter-stage channel. A bound of 1
// keeps at most one frame resident per link, so in-flight frames never
// exceed the upscale worker count plus a handful of channel slots.
const channelBound = 1

// Result carries either a frame or the first error of an upstream stage.
type Result struct {
	Frame *frame.Frame
	Err   error
}

func newStream() chan Result {
	return make(chan Result, channelBound)
}

// send delivers a result downstream unless the run has been cancelled.
func send(ctx context.Context, out chan<- Result, res Result) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run wires the five stages for one job and blocks until the merge encoder
// finishes. The first error from any stage is returned; cancellation of
// the context tears the whole pipeline down without orphaning children.
func Run(ctx context.Context, job *video.Video, up upscaler.Upscaler, workers int, rep reporter.Reporter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames, err := Extract(ctx, job)
	if err != nil {
		return err
	}
	filtered := FilterDuplicates(ctx, job, frames)
	upscaled := Upscale(ctx, job, up, workers, filtered)
	progressed := Progress(ctx, job, rep, upscaled)
	return Merge(ctx, job, progressed)
}
