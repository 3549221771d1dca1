package pipeline

import (
	"context"

	"github.com/five82/uplift/internal/compare"
	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/video"
)

// FilterDuplicates collapses runs of consecutive visually-identical frames
// into a single representative carrying the run length. Emitted frames are
// renumbered densely from 0 so downstream stages see contiguous indices;
// the sum of Duplicates+1 over the output equals the number of frames
// received. The stage never reorders.
func FilterDuplicates(ctx context.Context, job *video.Video, in <-chan Result) <-chan Result {
	out := newStream()

	go func() {
		defer close(out)

		var previous *frame.Frame
		emitted := 0

		emit := func(f *frame.Frame) bool {
			f.Index = emitted
			emitted++
			return send(ctx, out, Result{Frame: f})
		}

		for res := range in {
			if res.Err != nil {
				send(ctx, out, res)
				return
			}

			f := res.Frame
			if previous == nil {
				previous = f
				continue
			}

			if compare.IsDuplicate(previous.Image, f.Image, job.DuplicateThreshold) {
				previous.AddDuplicate()
				continue
			}

			if !emit(previous) {
				return
			}
			previous = f
		}

		if previous != nil {
			emit(previous)
		}
	}()

	return out
}
