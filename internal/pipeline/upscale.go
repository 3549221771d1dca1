package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/uplift/internal/frame"
	"github.com/five82/uplift/internal/upscaler"
	"github.com/five82/uplift/internal/video"
)

// Upscale runs the model over incoming frames on a pool of workers while
// delivering output in the exact order frames arrived. All workers compete
// for the shared upstream channel; each completed frame then waits for its
// turn at an ordering barrier before being sent downstream. Parking the
// worker until its turn bounds in-flight frames to the pool size.
//
// Only the frame's image is replaced; index and duplicate count pass
// through untouched.
func Upscale(ctx context.Context, job *video.Video, up upscaler.Upscaler, workers int, in <-chan Result) <-chan Result {
	if workers < 1 {
		workers = 1
	}

	out := newStream()
	barrier := newOrderBarrier()

	// A cancelled run must wake workers parked in the barrier.
	stopWatch := context.AfterFunc(ctx, barrier.shutdown)

	var g errgroup.Group
	var errOnce sync.Once

	fail := func(err error) {
		errOnce.Do(func() {
			send(ctx, out, Result{Err: err})
		})
		barrier.shutdown()
	}

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			upscaleWorker(ctx, job, up, in, out, barrier, fail)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		stopWatch()
		close(out)
	}()

	return out
}

func upscaleWorker(
	ctx context.Context,
	job *video.Video,
	up upscaler.Upscaler,
	in <-chan Result,
	out chan<- Result,
	barrier *orderBarrier,
	fail func(error),
) {
	for res := range in {
		if res.Err != nil {
			fail(res.Err)
			return
		}

		f := res.Frame
		width, height := f.Width(), f.Height()

		pixels, err := up.Upscale(f.RGBPixels(), width, height)
		if err != nil {
			fail(err)
			return
		}

		img, err := frame.ImageFromRGB(width*job.Scale, height*job.Scale, pixels)
		if err != nil {
			fail(err)
			return
		}
		f.Image = img

		// The barrier is not held across the upscale call above; the worker
		// only parks here, after its frame is ready.
		if !barrier.waitTurn(f.Index) {
			return
		}
		if !send(ctx, out, Result{Frame: f}) {
			barrier.shutdown()
			return
		}
		barrier.advance()
	}
}

// orderBarrier serializes frame emission in index order. Workers park in
// waitTurn until the next expected index matches their own; advance moves
// the expectation forward and wakes everyone parked.
type orderBarrier struct {
	mu   sync.Mutex
	cond *sync.Cond
	next int
	done bool
}

func newOrderBarrier() *orderBarrier {
	b := &orderBarrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// waitTurn blocks until index is next in line. Returns false when the
// barrier was shut down instead.
func (b *orderBarrier) waitTurn(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.next != index && !b.done {
		b.cond.Wait()
	}
	return !b.done
}

// advance releases the next index in line.
func (b *orderBarrier) advance() {
	b.mu.Lock()
	b.next++
	b.mu.Unlock()
	b.cond.Broadcast()
}

// shutdown wakes all parked workers and makes waitTurn fail.
func (b *orderBarrier) shutdown() {
	b.mu.Lock()
	b.done = true
	b.mu.Unlock()
	b.cond.Broadcast()
}
