package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/five82/uplift/internal/errors"
)

func TestWriteFramesReExpandsDuplicates(t *testing.T) {
	in := newStream()
	var buf bytes.Buffer

	a := taggedFrame(0, 2, 1) // written 3 times
	b := taggedFrame(1, 0, 2) // written once

	go func() {
		defer close(in)
		in <- Result{Frame: a}
		in <- Result{Frame: b}
	}()

	if err := writeFrames(context.Background(), in, &buf); err != nil {
		t.Fatalf("writeFrames() error = %v", err)
	}

	aPNG, err := a.PNG()
	if err != nil {
		t.Fatal(err)
	}
	bPNG, err := b.PNG()
	if err != nil {
		t.Fatal(err)
	}

	want := bytes.Repeat(aPNG, 3)
	want = append(want, bPNG...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("stdin stream: got %d bytes, want %d (3 copies of a, 1 of b)",
			buf.Len(), len(want))
	}
}

func TestWriteFramesSingleFrameOnce(t *testing.T) {
	in := newStream()
	var buf bytes.Buffer

	f := taggedFrame(0, 0, 9)
	go func() {
		defer close(in)
		in <- Result{Frame: f}
	}()

	if err := writeFrames(context.Background(), in, &buf); err != nil {
		t.Fatal(err)
	}

	data, err := f.PNG()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Error("a duplicate-free frame must be written exactly once")
	}
}

func TestWriteFramesCountConservation(t *testing.T) {
	// Frames with assorted run lengths; the number of PNGs written equals
	// the sum of duplicates+1.
	in := newStream()
	var buf bytes.Buffer

	dups := []int{0, 3, 1, 0, 2}
	wantCopies := 0
	single, err := taggedFrame(0, 0, 5).PNG()
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		defer close(in)
		for i, d := range dups {
			in <- Result{Frame: taggedFrame(i, d, 5)}
		}
	}()
	for _, d := range dups {
		wantCopies += d + 1
	}

	if err := writeFrames(context.Background(), in, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != wantCopies*len(single) {
		t.Errorf("wrote %d bytes, want %d PNG copies of %d bytes",
			buf.Len(), wantCopies, len(single))
	}
}

func TestWriteFramesEmptyStream(t *testing.T) {
	in := newStream()
	close(in)

	var buf bytes.Buffer
	if err := writeFrames(context.Background(), in, &buf); err != nil {
		t.Fatalf("writeFrames() on empty stream = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty stream wrote %d bytes", buf.Len())
	}
}

func TestWriteFramesReturnsUpstreamError(t *testing.T) {
	in := newStream()
	go func() {
		defer close(in)
		in <- Result{Err: errors.NewUpscaleError("model exploded", nil)}
	}()

	var buf bytes.Buffer
	err := writeFrames(context.Background(), in, &buf)
	if err == nil {
		t.Fatal("writeFrames should surface the upstream error")
	}
	if !errors.IsKind(err, errors.KindUpscale) {
		t.Errorf("error kind = %v, want KindUpscale", err)
	}
}

func TestWriteFramesWriteError(t *testing.T) {
	in := newStream()
	go func() {
		defer close(in)
		in <- Result{Frame: taggedFrame(0, 0, 1)}
	}()

	err := writeFrames(context.Background(), in, failingWriter{})
	if err == nil {
		t.Fatal("writeFrames should surface write errors")
	}
	if !errors.IsKind(err, errors.KindIO) {
		t.Errorf("error kind = %v, want KindIO", err)
	}
}

func TestWriteFramesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := newStream()
	var buf bytes.Buffer
	err := writeFrames(ctx, in, &buf)
	if !errors.IsCancelled(err) {
		t.Errorf("error = %v, want cancellation", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.NewIOError("broken pipe", nil)
}
