// Package frame defines the frame entity that flows through the pipeline.
package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync/atomic"

	"github.com/five82/uplift/internal/errors"
)

// Counter issues frame indices for a single pipeline run.
type Counter struct {
	n atomic.Int64
}

// Next returns the next index, starting from 0.
func (c *Counter) Next() int {
	return int(c.n.Add(1)) - 1
}

// Frame is one decoded image plus its ordering index and the number of
// consecutive input frames collapsed into it.
type Frame struct {
	Index      int
	Duplicates int
	Image      *image.RGBA
}

// New wraps an image in a Frame, taking its index from the counter.
func New(img *image.RGBA, counter *Counter) *Frame {
	return &Frame{
		Index: counter.Next(),
		Image: img,
	}
}

// FromPNG decodes a PNG byte stream into a new Frame.
func FromPNG(data []byte, counter *Counter) (*Frame, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewDecodeError("invalid PNG image", err)
	}
	return New(toRGBA(img), counter), nil
}

// PNG serializes the frame's image to PNG bytes.
func (f *Frame) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return nil, errors.NewDecodeError("encoding PNG image", err)
	}
	return buf.Bytes(), nil
}

// AddDuplicate records one more collapsed input frame.
func (f *Frame) AddDuplicate() {
	f.Duplicates++
}

// Width returns the image width in pixels.
func (f *Frame) Width() int {
	return f.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (f *Frame) Height() int {
	return f.Image.Bounds().Dy()
}

// RGBPixels returns the raster as packed RGB bytes, 3 per pixel.
func (f *Frame) RGBPixels() []byte {
	b := f.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*3)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := f.Image.Pix[(y-b.Min.Y)*f.Image.Stride : (y-b.Min.Y)*f.Image.Stride+w*4]
		for x := 0; x < w; x++ {
			out[i] = row[x*4]
			out[i+1] = row[x*4+1]
			out[i+2] = row[x*4+2]
			i += 3
		}
	}
	return out
}

// ImageFromRGB builds an RGBA image from packed RGB bytes.
func ImageFromRGB(width, height int, pixels []byte) (*image.RGBA, error) {
	if len(pixels) != width*height*3 {
		return nil, errors.NewDecodeError(
			fmt.Sprintf("invalid image buffer: got %d bytes, want %d for %dx%d",
				len(pixels), width*height*3, width, height), nil)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	i := 0
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			row[x*4] = pixels[i]
			row[x*4+1] = pixels[i+1]
			row[x*4+2] = pixels[i+2]
			row[x*4+3] = 0xff
			i += 3
		}
	}
	return img, nil
}

// toRGBA normalizes any decoded image to the RGBA color model.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
