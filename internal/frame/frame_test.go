package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testImage builds a small RGBA image with a deterministic gradient.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 7),
				G: uint8(y * 13),
				B: uint8((x + y) * 3),
				A: 0xff,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCounterIssuesDenseIndices(t *testing.T) {
	var c Counter
	for i := 0; i < 5; i++ {
		f := New(testImage(2, 2), &c)
		if f.Index != i {
			t.Errorf("frame %d has index %d", i, f.Index)
		}
		if f.Duplicates != 0 {
			t.Errorf("new frame has duplicates = %d, want 0", f.Duplicates)
		}
	}

	// A second counter starts over: indices are per run, not process-wide.
	var c2 Counter
	if f := New(testImage(2, 2), &c2); f.Index != 0 {
		t.Errorf("fresh counter issued index %d, want 0", f.Index)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	var c Counter
	original := testImage(16, 9)
	f := New(original, &c)

	data, err := f.PNG()
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}

	decoded, err := FromPNG(data, &c)
	if err != nil {
		t.Fatalf("FromPNG() error = %v", err)
	}

	if decoded.Width() != 16 || decoded.Height() != 9 {
		t.Fatalf("decoded dimensions = %dx%d, want 16x9", decoded.Width(), decoded.Height())
	}
	if !bytes.Equal(decoded.RGBPixels(), f.RGBPixels()) {
		t.Error("raster changed across a PNG encode/decode round trip")
	}
}

func TestFromPNGRejectsGarbage(t *testing.T) {
	var c Counter
	if _, err := FromPNG([]byte("not a png at all"), &c); err == nil {
		t.Error("FromPNG on garbage input should fail")
	}
}

func TestRGBPixels(t *testing.T) {
	var c Counter
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 0xff})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 0xff})

	f := New(img, &c)
	got := f.RGBPixels()
	want := []byte{10, 20, 30, 40, 50, 60}
	if !bytes.Equal(got, want) {
		t.Errorf("RGBPixels() = %v, want %v", got, want)
	}
}

func TestImageFromRGB(t *testing.T) {
	pixels := []byte{10, 20, 30, 40, 50, 60}
	img, err := ImageFromRGB(2, 1, pixels)
	if err != nil {
		t.Fatalf("ImageFromRGB() error = %v", err)
	}

	r, g, b, a := img.At(1, 0).RGBA()
	if r>>8 != 40 || g>>8 != 50 || b>>8 != 60 || a>>8 != 0xff {
		t.Errorf("pixel (1,0) = %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestImageFromRGBLengthMismatch(t *testing.T) {
	if _, err := ImageFromRGB(4, 4, make([]byte, 10)); err == nil {
		t.Error("ImageFromRGB with a short buffer should fail")
	}
}

func TestFromPNGNormalizesColorModel(t *testing.T) {
	// Grayscale PNG input still yields an RGBA raster.
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 16)
	}

	var c Counter
	f, err := FromPNG(encodePNG(t, gray), &c)
	if err != nil {
		t.Fatalf("FromPNG() error = %v", err)
	}
	if got := len(f.RGBPixels()); got != 4*4*3 {
		t.Errorf("RGBPixels length = %d, want %d", got, 4*4*3)
	}
}
