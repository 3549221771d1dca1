// Package compare scores the visual similarity of two RGB rasters.
//
// The score is a hybrid of windowed structural similarity over luma and
// mean per-pixel color distance, normalized to [0, 1]. Identical rasters
// score exactly 1.0, so a threshold of 1.0 collapses only exact matches.
package compare

import (
	"image"
	"math"

	"github.com/five82/uplift/internal/errors"
)

const (
	// windowSize is the square window over which structural similarity is
	// computed.
	windowSize = 8

	// Stabilization constants for luma in the [0, 1] range.
	c1 = 0.0001 // (0.01)^2
	c2 = 0.0009 // (0.03)^2
)

// Score computes the hybrid similarity of two equally-sized rasters.
// Returns an error when dimensions differ.
func Score(a, b *image.RGBA) (float64, error) {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	if aw != bw || ah != bh {
		return 0, errors.NewArgumentError("cannot compare images of different dimensions")
	}
	if aw == 0 || ah == 0 {
		return 0, errors.NewArgumentError("cannot compare empty images")
	}

	structural := lumaSSIM(a, b, aw, ah)
	chromatic := colorSimilarity(a, b, aw, ah)
	// Anti-correlated luma drives the structural term below zero; clamp the
	// blend so the score stays within [0, 1].
	return max((structural+chromatic)/2, 0), nil
}

// IsDuplicate reports whether two rasters meet the similarity threshold.
// Mismatched dimensions are never duplicates.
func IsDuplicate(a, b *image.RGBA, threshold float64) bool {
	score, err := Score(a, b)
	if err != nil {
		return false
	}
	return score >= threshold
}

// luma returns the pixel's BT.601 luma in [0, 1].
func luma(img *image.RGBA, x, y int) float64 {
	i := img.PixOffset(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	r := float64(img.Pix[i]) / 255
	g := float64(img.Pix[i+1]) / 255
	b := float64(img.Pix[i+2]) / 255
	return 0.299*r + 0.587*g + 0.114*b
}

// lumaSSIM computes mean structural similarity over fixed windows of the
// luma channel. Edge windows may be smaller than windowSize.
func lumaSSIM(a, b *image.RGBA, w, h int) float64 {
	var total float64
	var windows int

	for wy := 0; wy < h; wy += windowSize {
		for wx := 0; wx < w; wx += windowSize {
			ww := min(windowSize, w-wx)
			wh := min(windowSize, h-wy)
			total += windowSSIM(a, b, wx, wy, ww, wh)
			windows++
		}
	}
	return total / float64(windows)
}

func windowSSIM(a, b *image.RGBA, x0, y0, w, h int) float64 {
	n := float64(w * h)

	var sumA, sumB float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			sumA += luma(a, x, y)
			sumB += luma(b, x, y)
		}
	}
	meanA := sumA / n
	meanB := sumB / n

	var varA, varB, cov float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			da := luma(a, x, y) - meanA
			db := luma(b, x, y) - meanB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*meanA*meanB + c1) * (2*cov + c2)
	den := (meanA*meanA + meanB*meanB + c1) * (varA + varB + c2)
	return num / den
}

// colorSimilarity is one minus the mean per-pixel RGB distance, with the
// distance normalized so that black vs white is exactly 1.
func colorSimilarity(a, b *image.RGBA, w, h int) float64 {
	var total float64
	norm := math.Sqrt(3)

	for y := 0; y < h; y++ {
		ai := a.PixOffset(a.Bounds().Min.X, a.Bounds().Min.Y+y)
		bi := b.PixOffset(b.Bounds().Min.X, b.Bounds().Min.Y+y)
		for x := 0; x < w; x++ {
			dr := (float64(a.Pix[ai]) - float64(b.Pix[bi])) / 255
			dg := (float64(a.Pix[ai+1]) - float64(b.Pix[bi+1])) / 255
			db := (float64(a.Pix[ai+2]) - float64(b.Pix[bi+2])) / 255
			total += math.Sqrt(dr*dr+dg*dg+db*db) / norm
			ai += 4
			bi += 4
		}
	}
	return 1 - total/float64(w*h)
}
