// Package bucket implements the paint-bucket tool: a 4-connected flood fill
// over a flattened snapshot of the composition.
package bucket

import (
	"image"
	"image/color"

	"github.com/setanarut/wrapstudio/internal/logging"
	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/utils"
)

// MaxTolerance is the largest accepted per-channel distance.
const MaxTolerance = 100

type Result struct {
	Image *image.NRGBA
	// Filled is the number of pixels rewritten.
	Filled int
}

// Fill floods the region connected to (x, y) whose pixels stay within
// tolerance of the clicked pixel on each of R, G and B, painting it with
// the fill color at full opacity. Alpha is neither compared nor kept: a
// half-transparent region fills the same as an opaque one. fill is read as
// a straight (non-premultiplied) color and its alpha is ignored. src is
// never modified.
//
// A click outside the image, or on a pixel whose RGB already equals the
// fill RGB, returns an unchanged copy with Filled == 0.
func Fill(src *image.NRGBA, x, y int, fill color.NRGBA, tolerance int) (*Result, error) {
	if tolerance < 0 || tolerance > MaxTolerance {
		return nil, param.Invalid("tolerance must be in [0,%d], got %d", MaxTolerance, tolerance)
	}
	dst := utils.ToNRGBA(src)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if x < 0 || x >= w || y < 0 || y >= h {
		return &Result{Image: dst}, nil
	}

	pix, stride := dst.Pix, dst.Stride
	o := y*stride + x*4
	target := [3]uint8{pix[o], pix[o+1], pix[o+2]}
	if target == [3]uint8{fill.R, fill.G, fill.B} {
		return &Result{Image: dst}, nil
	}
	paint := [4]uint8{fill.R, fill.G, fill.B, 255}

	within := func(o int) bool {
		for c := range 3 {
			d := int(pix[o+c]) - int(target[c])
			if d < -tolerance || d > tolerance {
				return false
			}
		}
		return true
	}

	visited := make([]bool, w*h)
	stack := make([]int, 0, 1024)
	stack = append(stack, y*w+x)
	filled := 0
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		px, py := i%w, i/w
		o := py*stride + px*4
		if !within(o) {
			continue
		}
		copy(pix[o:o+4], paint[:])
		filled++
		if px > 0 {
			stack = append(stack, i-1)
		}
		if px < w-1 {
			stack = append(stack, i+1)
		}
		if py > 0 {
			stack = append(stack, i-w)
		}
		if py < h-1 {
			stack = append(stack, i+w)
		}
	}
	logging.Logger().Debug("bucket fill", "x", x, "y", y, "tolerance", tolerance, "filled", filled)
	return &Result{Image: dst, Filled: filled}, nil
}
