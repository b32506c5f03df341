package mask

import (
	"context"
	"math"
)

// gaussian3 is the 3×3 binomial kernel; its weights sum to 16.
var gaussian3 = [9]int{
	1, 2, 1,
	2, 4, 2,
	1, 2, 1,
}

// smoothEdges blurs only pixels whose alpha differs from some 8-neighbor by
// more than delta. Flat exterior and interior areas are left untouched, as
// is the one-pixel image border. Reads come from a snapshot so already
// smoothed pixels do not feed their neighbors.
func (s *Segmenter) smoothEdges(ctx context.Context, delta int) error {
	if s.W < 3 || s.H < 3 {
		return nil
	}
	pix := s.Overlay.Pix
	src := make([]uint8, len(pix))
	copy(src, pix)
	stride := s.Overlay.Stride

	isEdge := func(x, y int) bool {
		ca := int(src[y*stride+x*4+3])
		for dy := -1; dy <= 1; dy++ {
			row := (y + dy) * stride
			for dx := -1; dx <= 1; dx++ {
				na := int(src[row+(x+dx)*4+3])
				if na-ca > delta || ca-na > delta {
					return true
				}
			}
		}
		return false
	}

	for y := 1; y < s.H-1; y++ {
		if y%cancelCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for x := 1; x < s.W-1; x++ {
			if !isEdge(x, y) {
				continue
			}
			var acc [4]int
			k := 0
			for dy := -1; dy <= 1; dy++ {
				row := (y + dy) * stride
				for dx := -1; dx <= 1; dx++ {
					o := row + (x+dx)*4
					wt := gaussian3[k]
					k++
					acc[0] += int(src[o]) * wt
					acc[1] += int(src[o+1]) * wt
					acc[2] += int(src[o+2]) * wt
					acc[3] += int(src[o+3]) * wt
				}
			}
			o := y*stride + x*4
			for c := range 4 {
				pix[o+c] = uint8(math.RoundToEven(float64(acc[c]) / 16))
			}
		}
	}
	return nil
}
