package textfill

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/setanarut/wrapstudio/mask"
	"github.com/setanarut/wrapstudio/raster"
)

// layout walks the staggered grid row by row. Row r sits at y = r*SpacingY
// and odd rows shift right by SpacingX/2. Iteration covers the canvas plus
// the stamp's half-diagonal on every side so a tilted stamp near the edge
// is still considered; whether it is drawn is decided by the mask test.
func layout(req *Request, shape *raster.TextShape) []Stamp {
	margin := math.Hypot(shape.Width, shape.Height) / 2
	w, h := float64(req.Width), float64(req.Height)

	rowLo := int(math.Floor(-margin / req.SpacingY))
	rowHi := int(math.Ceil((h + margin) / req.SpacingY))
	colLo := int(math.Floor(-margin/req.SpacingX)) - 1
	colHi := int(math.Ceil((w + margin) / req.SpacingX))

	theta := req.Rotation * math.Pi / 180
	corners := stampCorners(shape, theta)

	var stamps []Stamp
	for r := rowLo; r <= rowHi; r++ {
		y := float64(r) * req.SpacingY
		offset := 0.0
		if r%2 != 0 {
			offset = req.SpacingX / 2
		}
		for c := colLo; c <= colHi; c++ {
			x := float64(c)*req.SpacingX + offset
			if x < -margin || x >= w+margin || y < -margin || y >= h+margin {
				continue
			}
			if !accept(req, x, y, corners) {
				continue
			}
			stamps = append(stamps, Stamp{X: x, Y: y, Row: r, Col: c})
		}
	}
	return stamps
}

// stampCorners returns the rotated advance-box corners relative to the
// stamp center.
func stampCorners(shape *raster.TextShape, theta float64) [4]r2.Vec {
	hw, hh := shape.Width/2, shape.Height/2
	rot := r2.NewRotation(theta, r2.Vec{})
	return [4]r2.Vec{
		rot.Rotate(r2.Vec{X: -hw, Y: -hh}),
		rot.Rotate(r2.Vec{X: hw, Y: -hh}),
		rot.Rotate(r2.Vec{X: hw, Y: hh}),
		rot.Rotate(r2.Vec{X: -hw, Y: hh}),
	}
}

func accept(req *Request, x, y float64, corners [4]r2.Vec) bool {
	if !interiorAt(req, x, y) {
		return false
	}
	if req.Sampling != SampleCorners {
		return true
	}
	for _, c := range corners {
		if !interiorAt(req, x+c.X, y+c.Y) {
			return false
		}
	}
	return true
}

func interiorAt(req *Request, x, y float64) bool {
	px, py := int(math.Round(x)), int(math.Round(y))
	if px < 0 || px >= req.Width || py < 0 || py >= req.Height {
		return false
	}
	return req.Interior[py*req.Width+px] == mask.Interior
}
