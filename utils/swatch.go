package utils

import (
	"image"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/setanarut/wrapstudio/internal/logging"
)

// SwatchMethod selects how candidate film colors are found in a
// reference photo.
type SwatchMethod int

const (
	SwatchDominant SwatchMethod = iota
	SwatchClusters
)

func (m SwatchMethod) String() string {
	if m == SwatchClusters {
		return "kmeans"
	}
	return "dominant"
}

// ParseSwatchMethod maps "kmeans" to SwatchClusters and anything else to
// SwatchDominant.
func ParseSwatchMethod(s string) SwatchMethod {
	if s == "kmeans" {
		return SwatchClusters
	}
	return SwatchDominant
}

// Swatch is one wrap film color sampled from a reference photo.
type Swatch struct {
	Color colorful.Color
	// Share is the fraction of the photo's opaque area this film covers.
	Share float64
}

// MinSwatchDistance is the CIEDE2000 distance (go-colorful scale) below
// which two films read as the same color on a vehicle.
const MinSwatchDistance = 0.1

// cutoutAlpha is the alpha below which a pixel belongs to a cut-out
// background rather than the photographed finish.
const cutoutAlpha = 0x8000

// Swatches returns up to k distinct film colors from img, base coat first:
// the list is ordered by covered area. Candidates closer than
// MinSwatchDistance to a larger swatch are folded into it.
func Swatches(img image.Image, k int, method SwatchMethod) []Swatch {
	if k <= 0 {
		return nil
	}
	var cands []Swatch
	if method == SwatchClusters {
		cands = clusterCandidates(img, k)
		if len(cands) == 0 {
			logging.Logger().Warn("kmeans found no swatches, using dominant colors")
		}
	}
	if len(cands) == 0 {
		cands = dominantCandidates(img, k)
	}
	return foldSwatches(cands, k)
}

// SwatchHex formats swatches as "#rrggbb" strings, the form pattern
// params expect.
func SwatchHex(sw []Swatch) []string {
	out := make([]string, len(sw))
	for i, s := range sw {
		out[i] = s.Color.Clamped().Hex()
	}
	return out
}

func dominantCandidates(img image.Image, k int) []Swatch {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	out := make([]Swatch, 0, len(found))
	for _, c := range found {
		if c.Weight <= 0 {
			continue
		}
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, Swatch{Color: col.Clamped(), Share: c.Weight})
	}
	return normalizeShares(out)
}

// clusterCandidates runs k-means in Lab space over a subsample of the
// opaque pixels.
func clusterCandidates(img image.Image, k int) []Swatch {
	b := img.Bounds()
	area := b.Dx() * b.Dy()
	if area == 0 {
		return nil
	}
	const maxSamples = 12000
	step := 1
	if area > maxSamples {
		step = int(math.Sqrt(float64(area)/maxSamples)) + 1
	}
	obs := make(clusters.Observations, 0, min(area, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a < cutoutAlpha {
				continue
			}
			col, _ := colorful.MakeColor(c)
			l, ca, cb := col.Lab()
			obs = append(obs, clusters.Coordinates{l, ca, cb})
		}
	}
	if len(obs) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(obs, min(k*3, len(obs)))
	if err != nil {
		logging.Logger().Debug("kmeans partition", "err", err)
		return nil
	}
	out := make([]Swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		out = append(out, Swatch{
			Color: colorful.Lab(c.Center[0], c.Center[1], c.Center[2]).Clamped(),
			Share: float64(len(c.Observations)),
		})
	}
	return normalizeShares(out)
}

func normalizeShares(sw []Swatch) []Swatch {
	var total float64
	for _, s := range sw {
		total += s.Share
	}
	if total <= 0 {
		return nil
	}
	for i := range sw {
		sw[i].Share /= total
	}
	return sw
}

// foldSwatches keeps the largest candidates that are mutually distinct,
// at most k of them. Every dropped candidate adds its share to the
// nearest kept swatch.
func foldSwatches(cands []Swatch, k int) []Swatch {
	cands = slices.Clone(cands)
	byShare(cands)

	var kept []Swatch
	for _, c := range cands {
		near, d := nearestSwatch(kept, c.Color)
		if len(kept) < k && d >= MinSwatchDistance {
			kept = append(kept, c)
			continue
		}
		if near >= 0 {
			kept[near].Share += c.Share
		}
	}
	byShare(kept)
	return kept
}

func byShare(sw []Swatch) {
	slices.SortStableFunc(sw, func(a, b Swatch) int {
		switch {
		case a.Share > b.Share:
			return -1
		case a.Share < b.Share:
			return 1
		}
		return 0
	})
}

func nearestSwatch(sw []Swatch, c colorful.Color) (int, float64) {
	best, bestD := -1, math.Inf(1)
	for i, s := range sw {
		if d := s.Color.DistanceCIEDE2000(c); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}
