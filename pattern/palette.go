package pattern

import (
	"image"

	"github.com/setanarut/wrapstudio/utils"
)

// ColorsFrom samples up to k film colors from a reference photo as a value
// usable for any "colors" param, base coat first.
func ColorsFrom(img image.Image, k int, method utils.SwatchMethod) []string {
	return utils.SwatchHex(utils.Swatches(img, k, method))
}
