package pattern

import (
	"fmt"
	"image/color"
	"maps"
	"strconv"
	"strings"

	"github.com/setanarut/wrapstudio/internal/param"
	"github.com/setanarut/wrapstudio/utils"
)

// MaxSide bounds generated canvas sides.
const MaxSide = 8192

// MaxShapes caps how many repeated shapes (stars, blobs, waves, flame
// tongues) a single recipe draws.
const MaxShapes = 10000

// Params are named generator parameters. Values may be Go numbers, strings
// (as they arrive from query strings), hex color strings, or color lists
// given as []string, []any or a comma-separated string.
type Params map[string]any

// Merge returns a new Params with every key of over layered on p.
func (p Params) Merge(over Params) Params {
	out := make(Params, len(p)+len(over))
	maps.Copy(out, p)
	maps.Copy(out, over)
	return out
}

// reader pulls typed values out of Params, keeping the first conversion
// error so generators can read everything and check once.
type reader struct {
	p   Params
	err error
}

func (r *reader) fail(key string, v any, want string) {
	if r.err == nil {
		r.err = param.Invalid("%s: cannot use %v (%T) as %s", key, v, v, want)
	}
}

func (r *reader) float(key string) float64 {
	v, ok := r.p[key]
	if !ok {
		r.fail(key, nil, "number")
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	r.fail(key, v, "number")
	return 0
}

func (r *reader) positive(key string) float64 {
	f := r.float(key)
	if r.err == nil {
		r.err = param.Positive(key, f)
	}
	return f
}

func (r *reader) nonNegative(key string) float64 {
	f := r.float(key)
	if r.err == nil && !(f >= 0) {
		r.err = param.Invalid("%s must not be negative, got %v", key, f)
	}
	return f
}

func (r *reader) count(key string) int {
	f := r.float(key)
	if r.err == nil && (f < 0 || f != float64(int(f))) {
		r.err = param.Invalid("%s must be a non-negative integer, got %v", key, f)
	}
	return int(f)
}

// shapes reads a repeat count, clamped to MaxShapes.
func (r *reader) shapes(key string) int {
	return min(r.count(key), MaxShapes)
}

func (r *reader) side(key string) int {
	n := r.count(key)
	if r.err == nil && (n == 0 || n > MaxSide) {
		r.err = param.Invalid("%s must be in [1,%d], got %d", key, MaxSide, n)
	}
	return n
}

func (r *reader) str(key string) string {
	switch v := r.p[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// color reads a hex color. "transparent" and the empty string give the
// zero color.
func (r *reader) color(key string) color.NRGBA {
	v := r.p[key]
	if c, ok := v.(color.Color); ok {
		return color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return r.parseColor(key, r.str(key))
}

func (r *reader) parseColor(key, s string) color.NRGBA {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") {
		return color.NRGBA{}
	}
	c, ok := utils.ParseHex(s)
	if !ok {
		r.fail(key, s, "hex color")
	}
	return color.NRGBA(c)
}

// colors reads a non-empty color list.
func (r *reader) colors(key string) []color.NRGBA {
	var raw []string
	switch v := r.p[key].(type) {
	case []string:
		raw = v
	case []any:
		for _, e := range v {
			raw = append(raw, fmt.Sprint(e))
		}
	case string:
		raw = strings.Split(v, ",")
	default:
		r.fail(key, v, "color list")
		return nil
	}
	if len(raw) == 0 {
		r.fail(key, raw, "non-empty color list")
		return nil
	}
	out := make([]color.NRGBA, len(raw))
	for i, s := range raw {
		out[i] = r.parseColor(key, s)
	}
	return out
}

func invalidChoice(key, got string, allowed ...string) error {
	return param.Invalid("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), got)
}
