// Package pattern is the procedural pattern library: stateless rendering
// recipes with named parameters, kept in a registry queryable by category.
package pattern

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/setanarut/wrapstudio/internal/logging"
)

// ErrUnknownPattern is returned for ids that are not registered.
var ErrUnknownPattern = errors.New("unknown pattern")

// CategoryAll selects every recipe in List.
const CategoryAll = "all"

// Generator renders a pattern from fully merged params.
type Generator func(p Params) (*image.NRGBA, error)

type Recipe struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Name     string    `json:"name"`
	Defaults Params    `json:"defaults"`
	Generate Generator `json:"-"`
}

// baseDefaults apply beneath every recipe's own defaults.
var baseDefaults = Params{"width": 800, "height": 600}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]Recipe
	order   []string
	cats    []string
}

func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// Register adds a recipe. Ids must be unique.
func (r *Registry) Register(rec Recipe) error {
	if rec.ID == "" || rec.Generate == nil {
		return fmt.Errorf("pattern: recipe needs an id and a generator")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.recipes[rec.ID]; dup {
		return fmt.Errorf("pattern: duplicate id %q", rec.ID)
	}
	r.recipes[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	if !slices.Contains(r.cats, rec.Category) {
		r.cats = append(r.cats, rec.Category)
	}
	return nil
}

func (r *Registry) Lookup(id string) (Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipes[id]
	return rec, ok
}

// List returns recipes of one category in registration order. An empty
// category or CategoryAll lists everything.
func (r *Registry) List(category string) []Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recipe, 0, len(r.order))
	for _, id := range r.order {
		rec := r.recipes[id]
		if category == "" || category == CategoryAll || rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// Categories returns CategoryAll followed by each category in first
// registration order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{CategoryAll}, r.cats...)
}

// Generate renders recipe id with overrides layered over its defaults.
func (r *Registry) Generate(id string, overrides Params) (*image.NRGBA, error) {
	rec, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}
	img, err := rec.Generate(baseDefaults.Merge(rec.Defaults).Merge(overrides))
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", id, err)
	}
	logging.Logger().Debug("pattern generated", "id", id, "width", img.Rect.Dx(), "height", img.Rect.Dy())
	return img, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Builtin returns a new registry holding the built-in presets. Presets
// that fail to register are left out and reported in the joined error.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	var errs []error
	for _, rec := range builtins() {
		if err := r.Register(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return r, errors.Join(errs...)
}

// Default returns the shared registry holding the built-in presets. A
// registration failure is logged once and the remaining presets are served.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		var err error
		defaultRegistry, err = Builtin()
		if err != nil {
			logging.Logger().Error("built-in patterns", "err", err)
		}
	})
	return defaultRegistry
}
