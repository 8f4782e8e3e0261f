package font

import (
	"fmt"

	"github.com/akbstat/void-probe/core"
)

// Resolver resolves indirect references.
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Cache holds the CMaps of one document, keyed by font resource name. The
// first font registered under a name wins for the life of the cache.
type Cache struct {
	cmaps map[string]CMap
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{cmaps: make(map[string]CMap)}
}

// Register builds CMaps for the entries of a /Font resource dictionary that
// are not cached yet. Fonts without ToUnicode are skipped. Fonts whose
// ToUnicode stream cannot be resolved or decoded are reported and left
// unmapped; the other fonts are still registered.
func (c *Cache) Register(fonts core.Dict, r Resolver) []error {
	var errs []error
	for _, name := range fonts.Keys() {
		if _, ok := c.cmaps[name]; ok {
			continue
		}
		cmap, err := toUnicode(fonts.Get(name), r)
		if err != nil {
			errs = append(errs, fmt.Errorf("font %s: %w", name, err))
			continue
		}
		if cmap != nil {
			c.cmaps[name] = cmap
		}
	}
	return errs
}

// toUnicode returns the CMap of a font dictionary, or nil if it has none.
func toUnicode(obj core.Object, r Resolver) (CMap, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("font is %T, not a dictionary", resolved)
	}
	if !dict.Has("ToUnicode") {
		return nil, nil
	}
	tu, err := r.Resolve(dict.Get("ToUnicode"))
	if err != nil {
		return nil, fmt.Errorf("ToUnicode: %w", err)
	}
	stream, ok := tu.(*core.Stream)
	if !ok {
		// /Identity-H and other names carry no mapping we can use
		return nil, nil
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}
	return BuildCMap(data), nil
}

// CMap returns the CMap registered under name.
func (c *Cache) CMap(name string) (CMap, bool) {
	m, ok := c.cmaps[name]
	return m, ok
}

// Len returns the number of cached CMaps.
func (c *Cache) Len() int { return len(c.cmaps) }
