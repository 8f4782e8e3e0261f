package pages

import (
	"fmt"

	"github.com/akbstat/void-probe/core"
)

// Inheritable lists the page attributes a page may take from its ancestors
// in the page tree.
var Inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// ObjectResolver interface for resolving indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// PageTree walks the page tree of a document.
type PageTree struct {
	root     core.Object
	resolver ObjectResolver
	pages    []*Page
}

// NewPageTree creates a page tree rooted at root, usually the catalog's
// /Pages reference.
func NewPageTree(root core.Object, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// FromCatalog returns the page tree named by the catalog's /Pages entry.
func FromCatalog(catalog core.Dict, resolver ObjectResolver) (*PageTree, error) {
	root := catalog.Get("Pages")
	if root == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}
	return NewPageTree(root, resolver), nil
}

// Pages returns the leaves of the tree in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}
	pages := make([]*Page, 0)
	visited := make(map[core.IndirectRef]bool)
	if err := t.walk(t.root, nil, visited, &pages); err != nil {
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	t.pages = pages
	return pages, nil
}

// Count returns the number of leaves found in the tree, which may differ
// from a damaged /Count entry.
func (t *PageTree) Count() (int, error) {
	pages, err := t.Pages()
	return len(pages), err
}

// walk visits node. inherited holds the inheritable attributes collected on
// the way down, nearest ancestor first.
func (t *PageTree) walk(node core.Object, inherited core.Dict, visited map[core.IndirectRef]bool, out *[]*Page) error {
	var ref core.IndirectRef
	if r, ok := node.(core.IndirectRef); ok {
		if visited[r] {
			return fmt.Errorf("page tree cycle at %s", r)
		}
		visited[r] = true
		ref = r
	}

	resolved, err := t.resolver.Resolve(node)
	if err != nil {
		return fmt.Errorf("failed to resolve page node: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return fmt.Errorf("invalid page node type: %T", resolved)
	}

	isPages := dict.IsType("Pages")
	if !dict.Has("Type") {
		isPages = dict.Has("Kids")
	}
	if !isPages {
		*out = append(*out, &Page{Ref: ref, dict: dict, inherited: inherited, resolver: t.resolver})
		return nil
	}

	next := make(core.Dict, len(Inheritable))
	for k, v := range inherited {
		next[k] = v
	}
	for _, key := range Inheritable {
		if v := dict.Get(key); v != nil {
			next[key] = v
		}
	}

	kidsObj, err := t.resolver.Resolve(dict.Get("Kids"))
	if err != nil {
		return fmt.Errorf("failed to resolve /Kids: %w", err)
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		return fmt.Errorf("invalid /Kids type: %T", kidsObj)
	}
	for _, kid := range kids {
		if err := t.walk(kid, next, visited, out); err != nil {
			return err
		}
	}
	return nil
}

// Page represents a single PDF page
type Page struct {
	// Ref is the page's object identifier; zero for a page given inline.
	Ref       core.IndirectRef
	dict      core.Dict
	inherited core.Dict
	resolver  ObjectResolver
}

// Dict returns the page dictionary itself.
func (p *Page) Dict() core.Dict { return p.dict }

// Get returns key from the page, falling back to the nearest ancestor for
// inheritable attributes.
func (p *Page) Get(key string) core.Object {
	if v := p.dict.Get(key); v != nil {
		return v
	}
	return p.inherited.Get(key)
}

// Flatten copies inherited attributes into the page dictionary, so the page
// renders the same once detached from its tree.
func (p *Page) Flatten() {
	for _, key := range Inheritable {
		if !p.dict.Has(key) {
			if v := p.inherited.Get(key); v != nil {
				p.dict.Set(key, v)
			}
		}
	}
}

// Resources returns the page resources dictionary, or nil when the page
// has none.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.Get("Resources")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	switch v := resolved.(type) {
	case core.Dict:
		return v, nil
	case core.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("invalid Resources type: %T", resolved)
}

// Contents returns the page content streams in order. A page without
// /Contents has none.
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	var parts core.Array
	switch v := resolved.(type) {
	case core.Null:
		return nil, nil
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		parts = v
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", resolved)
	}

	streams := make([]*core.Stream, 0, len(parts))
	for i, part := range parts {
		r, err := p.resolver.Resolve(part)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
		}
		s, ok := r.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("contents[%d] is %T, not a stream", i, r)
		}
		streams = append(streams, s)
	}
	return streams, nil
}

// MediaBox returns the page media box [x1 y1 x2 y2].
func (p *Page) MediaBox() ([]float64, error) {
	obj := p.Get("MediaBox")
	if obj == nil {
		return nil, fmt.Errorf("MediaBox not found")
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve MediaBox: %w", err)
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("invalid MediaBox: %v", resolved)
	}
	box := make([]float64, 4)
	for i, e := range arr {
		v, ok := core.Number(e)
		if !ok {
			return nil, fmt.Errorf("invalid MediaBox element type: %T", e)
		}
		box[i] = v
	}
	return box, nil
}

// Rotate returns the page rotation (0, 90, 180, or 270)
func (p *Page) Rotate() int {
	if r, ok := p.Get("Rotate").(core.Int); ok {
		return int(r)
	}
	return 0
}
