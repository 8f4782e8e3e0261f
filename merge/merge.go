package merge

import (
	"fmt"

	"github.com/akbstat/void-probe/core"
	"github.com/akbstat/void-probe/pages"
)

// Merge combines documents into one whose pages are the pages of each
// document in turn. The inputs are consumed: their objects are renumbered
// and moved into the result.
//
// The first catalog and the first page tree root are kept. Other page tree
// nodes are folded into that root, whose entries take precedence, and
// outlines are dropped. Pages inherit nothing in the result, so their
// inheritable attributes are copied down before the tree is flattened.
// The result is numbered from 1 and carries an empty outline.
func Merge(docs ...*core.Document) (*core.Document, error) {
	out := core.NewDocument()

	var (
		catalogRef, rootRef core.IndirectRef
		catalog, root       core.Dict
		kids                []core.IndirectRef
		inTree              = make(map[core.IndirectRef]bool)
	)

	next := 1
	for i, doc := range docs {
		doc.RenumberFrom(next)

		list, err := treePages(doc)
		if err != nil {
			return nil, &MergeError{Reason: fmt.Sprintf("fragment %d page tree", i+1), Err: err}
		}
		for _, p := range list {
			p.Flatten()
			ref := p.Ref
			if ref.Number == 0 {
				ref = doc.Add(p.Dict())
			}
			inTree[ref] = true
			kids = append(kids, ref)
		}
		next = doc.MaxID() + 1

		if catalog == nil {
			catalogRef, catalog, rootRef, root = roots(doc)
		}

		for _, ref := range doc.Refs() {
			obj := doc.Objects[ref]
			dict, _ := obj.(core.Dict)
			switch {
			case dict.IsType("Catalog"):
			case dict.IsType("Pages"):
				if ref == rootRef {
					continue
				}
				if root == nil {
					rootRef, root = ref, dict
					continue
				}
				for _, k := range dict.Keys() {
					if !root.Has(k) && !structural[k] {
						root.Set(k, dict.Get(k))
					}
				}
			case dict.IsType("Page"):
				if inTree[ref] {
					out.Objects[ref] = dict
				}
			case dict.IsType("Outlines"), dict.IsType("Outline"):
			default:
				out.Objects[ref] = obj
			}
		}
	}

	if catalog == nil {
		return nil, &MergeError{Reason: "no document catalog"}
	}
	if root == nil {
		return nil, &MergeError{Reason: "no page tree root"}
	}

	kidArray := make(core.Array, len(kids))
	for i, kid := range kids {
		out.Objects[kid].(core.Dict).Set("Parent", rootRef)
		kidArray[i] = kid
	}
	root.Delete("Parent")
	root.Set("Kids", kidArray)
	root.Set("Count", core.Int(len(kids)))
	out.Objects[rootRef] = root

	catalog.Set("Pages", rootRef)
	catalog.Delete("Outlines")
	out.Objects[catalogRef] = catalog
	out.Trailer.Set("Root", catalogRef)

	out.Renumber()

	cat, err := out.Catalog()
	if err != nil {
		return nil, &MergeError{Reason: "catalog", Err: err}
	}
	cat.Set("Outlines", out.Add(core.Dict{
		"Type":  core.Name("Outlines"),
		"Count": core.Int(0),
	}))
	return out, nil
}

// structural lists the page tree keys that are not folded into the kept
// root: its own tree links, and attributes that every page already carries
// after flattening.
var structural = map[string]bool{
	"Kids": true, "Count": true, "Parent": true,
	"Resources": true, "MediaBox": true, "CropBox": true, "Rotate": true,
}

// roots returns the catalog and page tree root named by the trailer. The
// root is zero when the catalog does not point at a /Pages dictionary.
func roots(doc *core.Document) (core.IndirectRef, core.Dict, core.IndirectRef, core.Dict) {
	catRef, ok := doc.Trailer.GetIndirectRef("Root")
	if !ok {
		return core.IndirectRef{}, nil, core.IndirectRef{}, nil
	}
	cat, _ := doc.Objects[catRef].(core.Dict)
	if cat == nil {
		return core.IndirectRef{}, nil, core.IndirectRef{}, nil
	}
	rootRef, _ := cat.GetIndirectRef("Pages")
	root, _ := doc.Objects[rootRef].(core.Dict)
	if !root.IsType("Pages") {
		return catRef, cat, core.IndirectRef{}, nil
	}
	return catRef, cat, rootRef, root
}

func treePages(doc *core.Document) ([]*pages.Page, error) {
	cat, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	tree, err := pages.FromCatalog(cat, doc)
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}
