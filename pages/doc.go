// Package pages walks the PDF page tree.
//
// [PageTree] flattens the tree into pages in document order, collecting
// inheritable attributes (Resources, MediaBox, CropBox, Rotate) from
// ancestor nodes on the way down. Each [Page] keeps its object identifier,
// which the merge engine uses to rebuild a single flat tree.
//
//	tree, err := pages.FromCatalog(catalog, doc)
//	list, err := tree.Pages()
package pages
