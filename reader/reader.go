package reader

import (
	"bytes"
	"fmt"

	"github.com/akbstat/void-probe/core"
	"github.com/akbstat/void-probe/font"
	"github.com/akbstat/void-probe/model"
	"github.com/akbstat/void-probe/pages"
	"github.com/akbstat/void-probe/text"
)

// ReadError reports a document that cannot be read: it cannot be opened or
// parsed, or a page refers to content that does not exist.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Warning is a non-fatal problem found while reading one page.
type Warning struct {
	Page int
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %v", w.Page, w.Err)
}

// Reader extracts the text rows of a PDF file.
type Reader struct {
	path     string
	doc      *core.Document
	fonts    *font.Cache
	tree     *pages.PageTree
	warnings []Warning
}

// Open loads and parses the PDF file at path.
func Open(path string) (*Reader, error) {
	doc, err := core.Load(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return NewReader(path, doc), nil
}

// NewReader returns a reader over a document that is already in memory.
// Path is used in errors and in the resulting model.
func NewReader(path string, doc *core.Document) *Reader {
	return &Reader{path: path, doc: doc, fonts: font.NewCache()}
}

// Version returns the PDF version from the file header
func (r *Reader) Version() string {
	return r.doc.Version
}

// Warnings returns the problems recorded by the last call to Document.
func (r *Reader) Warnings() []Warning {
	return r.warnings
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.tree.Count()
}

// ensurePageTree loads the page tree if not already loaded
func (r *Reader) ensurePageTree() error {
	if r.tree != nil {
		return nil
	}
	catalog, err := r.doc.Catalog()
	if err != nil {
		return &ReadError{Path: r.path, Err: err}
	}
	tree, err := pages.FromCatalog(catalog, r.doc)
	if err != nil {
		return &ReadError{Path: r.path, Err: err}
	}
	r.tree = tree
	return nil
}

func (r *Reader) pages() ([]*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	list, err := r.tree.Pages()
	if err != nil {
		return nil, &ReadError{Path: r.path, Err: err}
	}
	return list, nil
}

// Document extracts the rows of every page in page tree order.
func (r *Reader) Document() (*model.Document, error) {
	r.warnings = nil
	list, err := r.pages()
	if err != nil {
		return nil, err
	}

	doc := &model.Document{Path: r.path}
	for i, p := range list {
		lines, err := r.lines(i+1, p)
		if err != nil {
			return nil, err
		}
		doc.AddPage(lines)
	}
	return doc, nil
}

// lines registers the page fonts and tokenizes its content. Streams that
// fail to decode are left out with a warning. A syntax error in the
// content ends the page with a warning, keeping the rows read before it.
func (r *Reader) lines(number int, p *pages.Page) ([]string, error) {
	r.registerFonts(number, p)

	streams, err := p.Contents()
	if err != nil {
		return nil, &ReadError{Path: r.path, Err: fmt.Errorf("page %d: %w", number, err)}
	}
	if len(streams) == 0 {
		return nil, nil
	}

	var content bytes.Buffer
	for _, s := range streams {
		data, err := s.Decode()
		if err != nil {
			r.warn(number, err)
			continue
		}
		content.Write(data)
		content.WriteByte('\n')
	}

	lines, err := text.Lines(content.Bytes(), r.fonts)
	if err != nil {
		r.warn(number, err)
	}
	return lines, nil
}

func (r *Reader) registerFonts(number int, p *pages.Page) {
	res, err := p.Resources()
	if err != nil {
		r.warn(number, err)
		return
	}
	if res == nil {
		return
	}
	obj, err := r.doc.Resolve(res.Get("Font"))
	if err != nil {
		r.warn(number, fmt.Errorf("font resources: %w", err))
		return
	}
	fonts, ok := obj.(core.Dict)
	if !ok {
		return
	}
	for _, err := range r.fonts.Register(fonts, r.doc) {
		r.warn(number, err)
	}
}

func (r *Reader) warn(page int, err error) {
	r.warnings = append(r.warnings, Warning{Page: page, Err: err})
}

// Content returns the decoded content of a page (1-indexed), its streams
// concatenated.
func (r *Reader) Content(number int) ([]byte, error) {
	return r.content(number, (*core.Stream).Decode)
}

// RawContent returns the content streams of a page as stored in the file.
func (r *Reader) RawContent(number int) ([]byte, error) {
	return r.content(number, func(s *core.Stream) ([]byte, error) { return s.Data, nil })
}

func (r *Reader) content(number int, data func(*core.Stream) ([]byte, error)) ([]byte, error) {
	list, err := r.pages()
	if err != nil {
		return nil, err
	}
	if number < 1 || number > len(list) {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, len(list))
	}
	streams, err := list[number-1].Contents()
	if err != nil {
		return nil, &ReadError{Path: r.path, Err: fmt.Errorf("page %d: %w", number, err)}
	}
	var buf bytes.Buffer
	for i, s := range streams {
		b, err := data(s)
		if err != nil {
			return nil, fmt.Errorf("page %d stream %d: %w", number, i, err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}
