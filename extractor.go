package voidprobe

import (
	"fmt"
	"sort"

	"github.com/akbstat/void-probe/model"
	"github.com/akbstat/void-probe/probe"
	"github.com/akbstat/void-probe/reader"
)

// Extractor provides a fluent interface for reading and checking a PDF.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	filename string
	reader   *reader.Reader

	options ExtractOptions

	// Text model, read once
	doc      *model.Document
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		reader:   e.reader,
		options:  e.options.clone(),
		doc:      e.doc,
		warnings: e.warnings,
	}
}

// Pages restricts the result to the given pages (1-indexed).
//
// Example:
//
//	lines, _, err := voidprobe.Open("doc.pdf").Pages(1, 3, 5).Lines()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange restricts the result to a range of pages (1-indexed, inclusive).
//
// Example:
//
//	rep, _, err := voidprobe.Open("doc.pdf").PageRange(5, 10).Check()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Letterhead replaces the markers a title row may contain.
//
// Example:
//
//	rep, _, err := voidprobe.Open("doc.pdf").Letterhead("康方", "Akeso Inc").Check()
func (e *Extractor) Letterhead(contains ...string) *Extractor {
	newExt := e.clone()
	newExt.options.rule.Contains = append([]string(nil), contains...)
	return newExt
}

// LetterheadPrefix replaces the markers a title row may start with.
func (e *Extractor) LetterheadPrefix(prefixes ...string) *Extractor {
	newExt := e.clone()
	newExt.options.rule.Prefixes = append([]string(nil), prefixes...)
	return newExt
}

// load reads the text model once.
func (e *Extractor) load() error {
	if e.doc != nil {
		return nil
	}
	if e.reader == nil {
		if e.filename == "" {
			return fmt.Errorf("no filename specified")
		}
		r, err := reader.Open(e.filename)
		if err != nil {
			return err
		}
		e.reader = r
	}
	doc, err := e.reader.Document()
	if err != nil {
		return err
	}
	e.doc = doc
	e.warnings = e.reader.Warnings()
	return nil
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if err := e.load(); err != nil {
		return 0, err
	}
	return e.doc.PageCount(), nil
}

// Document returns the text model restricted to the selected pages. Page
// numbers keep their position in the file.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if err := e.load(); err != nil {
		return nil, nil, err
	}
	numbers, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}
	out := &model.Document{Path: e.doc.Path}
	for _, n := range numbers {
		out.Pages = append(out.Pages, e.doc.Page(n))
	}
	return out, e.selectedWarnings(numbers), nil
}

// Lines returns the text rows of each selected page.
//
// Example:
//
//	lines, _, err := voidprobe.Open("document.pdf").Lines()
//	for i, rows := range lines {
//	    fmt.Printf("page %d: %d rows\n", i+1, len(rows))
//	}
func (e *Extractor) Lines() ([][]string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, nil, err
	}
	out := make([][]string, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = p.Lines
	}
	return out, warnings, nil
}

// Text returns the rows of the selected pages, one per line, pages
// separated by a blank line.
func (e *Extractor) Text() (string, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return "", nil, err
	}
	return doc.Text(), warnings, nil
}

// Check applies the letterhead rule to the selected pages.
//
// Example:
//
//	rep, _, err := voidprobe.Open("l-16-02.pdf").Check()
//	if !rep.OK() {
//	    fmt.Println("pages without letterhead:", rep.Void)
//	}
func (e *Extractor) Check() (*probe.Report, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, nil, err
	}
	rep := e.options.rule.Apply(doc)
	rep.Pages = e.doc.PageCount()
	for _, w := range warnings {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	return rep, warnings, nil
}

// resolvePages validates the selected page numbers. If no pages are
// selected, returns all pages.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount := e.doc.PageCount()

	if len(e.options.pages) == 0 {
		numbers := make([]int, pageCount)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			numbers = append(numbers, p)
		}
	}
	sort.Ints(numbers)
	return numbers, nil
}

func (e *Extractor) selectedWarnings(numbers []int) []Warning {
	if len(e.options.pages) == 0 {
		return e.warnings
	}
	keep := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		keep[n] = true
	}
	var out []Warning
	for _, w := range e.warnings {
		if keep[w.Page] {
			out = append(out, w)
		}
	}
	return out
}
