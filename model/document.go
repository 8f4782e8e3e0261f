package model

import "strings"

// Document is the text of one PDF file.
type Document struct {
	Path  string
	Pages []*Page
}

// Page is one page of a document. Number is 1-based.
type Page struct {
	Number int
	Lines  []string
}

// AddPage appends a page holding lines and numbers it.
func (d *Document) AddPage(lines []string) *Page {
	p := &Page{Number: len(d.Pages) + 1, Lines: lines}
	d.Pages = append(d.Pages, p)
	return p
}

// Page returns a page by number (1-indexed), or nil when out of range.
func (d *Document) Page(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Text joins the rows of every page, pages separated by a blank line.
func (d *Document) Text() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = strings.Join(p.Lines, "\n")
	}
	return strings.Join(parts, "\n\n")
}

// IsVoid reports whether the page has no visible text: no rows, or only
// rows that are empty after trimming.
func (p *Page) IsVoid() bool {
	_, ok := p.FirstLine()
	return !ok
}

// FirstLine returns the first row that is non-empty after trimming, trimmed.
func (p *Page) FirstLine() (string, bool) {
	for _, line := range p.Lines {
		if s := strings.TrimSpace(line); s != "" {
			return s, true
		}
	}
	return "", false
}
