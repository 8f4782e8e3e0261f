package probe

import (
	"github.com/akbstat/void-probe/reader"
)

// Report lists the flagged pages of one document.
type Report struct {
	File  string `json:"file"`
	Pages int    `json:"pages"`
	// Void holds 1-based page numbers in ascending order.
	Void     []int    `json:"void"`
	Warnings []string `json:"warnings,omitempty"`
	// Error is set when the document could not be read.
	Error string `json:"error,omitempty"`
}

// NewReport returns an empty report for file.
func NewReport(file string) *Report {
	return &Report{File: file, Void: []int{}}
}

// AppendVoid flags page and returns r for chaining.
func (r *Report) AppendVoid(page int) *Report {
	r.Void = append(r.Void, page)
	return r
}

// OK reports whether the document was read and no page is flagged.
func (r *Report) OK() bool {
	return r.Error == "" && len(r.Void) == 0
}

// Check reads the PDF at path and applies rule to every page.
func Check(path string, rule Rule) (*Report, error) {
	rd, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	doc, err := rd.Document()
	if err != nil {
		return nil, err
	}
	rep := rule.Apply(doc)
	for _, w := range rd.Warnings() {
		rep.Warnings = append(rep.Warnings, w.String())
	}
	return rep, nil
}
