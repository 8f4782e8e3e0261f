package probe

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/akbstat/void-probe/model"
)

// Rule decides whether a page starts with the letterhead.
type Rule struct {
	// Contains lists markers that may appear anywhere in the title row.
	Contains []string
	// Prefixes lists markers the upper-cased title row may start with.
	Prefixes []string
}

// DefaultRule matches the sponsor letterhead: a row containing 康方 or
// starting with AKESO.
func DefaultRule() Rule {
	return Rule{Contains: []string{"康方"}, Prefixes: []string{"AKESO"}}
}

// Match reports whether line is a letterhead row. Line and markers are
// compared in NFKC form, so full-width letters match their ASCII forms.
func (r Rule) Match(line string) bool {
	line = norm.NFKC.String(strings.TrimSpace(line))
	for _, c := range r.Contains {
		if c = norm.NFKC.String(c); c != "" && strings.Contains(line, c) {
			return true
		}
	}
	upper := strings.ToUpper(line)
	for _, p := range r.Prefixes {
		if p = strings.ToUpper(norm.NFKC.String(p)); p != "" && strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// Void reports whether p is flagged: it has no visible text, or its first
// non-blank row is not a letterhead.
func (r Rule) Void(p *model.Page) bool {
	first, ok := p.FirstLine()
	return !ok || !r.Match(first)
}

// Apply checks every page of doc.
func (r Rule) Apply(doc *model.Document) *Report {
	rep := NewReport(doc.Path)
	rep.Pages = doc.PageCount()
	for _, p := range doc.Pages {
		if r.Void(p) {
			rep.AppendVoid(p.Number)
		}
	}
	return rep
}
