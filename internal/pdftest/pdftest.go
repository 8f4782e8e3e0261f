// Package pdftest builds small synthetic PDF files for tests.
package pdftest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/akbstat/void-probe/core"
)

// Font is a font resource. A non-empty ToUnicode becomes the font's
// ToUnicode CMap stream.
type Font struct {
	Name      string
	ToUnicode string
}

// Page describes one page: a content stream and the fonts it uses.
type Page struct {
	Content string
	Fonts   []Font
}

// TextPage returns a page that draws each line on its own row, 14 units
// apart, with a Helvetica font named F1.
func TextPage(lines ...string) Page {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n")
	y := 760
	for _, line := range lines {
		fmt.Fprintf(&b, "1 0 0 1 72 %d Tm\n", y)
		b.Write(core.AppendObject(nil, core.String(line)))
		b.WriteString(" Tj\n")
		y -= 14
	}
	b.WriteString("ET\n")
	return Page{Content: b.String(), Fonts: []Font{{Name: "F1"}}}
}

// HexPage returns a page that shows hex-encoded glyph codes through a font
// named F2 with the given code to text mapping. Each row is a list of
// glyph codes.
func HexPage(mapping map[uint16]rune, rows ...[]uint16) Page {
	var b strings.Builder
	b.WriteString("BT\n/F2 10 Tf\n")
	y := 700
	for _, row := range rows {
		fmt.Fprintf(&b, "1 0 0 1 50 %d Tm\n<", y)
		for _, code := range row {
			fmt.Fprintf(&b, "%04X", code)
		}
		b.WriteString("> Tj\n")
		y -= 20
	}
	b.WriteString("ET\n")
	return Page{Content: b.String(), Fonts: []Font{{Name: "F2", ToUnicode: ToUnicode(mapping)}}}
}

// ToUnicode writes a CMap program with one bfchar entry per code.
func ToUnicode(mapping map[uint16]rune) string {
	codes := make([]int, 0, len(mapping))
	for c := range mapping {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)

	var b strings.Builder
	b.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	b.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&b, "%d beginbfchar\n", len(codes))
	for _, c := range codes {
		fmt.Fprintf(&b, "<%04X> <%04X>\n", c, mapping[uint16(c)])
	}
	b.WriteString("endbfchar\nendcmap\nend\nend\n")
	return b.String()
}

// Build assembles a document with one page per argument under a single
// page tree root that carries the MediaBox.
func Build(pages ...Page) *core.Document {
	doc := core.NewDocument()
	catalogRef := doc.Add(core.Dict{"Type": core.Name("Catalog")})
	root := core.Dict{
		"Type":     core.Name("Pages"),
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
	}
	rootRef := doc.Add(root)
	doc.Objects[catalogRef].(core.Dict).Set("Pages", rootRef)

	fonts := make(map[Font]core.IndirectRef)
	var kids core.Array
	for _, p := range pages {
		fontDict := core.Dict{}
		for _, f := range p.Fonts {
			ref, ok := fonts[f]
			if !ok {
				fd := core.Dict{
					"Type":     core.Name("Font"),
					"Subtype":  core.Name("Type1"),
					"BaseFont": core.Name("Helvetica"),
				}
				if f.ToUnicode != "" {
					fd["ToUnicode"] = doc.Add(&core.Stream{Dict: core.Dict{}, Data: []byte(f.ToUnicode)})
				}
				ref = doc.Add(fd)
				fonts[f] = ref
			}
			fontDict[f.Name] = ref
		}
		page := core.Dict{
			"Type":   core.Name("Page"),
			"Parent": rootRef,
		}
		if len(fontDict) > 0 {
			page["Resources"] = core.Dict{"Font": fontDict}
		}
		if p.Content != "" {
			page["Contents"] = doc.Add(&core.Stream{Dict: core.Dict{}, Data: []byte(p.Content)})
		}
		kids = append(kids, doc.Add(page))
	}
	root.Set("Kids", kids)
	root.Set("Count", core.Int(len(kids)))

	doc.Trailer.Set("Root", catalogRef)
	return doc
}

// Write builds the pages, compresses their streams and saves the result
// as name inside dir. It returns the file path.
func Write(t testing.TB, dir, name string, pages ...Page) string {
	t.Helper()
	doc := Build(pages...)
	if err := doc.Compress(); err != nil {
		t.Fatalf("compress %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := doc.Save(path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}
