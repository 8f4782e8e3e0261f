package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildPDF lays out objects numbered 1..n with a classic xref table.
func buildPDF(trailer string, objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

var minimalObjects = []string{
	"<< /Type /Catalog /Pages 2 0 R >>",
	"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
	"<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>",
	"<< /Length 8 >>\nstream\nBT ET q \nendstream",
}

func TestParseClassic(t *testing.T) {
	data := buildPDF("<< /Size 5 /Root 1 0 R >>", minimalObjects...)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Version != "1.4" {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Objects) != 4 {
		t.Errorf("got %d objects, want 4", len(doc.Objects))
	}
	cat, err := doc.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if ref, _ := cat.GetIndirectRef("Pages"); ref.Number != 2 {
		t.Errorf("Pages = %v", cat.Get("Pages"))
	}
	s := doc.Objects[IndirectRef{Number: 4}].(*Stream)
	if string(s.Data) != "BT ET q " {
		t.Errorf("stream data = %q", s.Data)
	}
}

func TestParseReconstructsBrokenXRef(t *testing.T) {
	data := buildPDF("<< /Size 5 /Root 1 0 R >>", minimalObjects...)
	// shift every object by inserting junk after the header
	broken := append([]byte("%PDF-1.4\n%junk junk junk\n"), data[len("%PDF-1.4\n"):]...)
	doc, err := Parse(broken)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Objects) != 4 {
		t.Errorf("got %d objects, want 4", len(doc.Objects))
	}
	if _, err := doc.Catalog(); err != nil {
		t.Errorf("Catalog: %v", err)
	}
}

func TestParseReconstructsWithoutTrailer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.3\n")
	for i, obj := range minimalObjects {
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	doc, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root, _ := doc.Trailer.GetIndirectRef("Root"); root.Number != 1 {
		t.Errorf("Root = %v", doc.Trailer.Get("Root"))
	}
}

func TestParseRejects(t *testing.T) {
	if _, err := Parse([]byte("hello world")); err == nil {
		t.Error("expected error for non-PDF input")
	}
	enc := buildPDF("<< /Size 5 /Root 1 0 R /Encrypt << /V 1 >> >>", minimalObjects...)
	if _, err := Parse(enc); err == nil {
		t.Error("expected error for encrypted document")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc := NewDocument()
	body := []byte("BT (a\\b) Tj ET")
	content := doc.Add(&Stream{Dict: Dict{"Length": Int(len(body))}, Data: body})
	pages := IndirectRef{Number: 10}
	page := doc.Add(Dict{"Type": Name("Page"), "Parent": pages, "Contents": content})
	doc.Objects[pages] = Dict{"Type": Name("Pages"), "Kids": Array{page}, "Count": Int(1)}
	root := doc.Add(Dict{"Type": Name("Catalog"), "Pages": pages, "Title": String("a (b) c"), "Hex": HexString("\x01\xff"), "Odd": Name("A B#")})
	doc.Trailer.Set("Root", root)

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Contains(data, []byte("/A#20B#23")) {
		t.Errorf("name not escaped:\n%s", data)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(doc.Objects, back.Objects); diff != "" {
		t.Errorf("objects mismatch (-want +got):\n%s", diff)
	}
}

func TestRenumberFrom(t *testing.T) {
	doc := NewDocument()
	doc.Objects[IndirectRef{Number: 4}] = Dict{"Next": IndirectRef{Number: 9}, "Gone": IndirectRef{Number: 77}}
	doc.Objects[IndirectRef{Number: 9, Generation: 2}] = Array{IndirectRef{Number: 4}}
	doc.Objects[IndirectRef{Number: 9}] = Int(1)
	doc.Trailer.Set("Root", IndirectRef{Number: 4})

	max := doc.RenumberFrom(11)
	if max != 13 {
		t.Errorf("max = %d, want 13", max)
	}
	want := map[IndirectRef]Object{
		{Number: 11}: Dict{"Next": IndirectRef{Number: 12}, "Gone": Null{}},
		{Number: 12}: Int(1),
		{Number: 13}: Array{IndirectRef{Number: 11}},
	}
	if diff := cmp.Diff(want, doc.Objects); diff != "" {
		t.Errorf("objects mismatch (-want +got):\n%s", diff)
	}
	if root, _ := doc.Trailer.GetIndirectRef("Root"); root.Number != 11 {
		t.Errorf("Root = %v", root)
	}
	if d := doc.DanglingReferences(); len(d) != 0 {
		t.Errorf("dangling after renumber: %v", d)
	}
}

func TestDanglingReferences(t *testing.T) {
	doc := NewDocument()
	doc.Objects[IndirectRef{Number: 1}] = Array{IndirectRef{Number: 5}, IndirectRef{Number: 3}, IndirectRef{Number: 5}}
	doc.Trailer.Set("Info", IndirectRef{Number: 2})
	got := doc.DanglingReferences()
	want := []IndirectRef{{Number: 2}, {Number: 3}, {Number: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Parse(buildPDF("<< /Size 5 /Root 1 0 R >>", minimalObjects...))
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load after Save: %v", err)
	}
}

func TestCompress(t *testing.T) {
	doc := NewDocument()
	plain := bytes.Repeat([]byte("0 0 m 10 10 l S\n"), 50)
	ref := doc.Add(&Stream{Dict: Dict{}, Data: plain})
	if err := doc.Compress(); err != nil {
		t.Fatal(err)
	}
	s := doc.Objects[ref].(*Stream)
	if !s.IsFiltered() {
		t.Fatal("stream not compressed")
	}
	got, err := s.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plain) {
		t.Error("decoded data differs")
	}
}
