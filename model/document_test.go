package model

import "testing"

func TestPageIsVoid(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		void  bool
		first string
	}{
		{"no rows", nil, true, ""},
		{"blank rows", []string{"", "  ", "\t"}, true, ""},
		{"leading blank row", []string{"", "  AKESO  ", "x"}, false, "AKESO"},
		{"single row", []string{"康方生物"}, false, "康方生物"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Page{Number: 1, Lines: tt.lines}
			if got := p.IsVoid(); got != tt.void {
				t.Errorf("IsVoid() = %v, want %v", got, tt.void)
			}
			first, ok := p.FirstLine()
			if first != tt.first || ok == tt.void {
				t.Errorf("FirstLine() = %q, %v, want %q, %v", first, ok, tt.first, !tt.void)
			}
		})
	}
}

func TestDocumentPages(t *testing.T) {
	doc := &Document{Path: "x.pdf"}
	doc.AddPage([]string{"a"})
	doc.AddPage(nil)
	doc.AddPage([]string{"b", "c"})

	if doc.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, want 3", doc.PageCount())
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i+1, p.Number)
		}
	}
	if doc.Page(0) != nil || doc.Page(4) != nil {
		t.Error("Page() out of range should be nil")
	}
	if got := doc.Page(3).Lines[1]; got != "c" {
		t.Errorf("Page(3).Lines[1] = %q, want c", got)
	}
	if got, want := doc.Text(), "a\n\n\n\nb\nc"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
