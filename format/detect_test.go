package format

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{PDF, "PDF"},
		{RTF, "RTF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	for f, want := range map[Format]string{PDF: ".pdf", RTF: ".rtf", Unknown: ""} {
		if got := f.Extension(); got != want {
			t.Errorf("Format(%d).Extension() = %q, want %q", f, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"t-14-01.rtf", RTF},
		{"T-14-01.RTF", RTF},
		{"report.pdf", PDF},
		{"report.Pdf", PDF},
		{"/path/to/l-1_part_0001.pdf", PDF},
		{"notes.txt", Unknown},
		{"rtf", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"pdf", "%PDF-1.7\n", PDF},
		{"pdf after junk", "\x00\x00garbage%PDF-1.4", PDF},
		{"rtf", `{\rtf1\ansi`, RTF},
		{"rtf with leading newline", "\r\n{\\rtf1", RTF},
		{"short", "%P", Unknown},
		{"text", "hello", Unknown},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFromMagic(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		path string
		want Format
	}{
		{write("renamed.txt", "%PDF-1.4\n"), PDF},
		{write("a.rtf", `{\rtf1}`), RTF},
		{write("empty.rtf", ""), RTF},
		{write("plain.dat", "plain"), Unknown},
	}
	for _, tt := range tests {
		got, err := DetectFile(tt.path)
		if err != nil {
			t.Fatalf("DetectFile(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("DetectFile(%s) = %v, want %v", filepath.Base(tt.path), got, tt.want)
		}
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("DetectFile on a missing file succeeded")
	}
}
