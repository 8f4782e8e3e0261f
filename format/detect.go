// Package format detects the file formats void-probe handles.
package format

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// RTF indicates a Rich Text Format report.
	RTF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case RTF:
		return "RTF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case RTF:
		return ".rtf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".rtf":
		return RTF
	default:
		return Unknown
	}
}

var (
	pdfMagic = []byte("%PDF-")
	rtfMagic = []byte(`{\rtf`)
)

// DetectFromMagic checks the leading bytes of a file. PDF headers may be
// preceded by junk, so the first kilobyte is searched for one.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), rtfMagic) {
		return RTF
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, pdfMagic) {
		return PDF
	}
	return Unknown
}

// DetectFile reads the start of the file at path and reports its format.
// When the content is not recognized the extension decides.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	if got := DetectFromMagic(head[:n]); got != Unknown {
		return got, nil
	}
	return Detect(path), nil
}
