// Package voidprobe provides a fluent API for auditing report PDFs for
// pages that lost their letterhead.
//
// Checking one PDF:
//
//	rep, warnings, err := voidprobe.Open("t-14-01-01.pdf").Check()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", voidprobe.FormatWarnings(warnings))
//	}
//	fmt.Println(rep.Void)
//
// With options:
//
//	rep, _, err := voidprobe.Open("l-16-02.pdf").
//	    PageRange(1, 20).
//	    Letterhead("Akeso Inc").
//	    Check()
//
// Running the whole audit on RTF sources:
//
//	out, err := voidprobe.New().Workers(4).Run("l-16-02.rtf", "t-14-01.rtf")
//
// For advanced use cases the reader, merge, convert and probe packages are
// available directly.
package voidprobe

import (
	"strings"

	"github.com/akbstat/void-probe/reader"
)

// Warning is a non-fatal problem found while reading a page.
type Warning = reader.Warning

// Open returns an Extractor for the PDF at filename. Nothing is read until
// a terminal operation such as Lines or Check is called.
//
// Example:
//
//	lines, warnings, err := voidprobe.Open("document.pdf").Lines()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:  r,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := voidprobe.Must(voidprobe.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustCheck wraps a call to Check or Lines and panics if the error is
// non-nil. It discards warnings and returns just the value.
func MustCheck[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings joins warnings into one line.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
