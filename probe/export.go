package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Exporter writes reports in one output format.
type Exporter interface {
	Export(w io.Writer, reports []*Report) error
}

// NewExporter returns the exporter for format, "text" or "json".
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return TextExporter{}, nil
	case "json":
		return JSONExporter{Indent: "  "}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// JSONExporter writes the reports as a JSON array.
type JSONExporter struct {
	Indent string
}

// Export implements Exporter.
func (e JSONExporter) Export(w io.Writer, reports []*Report) error {
	if reports == nil {
		reports = []*Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	return enc.Encode(reports)
}

// TextExporter writes one line per report:
//
//	t-14-01.pdf: ok
//	l-16-02.pdf: pages 2, 7
//	f-14-03.pdf: error: read f-14-03.pdf: ...
type TextExporter struct{}

// Export implements Exporter.
func (TextExporter) Export(w io.Writer, reports []*Report) error {
	for _, r := range reports {
		var status string
		switch {
		case r.Error != "":
			status = "error: " + r.Error
		case len(r.Void) == 0:
			status = "ok"
		default:
			pages := make([]string, len(r.Void))
			for i, n := range r.Void {
				pages[i] = strconv.Itoa(n)
			}
			status = "pages " + strings.Join(pages, ", ")
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", r.File, status); err != nil {
			return err
		}
	}
	return nil
}
