package text

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/akbstat/void-probe/contentstream"
	"github.com/akbstat/void-probe/core"
	"github.com/akbstat/void-probe/font"
)

// RowThreshold is the vertical distance, in text space units, beyond which
// a new text matrix starts a new row.
const RowThreshold = 1.0

// CMapSource looks up the CMap of a font resource name.
type CMapSource interface {
	CMap(name string) (font.CMap, bool)
}

// Lines reconstructs the text rows of a decoded content stream. Rows are
// separated only by Tm operators that move the vertical position by more
// than RowThreshold; such a move flushes the current row even when it is
// empty. A non-empty trailing row is flushed at the end.
//
// When the stream has a syntax error, the rows built from the operations
// before it are returned together with the error.
func Lines(data []byte, fonts CMapSource) ([]string, error) {
	ops, err := contentstream.NewParser(data).Parse()
	e := NewExtractor(fonts)
	for _, op := range ops {
		e.Apply(op)
	}
	lines := e.Finish()
	if err != nil {
		return lines, fmt.Errorf("tokenize content stream: %w", err)
	}
	return lines, nil
}

// Extractor accumulates rows from a sequence of operations.
type Extractor struct {
	fonts  CMapSource
	font   string
	matrix [6]float64
	row    strings.Builder
	lines  []string
}

// NewExtractor returns an extractor whose vertical reference starts at 0.
func NewExtractor(fonts CMapSource) *Extractor {
	return &Extractor{fonts: fonts}
}

// Apply processes one operation.
func (e *Extractor) Apply(op contentstream.Operation) {
	switch op.Operator {
	case "Tf":
		if len(op.Operands) > 0 {
			if name, ok := op.Operands[0].(core.Name); ok {
				e.font = string(name)
			}
		}
	case "Tm":
		m, ok := textMatrix(op.Operands)
		if !ok {
			return
		}
		if math.Abs(m[5]-e.matrix[5]) > RowThreshold {
			e.flush()
		}
		e.matrix = m
	case "Tj", "'":
		if len(op.Operands) > 0 {
			e.show(op.Operands[len(op.Operands)-1])
		}
	case `"`:
		if len(op.Operands) == 3 {
			e.show(op.Operands[2])
		}
	case "TJ":
		if len(op.Operands) > 0 {
			if arr, ok := op.Operands[0].(core.Array); ok {
				for _, item := range arr {
					e.show(item)
				}
			}
		}
	}
}

// Finish flushes a non-empty trailing row and returns all rows.
func (e *Extractor) Finish() []string {
	if e.row.Len() > 0 {
		e.flush()
	}
	lines := e.lines
	e.lines = nil
	return lines
}

func (e *Extractor) flush() {
	e.lines = append(e.lines, e.row.String())
	e.row.Reset()
}

// show appends a string operand; numbers (kerning) are ignored.
func (e *Extractor) show(obj core.Object) {
	switch s := obj.(type) {
	case core.String:
		e.row.WriteString(literal([]byte(s)))
	case core.HexString:
		if e.fonts == nil {
			return
		}
		if cmap, ok := e.fonts.CMap(e.font); ok {
			e.row.WriteString(cmap.Decode(s.Hex()))
		}
	}
}

// literal reinterprets the bytes of a literal string as text: UTF-8 when
// valid, Windows-1252 otherwise.
func literal(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func textMatrix(operands []core.Object) ([6]float64, bool) {
	var m [6]float64
	if len(operands) != 6 {
		return m, false
	}
	for i, o := range operands {
		v, ok := core.Number(o)
		if !ok {
			return m, false
		}
		m[i] = v
	}
	return m, true
}
