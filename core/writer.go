package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppendObject appends the PDF serialization of obj to buf.
func AppendObject(buf []byte, obj Object) []byte {
	switch v := obj.(type) {
	case nil, Null:
		return append(buf, "null"...)
	case Bool:
		return strconv.AppendBool(buf, bool(v))
	case Int:
		return strconv.AppendInt(buf, int64(v), 10)
	case Real:
		s := strconv.FormatFloat(float64(v), 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += "."
		}
		return append(buf, s...)
	case String:
		return appendLiteral(buf, []byte(v))
	case HexString:
		return append(append(append(buf, '<'), v.Hex()...), '>')
	case Name:
		return appendName(buf, string(v))
	case Array:
		buf = append(buf, '[')
		for i, e := range v {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = AppendObject(buf, e)
		}
		return append(buf, ']')
	case Dict:
		buf = append(buf, "<<"...)
		for _, k := range v.Keys() {
			buf = appendName(append(buf, '\n'), k)
			buf = AppendObject(append(buf, ' '), v[k])
		}
		return append(buf, "\n>>"...)
	case *Stream:
		dict := make(Dict, len(v.Dict)+1)
		for k, e := range v.Dict {
			dict[k] = e
		}
		dict["Length"] = Int(len(v.Data))
		buf = AppendObject(buf, dict)
		buf = append(buf, "\nstream\n"...)
		buf = append(buf, v.Data...)
		return append(buf, "\nendstream"...)
	case IndirectRef:
		return fmt.Appendf(buf, "%d %d R", v.Number, v.Generation)
	}
	return append(buf, "null"...)
}

func appendLiteral(buf []byte, s []byte) []byte {
	buf = append(buf, '(')
	for _, c := range s {
		switch c {
		case '(', ')', '\\':
			buf = append(buf, '\\', c)
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\n':
			buf = append(buf, '\\', 'n')
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, ')')
}

func appendName(buf []byte, name string) []byte {
	buf = append(buf, '/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x21 || c > 0x7e || c == '#' || isDelimiter(c) {
			buf = fmt.Appendf(buf, "#%02x", c)
			continue
		}
		buf = append(buf, c)
	}
	return buf
}

// WriteTo serializes the document with a classic cross-reference table.
// Object numbers are written as they are; call Renumber first to avoid
// gaps.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	version := d.Version
	if version == "" {
		version = "1.7"
	}
	fmt.Fprintf(cw, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)

	refs := d.Refs()
	size := d.MaxID() + 1
	offsets := make(map[int]IndirectRef, len(refs))
	positions := make(map[int]int64, len(refs))
	var buf []byte
	for _, ref := range refs {
		if _, dup := offsets[ref.Number]; dup {
			continue
		}
		offsets[ref.Number] = ref
		positions[ref.Number] = cw.n
		buf = fmt.Appendf(buf[:0], "%d %d obj\n", ref.Number, ref.Generation)
		buf = AppendObject(buf, d.Objects[ref])
		buf = append(buf, "\nendobj\n"...)
		cw.Write(buf)
	}

	xrefPos := cw.n
	fmt.Fprintf(cw, "xref\n0 %d\n", size)
	cw.Write([]byte("0000000000 65535 f\r\n"))
	for num := 1; num < size; num++ {
		if ref, ok := offsets[num]; ok {
			fmt.Fprintf(cw, "%010d %05d n\r\n", positions[num], ref.Generation)
		} else {
			cw.Write([]byte("0000000000 00001 f\r\n"))
		}
	}

	trailer := make(Dict, len(d.Trailer)+1)
	for _, k := range []string{"Root", "Info", "ID"} {
		if v := d.Trailer.Get(k); v != nil {
			trailer[k] = v
		}
	}
	trailer["Size"] = Int(size)
	buf = AppendObject([]byte("trailer\n"), trailer)
	cw.Write(buf)
	fmt.Fprintf(cw, "\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to path atomically: the bytes go to a temporary
// file in the same directory, which is then renamed over path.
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
