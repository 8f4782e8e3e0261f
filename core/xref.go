package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// XRefKind classifies a cross-reference entry.
type XRefKind int

const (
	XRefFree XRefKind = iota
	XRefInUse
	XRefCompressed
)

// XRefEntry represents a single cross-reference entry. In-use entries carry
// a byte offset; compressed entries name the object stream holding the
// object and its index inside it.
type XRefEntry struct {
	Kind       XRefKind
	Offset     int
	Generation int
	Stream     int
	Index      int
}

// XRefTable maps object numbers to entries, together with the trailer.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]XRefEntry),
		Trailer: make(Dict),
	}
}

// merge adds entries and trailer keys from an older section without
// overriding what newer sections already defined. Free entries give way,
// since hybrid files list compressed objects as free in the classic table.
func (x *XRefTable) merge(older *XRefTable) {
	for num, e := range older.Entries {
		if cur, ok := x.Entries[num]; !ok || cur.Kind == XRefFree {
			x.Entries[num] = e
		}
	}
	for k, v := range older.Trailer {
		if !x.Trailer.Has(k) {
			x.Trailer[k] = v
		}
	}
}

// FindXRef returns the offset recorded after the last startxref keyword.
func FindXRef(data []byte) (int, error) {
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found in PDF")
	}
	fields := bytes.Fields(tail[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("invalid startxref format")
	}
	offset, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid xref offset: %w", err)
	}
	if offset < 0 || offset >= len(data) {
		return 0, fmt.Errorf("xref offset %d outside file of %d bytes", offset, len(data))
	}
	return offset, nil
}

// ParseXRef parses the cross-reference section at offset and every section
// chained from it through /Prev and /XRefStm. Newer sections win.
func ParseXRef(data []byte, offset int) (*XRefTable, error) {
	table := NewXRefTable()
	seen := make(map[int]bool)
	pending := []int{offset}

	for len(pending) > 0 {
		off := pending[0]
		pending = pending[1:]
		if seen[off] {
			continue
		}
		seen[off] = true

		section, err := parseXRefSection(data, off)
		if err != nil {
			return nil, err
		}
		if len(table.Trailer) == 0 {
			table.Trailer = section.Trailer
			for k, v := range section.Entries {
				table.Entries[k] = v
			}
		} else {
			table.merge(section)
		}

		if stm, ok := section.Trailer.GetInt("XRefStm"); ok {
			pending = append([]int{int(stm)}, pending...)
		}
		if prev, ok := section.Trailer.GetInt("Prev"); ok {
			pending = append(pending, int(prev))
		}
	}

	table.Trailer.Delete("Prev")
	table.Trailer.Delete("XRefStm")
	return table, nil
}

func parseXRefSection(data []byte, offset int) (*XRefTable, error) {
	if offset < 0 || offset >= len(data) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}
	p := NewParser(data)
	p.Seek(offset)
	tok, err := p.lexer.PeekToken()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "xref" {
		p.lexer.NextToken()
		return parseXRefTable(p)
	}
	return parseXRefStream(p)
}

// parseXRefTable reads the subsections of a classic table and its trailer.
func parseXRefTable(p *Parser) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			trailer, err := p.ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer: %w", err)
			}
			dict, ok := trailer.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is %T, not a dictionary", trailer)
			}
			table.Trailer = dict
			return table, nil
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("invalid subsection header: %s", tok)
		}
		first, _ := strconv.Atoi(string(tok.Value))
		count, err := p.expectInt("subsection count")
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			entry, err := parseTableEntry(p)
			if err != nil {
				return nil, fmt.Errorf("xref entry %d: %w", first+i, err)
			}
			if _, dup := table.Entries[first+i]; !dup {
				table.Entries[first+i] = entry
			}
		}
	}
}

// parseTableEntry reads "nnnnnnnnnn ggggg n|f".
func parseTableEntry(p *Parser) (XRefEntry, error) {
	offset, err := p.expectInt("offset")
	if err != nil {
		return XRefEntry{}, err
	}
	gen, err := p.expectInt("generation")
	if err != nil {
		return XRefEntry{}, err
	}
	tok, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	switch string(tok.Value) {
	case "n":
		return XRefEntry{Kind: XRefInUse, Offset: offset, Generation: gen}, nil
	case "f":
		return XRefEntry{Kind: XRefFree, Generation: gen}, nil
	}
	return XRefEntry{}, fmt.Errorf("invalid in-use flag %s", tok)
}

// parseXRefStream reads a /Type /XRef stream object and its binary entries.
func parseXRefStream(p *Parser) (*XRefTable, error) {
	obj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok || !stream.Dict.IsType("XRef") {
		return nil, fmt.Errorf("object %d is not an xref stream", obj.Ref.Number)
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}

	var widths [3]int
	w, _ := stream.Dict.GetArray("W")
	if len(w) != 3 {
		return nil, fmt.Errorf("xref stream has invalid /W: %v", w)
	}
	rowLen := 0
	for i := range widths {
		n, ok := w[i].(Int)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("xref stream has invalid /W: %v", w)
		}
		widths[i] = int(n)
		rowLen += int(n)
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream has zero-width rows")
	}

	size, _ := stream.Dict.GetInt("Size")
	index, ok := stream.Dict.GetArray("Index")
	if !ok {
		index = Array{Int(0), size}
	}

	table := NewXRefTable()
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start, ok1 := index[i].(Int)
		count, ok2 := index[i+1].(Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("xref stream has invalid /Index: %v", index)
		}
		for j := 0; j < int(count); j++ {
			if pos+rowLen > len(data) {
				return nil, fmt.Errorf("xref stream truncated at entry %d", int(start)+j)
			}
			row := data[pos : pos+rowLen]
			pos += rowLen

			kind := 1
			if widths[0] > 0 {
				kind = readField(row[:widths[0]])
			}
			f2 := readField(row[widths[0] : widths[0]+widths[1]])
			f3 := readField(row[widths[0]+widths[1]:])

			var e XRefEntry
			switch kind {
			case 0:
				e = XRefEntry{Kind: XRefFree, Generation: f3}
			case 1:
				e = XRefEntry{Kind: XRefInUse, Offset: f2, Generation: f3}
			case 2:
				e = XRefEntry{Kind: XRefCompressed, Stream: f2, Index: f3}
			default:
				continue
			}
			table.Entries[int(start)+j] = e
		}
	}

	trailer := make(Dict)
	for _, k := range []string{"Root", "Info", "ID", "Size", "Prev", "Encrypt"} {
		if v := stream.Dict.Get(k); v != nil {
			trailer[k] = v
		}
	}
	table.Trailer = trailer
	return table, nil
}

// readField decodes a big-endian unsigned field.
func readField(b []byte) int {
	n := 0
	for _, c := range b {
		n = n<<8 | int(c)
	}
	return n
}
