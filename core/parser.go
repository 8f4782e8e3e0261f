package core

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// This allows the parser to resolve indirect stream lengths when needed.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from in-memory bytes using a Lexer for
// tokenization. It supports all PDF object types including indirect objects
// and streams.
type Parser struct {
	lexer    *Lexer
	resolver ReferenceResolver
}

// NewParser creates a new PDF parser for data.
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

// SetReferenceResolver sets the reference resolver for the parser.
// This is needed to resolve indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Lexer exposes the underlying lexer, positioned after the last parsed object.
func (p *Parser) Lexer() *Lexer { return p.lexer }

// Seek moves the parser to an absolute offset.
func (p *Parser) Seek(pos int) { p.lexer.Seek(pos) }

// next returns the next non-comment token.
func (p *Parser) next() (Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil || tok.Type != TokenComment {
			return tok, err
		}
	}
}

// ParseObject parses and returns the next PDF object from the input.
// It returns io.EOF at the end of input.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *Parser) parseFrom(tok Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)

	case TokenInteger:
		return p.parseNumber(tok)

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number: %w", err)
		}
		return Real(val), nil

	case TokenString:
		return String(tok.Value), nil

	case TokenHexString:
		digits := tok.Value
		if len(digits)%2 != 0 {
			digits = append(append([]byte{}, digits...), '0')
		}
		out := make([]byte, len(digits)/2)
		if _, err := hex.Decode(out, digits); err != nil {
			return nil, fmt.Errorf("invalid hex string: %w", err)
		}
		return HexString(out), nil

	case TokenName:
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()
	}
	return nil, fmt.Errorf("unexpected token %s", tok)
}

// parseNumber parses an integer or an indirect reference "num gen R".
func (p *Parser) parseNumber(first Token) (Object, error) {
	n, err := strconv.ParseInt(string(first.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(first.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number: %s", first.Value)
		}
		return Real(f), nil
	}

	mark := p.lexer.Pos()
	second, err := p.lexer.NextToken()
	if err == nil && second.Type == TokenInteger {
		if gen, err := strconv.ParseInt(string(second.Value), 10, 64); err == nil {
			if third, err := p.lexer.NextToken(); err == nil && third.Type == TokenIndirectRef {
				return IndirectRef{Number: int(n), Generation: int(gen)}, nil
			}
		}
	}
	p.lexer.Seek(mark)
	return Int(n), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in array")
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a PDF dictionary "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	dict := make(Dict)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key, got %s", tok)
		}
		key := string(tok.Value)

		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// a key without value; treat as null
			dict[key] = Null{}
			return dict, nil
		}
		value, err := p.parseFrom(valTok)
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses an indirect object definition.
// Format: "num gen obj <object> endobj" or "num gen obj <dict> stream ... endstream endobj"
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if tok, err := p.next(); err != nil || tok.Type != TokenKeyword || string(tok.Value) != "obj" {
		return nil, fmt.Errorf("expected 'obj' keyword, got %s", tok)
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	mark := p.lexer.Pos()
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary")
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream: %w", err)
		}
		obj = stream
		mark = p.lexer.Pos()
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
	}

	// A missing endobj is tolerated; many writers get it wrong.
	if tok.Type != TokenKeyword || string(tok.Value) != "endobj" {
		p.lexer.Seek(mark)
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s, got %s", what, tok)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	return n, nil
}

var endstream = []byte("endstream")

// parseStream reads the stream body that follows the stream keyword. The
// declared /Length is trusted only when endstream follows it; otherwise the
// body runs up to the next endstream keyword.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()

	if length, ok := p.streamLength(dict); ok {
		if data, err := p.lexer.ReadBytes(length); err == nil {
			if tok, err := p.next(); err == nil && tok.Type == TokenKeyword && string(tok.Value) == "endstream" {
				return &Stream{Dict: dict, Data: data}, nil
			}
		}
	}

	rest := p.lexer.Data()[start:]
	end := bytes.Index(rest, endstream)
	if end < 0 {
		return nil, fmt.Errorf("stream at position %d has no endstream", start)
	}
	data := rest[:end]
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	p.lexer.Seek(start + end + len(endstream))
	dict["Length"] = Int(len(data))
	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), v >= 0
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		n, ok := resolved.(Int)
		return int(n), ok && n >= 0
	}
	return 0, false
}
