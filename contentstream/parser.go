package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/akbstat/void-probe/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	objects  *core.Parser
	lexer    *core.Lexer
	operands []core.Object
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	objects := core.NewParser(data)
	return &Parser{objects: objects, lexer: objects.Lexer()}
}

// Parse parses the content stream and returns all operations in order.
// Operands left over at the end of the stream are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	for {
		op, err := p.Next()
		if errors.Is(err, io.EOF) {
			return ops, nil
		}
		if err != nil {
			return ops, err
		}
		ops = append(ops, op)
	}
}

// Next returns the next operation, or io.EOF at the end of the stream.
func (p *Parser) Next() (Operation, error) {
	for {
		tok, err := p.lexer.PeekToken()
		if err != nil {
			return Operation{}, fmt.Errorf("at position %d: %w", p.lexer.Pos(), err)
		}
		switch tok.Type {
		case core.TokenEOF:
			return Operation{}, io.EOF
		case core.TokenComment:
			p.lexer.NextToken()
			continue
		case core.TokenKeyword, core.TokenIndirectRef:
			if kw := string(tok.Value); kw != "true" && kw != "false" && kw != "null" {
				p.lexer.NextToken()
				if kw == "BI" {
					return p.inlineImage()
				}
				return p.emit(kw), nil
			}
		}

		obj, err := p.objects.ParseObject()
		if err != nil {
			return Operation{}, fmt.Errorf("at position %d: %w", tok.Pos, err)
		}
		p.operands = append(p.operands, obj)
	}
}

func (p *Parser) emit(operator string) Operation {
	op := Operation{Operator: operator, Operands: p.operands}
	p.operands = nil
	return op
}

// inlineImage skips BI <params> ID <data> EI and reports it as one BI
// operation without operands.
func (p *Parser) inlineImage() (Operation, error) {
	p.operands = nil
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return Operation{}, err
		}
		if tok.Type == core.TokenEOF {
			return Operation{}, fmt.Errorf("inline image at position %d has no ID", tok.Pos)
		}
		if tok.Type == core.TokenKeyword && string(tok.Value) == "ID" {
			break
		}
	}

	data := p.lexer.Data()
	start := p.lexer.Pos() + 1
	for i := start; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' || !isWhitespace(data[i-1]) {
			continue
		}
		if i+2 == len(data) || isWhitespace(data[i+2]) || bytes.IndexByte([]byte("/[<("), data[i+2]) >= 0 {
			p.lexer.Seek(i + 2)
			return p.emit("BI"), nil
		}
	}
	return Operation{}, fmt.Errorf("inline image at position %d has no EI", start)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
