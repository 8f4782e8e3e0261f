package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, content operators
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%q@%d", t.Value, t.Pos)
}

// Lexer performs lexical analysis of PDF bytes held in memory.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a new lexer over data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current offset into the input.
func (l *Lexer) Pos() int { return l.pos }

// Seek moves the lexer to an absolute offset.
func (l *Lexer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.data) {
		pos = len(l.data)
	}
	l.pos = pos
}

// Data returns the underlying input.
func (l *Lexer) Data() []byte { return l.data }

// PeekToken returns the next token without consuming it.
func (l *Lexer) PeekToken() (Token, error) {
	pos := l.pos
	tok, err := l.NextToken()
	l.pos = pos
	return tok, err
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	switch b := l.data[l.pos]; b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Value: l.data[start:l.pos], Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Value: l.data[start:l.pos], Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at position %d", l.pos)
	case '/':
		return l.readName()
	case ')', '{', '}':
		l.pos++
		return Token{}, fmt.Errorf("unexpected %q at position %d", b, start)
	default:
		if isDigit(b) || b == '-' || b == '+' || b == '.' {
			if tok, ok := l.readNumber(); ok {
				return tok, nil
			}
		}
		return l.readKeyword(), nil
	}
}

// SkipStreamEOL consumes the end-of-line marker that follows the stream
// keyword: CRLF, LF, or a lone CR written by sloppy producers.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// ReadBytes reads exactly n bytes of raw data.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || l.pos+n > len(l.data) {
		return nil, fmt.Errorf("unexpected EOF: expected %d bytes, got %d", n, len(l.data)-l.pos)
	}
	out := l.data[l.pos : l.pos+n]
	l.pos += n
	return out, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) readComment() Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	return Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: start}
}

// readString reads a literal string, processing escapes.
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // (
	var buf bytes.Buffer
	depth := 1
	for {
		if l.pos >= len(l.data) {
			return Token{}, fmt.Errorf("unterminated string at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			l.readEscape(&buf)
		default:
			buf.WriteByte(b)
		}
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	if l.pos >= len(l.data) {
		return
	}
	next := l.data[l.pos]
	l.pos++
	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		// line continuation
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := next - '0'
		for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
			val = val*8 + (l.data[l.pos] - '0')
			l.pos++
		}
		buf.WriteByte(val)
	default:
		buf.WriteByte(next)
	}
}

// readHexString reads <...>. The token value holds the hex digits with
// whitespace removed.
func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // <
	var buf bytes.Buffer
	for {
		if l.pos >= len(l.data) {
			return Token{}, fmt.Errorf("unterminated hex string at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		switch {
		case b == '>':
			return Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
		case isWhitespace(b):
		case isHexDigit(b):
			buf.WriteByte(b)
		default:
			return Token{}, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
	}
}

// readName reads /Name, decoding #xx escapes.
func (l *Lexer) readName() (Token, error) {
	start := l.pos
	l.pos++ // /
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf.WriteByte(hexValue(l.data[l.pos])<<4 | hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// readNumber reads an integer or real. It reports false, consuming nothing,
// when the bytes do not form a number (a lone "-" for instance).
func (l *Lexer) readNumber() (Token, bool) {
	start := l.pos
	i := l.pos
	if l.data[i] == '+' || l.data[i] == '-' {
		i++
	}
	digits, dot := 0, false
	for i < len(l.data) {
		b := l.data[i]
		if isDigit(b) {
			digits++
		} else if b == '.' && !dot {
			dot = true
		} else {
			break
		}
		i++
	}
	if digits == 0 {
		return Token{}, false
	}
	// digits glued to letters form a keyword
	if i < len(l.data) && isAlpha(l.data[i]) {
		return Token{}, false
	}
	l.pos = i
	typ := TokenInteger
	if dot {
		typ = TokenReal
	}
	return Token{Type: typ, Value: l.data[start:i], Pos: start}, true
}

// readKeyword reads a run of regular characters.
func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return Token{Type: TokenIndirectRef, Value: value, Pos: start}
	}
	return Token{Type: TokenKeyword, Value: value, Pos: start}
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
