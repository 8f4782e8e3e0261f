package font

import (
	"bytes"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// CMap maps a glyph code, written as four upper-case hex digits, to the hex
// digits of one or more UTF-16 code units.
type CMap map[string]string

var (
	bfcharEntry  = regexp.MustCompile(`<([0-9A-Fa-f]{4})>\s*<((?:[0-9A-Fa-f]{4})+)>`)
	bfrangeEntry = regexp.MustCompile(`<([0-9A-Fa-f]{4})>\s*<([0-9A-Fa-f]{4})>\s*<((?:[0-9A-Fa-f]{4})+)>`)
	arrayValue   = regexp.MustCompile(`\[[^\]]*\]`)
)

// BuildCMap reads the bfchar and bfrange blocks of a decoded ToUnicode
// stream. Each code of a bfrange maps to the range's destination value
// unchanged, and a bfchar entry for the same code takes precedence. Ranges
// with array destinations, malformed entries and blocks without their end
// marker contribute nothing. Data without any block yields an empty map.
func BuildCMap(data []byte) CMap {
	m := make(CMap)
	for _, block := range blocks(data, "beginbfrange", "endbfrange") {
		block = arrayValue.ReplaceAll(block, []byte("[]"))
		for _, e := range bfrangeEntry.FindAllSubmatch(block, -1) {
			lo, hi := codeValue(e[1]), codeValue(e[2])
			if lo > hi {
				continue
			}
			for c := lo; c <= hi; c++ {
				m.set([]byte(codeString(c)), e[3])
			}
		}
	}
	for _, block := range blocks(data, "beginbfchar", "endbfchar") {
		for _, e := range bfcharEntry.FindAllSubmatch(block, -1) {
			m.set(e[1], e[2])
		}
	}
	return m
}

func (m CMap) set(code, value []byte) {
	m[strings.ToUpper(string(code))] = strings.ToUpper(string(value))
}

// blocks returns the bodies between each begin marker and the following
// end marker.
func blocks(data []byte, begin, end string) [][]byte {
	var out [][]byte
	for {
		i := bytes.Index(data, []byte(begin))
		if i < 0 {
			return out
		}
		data = data[i+len(begin):]
		j := bytes.Index(data, []byte(end))
		if j < 0 {
			return out
		}
		if k := bytes.Index(data[:j], []byte(begin)); k >= 0 {
			// a block that never closed before the next one opened
			data = data[k:]
			continue
		}
		out = append(out, data[:j])
		data = data[j+len(end):]
	}
}

func codeValue(digits []byte) int {
	var b [2]byte
	hex.Decode(b[:], digits)
	return int(b[0])<<8 | int(b[1])
}

func codeString(c int) string {
	return strings.ToUpper(hex.EncodeToString([]byte{byte(c >> 8), byte(c)}))
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Decode maps hex digits, four at a time, through the CMap and returns the
// resulting text. Unmapped codes and a trailing partial code are dropped.
func (m CMap) Decode(digits string) string {
	digits = strings.ToUpper(digits)
	var units strings.Builder
	for i := 0; i+4 <= len(digits); i += 4 {
		if v, ok := m[digits[i:i+4]]; ok {
			units.WriteString(v)
		}
	}
	if units.Len() == 0 {
		return ""
	}
	raw, err := hex.DecodeString(units.String())
	if err != nil {
		return ""
	}
	text, err := utf16be.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(text)
}
