package filters

import (
	"bytes"
	"encoding/ascii85"
	"encoding/hex"
	"fmt"
)

// ASCIIHexDecode decodes hexadecimal data terminated by '>'. Whitespace is
// ignored and an odd trailing digit is padded with 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	digits := make([]byte, 0, len(data))
	for _, c := range data {
		if c == '>' {
			break
		}
		if isSpace(c) {
			continue
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, fmt.Errorf("ASCIIHexDecode: %w", err)
	}
	return out, nil
}

// ASCII85Decode decodes base-85 data, with or without the <~ ~> markers.
func ASCII85Decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), []byte("<~"))
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	out := make([]byte, 4*len(data)+4)
	n, _, err := ascii85.Decode(out, data, true)
	if err != nil {
		return nil, fmt.Errorf("ASCII85Decode: %w", err)
	}
	return out[:n], nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}
