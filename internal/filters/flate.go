package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params holds decode parameters from a stream's /DecodeParms entry,
// translated to Go values (int, float64, bool, string).
type Params map[string]any

// Int returns the integer parameter key, or def when missing.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean parameter key, or def when missing.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// FlateDecode inflates zlib compressed data and undoes the predictor named
// in params, if any. Truncated or corrupt input is an error; no partial
// output is returned.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	switch predictor := params.Int("Predictor", 1); {
	case predictor == 1:
		return out, nil
	case predictor == 2:
		return tiffPredictor(out, params)
	case predictor >= 10 && predictor <= 15:
		return pngPredictor(out, params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// FlateEncode compresses data with zlib at the default level.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// geometry returns bytes per pixel and bytes per row for the predictor
// parameters.
func geometry(params Params) (bpp, row int) {
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)
	columns := params.Int("Columns", 1)
	bpp = (colors*bpc + 7) / 8
	if bpp < 1 {
		bpp = 1
	}
	row = (columns*colors*bpc + 7) / 8
	return bpp, row
}

// tiffPredictor undoes TIFF predictor 2 for 8-bit components.
func tiffPredictor(data []byte, params Params) ([]byte, error) {
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor: %d bits per component not supported", bpc)
	}
	bpp, row := geometry(params)
	if row == 0 || len(data)%row != 0 {
		return nil, fmt.Errorf("TIFF predictor: data size %d is not a multiple of row size %d", len(data), row)
	}
	out := append([]byte(nil), data...)
	for start := 0; start < len(out); start += row {
		for i := start + bpp; i < start+row; i++ {
			out[i] += out[i-bpp]
		}
	}
	return out, nil
}

// pngPredictor undoes PNG row filters. Every row starts with its filter
// type byte. A trailing partial row is dropped.
func pngPredictor(data []byte, params Params) ([]byte, error) {
	bpp, row := geometry(params)
	stride := row + 1
	rows := len(data) / stride
	out := make([]byte, 0, rows*row)
	prev := make([]byte, row)

	for r := 0; r < rows; r++ {
		src := data[r*stride : (r+1)*stride]
		cur := make([]byte, row)
		copy(cur, src[1:])
		for i := range cur {
			var left, up, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]
			switch src[0] {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("PNG predictor: unknown filter type %d in row %d", src[0], r)
			}
		}
		out = append(out, cur...)
		prev = cur
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
