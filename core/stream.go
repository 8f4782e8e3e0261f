package core

import (
	"fmt"

	"github.com/akbstat/void-probe/internal/filters"
)

// Decode decodes the stream data according to the Filter(s) specified in the
// stream dictionary. Filter chains are applied in order. A failing filter
// yields a *DecodeError and no data.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.filterChain()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	data := s.Data
	for i, name := range names {
		data, err = decodeWithFilter(data, name, params[i])
		if err != nil {
			return nil, &DecodeError{Filter: name, Err: err}
		}
	}
	return data, nil
}

// IsFiltered reports whether the stream carries a /Filter entry.
func (s *Stream) IsFiltered() bool {
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		return true
	case Array:
		return len(f) > 0
	}
	return false
}

// filterChain lists the filters and their parameters in application order.
func (s *Stream) filterChain() ([]string, []filters.Params, error) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, e := range f {
			n, ok := e.(Name)
			if !ok {
				return nil, nil, fmt.Errorf("filter %d is not a name: %T", i, e)
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, fmt.Errorf("invalid Filter type: %T", f)
	}

	params := make([]filters.Params, len(names))
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		for i := range params {
			params[i] = dictToParams(p)
		}
	case Array:
		for i := range params {
			if d, ok := p.Get(i).(Dict); ok {
				params[i] = dictToParams(d)
			}
		}
	}
	return names, params, nil
}

// decodeWithFilter applies a single filter to data.
func decodeWithFilter(data []byte, name string, params filters.Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		// image payloads pass through untouched
		return data, nil
	}
	return nil, fmt.Errorf("unsupported filter: %s", name)
}

// dictToParams converts a DecodeParms dictionary to filters.Params,
// translating PDF objects to Go values.
func dictToParams(dict Dict) filters.Params {
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}

// Compress Flate-encodes an unfiltered stream in place. Streams that already
// carry a filter are left alone.
func (s *Stream) Compress() error {
	if s.IsFiltered() {
		return nil
	}
	encoded, err := filters.FlateEncode(s.Data)
	if err != nil {
		return err
	}
	if len(encoded) >= len(s.Data) {
		return nil
	}
	s.Data = encoded
	s.Dict.Set("Filter", Name("FlateDecode"))
	s.Dict.Delete("DecodeParms")
	s.Dict.Set("Length", Int(len(encoded)))
	return nil
}
