package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes Group 3 or Group 4 fax data into packed rows of
// one bit per pixel. K < 0 selects Group 4; Rows 0 means detect the height.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}
	rows := params.Int("Rows", 0)
	if rows == 0 {
		rows = ccitt.AutoDetectHeight
	}
	opts := &ccitt.Options{Invert: params.Bool("BlackIs1", false)}

	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, params.Int("Columns", 1728), rows, opts)
	return io.ReadAll(r)
}
