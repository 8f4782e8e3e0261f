package filters

import "testing"

func TestCCITTFaxDecodeParams(t *testing.T) {
	p := Params{"K": -1, "Columns": 8, "BlackIs1": true}
	if got := p.Int("K", 0); got != -1 {
		t.Errorf("K = %d, want -1", got)
	}
	if got := p.Int("Rows", 0); got != 0 {
		t.Errorf("Rows default = %d, want 0", got)
	}
	if !p.Bool("BlackIs1", false) {
		t.Error("BlackIs1 should be true")
	}
	var nilParams Params
	if got := nilParams.Int("Columns", 1728); got != 1728 {
		t.Errorf("nil params Columns = %d, want 1728", got)
	}
}
