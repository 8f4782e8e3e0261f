package font

import (
	"testing"

	"github.com/akbstat/void-probe/core"
	"github.com/akbstat/void-probe/internal/filters"
)

func ref(n int) core.IndirectRef { return core.IndirectRef{Number: n} }

func TestCacheRegister(t *testing.T) {
	packed, err := filters.FlateEncode([]byte("1 beginbfchar\n<0001> <0041>\nendbfchar"))
	if err != nil {
		t.Fatal(err)
	}
	doc := core.NewDocument()
	doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Font"), "ToUnicode": ref(2)}
	doc.Objects[ref(2)] = &core.Stream{Dict: core.Dict{"Filter": core.Name("FlateDecode")}, Data: packed}
	doc.Objects[ref(3)] = core.Dict{"Type": core.Name("Font"), "BaseFont": core.Name("Helvetica")}
	doc.Objects[ref(4)] = core.Dict{"Type": core.Name("Font"), "ToUnicode": ref(5)}
	doc.Objects[ref(5)] = &core.Stream{Dict: core.Dict{"Filter": core.Name("FlateDecode")}, Data: []byte("junk")}

	cache := NewCache()
	errs := cache.Register(core.Dict{"F1": ref(1), "F2": ref(3), "F3": ref(4)}, doc)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1 for F3: %v", len(errs), errs)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
	m, ok := cache.CMap("F1")
	if !ok || m.Decode("0001") != "A" {
		t.Errorf("F1 CMap = %v", m)
	}
	if _, ok := cache.CMap("F2"); ok {
		t.Error("font without ToUnicode was cached")
	}
}

func TestCacheFirstOccurrenceWins(t *testing.T) {
	doc := core.NewDocument()
	doc.Objects[ref(1)] = core.Dict{"ToUnicode": ref(2)}
	doc.Objects[ref(2)] = &core.Stream{Dict: core.Dict{}, Data: []byte("beginbfchar <0001> <0041> endbfchar")}
	doc.Objects[ref(3)] = core.Dict{"ToUnicode": ref(4)}
	doc.Objects[ref(4)] = &core.Stream{Dict: core.Dict{}, Data: []byte("beginbfchar <0001> <0042> endbfchar")}

	cache := NewCache()
	cache.Register(core.Dict{"F1": ref(1)}, doc)
	cache.Register(core.Dict{"F1": ref(3)}, doc)
	m, _ := cache.CMap("F1")
	if got := m.Decode("0001"); got != "A" {
		t.Errorf("Decode = %q, want first registration %q", got, "A")
	}
}
