package pages

import (
	"testing"

	"github.com/akbstat/void-probe/core"
)

func ref(n int) core.IndirectRef { return core.IndirectRef{Number: n} }

// nestedDoc has two intermediate Pages nodes; resources live on the root.
func nestedDoc() *core.Document {
	doc := core.NewDocument()
	doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Catalog"), "Pages": ref(2)}
	doc.Objects[ref(2)] = core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{ref(3), ref(6)},
		"Count":     core.Int(3),
		"Resources": core.Dict{"Font": core.Dict{}},
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
	}
	doc.Objects[ref(3)] = core.Dict{
		"Type":   core.Name("Pages"),
		"Kids":   core.Array{ref(4), ref(5)},
		"Rotate": core.Int(90),
	}
	doc.Objects[ref(4)] = core.Dict{"Type": core.Name("Page"), "Parent": ref(3), "Contents": ref(7)}
	doc.Objects[ref(5)] = core.Dict{"Type": core.Name("Page"), "Parent": ref(3), "Rotate": core.Int(0)}
	doc.Objects[ref(6)] = core.Dict{"Type": core.Name("Page"), "Parent": ref(2), "Contents": core.Array{ref(7), ref(8)}}
	doc.Objects[ref(7)] = &core.Stream{Dict: core.Dict{}, Data: []byte("BT")}
	doc.Objects[ref(8)] = &core.Stream{Dict: core.Dict{}, Data: []byte("ET")}
	doc.Trailer.Set("Root", ref(1))
	return doc
}

func TestPagesOrderAndInheritance(t *testing.T) {
	doc := nestedDoc()
	cat, err := doc.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	tree, err := FromCatalog(cat, doc)
	if err != nil {
		t.Fatal(err)
	}
	list, err := tree.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}

	wantRefs := []int{4, 5, 6}
	if len(list) != len(wantRefs) {
		t.Fatalf("got %d pages, want %d", len(list), len(wantRefs))
	}
	for i, n := range wantRefs {
		if list[i].Ref.Number != n {
			t.Errorf("page %d ref = %v, want %d", i, list[i].Ref, n)
		}
	}

	if got := list[0].Rotate(); got != 90 {
		t.Errorf("page 1 rotate = %d, want inherited 90", got)
	}
	if got := list[1].Rotate(); got != 0 {
		t.Errorf("page 2 rotate = %d, want own 0", got)
	}
	res, err := list[2].Resources()
	if err != nil || res == nil {
		t.Errorf("page 3 resources = %v, %v", res, err)
	}
	box, err := list[0].MediaBox()
	if err != nil || box[2] != 612 {
		t.Errorf("MediaBox = %v, %v", box, err)
	}

	streams, err := list[2].Contents()
	if err != nil || len(streams) != 2 {
		t.Errorf("Contents = %d streams, %v", len(streams), err)
	}
	if n, _ := tree.Count(); n != 3 {
		t.Errorf("Count = %d", n)
	}
}

func TestFlatten(t *testing.T) {
	doc := nestedDoc()
	cat, _ := doc.Catalog()
	tree, _ := FromCatalog(cat, doc)
	list, err := tree.Pages()
	if err != nil {
		t.Fatal(err)
	}
	p := list[0]
	p.Flatten()
	d := p.Dict()
	for _, key := range []string{"Resources", "MediaBox", "Rotate"} {
		if !d.Has(key) {
			t.Errorf("flattened page lacks %s", key)
		}
	}
	if d.Has("CropBox") {
		t.Error("flatten invented a CropBox")
	}
}

func TestPageWithoutResourcesOrContents(t *testing.T) {
	doc := core.NewDocument()
	doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2)}}
	doc.Objects[ref(2)] = core.Dict{"Type": core.Name("Page")}
	list, err := NewPageTree(ref(1), doc).Pages()
	if err != nil {
		t.Fatal(err)
	}
	res, err := list[0].Resources()
	if res != nil || err != nil {
		t.Errorf("Resources = %v, %v", res, err)
	}
	streams, err := list[0].Contents()
	if streams != nil || err != nil {
		t.Errorf("Contents = %v, %v", streams, err)
	}
}

func TestBrokenTrees(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		doc := core.NewDocument()
		doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(1)}}
		if _, err := NewPageTree(ref(1), doc).Pages(); err == nil {
			t.Error("expected cycle error")
		}
	})
	t.Run("missing kid", func(t *testing.T) {
		doc := core.NewDocument()
		doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(9)}}
		if _, err := NewPageTree(ref(1), doc).Pages(); err == nil {
			t.Error("expected resolve error")
		}
	})
	t.Run("unresolvable contents", func(t *testing.T) {
		doc := core.NewDocument()
		doc.Objects[ref(1)] = core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2)}}
		doc.Objects[ref(2)] = core.Dict{"Type": core.Name("Page"), "Contents": ref(40)}
		list, err := NewPageTree(ref(1), doc).Pages()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := list[0].Contents(); err == nil {
			t.Error("expected Contents error")
		}
	})
}
