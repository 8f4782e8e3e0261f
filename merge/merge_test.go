package merge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbstat/void-probe/core"
	"github.com/akbstat/void-probe/internal/pdftest"
	"github.com/akbstat/void-probe/pages"
	"github.com/akbstat/void-probe/reader"
)

// fragments builds one document per entry of counts; page j of fragment i
// shows "f<i>p<j>".
func fragments(counts ...int) []*core.Document {
	docs := make([]*core.Document, len(counts))
	for i, n := range counts {
		ps := make([]pdftest.Page, n)
		for j := range ps {
			ps[j] = pdftest.TextPage(fmt.Sprintf("f%dp%d", i+1, j+1))
		}
		docs[i] = pdftest.Build(ps...)
	}
	return docs
}

func TestMergePageOrder(t *testing.T) {
	merged, err := Merge(fragments(2, 3, 1)...)
	require.NoError(t, err)

	cat, err := merged.Catalog()
	require.NoError(t, err)
	rootRef, ok := cat.GetIndirectRef("Pages")
	require.True(t, ok)
	root := merged.Objects[rootRef].(core.Dict)

	count, _ := root.GetInt("Count")
	assert.EqualValues(t, 6, count)
	kids, _ := root.GetArray("Kids")
	assert.Len(t, kids, 6)
	assert.False(t, root.Has("Parent"))

	for _, kid := range kids {
		page := merged.Objects[kid.(core.IndirectRef)].(core.Dict)
		parent, _ := page.GetIndirectRef("Parent")
		assert.Equal(t, rootRef, parent)
	}

	doc, err := reader.NewReader("merged.pdf", merged).Document()
	require.NoError(t, err)
	var got []string
	for _, p := range doc.Pages {
		line, _ := p.FirstLine()
		got = append(got, line)
	}
	assert.Equal(t, []string{"f1p1", "f1p2", "f2p1", "f2p2", "f2p3", "f3p1"}, got)
}

func TestMergeNoDanglingReferences(t *testing.T) {
	for n := 1; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d fragments", n), func(t *testing.T) {
			counts := make([]int, n)
			for i := range counts {
				counts[i] = i%3 + 1
			}
			docs := fragments(counts...)
			// a reference that only made sense inside its fragment
			docs[0].Objects[core.IndirectRef{Number: 1}].(core.Dict).Set("Names", core.IndirectRef{Number: 500})

			merged, err := Merge(docs...)
			require.NoError(t, err)
			assert.Empty(t, merged.DanglingReferences())

			refs := merged.Refs()
			for i, ref := range refs {
				assert.Equal(t, core.IndirectRef{Number: i + 1}, ref, "objects are numbered compactly")
			}
		})
	}
}

func TestMergeOutlines(t *testing.T) {
	docs := fragments(1, 1)
	outline := docs[1].Add(core.Dict{"Type": core.Name("Outlines"), "Count": core.Int(3)})
	cat, err := docs[1].Catalog()
	require.NoError(t, err)
	cat.Set("Outlines", outline)

	merged, err := Merge(docs...)
	require.NoError(t, err)

	cat, err = merged.Catalog()
	require.NoError(t, err)
	obj, err := merged.Resolve(cat.Get("Outlines"))
	require.NoError(t, err)
	assert.Equal(t, core.Dict{"Type": core.Name("Outlines"), "Count": core.Int(0)}, obj)

	outlines := 0
	for _, o := range merged.Objects {
		if d, ok := o.(core.Dict); ok && d.IsType("Outlines") {
			outlines++
		}
	}
	assert.Equal(t, 1, outlines)
}

func TestMergeInheritedAttributes(t *testing.T) {
	doc := core.NewDocument()
	cmap := doc.Add(&core.Stream{Dict: core.Dict{}, Data: []byte(pdftest.ToUnicode(map[uint16]rune{1: 'A'}))})
	font := doc.Add(core.Dict{"Type": core.Name("Font"), "ToUnicode": cmap})
	content := doc.Add(&core.Stream{Dict: core.Dict{}, Data: []byte("BT /F1 1 Tf 1 0 0 1 0 0 Tm <0001> Tj ET")})
	page := doc.Add(core.Dict{"Type": core.Name("Page"), "Contents": content})
	middle := doc.Add(core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{page},
		"Count":     core.Int(1),
		"Resources": core.Dict{"Font": core.Dict{"F1": font}},
		"Rotate":    core.Int(90),
	})
	root := doc.Add(core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{middle}, "Count": core.Int(1)})
	doc.Objects[page].(core.Dict).Set("Parent", middle)
	doc.Objects[middle].(core.Dict).Set("Parent", root)
	doc.Trailer.Set("Root", doc.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": root}))

	merged, err := Merge(fragments(1)[0], doc)
	require.NoError(t, err)

	cat, err := merged.Catalog()
	require.NoError(t, err)
	tree, err := pages.FromCatalog(cat, merged)
	require.NoError(t, err)
	list, err := tree.Pages()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[1].Dict().Has("Resources"))
	assert.Equal(t, 90, list[1].Rotate())
	assert.Equal(t, 0, list[0].Rotate(), "attributes of other fragments stay with their pages")

	text, err := reader.NewReader("m.pdf", merged).Document()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, text.Page(2).Lines)
}

func TestMergePageTreeRoot(t *testing.T) {
	docs := fragments(1, 1)
	firstRoot := docs[0].Objects[core.IndirectRef{Number: 2}].(core.Dict)
	firstRoot.Set("Label", core.Name("first"))
	secondRoot := docs[1].Objects[core.IndirectRef{Number: 2}].(core.Dict)
	secondRoot.Set("Label", core.Name("second"))
	secondRoot.Set("Extra", core.Int(7))
	secondRoot.Set("Resources", core.Dict{"ProcSet": core.Array{core.Name("PDF")}})
	secondRoot.Set("MediaBox", core.Array{core.Int(0), core.Int(0), core.Int(842), core.Int(595)})

	merged, err := Merge(docs...)
	require.NoError(t, err)

	cat, err := merged.Catalog()
	require.NoError(t, err)
	rootRef, ok := cat.GetIndirectRef("Pages")
	require.True(t, ok)
	root := merged.Objects[rootRef].(core.Dict)

	assert.Equal(t, core.Name("first"), root.Get("Label"), "earlier fields win")
	assert.Equal(t, core.Int(7), root.Get("Extra"), "missing fields are added")
	assert.False(t, root.Has("Resources"))
	box, _ := root.GetArray("MediaBox")
	assert.Equal(t, core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)}, box)

	tree, err := pages.FromCatalog(cat, merged)
	require.NoError(t, err)
	list, err := tree.Pages()
	require.NoError(t, err)
	require.Len(t, list, 2)
	second, err := list[1].MediaBox()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 842, 595}, second)
	assert.True(t, list[1].Dict().Has("Resources"))
	first, err := list[0].MediaBox()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 612, 792}, first)
}

func TestMergeErrors(t *testing.T) {
	_, err := Merge()
	var me *MergeError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "no document catalog", me.Reason)

	doc := core.NewDocument()
	doc.Trailer.Set("Root", doc.Add(core.Dict{"Type": core.Name("Catalog")}))
	_, err = Merge(doc)
	require.True(t, errors.As(err, &me))
	assert.Contains(t, me.Error(), "page tree")
}
