package core

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// maxRefDepth bounds reference chains followed by Resolve.
const maxRefDepth = 32

// Document is an in-memory object graph: an arena of objects keyed by
// identifier plus the trailer. References between objects are plain
// IndirectRef values resolved through the arena.
type Document struct {
	Version string
	Trailer Dict
	Objects map[IndirectRef]Object
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Version: "1.7",
		Trailer: make(Dict),
		Objects: make(map[IndirectRef]Object),
	}
}

// Load reads and parses the PDF file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

var headerPattern = regexp.MustCompile(`%PDF-(\d\.\d)`)

// Parse builds a document from the bytes of a PDF file. When the
// cross-reference data is missing or inconsistent, the object table is
// rebuilt by scanning the file for object definitions.
func Parse(data []byte) (*Document, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	m := headerPattern.FindSubmatch(head)
	if m == nil {
		return nil, fmt.Errorf("not a PDF file: missing %%PDF- header")
	}

	doc := NewDocument()
	doc.Version = string(m[1])

	l := &loader{data: data, doc: doc}
	if err := l.loadFromXRef(); err != nil {
		doc.Objects = make(map[IndirectRef]Object)
		if rerr := l.reconstruct(); rerr != nil {
			return nil, fmt.Errorf("%v; reconstruction failed: %w", err, rerr)
		}
	}
	if doc.Trailer.Has("Encrypt") {
		return nil, fmt.Errorf("encrypted documents are not supported")
	}
	return doc, nil
}

// loader holds the state of one Parse call. It resolves references while
// the arena is still being filled, which indirect /Length entries need.
type loader struct {
	data    []byte
	doc     *Document
	entries map[int]XRefEntry
	objstms map[int]*ObjectStream
	busy    map[int]bool
}

func (l *loader) loadFromXRef() error {
	offset, err := FindXRef(l.data)
	if err != nil {
		return err
	}
	table, err := ParseXRef(l.data, offset)
	if err != nil {
		return err
	}
	l.entries = table.Entries
	l.objstms = make(map[int]*ObjectStream)
	l.busy = make(map[int]bool)

	for _, num := range sortedKeys(l.entries) {
		e := l.entries[num]
		if e.Kind == XRefFree || num == 0 {
			continue
		}
		obj, gen, err := l.load(num)
		if err != nil {
			return fmt.Errorf("object %d: %w", num, err)
		}
		l.doc.Objects[IndirectRef{Number: num, Generation: gen}] = obj
	}

	l.doc.Trailer = table.Trailer
	l.dropContainers()
	if _, ok := l.doc.Trailer.GetIndirectRef("Root"); !ok {
		return fmt.Errorf("trailer has no /Root")
	}
	return nil
}

// load parses object num from its xref entry.
func (l *loader) load(num int) (Object, int, error) {
	e, ok := l.entries[num]
	if !ok || e.Kind == XRefFree {
		return nil, 0, fmt.Errorf("object %d not in cross-reference table", num)
	}
	if l.busy[num] {
		return nil, 0, fmt.Errorf("object %d refers to itself", num)
	}
	l.busy[num] = true
	defer delete(l.busy, num)

	if e.Kind == XRefCompressed {
		stm, err := l.objectStream(e.Stream)
		if err != nil {
			return nil, 0, err
		}
		obj, got, err := stm.Object(e.Index)
		if err != nil {
			return nil, 0, err
		}
		if got != num {
			return nil, 0, fmt.Errorf("object stream %d holds object %d at index %d, want %d", e.Stream, got, e.Index, num)
		}
		return obj, 0, nil
	}

	p := NewParser(l.data)
	p.SetReferenceResolver(l)
	p.Seek(e.Offset)
	iobj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, 0, err
	}
	if iobj.Ref.Number != num {
		return nil, 0, fmt.Errorf("offset %d holds object %d", e.Offset, iobj.Ref.Number)
	}
	return iobj.Object, iobj.Ref.Generation, nil
}

func (l *loader) objectStream(num int) (*ObjectStream, error) {
	if stm, ok := l.objstms[num]; ok {
		return stm, nil
	}
	obj, _, err := l.load(num)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", num, err)
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %T", num, obj)
	}
	stm, err := NewObjectStream(stream)
	if err != nil {
		return nil, err
	}
	l.objstms[num] = stm
	return stm, nil
}

// ResolveReference implements ReferenceResolver for stream lengths.
func (l *loader) ResolveReference(ref IndirectRef) (Object, error) {
	obj, _, err := l.load(ref.Number)
	return obj, err
}

var objPattern = regexp.MustCompile(`(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+obj\b`)

// reconstruct rebuilds the arena by scanning for "n g obj" definitions.
// Later definitions replace earlier ones, as incremental updates do.
func (l *loader) reconstruct() error {
	l.entries = make(map[int]XRefEntry)
	l.objstms = make(map[int]*ObjectStream)
	l.busy = make(map[int]bool)

	for _, loc := range objPattern.FindAllSubmatchIndex(l.data, -1) {
		if loc[0] > 0 && isDigit(l.data[loc[0]-1]) {
			continue
		}
		num, _ := strconv.Atoi(string(l.data[loc[2]:loc[3]]))
		gen, _ := strconv.Atoi(string(l.data[loc[4]:loc[5]]))
		l.entries[num] = XRefEntry{Kind: XRefInUse, Offset: loc[0], Generation: gen}
	}
	if len(l.entries) == 0 {
		return fmt.Errorf("no objects found")
	}

	for _, num := range sortedKeys(l.entries) {
		obj, gen, err := l.load(num)
		if err != nil {
			continue
		}
		l.doc.Objects[IndirectRef{Number: num, Generation: gen}] = obj
	}

	// objects packed in object streams
	var packed []*ObjectStream
	for _, obj := range l.doc.Objects {
		if s, ok := obj.(*Stream); ok && s.Dict.IsType("ObjStm") {
			if stm, err := NewObjectStream(s); err == nil {
				packed = append(packed, stm)
			}
		}
	}
	for _, stm := range packed {
		for i, num := range stm.Numbers() {
			if l.has(num) {
				continue
			}
			if inner, _, err := stm.Object(i); err == nil {
				l.doc.Objects[IndirectRef{Number: num}] = inner
			}
		}
	}

	l.doc.Trailer = l.scanTrailer()
	l.dropContainers()
	if _, ok := l.doc.Trailer.GetIndirectRef("Root"); ok {
		return nil
	}
	for _, ref := range l.doc.Refs() {
		if d, ok := l.doc.Objects[ref].(Dict); ok && d.IsType("Catalog") {
			l.doc.Trailer.Set("Root", ref)
			return nil
		}
	}
	return fmt.Errorf("no document catalog found")
}

func (l *loader) has(num int) bool {
	for ref := range l.doc.Objects {
		if ref.Number == num {
			return true
		}
	}
	return false
}

// scanTrailer merges every trailer dictionary in the file, later ones
// winning.
func (l *loader) scanTrailer() Dict {
	trailer := make(Dict)
	kw := []byte("trailer")
	for pos := 0; ; {
		i := bytes.Index(l.data[pos:], kw)
		if i < 0 {
			break
		}
		p := NewParser(l.data)
		p.Seek(pos + i + len(kw))
		if obj, err := p.ParseObject(); err == nil {
			if d, ok := obj.(Dict); ok {
				for k, v := range d {
					trailer[k] = v
				}
			}
		}
		pos += i + len(kw)
	}
	trailer.Delete("Prev")
	trailer.Delete("XRefStm")
	if ref, ok := trailer.GetIndirectRef("Root"); ok {
		if _, present := l.doc.Objects[ref]; !present {
			trailer.Delete("Root")
		}
	}
	return trailer
}

// dropContainers removes cross-reference and object streams; their content
// now lives in the arena and the writer produces its own table.
func (l *loader) dropContainers() {
	for ref, obj := range l.doc.Objects {
		if s, ok := obj.(*Stream); ok && (s.Dict.IsType("XRef") || s.Dict.IsType("ObjStm")) {
			delete(l.doc.Objects, ref)
		}
	}
}

func sortedKeys(m map[int]XRefEntry) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Refs returns the identifiers of all objects in ascending order.
func (d *Document) Refs() []IndirectRef {
	refs := make([]IndirectRef, 0, len(d.Objects))
	for ref := range d.Objects {
		refs = append(refs, ref)
	}
	sortRefs(refs)
	return refs
}

func sortRefs(refs []IndirectRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Number != refs[j].Number {
			return refs[i].Number < refs[j].Number
		}
		return refs[i].Generation < refs[j].Generation
	})
}

// MaxID returns the highest object number in use, or 0 for an empty document.
func (d *Document) MaxID() int {
	max := 0
	for ref := range d.Objects {
		if ref.Number > max {
			max = ref.Number
		}
	}
	return max
}

// Add stores obj under the next free object number and returns its reference.
func (d *Document) Add(obj Object) IndirectRef {
	ref := IndirectRef{Number: d.MaxID() + 1}
	d.Objects[ref] = obj
	return ref
}

// ResolveReference returns the object stored under ref.
func (d *Document) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := d.Objects[ref]
	if !ok {
		return nil, fmt.Errorf("object %s not found", ref)
	}
	return obj, nil
}

// Resolve follows indirect references until a direct object is reached.
func (d *Document) Resolve(obj Object) (Object, error) {
	for i := 0; i < maxRefDepth; i++ {
		ref, ok := obj.(IndirectRef)
		if !ok {
			return obj, nil
		}
		var err error
		if obj, err = d.ResolveReference(ref); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reference chain longer than %d", maxRefDepth)
}

// Catalog returns the document catalog named by the trailer's /Root.
func (d *Document) Catalog() (Dict, error) {
	root := d.Trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("trailer has no /Root")
	}
	obj, err := d.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	cat, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is %T, not a dictionary", obj)
	}
	return cat, nil
}
