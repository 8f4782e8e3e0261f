package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjHexString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

var objectTypeNames = [...]string{
	ObjNull:      "Null",
	ObjBool:      "Bool",
	ObjInt:       "Int",
	ObjReal:      "Real",
	ObjString:    "String",
	ObjHexString: "HexString",
	ObjName:      "Name",
	ObjArray:     "Array",
	ObjDict:      "Dict",
	ObjStream:    "Stream",
	ObjIndirect:  "IndirectRef",
}

// String returns the string representation of the object type
func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return "Unknown"
	}
	return objectTypeNames[t]
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF literal string. The value holds the raw bytes
// after escape processing.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// HexString represents a string written in hexadecimal form (<4142>).
// The value holds the decoded bytes. Content streams use hex strings for
// glyph codes of composite fonts, so the distinction is preserved.
type HexString string

func (h HexString) Type() ObjectType { return ObjHexString }
func (h HexString) String() string   { return string(h) }

// Hex returns the upper-case hex digits of the string.
func (h HexString) Hex() string {
	return strings.ToUpper(fmt.Sprintf("%x", string(h)))
}

// Name represents a PDF name
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// Dict represents a PDF dictionary
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }

// String renders the dictionary with its keys sorted.
func (d Dict) String() string {
	parts := make([]string, 0, len(d))
	for _, key := range d.Keys() {
		parts = append(parts, fmt.Sprintf("/%s %s", key, d[key].String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d[key].(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d[key].(Array)
	return arr, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Delete removes a key from the dictionary
func (d Dict) Delete(key string) {
	delete(d, key)
}

// Keys returns all keys in the dictionary in sorted order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsType reports whether the dictionary's /Type entry equals name.
func (d Dict) IsType(name string) bool {
	t, ok := d.GetName("Type")
	return ok && string(t) == name
}

// Stream represents a PDF stream object
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// IndirectRef represents an indirect object reference. It doubles as the
// object identifier key of a Document.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject represents an indirect object with its reference
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// Clone returns a deep copy of obj. Stream data is shared.
func Clone(obj Object) Object {
	switch v := obj.(type) {
	case Array:
		out := make(Array, len(v))
		for i, e := range v {
			out[i] = Clone(e)
		}
		return out
	case Dict:
		out := make(Dict, len(v))
		for k, e := range v {
			out[k] = Clone(e)
		}
		return out
	case *Stream:
		return &Stream{Dict: Clone(v.Dict).(Dict), Data: v.Data}
	default:
		return obj
	}
}

// Walk calls fn for every object nested in obj, depth first, obj included.
// Returning a non-nil replacement from fn substitutes the visited object in
// its container. Indirect references are not followed.
func Walk(obj Object, fn func(Object) Object) Object {
	if r := fn(obj); r != nil {
		obj = r
	}
	switch v := obj.(type) {
	case Array:
		for i, e := range v {
			v[i] = Walk(e, fn)
		}
	case Dict:
		for k, e := range v {
			v[k] = Walk(e, fn)
		}
	case *Stream:
		for k, e := range v.Dict {
			v.Dict[k] = Walk(e, fn)
		}
	}
	return obj
}

// Number returns the numeric value of an Int or Real.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}
