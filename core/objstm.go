package core

import "fmt"

// ObjectStream represents a PDF object stream (Type /ObjStm, PDF 1.5+):
// several objects stored in one compressed stream.
type ObjectStream struct {
	n       int
	first   int
	data    []byte
	entries []objStmEntry
}

// objStmEntry pairs an object number with its offset relative to First.
type objStmEntry struct {
	number int
	offset int
}

// NewObjectStream decodes s and parses its header of N number/offset pairs.
func NewObjectStream(s *Stream) (*ObjectStream, error) {
	if s == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if !s.Dict.IsType("ObjStm") {
		return nil, fmt.Errorf("stream is not an object stream, got type: %v", s.Dict.Get("Type"))
	}
	n, ok := s.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N: %v", s.Dict.Get("N"))
	}
	first, ok := s.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First: %v", s.Dict.Get("First"))
	}

	data, err := s.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("First offset (%d) exceeds decoded data length (%d)", first, len(data))
	}

	os := &ObjectStream{n: int(n), first: int(first), data: data}
	if err := os.parseHeader(); err != nil {
		return nil, fmt.Errorf("failed to parse object stream header: %w", err)
	}
	return os, nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int { return os.n }

func (os *ObjectStream) parseHeader() error {
	p := NewParser(os.data[:os.first])
	os.entries = make([]objStmEntry, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err := p.ParseObject()
		if err != nil {
			return fmt.Errorf("object number %d: %w", i, err)
		}
		off, err := p.ParseObject()
		if err != nil {
			return fmt.Errorf("offset %d: %w", i, err)
		}
		n, ok1 := num.(Int)
		o, ok2 := off.(Int)
		if !ok1 || !ok2 {
			return fmt.Errorf("entry %d is not a pair of integers", i)
		}
		os.entries = append(os.entries, objStmEntry{number: int(n), offset: int(o)})
	}
	return nil
}

// Numbers returns the object numbers stored in the stream, in header order.
func (os *ObjectStream) Numbers() []int {
	nums := make([]int, len(os.entries))
	for i, e := range os.entries {
		nums[i] = e.number
	}
	return nums
}

// Object parses the object at index (0-based header position) and returns
// it with its object number.
func (os *ObjectStream) Object(index int) (Object, int, error) {
	if index < 0 || index >= len(os.entries) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.entries))
	}
	start := os.first + os.entries[index].offset
	end := len(os.data)
	if index+1 < len(os.entries) {
		if next := os.first + os.entries[index+1].offset; next <= end && next >= start {
			end = next
		}
	}
	if start >= len(os.data) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", start, len(os.data))
	}
	obj, err := NewParser(os.data[start:end]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}
	return obj, os.entries[index].number, nil
}
