package core

// RenumberFrom gives every object a new number, counting up from start in
// ascending order of the current numbers, with generation 0. All references
// in objects and trailer are rewritten; references to objects that are not
// present become null. It returns the highest number assigned, or start-1
// for an empty document.
func (d *Document) RenumberFrom(start int) int {
	refs := d.Refs()
	mapping := make(map[IndirectRef]IndirectRef, len(refs))
	for i, ref := range refs {
		mapping[ref] = IndirectRef{Number: start + i}
	}

	rewrite := func(obj Object) Object {
		if ref, ok := obj.(IndirectRef); ok {
			if to, ok := mapping[ref]; ok {
				return to
			}
			return Null{}
		}
		return nil
	}

	objects := make(map[IndirectRef]Object, len(refs))
	for _, ref := range refs {
		objects[mapping[ref]] = Walk(d.Objects[ref], rewrite)
	}
	d.Objects = objects
	d.Trailer = Walk(d.Trailer, rewrite).(Dict)
	return start + len(refs) - 1
}

// Renumber compacts object numbers to 1..n.
func (d *Document) Renumber() {
	d.RenumberFrom(1)
}

// DanglingReferences lists references, in objects or in the trailer, whose
// target is not in the document. The result is sorted and has no duplicates.
func (d *Document) DanglingReferences() []IndirectRef {
	seen := make(map[IndirectRef]bool)
	var out []IndirectRef
	check := func(obj Object) Object {
		if ref, ok := obj.(IndirectRef); ok {
			if _, present := d.Objects[ref]; !present && !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
		}
		return nil
	}
	for _, ref := range d.Refs() {
		Walk(d.Objects[ref], check)
	}
	Walk(d.Trailer, check)

	sortRefs(out)
	return out
}

// Compress Flate-encodes every unfiltered stream.
func (d *Document) Compress() error {
	for _, obj := range d.Objects {
		if s, ok := obj.(*Stream); ok {
			if err := s.Compress(); err != nil {
				return err
			}
		}
	}
	return nil
}
