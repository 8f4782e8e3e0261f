// Package merge reassembles PDF fragments into whole documents.
//
// A long report rendered in chunks yields files named
// <kind>-<name>_part_<nnnn>.pdf, kind being l, t or f. [FindGroups]
// collects the fragments of each output, ordered by chunk number, and
// [Combine] merges one group: objects of each fragment are renumbered past
// those of the previous fragment, a single catalog and page tree root are
// kept, and every page is attached to that root in fragment order.
//
//	groups, err := merge.FindGroups(dir)
//	if err != nil {
//	    return err
//	}
//	if err := merge.CombineAll(groups, dir); err != nil {
//	    return err
//	}
//
// Failures are reported as [*MergeError] and leave the fragments of the
// group untouched.
package merge
