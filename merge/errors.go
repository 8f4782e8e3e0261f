package merge

import "fmt"

// MergeError reports a group that could not be merged. Nothing is written
// for that group and its fragments are left in place.
type MergeError struct {
	Group  string
	Reason string
	Err    error
}

func (e *MergeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("merge %s: %s: %v", e.Group, e.Reason, e.Err)
	}
	return fmt.Sprintf("merge %s: %s", e.Group, e.Reason)
}

func (e *MergeError) Unwrap() error { return e.Err }
