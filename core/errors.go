package core

import "fmt"

// DecodeError reports a stream whose compressed payload could not be
// decoded. It aborts decoding of that stream only.
type DecodeError struct {
	Filter string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Filter == "" {
		return fmt.Sprintf("decode stream: %v", e.Err)
	}
	return fmt.Sprintf("decode stream (%s): %v", e.Filter, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
