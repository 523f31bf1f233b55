package highlight

import (
	"errors"
	"fmt"
)

// ErrMissingAnchor is returned by New when no anchor element is supplied.
var ErrMissingAnchor = errors.New("missing anchor element")

// Causes wrapped by ReconstructionError.
var (
	ErrBadPath      = errors.New("malformed path")
	ErrNodeNotFound = errors.New("path does not resolve to a node")
	ErrNotText      = errors.New("target is not a text leaf")
	ErrOffsetRange  = errors.New("offset or length outside the target text")
	ErrTextMismatch = errors.New("target text does not match the descriptor")
	ErrBadTemplate  = errors.New("template markup is not a single element")
)

// SerializationError reports input to Deserialize that is not a valid
// descriptor list. It aborts the whole call.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("can't parse highlight descriptors: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ReconstructionError reports a single descriptor that could not be
// restored. Deserialize logs and skips it.
type ReconstructionError struct {
	Index int
	Path  string
	Err   error
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("can't deserialize highlight descriptor %d (path %q): %v", e.Index, e.Path, e.Err)
}

func (e *ReconstructionError) Unwrap() error { return e.Err }
