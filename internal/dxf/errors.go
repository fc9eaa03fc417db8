package dxf

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEnd = errors.New("unexpected end of records")
	ErrNotBinary     = errors.New("binary sentinel not found")
)

// StreamError stream-level failure, never recoverable
type StreamError struct {
	Position int64
	Err      error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("dxf: stream failure at %d: %v", e.Position, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// ValueError malformed value of a single record, the stream itself stays usable
type ValueError struct {
	Position int64
	Code     Code
	Raw      string
	Err      error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("dxf: invalid value %q for code %d at %d: %v", e.Raw, e.Code, e.Position, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// IsStreamError reports whether err aborts the whole read
func IsStreamError(err error) bool {
	var se *StreamError
	return errors.As(err, &se)
}
