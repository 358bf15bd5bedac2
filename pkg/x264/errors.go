package x264

import "errors"

var (
	// ErrBuild is returned when the engine refuses to open an encoder with
	// the configured parameters.
	ErrBuild = errors.New("x264: build failed")

	// ErrEncode is returned when Encode, Work or Headers gets a negative
	// status from the engine.
	ErrEncode = errors.New("x264: encode failed")

	// ErrClosed is returned by calls on an encoder after Close.
	ErrClosed = errors.New("x264: encoder closed")
)
