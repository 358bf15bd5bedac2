// Package nullsink provides a stream sink that discards its input.
package nullsink

import "github.com/user/x264go/pkg/ports"

// Sink implements ports.StreamSink. It only counts what it receives,
// which is enough for benchmarks and dry runs.
type Sink struct {
	Bytes     int64
	Frames    int
	Keyframes int
}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// WriteHeaders counts the header bytes.
func (s *Sink) WriteHeaders(stream []byte) error {
	s.Bytes += int64(len(stream))
	return nil
}

// WriteFrame counts the frame.
func (s *Sink) WriteFrame(stream []byte, info ports.FrameInfo) error {
	s.Bytes += int64(len(stream))
	s.Frames++
	if info.Keyframe {
		s.Keyframes++
	}
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

var _ ports.StreamSink = (*Sink)(nil)
