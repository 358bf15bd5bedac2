// Package filesink writes the encoded elementary stream as-is.
package filesink

import (
	"fmt"
	"io"

	"github.com/user/x264go/pkg/ports"
)

// Sink implements ports.StreamSink by appending every buffer it receives
// to a writer. With Annex B framing the result is a playable .h264 file.
type Sink struct {
	w      io.Writer
	file   ports.OutputFile
	bytes  int64
	frames int
}

// New creates path through fs and writes the stream to it.
func New(fs ports.FileSystem, path string) (*Sink, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Sink{w: f, file: f}, nil
}

// NewWriter writes the stream to w. Close does not close w.
func NewWriter(w io.Writer) *Sink {
	return &Sink{w: w}
}

// WriteHeaders implements ports.StreamSink.
func (s *Sink) WriteHeaders(stream []byte) error {
	return s.write(stream)
}

// WriteFrame implements ports.StreamSink.
func (s *Sink) WriteFrame(stream []byte, info ports.FrameInfo) error {
	s.frames++
	return s.write(stream)
}

func (s *Sink) write(p []byte) error {
	n, err := s.w.Write(p)
	s.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

// Bytes returns the number of bytes written so far.
func (s *Sink) Bytes() int64 { return s.bytes }

// Frames returns the number of frames written so far.
func (s *Sink) Frames() int { return s.frames }

// Close implements ports.StreamSink. The file appears at its path now.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Close()
}

// Discard implements ports.DiscardableSink.
func (s *Sink) Discard() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Discard()
}

var _ ports.DiscardableSink = (*Sink)(nil)
