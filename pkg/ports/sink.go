package ports

// FrameInfo describes one encoded picture handed to a StreamSink, in
// decode order.
type FrameInfo struct {
	Keyframe bool
	PTS      int64
	DTS      int64
}

// StreamSink consumes an encoded H.264 elementary stream.
//
// The byte slices passed to it alias encoder memory and are only valid for
// the duration of the call. Sinks that keep data must copy it.
type StreamSink interface {
	// WriteHeaders receives the parameter sets, before any frame.
	WriteHeaders(stream []byte) error

	// WriteFrame receives all units of one encoded picture.
	WriteFrame(stream []byte, info FrameInfo) error

	// Close finishes the output.
	Close() error
}

// DiscardableSink is a StreamSink whose output can be dropped when the
// encode fails, instead of being finished.
type DiscardableSink interface {
	StreamSink

	// Discard abandons the output. Close must not be called afterwards.
	Discard() error
}
