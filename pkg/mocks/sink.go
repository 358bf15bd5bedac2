package mocks

import (
	"bytes"
	"sync"

	"github.com/user/x264go/pkg/ports"
)

// StreamSink is a mock implementation of ports.StreamSink. It copies
// everything it receives.
type StreamSink struct {
	mu sync.Mutex

	WriteHeadersFunc func(stream []byte) error
	WriteFrameFunc   func(stream []byte, info ports.FrameInfo) error
	CloseFunc        func() error

	Headers    [][]byte
	Frames     []SinkFrame
	CloseCalls int
}

// SinkFrame records a call to WriteFrame.
type SinkFrame struct {
	Data []byte
	Info ports.FrameInfo
}

func (m *StreamSink) WriteHeaders(stream []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Headers = append(m.Headers, bytes.Clone(stream))
	if m.WriteHeadersFunc != nil {
		return m.WriteHeadersFunc(stream)
	}
	return nil
}

func (m *StreamSink) WriteFrame(stream []byte, info ports.FrameInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, SinkFrame{Data: bytes.Clone(stream), Info: info})
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(stream, info)
	}
	return nil
}

func (m *StreamSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// DiscardingSink is a StreamSink that also records Discard calls.
type DiscardingSink struct {
	StreamSink

	DiscardFunc  func() error
	DiscardCalls int
}

func (m *DiscardingSink) Discard() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DiscardCalls++
	if m.DiscardFunc != nil {
		return m.DiscardFunc()
	}
	return nil
}

var (
	_ ports.StreamSink      = (*StreamSink)(nil)
	_ ports.DiscardableSink = (*DiscardingSink)(nil)
)
