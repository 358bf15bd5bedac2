package filesink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/x264go/pkg/mocks"
	"github.com/user/x264go/pkg/ports"
)

func TestSink_WritesStreamInOrder(t *testing.T) {
	fs := mocks.NewFileSystem()
	s, err := New(fs, "out/video.h264")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	headers := []byte{0, 0, 0, 1, 0x67, 0, 0, 0, 1, 0x68}
	frame := []byte{0, 0, 0, 1, 0x65, 0x88}
	if err := s.WriteHeaders(headers); err != nil {
		t.Fatalf("WriteHeaders: %v", err)
	}
	if err := s.WriteFrame(frame, ports.FrameInfo{Keyframe: true}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	// Mutating the caller's buffer must not change what was written.
	frame[5] = 0

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, ok := fs.GetFile("out/video.h264")
	if !ok {
		t.Fatal("file not written")
	}
	want := []byte{0, 0, 0, 1, 0x67, 0, 0, 0, 1, 0x68, 0, 0, 0, 1, 0x65, 0x88}
	if !bytes.Equal(got, want) {
		t.Errorf("file = %x, want %x", got, want)
	}
	if s.Bytes() != int64(len(want)) || s.Frames() != 1 {
		t.Errorf("Bytes = %d Frames = %d", s.Bytes(), s.Frames())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSink_CreateError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.CreateFunc = func(path string) (ports.OutputFile, error) {
		return nil, errors.New("read-only")
	}
	if _, err := New(fs, "x.h264"); err == nil {
		t.Error("expected error")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestSink_WriteError(t *testing.T) {
	s := NewWriter(failingWriter{})
	if err := s.WriteHeaders([]byte{1}); err == nil {
		t.Error("expected error")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close on writer sink: %v", err)
	}
}

func TestSink_DiscardLeavesNoFile(t *testing.T) {
	fs := mocks.NewFileSystem()
	s, err := New(fs, "out/broken.h264")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.WriteHeaders([]byte{0, 0, 0, 1, 0x67})
	if err := s.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, ok := fs.GetFile("out/broken.h264"); ok {
		t.Error("discarded output was published")
	}
	if d := fs.Discarded(); len(d) != 1 || d[0] != "out/broken.h264" {
		t.Errorf("Discarded() = %v", d)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close after Discard: %v", err)
	}
}
