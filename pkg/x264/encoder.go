// Package x264 is a memory-safe wrapper around the x264 H.264 encoder.
//
// A Setup collects parameters and Build opens an Encoder bound to one pixel
// Format. Each Encode, Work or Headers call returns a Data view over the
// engine's own output buffer; the view is invalidated by the next call on
// the same encoder, so write its bytes out first:
//
//	enc, err := x264.Build[x264.BGRA](x264.NewSetup(engine, x264.Veryfast, x264.TuneNone, false, false).
//		Width(1280).Height(720).FPS(60, 1))
//	if err != nil {
//		return err
//	}
//	defer enc.Close()
//
//	headers, _ := enc.Headers()
//	w.Write(headers.Entirety())
//	for pts, img := range frames {
//		data, _, _ := enc.Encode(int64(pts), img)
//		w.Write(data.Entirety())
//	}
//	for !enc.Done() {
//		data, _, _ := enc.Work()
//		w.Write(data.Entirety())
//	}
package x264

import (
	"sync"
	"sync/atomic"

	"github.com/user/x264go/pkg/ports"
)

// Encoder owns one open engine handle. F fixes the pixel layout accepted
// by Encode.
//
// Calls are serialized. Closing an encoder that still has delayed frames
// discards their output; drain with Work until Done first when the stream
// is being saved.
type Encoder[F Format] struct {
	mu     sync.Mutex
	handle ports.Handle
	log    ports.Logger

	// gen advances on every engine call and invalidates older Data views.
	gen atomic.Uint64
}

func newEncoder[F Format](handle ports.Handle, log ports.Logger) *Encoder[F] {
	return &Encoder[F]{handle: handle, log: log}
}

// Encode submits one frame with its presentation timestamp. The returned
// Data may hold zero units while the engine buffers frames; that is not an
// error. The Picture is only meaningful when Data is non-empty.
func (e *Encoder[F]) Encode(pts int64, img Image[F]) (Data, Picture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return Data{}, Picture{}, ErrClosed
	}
	e.gen.Add(1)

	pic := &ports.PictureIn{PTS: pts, Image: describe(img)}
	units, out, status := e.handle.Encode(pic)
	if status < 0 {
		return Data{}, Picture{}, ErrEncode
	}
	return newData(units, &e.gen), pictureFrom(out), nil
}

// Work asks for more output without a new frame. Call it until Done to
// flush frames the engine delayed for lookahead or reordering.
func (e *Encoder[F]) Work() (Data, Picture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return Data{}, Picture{}, ErrClosed
	}
	e.gen.Add(1)

	units, out, status := e.handle.Encode(nil)
	if status < 0 {
		return Data{}, Picture{}, ErrEncode
	}
	return newData(units, &e.gen), pictureFrom(out), nil
}

// Headers returns the stream headers (SPS and PPS). Send them before any
// frame data.
func (e *Encoder[F]) Headers() (Data, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return Data{}, ErrClosed
	}
	e.gen.Add(1)

	units, status := e.handle.Headers()
	if status < 0 {
		return Data{}, ErrEncode
	}
	return newData(units, &e.gen), nil
}

// DelayedFrames returns how many submitted frames have not been emitted.
func (e *Encoder[F]) DelayedFrames() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return 0
	}
	return e.handle.DelayedFrames()
}

// Done reports whether the engine holds no delayed frames. It says nothing
// about whether headers were requested. A closed encoder is done.
func (e *Encoder[F]) Done() bool {
	return e.DelayedFrames() == 0
}

// Close releases the engine handle. It is safe to call more than once;
// the handle is closed exactly once.
func (e *Encoder[F]) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return nil
	}
	if n := e.handle.DelayedFrames(); n > 0 {
		e.log.Warn("Closing encoder with %d delayed frames, their output is discarded", n)
	}
	e.gen.Add(1)
	e.handle.Close()
	e.handle = nil
	e.log.Debug("Encoder closed")
	return nil
}
