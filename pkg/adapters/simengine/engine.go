// Package simengine is a pure-Go stand-in for the x264 engine.
//
// It produces no real compressed video. It reproduces the parts of the
// engine contract the wrapper depends on: preset, tune and profile name
// handling, open-time validation, parseable SPS/PPS headers, lookahead
// delay with B-frame reordering, pts/dts assignment, and a single output
// buffer that every call overwrites.
package simengine

import (
	"encoding/binary"

	"github.com/user/x264go/pkg/ports"
)

// NAL unit types emitted by the simulator.
const (
	nalSlice int32 = 1
	nalIDR   int32 = 5
	nalSEI   int32 = 6
	nalSPS   int32 = 7
	nalPPS   int32 = 8
)

func nalHeader(refIdc, typ int32) byte {
	return byte(refIdc<<5 | typ)
}

// Engine implements ports.Engine.
type Engine struct{}

// New creates a simulated engine.
func New() *Engine {
	return &Engine{}
}

// DefaultParams implements ports.Engine.
func (e *Engine) DefaultParams() ports.ParamBlock {
	return defaultParams()
}

// PresetParams implements ports.Engine.
func (e *Engine) PresetParams(preset, tune string) (ports.ParamBlock, int32) {
	p := defaultParams()
	if !p.applyPreset(preset) || !p.applyTune(tune) {
		return p, -1
	}
	return p, 0
}

// Open implements ports.Engine. It copies the parameter block, so later
// changes to it do not affect the handle.
func (e *Engine) Open(params ports.ParamBlock) ports.Handle {
	p, ok := params.(*Params)
	if !ok || !p.validate() {
		return nil
	}
	cp := *p
	return &Handle{params: cp}
}

type frame struct {
	index int // submission order
	pts   int64
	sig   byte
	ref   bool // anchor of its mini-GOP
}

// Handle implements ports.Handle.
type Handle struct {
	params Params

	// buf is the one output buffer; each call overwrites it.
	buf  []byte
	nals []ports.NAL

	pending   []frame // submitted, not yet scheduled
	scheduled []frame // decode order, waiting to be emitted
	dtsBase   []int64 // submitted pts, consumed in order to derive dts
	dtsShift  int64
	shiftSet  bool

	submitted int
	emitted   int
	lastIDR   int
	sentSEI   bool
	closed    bool
}

// Params returns a copy of the parameters the handle was opened with.
func (h *Handle) Params() Params { return h.params }

// Closed reports whether Close was called.
func (h *Handle) Closed() bool { return h.closed }

// Headers implements ports.Handle.
func (h *Handle) Headers() ([]ports.NAL, int32) {
	if h.closed {
		return nil, -1
	}
	h.reset()
	h.appendNAL(ports.NALPriorityHighest, sps(&h.params))
	h.appendNAL(ports.NALPriorityHighest, pps(&h.params))
	h.appendNAL(ports.NALPriorityDisposable, h.sei())
	return h.finish()
}

// Encode implements ports.Handle.
func (h *Handle) Encode(pic *ports.PictureIn) ([]ports.NAL, ports.PictureOut, int32) {
	if h.closed {
		return nil, ports.PictureOut{}, -1
	}
	h.reset()

	if pic != nil {
		sig, ok := h.accept(&pic.Image)
		if !ok {
			return nil, ports.PictureOut{}, -1
		}
		h.pending = append(h.pending, frame{index: h.submitted, pts: pic.PTS, sig: sig})
		h.dtsBase = append(h.dtsBase, pic.PTS)
		h.submitted++
		if h.DelayedFrames() <= h.params.delay() {
			return h.nals, ports.PictureOut{}, 0
		}
	}

	if len(h.scheduled) == 0 {
		h.schedule()
	}
	if len(h.scheduled) == 0 {
		return h.nals, ports.PictureOut{}, 0
	}

	f := h.scheduled[0]
	h.scheduled = h.scheduled[1:]
	out := h.emit(f)
	nals, status := h.finish()
	return nals, out, status
}

// DelayedFrames implements ports.Handle.
func (h *Handle) DelayedFrames() int {
	return len(h.pending) + len(h.scheduled)
}

// Close implements ports.Handle.
func (h *Handle) Close() {
	h.closed = true
	h.buf = nil
	h.nals = nil
	h.pending = nil
	h.scheduled = nil
}

// accept checks the picture against the open parameters and returns a
// small signature of its content.
func (h *Handle) accept(img *ports.ImagePlanes) (byte, bool) {
	bpp := bytesPerPixel(img.Colorspace)
	if img.Colorspace != h.params.Colorspace || img.PlaneCount < 1 || bpp == 0 {
		return 0, false
	}
	stride := int(img.Strides[0])
	if stride < int(h.params.Width)*bpp || len(img.Planes[0]) < stride*int(h.params.Height) {
		return 0, false
	}
	var sig byte
	plane := img.Planes[0]
	for i := 0; i < len(plane); i += 251 {
		sig = sig*31 + plane[i]
	}
	return sig, true
}

// isKey reports whether submission index i starts a new GOP.
func (h *Handle) isKey(i int) bool {
	return i == 0 || i-h.lastIDR >= h.params.KeyintMax
}

// schedule moves the next mini-GOP from pending to scheduled in decode
// order: the anchor first, then the B-frames that precede it.
func (h *Handle) schedule() {
	if len(h.pending) == 0 {
		return
	}
	if h.isKey(h.pending[0].index) {
		h.pending[0].ref = true
		h.scheduled = append(h.scheduled, h.pending[0])
		h.pending = h.pending[1:]
		return
	}

	n := 1
	for n < len(h.pending) && n <= h.params.BFrames && !h.isKey(h.pending[n].index) {
		n++
	}
	h.pending[n-1].ref = true
	h.scheduled = append(h.scheduled, h.pending[n-1])
	h.scheduled = append(h.scheduled, h.pending[:n-1]...)
	h.pending = h.pending[n:]
}

func (h *Handle) emit(f frame) ports.PictureOut {
	if !h.shiftSet {
		// dts trails pts by the reorder depth so B-frames never decode late.
		if h.params.BFrames > 0 && len(h.dtsBase) > 1 {
			h.dtsShift = h.dtsBase[1] - h.dtsBase[0]
		}
		h.shiftSet = true
	}
	dts := h.dtsBase[0] - h.dtsShift
	h.dtsBase = h.dtsBase[1:]

	key := f.ref && h.isKey(f.index)

	if !h.sentSEI {
		h.appendNAL(ports.NALPriorityDisposable, h.sei())
		h.sentSEI = true
	}

	var refIdc, typ int32
	var size int
	switch {
	case key:
		refIdc, typ, size = ports.NALPriorityHighest, nalIDR, 96
		h.lastIDR = f.index
	case f.ref:
		refIdc, typ, size = ports.NALPriorityHigh, nalSlice, 32
	default:
		refIdc, typ, size = ports.NALPriorityDisposable, nalSlice, 16
	}
	if h.params.BitrateKbps > 0 {
		size += int(h.params.BitrateKbps / 500)
	}
	h.appendNAL(refIdc, slice(typ, refIdc, f.sig, size))
	h.emitted++

	return ports.PictureOut{Keyframe: key, PTS: f.pts, DTS: dts}
}

func (h *Handle) sei() []byte {
	body := []byte("x264go simengine")
	return append([]byte{nalHeader(0, nalSEI), 5, byte(len(body))}, append(body, 0x80)...)
}

// slice fabricates a slice NAL. Body bytes always have the top bit set so
// no start code can appear inside.
func slice(typ, refIdc int32, sig byte, size int) []byte {
	out := make([]byte, size+1)
	out[0] = nalHeader(refIdc, typ)
	for i := 1; i <= size; i++ {
		out[i] = 0x80 | (sig+byte(i*37))&0x7f
	}
	return out
}

func (h *Handle) reset() {
	h.buf = h.buf[:0]
	h.nals = h.nals[:0]
}

// appendNAL frames nal into buf. Payload slices are attached in finish,
// once buf has stopped growing.
func (h *Handle) appendNAL(refIdc int32, nal []byte) {
	start := len(h.buf)
	if h.params.AnnexB {
		h.buf = append(h.buf, 0, 0, 0, 1)
	} else {
		h.buf = binary.BigEndian.AppendUint32(h.buf, uint32(len(nal)))
	}
	h.buf = append(h.buf, nal...)
	h.nals = append(h.nals, ports.NAL{
		RefIdc:  refIdc,
		Type:    int32(nal[0] & 0x1f),
		Payload: h.buf[start:len(h.buf):len(h.buf)],
	})
}

func (h *Handle) finish() ([]ports.NAL, int32) {
	end := 0
	for i := range h.nals {
		n := len(h.nals[i].Payload)
		h.nals[i].Payload = h.buf[end : end+n : end+n]
		end += n
	}
	return h.nals, int32(end)
}

var (
	_ ports.Engine = (*Engine)(nil)
	_ ports.Handle = (*Handle)(nil)
)
