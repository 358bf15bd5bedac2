package x264

import (
	"fmt"
	"iter"
	"sync/atomic"
	"unsafe"

	"github.com/Eyevinn/mp4ff/avc"

	"github.com/user/x264go/pkg/ports"
)

// Priority tells how important a unit is when decoding the video.
type Priority int

const (
	// Disposable units can be dropped with barely visible effect.
	Disposable Priority = iota
	// Low importance.
	Low
	// High importance.
	High
	// Highest importance; parameter sets and IDR slices.
	Highest
)

func (p Priority) String() string {
	switch p {
	case Disposable:
		return "disposable"
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "highest"
	}
}

// priorityOf maps the engine's ref_idc code. Codes it does not know are
// treated as most important.
func priorityOf(refIdc int32) Priority {
	switch refIdc {
	case ports.NALPriorityDisposable:
		return Disposable
	case ports.NALPriorityLow:
		return Low
	case ports.NALPriorityHigh:
		return High
	default:
		return Highest
	}
}

// Unit is one NAL unit of the encoded bitstream.
type Unit struct {
	priority Priority
	kind     avc.NaluType
	payload  []byte
}

// Priority returns how important the unit is for decoding.
func (u Unit) Priority() Priority { return u.priority }

// Type returns the H.264 nal_unit_type.
func (u Unit) Type() avc.NaluType { return u.kind }

// Bytes returns the framed payload. It aliases engine memory and is only
// valid until the next call on the encoder that produced it.
func (u Unit) Bytes() []byte { return u.payload }

// Data is a zero-copy view over the units returned by one encoder call.
//
// A Data is valid until the next Encode, Work, Headers or Close on the same
// encoder. Every accessor checks this and panics when the view is stale;
// copy the bytes out before calling the encoder again.
type Data struct {
	units []ports.NAL
	owner *atomic.Uint64
	gen   uint64
}

func newData(units []ports.NAL, owner *atomic.Uint64) Data {
	return Data{units: units, owner: owner, gen: owner.Load()}
}

// Valid reports whether the view still refers to live engine memory.
func (d Data) Valid() bool {
	return d.owner == nil || d.owner.Load() == d.gen
}

func (d Data) mustBeValid() {
	if !d.Valid() {
		panic("x264: data used after a later call on its encoder")
	}
}

// Len returns the number of units.
func (d Data) Len() int {
	d.mustBeValid()
	return len(d.units)
}

// Unit returns the i-th unit. It panics unless 0 <= i < Len().
func (d Data) Unit(i int) Unit {
	d.mustBeValid()
	if i < 0 || i >= len(d.units) {
		panic(fmt.Sprintf("x264: unit index %d out of range [0:%d]", i, len(d.units)))
	}
	nal := d.units[i]
	return Unit{
		priority: priorityOf(nal.RefIdc),
		kind:     avc.NaluType(nal.Type),
		payload:  nal.Payload,
	}
}

// All iterates over the units in bitstream order.
func (d Data) All() iter.Seq2[int, Unit] {
	return func(yield func(int, Unit) bool) {
		for i := 0; i < d.Len(); i++ {
			if !yield(i, d.Unit(i)) {
				return
			}
		}
	}
}

// Entirety returns every unit as one contiguous byte slice, exactly as the
// engine laid them out. No framing is added or removed.
//
// The engine writes all units of one call back to back into a single
// buffer, so the slice runs from the first payload's start to the last
// payload's end.
func (d Data) Entirety() []byte {
	d.mustBeValid()
	switch len(d.units) {
	case 0:
		return []byte{}
	case 1:
		return d.units[0].Payload
	}

	first := d.units[0].Payload
	last := d.units[len(d.units)-1].Payload
	start := unsafe.Pointer(unsafe.SliceData(first))
	lastStart := uintptr(unsafe.Pointer(unsafe.SliceData(last)))
	if lastStart < uintptr(start) {
		panic("x264: engine returned units out of order")
	}
	n := lastStart - uintptr(start) + uintptr(len(last))
	return unsafe.Slice((*byte)(start), n)
}
