// Package mp4sink muxes an encoded H.264 stream into a fragmented MP4.
package mp4sink

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/x264go/pkg/ports"
)

// Options describes the stream being muxed.
type Options struct {
	Width  int
	Height int

	// AnnexB must match the encoder's framing.
	AnnexB bool

	// Timescale is the MP4 track timescale in ticks per second.
	Timescale uint32

	// TickScale converts one encoder timestamp unit into track ticks.
	TickScale int64

	// FrameDuration is the duration of the last sample in track ticks.
	FrameDuration uint32
}

// OptionsForRate derives track timing from the encoder's fps and timebase.
// A zero timebase means timestamps count frames.
func OptionsForRate(width, height int, annexb bool, fpsNum, fpsDen, tbNum, tbDen uint32) Options {
	if tbNum == 0 || tbDen == 0 {
		tbNum, tbDen = fpsDen, fpsNum
	}
	// One tick per timebase unit, at least 1000 ticks per second.
	timescale := tbDen
	scale := int64(tbNum)
	for timescale < 1000 {
		timescale *= 10
		scale *= 10
	}
	dur := uint64(timescale) * uint64(fpsDen) / uint64(fpsNum)
	return Options{
		Width:         width,
		Height:        height,
		AnnexB:        annexb,
		Timescale:     timescale,
		TickScale:     scale,
		FrameDuration: uint32(dur),
	}
}

type sample struct {
	data     []byte
	keyframe bool
	pts      int64
	dts      int64
}

// Sink implements ports.StreamSink. Frames are copied and kept in memory;
// the file is written on Close.
type Sink struct {
	opts    Options
	w       io.Writer
	file    ports.OutputFile
	sps     [][]byte
	pps     [][]byte
	samples []sample
	written int64
}

// New creates path through fs and muxes into it.
func New(fs ports.FileSystem, path string, opts Options) (*Sink, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Sink{opts: opts, w: f, file: f}, nil
}

// NewWriter muxes into w. Close does not close w.
func NewWriter(w io.Writer, opts Options) *Sink {
	return &Sink{opts: opts, w: w}
}

// WriteHeaders implements ports.StreamSink. Parameter sets go into the
// avcC box, not the samples.
func (s *Sink) WriteHeaders(stream []byte) error {
	nalus, err := s.split(stream)
	if err != nil {
		return err
	}
	for _, nalu := range nalus {
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS:
			s.sps = append(s.sps, bytes.Clone(nalu))
		case avc.NALU_PPS:
			s.pps = append(s.pps, bytes.Clone(nalu))
		}
	}
	return nil
}

// WriteFrame implements ports.StreamSink.
func (s *Sink) WriteFrame(stream []byte, info ports.FrameInfo) error {
	nalus, err := s.split(stream)
	if err != nil {
		return err
	}
	s.samples = append(s.samples, sample{
		data:     toAVCC(nalus),
		keyframe: info.Keyframe,
		pts:      info.PTS,
		dts:      info.DTS,
	})
	return nil
}

// split cuts a framed buffer into NAL units without framing.
func (s *Sink) split(stream []byte) ([][]byte, error) {
	if s.opts.AnnexB {
		return avc.ExtractNalusFromByteStream(stream), nil
	}
	nalus, err := avc.GetNalusFromSample(stream)
	if err != nil {
		return nil, fmt.Errorf("split length-prefixed stream: %w", err)
	}
	return nalus, nil
}

// toAVCC builds a length-prefixed sample, dropping units that belong in
// the sample description.
func toAVCC(nalus [][]byte) []byte {
	size := 0
	for _, nalu := range nalus {
		size += 4 + len(nalu)
	}
	out := make([]byte, 0, size)
	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS, avc.NALU_PPS, avc.NALU_AUD:
			continue
		}
		n := len(nalu)
		out = append(out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		out = append(out, nalu...)
	}
	return out
}

// Samples returns the number of frames buffered so far.
func (s *Sink) Samples() int { return len(s.samples) }

// Written returns the size of the muxed file after Close.
func (s *Sink) Written() int64 { return s.written }

// Close implements ports.StreamSink. It writes ftyp, moov and one
// moof+mdat fragment holding every sample. When muxing fails the file
// created by New is discarded.
func (s *Sink) Close() error {
	f := s.file
	s.file = nil

	data, err := s.build()
	if err == nil {
		var n int
		n, err = s.w.Write(data)
		s.written = int64(n)
		if err != nil {
			err = fmt.Errorf("write mp4: %w", err)
		}
	}
	if f == nil {
		return err
	}
	if err != nil {
		f.Discard()
		return err
	}
	return f.Close()
}

// Discard implements ports.DiscardableSink. Buffered samples are dropped.
func (s *Sink) Discard() error {
	s.samples = nil
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Discard()
}

func (s *Sink) build() ([]byte, error) {
	if len(s.samples) == 0 {
		return nil, ErrNoFrames
	}
	if len(s.sps) == 0 || len(s.pps) == 0 {
		return nil, ErrNoParameterSets
	}

	trackID := uint32(1)
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(s.opts.Timescale, "video", "en")
	trak := init.Moov.Trak

	avcC, err := mp4.CreateAvcC(s.sps, s.pps, true)
	if err != nil {
		return nil, fmt.Errorf("create avcC: %w", err)
	}
	avc1 := mp4.CreateVisualSampleEntryBox("avc1", uint16(s.opts.Width), uint16(s.opts.Height), avcC)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(avc1)
	trak.Tkhd.Width = mp4.Fixed32(s.opts.Width << 16)
	trak.Tkhd.Height = mp4.Fixed32(s.opts.Height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	// Decode times start at zero; early B-frame streams have negative dts.
	base := s.samples[0].dts
	scale := s.opts.TickScale
	for i, smp := range s.samples {
		dur := s.opts.FrameDuration
		if i < len(s.samples)-1 {
			dur = uint32((s.samples[i+1].dts - smp.dts) * scale)
		}
		flags := mp4.NonSyncSampleFlags
		if smp.keyframe {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags:                 flags,
				Size:                  uint32(len(smp.data)),
				Dur:                   dur,
				CompositionTimeOffset: int32((smp.pts - smp.dts) * scale),
			},
			DecodeTime: uint64((smp.dts - base) * scale),
			Data:       smp.data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}

var _ ports.DiscardableSink = (*Sink)(nil)
