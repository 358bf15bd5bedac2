// Package mocks provides mock implementations for testing.
package mocks

import "github.com/user/x264go/pkg/ports"

// Engine is a mock implementation of ports.Engine. Without funcs set it
// hands out Params and opens Handle.
type Engine struct {
	DefaultParamsFunc func() ports.ParamBlock
	PresetParamsFunc  func(preset, tune string) (ports.ParamBlock, int32)
	OpenFunc          func(params ports.ParamBlock) ports.Handle

	Params *ParamBlock
	Handle *Handle

	// Recorded calls for verification
	PresetCalls []PresetCall
	OpenCalls   int
}

// PresetCall records a call to PresetParams.
type PresetCall struct {
	Preset string
	Tune   string
}

// NewEngine creates a mock Engine with a fresh ParamBlock and Handle.
func NewEngine() *Engine {
	return &Engine{Params: &ParamBlock{}, Handle: &Handle{}}
}

func (m *Engine) DefaultParams() ports.ParamBlock {
	if m.DefaultParamsFunc != nil {
		return m.DefaultParamsFunc()
	}
	return m.Params
}

func (m *Engine) PresetParams(preset, tune string) (ports.ParamBlock, int32) {
	m.PresetCalls = append(m.PresetCalls, PresetCall{Preset: preset, Tune: tune})
	if m.PresetParamsFunc != nil {
		return m.PresetParamsFunc(preset, tune)
	}
	return m.Params, 0
}

func (m *Engine) Open(params ports.ParamBlock) ports.Handle {
	m.OpenCalls++
	if m.OpenFunc != nil {
		return m.OpenFunc(params)
	}
	if m.Handle == nil {
		return nil
	}
	return m.Handle
}

// ParamBlock is a mock implementation of ports.ParamBlock that records
// every value written to it.
type ParamBlock struct {
	ApplyProfileFunc func(profile string) int32

	FastFirstPass bool
	Profiles      []string
	Width         int32
	Height        int32
	FPSNum        uint32
	FPSDen        uint32
	TimebaseNum   uint32
	TimebaseDen   uint32
	AnnexB        bool
	BitrateKbps   int32
	Colorspace    int32
}

func (m *ParamBlock) ApplyFastFirstPass() {
	m.FastFirstPass = true
}

func (m *ParamBlock) ApplyProfile(profile string) int32 {
	m.Profiles = append(m.Profiles, profile)
	if m.ApplyProfileFunc != nil {
		return m.ApplyProfileFunc(profile)
	}
	return 0
}

func (m *ParamBlock) SetWidth(width int32) {
	m.Width = width
}

func (m *ParamBlock) SetHeight(height int32) {
	m.Height = height
}

func (m *ParamBlock) SetFPS(num, den uint32) {
	m.FPSNum, m.FPSDen = num, den
}

func (m *ParamBlock) SetTimebase(num, den uint32) {
	m.TimebaseNum, m.TimebaseDen = num, den
}

func (m *ParamBlock) SetAnnexB(annexb bool) {
	m.AnnexB = annexb
}

func (m *ParamBlock) SetBitrate(kbps int32) {
	m.BitrateKbps = kbps
}

func (m *ParamBlock) SetColorspace(csp int32) {
	m.Colorspace = csp
}

// Handle is a mock implementation of ports.Handle. Without funcs set,
// Encode and Headers return no units and status 0.
type Handle struct {
	EncodeFunc        func(pic *ports.PictureIn) ([]ports.NAL, ports.PictureOut, int32)
	HeadersFunc       func() ([]ports.NAL, int32)
	DelayedFramesFunc func() int

	// Recorded calls for verification
	EncodeCalls  []EncodeCall
	HeadersCalls int
	CloseCalls   int
}

// EncodeCall records a call to Encode. Flush is set for a nil picture.
type EncodeCall struct {
	Flush bool
	PTS   int64
	Image ports.ImagePlanes
}

func (m *Handle) Encode(pic *ports.PictureIn) ([]ports.NAL, ports.PictureOut, int32) {
	call := EncodeCall{Flush: pic == nil}
	if pic != nil {
		call.PTS = pic.PTS
		call.Image = pic.Image
	}
	m.EncodeCalls = append(m.EncodeCalls, call)
	if m.EncodeFunc != nil {
		return m.EncodeFunc(pic)
	}
	return nil, ports.PictureOut{}, 0
}

func (m *Handle) Headers() ([]ports.NAL, int32) {
	m.HeadersCalls++
	if m.HeadersFunc != nil {
		return m.HeadersFunc()
	}
	return nil, 0
}

func (m *Handle) DelayedFrames() int {
	if m.DelayedFramesFunc != nil {
		return m.DelayedFramesFunc()
	}
	return 0
}

func (m *Handle) Close() {
	m.CloseCalls++
}

var (
	_ ports.Engine     = (*Engine)(nil)
	_ ports.ParamBlock = (*ParamBlock)(nil)
	_ ports.Handle     = (*Handle)(nil)
)
