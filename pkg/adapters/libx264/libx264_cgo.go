//go:build cgo && !nox264

package libx264

/*
#cgo pkg-config: x264
#include <stdint.h>
#include <stdlib.h>
#include <x264.h>

// x264_encoder_open is a macro carrying the ABI version.
static x264_t *open_encoder(x264_param_t *param) {
    return x264_encoder_open(param);
}

static void set_image(x264_picture_t *pic, int csp, int planes, int *strides, uint8_t **data) {
    pic->img.i_csp = csp;
    pic->img.i_plane = planes;
    for (int i = 0; i < 4; i++) {
        pic->img.i_stride[i] = strides[i];
        pic->img.plane[i] = data[i];
    }
}
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/user/x264go/pkg/ports"
)

// Version reports the X264_BUILD number the package was compiled against.
func Version() int { return int(C.X264_BUILD) }

// Engine implements ports.Engine on libx264.
type Engine struct{}

// New returns the libx264 engine.
func New() (*Engine, error) {
	return &Engine{}, nil
}

// DefaultParams implements ports.Engine.
func (e *Engine) DefaultParams() ports.ParamBlock {
	p := newParams()
	C.x264_param_default(p.c)
	return p
}

// PresetParams implements ports.Engine.
func (e *Engine) PresetParams(preset, tune string) (ports.ParamBlock, int32) {
	p := newParams()
	cpreset := C.CString(preset)
	defer C.free(unsafe.Pointer(cpreset))

	var ctune *C.char
	if tune != "" {
		ctune = C.CString(tune)
		defer C.free(unsafe.Pointer(ctune))
	}
	status := C.x264_param_default_preset(p.c, cpreset, ctune)
	return p, int32(status)
}

// Open implements ports.Engine. libx264 copies the parameter block.
func (e *Engine) Open(params ports.ParamBlock) ports.Handle {
	p, ok := params.(*Params)
	if !ok {
		return nil
	}
	h := C.open_encoder(p.c)
	runtime.KeepAlive(p)
	if h == nil {
		// A typed nil would not compare equal to nil in the caller.
		return nil
	}
	return &Handle{h: h}
}

// Params is an x264_param_t in C memory, freed when unreachable.
type Params struct {
	c *C.x264_param_t
}

func newParams() *Params {
	c := (*C.x264_param_t)(C.calloc(1, C.size_t(unsafe.Sizeof(C.x264_param_t{}))))
	p := &Params{c: c}
	runtime.AddCleanup(p, func(c *C.x264_param_t) { C.free(unsafe.Pointer(c)) }, c)
	return p
}

// ApplyFastFirstPass implements ports.ParamBlock.
func (p *Params) ApplyFastFirstPass() {
	C.x264_param_apply_fastfirstpass(p.c)
}

// ApplyProfile implements ports.ParamBlock.
func (p *Params) ApplyProfile(profile string) int32 {
	cprofile := C.CString(profile)
	defer C.free(unsafe.Pointer(cprofile))
	return int32(C.x264_param_apply_profile(p.c, cprofile))
}

// SetWidth implements ports.ParamBlock.
func (p *Params) SetWidth(width int32) {
	p.c.i_width = C.int(width)
}

// SetHeight implements ports.ParamBlock.
func (p *Params) SetHeight(height int32) {
	p.c.i_height = C.int(height)
}

// SetColorspace implements ports.ParamBlock.
func (p *Params) SetColorspace(csp int32) {
	p.c.i_csp = C.int(csp)
}

// SetBitrate sets the target bitrate. The rate-control method chosen by
// the preset is left alone.
func (p *Params) SetBitrate(kbps int32) {
	p.c.rc.i_bitrate = C.int(kbps)
}

// rateControl returns the rate-control method and target bitrate.
func (p *Params) rateControl() (method, kbps int) {
	return int(p.c.rc.i_rc_method), int(p.c.rc.i_bitrate)
}

func (p *Params) SetFPS(num, den uint32) {
	p.c.i_fps_num = C.uint32_t(num)
	p.c.i_fps_den = C.uint32_t(den)
}

func (p *Params) SetTimebase(num, den uint32) {
	p.c.i_timebase_num = C.uint32_t(num)
	p.c.i_timebase_den = C.uint32_t(den)
}

func (p *Params) SetAnnexB(annexb bool) {
	p.c.b_annexb = 0
	if annexb {
		p.c.b_annexb = 1
	}
}

// Handle implements ports.Handle on an open x264_t.
type Handle struct {
	h    *C.x264_t
	nals []ports.NAL
}

// Headers implements ports.Handle.
func (h *Handle) Headers() ([]ports.NAL, int32) {
	var nal *C.x264_nal_t
	var count C.int
	status := C.x264_encoder_headers(h.h, &nal, &count)
	if status < 0 {
		return nil, int32(status)
	}
	return h.wrap(nal, count), int32(status)
}

// Encode implements ports.Handle. A nil picture flushes delayed frames.
func (h *Handle) Encode(pic *ports.PictureIn) ([]ports.NAL, ports.PictureOut, int32) {
	var nal *C.x264_nal_t
	var count C.int
	var out C.x264_picture_t

	var status C.int
	if pic == nil {
		status = C.x264_encoder_encode(h.h, &nal, &count, nil, &out)
	} else {
		var in C.x264_picture_t
		C.x264_picture_init(&in)
		in.i_pts = C.int64_t(pic.PTS)

		var pinner runtime.Pinner
		defer pinner.Unpin()

		var strides [4]C.int
		var planes [4]*C.uint8_t
		for i := 0; i < 4; i++ {
			strides[i] = C.int(pic.Image.Strides[i])
			if len(pic.Image.Planes[i]) > 0 {
				p := &pic.Image.Planes[i][0]
				pinner.Pin(p)
				planes[i] = (*C.uint8_t)(unsafe.Pointer(p))
			}
		}
		C.set_image(&in, C.int(pic.Image.Colorspace), C.int(pic.Image.PlaneCount), &strides[0], &planes[0])
		status = C.x264_encoder_encode(h.h, &nal, &count, &in, &out)
	}
	if status < 0 {
		return nil, ports.PictureOut{}, int32(status)
	}

	picOut := ports.PictureOut{
		Keyframe: out.b_keyframe != 0,
		PTS:      int64(out.i_pts),
		DTS:      int64(out.i_dts),
	}
	return h.wrap(nal, count), picOut, int32(status)
}

// wrap exposes the engine's NAL array without copying payloads.
func (h *Handle) wrap(nal *C.x264_nal_t, count C.int) []ports.NAL {
	h.nals = h.nals[:0]
	if count == 0 || nal == nil {
		return h.nals
	}
	for _, n := range unsafe.Slice(nal, int(count)) {
		h.nals = append(h.nals, ports.NAL{
			RefIdc:  int32(n.i_ref_idc),
			Type:    int32(n.i_type),
			Payload: unsafe.Slice((*byte)(unsafe.Pointer(n.p_payload)), int(n.i_payload)),
		})
	}
	return h.nals
}

// DelayedFrames implements ports.Handle.
func (h *Handle) DelayedFrames() int {
	return int(C.x264_encoder_delayed_frames(h.h))
}

// Close implements ports.Handle.
func (h *Handle) Close() {
	C.x264_encoder_close(h.h)
	h.h = nil
	h.nals = nil
}

var (
	_ ports.Engine     = (*Engine)(nil)
	_ ports.ParamBlock = (*Params)(nil)
	_ ports.Handle     = (*Handle)(nil)
)
