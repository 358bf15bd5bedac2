package simengine

import (
	"strings"

	"github.com/user/x264go/pkg/ports"
)

// Colorspace tags understood by the simulated engine.
const (
	CspI420 int32 = 0x0002
	CspBGR  int32 = 0x000d
	CspBGRA int32 = 0x000e
	CspRGB  int32 = 0x000f
)

// Params is the simulated engine's parameter block. Fields are exported so
// tests can inspect what presets, tunes and profiles did.
type Params struct {
	Width       int32
	Height      int32
	Colorspace  int32
	FPSNum      uint32
	FPSDen      uint32
	TimebaseNum uint32
	TimebaseDen uint32
	AnnexB      bool
	BitrateKbps int32

	BFrames       int
	Lookahead     int
	KeyintMax     int
	RefFrames     int
	CABAC         bool
	FastFirstPass bool
	Profile       string
	PsyTune       string
}

func defaultParams() *Params {
	return &Params{
		Colorspace: CspI420,
		FPSNum:     25,
		FPSDen:     1,
		AnnexB:     true,
		BFrames:    3,
		Lookahead:  40,
		KeyintMax:  250,
		RefFrames:  3,
		CABAC:      true,
	}
}

// applyPreset mirrors the shape of x264's preset table: faster presets
// shorten lookahead and drop B-frames.
func (p *Params) applyPreset(name string) bool {
	switch name {
	case "ultrafast":
		p.BFrames, p.Lookahead, p.RefFrames, p.CABAC = 0, 0, 1, false
	case "superfast":
		p.Lookahead, p.RefFrames = 0, 1
	case "veryfast":
		p.Lookahead, p.RefFrames = 10, 1
	case "faster":
		p.Lookahead, p.RefFrames = 20, 2
	case "fast":
		p.Lookahead, p.RefFrames = 30, 2
	case "medium":
	case "slow":
		p.Lookahead, p.RefFrames = 50, 5
	case "slower":
		p.Lookahead, p.RefFrames = 60, 8
	case "veryslow":
		p.BFrames, p.Lookahead, p.RefFrames = 8, 60, 16
	case "placebo":
		p.BFrames, p.Lookahead, p.RefFrames = 16, 60, 16
	default:
		return false
	}
	return true
}

// applyTune accepts a comma separated list with at most one psy tune.
func (p *Params) applyTune(tune string) bool {
	if tune == "" {
		return true
	}
	for _, t := range strings.Split(tune, ",") {
		switch t {
		case "fastdecode":
			p.CABAC = false
		case "zerolatency":
			p.BFrames, p.Lookahead = 0, 0
		case "film", "animation", "grain", "stillimage", "psnr", "ssim":
			if p.PsyTune != "" {
				return false
			}
			p.PsyTune = t
			if t == "animation" && p.BFrames > 0 {
				p.BFrames += 2
			}
		default:
			return false
		}
	}
	return true
}

// ApplyFastFirstPass implements ports.ParamBlock.
func (p *Params) ApplyFastFirstPass() {
	p.FastFirstPass = true
	p.RefFrames = 1
}

// ApplyProfile implements ports.ParamBlock.
func (p *Params) ApplyProfile(profile string) int32 {
	switch profile {
	case "baseline":
		p.BFrames = 0
		p.CABAC = false
	case "main", "high":
	default:
		return -1
	}
	p.Profile = profile
	return 0
}

func (p *Params) SetWidth(width int32)        { p.Width = width }
func (p *Params) SetHeight(height int32)      { p.Height = height }
func (p *Params) SetFPS(num, den uint32)      { p.FPSNum, p.FPSDen = num, den }
func (p *Params) SetTimebase(num, den uint32) { p.TimebaseNum, p.TimebaseDen = num, den }
func (p *Params) SetAnnexB(annexb bool)       { p.AnnexB = annexb }
func (p *Params) SetBitrate(kbps int32)       { p.BitrateKbps = kbps }
func (p *Params) SetColorspace(csp int32)     { p.Colorspace = csp }

// delay is how many frames the engine holds before emitting the first one.
func (p *Params) delay() int {
	if p.Lookahead > p.BFrames {
		return p.Lookahead
	}
	return p.BFrames
}

// validate reports whether x264 would open with these parameters.
func (p *Params) validate() bool {
	if p.Width <= 0 || p.Height <= 0 || p.FPSNum == 0 || p.FPSDen == 0 {
		return false
	}
	if bytesPerPixel(p.Colorspace) == 0 {
		return false
	}
	// The 4:2:0 profiles need even dimensions.
	if p.Profile != "" && (p.Width%2 != 0 || p.Height%2 != 0) {
		return false
	}
	return p.KeyintMax > 0
}

func bytesPerPixel(csp int32) int {
	switch csp {
	case CspBGRA:
		return 4
	case CspBGR, CspRGB:
		return 3
	case CspI420:
		return 1
	default:
		return 0
	}
}

var _ ports.ParamBlock = (*Params)(nil)
