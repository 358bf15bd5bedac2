package x264

import "github.com/user/x264go/pkg/ports"

// Picture describes one frame emitted by the encoder, in decode order.
// It is a copy and stays valid after later encoder calls.
type Picture struct {
	keyframe bool
	pts      int64
	dts      int64
}

func pictureFrom(out ports.PictureOut) Picture {
	return Picture{keyframe: out.Keyframe, pts: out.PTS, dts: out.DTS}
}

// Keyframe reports whether the picture decodes without earlier frames.
func (p Picture) Keyframe() bool { return p.keyframe }

// PTS returns the presentation timestamp given to Encode.
func (p Picture) PTS() int64 { return p.pts }

// DTS returns the decode timestamp. The first few may be negative when
// B-frames are used; muxers have to offset them.
func (p Picture) DTS() int64 { return p.dts }
