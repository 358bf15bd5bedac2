package ports

// NAL is one network abstraction layer unit as returned by the engine.
// Payload aliases engine-owned memory and is only valid until the next
// call into the Handle that produced it.
type NAL struct {
	RefIdc  int32  // NAL_PRIORITY_* code
	Type    int32  // nal_unit_type
	Payload []byte // framed payload (start code or 4-byte size prefix)
}

// NAL priority codes reported by the engine in NAL.RefIdc.
const (
	NALPriorityDisposable int32 = iota
	NALPriorityLow
	NALPriorityHigh
	NALPriorityHighest
)

// ImagePlanes describes caller-owned pixel memory handed to the engine
// without copying.
type ImagePlanes struct {
	Colorspace int32
	PlaneCount int32
	Strides    [4]int32
	Planes     [4][]byte
}

// PictureIn is the per-frame input descriptor.
type PictureIn struct {
	PTS   int64
	Image ImagePlanes
}

// PictureOut carries the engine's output picture fields.
type PictureOut struct {
	Keyframe bool
	PTS      int64
	DTS      int64
}

// Engine is the function surface of the external encoder.
// Implementations wrap a native library or simulate one.
type Engine interface {
	// DefaultParams returns a parameter block filled with engine defaults.
	DefaultParams() ParamBlock

	// PresetParams returns a parameter block with the named preset and
	// tune applied. A negative status means the engine rejected a name.
	PresetParams(preset, tune string) (ParamBlock, int32)

	// Open creates an encoder handle. It returns nil when the engine
	// refuses the parameter block.
	Open(params ParamBlock) Handle
}

// ParamBlock is the engine's native parameter block under construction.
// Setters assign fields directly; the engine is the only validator.
type ParamBlock interface {
	ApplyFastFirstPass()
	ApplyProfile(profile string) int32

	SetWidth(width int32)
	SetHeight(height int32)
	SetFPS(num, den uint32)
	SetTimebase(num, den uint32)
	SetAnnexB(annexb bool)
	SetBitrate(kbps int32)
	SetColorspace(csp int32)
}

// Handle is an open encoder. It is not safe for concurrent use.
type Handle interface {
	// Encode submits pic, or requests delayed output when pic is nil.
	// Returned NAL payloads are valid until the next call on the handle.
	Encode(pic *PictureIn) ([]NAL, PictureOut, int32)

	// Headers returns the stream's parameter set units.
	Headers() ([]NAL, int32)

	// DelayedFrames returns the number of frames buffered inside the engine.
	DelayedFrames() int

	// Close releases the native encoder.
	Close()
}
