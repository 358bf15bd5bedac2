package x264

// Engine colorspace tags (X264_CSP_*) for the supported packed layouts.
const (
	cspBGR  int32 = 0x000d
	cspBGRA int32 = 0x000e
	cspRGB  int32 = 0x000f
)

// Format describes a pixel layout the engine accepts as input.
//
// Implementations are pixel types whose zero value answers for the whole
// layout; the pairing between a pixel type and its colorspace is fixed at
// compile time and never validated at runtime.
//
// Only single-plane packed layouts are supported. A planar format such as
// I420 needs per-plane stride and plane logic in its Image implementation,
// not just a new Format.
type Format interface {
	// Colorspace returns the engine's X264_CSP_* tag.
	Colorspace() int32
	// PlaneCount returns the number of memory planes.
	PlaneCount() int32
}

// PackedFormat is a single-plane Format with a fixed pixel size.
type PackedFormat interface {
	Format
	// BytesPerPixel returns the size of one pixel in bytes.
	BytesPerPixel() int
}

// BGRA is a packed 32-bit pixel in blue, green, red, alpha order.
type BGRA struct{ B, G, R, A uint8 }

func (BGRA) Colorspace() int32  { return cspBGRA }
func (BGRA) PlaneCount() int32  { return 1 }
func (BGRA) BytesPerPixel() int { return 4 }

// RGB is a packed 24-bit pixel in red, green, blue order.
type RGB struct{ R, G, B uint8 }

func (RGB) Colorspace() int32  { return cspRGB }
func (RGB) PlaneCount() int32  { return 1 }
func (RGB) BytesPerPixel() int { return 3 }

// BGR is a packed 24-bit pixel in blue, green, red order.
type BGR struct{ B, G, R uint8 }

func (BGR) Colorspace() int32  { return cspBGR }
func (BGR) PlaneCount() int32  { return 1 }
func (BGR) BytesPerPixel() int { return 3 }

var (
	_ PackedFormat = BGRA{}
	_ PackedFormat = RGB{}
	_ PackedFormat = BGR{}
)
