package x264

import (
	"fmt"

	"github.com/user/x264go/pkg/ports"
)

// Image is a caller-owned frame buffer that can be handed to the engine
// without copying. The type parameter binds the image to one Format, so an
// Encoder[F] only accepts images of its own layout.
//
// Contract for single-plane formats: Strides()[0] is bytes per pixel times
// width, and Planes()[0] holds at least Strides()[0]*height bytes for the
// duration of the Encode call. Unused planes have stride 0 and a nil slice.
// The encoder does not check buffer sizes; an undersized plane is undefined
// behaviour inside the engine.
type Image[F Format] interface {
	Format() F
	Strides() [4]int32
	Planes() [4][]byte
}

// Chunky is a single-plane packed image, stored row by row with no padding.
type Chunky[F PackedFormat] struct {
	width  int
	height int
	pix    []byte
}

// NewChunky allocates a zeroed width x height image.
func NewChunky[F PackedFormat](width, height int) *Chunky[F] {
	var f F
	return &Chunky[F]{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*f.BytesPerPixel()),
	}
}

// WrapChunky uses pix as the backing store of a width x height image.
func WrapChunky[F PackedFormat](width, height int, pix []byte) (*Chunky[F], error) {
	var f F
	if need := width * height * f.BytesPerPixel(); len(pix) < need {
		return nil, fmt.Errorf("x264: buffer holds %d bytes, %dx%d image needs %d", len(pix), width, height, need)
	}
	return &Chunky[F]{width: width, height: height, pix: pix}, nil
}

// Width returns the image width in pixels.
func (c *Chunky[F]) Width() int { return c.width }

// Height returns the image height in pixels.
func (c *Chunky[F]) Height() int { return c.height }

// Stride returns the number of bytes per row.
func (c *Chunky[F]) Stride() int {
	var f F
	return c.width * f.BytesPerPixel()
}

// Pix returns the backing pixel bytes.
func (c *Chunky[F]) Pix() []byte { return c.pix }

// Format implements Image.
func (c *Chunky[F]) Format() F {
	var f F
	return f
}

// Strides implements Image.
func (c *Chunky[F]) Strides() [4]int32 {
	return [4]int32{int32(c.Stride()), 0, 0, 0}
}

// Planes implements Image.
func (c *Chunky[F]) Planes() [4][]byte {
	return [4][]byte{c.pix, nil, nil, nil}
}

// describe builds the transient engine descriptor for img.
func describe[F Format](img Image[F]) ports.ImagePlanes {
	f := img.Format()
	return ports.ImagePlanes{
		Colorspace: f.Colorspace(),
		PlaneCount: f.PlaneCount(),
		Strides:    img.Strides(),
		Planes:     img.Planes(),
	}
}
