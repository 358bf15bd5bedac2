// Package framing turns arbitrary images into encoder input buffers.
package framing

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/user/x264go/pkg/x264"
)

// Packer converts images to the packed layout F at a fixed size. It owns
// one output buffer, so each Pack overwrites the previous result.
type Packer[F x264.PackedFormat] struct {
	width   int
	height  int
	scratch *image.RGBA
	out     *x264.Chunky[F]
}

// NewPacker creates a packer producing width x height images.
func NewPacker[F x264.PackedFormat](width, height int) *Packer[F] {
	return &Packer[F]{
		width:   width,
		height:  height,
		scratch: image.NewRGBA(image.Rect(0, 0, width, height)),
		out:     x264.NewChunky[F](width, height),
	}
}

// Pack scales img to the packer size when needed and converts it to F.
// The result is valid until the next Pack.
func (p *Packer[F]) Pack(img image.Image) *x264.Chunky[F] {
	src := p.rgba(img)
	swizzle(p.out, src)
	return p.out
}

// rgba returns img as an RGBA image of the packer size.
func (p *Packer[F]) rgba(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && b.Dx() == p.width && b.Dy() == p.height {
		return rgba
	}
	if b.Dx() == p.width && b.Dy() == p.height {
		draw.Draw(p.scratch, p.scratch.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(p.scratch, p.scratch.Bounds(), img, b, draw.Src, nil)
	}
	return p.scratch
}

// swizzle reorders RGBA bytes into the channel order of F.
func swizzle[F x264.PackedFormat](dst *x264.Chunky[F], src *image.RGBA) {
	var f F
	bpp := f.BytesPerPixel()
	var order [3]int // source channel for each destination byte
	switch any(f).(type) {
	case x264.BGRA, x264.BGR:
		order = [3]int{2, 1, 0}
	default:
		order = [3]int{0, 1, 2}
	}

	pix := dst.Pix()
	w, h := dst.Width(), dst.Height()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := pix[y*w*bpp : (y+1)*w*bpp]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			d := out[x*bpp : x*bpp+bpp]
			d[0], d[1], d[2] = s[order[0]], s[order[1]], s[order[2]]
			if bpp == 4 {
				d[3] = s[3]
			}
		}
	}
}
