package framing

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/x264go/pkg/x264"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPackChannelOrder(t *testing.T) {
	src := solid(4, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	bgra := NewPacker[x264.BGRA](4, 2).Pack(src).Pix()
	if got := bgra[:4]; got[0] != 30 || got[1] != 20 || got[2] != 10 || got[3] != 255 {
		t.Errorf("BGRA pixel = %v", got)
	}

	rgb := NewPacker[x264.RGB](4, 2).Pack(src).Pix()
	if got := rgb[:3]; got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("RGB pixel = %v", got)
	}

	bgr := NewPacker[x264.BGR](4, 2).Pack(src).Pix()
	if got := bgr[:3]; got[0] != 30 || got[1] != 20 || got[2] != 10 {
		t.Errorf("BGR pixel = %v", got)
	}
	if len(bgr) != 4*2*3 {
		t.Errorf("BGR buffer = %d bytes, want 24", len(bgr))
	}
}

func TestPackScales(t *testing.T) {
	src := solid(64, 32, color.NRGBA{G: 200, A: 255})
	p := NewPacker[x264.BGRA](16, 8)
	out := p.Pack(src)

	if out.Width() != 16 || out.Height() != 8 {
		t.Fatalf("size = %dx%d", out.Width(), out.Height())
	}
	pix := out.Pix()
	last := pix[len(pix)-4:]
	if last[1] != 200 || last[0] != 0 || last[2] != 0 {
		t.Errorf("last pixel = %v, want green", last)
	}
}

func TestPackReusesBuffer(t *testing.T) {
	p := NewPacker[x264.RGB](2, 2)
	a := p.Pack(solid(2, 2, color.White))
	b := p.Pack(solid(2, 2, color.Black))
	if a != b {
		t.Error("Pack allocated a new image")
	}
	if b.Pix()[0] != 0 {
		t.Errorf("second Pack did not overwrite, first byte = %d", b.Pix()[0])
	}
}

func TestPackOffsetBounds(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 8, 8))
	base.Set(5, 5, color.RGBA{R: 255, A: 255})
	sub := base.SubImage(image.Rect(4, 4, 8, 8))

	out := NewPacker[x264.RGB](4, 4).Pack(sub).Pix()
	// (5,5) in base is (1,1) in the sub-image.
	if i := (1*4 + 1) * 3; out[i] != 255 {
		t.Errorf("pixel (1,1) red = %d, want 255", out[i])
	}
}
