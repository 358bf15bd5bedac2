// Package ggrenderer renders synthetic source frames with the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"iter"

	"github.com/fogleman/gg"

	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
)

// FadeSource draws a black-to-green fade, one shade step per frame, with
// an optional frame counter and progress bar.
type FadeSource struct {
	input pipeline.FadeInput
}

// NewFade creates a fade source.
func NewFade(input pipeline.FadeInput) *FadeSource {
	return &FadeSource{input: input}
}

// Len returns the number of frames the source yields.
func (s *FadeSource) Len() int { return s.input.Frames }

// Frames yields the fade. Every yielded image shares one canvas, so a
// frame must be consumed before asking for the next.
func (s *FadeSource) Frames() iter.Seq[pipeline.Frame] {
	return func(yield func(pipeline.Frame) bool) {
		in := s.input
		dc := gg.NewContext(in.Width, in.Height)
		for i := 0; i < in.Frames; i++ {
			dc.SetRGB255(0, shade(i, in.Frames), 0)
			dc.Clear()
			if in.Label {
				drawLabel(dc, i, in.Frames)
			}
			if !yield(pipeline.Frame{Image: dc.Image(), PTS: int64(i)}) {
				return
			}
		}
	}
}

// shade maps frame i of n to a channel value. Up to 256 frames step by one
// so the default 255-frame fade matches a plain counter.
func shade(i, n int) int {
	if n <= 256 {
		return i & 0xff
	}
	return i * 255 / (n - 1)
}

func drawLabel(dc *gg.Context, i, n int) {
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%d / %d", i+1, n), w/2, h/2, 0.5, 0.5)

	barH := h / 40
	if barH < 2 {
		barH = 2
	}
	dc.SetRGBA255(255, 255, 255, 64)
	dc.DrawRectangle(0, h-barH, w, barH)
	dc.Fill()
	dc.SetRGBA255(255, 255, 255, 200)
	dc.DrawRectangle(0, h-barH, w*float64(i+1)/float64(n), barH)
	dc.Fill()
}

// StillSource repeats one decoded image.
type StillSource struct {
	img    image.Image
	frames int
}

// LoadStill reads a PNG, JPEG, BMP, TIFF or WebP image through fs.
func LoadStill(fs ports.FileSystem, path string, frames int) (*StillSource, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return &StillSource{img: img, frames: frames}, nil
}

// Bounds returns the size of the still image.
func (s *StillSource) Bounds() image.Rectangle { return s.img.Bounds() }

// Len returns the number of frames the source yields.
func (s *StillSource) Len() int { return s.frames }

// Frames yields the image frames times with increasing timestamps.
func (s *StillSource) Frames() iter.Seq[pipeline.Frame] {
	return func(yield func(pipeline.Frame) bool) {
		for i := 0; i < s.frames; i++ {
			if !yield(pipeline.Frame{Image: s.img, PTS: int64(i)}) {
				return
			}
		}
	}
}
