// Package pipeline holds the types passed between the frame sources, the
// encode stage and the orchestrator.
package pipeline

import (
	"context"
	"image"
	"iter"
)

// Stage is one step of an encoding run. The orchestrator depends on this
// rather than on the concrete encode stage so tests can substitute it.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// =============================================================================
// Source Types
// =============================================================================

// Frame is one source picture with its presentation timestamp in encoder
// timebase units.
type Frame struct {
	Image image.Image
	PTS   int64
}

// FadeInput contains parameters for the fade demo source.
type FadeInput struct {
	Width  int
	Height int
	Frames int  // Number of frames (default: 255)
	Label  bool // Draw frame counter and progress bar
}

// DefaultFadeInput returns the plain 255-frame fade at 1280x720.
func DefaultFadeInput() FadeInput {
	return FadeInput{
		Width:  1280,
		Height: 720,
		Frames: 255,
	}
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains the frames for one encoding session.
type EncodeInput struct {
	Frames iter.Seq[Frame]
}

// EncodeResult summarizes an encoding session.
type EncodeResult struct {
	FramesIn     int   // Frames submitted to the encoder
	FramesOut    int   // Pictures emitted by the encoder
	Keyframes    int   // Emitted pictures marked as keyframes
	HeaderBytes  int64 // Bytes of SPS/PPS/SEI written before the first frame
	Bytes        int64 // Total bytes handed to the sink, headers included
	DrainedCalls int   // Work calls needed to flush delayed frames
}
