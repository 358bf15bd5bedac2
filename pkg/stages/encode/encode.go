// Package encode implements the video encoding stage.
package encode

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/x264go/pkg/framing"
	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
	"github.com/user/x264go/pkg/x264"
)

// ErrDrainStalled is returned when Work stops making progress while the
// encoder still reports delayed frames.
var ErrDrainStalled = errors.New("encode: encoder stopped draining delayed frames")

// maxIdleDrains is how many consecutive empty Work calls are tolerated.
const maxIdleDrains = 16

// Stage encodes source frames through one encoder session into a sink.
// The encoder stays owned by the caller; the sink is closed by Execute.
type Stage[F x264.PackedFormat] struct {
	encoder *x264.Encoder[F]
	packer  *framing.Packer[F]
	sink    ports.StreamSink
	logger  ports.Logger
}

// NewStage creates a new encode stage. Frames are scaled to width x height.
func NewStage[F x264.PackedFormat](encoder *x264.Encoder[F], width, height int, sink ports.StreamSink, logger ports.Logger) *Stage[F] {
	return &Stage[F]{
		encoder: encoder,
		packer:  framing.NewPacker[F](width, height),
		sink:    sink,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute writes the headers, every frame, and the drained tail of the
// stream to the sink, then closes it. On failure a sink that supports it
// is discarded instead, so no truncated output is left behind.
func (s *Stage[F]) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result, err := s.run(ctx, input)
	if err != nil {
		if d, ok := s.sink.(ports.DiscardableSink); ok {
			if derr := d.Discard(); derr != nil {
				s.logger.Warn("Failed to discard output: %s", derr)
			}
			return result, err
		}
	}
	if cerr := s.sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close sink: %w", cerr)
	}
	if err != nil {
		return result, err
	}
	s.logger.Info("Encoded %d frames (%d keyframes, %d bytes)", result.FramesOut, result.Keyframes, result.Bytes)
	return result, nil
}

func (s *Stage[F]) run(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	headers, err := s.encoder.Headers()
	if err != nil {
		return result, fmt.Errorf("headers: %w", err)
	}
	stream := headers.Entirety()
	if err := s.sink.WriteHeaders(stream); err != nil {
		return result, fmt.Errorf("write headers: %w", err)
	}
	result.HeaderBytes = int64(len(stream))
	result.Bytes = result.HeaderBytes

	for frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		img := s.packer.Pack(frame.Image)
		data, pic, err := s.encoder.Encode(frame.PTS, img)
		if err != nil {
			return result, fmt.Errorf("encode frame pts=%d: %w", frame.PTS, err)
		}
		result.FramesIn++
		if err := s.emit(&result, data, pic); err != nil {
			return result, err
		}
	}

	s.logger.Debug("Draining %d delayed frames", s.encoder.DelayedFrames())
	idle := 0
	for !s.encoder.Done() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		data, pic, err := s.encoder.Work()
		if err != nil {
			return result, fmt.Errorf("drain: %w", err)
		}
		result.DrainedCalls++
		if data.Len() == 0 {
			idle++
			if idle >= maxIdleDrains {
				return result, ErrDrainStalled
			}
			continue
		}
		idle = 0
		if err := s.emit(&result, data, pic); err != nil {
			return result, err
		}
	}
	return result, nil
}

// emit hands one encoder result to the sink. Empty results are normal
// while the encoder fills its lookahead.
func (s *Stage[F]) emit(result *pipeline.EncodeResult, data x264.Data, pic x264.Picture) error {
	if data.Len() == 0 {
		return nil
	}
	stream := data.Entirety()
	info := ports.FrameInfo{Keyframe: pic.Keyframe(), PTS: pic.PTS(), DTS: pic.DTS()}
	if err := s.sink.WriteFrame(stream, info); err != nil {
		return fmt.Errorf("write frame pts=%d: %w", info.PTS, err)
	}
	result.FramesOut++
	result.Bytes += int64(len(stream))
	if info.Keyframe {
		result.Keyframes++
	}
	return nil
}

var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage[x264.BGRA])(nil)
