package mp4sink

import "errors"

var (
	// ErrNoFrames is returned by Close when no frame was written.
	ErrNoFrames = errors.New("mp4sink: no frames to mux")

	// ErrNoParameterSets is returned when the headers lack an SPS or PPS.
	ErrNoParameterSets = errors.New("mp4sink: SPS or PPS missing from headers")
)
