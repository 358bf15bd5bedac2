// Package summarizer provides summary generation for encoding sessions.
package summarizer

import (
	"time"

	"github.com/user/x264go/pkg/pipeline"
)

// Summary contains all data collected during an encoding session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Encoder configuration
	Settings Settings

	// What the encode stage reported
	Result ResultInfo

	// What was found in the written file
	Output OutputInfo
}

// Settings contains the encoder configuration.
type Settings struct {
	Engine      string
	Preset      string
	Tune        string
	FastDecode  bool
	ZeroLatency bool
	Profile     string // empty means the preset's profile
	Format      string

	Width       int
	Height      int
	FPSNum      uint32
	FPSDen      uint32
	TimebaseNum uint32 // zero means one unit per frame
	TimebaseDen uint32
	BitrateKbps int // zero means the preset's rate control
	AnnexB      bool
}

// ResultInfo contains the encoding results.
type ResultInfo struct {
	FramesIn     int
	FramesOut    int
	Keyframes    int
	HeaderBytes  int64
	StreamBytes  int64
	DrainedCalls int
	ElapsedMs    int
}

// OutputInfo describes the output file. Path is empty when nothing was
// written.
type OutputInfo struct {
	Path      string
	Container string
	FileSize  int64
	Codec     string
	Width     int
	Height    int
	Frames    int
	Keyframes int
}

// DurationSec returns the playback duration of the emitted frames.
func (s *Summary) DurationSec() float64 {
	if s.Settings.FPSNum == 0 {
		return 0
	}
	return float64(s.Result.FramesOut) * float64(s.Settings.FPSDen) / float64(s.Settings.FPSNum)
}

// AverageKbps returns the stream bitrate over the playback duration.
func (s *Summary) AverageKbps() float64 {
	d := s.DurationSec()
	if d == 0 {
		return 0
	}
	return float64(s.Result.StreamBytes) * 8 / d / 1000
}

// EncodeFPS returns how many frames were encoded per second of wall time.
func (s *Summary) EncodeFPS() float64 {
	if s.Result.ElapsedMs <= 0 {
		return 0
	}
	return float64(s.Result.FramesOut) * 1000 / float64(s.Result.ElapsedMs)
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSettings sets the encoder configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithResult sets the encode stage result and the wall time it took.
func (b *Builder) WithResult(result pipeline.EncodeResult, elapsed time.Duration) *Builder {
	b.summary.Result = ResultInfo{
		FramesIn:     result.FramesIn,
		FramesOut:    result.FramesOut,
		Keyframes:    result.Keyframes,
		HeaderBytes:  result.HeaderBytes,
		StreamBytes:  result.Bytes,
		DrainedCalls: result.DrainedCalls,
		ElapsedMs:    int(elapsed.Milliseconds()),
	}
	return b
}

// WithOutput sets output file information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
