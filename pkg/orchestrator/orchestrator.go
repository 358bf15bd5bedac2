// Package orchestrator coordinates one encoding session: it feeds a frame
// source through the encode stage and inspects what was written.
package orchestrator

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/user/x264go/pkg/adapters/codecdetect"
	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
)

// Source yields the frames of one session.
type Source interface {
	Len() int
	Frames() iter.Seq[pipeline.Frame]
}

// Config contains the timing and output settings of a session.
type Config struct {
	// Timing
	FPSNum      uint32
	FPSDen      uint32
	TimebaseNum uint32 // zero means one unit per frame
	TimebaseDen uint32

	// Output written by the encode stage's sink; empty when nothing is
	// written to a file.
	OutputPath string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FPSNum: 60,
		FPSDen: 1,
	}
}

// RunResult describes a finished session.
type RunResult struct {
	Encode  pipeline.EncodeResult
	Elapsed time.Duration

	// Output is nil when no file was written or it could not be probed.
	Output     *codecdetect.Info
	OutputSize int64
}

// Orchestrator coordinates the execution of a session.
type Orchestrator struct {
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	source      Source
	fs          ports.FileSystem
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	source Source,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		encodeStage: encodeStage,
		source:      source,
		fs:          fs,
		logger:      logger,
	}
}

// Run encodes every frame of the source, then probes the output file.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	step := pipeline.TicksPerFrame(config.FPSNum, config.FPSDen, config.TimebaseNum, config.TimebaseDen)
	input := pipeline.EncodeInput{Frames: pipeline.Retime(o.source.Frames(), step)}

	start := time.Now()
	encoded, err := o.encodeStage.Execute(ctx, input)
	if err != nil {
		o.logger.Error("Failed to encode video: %s", err)
		return RunResult{}, fmt.Errorf("encode stage: %w", err)
	}
	result := RunResult{Encode: encoded, Elapsed: time.Since(start)}

	if config.OutputPath == "" {
		return result, nil
	}
	o.logger.Info("Output saved to %s", config.OutputPath)

	data, err := o.fs.ReadFile(config.OutputPath)
	if err != nil {
		o.logger.Warn("Failed to inspect output: %s", err)
		return result, nil
	}
	result.OutputSize = int64(len(data))
	info, err := codecdetect.DetectFromBytes(data)
	if err != nil {
		o.logger.Warn("Failed to inspect output: %s", err)
		return result, nil
	}
	o.logger.Debug("Output holds %d frames (%d keyframes)", info.Frames, info.Keyframes)
	result.Output = &info

	return result, nil
}
