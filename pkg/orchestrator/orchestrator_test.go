package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"iter"
	"strings"
	"testing"

	"github.com/user/x264go/pkg/adapters/filesink"
	"github.com/user/x264go/pkg/adapters/logger"
	"github.com/user/x264go/pkg/adapters/simengine"
	"github.com/user/x264go/pkg/mocks"
	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
	"github.com/user/x264go/pkg/stages/encode"
	"github.com/user/x264go/pkg/x264"
)

// mockSource yields n blank frames.
type mockSource struct {
	n int
}

func (m *mockSource) Len() int { return m.n }

func (m *mockSource) Frames() iter.Seq[pipeline.Frame] {
	return func(yield func(pipeline.Frame) bool) {
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		for i := 0; i < m.n; i++ {
			if !yield(pipeline.Frame{Image: img, PTS: int64(i)}) {
				return
			}
		}
	}
}

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	result pipeline.EncodeResult
	err    error
	pts    []int64
	after  func()
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	for f := range input.Frames {
		m.pts = append(m.pts, f.PTS)
	}
	if m.after != nil {
		m.after()
	}
	if m.err != nil {
		return pipeline.EncodeResult{}, m.err
	}
	return m.result, nil
}

func TestOrchestrator_Run(t *testing.T) {
	stage := &mockEncodeStage{result: pipeline.EncodeResult{FramesIn: 4, FramesOut: 4}}
	orch := New(stage, &mockSource{n: 4}, mocks.NewFileSystem(), ports.NopLogger())

	config := DefaultConfig()
	config.TimebaseNum, config.TimebaseDen = 1, 90000

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Encode.FramesOut != 4 {
		t.Errorf("FramesOut = %d, want 4", result.Encode.FramesOut)
	}
	if result.Output != nil {
		t.Error("no output path was given, Output should be nil")
	}

	want := []int64{0, 1500, 3000, 4500}
	if len(stage.pts) != len(want) {
		t.Fatalf("stage saw pts %v, want %v", stage.pts, want)
	}
	for i := range want {
		if stage.pts[i] != want[i] {
			t.Errorf("pts[%d] = %d, want %d", i, stage.pts[i], want[i])
		}
	}
}

func TestOrchestrator_Run_ProbesOutput(t *testing.T) {
	fs := mocks.NewFileSystem()

	setup := x264.NewSetup(simengine.New(), x264.Ultrafast, x264.TuneNone, false, false).
		Width(16).
		Height(16).
		FPS(60, 1)
	enc, err := x264.Build[x264.BGRA](setup)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer enc.Close()

	sink, err := filesink.New(fs, "out.h264")
	if err != nil {
		t.Fatalf("filesink.New: %v", err)
	}
	stage := encode.NewStage(enc, 16, 16, sink, ports.NopLogger())
	orch := New(stage, &mockSource{n: 5}, fs, ports.NopLogger())

	config := DefaultConfig()
	config.OutputPath = "out.h264"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output == nil {
		t.Fatal("expected output to be probed")
	}
	if result.Output.Frames != 5 || result.Output.Width != 16 {
		t.Errorf("probed %+v", *result.Output)
	}
	if result.OutputSize != result.Encode.Bytes {
		t.Errorf("OutputSize = %d, stage wrote %d bytes", result.OutputSize, result.Encode.Bytes)
	}
}

func TestOrchestrator_Run_UnreadableOutputWarns(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := &mockEncodeStage{after: func() { fs.PutFile("out.h264", []byte("not video")) }}

	var logs bytes.Buffer
	orch := New(stage, &mockSource{n: 1}, fs, logger.NewWriter(ports.LevelWarn, &logs))

	config := DefaultConfig()
	config.OutputPath = "out.h264"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Output != nil {
		t.Error("Output should be nil for an unrecognized file")
	}
	if result.OutputSize != int64(len("not video")) {
		t.Errorf("OutputSize = %d", result.OutputSize)
	}
	if logs.Len() == 0 {
		t.Error("expected a warning")
	}
}

func TestOrchestrator_Run_StageError(t *testing.T) {
	stageErr := errors.New("boom")
	stage := &mockEncodeStage{err: stageErr}
	orch := New(stage, &mockSource{n: 2}, mocks.NewFileSystem(), ports.NopLogger())

	_, err := orch.Run(context.Background(), DefaultConfig())
	if !errors.Is(err, stageErr) {
		t.Fatalf("error = %v, want wrapped stage error", err)
	}
	if !strings.Contains(err.Error(), "encode stage") {
		t.Errorf("error %q should name the stage", err)
	}
}
