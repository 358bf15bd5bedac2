package x264_test

import (
	"errors"
	"testing"

	"github.com/user/x264go/pkg/adapters/simengine"
	"github.com/user/x264go/pkg/mocks"
	"github.com/user/x264go/pkg/ports"
	"github.com/user/x264go/pkg/x264"
)

func TestNewSetupPassesPresetAndTune(t *testing.T) {
	engine := mocks.NewEngine()
	x264.NewSetup(engine, x264.Slower, x264.TuneAnimation, true, false)

	if len(engine.PresetCalls) != 1 {
		t.Fatalf("PresetParams called %d times, want 1", len(engine.PresetCalls))
	}
	call := engine.PresetCalls[0]
	if call.Preset != "slower" || call.Tune != "fastdecode,animation" {
		t.Errorf("PresetParams(%q, %q), want (slower, fastdecode,animation)", call.Preset, call.Tune)
	}
}

func TestNewSetupPanicsOnRejectedPreset(t *testing.T) {
	engine := mocks.NewEngine()
	engine.PresetParamsFunc = func(preset, tune string) (ports.ParamBlock, int32) {
		return nil, -1
	}

	defer func() {
		if recover() == nil {
			t.Error("NewSetup did not panic")
		}
	}()
	x264.NewSetup(engine, x264.Medium, x264.TuneNone, false, false)
}

func TestSettersWriteParams(t *testing.T) {
	engine := mocks.NewEngine()
	s := x264.NewSetup(engine, x264.Veryfast, x264.TuneNone, false, false).
		FastFirstPass().
		Width(1920).
		Height(1080).
		FPS(30000, 1001).
		Timebase(1, 90000).
		AnnexB(false).
		Bitrate(4000)

	if _, err := x264.Build[x264.RGB](s); err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := engine.Params
	if !p.FastFirstPass {
		t.Error("FastFirstPass not applied")
	}
	if p.Width != 1920 || p.Height != 1080 {
		t.Errorf("size = %dx%d", p.Width, p.Height)
	}
	if p.FPSNum != 30000 || p.FPSDen != 1001 {
		t.Errorf("fps = %d/%d", p.FPSNum, p.FPSDen)
	}
	if p.TimebaseNum != 1 || p.TimebaseDen != 90000 {
		t.Errorf("timebase = %d/%d", p.TimebaseNum, p.TimebaseDen)
	}
	if p.AnnexB {
		t.Error("AnnexB = true, want false")
	}
	if p.BitrateKbps != 4000 {
		t.Errorf("bitrate = %d", p.BitrateKbps)
	}
	if p.Colorspace != (x264.RGB{}).Colorspace() {
		t.Errorf("colorspace = %#x, want RGB", p.Colorspace)
	}
}

func TestLastProfileWins(t *testing.T) {
	engine := mocks.NewEngine()
	s := x264.NewSetup(engine, x264.Medium, x264.TuneNone, false, false).
		Baseline().
		High()

	if _, err := x264.Build[x264.BGRA](s); err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := engine.Params.Profiles
	if len(got) != 2 || got[0] != "baseline" || got[1] != "high" {
		t.Errorf("profiles applied = %v, want [baseline high]", got)
	}
}

func TestRejectedProfileFailsBuild(t *testing.T) {
	engine := mocks.NewEngine()
	engine.Params.ApplyProfileFunc = func(profile string) int32 {
		if profile == "main" {
			return -1
		}
		return 0
	}

	s := x264.NewSetup(engine, x264.Medium, x264.TuneNone, false, false).Main()
	if _, err := x264.Build[x264.BGRA](s); !errors.Is(err, x264.ErrBuild) {
		t.Errorf("Build error = %v, want ErrBuild", err)
	}
	if engine.OpenCalls != 0 {
		t.Errorf("engine opened %d times after profile failure", engine.OpenCalls)
	}
}

func TestBuildFailsWhenEngineRefuses(t *testing.T) {
	engine := mocks.NewEngine()
	engine.Handle = nil

	s := x264.DefaultSetup(engine).Width(64).Height(64)
	if _, err := x264.Build[x264.BGR](s); !errors.Is(err, x264.ErrBuild) {
		t.Errorf("Build error = %v, want ErrBuild", err)
	}
}

func TestBuildRejectsOddSizeWithProfile(t *testing.T) {
	s := x264.NewSetup(simengine.New(), x264.Veryfast, x264.TuneNone, false, false).
		Width(641).
		Height(480).
		High()

	if _, err := x264.Build[x264.BGRA](s); !errors.Is(err, x264.ErrBuild) {
		t.Errorf("Build error = %v, want ErrBuild", err)
	}
}

func TestSetupUsedAfterBuildPanics(t *testing.T) {
	s := x264.DefaultSetup(mocks.NewEngine()).Width(16).Height(16)
	enc, err := x264.Build[x264.BGRA](s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer enc.Close()

	defer func() {
		if recover() == nil {
			t.Error("setter after Build did not panic")
		}
	}()
	s.Width(32)
}
