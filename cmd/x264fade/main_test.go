package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Eyevinn/mp4ff/avc"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"x264fade"}, args...))
	return out.String(), err
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in       string
		num, den uint32
		ok       bool
	}{
		{"60/1", 60, 1, true},
		{"30000/1001", 30000, 1001, true},
		{"25", 25, 1, true},
		{" 1/90000 ", 1, 90000, true},
		{"60/0", 0, 0, false},
		{"fast", 0, 0, false},
		{"-1/2", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			num, den, err := parseRatio(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("parseRatio(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if num != tt.num || den != tt.den {
				t.Errorf("parseRatio(%q) = %d/%d, want %d/%d", tt.in, num, den, tt.num, tt.den)
			}
		})
	}
}

func TestEncodeCommand_RawStream(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fade.h264")

	if _, err := runApp(t, "encode", "--quiet", "--engine", "sim",
		"-W", "64", "-H", "48", "-n", "30", "--label", "-o", out); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	nalus := avc.ExtractNalusFromByteStream(data)
	if len(nalus) == 0 {
		t.Fatal("no NAL units in output")
	}
	if got := avc.GetNaluType(nalus[0][0]); got != avc.NALU_SPS {
		t.Errorf("first unit type = %v, want SPS", got)
	}
	idr := 0
	for _, n := range nalus {
		if avc.GetNaluType(n[0]) == avc.NALU_IDR {
			idr++
		}
	}
	if idr != 1 {
		t.Errorf("IDR units = %d, want 1", idr)
	}
}

func TestEncodeCommand_StillInput(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(5, 5, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	still := filepath.Join(dir, "still.png")
	if err := os.WriteFile(still, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "still.h264")

	if _, err := runApp(t, "encode", "--log-level", "error", "--engine", "sim",
		"-W", "32", "-H", "32", "-n", "7", "-i", still, "-o", out); err != nil {
		t.Fatalf("encode: %v", err)
	}

	report, err := runApp(t, "probe", out)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(report, "32x32") || !strings.Contains(report, ": 7\n") {
		t.Errorf("probe report = %q", report)
	}
}

func TestEncodeCommand_MP4(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "fade.mp4")

	if _, err := runApp(t, "encode", "--quiet", "--engine", "sim", "--container", "mp4",
		"--format", "rgb", "--timebase", "1/90000", "-W", "64", "-H", "64", "-n", "12", "-o", out); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 8 || string(data[4:8]) != "ftyp" {
		t.Error("output is not an MP4 file")
	}
}

func TestEncodeCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "enc.yaml")
	out := filepath.Join(dir, "from-config.h264")
	yaml := "engine: sim\nwidth: 32\nheight: 32\nframes: 5\nzero_latency: true\noutput: " + out + "\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runApp(t, "encode", "-q", "-c", cfgPath); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestEncodeCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad fps", []string{"--fps", "60/0"}, "--fps"},
		{"bad preset", []string{"--preset", "warpspeed"}, "unknown preset"},
		{"bad container", []string{"--container", "avi"}, "unknown container"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"encode", "-q", "--engine", "sim", "--container", "null"}, tt.args...)
			_, err := runApp(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := runApp(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"ultrafast", "placebo", "stillimage"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "x264fade") || !strings.Contains(out, version) {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestEncodeCommand_Summary(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "fade.mp4")
	report := filepath.Join(dir, "reports", "summary.md")

	if _, err := runApp(t, "encode", "-q", "--engine", "sim", "--container", "mp4",
		"-W", "48", "-H", "32", "-n", "8", "-o", out, "--summary", report); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	// Labels may be translated; values are not.
	for _, want := range []string{"48x32", "veryfast", "fade.mp4", "| mp4 |", "| h264 |"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary missing %q:\n%s", want, data)
		}
	}
}

func TestProbeCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "probe.h264")
	if _, err := runApp(t, "encode", "-q", "--engine", "sim", "-W", "96", "-H", "54", "-n", "6", "-o", out); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := runApp(t, "probe", out)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, want := range []string{"h264", "96x54", ": 6\n", ": 1\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("probe output missing %q:\n%s", want, got)
		}
	}

	if _, err := runApp(t, "probe"); err == nil {
		t.Error("probe without a file should fail")
	}
}
