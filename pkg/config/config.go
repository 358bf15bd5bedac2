// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
	"github.com/user/x264go/pkg/x264"
)

// Config represents the full configuration for one encoding run.
type Config struct {
	// Engine
	Engine string `yaml:"engine"` // "x264" or "sim"

	// Preset and tune
	Preset        string `yaml:"preset"`
	Tune          string `yaml:"tune"`
	FastDecode    bool   `yaml:"fast_decode"`
	ZeroLatency   bool   `yaml:"zero_latency"`
	FastFirstPass bool   `yaml:"fast_first_pass"`

	// Stream
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPSNum      uint32 `yaml:"fps_num"`
	FPSDen      uint32 `yaml:"fps_den"`
	TimebaseNum uint32 `yaml:"timebase_num"`
	TimebaseDen uint32 `yaml:"timebase_den"`
	AnnexB      bool   `yaml:"annexb"`
	Bitrate     int    `yaml:"bitrate"` // kbit/s target, 0 leaves it unset
	Profile     string `yaml:"profile"` // baseline, main, high or empty
	Format      string `yaml:"format"`  // bgra, rgb or bgr

	// Source
	Frames int    `yaml:"frames"`
	Input  string `yaml:"input"` // still image; empty renders the fade
	Label  bool   `yaml:"label"`

	// Output
	Output    string `yaml:"output"`
	Container string `yaml:"container"` // h264, mp4 or null

	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values: a 255-frame green fade at
// 1280x720, 60 fps, veryfast, written as a raw Annex B stream.
func Defaults() Config {
	fade := pipeline.DefaultFadeInput()
	return Config{
		Engine: "x264",

		Preset: "veryfast",
		Tune:   "none",

		Width:  fade.Width,
		Height: fade.Height,
		FPSNum: 60,
		FPSDen: 1,
		AnnexB: true,
		Format: "bgra",

		Frames: fade.Frames,
		Label:  fade.Label,

		Output:    "fade.h264",
		Container: "h264",

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(fs ports.FileSystem, path string) (Config, error) {
	cfg := Defaults()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every problem found in the configuration. Engine-level
// checks such as odd sizes with a profile are left to the engine.
func (c Config) Validate() error {
	var errs []error

	switch c.Engine {
	case "x264", "sim":
	default:
		errs = append(errs, fmt.Errorf("unknown engine %q", c.Engine))
	}
	if _, err := x264.ParsePreset(c.Preset); err != nil {
		errs = append(errs, err)
	}
	if _, err := x264.ParseTune(c.Tune); err != nil {
		errs = append(errs, err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.FPSNum == 0 || c.FPSDen == 0 {
		errs = append(errs, fmt.Errorf("invalid frame rate %d/%d", c.FPSNum, c.FPSDen))
	}
	if (c.TimebaseNum == 0) != (c.TimebaseDen == 0) {
		errs = append(errs, fmt.Errorf("invalid timebase %d/%d", c.TimebaseNum, c.TimebaseDen))
	}
	if c.Bitrate < 0 {
		errs = append(errs, fmt.Errorf("invalid bitrate %d", c.Bitrate))
	}
	switch c.Profile {
	case "", "baseline", "main", "high":
	default:
		errs = append(errs, fmt.Errorf("unknown profile %q", c.Profile))
	}
	switch c.Format {
	case "bgra", "rgb", "bgr":
	default:
		errs = append(errs, fmt.Errorf("unknown pixel format %q", c.Format))
	}
	if c.Frames <= 0 {
		errs = append(errs, fmt.Errorf("invalid frame count %d", c.Frames))
	}
	switch c.Container {
	case "h264", "mp4", "null":
	default:
		errs = append(errs, fmt.Errorf("unknown container %q", c.Container))
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Container == "mp4" && (c.Width > 65535 || c.Height > 65535) {
		errs = append(errs, fmt.Errorf("size %dx%d too large for mp4", c.Width, c.Height))
	}
	if c.Container != "null" && strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}

	return errors.Join(errs...)
}

// NewSetup starts an encoder setup on engine from the configuration.
// Validate must have succeeded.
func (c Config) NewSetup(engine ports.Engine, logger ports.Logger) (*x264.Setup, error) {
	preset, err := x264.ParsePreset(c.Preset)
	if err != nil {
		return nil, err
	}
	tune, err := x264.ParseTune(c.Tune)
	if err != nil {
		return nil, err
	}

	s := x264.NewSetup(engine, preset, tune, c.FastDecode, c.ZeroLatency).
		Logger(logger).
		Width(int32(c.Width)).
		Height(int32(c.Height)).
		FPS(c.FPSNum, c.FPSDen).
		AnnexB(c.AnnexB)
	if c.TimebaseNum != 0 {
		s.Timebase(c.TimebaseNum, c.TimebaseDen)
	}
	if c.Bitrate > 0 {
		s.Bitrate(int32(c.Bitrate))
	}
	if c.FastFirstPass {
		s.FastFirstPass()
	}
	switch c.Profile {
	case "baseline":
		s.Baseline()
	case "main":
		s.Main()
	case "high":
		s.High()
	}
	return s, nil
}
