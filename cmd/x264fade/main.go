// Package main provides the CLI entry point for x264fade.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/x264go/pkg/adapters/codecdetect"
	"github.com/user/x264go/pkg/adapters/filesink"
	"github.com/user/x264go/pkg/adapters/ggrenderer"
	"github.com/user/x264go/pkg/adapters/libx264"
	"github.com/user/x264go/pkg/adapters/logger"
	"github.com/user/x264go/pkg/adapters/mp4sink"
	"github.com/user/x264go/pkg/adapters/nullsink"
	"github.com/user/x264go/pkg/adapters/osfilesystem"
	"github.com/user/x264go/pkg/adapters/simengine"
	"github.com/user/x264go/pkg/config"
	"github.com/user/x264go/pkg/orchestrator"
	"github.com/user/x264go/pkg/pipeline"
	"github.com/user/x264go/pkg/ports"
	"github.com/user/x264go/pkg/stages/encode"
	"github.com/user/x264go/pkg/summarizer"
	"github.com/user/x264go/pkg/x264"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, l10n.F("x264fade version %s (x264 build %d)", version, libx264.Version()))
	}

	return &cli.App{
		Name:    "x264fade",
		Usage:   l10n.T("Encode frames to H.264 with x264"),
		Version: version,
		Commands: []*cli.Command{
			encodeCommand(),
			probeCommand(),
			presetsCommand(),
		},
	}
}

func encodeCommand() *cli.Command {
	const (
		catOutput  = "Output"
		catEncoder = "Encoder"
		catStream  = "Stream"
		catSource  = "Source"
		catLogging = "Logging"
	)

	return &cli.Command{
		Name:        "encode",
		Usage:       l10n.T("Encode a fade or a still image to H.264"),
		Description: l10n.T("Render frames, encode them with x264 and write a raw H.264 stream or an MP4 file."),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output file path"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "container", Usage: l10n.T("Output container (h264, mp4, null)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T(catOutput)},

			&cli.StringFlag{Name: "engine", Usage: l10n.T("Encoding engine (x264, sim)"), Category: l10n.T(catEncoder)},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: l10n.T("Speed preset (ultrafast ... placebo)"), Category: l10n.T(catEncoder)},
			&cli.StringFlag{Name: "tune", Aliases: []string{"t"}, Usage: l10n.T("Tune for the source material"), Category: l10n.T(catEncoder)},
			&cli.BoolFlag{Name: "fast-decode", Usage: l10n.T("Simplify the stream for faster decoding"), Category: l10n.T(catEncoder)},
			&cli.BoolFlag{Name: "zero-latency", Usage: l10n.T("Emit every frame immediately"), Category: l10n.T(catEncoder)},
			&cli.BoolFlag{Name: "fast-first-pass", Usage: l10n.T("Disable options that only help later passes"), Category: l10n.T(catEncoder)},
			&cli.StringFlag{Name: "profile", Usage: l10n.T("H.264 profile (baseline, main, high)"), Category: l10n.T(catEncoder)},
			&cli.IntFlag{Name: "bitrate", Aliases: []string{"b"}, Usage: l10n.T("Target bitrate in kbit/s"), Category: l10n.T(catEncoder)},

			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Video width (default: 1280)"), Category: l10n.T(catStream)},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Video height (default: 720)"), Category: l10n.T(catStream)},
			&cli.StringFlag{Name: "fps", Usage: l10n.T("Frame rate as num/den (default: 60/1)"), Category: l10n.T(catStream)},
			&cli.StringFlag{Name: "timebase", Usage: l10n.T("Timestamp unit in seconds as num/den"), Category: l10n.T(catStream)},
			&cli.BoolFlag{Name: "annexb", Value: true, Usage: l10n.T("Use start codes instead of size prefixes"), Category: l10n.T(catStream)},
			&cli.StringFlag{Name: "format", Usage: l10n.T("Input pixel format (bgra, rgb, bgr)"), Category: l10n.T(catStream)},

			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Number of frames (default: 255)"), Category: l10n.T(catSource)},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: l10n.T("Still image to encode instead of the fade"), Category: l10n.T(catSource)},
			&cli.BoolFlag{Name: "label", Usage: l10n.T("Draw a frame counter on the fade"), Category: l10n.T(catSource)},

			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error, quiet)"), Category: l10n.T(catLogging)},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T(catLogging)},
		},
		Action: runEncode,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Describe an encoded H.264 or MP4 file"),
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New(l10n.T("A file argument is required"))
			}
			info, err := codecdetect.DetectFromFile(osfilesystem.New(), c.Args().First())
			if err != nil {
				return err
			}
			w := c.App.Writer
			fmt.Fprintf(w, "%s: %s\n", l10n.T("Container"), info.Container)
			fmt.Fprintf(w, "%s: %s\n", l10n.T("Codec"), info.Codec)
			fmt.Fprintf(w, "%s: %dx%d\n", l10n.T("Video Size"), info.Width, info.Height)
			fmt.Fprintf(w, "%s: %d / %d\n", l10n.T("Profile / Level"), info.Profile, info.Level)
			fmt.Fprintf(w, "%s: %d\n", l10n.T("Frame Count"), info.Frames)
			fmt.Fprintf(w, "%s: %d\n", l10n.T("Keyframes"), info.Keyframes)
			return nil
		},
	}
}

func presetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: l10n.T("List presets and tunes"),
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			fmt.Fprintln(w, l10n.T("Presets:"))
			for _, p := range x264.Presets() {
				fmt.Fprintf(w, "  %s\n", p)
			}
			fmt.Fprintln(w, l10n.T("Tunes:"))
			for _, t := range x264.Tunes() {
				fmt.Fprintf(w, "  %s\n", t)
			}
			return nil
		},
	}
}

// runEncode executes the encode command.
func runEncode(c *cli.Context) error {
	fs := osfilesystem.New()

	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(fs, path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := applyFlags(c, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = ports.NopLogger()
	} else {
		level, _ := ports.ParseLogLevel(cfg.LogLevel)
		log = logger.NewConsole(level)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	engine, err := newEngine(cfg.Engine)
	if err != nil {
		return err
	}

	log.Info("Encoding %d frames at %dx%d (%s preset)", cfg.Frames, cfg.Width, cfg.Height, cfg.Preset)

	var result orchestrator.RunResult
	switch cfg.Format {
	case "rgb":
		result, err = encodeAs[x264.RGB](ctx, cfg, engine, fs, log)
	case "bgr":
		result, err = encodeAs[x264.BGR](ctx, cfg, engine, fs, log)
	default:
		result, err = encodeAs[x264.BGRA](ctx, cfg, engine, fs, log)
	}
	if err != nil {
		return err
	}

	if path := c.String("summary"); path != "" {
		if err := writeSummary(fs, path, cfg, result); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}
	return nil
}

// writeSummary saves a Markdown report of the session.
func writeSummary(fs ports.FileSystem, path string, cfg config.Config, result orchestrator.RunResult) error {
	b := summarizer.NewBuilder().
		WithSettings(summarizer.Settings{
			Engine:      cfg.Engine,
			Preset:      cfg.Preset,
			Tune:        cfg.Tune,
			FastDecode:  cfg.FastDecode,
			ZeroLatency: cfg.ZeroLatency,
			Profile:     cfg.Profile,
			Format:      cfg.Format,
			Width:       cfg.Width,
			Height:      cfg.Height,
			FPSNum:      cfg.FPSNum,
			FPSDen:      cfg.FPSDen,
			TimebaseNum: cfg.TimebaseNum,
			TimebaseDen: cfg.TimebaseDen,
			BitrateKbps: cfg.Bitrate,
			AnnexB:      cfg.AnnexB,
		}).
		WithResult(result.Encode, result.Elapsed)

	if info := result.Output; info != nil {
		b.WithOutput(summarizer.OutputInfo{
			Path:      cfg.Output,
			Container: string(info.Container),
			FileSize:  result.OutputSize,
			Codec:     string(info.Codec),
			Width:     info.Width,
			Height:    info.Height,
			Frames:    info.Frames,
			Keyframes: info.Keyframes,
		})
	}

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	return summarizer.NewWriter(fs, formatter).Write(path, b.Build())
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	strs := map[string]*string{
		"output":    &cfg.Output,
		"container": &cfg.Container,
		"engine":    &cfg.Engine,
		"preset":    &cfg.Preset,
		"tune":      &cfg.Tune,
		"profile":   &cfg.Profile,
		"format":    &cfg.Format,
		"input":     &cfg.Input,
		"log-level": &cfg.LogLevel,
	}
	for name, dst := range strs {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}

	ints := map[string]*int{
		"bitrate": &cfg.Bitrate,
		"width":   &cfg.Width,
		"height":  &cfg.Height,
		"frames":  &cfg.Frames,
	}
	for name, dst := range ints {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}

	bools := map[string]*bool{
		"fast-decode":     &cfg.FastDecode,
		"zero-latency":    &cfg.ZeroLatency,
		"fast-first-pass": &cfg.FastFirstPass,
		"annexb":          &cfg.AnnexB,
		"label":           &cfg.Label,
	}
	for name, dst := range bools {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}

	var errs []error
	if c.IsSet("fps") {
		num, den, err := parseRatio(c.String("fps"))
		if err != nil {
			errs = append(errs, fmt.Errorf("--fps: %w", err))
		}
		cfg.FPSNum, cfg.FPSDen = num, den
	}
	if c.IsSet("timebase") {
		num, den, err := parseRatio(c.String("timebase"))
		if err != nil {
			errs = append(errs, fmt.Errorf("--timebase: %w", err))
		}
		cfg.TimebaseNum, cfg.TimebaseDen = num, den
	}
	return errors.Join(errs...)
}

// parseRatio parses "num/den" or a bare integer, which means num/1.
func parseRatio(s string) (uint32, uint32, error) {
	numStr, denStr, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		denStr = "1"
	}
	num, err := strconv.ParseUint(numStr, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ratio %q", s)
	}
	den, err := strconv.ParseUint(denStr, 10, 32)
	if err != nil || den == 0 {
		return 0, 0, fmt.Errorf("invalid ratio %q", s)
	}
	return uint32(num), uint32(den), nil
}

func newEngine(name string) (ports.Engine, error) {
	if name == "sim" {
		return simengine.New(), nil
	}
	engine, err := libx264.New()
	if err != nil {
		return nil, fmt.Errorf("x264 engine: %w", err)
	}
	return engine, nil
}

// encodeAs runs one encoding session with frames packed as F.
func encodeAs[F x264.PackedFormat](ctx context.Context, cfg config.Config, engine ports.Engine, fs ports.FileSystem, log ports.Logger) (orchestrator.RunResult, error) {
	setup, err := cfg.NewSetup(engine, log)
	if err != nil {
		return orchestrator.RunResult{}, err
	}
	enc, err := x264.Build[F](setup)
	if err != nil {
		return orchestrator.RunResult{}, err
	}
	defer enc.Close()

	source, err := openSource(cfg, fs, log)
	if err != nil {
		return orchestrator.RunResult{}, err
	}
	sink, err := openSink(cfg, fs)
	if err != nil {
		return orchestrator.RunResult{}, err
	}

	stage := encode.NewStage(enc, cfg.Width, cfg.Height, sink, log)
	orch := orchestrator.New(stage, source, fs, log)

	runConfig := orchestrator.Config{
		FPSNum:      cfg.FPSNum,
		FPSDen:      cfg.FPSDen,
		TimebaseNum: cfg.TimebaseNum,
		TimebaseDen: cfg.TimebaseDen,
	}
	if cfg.Container != "null" {
		runConfig.OutputPath = cfg.Output
	}
	return orch.Run(ctx, runConfig)
}

func openSource(cfg config.Config, fs ports.FileSystem, log ports.Logger) (orchestrator.Source, error) {
	if cfg.Input != "" {
		still, err := ggrenderer.LoadStill(fs, cfg.Input, cfg.Frames)
		if err != nil {
			return nil, err
		}
		b := still.Bounds()
		log.Info("Reading %dx%d frames from %s", b.Dx(), b.Dy(), cfg.Input)
		return still, nil
	}
	return ggrenderer.NewFade(pipeline.FadeInput{
		Width:  cfg.Width,
		Height: cfg.Height,
		Frames: cfg.Frames,
		Label:  cfg.Label,
	}), nil
}

func openSink(cfg config.Config, fs ports.FileSystem) (ports.StreamSink, error) {
	switch cfg.Container {
	case "null":
		return nullsink.New(), nil
	case "mp4":
		opts := mp4sink.OptionsForRate(cfg.Width, cfg.Height, cfg.AnnexB, cfg.FPSNum, cfg.FPSDen, cfg.TimebaseNum, cfg.TimebaseDen)
		sink, err := mp4sink.New(fs, cfg.Output, opts)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		sink, err := filesink.New(fs, cfg.Output)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
}
