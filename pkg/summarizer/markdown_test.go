package summarizer

import (
	"strings"
	"testing"
	"time"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Settings: Settings{
			Engine:      "x264",
			Preset:      "veryfast",
			Tune:        "film",
			ZeroLatency: true,
			Format:      "bgra",
			Width:       1280,
			Height:      720,
			FPSNum:      60,
			FPSDen:      1,
			TimebaseNum: 1,
			TimebaseDen: 90000,
			BitrateKbps: 2500,
			AnnexB:      true,
		},
		Result: ResultInfo{
			FramesIn:    255,
			FramesOut:   255,
			Keyframes:   1,
			HeaderBytes: 40,
			StreamBytes: 1024 * 1024,
			ElapsedMs:   850,
		},
		Output: OutputInfo{
			Path:      "fade.h264",
			Container: "h264",
			FileSize:  1024 * 1024,
			Codec:     "h264",
			Width:     1280,
			Height:    720,
			Frames:    255,
			Keyframes: 1,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Encoding Summary",
		"2024-01-15 10:30:00",
		"| Preset | veryfast |",
		"film, zerolatency",
		"1280x720",
		"60/1",
		"1/90000",
		"2500 kbit/s",
		"Annex B start codes",
		"| Frames Out | 255 |",
		"1.00 MB",
		"4.25 s",
		"fade.h264",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Defaults(t *testing.T) {
	s := sampleSummary()
	s.Settings.TimebaseNum, s.Settings.TimebaseDen = 0, 0
	s.Settings.BitrateKbps = 0
	s.Settings.AnnexB = false

	result := NewMarkdownFormatter().Format(s)

	for _, check := range []string{"One unit per frame", "| Bitrate | Preset default |", "| Profile | Preset default |", "Length prefixed"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_NoOutputSection(t *testing.T) {
	s := sampleSummary()
	s.Output = OutputInfo{}

	result := NewMarkdownFormatter().Format(s)

	if strings.Contains(result, "## Output") {
		t.Error("output section should be omitted when nothing was written")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Encoding Summary": "エンコードサマリー",
			"Frames Out":       "出力フレーム数",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	if !strings.Contains(result, "エンコードサマリー") {
		t.Error("expected translated 'Encoding Summary'")
	}
	if !strings.Contains(result, "出力フレーム数") {
		t.Error("expected translated 'Frames Out'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "x264fade v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
