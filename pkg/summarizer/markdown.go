package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document with
// two-column tables.
type MarkdownFormatter struct {
	t       func(string) string
	version string
}

// Option configures a MarkdownFormatter.
type Option func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) Option {
	return func(f *MarkdownFormatter) {
		f.t = t
	}
}

// WithVersion sets the tool version printed in the footer.
func WithVersion(version string) Option {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter. Labels are left untranslated
// unless WithTranslator is given.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	f := &MarkdownFormatter{
		t: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	t := f.t

	fmt.Fprintf(&b, "# %s\n\n", t("Encoding Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	f.section(&b, t("Settings"), [][2]string{
		{t("Engine"), s.Settings.Engine},
		{t("Preset"), s.Settings.Preset},
		{t("Tune"), f.tune(s.Settings)},
		{t("Profile"), orDefault(s.Settings.Profile, t("Preset default"))},
		{t("Pixel Format"), s.Settings.Format},
		{t("Video Size"), fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height)},
		{t("Frame Rate"), fmt.Sprintf("%d/%d", s.Settings.FPSNum, s.Settings.FPSDen)},
		{t("Timebase"), f.timebase(s.Settings)},
		{t("Bitrate"), f.bitrate(s.Settings)},
		{t("Framing"), f.framing(s.Settings)},
	})

	f.section(&b, t("Results"), [][2]string{
		{t("Frames In"), fmt.Sprintf("%d", s.Result.FramesIn)},
		{t("Frames Out"), fmt.Sprintf("%d", s.Result.FramesOut)},
		{t("Keyframes"), fmt.Sprintf("%d", s.Result.Keyframes)},
		{t("Header Size"), formatBytes(s.Result.HeaderBytes)},
		{t("Stream Size"), formatBytes(s.Result.StreamBytes)},
		{t("Video Duration"), fmt.Sprintf("%.2f s", s.DurationSec())},
		{t("Average Bitrate"), fmt.Sprintf("%.1f kbit/s", s.AverageKbps())},
		{t("Drain Calls"), fmt.Sprintf("%d", s.Result.DrainedCalls)},
		{t("Encoding Time"), fmt.Sprintf("%d ms", s.Result.ElapsedMs)},
		{t("Encoding Speed"), fmt.Sprintf("%.1f fps", s.EncodeFPS())},
	})

	if s.Output.Path != "" {
		f.section(&b, t("Output"), [][2]string{
			{t("File"), s.Output.Path},
			{t("Container"), s.Output.Container},
			{t("File Size"), formatBytes(s.Output.FileSize)},
			{t("Codec"), s.Output.Codec},
			{t("Video Size"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height)},
			{t("Frame Count"), fmt.Sprintf("%d", s.Output.Frames)},
			{t("Keyframes"), fmt.Sprintf("%d", s.Output.Keyframes)},
		})
	}

	b.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s x264fade %s\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "%s x264fade\n", t("Generated by"))
	}
	return b.String()
}

func (f *MarkdownFormatter) section(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | %s |\n", f.t("Item"), f.t("Value"))
	b.WriteString("|------|-------|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", r[0], r[1])
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) tune(s Settings) string {
	parts := []string{orDefault(s.Tune, "none")}
	if s.FastDecode {
		parts = append(parts, "fastdecode")
	}
	if s.ZeroLatency {
		parts = append(parts, "zerolatency")
	}
	return strings.Join(parts, ", ")
}

func (f *MarkdownFormatter) timebase(s Settings) string {
	if s.TimebaseNum == 0 || s.TimebaseDen == 0 {
		return f.t("One unit per frame")
	}
	return fmt.Sprintf("%d/%d", s.TimebaseNum, s.TimebaseDen)
}

func (f *MarkdownFormatter) bitrate(s Settings) string {
	if s.BitrateKbps <= 0 {
		return f.t("Preset default")
	}
	return fmt.Sprintf("%d kbit/s", s.BitrateKbps)
}

func (f *MarkdownFormatter) framing(s Settings) string {
	if s.AnnexB {
		return f.t("Annex B start codes")
	}
	return f.t("Length prefixed")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// formatBytes formats a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
