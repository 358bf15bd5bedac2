package x264

import "fmt"

// Preset trades encoding speed for compression efficiency, fastest first.
type Preset int

const (
	Ultrafast Preset = iota
	Superfast
	Veryfast
	Faster
	Fast
	Medium
	Slow
	Slower
	Veryslow
	Placebo
)

var presetNames = [...]string{
	Ultrafast: "ultrafast",
	Superfast: "superfast",
	Veryfast:  "veryfast",
	Faster:    "faster",
	Fast:      "fast",
	Medium:    "medium",
	Slow:      "slow",
	Slower:    "slower",
	Veryslow:  "veryslow",
	Placebo:   "placebo",
}

// String returns the engine's identifier for the preset.
func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

// Presets lists every preset, fastest first.
func Presets() []Preset {
	out := make([]Preset, len(presetNames))
	for i := range presetNames {
		out[i] = Preset(i)
	}
	return out
}

// ParsePreset looks up a preset by its identifier.
func ParsePreset(name string) (Preset, error) {
	for i, n := range presetNames {
		if n == name {
			return Preset(i), nil
		}
	}
	return 0, fmt.Errorf("x264: unknown preset %q", name)
}

// Tune adapts the encoder to a kind of source material.
type Tune int

const (
	TuneNone Tune = iota
	TuneFilm
	TuneAnimation
	TuneGrain
	TuneStillImage
	TunePSNR
	TuneSSIM
)

var tuneNames = [...]string{
	TuneNone:       "none",
	TuneFilm:       "film",
	TuneAnimation:  "animation",
	TuneGrain:      "grain",
	TuneStillImage: "stillimage",
	TunePSNR:       "psnr",
	TuneSSIM:       "ssim",
}

// tuneIdentifiers is indexed by [fastDecode][zeroLatency][tune].
var tuneIdentifiers = [2][2][7]string{
	{
		{"", "film", "animation", "grain", "stillimage", "psnr", "ssim"},
		{
			"zerolatency",
			"zerolatency,film",
			"zerolatency,animation",
			"zerolatency,grain",
			"zerolatency,stillimage",
			"zerolatency,psnr",
			"zerolatency,ssim",
		},
	},
	{
		{
			"fastdecode",
			"fastdecode,film",
			"fastdecode,animation",
			"fastdecode,grain",
			"fastdecode,stillimage",
			"fastdecode,psnr",
			"fastdecode,ssim",
		},
		{
			"fastdecode,zerolatency",
			"fastdecode,zerolatency,film",
			"fastdecode,zerolatency,animation",
			"fastdecode,zerolatency,grain",
			"fastdecode,zerolatency,stillimage",
			"fastdecode,zerolatency,psnr",
			"fastdecode,zerolatency,ssim",
		},
	},
}

// String returns the tune's name as used in configuration files.
func (t Tune) String() string {
	if t < 0 || int(t) >= len(tuneNames) {
		return fmt.Sprintf("Tune(%d)", int(t))
	}
	return tuneNames[t]
}

// Tunes lists every tune.
func Tunes() []Tune {
	out := make([]Tune, len(tuneNames))
	for i := range tuneNames {
		out[i] = Tune(i)
	}
	return out
}

// ParseTune looks up a tune by name. The empty string means TuneNone.
func ParseTune(name string) (Tune, error) {
	if name == "" {
		return TuneNone, nil
	}
	for i, n := range tuneNames {
		if n == name {
			return Tune(i), nil
		}
	}
	return 0, fmt.Errorf("x264: unknown tune %q", name)
}

// Identifier returns the engine's tune string for t combined with the
// fastdecode and zerolatency flags.
func (t Tune) Identifier(fastDecode, zeroLatency bool) string {
	if t < 0 || int(t) >= len(tuneNames) {
		panic(fmt.Sprintf("x264: invalid tune %d", int(t)))
	}
	return tuneIdentifiers[b2i(fastDecode)][b2i(zeroLatency)][t]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
