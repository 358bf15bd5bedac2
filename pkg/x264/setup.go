package x264

import (
	"fmt"

	"github.com/user/x264go/pkg/ports"
)

// Setup builds an Encoder. Setters write straight into the engine's
// parameter block and return the Setup for chaining; the engine is the
// only validator and reports problems when Build opens it.
//
// A Setup is consumed by Build. Using it afterwards panics.
type Setup struct {
	engine ports.Engine
	params ports.ParamBlock
	log    ports.Logger

	profile       string
	profileStatus int32
	built         bool
}

// NewSetup starts from a preset and tune. In most cases only the geometry
// needs to be set on top.
func NewSetup(engine ports.Engine, preset Preset, tune Tune, fastDecode, zeroLatency bool) *Setup {
	presetID := preset.String()
	tuneID := tune.Identifier(fastDecode, zeroLatency)

	params, status := engine.PresetParams(presetID, tuneID)
	if status != 0 {
		// Both names come from closed tables the engine is known to accept.
		panic(fmt.Sprintf("x264: engine rejected preset %q with tune %q", presetID, tuneID))
	}
	return &Setup{engine: engine, params: params, log: ports.NopLogger()}
}

// DefaultSetup starts from the engine defaults with no preset or tune.
func DefaultSetup(engine ports.Engine) *Setup {
	return &Setup{engine: engine, params: engine.DefaultParams(), log: ports.NopLogger()}
}

func (s *Setup) mustBeFresh() {
	if s.built {
		panic("x264: setup used after Build")
	}
}

// Logger sets the logger handed to the encoder.
func (s *Setup) Logger(l ports.Logger) *Setup {
	s.mustBeFresh()
	s.log = l.WithComponent("x264")
	return s
}

// FastFirstPass disables options that only help later passes.
func (s *Setup) FastFirstPass() *Setup {
	s.mustBeFresh()
	s.params.ApplyFastFirstPass()
	return s
}

// Width sets the video width in pixels.
func (s *Setup) Width(width int32) *Setup {
	s.mustBeFresh()
	s.params.SetWidth(width)
	return s
}

// Height sets the video height in pixels.
func (s *Setup) Height(height int32) *Setup {
	s.mustBeFresh()
	s.params.SetHeight(height)
	return s
}

// FPS sets the frame rate as num/den.
func (s *Setup) FPS(num, den uint32) *Setup {
	s.mustBeFresh()
	s.params.SetFPS(num, den)
	return s
}

// Timebase sets the unit of the timestamps passed to Encode, in seconds
// as num/den. Rate control uses it together with the timestamps.
func (s *Setup) Timebase(num, den uint32) *Setup {
	s.mustBeFresh()
	s.params.SetTimebase(num, den)
	return s
}

// AnnexB selects start-code framing (true) or 4-byte size prefixes (false).
func (s *Setup) AnnexB(annexb bool) *Setup {
	s.mustBeFresh()
	s.params.SetAnnexB(annexb)
	return s
}

// Bitrate sets the target bitrate in kbit/s.
func (s *Setup) Bitrate(kbps int32) *Setup {
	s.mustBeFresh()
	s.params.SetBitrate(kbps)
	return s
}

// Baseline restricts the stream to the baseline profile.
func (s *Setup) Baseline() *Setup { return s.applyProfile("baseline") }

// Main restricts the stream to the main profile.
func (s *Setup) Main() *Setup { return s.applyProfile("main") }

// High restricts the stream to the high profile.
func (s *Setup) High() *Setup { return s.applyProfile("high") }

// applyProfile mutates the block in place, so the last profile wins. Must
// run after the preset, which NewSetup guarantees.
func (s *Setup) applyProfile(profile string) *Setup {
	s.mustBeFresh()
	s.profile = profile
	s.profileStatus = s.params.ApplyProfile(profile)
	return s
}

// Build binds the colorspace of F and opens the engine. It returns ErrBuild
// when the engine refuses the parameters or the last profile could not be
// applied.
func Build[F Format](s *Setup) (*Encoder[F], error) {
	s.mustBeFresh()
	s.built = true

	if s.profileStatus < 0 {
		s.log.Warn("Profile %s rejected by engine", s.profile)
		return nil, ErrBuild
	}

	var f F
	s.params.SetColorspace(f.Colorspace())

	handle := s.engine.Open(s.params)
	if handle == nil {
		s.log.Warn("Engine refused to open encoder")
		return nil, ErrBuild
	}
	s.log.Debug("Encoder opened (colorspace 0x%04x)", f.Colorspace())
	return newEncoder[F](handle, s.log), nil
}
