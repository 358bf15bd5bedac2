//go:build !cgo || nox264

package libx264

import "github.com/user/x264go/pkg/ports"

// Engine is unusable in builds without the native library.
type Engine struct{}

// New always fails with ErrNotAvailable.
func New() (*Engine, error) {
	return nil, ErrNotAvailable
}

// Version reports the linked library build, which is 0 here.
func Version() int { return 0 }

// DefaultParams implements ports.Engine.
func (e *Engine) DefaultParams() ports.ParamBlock {
	return nil
}

// PresetParams implements ports.Engine.
func (e *Engine) PresetParams(preset, tune string) (ports.ParamBlock, int32) {
	return nil, -1
}

// Open implements ports.Engine.
func (e *Engine) Open(params ports.ParamBlock) ports.Handle {
	return nil
}
