// Package libx264 binds the ports.Engine interface to the system libx264
// through cgo. Builds without cgo, or with the nox264 tag, get a stub whose
// New always fails.
package libx264

import "errors"

// ErrNotAvailable is returned by New when the package was built without
// the native library.
var ErrNotAvailable = errors.New("libx264: not available in this build")
