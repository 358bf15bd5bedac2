package ports

import "io"

// OutputFile is a file being written. Its path only changes when Close
// succeeds; until then readers see the previous content or nothing.
type OutputFile interface {
	io.Writer

	// Close publishes the written bytes at the target path.
	Close() error

	// Discard drops the written bytes and leaves the target path as it was.
	Discard() error
}

// FileSystem is the file access the config loader, the sinks, the probe
// and the summary writer need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// Create starts writing path. Missing parent directories are created.
	Create(path string) (OutputFile, error)
}
