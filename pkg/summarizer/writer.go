package summarizer

import (
	"fmt"
	"io"

	"github.com/user/x264go/pkg/ports"
)

// Formatter renders a Summary as text.
type Formatter interface {
	Format(summary *Summary) string
}

// Writer writes formatted summaries to files.
type Writer struct {
	fs        ports.FileSystem
	formatter Formatter
}

// NewWriter creates a new Writer with the given Formatter.
func NewWriter(fs ports.FileSystem, formatter Formatter) *Writer {
	return &Writer{
		fs:        fs,
		formatter: formatter,
	}
}

// Write formats the summary and writes it to the specified path.
// The file system creates missing parent directories.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.formatter.Format(summary)

	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Discard()
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}
