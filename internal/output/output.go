// Package output writes generated documentation to disk or stdout.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stdout is the target name that writes to the writer's stdout stream.
const Stdout = "-"

// Writer persists rendered output, skipping writes when the target already
// holds identical bytes.
type Writer struct {
	FS     afero.Fs
	Stdout io.Writer
	Logger *zap.Logger
}

// NewWriter returns a writer over fsys that sends "-" to stdout. Nil
// arguments fall back to the OS filesystem, os.Stdout and a no-op logger.
func NewWriter(fsys afero.Fs, stdout io.Writer, logger *zap.Logger) *Writer {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{FS: fsys, Stdout: stdout, Logger: logger}
}

// Write stores data at target and reports whether anything was written.
// Missing parent directories are created.
func (w *Writer) Write(target string, data []byte) (bool, error) {
	if target == "" {
		return false, fmt.Errorf("output: target path is required")
	}
	logger := w.logger()

	if target == Stdout {
		out := w.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(data); err != nil {
			return false, fmt.Errorf("output: write stdout: %w", err)
		}
		return true, nil
	}

	fsys := w.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if _, err := fsys.Stat(target); err == nil {
		current, err := afero.ReadFile(fsys, target)
		if err != nil {
			return false, fmt.Errorf("output: read %s: %w", target, err)
		}
		if bytes.Equal(current, data) {
			logger.Debug("output unchanged", zap.String("file", target))
			return false, nil
		}
	}

	if dir := filepath.Dir(target); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("output: create %s: %w", dir, err)
		}
	}

	logger.Info("writing documentation", zap.String("file", target), zap.Int("bytes", len(data)))
	if err := afero.WriteFile(fsys, target, data, 0o644); err != nil {
		return false, fmt.Errorf("output: write %s: %w", target, err)
	}
	return true, nil
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
