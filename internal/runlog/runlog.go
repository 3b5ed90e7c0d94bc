// Package runlog appends run results to daily JSON-Lines files
package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/promptchad/promptchad/pkg/abkit/engine"
)

// Logger appends run results to a directory of daily .jsonl files
type Logger struct {
	dir string
}

// New creates a Logger writing under dir
func New(dir string) *Logger {
	return &Logger{dir: dir}
}

// Append writes one run result as a single compact JSON line to the day's
// log file, creating the directory on first use. The file name is derived
// from the run's own timestamp.
func (l *Logger) Append(result *engine.RunResult) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating log directory %s", l.dir)
	}

	line, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encoding run result")
	}

	path := filepath.Join(l.dir, result.Timestamp.Format("2006-01-02")+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening log file %s", path)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrapf(err, "writing log file %s", path)
	}

	return nil
}
