// Package logging provides structured file logging for backoffice.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backoffice-suite/backoffice/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Enabled bool
	// Level is the minimum level written: debug, info, warn or error.
	Level    string
	MaxFiles int
	// Command and PID are stamped on every entry and in the file name.
	Command string
	PID     int
}

// DefaultConfig returns a disabled info-level Config for this process.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromGlobalConfig reads the logging_* keys. debug=true forces the debug
// level.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", cfg.Level)
	cfg.MaxFiles = config.GetInt("logging_max_files", cfg.MaxFiles)
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	}
	return cfg
}

// LogDir returns {state_dir}/logs, or {TMPDIR}/backoffice/logs when the
// state directory cannot be written.
func LogDir() (string, error) {
	var candidates []string
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		candidates = append(candidates, filepath.Join(stateDir, "logs"))
	}
	candidates = append(candidates, filepath.Join(os.TempDir(), "backoffice", "logs"))

	var lastErr error
	for _, dir := range candidates {
		if lastErr = writable(dir); lastErr == nil {
			return dir, nil
		}
	}
	return "", lastErr
}

// writable creates dir if needed and probes it with a temporary file.
func writable(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("log dir %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
