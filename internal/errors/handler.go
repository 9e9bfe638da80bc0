// Package errors hosts user-facing messages. The CLI prints them in color,
// the TUI keeps them for its status line.
package errors

import (
	"sync"

	"github.com/backoffice-suite/backoffice/internal/colors"
)

// ErrorHandler is a display host for user-facing messages.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// Level classifies a message.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

// String returns the severity name used by the list views ("error",
// "warning", "info", "success").
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ColorOutput is the console the CLIHandler writes to.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages to stdout/stderr and counts the errors it has
// shown so a command can fail with a non-zero exit status.
type CLIHandler struct {
	out ColorOutput

	mu       sync.Mutex
	errors   int
	warnings int
	quiet    bool
}

// NewCLIHandler returns a handler writing to out.
func NewCLIHandler(out ColorOutput) *CLIHandler {
	return &CLIHandler{out: out}
}

// NewConsoleHandler returns a CLIHandler writing through the colors package.
func NewConsoleHandler() *CLIHandler {
	return NewCLIHandler(consoleOutput{})
}

// SetQuiet suppresses info and success messages. Errors and warnings are
// always shown.
func (h *CLIHandler) SetQuiet(quiet bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.quiet = quiet
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	h.errors++
	h.mu.Unlock()
	h.out.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.mu.Lock()
	h.warnings++
	h.mu.Unlock()
	h.out.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	if h.isQuiet() {
		return
	}
	h.out.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	if h.isQuiet() {
		return
	}
	h.out.Success(msg)
}

// ErrorCount returns how many errors were shown.
func (h *CLIHandler) ErrorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errors
}

// WarningCount returns how many warnings were shown.
func (h *CLIHandler) WarningCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.warnings
}

func (h *CLIHandler) isQuiet() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.quiet
}

type consoleOutput struct{}

func (consoleOutput) Error(msgs ...string)   { colors.Error(msgs...) }
func (consoleOutput) Warning(msgs ...string) { colors.Warning(msgs...) }
func (consoleOutput) Info(msgs ...string)    { colors.Info(msgs...) }
func (consoleOutput) Success(msgs ...string) { colors.Success(msgs...) }
