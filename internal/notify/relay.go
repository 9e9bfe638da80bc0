// Package notify relays fetch and mutation outcomes to a display host.
package notify

import (
	"strings"

	"github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/logging"
)

// Outcome is anything that reports success or failure with a message.
// api.Result satisfies it.
type Outcome interface {
	IsOk() bool
	Message() string
}

// Titles are the headings used by ShowAPIResponse.
type Titles struct {
	Success string
	Error   string
}

// Relay forwards messages to a host. A nil Relay, or one without a host,
// drops messages silently.
type Relay struct {
	host   errors.ErrorHandler
	logger logging.Logger
	screen string
}

// New returns a relay for one screen.
func New(host errors.ErrorHandler, logger logging.Logger, screen string) *Relay {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Relay{host: host, logger: logger.With("screen", screen), screen: screen}
}

// ShowSuccess displays a success message.
func (r *Relay) ShowSuccess(title, message string) {
	if r == nil {
		return
	}
	text := compose(title, message)
	r.logger.Info("notify", "level", "success", "text", text)
	if r.host != nil {
		r.host.Success(text)
	}
}

// ShowError displays an error message.
func (r *Relay) ShowError(title, message string) {
	if r == nil {
		return
	}
	text := compose(title, message)
	r.logger.Warn("notify", "level", "error", "text", text)
	if r.host != nil {
		r.host.Error(text)
	}
}

// ShowAPIResponse branches on the outcome. A nil outcome counts as failure.
func (r *Relay) ShowAPIResponse(outcome Outcome, titles Titles) {
	if outcome == nil {
		r.ShowError(titles.Error, "")
		return
	}
	if outcome.IsOk() {
		r.ShowSuccess(titles.Success, outcome.Message())
		return
	}
	r.ShowError(titles.Error, outcome.Message())
}

// compose joins title and message as "title: message", dropping empty parts.
func compose(title, message string) string {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	switch {
	case title == "":
		return message
	case message == "":
		return title
	default:
		return title + ": " + message
	}
}
