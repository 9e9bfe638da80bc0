package errors

import (
	"sync"
	"time"
)

// DefaultHistory is how many messages a TUIHandler keeps.
const DefaultHistory = 50

// Message is one user-facing message kept by the TUIHandler.
type Message struct {
	Text      string
	Level     Level
	Timestamp time.Time
}

// TUIHandler keeps messages for the status line. The most recent message is
// the visible one.
type TUIHandler struct {
	mu        sync.RWMutex
	messages  []Message
	limit     int
	onMessage func(msg Message)
	now       func() time.Time
}

// NewTUIHandler returns a handler that calls onMessage (if non-nil) for every
// message it receives.
func NewTUIHandler(onMessage func(msg Message)) *TUIHandler {
	return &TUIHandler{
		limit:     DefaultHistory,
		onMessage: onMessage,
		now:       time.Now,
	}
}

func (h *TUIHandler) Error(msg string)   { h.add(msg, LevelError) }
func (h *TUIHandler) Warning(msg string) { h.add(msg, LevelWarning) }
func (h *TUIHandler) Info(msg string)    { h.add(msg, LevelInfo) }
func (h *TUIHandler) Success(msg string) { h.add(msg, LevelSuccess) }

func (h *TUIHandler) add(text string, level Level) {
	h.mu.Lock()
	msg := Message{Text: text, Level: level, Timestamp: h.now()}
	h.messages = append(h.messages, msg)
	if over := len(h.messages) - h.limit; over > 0 {
		h.messages = append([]Message(nil), h.messages[over:]...)
	}
	cb := h.onMessage
	h.mu.Unlock()

	if cb != nil {
		cb(msg)
	}
}

// Latest returns the most recent message.
func (h *TUIHandler) Latest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Visible returns the most recent message if it is younger than ttl.
// A ttl of zero never expires.
func (h *TUIHandler) Visible(ttl time.Duration) (Message, bool) {
	msg, ok := h.Latest()
	if !ok {
		return Message{}, false
	}
	if ttl > 0 && h.now().Sub(msg.Timestamp) > ttl {
		return Message{}, false
	}
	return msg, true
}

// All returns a copy of the kept messages, oldest first.
func (h *TUIHandler) All() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Clear drops every kept message.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
