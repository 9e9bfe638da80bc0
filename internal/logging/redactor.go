package logging

import (
	"strings"
	"unicode"
)

const redacted = "[REDACTED]"

// redactor hides the values of credential-like keys, such as api_token or
// Authorization, before they reach a log file.
type redactor struct {
	words map[string]struct{}
}

func newRedactor() *redactor {
	r := &redactor{words: map[string]struct{}{}}
	for _, w := range []string{"secret", "password", "token", "key", "auth", "authorization", "credential", "bearer"} {
		r.words[w] = struct{}{}
	}
	return r
}

// redact returns a copy of the key-value pairs with sensitive values
// replaced. Non-string keys and a dangling last element are kept as is.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := append([]any(nil), pairs...)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && r.isSensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

// isSensitive matches whole words of key, so "X-Api-Key" is sensitive and
// "keyboard" is not.
func (r *redactor) isSensitive(key string) bool {
	words := strings.FieldsFunc(strings.ToLower(key), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for _, w := range words {
		if _, ok := r.words[w]; ok {
			return true
		}
	}
	return false
}
