// Package api provides the backend client used by every list view.
// Responses are decoded from the {success, data, message} envelope into
// Result values so callers branch on a typed outcome instead of raw JSON.
package api

// UnknownTotal is the total reported for endpoints that return a bare array
// instead of {items, total}.
const UnknownTotal = -1

// Result is either Ok(value) or Err(message).
type Result[T any] struct {
	value   T
	message string
	ok      bool
}

// Ok returns a successful result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// OkWithMessage returns a successful result carrying the backend message.
func OkWithMessage[T any](value T, message string) Result[T] {
	return Result[T]{value: value, message: message, ok: true}
}

// Fail returns a failed result with a user-facing message.
func Fail[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// IsOk reports whether the result is successful.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the wrapped value. It is the zero value for failures.
func (r Result[T]) Value() T {
	return r.value
}

// Message returns the backend message, if any.
func (r Result[T]) Message() string {
	return r.message
}

// Unwrap returns the value and whether the result is successful.
func (r Result[T]) Unwrap() (T, bool) {
	return r.value, r.ok
}

// Match calls onOk or onErr depending on the outcome.
func (r Result[T]) Match(onOk func(T), onErr func(message string)) {
	if r.ok {
		if onOk != nil {
			onOk(r.value)
		}
		return
	}
	if onErr != nil {
		onErr(r.message)
	}
}

// Outcome is the type-erased view of a Result used by the notification relay.
type Outcome interface {
	IsOk() bool
	Message() string
}

var _ Outcome = Result[Empty]{}

// Empty is the payload of mutations that return no data.
type Empty struct{}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ListResult is the result of a list endpoint.
type ListResult[T any] = Result[Page[T]]

// Blob is a downloaded file.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// BlobResult is the result of a download endpoint.
type BlobResult = Result[Blob]
