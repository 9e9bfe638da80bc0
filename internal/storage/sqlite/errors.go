package sqlite

import "errors"

var (
	// ErrInvalidResource indicates an empty or malformed resource name.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrRecordNotFound indicates that a record cannot be found.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidBody indicates a document that is not a JSON object.
	ErrInvalidBody = errors.New("invalid record body")
)
