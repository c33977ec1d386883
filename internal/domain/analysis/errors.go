package analysis

import "errors"

// ErrInvalidInput is returned when the entry text or user id is empty.
var ErrInvalidInput = errors.New("invalid input")
