package repository

import "errors"

// ErrInvalidInput marks unparsable or out-of-domain user input.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound marks a reference to an item, equipment or line that is
// absent from the master data.
var ErrNotFound = errors.New("not found")
