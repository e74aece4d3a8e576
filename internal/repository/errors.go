package repository

import "errors"

// ErrInvalidInput is returned when a repository rejects an entry.
var ErrInvalidInput = errors.New("invalid input")
