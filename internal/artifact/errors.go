package artifact

import "errors"

var (
	// ErrNotFound indicates a required canonical artifact file is missing.
	ErrNotFound = errors.New("canonical artifact file not found")
)
