package source

import "errors"

var (
	// ErrSourceNotFound indicates no raw event file exists for the dataset.
	ErrSourceNotFound = errors.New("raw source file not found")
	// ErrSchema indicates a required field is absent after header harmonization.
	ErrSchema = errors.New("required field missing from source schema")
)
