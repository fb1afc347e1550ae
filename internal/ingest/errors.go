package ingest

import (
	"errors"
	"fmt"
)

// Setup errors. Any of them aborts loading; no partial dataset is returned.
var (
	ErrMissingTable  = errors.New("missing input table")
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrFetch         = errors.New("fetch failed")
)

// SchemaError locates a setup error in a table.
type SchemaError struct {
	Table  string
	Column string
	Line   int
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s line %d column %q: %v", e.Table, e.Line, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("%s: %v: %s", e.Table, e.Err, e.Column)
	default:
		return fmt.Sprintf("%s: %v", e.Table, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }
