package export

import "errors"

var (
	ErrBadHeader  = errors.New("export header mismatch")
	ErrBadValue   = errors.New("export value malformed")
	ErrSinkConfig = errors.New("sink not configured")
	ErrSinkNon2xx = errors.New("export sink non-2xx")
)
