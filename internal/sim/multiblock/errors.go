package multiblock

import "errors"

var (
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidKey        = errors.New("invalid key")
	ErrUnknownType       = errors.New("unknown block type")
	ErrUndefinedKey      = errors.New("undefined key")
	ErrDuplicatePosition = errors.New("duplicate position")
	ErrMalformed         = errors.New("malformed document")
)

// ParseError reports why a structure failed to load. It unwraps to one of the
// Err* kinds above.
type ParseError struct {
	ID     ID
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	msg := "multiblock " + e.ID.String() + ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
