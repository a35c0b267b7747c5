package codec

import "errors"

var (
	// ErrMalformedValue reports stored text that is not a valid encoding.
	ErrMalformedValue = errors.New("codec: malformed stored value")
	// ErrUnknownDeferred reports a deferred name missing from the registry.
	ErrUnknownDeferred = errors.New("codec: unknown deferred value")
	// ErrDuplicateDeferred is returned when a name is registered twice.
	ErrDuplicateDeferred = errors.New("codec: deferred value already registered")
	// ErrUnencodable reports a leaf type that cannot be stored.
	ErrUnencodable = errors.New("codec: value cannot be encoded")
)
