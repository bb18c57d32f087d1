package params

import "errors"

// Errors returned by the parameter registry and the token codec.
var (
	// ErrStringRange is returned when a range over strings is requested.
	ErrStringRange = errors.New("string not supported for ranges")

	// ErrUnsupportedType is returned when a parameter is declared with an
	// element type other than integer, float, or string.
	ErrUnsupportedType = errors.New("type not supported as a parameter")

	// ErrDuplicateName is returned when a parameter with the same name is
	// already registered.
	ErrDuplicateName = errors.New("parameter already exists")

	// ErrParseToken is returned when a serialized sample token does not
	// match the name§kind§value shape or names an unknown kind.
	ErrParseToken = errors.New("could not parse sample token")

	// ErrEmptyParam is returned when a registered parameter has no valid
	// step at all (empty range or empty item list).
	ErrEmptyParam = errors.New("parameter has no valid steps")
)
