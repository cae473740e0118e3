package tagparser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOption matches every UnknownOptionError.
	ErrUnknownOption = errors.New("unknown option")
	// ErrMalformedTag matches every MalformedTagError.
	ErrMalformedTag = errors.New("malformed tag")
)

// UnknownOptionError reports a modifier letter the tag kind does not accept.
type UnknownOptionError struct {
	Option   rune
	Kind     Kind
	Position Position
}

// Error formats the message as "Unknown option 'u' in {{N:...}} tag".
func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("Unknown option '%c' in {{%s:...}} tag", e.Option, e.Kind)
}

// Is reports whether target is ErrUnknownOption.
func (e *UnknownOptionError) Is(target error) bool {
	return target == ErrUnknownOption
}

// MalformedTagError reports a {{...}} span that cannot be split into a
// kind and a payload.
type MalformedTagError struct {
	Text     string
	Position Position
	Reason   string
}

// Error includes the tag text and where it starts in the template.
func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed tag %q at line %d, column %d: %s",
		e.Text, e.Position.Line, e.Position.Col, e.Reason)
}

// Is reports whether target is ErrMalformedTag.
func (e *MalformedTagError) Is(target error) bool {
	return target == ErrMalformedTag
}
