package usage

import "errors"

// unknownEventError signals a publish for an event name nobody produces.
type unknownEventError struct{ name string }

func (e unknownEventError) Error() string { return "unknown event: " + e.name }

// ErrUnknownEvent returns an error for an unrecognized lifecycle event name.
func ErrUnknownEvent(name string) error { return unknownEventError{name: name} }

// IsUnknownEvent reports whether err indicates an unrecognized event name.
func IsUnknownEvent(err error) bool {
	var ue unknownEventError
	return errors.As(err, &ue)
}
