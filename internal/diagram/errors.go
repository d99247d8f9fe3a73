package diagram

import "errors"

// ParseError reports a document that could not be turned into a BPMN
// element tree. Metrics are never partially computed for such documents.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "diagram parse error: " + e.Reason + ": " + e.Err.Error()
	}
	return "diagram parse error: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err (or anything it wraps) is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
