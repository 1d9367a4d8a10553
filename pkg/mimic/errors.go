package mimic

import "strings"

// ConfigurationError is returned when generation cannot start or continue
// because of how it was configured: an unresolvable custom type, a kind with
// no registered primitive generator or invalid options.
type ConfigurationError struct {
	// Path is the dotted field path the error relates to, if any.
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *ConfigurationError) Cause() error { return e.Err }

// ExtractionError is returned when a schema cannot be resolved or introspected.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Path == "" {
		return "failed to extract schema paths: " + e.Err.Error()
	}
	return "failed to extract schema path " + e.Path + ": " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *ExtractionError) Cause() error { return e.Err }
