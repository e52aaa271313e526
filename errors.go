package ladder

import "fmt"

// ConfigError indicates an invalid ladder configuration. It is raised
// during construction, before any candle is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf(
		"invalid config field [%v]: %v",
		ce.Field,
		ce.Reason,
	)
}

func newConfigError(field, format string, args ...interface{}) error {
	return &ConfigError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// InvariantError indicates a broken controller contract, like opening
// a position while another one is open or applying a rung fill out of
// sequence. It never occurs on a normal runtime path.
type InvariantError struct {
	Reason string
}

func (ie *InvariantError) Error() string {
	return fmt.Sprintf("ladder invariant violated: %v", ie.Reason)
}

func newInvariantError(format string, args ...interface{}) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
