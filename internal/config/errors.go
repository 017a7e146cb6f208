package config

import "fmt"

// Error reports configuration that is missing or unusable. It is returned
// before any AWS call depending on that configuration is made.
type Error struct {
	Inner   error
	Message string
}

func (e *Error) Error() string {
	if e.Inner == nil {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Message, e.Inner)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func newError(message string, err error) error {
	return &Error{
		Message: message,
		Inner:   err,
	}
}
