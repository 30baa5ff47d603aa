// internal/suite/expect.go
package suite

import "fmt"

// AssertionError is a scenario expectation that did not hold. It marks a
// product defect rather than a flaky interaction.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "expectation failed: " + e.Message
}

// Expect returns nil when cond holds and an *AssertionError otherwise.
func Expect(cond bool, msg string) error {
	if cond {
		return nil
	}
	return &AssertionError{Message: msg}
}

func Expectf(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}
