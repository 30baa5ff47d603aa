// internal/webdriver/errors.go
package webdriver

import (
	"errors"
	"strings"
)

var (
	// ErrNoSuchElement means the element is not in the DOM (yet).
	ErrNoSuchElement = errors.New("no such element")
	// ErrStaleElement means a previously located handle no longer refers to a live node.
	ErrStaleElement = errors.New("stale element reference")
	// ErrClickIntercepted means another element would receive the click.
	ErrClickIntercepted = errors.New("element click intercepted")
	// ErrNotInteractable means the element exists but cannot take input right now.
	ErrNotInteractable = errors.New("element not interactable")
	// ErrUnsupported is returned by backends for operations they cannot express.
	ErrUnsupported = errors.New("operation not supported by driver")
)

// IsTransient reports whether err means "transiently absent": the element is
// not there yet or the handle went stale. Pollers treat these as "not ready".
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoSuchElement) || errors.Is(err, ErrStaleElement)
}

// messageClasses maps wire-level error text onto the sentinel errors. The keys are the
// W3C WebDriver error codes plus the CDP and Playwright phrasings of the same conditions.
var messageClasses = []struct {
	fragment string
	sentinel error
}{
	{"no such element", ErrNoSuchElement},
	{"unable to locate element", ErrNoSuchElement},
	{"stale element reference", ErrStaleElement},
	{"node with given id", ErrStaleElement},
	{"no node with given id", ErrStaleElement},
	{"node is detached", ErrStaleElement},
	{"element is not attached", ErrStaleElement},
	{"cannot find context with specified id", ErrStaleElement},
	{"element click intercepted", ErrClickIntercepted},
	{"intercepts pointer events", ErrClickIntercepted},
	{"is not clickable at point", ErrClickIntercepted},
	{"element not interactable", ErrNotInteractable},
	{"element is not visible", ErrNotInteractable},
	{"element is not enabled", ErrNotInteractable},
	{"invalid element state", ErrNotInteractable},
}

// Classify returns the sentinel error matching msg, or nil when msg is not recognised.
func Classify(msg string) error {
	lower := strings.ToLower(msg)
	for _, c := range messageClasses {
		if strings.Contains(lower, c.fragment) {
			return c.sentinel
		}
	}
	return nil
}

// classifiedError keeps the backend's original error while matching a sentinel.
type classifiedError struct {
	sentinel error
	cause    error
}

func (e *classifiedError) Error() string { return e.cause.Error() }

func (e *classifiedError) Is(target error) bool { return target == e.sentinel }

func (e *classifiedError) Unwrap() error { return e.cause }

// Wrap annotates a backend error with the sentinel its message maps to. Errors
// that already match a sentinel, or that cannot be classified, are returned unchanged.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range []error{ErrNoSuchElement, ErrStaleElement, ErrClickIntercepted, ErrNotInteractable, ErrUnsupported} {
		if errors.Is(err, s) {
			return err
		}
	}
	if sentinel := Classify(err.Error()); sentinel != nil {
		return &classifiedError{sentinel: sentinel, cause: err}
	}
	return err
}
