// internal/webdriver/locator.go
package webdriver

import (
	"fmt"
	"strings"
)

// Strategy selects how a Locator is resolved against the page.
type Strategy int

const (
	ByID Strategy = iota
	ByClassName
	ByCSSSelector
	ByXPath
)

var strategyNames = map[Strategy]string{
	ByID:          "id",
	ByClassName:   "class",
	ByCSSSelector: "css",
	ByXPath:       "xpath",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Locator describes how to find one or more elements on the current page.
// It is a value type and is never mutated after construction.
type Locator struct {
	Strategy Strategy
	Value    string
}

func ID(id string) Locator { return Locator{Strategy: ByID, Value: id} }
func ClassName(class string) Locator { return Locator{Strategy: ByClassName, Value: class} }
func CSS(selector string) Locator { return Locator{Strategy: ByCSSSelector, Value: selector} }
func XPath(expression string) Locator { return Locator{Strategy: ByXPath, Value: expression} }

// String renders the locator in the same "strategy=value" form accepted by ParseLocator.
func (l Locator) String() string {
	return l.Strategy.String() + "=" + l.Value
}

// IsZero reports whether the locator was never initialized.
func (l Locator) IsZero() bool {
	return l.Value == ""
}

// CSSSelector converts id, class and css locators into a CSS selector.
// XPath locators cannot be expressed in CSS and report ok == false.
func (l Locator) CSSSelector() (selector string, ok bool) {
	switch l.Strategy {
	case ByID:
		return "#" + cssEscape(l.Value), true
	case ByClassName:
		return "." + cssEscape(l.Value), true
	case ByCSSSelector:
		return l.Value, true
	default:
		return "", false
	}
}

// ParseLocator parses the "strategy=value" form used in configuration files and flags.
// A value without a recognised prefix is treated as a CSS selector, and values
// starting with "/" or "(" are treated as XPath.
func ParseLocator(s string) (Locator, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	if prefix, value, found := strings.Cut(trimmed, "="); found {
		var strategy Strategy
		known := true
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case "id":
			strategy = ByID
		case "class", "classname", "class_name":
			strategy = ByClassName
		case "css", "selector":
			strategy = ByCSSSelector
		case "xpath":
			strategy = ByXPath
		default:
			known = false
		}
		if known {
			if value == "" {
				return Locator{}, fmt.Errorf("locator %q has an empty value", s)
			}
			return Locator{Strategy: strategy, Value: value}, nil
		}
	}

	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "(") {
		return XPath(trimmed), nil
	}
	return CSS(trimmed), nil
}

// Alternatives is an ordered list of locators for the same UI concept across page variants.
type Alternatives []Locator

func (a Alternatives) String() string {
	parts := make([]string, len(a))
	for i, l := range a {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

// cssEscape escapes characters that would otherwise break an id or class selector.
func cssEscape(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r > 0x7f:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
