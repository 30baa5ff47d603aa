// internal/fixtures/fixtures.go

// Package fixtures generates test data and holds the well-known accounts of
// the public demo storefront.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Sauce Demo accounts. The password is shared by all of them.
const (
	StandardUser      = "standard_user"
	LockedOutUser     = "locked_out_user"
	ProblemUser       = "problem_user"
	PerformanceUser   = "performance_glitch_user"
	SaucePassword     = "secret_sauce"
	InvalidUser       = "invalid_user"
	InvalidPassword   = "wrong_password"
	LockedOutFragment = "locked out"
)

// Customer fills the checkout information step.
type Customer struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// CheckoutCustomer is the customer the checkout scenarios use.
var CheckoutCustomer = Customer{FirstName: "John", LastName: "Doe", PostalCode: "12345"}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomEmail returns a unique address of the form user_<8 hex>@example.com.
func RandomEmail() string {
	return "user_" + uuid.NewString()[:8] + "@example.com"
}

// RandomString returns n random alphanumerics. Non-positive n gives "".
func RandomString(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphanumeric[rand.IntN(len(alphanumeric))])
	}
	return b.String()
}

// RandomPhone returns a ten digit South African mobile number starting 072.
func RandomPhone() string {
	return fmt.Sprintf("072%07d", 1_000_000+rand.IntN(9_000_000))
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// ExtractCurrencyValue parses a displayed price such as "R 1,299.00" or "$29.99".
func ExtractCurrencyValue(text string) (float64, error) {
	digits := nonNumeric.ReplaceAllString(text, "")
	if digits == "" {
		return 0, fmt.Errorf("no amount in %q", text)
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount in %q: %w", text, err)
	}
	return v, nil
}

var allDigits = regexp.MustCompile(`^\d+$`)

func IsNumeric(s string) bool {
	return allDigits.MatchString(s)
}

// Truncate shortens s to n runes followed by "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
