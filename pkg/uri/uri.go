// Package uri validates absolute URLs read from configuration and settings.
package uri

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValid reports whether value is a syntactically valid absolute URL.
// A scheme and a host are required; nothing is resolved over the network.
func IsValid(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	if err := validate.Var(value, "url"); err != nil {
		return false
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" || parsed.Hostname() == "" {
		return false
	}
	return validPort(parsed.Port())
}

// validPort accepts an absent port or one in 1..65535
func validPort(port string) bool {
	if port == "" {
		return true
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// IsValidValue is IsValid for untyped settings values: nil and non-strings are invalid.
func IsValidValue(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return IsValid(s)
}
