package orders

import (
	"regexp"
	"strings"
)

type ValidationCode string

const (
	ValidationEmpty  ValidationCode = "EMPTY"
	ValidationLength ValidationCode = "LENGTH"
	ValidationFormat ValidationCode = "FORMAT"
)

// ValidationError carries both a machine code and the message shown to the
// customer verbatim.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const orderNumberLength = 24

var orderNumberRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidateOrderNumber checks a user-supplied order identifier against the
// commerce API's 24-hex-character id scheme. Validating here avoids a round
// trip for obviously malformed input. Returns the lower-cased id on success.
func ValidateOrderNumber(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", &ValidationError{
			Code:    ValidationEmpty,
			Message: "Please enter an order number.",
		}
	}
	if len(trimmed) != orderNumberLength {
		return "", &ValidationError{
			Code:    ValidationLength,
			Message: "Order numbers are exactly 24 characters long.",
		}
	}
	if !orderNumberRegex.MatchString(trimmed) {
		return "", &ValidationError{
			Code:    ValidationFormat,
			Message: "Order numbers contain only the digits 0-9 and letters a-f.",
		}
	}
	return strings.ToLower(trimmed), nil
}
