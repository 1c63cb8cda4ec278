package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidUUID reports whether s is a UUID in the hyphenated 36 character form.
// Any version is accepted since employee ids may come from other systems.
func IsValidUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// IDField reports value under field unless it is a valid UUID.
func IDField(errs *ValidationErrors, field, value string) {
	if !IsValidUUID(value) {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " must be a valid UUID"})
	}
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock checks a 24h "HH:MM" wall clock time.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// ParseClock returns hour and minute of a valid "HH:MM" string.
func ParseClock(s string) (hour, minute int, ok bool) {
	if !IsValidClock(s) {
		return 0, 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// MoneyField parses a monetary amount. Empty input is zero; anything that is
// not a non-negative decimal number is reported on errs under field.
func MoneyField(errs *ValidationErrors, field, value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " must be a number"})
		return decimal.Zero
	}
	if d.IsNegative() {
		*errs = append(*errs, ValidationError{Field: field, Message: field + " must not be negative"})
		return decimal.Zero
	}
	return d
}
