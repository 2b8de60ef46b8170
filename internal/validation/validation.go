// Package validation holds the pure predicate and normalization functions run
// against registration input. Every function is side-effect free; callers
// decide whether to aggregate failures or stop at the first one.
package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// Failure reasons attached to FieldError. Stable identifiers, safe to match on.
const (
	ReasonMissingField      = "missing_field"
	ReasonInvalidEmail      = "invalid_email"
	ReasonWeakPassword      = "weak_password"
	ReasonPasswordMismatch  = "password_mismatch"
	ReasonInvalidPhone      = "invalid_phone_format"
	ReasonInvalidPostalCode = "invalid_postal_code"
	ReasonDateInFuture      = "date_in_future"
	ReasonUnderage          = "underage_registration"
	ReasonInvalidEnumValue  = "invalid_enum_value"
)

// FieldError describes a single validation failure. Nil means the check passed.
type FieldError struct {
	Field   string
	Reason  string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// dateLayout is the wire format for dates of birth.
const dateLayout = "2006-01-02"

// MinRegistrationAge is the COPPA floor for patient self-registration.
const MinRegistrationAge = 13

// Email checks the address shape and returns it normalized to lowercase.
// Uniqueness is the store's concern, not checked here.
func Email(field, value string) (string, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &FieldError{Field: field, Reason: ReasonMissingField, Message: "email is required"}
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", &FieldError{Field: field, Reason: ReasonInvalidEmail, Message: "invalid email format"}
	}
	// mail.ParseAddress accepts bare hostnames; require a dotted domain.
	at := strings.LastIndex(value, "@")
	if at < 0 || !strings.Contains(value[at+1:], ".") {
		return "", &FieldError{Field: field, Reason: ReasonInvalidEmail, Message: "invalid email format"}
	}
	return strings.ToLower(value), nil
}

// PasswordStrength enforces length >= 8 plus at least one uppercase letter,
// one lowercase letter, one digit, and one symbol.
func PasswordStrength(field, password string) *FieldError {
	if len(password) < 8 {
		return &FieldError{Field: field, Reason: ReasonWeakPassword, Message: "password must be at least 8 characters long"}
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	switch {
	case !upper:
		return &FieldError{Field: field, Reason: ReasonWeakPassword, Message: "password must contain at least one uppercase letter"}
	case !lower:
		return &FieldError{Field: field, Reason: ReasonWeakPassword, Message: "password must contain at least one lowercase letter"}
	case !digit:
		return &FieldError{Field: field, Reason: ReasonWeakPassword, Message: "password must contain at least one number"}
	case !symbol:
		return &FieldError{Field: field, Reason: ReasonWeakPassword, Message: "password must contain at least one special character"}
	}
	return nil
}

// PasswordConfirmation checks the confirm field matches the original password.
func PasswordConfirmation(field, password, confirm string) *FieldError {
	if confirm != password {
		return &FieldError{Field: field, Reason: ReasonPasswordMismatch, Message: "passwords do not match"}
	}
	return nil
}

// Phone strips separators and requires 10-15 digits, with an optional
// leading "+" for international numbers.
func Phone(field, value string) *FieldError {
	value = strings.TrimSpace(value)
	if value == "" {
		return &FieldError{Field: field, Reason: ReasonMissingField, Message: "phone number is required"}
	}
	trimmed := strings.TrimPrefix(value, "+")
	digits := 0
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separators are ignored
		default:
			return &FieldError{Field: field, Reason: ReasonInvalidPhone, Message: "phone number must be between 10-15 digits"}
		}
	}
	if digits < 10 || digits > 15 {
		return &FieldError{Field: field, Reason: ReasonInvalidPhone, Message: "phone number must be between 10-15 digits"}
	}
	return nil
}

// PostalCode validates a US ZIP code, optionally with the +4 extension.
func PostalCode(field, value string) *FieldError {
	if !zipPattern.MatchString(strings.TrimSpace(value)) {
		return &FieldError{Field: field, Reason: ReasonInvalidPostalCode, Message: "invalid ZIP code format"}
	}
	return nil
}

// DateOfBirth parses the date, requires it to be strictly in the past, and
// enforces the COPPA minimum age. Age is computed to the day: a birthday that
// has not yet occurred this year does not count as a completed year.
func DateOfBirth(field, value string, now time.Time) (time.Time, *FieldError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &FieldError{Field: field, Reason: ReasonMissingField, Message: "date of birth is required"}
	}
	dob, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Reason: ReasonDateInFuture, Message: "date of birth must be a valid date (YYYY-MM-DD)"}
	}
	today := now.UTC()
	if !dob.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)) {
		return time.Time{}, &FieldError{Field: field, Reason: ReasonDateInFuture, Message: "date of birth must be in the past"}
	}
	if Age(dob, today) < MinRegistrationAge {
		return time.Time{}, &FieldError{Field: field, Reason: ReasonUnderage, Message: "must be at least 13 years old to register"}
	}
	return dob, nil
}

// Age returns completed whole years between dob and now.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// GenderValue checks membership in the closed gender set.
func GenderValue(field, value string) (domain.Gender, *FieldError) {
	g := domain.Gender(strings.TrimSpace(value))
	if g == "" {
		return "", &FieldError{Field: field, Reason: ReasonMissingField, Message: "gender is required"}
	}
	if !g.Valid() {
		return "", &FieldError{Field: field, Reason: ReasonInvalidEnumValue, Message: "gender must be one of male, female, other, prefer_not_to_say"}
	}
	return g, nil
}

// Required fails when the value is empty after trimming whitespace.
func Required(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Reason: ReasonMissingField, Message: field + " is required"}
	}
	return nil
}

// Errors aggregates field failures keyed by field name, so a client sees every
// validation problem in one response.
type Errors struct {
	byField map[string][]string
	order   []string
}

// Add records a failure; nil errors are ignored so calls can be chained
// directly off validators.
func (e *Errors) Add(errs ...*FieldError) {
	for _, fe := range errs {
		if fe == nil {
			continue
		}
		if e.byField == nil {
			e.byField = make(map[string][]string)
		}
		if _, seen := e.byField[fe.Field]; !seen {
			e.order = append(e.order, fe.Field)
		}
		e.byField[fe.Field] = append(e.byField[fe.Field], fe.Message)
	}
}

// Empty reports whether any failure was recorded.
func (e *Errors) Empty() bool {
	return len(e.byField) == 0
}

// Details renders the aggregate as a response-shaped map.
func (e *Errors) Details() map[string]any {
	details := make(map[string]any, len(e.byField))
	for _, field := range e.order {
		details[field] = e.byField[field]
	}
	return details
}
