package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/validation"
)

var today = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func TestEmail(t *testing.T) {
	normalized, err := validation.Email("email", "Jane.Doe@Example.COM")
	require.Nil(t, err)
	assert.Equal(t, "jane.doe@example.com", normalized)

	cases := map[string]string{
		"empty":          "",
		"no at":          "janedoe.example.com",
		"no domain dot":  "jane@localhost",
		"spaces inside":  "jane doe@example.com",
		"trailing angle": "jane@example.com>",
	}
	for name, value := range cases {
		_, err := validation.Email("email", value)
		assert.NotNil(t, err, name)
	}
}

func TestPasswordStrength(t *testing.T) {
	assert.Nil(t, validation.PasswordStrength("password", "Str0ng!pass"))

	cases := map[string]string{
		"too short":    "S7!a",
		"no uppercase": "str0ng!pass",
		"no lowercase": "STR0NG!PASS",
		"no digit":     "Strong!pass",
		"no symbol":    "Str0ngpass",
	}
	for name, value := range cases {
		err := validation.PasswordStrength("password", value)
		require.NotNil(t, err, name)
		assert.Equal(t, validation.ReasonWeakPassword, err.Reason, name)
	}
}

func TestPasswordConfirmation(t *testing.T) {
	assert.Nil(t, validation.PasswordConfirmation("confirm_password", "Str0ng!pass", "Str0ng!pass"))

	err := validation.PasswordConfirmation("confirm_password", "Str0ng!pass", "Str0ng!pas")
	require.NotNil(t, err)
	assert.Equal(t, validation.ReasonPasswordMismatch, err.Reason)
}

func TestPhone(t *testing.T) {
	for _, value := range []string{
		"5551234567",
		"+15551234567",
		"(555) 123-4567",
		"555.123.4567",
	} {
		assert.Nil(t, validation.Phone("phone_number", value), value)
	}

	for _, value := range []string{
		"",
		"123456789",        // 9 digits
		"1234567890123456", // 16 digits
		"555-CALL-NOW",
	} {
		assert.NotNil(t, validation.Phone("phone_number", value), value)
	}
}

func TestPostalCode(t *testing.T) {
	assert.Nil(t, validation.PostalCode("zip", "12345"))
	assert.Nil(t, validation.PostalCode("zip", "12345-6789"))

	for _, value := range []string{"", "1234", "123456", "12345-678", "ABCDE"} {
		assert.NotNil(t, validation.PostalCode("zip", value), value)
	}
}

func TestDateOfBirth(t *testing.T) {
	dob, err := validation.DateOfBirth("date_of_birth", "1990-03-20", today)
	require.Nil(t, err)
	assert.Equal(t, time.Date(1990, 3, 20, 0, 0, 0, 0, time.UTC), dob)

	_, err = validation.DateOfBirth("date_of_birth", "2030-01-01", today)
	require.NotNil(t, err)
	assert.Equal(t, validation.ReasonDateInFuture, err.Reason)

	_, err = validation.DateOfBirth("date_of_birth", "not-a-date", today)
	assert.NotNil(t, err)

	_, err = validation.DateOfBirth("date_of_birth", "", today)
	require.NotNil(t, err)
	assert.Equal(t, validation.ReasonMissingField, err.Reason)
}

// The age floor counts completed years to the day: a thirteenth birthday
// today passes, tomorrow's does not.
func TestDateOfBirth_AgeBoundary(t *testing.T) {
	_, err := validation.DateOfBirth("date_of_birth", "2012-06-15", today)
	assert.Nil(t, err, "turns 13 today")

	_, err = validation.DateOfBirth("date_of_birth", "2012-06-16", today)
	require.NotNil(t, err, "turns 13 tomorrow")
	assert.Equal(t, validation.ReasonUnderage, err.Reason)
}

func TestAge(t *testing.T) {
	dob := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, validation.Age(dob, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, validation.Age(dob, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGenderValue(t *testing.T) {
	for _, value := range []string{"male", "female", "other", "prefer_not_to_say"} {
		g, err := validation.GenderValue("gender", value)
		require.Nil(t, err, value)
		assert.Equal(t, domain.Gender(value), g)
	}

	_, err := validation.GenderValue("gender", "unknown")
	require.NotNil(t, err)
	assert.Equal(t, validation.ReasonInvalidEnumValue, err.Reason)

	_, err = validation.GenderValue("gender", "")
	require.NotNil(t, err)
	assert.Equal(t, validation.ReasonMissingField, err.Reason)
}

func TestRequired(t *testing.T) {
	assert.Nil(t, validation.Required("first_name", "Jane"))
	assert.NotNil(t, validation.Required("first_name", ""))
	assert.NotNil(t, validation.Required("first_name", "   "))
}

func TestErrors_Aggregation(t *testing.T) {
	var errs validation.Errors
	assert.True(t, errs.Empty())

	errs.Add(
		validation.Required("first_name", ""),
		validation.Required("last_name", "Doe"), // nil, ignored
		validation.PasswordStrength("password", "short"),
		validation.PasswordStrength("password", "nodigits!"),
	)

	assert.False(t, errs.Empty())
	details := errs.Details()
	assert.Len(t, details, 2)
	assert.Len(t, details["password"], 2)
	assert.Contains(t, details, "first_name")
}
