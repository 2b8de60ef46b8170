package events

import (
	"time"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProviderRegistered   EventType = "provider_registered"
	EventPatientRegistered    EventType = "patient_registered"
	EventPatientEmailVerified EventType = "patient_email_verified"
	EventPatientPhoneVerified EventType = "patient_phone_verified"
	EventPatientDeactivated   EventType = "patient_deactivated"
)

// Event represents a domain event emitted by services. Payloads never carry
// password hashes or other secret material.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProviderRegisteredPayload payload.
type ProviderRegisteredPayload struct {
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

// PatientRegisteredPayload payload.
type PatientRegisteredPayload struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// VerificationChangedPayload payload for email/phone verification flips.
type VerificationChangedPayload struct {
	Verified bool `json:"verified"`
}
