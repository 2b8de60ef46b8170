package dto

import (
	"time"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// AddressPayload mirrors domain.Address on the wire.
type AddressPayload struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// ProviderRegisterRequest payload for provider signup.
type ProviderRegisterRequest struct {
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Email             string         `json:"email"`
	PhoneNumber       string         `json:"phone_number"`
	Password          string         `json:"password"`
	Specialization    string         `json:"specialization"`
	LicenseNumber     string         `json:"license_number"`
	YearsOfExperience *int           `json:"years_of_experience,omitempty"`
	ClinicAddress     AddressPayload `json:"clinic_address"`
}

// LoginRequest payload for provider and patient login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProviderProfile is the public-safe projection of a provider account.
type ProviderProfile struct {
	ID                 string         `json:"id"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	Email              string         `json:"email"`
	PhoneNumber        string         `json:"phone_number"`
	Specialization     string         `json:"specialization"`
	LicenseNumber      string         `json:"license_number"`
	YearsOfExperience  *int           `json:"years_of_experience,omitempty"`
	ClinicAddress      AddressPayload `json:"clinic_address"`
	VerificationStatus string         `json:"verification_status"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// NewProviderProfile projects a provider, excluding the password hash.
func NewProviderProfile(p *domain.Provider) ProviderProfile {
	return ProviderProfile{
		ID:                 p.ID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		Specialization:     p.Specialization,
		LicenseNumber:      p.LicenseNumber,
		YearsOfExperience:  p.YearsOfExperience,
		ClinicAddress:      AddressPayload(p.ClinicAddress),
		VerificationStatus: string(p.VerificationStatus),
		IsActive:           p.Active,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
