package dto

import (
	"time"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// EmergencyContactPayload mirrors domain.EmergencyContact on the wire.
type EmergencyContactPayload struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// InsuranceInfoPayload mirrors domain.InsuranceInfo on the wire.
type InsuranceInfoPayload struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
}

// PatientRegisterRequest payload for patient signup.
type PatientRegisterRequest struct {
	FirstName        string                   `json:"first_name"`
	LastName         string                   `json:"last_name"`
	Email            string                   `json:"email"`
	PhoneNumber      string                   `json:"phone_number"`
	Password         string                   `json:"password"`
	ConfirmPassword  string                   `json:"confirm_password"`
	DateOfBirth      string                   `json:"date_of_birth"`
	Gender           string                   `json:"gender"`
	Address          AddressPayload           `json:"address"`
	EmergencyContact *EmergencyContactPayload `json:"emergency_contact,omitempty"`
	MedicalHistory   []string                 `json:"medical_history,omitempty"`
	InsuranceInfo    *InsuranceInfoPayload    `json:"insurance_info,omitempty"`
}

// PatientRegisterData is the minimal registration projection; no profile
// details beyond contact points and verification state.
type PatientRegisterData struct {
	PatientID     string `json:"patient_id"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	EmailVerified bool   `json:"email_verified"`
	PhoneVerified bool   `json:"phone_verified"`
}

// PatientProfile is the public-safe projection of a patient account.
type PatientProfile struct {
	ID               string                   `json:"id"`
	FirstName        string                   `json:"first_name"`
	LastName         string                   `json:"last_name"`
	Email            string                   `json:"email"`
	PhoneNumber      string                   `json:"phone_number"`
	DateOfBirth      string                   `json:"date_of_birth"`
	Gender           string                   `json:"gender"`
	Address          AddressPayload           `json:"address"`
	EmergencyContact *EmergencyContactPayload `json:"emergency_contact,omitempty"`
	MedicalHistory   []string                 `json:"medical_history,omitempty"`
	InsuranceInfo    *InsuranceInfoPayload    `json:"insurance_info,omitempty"`
	EmailVerified    bool                     `json:"email_verified"`
	PhoneVerified    bool                     `json:"phone_verified"`
	IsActive         bool                     `json:"is_active"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// NewPatientProfile projects a patient, excluding the password hash.
func NewPatientProfile(p *domain.Patient) PatientProfile {
	profile := PatientProfile{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		PhoneNumber:    p.PhoneNumber,
		DateOfBirth:    p.DateOfBirth.Format("2006-01-02"),
		Gender:         string(p.Gender),
		Address:        AddressPayload(p.Address),
		MedicalHistory: p.MedicalHistory,
		EmailVerified:  p.EmailVerified,
		PhoneVerified:  p.PhoneVerified,
		IsActive:       p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.EmergencyContact != nil {
		contact := EmergencyContactPayload(*p.EmergencyContact)
		profile.EmergencyContact = &contact
	}
	if p.InsuranceInfo != nil {
		info := InsuranceInfoPayload(*p.InsuranceInfo)
		profile.InsuranceInfo = &info
	}
	return profile
}
