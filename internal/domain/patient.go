package domain

import "time"

// EmergencyContact is an optional person to reach on a patient's behalf.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// InsuranceInfo holds a patient's coverage reference.
type InsuranceInfo struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
}

// Patient models a registered patient account.
type Patient struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	PasswordHash     string
	DateOfBirth      time.Time
	Gender           Gender
	Address          Address
	EmergencyContact *EmergencyContact
	MedicalHistory   []string
	InsuranceInfo    *InsuranceInfo
	EmailVerified    bool
	PhoneVerified    bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
