package domain

import "time"

// Address is a postal address attached to a clinic or patient.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Provider models a registered healthcare provider account.
type Provider struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	PasswordHash       string
	Specialization     string
	LicenseNumber      string
	YearsOfExperience  *int
	ClinicAddress      Address
	VerificationStatus VerificationStatus
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
