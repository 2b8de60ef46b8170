package domain

// Role differentiates provider vs patient accounts and tokens.
type Role string

const (
	RoleProvider Role = "provider"
	RolePatient  Role = "patient"
)

// Valid reports whether the role is a known account role.
func (r Role) Valid() bool {
	return r == RoleProvider || r == RolePatient
}

// Gender enumerates the closed set accepted at patient registration.
type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Valid reports whether the gender value is part of the closed set.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// VerificationStatus tracks provider credential review.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)
