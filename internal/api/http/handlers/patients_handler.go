package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/healthcare-accounts/internal/api/dto"
	"github.com/spec-kit/healthcare-accounts/internal/auth"
	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/service"
	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

// PatientsHandler exposes patient registration, login, and administration.
type PatientsHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(authService *service.AuthService, accountService *service.AccountService) *PatientsHandler {
	return &PatientsHandler{auth: authService, accounts: accountService}
}

// Register handles POST /api/v1/patient/register.
func (h *PatientsHandler) Register(c *fiber.Ctx) error {
	var req dto.PatientRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	registration := service.PatientRegistration{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		Address:         domain.Address(req.Address),
		MedicalHistory:  req.MedicalHistory,
	}
	if req.EmergencyContact != nil {
		contact := domain.EmergencyContact(*req.EmergencyContact)
		registration.EmergencyContact = &contact
	}
	if req.InsuranceInfo != nil {
		info := domain.InsuranceInfo(*req.InsuranceInfo)
		registration.InsuranceInfo = &info
	}

	patient, err := h.auth.RegisterPatient(c.Context(), registration)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.OK(
		"Patient registered successfully. Verification email sent.",
		dto.PatientRegisterData{
			PatientID:     patient.ID,
			Email:         patient.Email,
			PhoneNumber:   patient.PhoneNumber,
			EmailVerified: patient.EmailVerified,
			PhoneVerified: patient.PhoneVerified,
		},
	))
}

// Login handles POST /api/v1/patient/login.
func (h *PatientsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.LoginPatient(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	profile := dto.NewPatientProfile(result.Patient)
	return c.JSON(dto.OK("Login successful", dto.LoginData{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		TokenType:   result.TokenType,
		Patient:     profile,
	}))
}

// Me handles GET /api/v1/patient/me.
func (h *PatientsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Patient == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.OK("Profile retrieved", dto.NewPatientProfile(principal.Patient)))
}

// Get handles GET /api/v1/patient/:id (provider access only).
func (h *PatientsHandler) Get(c *fiber.Ctx) error {
	patient, err := h.accounts.GetPatient(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Patient retrieved", dto.NewPatientProfile(patient)))
}

// VerifyEmail handles PUT /api/v1/patient/:id/verify-email.
func (h *PatientsHandler) VerifyEmail(c *fiber.Ctx) error {
	patient, err := h.accounts.VerifyPatientEmail(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Patient email verified successfully", fiber.Map{
		"patient_id":     patient.ID,
		"email_verified": patient.EmailVerified,
	}))
}

// VerifyPhone handles PUT /api/v1/patient/:id/verify-phone.
func (h *PatientsHandler) VerifyPhone(c *fiber.Ctx) error {
	patient, err := h.accounts.VerifyPatientPhone(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Patient phone verified successfully", fiber.Map{
		"patient_id":     patient.ID,
		"phone_verified": patient.PhoneVerified,
	}))
}

// Deactivate handles PUT /api/v1/patient/:id/deactivate.
func (h *PatientsHandler) Deactivate(c *fiber.Ctx) error {
	patient, err := h.accounts.DeactivatePatient(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("Patient account deactivated successfully", fiber.Map{
		"patient_id": patient.ID,
		"is_active":  patient.Active,
	}))
}
