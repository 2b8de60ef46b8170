package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/healthcare-accounts/internal/api/dto"
	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/service"
)

// ProvidersHandler exposes provider registration and login endpoints.
type ProvidersHandler struct {
	auth *service.AuthService
}

// NewProvidersHandler constructs handler.
func NewProvidersHandler(authService *service.AuthService) *ProvidersHandler {
	return &ProvidersHandler{auth: authService}
}

// Register handles POST /api/v1/provider/register.
func (h *ProvidersHandler) Register(c *fiber.Ctx) error {
	var req dto.ProviderRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	provider, err := h.auth.RegisterProvider(c.Context(), service.ProviderRegistration{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Password:          req.Password,
		Specialization:    req.Specialization,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		ClinicAddress:     domain.Address(req.ClinicAddress),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.OK(
		"Provider registered successfully",
		dto.NewProviderProfile(provider),
	))
}

// Login handles POST /api/v1/provider/login.
func (h *ProvidersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.LoginProvider(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	profile := dto.NewProviderProfile(result.Provider)
	return c.JSON(dto.OK("Login successful", dto.LoginData{
		AccessToken: result.AccessToken,
		ExpiresIn:   result.ExpiresIn,
		TokenType:   result.TokenType,
		Provider:    profile,
	}))
}
