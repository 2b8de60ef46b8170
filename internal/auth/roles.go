package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

// RequireProvider ensures the caller holds a provider token.
func RequireProvider() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role != domain.RoleProvider || principal.Provider == nil {
			return apperrors.NewForbidden("provider access required")
		}
		return c.Next()
	}
}

// RequirePatient ensures the caller holds a patient token.
func RequirePatient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role != domain.RolePatient || principal.Patient == nil {
			return apperrors.NewForbidden("patient access required")
		}
		return c.Next()
	}
}
