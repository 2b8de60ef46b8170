package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/repository"
	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Role     domain.Role
	Claims   *Claims
	Provider *domain.Provider
	Patient  *domain.Patient
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	providers repository.ProviderRepository
	patients  repository.PatientRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, providers repository.ProviderRepository, patients repository.PatientRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, providers: providers, patients: patients}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.VerifyToken(parts[1])
	if err != nil {
		// expired, forged, and malformed tokens all read the same to clients
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	principal := &Principal{Role: claims.Role, Claims: claims}

	switch claims.Role {
	case domain.RoleProvider:
		provider, err := m.providers.GetByID(c.Context(), claims.ProviderID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apperrors.NewUnauthorized("invalid or expired token")
			}
			return apperrors.ToDomainError(err)
		}
		if !provider.Active {
			return apperrors.NewAccountInactive()
		}
		principal.Provider = provider
	case domain.RolePatient:
		patient, err := m.patients.GetByID(c.Context(), claims.PatientID)
		if err != nil {
			if err == repository.ErrNotFound {
				return apperrors.NewUnauthorized("invalid or expired token")
			}
			return apperrors.ToDomainError(err)
		}
		if !patient.Active {
			return apperrors.NewAccountInactive()
		}
		principal.Patient = patient
	default:
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
