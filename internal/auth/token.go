package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// Verification failures. The HTTP layer collapses all three into one generic
// "invalid or expired token" message for clients.
var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedClaims  = errors.New("token claims malformed")
)

// Claims is the payload embedded in issued tokens. Role-specific fields are
// optional variants on the one type rather than separate token shapes, so the
// verifier stays uniform.
type Claims struct {
	ProviderID     string      `json:"provider_id,omitempty"`
	PatientID      string      `json:"patient_id,omitempty"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	Specialization string      `json:"specialization,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens. The clock is
// injectable so expiry behavior is testable with fixed timestamps.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager with the process-wide signing secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// IssueProviderToken mints a provider token carrying the specialization claim.
func (tm *TokenManager) IssueProviderToken(p *domain.Provider) (string, time.Time, error) {
	claims := &Claims{
		ProviderID:     p.ID,
		Email:          p.Email,
		Role:           domain.RoleProvider,
		Specialization: p.Specialization,
	}
	return tm.issue(p.Email, claims)
}

// IssuePatientToken mints a patient token; patient tokens omit specialization.
func (tm *TokenManager) IssuePatientToken(p *domain.Patient) (string, time.Time, error) {
	claims := &Claims{
		PatientID: p.ID,
		Email:     p.Email,
		Role:      domain.RolePatient,
	}
	return tm.issue(p.Email, claims)
}

func (tm *TokenManager) issue(subject string, claims *Claims) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken checks the signature before trusting anything else in the
// token, then expiry, then claim shape. No claim value is branched on until
// the signature has passed.
func (tm *TokenManager) VerifyToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrMalformedClaims
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedClaims
	}
	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}
