package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/healthcare-accounts/internal/api/http"
	"github.com/spec-kit/healthcare-accounts/internal/api/http/handlers"
	"github.com/spec-kit/healthcare-accounts/internal/auth"
	"github.com/spec-kit/healthcare-accounts/internal/config"
	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/events"
	"github.com/spec-kit/healthcare-accounts/internal/observability"
	"github.com/spec-kit/healthcare-accounts/internal/repository"
	"github.com/spec-kit/healthcare-accounts/internal/service"
)

// memProviderRepo is an in-memory repository.ProviderRepository for
// exercising the HTTP surface without Postgres.
type memProviderRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Provider
	seq  int
}

func newMemProviderRepo() *memProviderRepo {
	return &memProviderRepo{rows: map[string]*domain.Provider{}}
}

func (r *memProviderRepo) Create(_ context.Context, provider *domain.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == provider.Email || row.PhoneNumber == provider.PhoneNumber || row.LicenseNumber == provider.LicenseNumber {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	provider.ID = fmt.Sprintf("prov-%d", r.seq)
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = provider.CreatedAt
	clone := *provider
	r.rows[provider.ID] = &clone
	return nil
}

func (r *memProviderRepo) GetByID(_ context.Context, id string) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *memProviderRepo) GetByEmail(_ context.Context, email string) (*domain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memProviderRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email || row.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProviderRepo) ExistsByLicense(_ context.Context, licenseNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

// memPatientRepo is an in-memory repository.PatientRepository.
type memPatientRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Patient
	seq  int
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{rows: map[string]*domain.Patient{}}
}

func (r *memPatientRepo) Create(_ context.Context, patient *domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == patient.Email || row.PhoneNumber == patient.PhoneNumber {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	patient.ID = fmt.Sprintf("pat-%d", r.seq)
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	clone := *patient
	r.rows[patient.ID] = &clone
	return nil
}

func (r *memPatientRepo) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *memPatientRepo) GetByEmail(_ context.Context, email string) (*domain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPatientRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email || row.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPatientRepo) SetEmailVerified(_ context.Context, id string, verified bool) error {
	return r.update(id, func(p *domain.Patient) { p.EmailVerified = verified })
}

func (r *memPatientRepo) SetPhoneVerified(_ context.Context, id string, verified bool) error {
	return r.update(id, func(p *domain.Patient) { p.PhoneVerified = verified })
}

func (r *memPatientRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.update(id, func(p *domain.Patient) { p.Active = active })
}

func (r *memPatientRepo) update(id string, apply func(*domain.Patient)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	apply(row)
	row.UpdatedAt = time.Now()
	return nil
}

type testEnv struct {
	app  *fiber.App
	auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLSeconds: 3600,
			BcryptCost:            4,
		},
	}

	providers := newMemProviderRepo()
	patients := newMemPatientRepo()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		ProviderRepo: providers,
		PatientRepo:  patients,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	accountService := service.NewAccountService(patients, dispatcher, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), providers, patients)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("healthcare-accounts", "test", nil, nil),
		Providers:      handlers.NewProvidersHandler(authService),
		Patients:       handlers.NewPatientsHandler(authService, accountService),
		AuthMiddleware: authMiddleware,
	})

	return &testEnv{app: app, auth: authService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func patientPayload() map[string]any {
	return map[string]any{
		"first_name":       "Jane",
		"last_name":        "Doe",
		"email":            "jane.doe@example.com",
		"phone_number":     "5559876543",
		"password":         "Str0ng!pass",
		"confirm_password": "Str0ng!pass",
		"date_of_birth":    "1990-03-20",
		"gender":           "female",
		"address": map[string]any{
			"street": "1 Main St",
			"city":   "Springfield",
			"state":  "IL",
			"zip":    "62701",
		},
	}
}

func providerPayload() map[string]any {
	return map[string]any{
		"first_name":     "Gregory",
		"last_name":      "House",
		"email":          "dr.house@clinic.example.com",
		"phone_number":   "5551234567",
		"password":       "Str0ng!pass",
		"specialization": "diagnostics",
		"license_number": "MD-12345",
		"clinic_address": map[string]any{
			"street": "221B Princeton Ave",
			"city":   "Princeton",
			"state":  "NJ",
			"zip":    "08540",
		},
	}
}

func (e *testEnv) registerAndLoginPatient(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/api/v1/patient/register", "", patientPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/v1/patient/login", "", map[string]any{
		"email": "jane.doe@example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["access_token"].(string)
}

func (e *testEnv) registerAndLoginProvider(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/api/v1/provider/register", "", providerPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/api/v1/provider/login", "", map[string]any{
		"email": "dr.house@clinic.example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["access_token"].(string)
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}

func TestPatientRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/patient/register", "", patientPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["patient_id"])
	assert.Equal(t, "jane.doe@example.com", data["email"])
	assert.Equal(t, false, data["email_verified"])
	assert.Equal(t, false, data["phone_verified"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")

	resp, body = env.do(t, http.MethodPost, "/api/v1/patient/login", "", map[string]any{
		"email": "jane.doe@example.com", "password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := body["data"].(map[string]any)
	assert.Equal(t, "Bearer", login["token_type"])
	assert.EqualValues(t, 3600, login["expires_in"])

	claims, err := env.auth.TokenManager().VerifyToken(login["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, domain.RolePatient, claims.Role)
	assert.Equal(t, "jane.doe@example.com", claims.Email)
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, time.Hour.Seconds(), remaining.Seconds(), 30)
}

func TestPatientRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	payload := patientPayload()
	payload["email"] = "not-an-email"
	payload["password"] = "weak"
	payload["confirm_password"] = "weak"
	payload["date_of_birth"] = "2030-01-01"

	resp, body := env.do(t, http.MethodPost, "/api/v1/patient/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "date_of_birth")
}

func TestPatientRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/patient/register", "", patientPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// same phone, different email: still a conflict, same generic message
	payload := patientPayload()
	payload["email"] = "someone.else@example.com"
	resp, body := env.do(t, http.MethodPost, "/api/v1/patient/register", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	message := body["message"].(string)
	assert.NotContains(t, message, "email")
	assert.NotContains(t, message, "phone")
}

func TestPatientLogin_GenericFailure(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/v1/patient/register", "", patientPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respUnknown, bodyUnknown := env.do(t, http.MethodPost, "/api/v1/patient/login", "", map[string]any{
		"email": "ghost@example.com", "password": "Str0ng!pass",
	})
	respWrong, bodyWrong := env.do(t, http.MethodPost, "/api/v1/patient/login", "", map[string]any{
		"email": "jane.doe@example.com", "password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	assert.Equal(t, respUnknown.StatusCode, respWrong.StatusCode)
	assert.Equal(t, bodyUnknown["message"], bodyWrong["message"])
}

func TestPatientMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLoginPatient(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/patient/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile := body["data"].(map[string]any)
	assert.Equal(t, "jane.doe@example.com", profile["email"])
	assert.Equal(t, "1990-03-20", profile["date_of_birth"])
	assert.NotContains(t, profile, "password_hash")

	resp, _ = env.do(t, http.MethodGet, "/api/v1/patient/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/patient/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPatientAdmin_ProviderGate(t *testing.T) {
	env := newTestEnv(t)
	patientToken := env.registerAndLoginPatient(t)
	providerToken := env.registerAndLoginProvider(t)

	// patient tokens cannot reach provider-only administration
	resp, _ := env.do(t, http.MethodGet, "/api/v1/patient/pat-1", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/v1/patient/pat-1", providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["data"].(map[string]any)
	assert.Equal(t, "jane.doe@example.com", profile["email"])

	resp, body = env.do(t, http.MethodPut, "/api/v1/patient/pat-1/verify-email", providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["email_verified"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/patient/pat-404", providerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatientDeactivate_BlocksLogin(t *testing.T) {
	env := newTestEnv(t)
	_ = env.registerAndLoginPatient(t)
	providerToken := env.registerAndLoginProvider(t)

	resp, body := env.do(t, http.MethodPut, "/api/v1/patient/pat-1/deactivate", providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["data"].(map[string]any)["is_active"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/patient/login", "", map[string]any{
		"email": "jane.doe@example.com", "password": "Str0ng!pass",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Account is inactive", body["message"])
}
