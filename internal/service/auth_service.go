package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/healthcare-accounts/internal/auth"
	"github.com/spec-kit/healthcare-accounts/internal/config"
	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/events"
	"github.com/spec-kit/healthcare-accounts/internal/repository"
	"github.com/spec-kit/healthcare-accounts/internal/validation"
	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

// TokenType is the scheme clients present issued tokens under.
const TokenType = "Bearer"

// ProviderRegistration is the transient input aggregate for provider signup.
// It is discarded once a credential row or a validation error is produced.
type ProviderRegistration struct {
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Password          string
	Specialization    string
	LicenseNumber     string
	YearsOfExperience *int
	ClinicAddress     domain.Address
}

// PatientRegistration is the transient input aggregate for patient signup.
type PatientRegistration struct {
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	Password         string
	ConfirmPassword  string
	DateOfBirth      string
	Gender           string
	Address          domain.Address
	EmergencyContact *domain.EmergencyContact
	MedicalHistory   []string
	InsuranceInfo    *domain.InsuranceInfo
}

// LoginResult carries the issued token and a public-safe profile projection.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	TokenType   string
	Provider    *domain.Provider
	Patient     *domain.Patient
}

// AuthService coordinates registration and login flows. It composes the
// validation engine, the password hasher, the credential store, and the token
// issuer; each component depends only on the ones below it.
type AuthService struct {
	providers  repository.ProviderRepository
	patients   repository.PatientRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	ProviderRepo repository.ProviderRepository
	PatientRepo  repository.PatientRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		providers:  deps.ProviderRepo,
		patients:   deps.PatientRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for age checks and token expiry.
// Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	s.tokenMgr.WithClock(now)
	return s
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// LoginProvider authenticates a provider and issues a role-tagged token.
// Unknown email and wrong password produce the same error so responses cannot
// be used to enumerate accounts.
func (s *AuthService) LoginProvider(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, vErr := validation.Email("email", email)
	if vErr != nil || password == "" {
		return nil, apperrors.NewInvalidCredentials()
	}

	provider, err := s.providers.GetByEmail(ctx, normalized)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewInvalidCredentials()
		}
		s.logger.Error("provider lookup failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !provider.Active {
		return nil, apperrors.NewAccountInactive()
	}
	if !auth.VerifyPassword(password, provider.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}

	token, _, err := s.tokenMgr.IssueProviderToken(provider)
	if err != nil {
		s.logger.Error("token issuance failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.tokenMgr.TTL().Seconds()),
		TokenType:   TokenType,
		Provider:    provider,
	}, nil
}

// LoginPatient authenticates a patient. Same enumeration-resistant error
// policy as LoginProvider.
func (s *AuthService) LoginPatient(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, vErr := validation.Email("email", email)
	if vErr != nil || password == "" {
		return nil, apperrors.NewInvalidCredentials()
	}

	patient, err := s.patients.GetByEmail(ctx, normalized)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewInvalidCredentials()
		}
		s.logger.Error("patient lookup failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !patient.Active {
		return nil, apperrors.NewAccountInactive()
	}
	if !auth.VerifyPassword(password, patient.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}

	token, _, err := s.tokenMgr.IssuePatientToken(patient)
	if err != nil {
		s.logger.Error("token issuance failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.tokenMgr.TTL().Seconds()),
		TokenType:   TokenType,
		Patient:     patient,
	}, nil
}

// RegisterProvider validates, checks uniqueness, hashes, and persists a new
// provider account. All validation failures are aggregated before rejecting.
func (s *AuthService) RegisterProvider(ctx context.Context, req ProviderRegistration) (*domain.Provider, error) {
	var errs validation.Errors

	normalized, emailErr := validation.Email("email", req.Email)
	errs.Add(emailErr)
	errs.Add(
		validation.Required("first_name", req.FirstName),
		validation.Required("last_name", req.LastName),
		validation.Phone("phone_number", req.PhoneNumber),
		validation.PasswordStrength("password", req.Password),
		validation.Required("specialization", req.Specialization),
		validation.Required("license_number", req.LicenseNumber),
		validation.Required("clinic_address.street", req.ClinicAddress.Street),
		validation.Required("clinic_address.city", req.ClinicAddress.City),
		validation.Required("clinic_address.state", req.ClinicAddress.State),
		validation.PostalCode("clinic_address.zip", req.ClinicAddress.Zip),
	)
	if !errs.Empty() {
		return nil, apperrors.NewValidationError(errs.Details())
	}

	taken, err := s.providers.ExistsByEmailOrPhone(ctx, normalized, req.PhoneNumber)
	if err != nil {
		s.logger.Error("provider uniqueness check failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !taken {
		taken, err = s.providers.ExistsByLicense(ctx, req.LicenseNumber)
		if err != nil {
			s.logger.Error("provider uniqueness check failed", zap.Error(err))
			return nil, apperrors.NewInternalError(err)
		}
	}
	if taken {
		// one generic message regardless of which field collided
		return nil, apperrors.NewDuplicateAccount()
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	provider := &domain.Provider{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              normalized,
		PhoneNumber:        req.PhoneNumber,
		PasswordHash:       hash,
		Specialization:     req.Specialization,
		LicenseNumber:      req.LicenseNumber,
		YearsOfExperience:  req.YearsOfExperience,
		ClinicAddress:      req.ClinicAddress,
		VerificationStatus: domain.VerificationPending,
		Active:             true,
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.NewDuplicateAccount()
		}
		s.logger.Error("provider create failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventProviderRegistered, provider.ID, domain.RoleProvider,
		events.ProviderRegisteredPayload{Email: provider.Email, Specialization: provider.Specialization}))
	s.logger.Info("provider registered", zap.String("provider_id", provider.ID))
	return provider, nil
}

// RegisterPatient validates, checks uniqueness, hashes, and persists a new
// patient account.
func (s *AuthService) RegisterPatient(ctx context.Context, req PatientRegistration) (*domain.Patient, error) {
	var errs validation.Errors

	normalized, emailErr := validation.Email("email", req.Email)
	errs.Add(emailErr)
	errs.Add(
		validation.Required("first_name", req.FirstName),
		validation.Required("last_name", req.LastName),
		validation.Phone("phone_number", req.PhoneNumber),
		validation.PasswordStrength("password", req.Password),
		validation.PasswordConfirmation("confirm_password", req.Password, req.ConfirmPassword),
	)
	dob, dobErr := validation.DateOfBirth("date_of_birth", req.DateOfBirth, s.now())
	errs.Add(dobErr)
	gender, genderErr := validation.GenderValue("gender", req.Gender)
	errs.Add(genderErr)
	errs.Add(
		validation.Required("address.street", req.Address.Street),
		validation.Required("address.city", req.Address.City),
		validation.Required("address.state", req.Address.State),
		validation.PostalCode("address.zip", req.Address.Zip),
	)
	if req.EmergencyContact != nil {
		errs.Add(
			validation.Required("emergency_contact.name", req.EmergencyContact.Name),
			validation.Phone("emergency_contact.phone", req.EmergencyContact.Phone),
			validation.Required("emergency_contact.relationship", req.EmergencyContact.Relationship),
		)
	}
	if !errs.Empty() {
		return nil, apperrors.NewValidationError(errs.Details())
	}

	taken, err := s.patients.ExistsByEmailOrPhone(ctx, normalized, req.PhoneNumber)
	if err != nil {
		s.logger.Error("patient uniqueness check failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if taken {
		return nil, apperrors.NewDuplicateAccount()
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	patient := &domain.Patient{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            normalized,
		PhoneNumber:      req.PhoneNumber,
		PasswordHash:     hash,
		DateOfBirth:      dob,
		Gender:           gender,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   req.MedicalHistory,
		InsuranceInfo:    req.InsuranceInfo,
		Active:           true,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperrors.NewDuplicateAccount()
		}
		s.logger.Error("patient create failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventPatientRegistered, patient.ID, domain.RolePatient,
		events.PatientRegisteredPayload{Email: patient.Email, PhoneNumber: patient.PhoneNumber}))
	s.logger.Info("patient registered", zap.String("patient_id", patient.ID))
	return patient, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
