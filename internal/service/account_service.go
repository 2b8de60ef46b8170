package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
	"github.com/spec-kit/healthcare-accounts/internal/events"
	"github.com/spec-kit/healthcare-accounts/internal/repository"
	apperrors "github.com/spec-kit/healthcare-accounts/pkg/util"
)

// AccountService covers provider-gated patient administration: lookups,
// verification flags, and deactivation.
type AccountService struct {
	patients   repository.PatientRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(patients repository.PatientRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{patients: patients, dispatcher: dispatcher, logger: logger}
}

// GetPatient returns a patient by id.
func (s *AccountService) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewNotFound("patient")
		}
		s.logger.Error("patient lookup failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return patient, nil
}

// VerifyPatientEmail marks the patient's email address as verified.
func (s *AccountService) VerifyPatientEmail(ctx context.Context, id string) (*domain.Patient, error) {
	return s.setVerification(ctx, id, events.EventPatientEmailVerified, s.patients.SetEmailVerified)
}

// VerifyPatientPhone marks the patient's phone number as verified.
func (s *AccountService) VerifyPatientPhone(ctx context.Context, id string) (*domain.Patient, error) {
	return s.setVerification(ctx, id, events.EventPatientPhoneVerified, s.patients.SetPhoneVerified)
}

// DeactivatePatient flips the account inactive; subsequent logins fail with an
// explicit inactive error.
func (s *AccountService) DeactivatePatient(ctx context.Context, id string) (*domain.Patient, error) {
	if err := s.patients.SetActive(ctx, id, false); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewNotFound("patient")
		}
		s.logger.Error("patient deactivation failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(events.EventPatientDeactivated, id, domain.RolePatient, nil))
	s.logger.Info("patient deactivated", zap.String("patient_id", id))
	return patient, nil
}

func (s *AccountService) setVerification(
	ctx context.Context,
	id string,
	eventType events.EventType,
	set func(context.Context, string, bool) error,
) (*domain.Patient, error) {
	if err := set(ctx, id, true); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewNotFound("patient")
		}
		s.logger.Error("verification update failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewEvent(eventType, id, domain.RolePatient, events.VerificationChangedPayload{Verified: true}))
	return patient, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
