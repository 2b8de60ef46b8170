package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// PatientRepository defines persistence access for patient accounts.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	GetByEmail(ctx context.Context, email string) (*domain.Patient, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	SetEmailVerified(ctx context.Context, id string, verified bool) error
	SetPhoneVerified(ctx context.Context, id string, verified bool) error
	SetActive(ctx context.Context, id string, active bool) error
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository returns a Postgres-backed implementation.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	address, err := json.Marshal(patient.Address)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	emergency, err := marshalNullable(patient.EmergencyContact)
	if err != nil {
		return fmt.Errorf("encode emergency contact: %w", err)
	}
	insurance, err := marshalNullable(patient.InsuranceInfo)
	if err != nil {
		return fmt.Errorf("encode insurance info: %w", err)
	}
	history, err := marshalNullable(patient.MedicalHistory)
	if err != nil {
		return fmt.Errorf("encode medical history: %w", err)
	}

	const query = `
        INSERT INTO patients
            (first_name, last_name, email, phone_number, password_hash,
             date_of_birth, gender, address, emergency_contact, medical_history,
             insurance_info, email_verified, phone_verified, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.PhoneNumber,
		patient.PasswordHash,
		patient.DateOfBirth,
		patient.Gender,
		address,
		emergency,
		history,
		insurance,
		patient.EmailVerified,
		patient.PhoneVerified,
		patient.Active,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	return translate(err)
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	return r.getOne(ctx, "id=$1", id)
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	return r.getOne(ctx, "email=$1", email)
}

func (r *patientRepository) getOne(ctx context.Context, where string, arg any) (*domain.Patient, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, password_hash,
               date_of_birth, gender, address, emergency_contact, medical_history,
               insurance_info, email_verified, phone_verified, active_flag,
               created_at, updated_at
        FROM patients WHERE ` + where

	var (
		patient   domain.Patient
		address   []byte
		emergency []byte
		history   []byte
		insurance []byte
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.Email,
		&patient.PhoneNumber,
		&patient.PasswordHash,
		&patient.DateOfBirth,
		&patient.Gender,
		&address,
		&emergency,
		&history,
		&insurance,
		&patient.EmailVerified,
		&patient.PhoneVerified,
		&patient.Active,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}

	if err := json.Unmarshal(address, &patient.Address); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if err := unmarshalNullable(emergency, &patient.EmergencyContact); err != nil {
		return nil, fmt.Errorf("decode emergency contact: %w", err)
	}
	if err := unmarshalNullable(history, &patient.MedicalHistory); err != nil {
		return nil, fmt.Errorf("decode medical history: %w", err)
	}
	if err := unmarshalNullable(insurance, &patient.InsuranceInfo); err != nil {
		return nil, fmt.Errorf("decode insurance info: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM patients WHERE email=$1 OR phone_number=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, phone).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *patientRepository) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	return r.setFlag(ctx, "email_verified", id, verified)
}

func (r *patientRepository) SetPhoneVerified(ctx context.Context, id string, verified bool) error {
	return r.setFlag(ctx, "phone_verified", id, verified)
}

func (r *patientRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.setFlag(ctx, "active_flag", id, active)
}

func (r *patientRepository) setFlag(ctx context.Context, column, id string, value bool) error {
	query := `UPDATE patients SET ` + column + `=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows)
	}
	return nil
}

func marshalNullable(v any) ([]byte, error) {
	switch val := v.(type) {
	case *domain.EmergencyContact:
		if val == nil {
			return nil, nil
		}
	case *domain.InsuranceInfo:
		if val == nil {
			return nil, nil
		}
	case []string:
		if val == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func unmarshalNullable(data []byte, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
