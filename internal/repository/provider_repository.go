package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/healthcare-accounts/internal/domain"
)

// ProviderRepository defines persistence access for provider accounts.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	GetByEmail(ctx context.Context, email string) (*domain.Provider, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	ExistsByLicense(ctx context.Context, licenseNumber string) (bool, error)
}

type providerRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository returns a Postgres-backed implementation.
func NewProviderRepository(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepository{pool: pool}
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) error {
	address, err := json.Marshal(provider.ClinicAddress)
	if err != nil {
		return fmt.Errorf("encode clinic address: %w", err)
	}

	const query = `
        INSERT INTO providers
            (first_name, last_name, email, phone_number, password_hash,
             specialization, license_number, years_of_experience, clinic_address,
             verification_status, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		provider.FirstName,
		provider.LastName,
		provider.Email,
		provider.PhoneNumber,
		provider.PasswordHash,
		provider.Specialization,
		provider.LicenseNumber,
		provider.YearsOfExperience,
		address,
		provider.VerificationStatus,
		provider.Active,
	).Scan(&provider.ID, &provider.CreatedAt, &provider.UpdatedAt)
	return translate(err)
}

func (r *providerRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	return r.getOne(ctx, "id=$1", id)
}

func (r *providerRepository) GetByEmail(ctx context.Context, email string) (*domain.Provider, error) {
	return r.getOne(ctx, "email=$1", email)
}

func (r *providerRepository) getOne(ctx context.Context, where string, arg any) (*domain.Provider, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, password_hash,
               specialization, license_number, years_of_experience, clinic_address,
               verification_status, active_flag, created_at, updated_at
        FROM providers WHERE ` + where

	var (
		provider domain.Provider
		address  []byte
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&provider.ID,
		&provider.FirstName,
		&provider.LastName,
		&provider.Email,
		&provider.PhoneNumber,
		&provider.PasswordHash,
		&provider.Specialization,
		&provider.LicenseNumber,
		&provider.YearsOfExperience,
		&address,
		&provider.VerificationStatus,
		&provider.Active,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	if err := json.Unmarshal(address, &provider.ClinicAddress); err != nil {
		return nil, fmt.Errorf("decode clinic address: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM providers WHERE email=$1 OR phone_number=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, phone).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *providerRepository) ExistsByLicense(ctx context.Context, licenseNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM providers WHERE license_number=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, licenseNumber).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}
