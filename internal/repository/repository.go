// Package repository implements the credential store over Postgres. It is the
// only owner of account rows; services never touch the pool directly.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique-constraint violation on create. Callers
	// must not learn which column collided from this error.
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
