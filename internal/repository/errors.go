// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"blogly/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes surfaced as constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translateError converts a storage error into an *models.AppError. Errors that
// already carry an AppError pass through unchanged. resource and id describe
// the row the statement targeted and are used for NotFound.
func translateError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.WrapConstraintViolation(resource+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.WrapConstraintViolation(resource+" references a missing row", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.WrapConstraintViolation(resource+" already exists", err)
		case pgForeignKeyViolation:
			return models.WrapConstraintViolation(resource+" references a missing row", err)
		case pgNotNullViolation:
			return models.WrapConstraintViolation(resource+" is missing a required field", err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return models.WrapConstraintViolation(resource+" is missing a required field", err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return models.WrapConstraintViolation(resource+" already exists", err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return models.WrapConstraintViolation(resource+" references a missing row", err)
	}

	return models.NewInternalError(err)
}
