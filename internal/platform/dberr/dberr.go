// Copyright (c) 2026 Rokto. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roktoapp/rokto/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried document doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// 2. Unique index violations surface as Conflict. The only unique index
	// is users.email; callers that treat duplicates as an upsert signal must
	// check IsDuplicate BEFORE wrapping.
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("Resource already exists")
	}

	// 3. Unknown errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsDuplicate reports whether err is a unique-index violation.
func IsDuplicate(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means "no matching document".
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, ErrNotFound)
}
