package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stemsi/kelas-backend/internal/repository"
)

// Sentinel errors returned by services. Handlers map them onto HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("authentication required")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// ConflictError reports which unique field collided. It matches ErrConflict.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " already registered"
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// fromRepo translates repository sentinels into service sentinels and wraps
// everything else with op.
func fromRepo(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrClassMissing):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
