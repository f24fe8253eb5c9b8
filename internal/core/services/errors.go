package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Donor and verification errors
var (
	ErrDonorNotFound        = errors.New("donor not found")
	ErrDonorAlreadyExists   = errors.New("user already has a donor profile")
	ErrInvalidProof         = errors.New("proof document must be a JPEG, PNG or WebP image")
	ErrProofTooLarge        = errors.New("proof document exceeds 5MB")
	ErrStatusConflict       = errors.New("donor status was changed by another request")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrAdminNotFound        = errors.New("administrator not found")

	// ErrCorruptRecord means a stored row holds a value the lifecycle does not know
	ErrCorruptRecord = errors.New("stored donor record is inconsistent")
)

// ValidationError carries per-field messages for a rejected input
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// lifecycleError passes illegal transitions through and counts them. Anything
// else the lifecycle rejects came from stored data, not from the caller.
func lifecycleError(m *metrics.Metrics, log *zap.Logger, donorID string, event domain.DonorEvent, err error) error {
	if errors.Is(err, domain.ErrIllegalTransition) {
		m.ObserveRejection(string(event))
		return err
	}
	log.Error("lifecycle refused stored donor",
		zap.String("donor_id", donorID),
		zap.String("event", string(event)),
		zap.Error(err))
	return fmt.Errorf("%w: donor %s: %v", ErrCorruptRecord, donorID, err)
}
