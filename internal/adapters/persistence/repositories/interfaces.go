package repositories

import (
	"context"
	"errors"
	"time"

	"donoryuk/internal/adapters/persistence/models"
)

// ErrStaleStatus is returned by compare-and-set status writes when the row
// no longer holds the expected status.
var ErrStaleStatus = errors.New("donor status changed concurrently")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// AdminRepository defines administrator repository interface
type AdminRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Administrator, error)
	// Promote sets the user's role to ADMIN and creates its administrator
	// record if missing, in one transaction.
	Promote(ctx context.Context, userID uint, name, email string) (*models.Administrator, error)
}

// StatusChange is a compare-and-set status write
type StatusChange struct {
	DonorID        string
	From           string
	To             string
	LastDonationAt *time.Time // written only when non-nil
}

// CountRow is one grouped count
type CountRow struct {
	Key   string
	Total int64
}

// DonorRepository defines donor repository interface
type DonorRepository interface {
	// CreateWithVerification inserts the donor and its first verification in one transaction
	CreateWithVerification(ctx context.Context, donor *models.Donor, verification *models.Verification) error
	GetByID(ctx context.Context, id string) (*models.Donor, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Donor, error)
	ExistsByUserID(ctx context.Context, userID uint) (bool, error)
	UpdateProfile(ctx context.Context, donor *models.Donor) error
	UpdateStatus(ctx context.Context, change StatusChange) error
	ListByStatus(ctx context.Context, status string) ([]*models.Donor, error)
	ListWithVerifications(ctx context.Context) ([]*models.Donor, error)
	ListDonatedBetween(ctx context.Context, status string, from, to time.Time) ([]*models.Donor, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]CountRow, error)
	CountByBloodType(ctx context.Context) ([]CountRow, error)
	CountByLocation(ctx context.Context) ([]CountRow, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// VerificationReview is the outcome an administrator records on a verification,
// plus the donor status change it causes.
type VerificationReview struct {
	VerificationID string
	Verified       bool
	ReviewedAt     time.Time
	AdminID        uint
	Donor          StatusChange
}

// VerificationRepository defines verification repository interface
type VerificationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Verification, error)
	// Review writes the verification and, when the status differs, the donor
	// status in one transaction.
	Review(ctx context.Context, review VerificationReview) error
	CountPending(ctx context.Context) (int64, error)
}
