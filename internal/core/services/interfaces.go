package services

import (
	"context"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/pkg/jwt"
)

// AuthUseCase is implemented by AuthService
type AuthUseCase interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input *LoginInput) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uint) error
	Me(ctx context.Context, userID uint) (*MeResponse, error)
	ValidateAccessToken(accessToken string) (*jwt.Claims, error)
}

// DonorUseCase is implemented by DonorService
type DonorUseCase interface {
	Register(ctx context.Context, userID uint, input *RegisterDonorInput, proof *ProofFile) (*DonorView, error)
	GetMine(ctx context.Context, userID uint) (*DonorView, error)
	UpdateMine(ctx context.Context, userID uint, input *UpdateDonorInput) (*DonorView, error)
	MarkDonated(ctx context.Context, donorID string, at *time.Time) (*DonorView, error)
	Deactivate(ctx context.Context, donorID string) (*DonorView, error)
	Reactivate(ctx context.Context, donorID string) (*DonorView, error)
}

// VerificationUseCase is implemented by VerificationService
type VerificationUseCase interface {
	Approve(ctx context.Context, verificationID string, adminUserID uint) (*ReviewResult, error)
	Reject(ctx context.Context, verificationID string, adminUserID uint) (*ReviewResult, error)
	ProofURL(ctx context.Context, verificationID string) (*ProofLink, error)
	OpenProof(ctx context.Context, verificationID string) (*ProofDocument, error)
}

// SearchUseCase is implemented by SearchService
type SearchUseCase interface {
	Search(ctx context.Context, filter SearchFilter) ([]SearchResult, error)
	Compatibility(bloodType string) (*CompatibilityView, error)
	CompatibilityTable() []CompatibilityView
}

// AdminUseCase is implemented by AdminService
type AdminUseCase interface {
	ListDonors(ctx context.Context, input ListDonorsInput) ([]DonorView, error)
	Stats(ctx context.Context) (*DonorStats, error)
	Promote(ctx context.Context, userID uint, name string) (*models.Administrator, error)
	AdminByUser(ctx context.Context, userID uint) (*models.Administrator, error)
}

var (
	_ AuthUseCase         = (*AuthService)(nil)
	_ DonorUseCase        = (*DonorService)(nil)
	_ VerificationUseCase = (*VerificationService)(nil)
	_ SearchUseCase       = (*SearchService)(nil)
	_ AdminUseCase        = (*AdminService)(nil)
)
