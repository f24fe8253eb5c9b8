package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/adapters/storage"
	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/metrics"

	"go.uber.org/zap"
)

// VerificationService reviews submitted donor cards
type VerificationService struct {
	verificationRepo repositories.VerificationRepository
	adminRepo        repositories.AdminRepository
	store            storage.Storage
	urlExpiry        time.Duration
	metrics          *metrics.Metrics
	log              *zap.Logger
	now              func() time.Time
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	verificationRepo repositories.VerificationRepository,
	adminRepo repositories.AdminRepository,
	store storage.Storage,
	urlExpiry time.Duration,
	m *metrics.Metrics,
	log *zap.Logger,
) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		adminRepo:        adminRepo,
		store:            store,
		urlExpiry:        urlExpiry,
		metrics:          m,
		log:              log,
		now:              time.Now,
	}
}

// ReviewResult is a reviewed verification and the donor it belongs to
type ReviewResult struct {
	Verification *VerificationView `json:"verification"`
	Donor        DonorView         `json:"donor"`
}

// ProofLink is a time-limited link to a proof document
type ProofLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Approve marks the verification verified and activates the donor
func (s *VerificationService) Approve(ctx context.Context, verificationID string, adminUserID uint) (*ReviewResult, error) {
	return s.review(ctx, verificationID, adminUserID, domain.EventVerificationApproved)
}

// Reject records a failed review; the donor stays pending and may be approved later
func (s *VerificationService) Reject(ctx context.Context, verificationID string, adminUserID uint) (*ReviewResult, error) {
	return s.review(ctx, verificationID, adminUserID, domain.EventVerificationRejected)
}

func (s *VerificationService) review(ctx context.Context, verificationID string, adminUserID uint, event domain.DonorEvent) (*ReviewResult, error) {
	admin, err := s.adminRepo.GetByUserID(ctx, adminUserID)
	if err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}

	v, err := s.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, notFound(err, ErrVerificationNotFound)
	}
	if v.Donor == nil {
		return nil, ErrDonorNotFound
	}

	from := domain.DonorStatus(v.Donor.Status)
	to, err := domain.NextStatus(from, event)
	if err != nil {
		return nil, lifecycleError(s.metrics, s.log, v.Donor.ID, event, err)
	}

	now := s.now()
	approved := event == domain.EventVerificationApproved
	err = s.verificationRepo.Review(ctx, repositories.VerificationReview{
		VerificationID: v.ID,
		Verified:       approved,
		ReviewedAt:     now,
		AdminID:        admin.ID,
		Donor: repositories.StatusChange{
			DonorID: v.Donor.ID,
			From:    string(from),
			To:      string(to),
		},
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, ErrStatusConflict
		}
		return nil, notFound(err, ErrVerificationNotFound)
	}

	s.metrics.ObserveTransition(string(from), string(to), string(event))
	s.log.Info("verification reviewed",
		zap.String("verification_id", v.ID),
		zap.String("donor_id", v.Donor.ID),
		zap.Uint("admin_id", admin.ID),
		zap.Bool("approved", approved))

	v.Verified = approved
	v.VerifiedAt = &now
	v.AdminID = &admin.ID
	donor := v.Donor
	donor.Status = string(to)
	donor.Verifications = []models.Verification{*v}

	return &ReviewResult{
		Verification: newVerificationView(v),
		Donor:        withActions(newDonorView(donor, now)),
	}, nil
}

// ProofDocument is an open donor card; the caller closes Content
type ProofDocument struct {
	Content     io.ReadCloser
	ContentType string
	Filename    string
}

// ProofURL returns a link an administrator can open to inspect the donor card
func (s *VerificationService) ProofURL(ctx context.Context, verificationID string) (*ProofLink, error) {
	key, err := s.storedProofKey(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	link, err := s.store.URL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("proof url: %w", err)
	}
	return &ProofLink{URL: link, ExpiresAt: s.now().Add(s.urlExpiry)}, nil
}

// OpenProof streams the donor card from storage
func (s *VerificationService) OpenProof(ctx context.Context, verificationID string) (*ProofDocument, error) {
	v, err := s.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, notFound(err, ErrVerificationNotFound)
	}

	rc, err := s.store.Get(ctx, v.DonorCardKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("donor card missing from storage", zap.String("verification_id", v.ID), zap.String("key", v.DonorCardKey))
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("open proof: %w", err)
	}
	return &ProofDocument{
		Content:     rc,
		ContentType: proofContentType(v.DonorCardKey),
		Filename:    path.Base(v.DonorCardKey),
	}, nil
}

// storedProofKey resolves the verification and checks its object is still stored
func (s *VerificationService) storedProofKey(ctx context.Context, verificationID string) (string, error) {
	v, err := s.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return "", notFound(err, ErrVerificationNotFound)
	}

	ok, err := s.store.Exists(ctx, v.DonorCardKey)
	if err != nil {
		return "", fmt.Errorf("proof lookup: %w", err)
	}
	if !ok {
		s.log.Warn("donor card missing from storage", zap.String("verification_id", v.ID), zap.String("key", v.DonorCardKey))
		return "", ErrVerificationNotFound
	}
	return v.DonorCardKey, nil
}
