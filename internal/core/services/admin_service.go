package services

import (
	"context"
	"strings"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/core/domain"

	"go.uber.org/zap"
)

// AdminService serves the administrator dashboard and account promotion
type AdminService struct {
	donorRepo        repositories.DonorRepository
	verificationRepo repositories.VerificationRepository
	userRepo         repositories.UserRepository
	adminRepo        repositories.AdminRepository
	log              *zap.Logger
	now              func() time.Time
}

// NewAdminService creates a new admin service
func NewAdminService(
	donorRepo repositories.DonorRepository,
	verificationRepo repositories.VerificationRepository,
	userRepo repositories.UserRepository,
	adminRepo repositories.AdminRepository,
	log *zap.Logger,
) *AdminService {
	return &AdminService{
		donorRepo:        donorRepo,
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		adminRepo:        adminRepo,
		log:              log,
		now:              time.Now,
	}
}

// ListDonorsInput filters the administrator donor list
type ListDonorsInput struct {
	Status string `query:"status"`
	Search string `query:"q"`
}

// DonorStats is the administrator dashboard summary
type DonorStats struct {
	TotalDonors          int64            `json:"total_donors"`
	ByStatus             map[string]int64 `json:"by_status"`
	ByBloodType          map[string]int64 `json:"by_blood_type"`
	ByLocation           map[string]int64 `json:"by_location"`
	PendingVerifications int64            `json:"pending_verifications"`
	RegisteredLast7Days  int64            `json:"registered_last_7_days"`
	AvailableNow         int              `json:"available_now"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// ListDonors returns every donor with its verification state, newest first
func (s *AdminService) ListDonors(ctx context.Context, input ListDonorsInput) ([]DonorView, error) {
	var status domain.DonorStatus
	if input.Status != "" {
		st, err := domain.ParseDonorStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	term := strings.ToLower(strings.TrimSpace(input.Search))

	donors, err := s.donorRepo.ListWithVerifications(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]DonorView, 0, len(donors))
	for _, d := range donors {
		if status != "" && d.Status != string(status) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Location), term) {
			continue
		}
		out = append(out, withActions(newDonorView(d, now)))
	}
	return out, nil
}

// Stats aggregates donor counts for the dashboard
func (s *AdminService) Stats(ctx context.Context) (*DonorStats, error) {
	now := s.now()
	stats := &DonorStats{
		ByStatus:    make(map[string]int64, len(domain.DonorStatuses)),
		ByBloodType: make(map[string]int64, len(domain.AllBloodTypes)),
		ByLocation:  map[string]int64{},
		GeneratedAt: now,
	}

	var err error
	if stats.TotalDonors, err = s.donorRepo.Count(ctx); err != nil {
		return nil, err
	}

	for _, st := range domain.DonorStatuses {
		stats.ByStatus[string(st)] = 0
	}
	rows, err := s.donorRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Key] = r.Total
	}

	for _, bt := range domain.AllBloodTypes {
		stats.ByBloodType[bt.String()] = 0
	}
	if rows, err = s.donorRepo.CountByBloodType(ctx); err != nil {
		return nil, err
	}
	for _, r := range rows {
		key := r.Key
		if bt, err := domain.ParseBloodType(r.Key); err == nil {
			key = bt.String()
		}
		stats.ByBloodType[key] += r.Total
	}

	if rows, err = s.donorRepo.CountByLocation(ctx); err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByLocation[r.Key] = r.Total
	}

	if stats.PendingVerifications, err = s.verificationRepo.CountPending(ctx); err != nil {
		return nil, err
	}
	if stats.RegisteredLast7Days, err = s.donorRepo.CountCreatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}

	active, err := s.donorRepo.ListByStatus(ctx, string(domain.StatusActive))
	if err != nil {
		return nil, err
	}
	for _, d := range active {
		if d.ToDomain().IsAvailable(now) {
			stats.AvailableNow++
		}
	}

	return stats, nil
}

// Promote grants a user the ADMIN role. The name defaults to the email's local part.
func (s *AdminService) Promote(ctx context.Context, userID uint, name string) (*models.Administrator, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}

	admin, err := s.adminRepo.Promote(ctx, user.ID, name, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info("user promoted to administrator",
		zap.Uint("user_id", user.ID),
		zap.Uint("admin_id", admin.ID))
	return admin, nil
}

// AdminByUser resolves the administrator record of a user
func (s *AdminService) AdminByUser(ctx context.Context, userID uint) (*models.Administrator, error) {
	admin, err := s.adminRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAdminNotFound)
	}
	return admin, nil
}
