package services

import (
	"context"
	"fmt"
	"time"

	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/config"
	"donoryuk/internal/core/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds a single scheduled run
const jobTimeout = 2 * time.Minute

// CronService runs the daily housekeeping jobs
type CronService struct {
	cron   *cron.Cron
	cfg    config.CronConfig
	tokens repositories.RefreshTokenRepository
	donors repositories.DonorRepository
	log    *zap.Logger
	now    func() time.Time
}

// NewCronService creates the scheduler and registers its jobs
func NewCronService(
	cfg config.CronConfig,
	tokens repositories.RefreshTokenRepository,
	donors repositories.DonorRepository,
	log *zap.Logger,
) (*CronService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("cron timezone %q: %w", cfg.Timezone, err)
	}

	s := &CronService{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		cfg:    cfg,
		tokens: tokens,
		donors: donors,
		log:    log.Named("cron"),
		now:    time.Now,
	}

	if _, err := s.cron.AddFunc(cfg.TokenCleanup, s.run("token_cleanup", s.CleanupTokens)); err != nil {
		return nil, fmt.Errorf("register token cleanup: %w", err)
	}
	if _, err := s.cron.AddFunc(cfg.CooldownDigest, s.run("cooldown_digest", s.cooldownDigestJob)); err != nil {
		return nil, fmt.Errorf("register cooldown digest: %w", err)
	}
	return s, nil
}

// Start begins the scheduler
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("cron scheduler started",
		zap.String("timezone", s.cfg.Timezone),
		zap.String("token_cleanup", s.cfg.TokenCleanup),
		zap.String("cooldown_digest", s.cfg.CooldownDigest))
}

// Stop halts the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron scheduler stopped")
}

func (s *CronService) run(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := s.now()
		if err := job(ctx); err != nil {
			s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("job finished", zap.String("job", name), zap.Duration("took", s.now().Sub(start)))
	}
}

// CleanupTokens deletes refresh tokens past their expiry
func (s *CronService) CleanupTokens(ctx context.Context) error {
	n, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("expired refresh tokens deleted", zap.Int64("count", n))
	}
	return nil
}

// CooldownDigest lists unavailable donors whose cooldown ended in the last 24 hours.
// Reactivation stays a manual administrator action.
func (s *CronService) CooldownDigest(ctx context.Context) ([]DonorView, error) {
	now := s.now()
	to := now.Add(-domain.Cooldown)
	from := to.Add(-24 * time.Hour)

	donors, err := s.donors.ListDonatedBetween(ctx, string(domain.StatusUnavailable), from, to)
	if err != nil {
		return nil, err
	}

	out := make([]DonorView, 0, len(donors))
	for _, d := range donors {
		out = append(out, newDonorView(d, now))
	}
	return out, nil
}

func (s *CronService) cooldownDigestJob(ctx context.Context) error {
	views, err := s.CooldownDigest(ctx)
	if err != nil {
		return err
	}
	for _, v := range views {
		s.log.Info("donor cooldown ended, awaiting reactivation",
			zap.String("donor_id", v.ID),
			zap.String("name", v.Name),
			zap.String("blood_type", v.BloodType),
			zap.String("location", v.Location))
	}
	s.log.Info("cooldown digest", zap.Int("count", len(views)))
	return nil
}
