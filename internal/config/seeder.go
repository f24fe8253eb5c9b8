package config

import (
	"context"
	"errors"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg AdminSeedConfig
	log *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg AdminSeedConfig, log *zap.Logger) *Seeder {
	return &Seeder{db: db, cfg: cfg, log: log}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		s.log.Warn("admin seeder skipped", zap.Error(err))
	}
	return nil
}

// seedAdmin creates the first administrator account when none exists.
// In production, promote an existing account instead.
func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD not set")
	}
	if !password.ValidatePassword(s.cfg.Password) {
		return errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Administrator{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(s.cfg.Password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:    s.cfg.Email,
			Password: hashed,
			Role:     string(domain.RoleAdmin),
			IsActive: true,
		}
		if err := tx.Where(models.User{Email: s.cfg.Email}).
			Assign(models.User{Role: string(domain.RoleAdmin)}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}

		admin := models.Administrator{Name: s.cfg.Name, Email: s.cfg.Email, UserID: user.ID}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		s.log.Info("admin user seeded", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
		return nil
	})
}
