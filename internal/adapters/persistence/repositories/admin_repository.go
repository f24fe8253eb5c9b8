package repositories

import (
	"context"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/core/domain"

	"gorm.io/gorm"
)

// adminRepository implements AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new administrator repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// GetByUserID gets the administrator record of a user
func (r *adminRepository) GetByUserID(ctx context.Context, userID uint) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Promote grants the ADMIN role and ensures an administrator record exists
func (r *adminRepository) Promote(ctx context.Context, userID uint, name, email string) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("role", string(domain.RoleAdmin)).Error; err != nil {
			return err
		}
		return tx.Where(models.Administrator{UserID: userID}).
			Attrs(models.Administrator{Name: name, Email: email}).
			FirstOrCreate(&admin).Error
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
