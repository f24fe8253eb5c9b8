package repositories

import (
	"context"

	"donoryuk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// verificationRepository implements VerificationRepository interface
type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// GetByID gets a verification with its donor
func (r *verificationRepository) GetByID(ctx context.Context, id string) (*models.Verification, error) {
	var v models.Verification
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Review records the administrator decision and the resulting donor status
func (r *verificationRepository) Review(ctx context.Context, review VerificationReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Verification{}).
			Where("id = ?", review.VerificationID).
			Updates(map[string]interface{}{
				"verified":    review.Verified,
				"verified_at": review.ReviewedAt,
				"admin_id":    review.AdminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if review.Donor.From == review.Donor.To {
			return nil
		}
		return updateStatus(tx, review.Donor)
	})
}

// CountPending counts verifications no administrator has reviewed yet
func (r *verificationRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Verification{}).
		Where("verified_at IS NULL").
		Count(&count).Error
	return count, err
}
