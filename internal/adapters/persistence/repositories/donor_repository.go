package repositories

import (
	"context"
	"time"

	"donoryuk/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// donorRepository implements DonorRepository interface
type donorRepository struct {
	db *gorm.DB
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(db *gorm.DB) DonorRepository {
	return &donorRepository{db: db}
}

// CreateWithVerification inserts a donor and its verification atomically
func (r *donorRepository) CreateWithVerification(ctx context.Context, donor *models.Donor, verification *models.Verification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Verifications").Create(donor).Error; err != nil {
			return err
		}
		verification.DonorID = donor.ID
		return tx.Omit("Donor", "Admin").Create(verification).Error
	})
}

// GetByID gets a donor with its verifications
func (r *donorRepository) GetByID(ctx context.Context, id string) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Preload("Verifications").
		Where("id = ?", id).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

// GetByUserID gets the donor profile owned by a user
func (r *donorRepository) GetByUserID(ctx context.Context, userID uint) (*models.Donor, error) {
	var donor models.Donor
	err := r.db.WithContext(ctx).
		Preload("Verifications").
		Where("user_id = ?", userID).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

// ExistsByUserID checks whether the user already registered as donor
func (r *donorRepository) ExistsByUserID(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Donor{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// UpdateProfile writes the self-service fields only
func (r *donorRepository) UpdateProfile(ctx context.Context, donor *models.Donor) error {
	return r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Where("id = ?", donor.ID).
		Updates(map[string]interface{}{
			"name":         donor.Name,
			"location":     donor.Location,
			"phone_number": donor.PhoneNumber,
			"notes":        donor.Notes,
		}).Error
}

// UpdateStatus applies a compare-and-set status change
func (r *donorRepository) UpdateStatus(ctx context.Context, change StatusChange) error {
	return updateStatus(r.db.WithContext(ctx), change)
}

func updateStatus(db *gorm.DB, change StatusChange) error {
	updates := map[string]interface{}{"status": change.To}
	if change.LastDonationAt != nil {
		updates["last_donation_at"] = *change.LastDonationAt
	}

	res := db.Model(&models.Donor{}).
		Where("id = ? AND status = ?", change.DonorID, change.From).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// ListByStatus lists donors in one status, newest first
func (r *donorRepository) ListByStatus(ctx context.Context, status string) ([]*models.Donor, error) {
	var donors []*models.Donor
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&donors).Error
	return donors, err
}

// ListWithVerifications lists every donor with its verifications, newest first
func (r *donorRepository) ListWithVerifications(ctx context.Context) ([]*models.Donor, error) {
	var donors []*models.Donor
	err := r.db.WithContext(ctx).
		Preload("Verifications").
		Order("created_at DESC").
		Find(&donors).Error
	return donors, err
}

// ListDonatedBetween lists donors in status whose last donation falls in [from, to)
func (r *donorRepository) ListDonatedBetween(ctx context.Context, status string, from, to time.Time) ([]*models.Donor, error) {
	var donors []*models.Donor
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where("last_donation_at >= ? AND last_donation_at < ?", from, to).
		Order("last_donation_at ASC").
		Find(&donors).Error
	return donors, err
}

// Count counts all donors
func (r *donorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Donor{}).Count(&count).Error
	return count, err
}

// CountByStatus groups donors by status
func (r *donorRepository) CountByStatus(ctx context.Context) ([]CountRow, error) {
	return r.countBy(ctx, "status")
}

// CountByBloodType groups donors by full blood type, e.g. "ARh+"
func (r *donorRepository) CountByBloodType(ctx context.Context) ([]CountRow, error) {
	return r.countBy(ctx, "CONCAT(blood_group, rhesus)")
}

// CountByLocation groups donors by location
func (r *donorRepository) CountByLocation(ctx context.Context) ([]CountRow, error) {
	return r.countBy(ctx, "location")
}

func (r *donorRepository) countBy(ctx context.Context, expr string) ([]CountRow, error) {
	var rows []CountRow
	err := r.db.WithContext(ctx).
		Model(&models.Donor{}).
		Select(expr + " AS `key`, COUNT(*) AS total").
		Group(expr).
		Scan(&rows).Error
	return rows, err
}

// CountCreatedSince counts donors registered at or after since
func (r *donorRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Donor{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
