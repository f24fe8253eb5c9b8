package models

import (
	"time"

	"donoryuk/internal/core/domain"
)

// Donor represents donors table
type Donor struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Name           string     `gorm:"size:100;not null" json:"name"`
	BloodGroup     string     `gorm:"size:2;not null;index:idx_donor_blood" json:"blood_group"`
	Rhesus         string     `gorm:"size:3;not null;index:idx_donor_blood" json:"rhesus"`
	Location       string     `gorm:"size:100;not null;index" json:"location"`
	PhoneNumber    string     `gorm:"size:20;not null" json:"phone_number"`
	Notes          *string    `gorm:"size:500" json:"notes"`
	Status         string     `gorm:"size:32;not null;default:'pending_verification';index" json:"status"`
	LastDonationAt *time.Time `json:"last_donation_date"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User          *User          `gorm:"foreignKey:UserID" json:"-"`
	Verifications []Verification `gorm:"foreignKey:DonorID" json:"verifications,omitempty"`
}

func (Donor) TableName() string {
	return "donors"
}

// ToDomain converts the row into the domain entity
func (d *Donor) ToDomain() *domain.Donor {
	return &domain.Donor{
		ID:             d.ID,
		UserID:         d.UserID,
		Name:           d.Name,
		Group:          domain.ABOGroup(d.BloodGroup),
		Rhesus:         domain.Rhesus(d.Rhesus),
		Location:       d.Location,
		PhoneNumber:    d.PhoneNumber,
		Notes:          d.Notes,
		Status:         domain.DonorStatus(d.Status),
		LastDonationAt: d.LastDonationAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// LatestVerification returns the most recent verification, or nil
func (d *Donor) LatestVerification() *Verification {
	var latest *Verification
	for i := range d.Verifications {
		v := &d.Verifications[i]
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	return latest
}

// Verification represents verifications table
type Verification struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	DonorID      string     `gorm:"size:36;not null;index" json:"donor_id"`
	DonorCardKey string     `gorm:"size:255;not null" json:"donor_card_key"`
	Verified     bool       `gorm:"default:false" json:"verified"`
	VerifiedAt   *time.Time `json:"verified_at"`
	AdminID      *uint      `gorm:"index" json:"admin_id"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Donor *Donor         `gorm:"foreignKey:DonorID" json:"-"`
	Admin *Administrator `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

func (Verification) TableName() string {
	return "verifications"
}

// ToDomain converts the row into the domain entity
func (v *Verification) ToDomain() *domain.Verification {
	return &domain.Verification{
		ID:           v.ID,
		DonorID:      v.DonorID,
		DonorCardKey: v.DonorCardKey,
		Verified:     v.Verified,
		VerifiedAt:   v.VerifiedAt,
		AdminID:      v.AdminID,
		CreatedAt:    v.CreatedAt,
	}
}
