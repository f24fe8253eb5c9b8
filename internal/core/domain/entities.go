package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Donor represents one person's donor profile
type Donor struct {
	ID             string
	UserID         uint
	Name           string
	Group          ABOGroup
	Rhesus         Rhesus
	Location       string
	PhoneNumber    string
	Notes          *string
	Status         DonorStatus
	LastDonationAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BloodType returns the donor's full blood type
func (d *Donor) BloodType() (BloodType, error) {
	return NewBloodType(d.Group, d.Rhesus)
}

// IsAvailable evaluates the donor's availability at now
func (d *Donor) IsAvailable(now time.Time) bool {
	return IsAvailable(d.Status, d.LastDonationAt, now)
}

// Verification is one proof-of-donor-card submission
type Verification struct {
	ID           string
	DonorID      string
	DonorCardKey string
	Verified     bool
	VerifiedAt   *time.Time
	AdminID      *uint
	CreatedAt    time.Time
}

// Reviewed reports whether an administrator has looked at it
func (v *Verification) Reviewed() bool {
	return v.VerifiedAt != nil
}
