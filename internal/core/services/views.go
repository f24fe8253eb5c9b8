package services

import (
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/core/domain"
)

// VerificationView is the review state of a proof submission
type VerificationView struct {
	ID         string     `json:"id"`
	State      string     `json:"state"` // pending, approved, rejected
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at"`
	AdminID    *uint      `json:"admin_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DonorView is a donor profile annotated with its availability at a given instant
type DonorView struct {
	ID                    string            `json:"id"`
	UserID                uint              `json:"user_id"`
	Name                  string            `json:"name"`
	BloodGroup            string            `json:"blood_group"`
	Rhesus                string            `json:"rhesus"`
	BloodType             string            `json:"blood_type"`
	Location              string            `json:"location"`
	PhoneNumber           string            `json:"phone_number"`
	Notes                 *string           `json:"notes"`
	Status                string            `json:"status"`
	StatusLabel           string            `json:"status_label"`
	LastDonationAt        *time.Time        `json:"last_donation_date"`
	DaysSinceLastDonation *int              `json:"days_since_last_donation"`
	IsAvailable           bool              `json:"is_available"`
	AvailableFrom         *time.Time        `json:"available_from"`
	Verification          *VerificationView `json:"verification,omitempty"`
	AllowedActions        []string          `json:"allowed_actions,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// SearchResult is a donor view plus a ready-made WhatsApp contact link
type SearchResult struct {
	DonorView
	WhatsAppURL string `json:"whatsapp_url"`
}

// CompatibilityView is one row of the transfusion table
type CompatibilityView struct {
	BloodType      string   `json:"blood_type"`
	CanDonateTo    []string `json:"can_donate_to"`
	CanReceiveFrom []string `json:"can_receive_from"`
}

func newCompatibilityView(e domain.CompatibilityEntry) CompatibilityView {
	return CompatibilityView{
		BloodType:      e.Type.String(),
		CanDonateTo:    e.CanDonateTo.Strings(),
		CanReceiveFrom: e.CanReceiveFrom.Strings(),
	}
}

func newVerificationView(v *models.Verification) *VerificationView {
	if v == nil {
		return nil
	}
	d := v.ToDomain()

	state := "pending"
	if d.Reviewed() {
		state = "rejected"
		if d.Verified {
			state = "approved"
		}
	}

	return &VerificationView{
		ID:         d.ID,
		State:      state,
		Verified:   d.Verified,
		VerifiedAt: d.VerifiedAt,
		AdminID:    d.AdminID,
		CreatedAt:  d.CreatedAt,
	}
}

func newDonorView(m *models.Donor, now time.Time) DonorView {
	d := m.ToDomain()

	view := DonorView{
		ID:             d.ID,
		UserID:         d.UserID,
		Name:           d.Name,
		BloodGroup:     string(d.Group),
		Rhesus:         string(d.Rhesus),
		Location:       d.Location,
		PhoneNumber:    d.PhoneNumber,
		Notes:          d.Notes,
		Status:         string(d.Status),
		StatusLabel:    d.Status.Label(),
		LastDonationAt: d.LastDonationAt,
		IsAvailable:    d.IsAvailable(now),
		AvailableFrom:  domain.AvailableFrom(d.LastDonationAt),
		Verification:   newVerificationView(m.LatestVerification()),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	if bt, err := d.BloodType(); err == nil {
		view.BloodType = bt.String()
	}
	if days := domain.DaysSinceLastDonation(d.LastDonationAt, now); days != domain.NeverDonated {
		view.DaysSinceLastDonation = &days
	}
	return view
}

// withActions lists the lifecycle events an administrator may apply next
func withActions(v DonorView) DonorView {
	for _, e := range domain.AllowedEvents(domain.DonorStatus(v.Status)) {
		v.AllowedActions = append(v.AllowedActions, string(e))
	}
	return v
}
