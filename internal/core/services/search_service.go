package services

import (
	"context"
	"strings"
	"time"

	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/metrics"
	"donoryuk/internal/pkg/whatsapp"
)

// SearchService finds active donors for a seeker
type SearchService struct {
	donorRepo repositories.DonorRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSearchService creates a new search service
func NewSearchService(donorRepo repositories.DonorRepository, m *metrics.Metrics) *SearchService {
	return &SearchService{
		donorRepo: donorRepo,
		metrics:   m,
		now:       time.Now,
	}
}

// SearchFilter narrows a donor search. Empty fields match everything.
type SearchFilter struct {
	Group         string `query:"group"`
	Rhesus        string `query:"rhesus"`
	Location      string `query:"location"`
	Query         string `query:"q"`
	Recipient     string `query:"recipient"`
	AvailableOnly bool   `query:"available_only"`

	// Hospital switches the contact message to the urgent template
	Hospital string `query:"hospital"`
}

type parsedFilter struct {
	group     domain.ABOGroup
	rhesus    domain.Rhesus
	location  string
	query     string
	donorsFor domain.BloodTypeSet
	recipient bool
	available bool
}

// restorePlus undoes query decoding of an unescaped '+': "AB+" arrives as "AB ".
func restorePlus(v string) string {
	t := strings.TrimSpace(v)
	if t == "" || !strings.HasSuffix(v, " ") || strings.HasSuffix(t, "+") || strings.HasSuffix(t, "-") {
		return t
	}
	return t + "+"
}

func (f SearchFilter) parse() (parsedFilter, error) {
	p := parsedFilter{
		location:  strings.TrimSpace(f.Location),
		query:     strings.ToLower(strings.TrimSpace(f.Query)),
		available: f.AvailableOnly,
	}

	var err error
	if strings.TrimSpace(f.Group) != "" {
		if p.group, err = domain.ParseABOGroup(f.Group); err != nil {
			return p, err
		}
	}
	if rh := restorePlus(f.Rhesus); rh != "" {
		if p.rhesus, err = domain.ParseRhesus(rh); err != nil {
			return p, err
		}
	}
	if recipient := restorePlus(f.Recipient); recipient != "" {
		bt, err := domain.ParseBloodType(recipient)
		if err != nil {
			return p, err
		}
		if p.donorsFor, err = domain.CompatibleDonors(bt); err != nil {
			return p, err
		}
		p.recipient = true
	}
	return p, nil
}

// Search scans every active donor, newest first, and keeps the ones matching filter
func (s *SearchService) Search(ctx context.Context, filter SearchFilter) ([]SearchResult, error) {
	p, err := filter.parse()
	if err != nil {
		return nil, err
	}

	donors, err := s.donorRepo.ListByStatus(ctx, string(domain.StatusActive))
	if err != nil {
		return nil, err
	}

	now := s.now()
	results := make([]SearchResult, 0, len(donors))
	for _, m := range donors {
		d := m.ToDomain()

		if p.group != "" && d.Group != p.group {
			continue
		}
		if p.rhesus != "" && d.Rhesus != p.rhesus {
			continue
		}
		if p.location != "" && d.Location != p.location {
			continue
		}
		if p.query != "" && !strings.Contains(strings.ToLower(d.Name), p.query) {
			continue
		}

		bt, err := d.BloodType()
		if err != nil {
			// rows with a corrupt blood type never match
			continue
		}
		if p.recipient && !p.donorsFor.Contains(bt) {
			continue
		}
		if p.available && !d.IsAvailable(now) {
			continue
		}

		view := newDonorView(m, now)
		results = append(results, SearchResult{
			DonorView:   view,
			WhatsAppURL: whatsapp.URL(d.PhoneNumber, contactMessage(d, bt, filter.Hospital)),
		})
	}

	s.metrics.ObserveSearch(filter.AvailableOnly)
	return results, nil
}

func contactMessage(d *domain.Donor, bt domain.BloodType, hospital string) string {
	if hospital = strings.TrimSpace(hospital); hospital != "" {
		return whatsapp.UrgentRequest(d.Name, bt.String(), d.Location, hospital)
	}
	return whatsapp.DonorRequest(d.Name, bt.String(), d.Location)
}

// Compatibility returns the donate/receive sets of one blood type
func (s *SearchService) Compatibility(bloodType string) (*CompatibilityView, error) {
	bt, err := domain.ParseBloodType(bloodType)
	if err != nil {
		return nil, err
	}
	entry, err := domain.Compatibility(bt)
	if err != nil {
		return nil, err
	}
	view := newCompatibilityView(entry)
	return &view, nil
}

// CompatibilityTable returns all eight rows in canonical order
func (s *SearchService) CompatibilityTable() []CompatibilityView {
	table := domain.CompatibilityTable()
	out := make([]CompatibilityView, 0, len(table))
	for _, e := range table {
		out = append(out, newCompatibilityView(e))
	}
	return out
}
