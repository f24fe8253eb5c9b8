package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func searchDonor(id, group, rhesus, location string, last *time.Time) *models.Donor {
	return &models.Donor{
		ID:             id,
		Name:           "Donor " + id,
		BloodGroup:     group,
		Rhesus:         rhesus,
		Location:       location,
		PhoneNumber:    "081234567890",
		Status:         string(domain.StatusActive),
		LastDonationAt: last,
	}
}

func newSearchServiceForTest(donors []*models.Donor) (*SearchService, *mockDonorRepo) {
	repo := &mockDonorRepo{}
	repo.On("ListByStatus", mock.Anything, "active").Return(donors, nil)
	svc := NewSearchService(repo, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func resultIDs(results []SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func allTypesDonors() []*models.Donor {
	var donors []*models.Donor
	for _, bt := range domain.AllBloodTypes {
		donors = append(donors, searchDonor(bt.String(), string(bt.Group()), string(bt.Rhesus()), "Jakarta", nil))
	}
	return donors
}

func TestSearchService_RecipientFilter(t *testing.T) {
	svc, _ := newSearchServiceForTest(allTypesDonors())

	got, err := svc.Search(context.Background(), SearchFilter{Recipient: "O-"})
	require.NoError(t, err)
	assert.Equal(t, []string{"O-"}, resultIDs(got))

	got, err = svc.Search(context.Background(), SearchFilter{Recipient: "AB+"})
	require.NoError(t, err)
	assert.Len(t, got, 8, "AB+ receives from every type")

	got, err = svc.Search(context.Background(), SearchFilter{Recipient: "B+"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B+", "B-", "O+", "O-"}, resultIDs(got))
}

func TestSearchService_AvailableOnly(t *testing.T) {
	recent := fixedNow.AddDate(0, 0, -30)
	boundary := fixedNow.Add(-domain.Cooldown)
	almost := fixedNow.Add(-domain.Cooldown + time.Second)

	svc, _ := newSearchServiceForTest([]*models.Donor{
		searchDonor("never", "A", "Rh+", "Jakarta", nil),
		searchDonor("recent", "A", "Rh+", "Jakarta", &recent),
		searchDonor("boundary", "A", "Rh+", "Jakarta", &boundary),
		searchDonor("almost", "A", "Rh+", "Jakarta", &almost),
	})

	all, err := svc.Search(context.Background(), SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	got, err := svc.Search(context.Background(), SearchFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"never", "boundary"}, resultIDs(got))
}

func TestSearchService_FieldFilters(t *testing.T) {
	donors := []*models.Donor{
		searchDonor("1", "A", "Rh+", "Jakarta", nil),
		searchDonor("2", "A", "Rh-", "Bandung", nil),
		searchDonor("3", "B", "Rh+", "Jakarta", nil),
	}
	donors[1].Name = "Rina Wati"
	svc, _ := newSearchServiceForTest(donors)

	tests := []struct {
		name   string
		filter SearchFilter
		want   []string
	}{
		{"group", SearchFilter{Group: "a"}, []string{"1", "2"}},
		{"rhesus_short_form", SearchFilter{Group: "A", Rhesus: "+"}, []string{"1"}},
		{"location", SearchFilter{Location: "Jakarta"}, []string{"1", "3"}},
		{"name", SearchFilter{Query: "rina"}, []string{"2"}},
		{"no_match", SearchFilter{Group: "O"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resultIDs(got))
		})
	}
}

func TestSearchService_InvalidFilterIsStrict(t *testing.T) {
	svc, repo := newSearchServiceForTest(nil)

	for _, f := range []SearchFilter{{Group: "C"}, {Rhesus: "maybe"}, {Recipient: "X+"}} {
		_, err := svc.Search(context.Background(), f)
		assert.ErrorIs(t, err, domain.ErrInvalidBloodType)
	}
	repo.AssertNotCalled(t, "ListByStatus", mock.Anything, mock.Anything)
}

func TestSearchService_PlusDecodedAsSpace(t *testing.T) {
	svc, _ := newSearchServiceForTest(allTypesDonors())

	got, err := svc.Search(context.Background(), SearchFilter{Recipient: "AB ", Rhesus: "Rh "})
	require.NoError(t, err)
	assert.Equal(t, []string{"A+", "B+", "AB+", "O+"}, resultIDs(got))

	got, err = svc.Search(context.Background(), SearchFilter{Recipient: "O- "})
	require.NoError(t, err)
	assert.Equal(t, []string{"O-"}, resultIDs(got))
}

func TestSearchService_WhatsAppLink(t *testing.T) {
	svc, _ := newSearchServiceForTest([]*models.Donor{searchDonor("1", "O", "Rh-", "Surabaya", nil)})

	got, err := svc.Search(context.Background(), SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	link := got[0].WhatsAppURL
	assert.True(t, strings.HasPrefix(link, "https://wa.me/6281234567890?text="), link)
	assert.Contains(t, link, "O-")
	assert.Contains(t, link, "Surabaya")
}

func TestSearchService_UrgentLinkNamesHospital(t *testing.T) {
	svc, _ := newSearchServiceForTest([]*models.Donor{searchDonor("1", "A", "Rh+", "Bandung", nil)})

	got, err := svc.Search(context.Background(), SearchFilter{Hospital: "RS Hasan Sadikin"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	u, err := url.Parse(got[0].WhatsAppURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.True(t, strings.HasPrefix(text, "URGENT:"), text)
	assert.Contains(t, text, "RS Hasan Sadikin")
}

func TestSearchService_Compatibility(t *testing.T) {
	svc := NewSearchService(&mockDonorRepo{}, nil)

	view, err := svc.Compatibility("o-")
	require.NoError(t, err)
	assert.Equal(t, "O-", view.BloodType)
	assert.Len(t, view.CanDonateTo, 8)
	assert.Equal(t, []string{"O-"}, view.CanReceiveFrom)

	_, err = svc.Compatibility("Z")
	assert.ErrorIs(t, err, domain.ErrInvalidBloodType)

	table := svc.CompatibilityTable()
	require.Len(t, table, 8)
	assert.Equal(t, "A+", table[0].BloodType)
	assert.Equal(t, []string{"A+", "AB+"}, table[0].CanDonateTo)
}
