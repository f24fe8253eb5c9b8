package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"donoryuk/internal/core/domain"
	"donoryuk/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchHandler_Search(t *testing.T) {
	search := new(mockSearchUseCase)
	app := newTestApp()
	app.Get("/donors/search", NewSearchHandler(search).Search)

	want := services.SearchFilter{Recipient: "AB-", Location: "Bandung", AvailableOnly: true}
	search.On("Search", mock.Anything, want).Return([]services.SearchResult{
		{DonorView: services.DonorView{ID: "donor-1", BloodType: "O-"}, WhatsAppURL: "https://wa.me/6281234567890"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/donors/search?recipient=AB-&location=Bandung&available_only=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, ok := decode(t, resp).Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["total"])
	search.AssertExpectations(t)
}

func TestSearchHandler_SearchInvalidBloodType(t *testing.T) {
	search := new(mockSearchUseCase)
	app := newTestApp()
	app.Get("/donors/search", NewSearchHandler(search).Search)
	search.On("Search", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidBloodType)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/donors/search?group=C", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchHandler_CompatibilityEscapedPath(t *testing.T) {
	search := new(mockSearchUseCase)
	app := newTestApp()
	app.Get("/compatibility/:type", NewSearchHandler(search).Compatibility)
	search.On("Compatibility", "AB+").Return(&services.CompatibilityView{
		BloodType:      "AB+",
		CanDonateTo:    []string{"AB+"},
		CanReceiveFrom: []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/compatibility/AB%2B", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	search.AssertExpectations(t)
}

func TestSearchHandler_CompatibilityUnknownType(t *testing.T) {
	search := new(mockSearchUseCase)
	app := newTestApp()
	app.Get("/compatibility/:type", NewSearchHandler(search).Compatibility)
	search.On("Compatibility", "Z").Return(nil, domain.ErrInvalidBloodType)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/compatibility/Z", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchHandler_CompatibilityTable(t *testing.T) {
	search := new(mockSearchUseCase)
	app := newTestApp()
	app.Get("/compatibility", NewSearchHandler(search).CompatibilityTable)
	search.On("CompatibilityTable").Return(make([]services.CompatibilityView, 8))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/compatibility", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rows, ok := decode(t, resp).Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rows, 8)
}
