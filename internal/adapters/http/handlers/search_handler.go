package handlers

import (
	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SearchHandler serves the public donor search and compatibility lookup
type SearchHandler struct {
	searchService services.SearchUseCase
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchUseCase) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search finds active donors
// @Summary Search donors
// @Description Linear scan over active donors, newest first, with optional filters
// @Tags Search
// @Produce json
// @Param group query string false "ABO group"
// @Param rhesus query string false "Rh+ or Rh-"
// @Param location query string false "Exact location"
// @Param q query string false "Name contains"
// @Param recipient query string false "Recipient blood type, e.g. AB-"
// @Param available_only query bool false "Exclude donors inside the 100-day cooldown"
// @Param hospital query string false "Hospital name, switches the WhatsApp message to the urgent template"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /donors/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var filter services.SearchFilter
	if err := c.QueryParser(&filter); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	results, err := h.searchService.Search(c.Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to search donors")
	}

	return response.Success(c, "Donors retrieved successfully", fiber.Map{
		"donors": results,
		"total":  len(results),
	})
}

// CompatibilityTable returns the full transfusion table
// @Summary Blood type compatibility table
// @Tags Search
// @Produce json
// @Success 200 {object} response.Response
// @Router /compatibility [get]
func (h *SearchHandler) CompatibilityTable(c *fiber.Ctx) error {
	return response.Success(c, "Compatibility table", h.searchService.CompatibilityTable())
}

// Compatibility returns one row of the transfusion table
// @Summary Compatibility of one blood type
// @Tags Search
// @Produce json
// @Param type path string true "Blood type, URL-encoded, e.g. AB%2B"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /compatibility/{type} [get]
func (h *SearchHandler) Compatibility(c *fiber.Ctx) error {
	view, err := h.searchService.Compatibility(c.Params("type"))
	if err != nil {
		return respondError(c, err, "Failed to look up compatibility")
	}
	return response.Success(c, "Compatibility", view)
}
