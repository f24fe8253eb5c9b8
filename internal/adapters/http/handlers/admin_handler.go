package handlers

import (
	"strconv"
	"time"

	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles administrator endpoints
type AdminHandler struct {
	adminService        services.AdminUseCase
	donorService        services.DonorUseCase
	verificationService services.VerificationUseCase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminService services.AdminUseCase,
	donorService services.DonorUseCase,
	verificationService services.VerificationUseCase,
) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		donorService:        donorService,
		verificationService: verificationService,
	}
}

// MarkDonatedRequest optionally backdates a donation
type MarkDonatedRequest struct {
	DonatedAt *time.Time `json:"donated_at"`
}

// PromoteRequest names the new administrator
type PromoteRequest struct {
	Name string `json:"name"`
}

// ListDonors lists all donors with their verification state
// @Summary List donors
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending_verification, active or unavailable"
// @Param q query string false "Name or location contains"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/donors [get]
func (h *AdminHandler) ListDonors(c *fiber.Ctx) error {
	var input services.ListDonorsInput
	if err := c.QueryParser(&input); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	donors, err := h.adminService.ListDonors(c.Context(), input)
	if err != nil {
		return respondError(c, err, "Failed to list donors")
	}

	return response.Success(c, "Donors retrieved successfully", fiber.Map{
		"donors": donors,
		"total":  len(donors),
	})
}

// Stats returns the dashboard counters
// @Summary Donor statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminService.Stats(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to load statistics")
	}
	return response.Success(c, "Statistics retrieved successfully", stats)
}

// MarkDonated records a donation
// @Summary Mark donor as donated
// @Description Active donors become unavailable and their last donation date is set.
// @Description The optional donated_at body is an extension for backdating a donation recorded late.
// @Description It defaults to now and is rejected with 400 when it lies in the future.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donor ID"
// @Param body body MarkDonatedRequest false "Donation date, defaults to now"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/donors/{id}/donated [put]
func (h *AdminHandler) MarkDonated(c *fiber.Ctx) error {
	var req MarkDonatedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	view, err := h.donorService.MarkDonated(c.Context(), c.Params("id"), req.DonatedAt)
	if err != nil {
		return respondError(c, err, "Failed to update donor")
	}
	return response.Success(c, "Donor marked as donated", view)
}

// Deactivate takes a donor out of search
// @Summary Deactivate donor
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/donors/{id}/deactivate [put]
func (h *AdminHandler) Deactivate(c *fiber.Ctx) error {
	view, err := h.donorService.Deactivate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to update donor")
	}
	return response.Success(c, "Donor deactivated", view)
}

// Reactivate returns a donor to active
// @Summary Reactivate donor
// @Description The 100-day cooldown is not enforced here
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/donors/{id}/reactivate [put]
func (h *AdminHandler) Reactivate(c *fiber.Ctx) error {
	view, err := h.donorService.Reactivate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to update donor")
	}
	return response.Success(c, "Donor reactivated", view)
}

// ApproveVerification approves a donor card
// @Summary Approve verification
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/verifications/{id}/approve [post]
func (h *AdminHandler) ApproveVerification(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.verificationService.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "Failed to approve verification")
	}
	return response.Success(c, "Verification approved", result)
}

// RejectVerification rejects a donor card
// @Summary Reject verification
// @Description The donor stays pending and the verification can still be approved later
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/verifications/{id}/reject [post]
func (h *AdminHandler) RejectVerification(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.verificationService.Reject(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "Failed to reject verification")
	}
	return response.Success(c, "Verification rejected", result)
}

// ProofURL returns a link to the donor card
// @Summary Donor card link
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/verifications/{id}/proof [get]
func (h *AdminHandler) ProofURL(c *fiber.Ctx) error {
	link, err := h.verificationService.ProofURL(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to load donor card")
	}
	return response.Success(c, "Donor card link", link)
}

// ProofFile streams the donor card itself
// @Summary Download donor card
// @Tags Admin
// @Produce image/jpeg,image/png,image/webp
// @Security BearerAuth
// @Param id path string true "Verification ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /admin/verifications/{id}/proof/file [get]
func (h *AdminHandler) ProofFile(c *fiber.Ctx) error {
	doc, err := h.verificationService.OpenProof(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to load donor card")
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+doc.Filename+`"`)
	// fasthttp closes the stream once the body is written
	return c.SendStream(doc.Content)
}

// Promote grants a user the ADMIN role
// @Summary Promote user to administrator
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body PromoteRequest false "Administrator name"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/promote [post]
func (h *AdminHandler) Promote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req PromoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	admin, err := h.adminService.Promote(c.Context(), uint(id), req.Name)
	if err != nil {
		return respondError(c, err, "Failed to promote user")
	}
	return response.Success(c, "User promoted to administrator", admin)
}
