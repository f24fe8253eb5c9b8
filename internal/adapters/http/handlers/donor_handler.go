package handlers

import (
	"errors"

	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// DonorHandler handles the signed-in user's donor profile
type DonorHandler struct {
	donorService services.DonorUseCase
}

// NewDonorHandler creates a new donor handler
func NewDonorHandler(donorService services.DonorUseCase) *DonorHandler {
	return &DonorHandler{donorService: donorService}
}

// Register handles donor registration
// @Summary Register as donor
// @Description Create a donor profile with a donor card photo; the profile waits for administrator verification
// @Tags Donors
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Full name"
// @Param blood_group formData string true "A, B, AB or O"
// @Param rhesus formData string true "Rh+ or Rh-"
// @Param location formData string true "City"
// @Param phone_number formData string true "Indonesian phone number"
// @Param notes formData string false "Notes"
// @Param donor_card formData file true "Donor card photo (JPEG, PNG or WebP, max 5MB)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /donors [post]
func (h *DonorHandler) Register(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RegisterDonorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var proof *services.ProofFile
	fh, err := c.FormFile("donor_card")
	switch {
	case err == nil:
		if fh.Size > services.MaxProofSize {
			return respondError(c, services.ErrProofTooLarge, "")
		}
		f, err := fh.Open()
		if err != nil {
			return response.BadRequest(c, "Failed to read donor card")
		}
		defer f.Close()
		proof = &services.ProofFile{Filename: fh.Filename, Size: fh.Size, Content: f}
	case errors.Is(err, fasthttp.ErrMissingFile):
		// reported by the service as a field error
	default:
		return response.BadRequest(c, "Request must be multipart/form-data")
	}

	view, err := h.donorService.Register(c.Context(), userID, &input, proof)
	if err != nil {
		return respondError(c, err, "Failed to register donor")
	}

	return response.Created(c, "Pendaftaran donor berhasil, menunggu verifikasi", view)
}

// GetMine returns the caller's donor profile
// @Summary Get my donor profile
// @Tags Donors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donors/me [get]
func (h *DonorHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	view, err := h.donorService.GetMine(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load donor profile")
	}
	return response.Success(c, "Donor profile retrieved successfully", view)
}

// UpdateMine edits the caller's donor profile
// @Summary Update my donor profile
// @Description Only name, location, phone number and notes can be changed
// @Tags Donors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateDonorInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /donors/me [put]
func (h *DonorHandler) UpdateMine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateDonorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	view, err := h.donorService.UpdateMine(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err, "Failed to update donor profile")
	}
	return response.Success(c, "Donor profile updated successfully", view)
}
