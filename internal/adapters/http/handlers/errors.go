package handlers

import (
	"errors"

	"donoryuk/internal/core/domain"
	"donoryuk/internal/core/services"
	"donoryuk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service or domain error to its HTTP response.
// fallback is the message used for unexpected errors.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *services.ValidationError
	var terr *domain.TransitionError

	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrCorruptRecord):
		return response.InternalServerError(c, "Data donor tidak konsisten, hubungi pengelola")
	case errors.As(err, &terr):
		return response.Conflict(c, "Perubahan status tidak diizinkan: "+string(terr.Event)+" pada status "+string(terr.From))
	case errors.Is(err, domain.ErrInvalidBloodType):
		return response.BadRequest(c, "Golongan darah tidak valid")
	case errors.Is(err, domain.ErrInvalidStatus):
		return response.BadRequest(c, "Status donor tidak valid")
	case errors.Is(err, services.ErrInvalidProof):
		return response.BadRequest(c, "Bukti kartu donor harus berupa gambar JPEG, PNG atau WebP")
	case errors.Is(err, services.ErrProofTooLarge):
		return response.RequestEntityTooLarge(c, "Ukuran bukti kartu donor maksimal 5MB")
	case errors.Is(err, services.ErrDonorNotFound):
		return response.NotFound(c, "Profil donor tidak ditemukan")
	case errors.Is(err, services.ErrVerificationNotFound):
		return response.NotFound(c, "Verifikasi tidak ditemukan")
	case errors.Is(err, services.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAdminNotFound):
		return response.Forbidden(c, "Administrator record not found")
	case errors.Is(err, services.ErrDonorAlreadyExists):
		return response.Conflict(c, "Anda sudah terdaftar sebagai donor")
	case errors.Is(err, services.ErrStatusConflict):
		return response.Conflict(c, "Status donor berubah, silakan muat ulang")
	default:
		return response.InternalServerError(c, fallback)
	}
}

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
