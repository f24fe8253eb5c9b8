package handlers

import (
	"context"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

type mockDonorUseCase struct{ mock.Mock }

func (m *mockDonorUseCase) Register(ctx context.Context, userID uint, input *services.RegisterDonorInput, proof *services.ProofFile) (*services.DonorView, error) {
	args := m.Called(ctx, userID, input, proof)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

func (m *mockDonorUseCase) GetMine(ctx context.Context, userID uint) (*services.DonorView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

func (m *mockDonorUseCase) UpdateMine(ctx context.Context, userID uint, input *services.UpdateDonorInput) (*services.DonorView, error) {
	args := m.Called(ctx, userID, input)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

func (m *mockDonorUseCase) MarkDonated(ctx context.Context, donorID string, at *time.Time) (*services.DonorView, error) {
	args := m.Called(ctx, donorID, at)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

func (m *mockDonorUseCase) Deactivate(ctx context.Context, donorID string) (*services.DonorView, error) {
	args := m.Called(ctx, donorID)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

func (m *mockDonorUseCase) Reactivate(ctx context.Context, donorID string) (*services.DonorView, error) {
	args := m.Called(ctx, donorID)
	v, _ := args.Get(0).(*services.DonorView)
	return v, args.Error(1)
}

type mockVerificationUseCase struct{ mock.Mock }

func (m *mockVerificationUseCase) Approve(ctx context.Context, verificationID string, adminUserID uint) (*services.ReviewResult, error) {
	args := m.Called(ctx, verificationID, adminUserID)
	v, _ := args.Get(0).(*services.ReviewResult)
	return v, args.Error(1)
}

func (m *mockVerificationUseCase) Reject(ctx context.Context, verificationID string, adminUserID uint) (*services.ReviewResult, error) {
	args := m.Called(ctx, verificationID, adminUserID)
	v, _ := args.Get(0).(*services.ReviewResult)
	return v, args.Error(1)
}

func (m *mockVerificationUseCase) ProofURL(ctx context.Context, verificationID string) (*services.ProofLink, error) {
	args := m.Called(ctx, verificationID)
	v, _ := args.Get(0).(*services.ProofLink)
	return v, args.Error(1)
}

func (m *mockVerificationUseCase) OpenProof(ctx context.Context, verificationID string) (*services.ProofDocument, error) {
	args := m.Called(ctx, verificationID)
	v, _ := args.Get(0).(*services.ProofDocument)
	return v, args.Error(1)
}

type mockSearchUseCase struct{ mock.Mock }

func (m *mockSearchUseCase) Search(ctx context.Context, filter services.SearchFilter) ([]services.SearchResult, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]services.SearchResult)
	return v, args.Error(1)
}

func (m *mockSearchUseCase) Compatibility(bloodType string) (*services.CompatibilityView, error) {
	args := m.Called(bloodType)
	v, _ := args.Get(0).(*services.CompatibilityView)
	return v, args.Error(1)
}

func (m *mockSearchUseCase) CompatibilityTable() []services.CompatibilityView {
	args := m.Called()
	v, _ := args.Get(0).([]services.CompatibilityView)
	return v
}

type mockAdminUseCase struct{ mock.Mock }

func (m *mockAdminUseCase) ListDonors(ctx context.Context, input services.ListDonorsInput) ([]services.DonorView, error) {
	args := m.Called(ctx, input)
	v, _ := args.Get(0).([]services.DonorView)
	return v, args.Error(1)
}

func (m *mockAdminUseCase) Stats(ctx context.Context) (*services.DonorStats, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*services.DonorStats)
	return v, args.Error(1)
}

func (m *mockAdminUseCase) Promote(ctx context.Context, userID uint, name string) (*models.Administrator, error) {
	args := m.Called(ctx, userID, name)
	v, _ := args.Get(0).(*models.Administrator)
	return v, args.Error(1)
}

func (m *mockAdminUseCase) AdminByUser(ctx context.Context, userID uint) (*models.Administrator, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*models.Administrator)
	return v, args.Error(1)
}

// asUser stands in for the auth middleware
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{UnescapePath: true})
}
