package services

import (
	"context"
	"io"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(*models.RefreshToken)
	return t, args.Error(1)
}

func (m *mockTokenRepo) Revoke(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokenRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) GetByUserID(ctx context.Context, userID uint) (*models.Administrator, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(*models.Administrator)
	return a, args.Error(1)
}

func (m *mockAdminRepo) Promote(ctx context.Context, userID uint, name, email string) (*models.Administrator, error) {
	args := m.Called(ctx, userID, name, email)
	a, _ := args.Get(0).(*models.Administrator)
	return a, args.Error(1)
}

type mockDonorRepo struct{ mock.Mock }

func (m *mockDonorRepo) CreateWithVerification(ctx context.Context, donor *models.Donor, verification *models.Verification) error {
	return m.Called(ctx, donor, verification).Error(0)
}

func (m *mockDonorRepo) GetByID(ctx context.Context, id string) (*models.Donor, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Donor)
	return d, args.Error(1)
}

func (m *mockDonorRepo) GetByUserID(ctx context.Context, userID uint) (*models.Donor, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).(*models.Donor)
	return d, args.Error(1)
}

func (m *mockDonorRepo) ExistsByUserID(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockDonorRepo) UpdateProfile(ctx context.Context, donor *models.Donor) error {
	return m.Called(ctx, donor).Error(0)
}

func (m *mockDonorRepo) UpdateStatus(ctx context.Context, change repositories.StatusChange) error {
	return m.Called(ctx, change).Error(0)
}

func (m *mockDonorRepo) ListByStatus(ctx context.Context, status string) ([]*models.Donor, error) {
	args := m.Called(ctx, status)
	d, _ := args.Get(0).([]*models.Donor)
	return d, args.Error(1)
}

func (m *mockDonorRepo) ListWithVerifications(ctx context.Context) ([]*models.Donor, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]*models.Donor)
	return d, args.Error(1)
}

func (m *mockDonorRepo) ListDonatedBetween(ctx context.Context, status string, from, to time.Time) ([]*models.Donor, error) {
	args := m.Called(ctx, status, from, to)
	d, _ := args.Get(0).([]*models.Donor)
	return d, args.Error(1)
}

func (m *mockDonorRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDonorRepo) CountByStatus(ctx context.Context) ([]repositories.CountRow, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]repositories.CountRow)
	return r, args.Error(1)
}

func (m *mockDonorRepo) CountByBloodType(ctx context.Context) ([]repositories.CountRow, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]repositories.CountRow)
	return r, args.Error(1)
}

func (m *mockDonorRepo) CountByLocation(ctx context.Context) ([]repositories.CountRow, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]repositories.CountRow)
	return r, args.Error(1)
}

func (m *mockDonorRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type mockVerificationRepo struct{ mock.Mock }

func (m *mockVerificationRepo) GetByID(ctx context.Context, id string) (*models.Verification, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Verification)
	return v, args.Error(1)
}

func (m *mockVerificationRepo) Review(ctx context.Context, review repositories.VerificationReview) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockVerificationRepo) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockStorage struct {
	mock.Mock
	put []byte
}

func (m *mockStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	b, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.put = b
	return m.Called(ctx, key, contentType).Error(0)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
