package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/metrics"
	"donoryuk/internal/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newDonorServiceForTest(repo *mockDonorRepo, store *mockStorage, m *metrics.Metrics) *DonorService {
	s := NewDonorService(repo, store, validator.New(), m, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func validRegisterInput() *RegisterDonorInput {
	return &RegisterDonorInput{
		Name:        "Budi Santoso",
		BloodGroup:  "o",
		Rhesus:      "-",
		Location:    "Jakarta",
		PhoneNumber: "0812-3456-7890",
	}
}

func pngProof() *ProofFile {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x01}, 1024)...)
	return &ProofFile{Filename: "card.png", Size: int64(len(body)), Content: bytes.NewReader(body)}
}

func activeDonor(last *time.Time) *models.Donor {
	return &models.Donor{
		ID:             "donor-1",
		UserID:         7,
		Name:           "Budi Santoso",
		BloodGroup:     "O",
		Rhesus:         "Rh-",
		Location:       "Jakarta",
		PhoneNumber:    "081234567890",
		Status:         string(domain.StatusActive),
		LastDonationAt: last,
	}
}

func TestDonorService_Register(t *testing.T) {
	repo := &mockDonorRepo{}
	store := &mockStorage{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newDonorServiceForTest(repo, store, m)

	key := fmt.Sprintf("donor-cards/7-%d.png", fixedNow.UnixMilli())
	proof := pngProof()

	repo.On("ExistsByUserID", mock.Anything, uint(7)).Return(false, nil)
	store.On("Put", mock.Anything, key, "image/png").Return(nil)
	repo.On("CreateWithVerification", mock.Anything,
		mock.MatchedBy(func(d *models.Donor) bool {
			return d.UserID == 7 &&
				d.BloodGroup == "O" &&
				d.Rhesus == "Rh-" &&
				d.PhoneNumber == "081234567890" &&
				d.Status == string(domain.StatusPendingVerification) &&
				d.Notes == nil
		}),
		mock.MatchedBy(func(v *models.Verification) bool {
			return v.DonorCardKey == key && !v.Verified && v.VerifiedAt == nil
		}),
	).Return(nil)

	view, err := svc.Register(context.Background(), 7, validRegisterInput(), proof)
	require.NoError(t, err)

	assert.Equal(t, "O-", view.BloodType)
	assert.Equal(t, string(domain.StatusPendingVerification), view.Status)
	assert.Equal(t, "Menunggu Verifikasi", view.StatusLabel)
	assert.False(t, view.IsAvailable)
	assert.Nil(t, view.DaysSinceLastDonation)
	require.NotNil(t, view.Verification)
	assert.Equal(t, "pending", view.Verification.State)

	assert.Equal(t, 1024+len(pngHeader), len(store.put), "the sniffed header is not lost")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations))
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestDonorService_Register_AlreadyRegistered(t *testing.T) {
	repo := &mockDonorRepo{}
	store := &mockStorage{}
	svc := newDonorServiceForTest(repo, store, nil)

	repo.On("ExistsByUserID", mock.Anything, uint(7)).Return(true, nil)

	_, err := svc.Register(context.Background(), 7, validRegisterInput(), pngProof())
	assert.ErrorIs(t, err, ErrDonorAlreadyExists)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestDonorService_Register_DeletesProofWhenInsertFails(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"duplicate_user", gorm.ErrDuplicatedKey, ErrDonorAlreadyExists},
		{"db_down", errors.New("connection refused"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockDonorRepo{}
			store := &mockStorage{}
			svc := newDonorServiceForTest(repo, store, nil)
			key := fmt.Sprintf("donor-cards/7-%d.png", fixedNow.UnixMilli())

			repo.On("ExistsByUserID", mock.Anything, uint(7)).Return(false, nil)
			store.On("Put", mock.Anything, key, "image/png").Return(nil)
			repo.On("CreateWithVerification", mock.Anything, mock.Anything, mock.Anything).Return(tt.dbErr)
			store.On("Delete", mock.Anything, key).Return(nil)

			_, err := svc.Register(context.Background(), 7, validRegisterInput(), pngProof())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.dbErr)
			}
			store.AssertCalled(t, "Delete", mock.Anything, key)
		})
	}
}

func TestDonorService_Register_RejectsBadProof(t *testing.T) {
	pdf := []byte("%PDF-1.4 donor card")

	tests := []struct {
		name    string
		proof   *ProofFile
		wantErr error
	}{
		{"pdf", &ProofFile{Filename: "card.pdf", Size: int64(len(pdf)), Content: bytes.NewReader(pdf)}, ErrInvalidProof},
		{"empty", &ProofFile{Filename: "card.png", Size: 0, Content: bytes.NewReader(nil)}, ErrInvalidProof},
		{"too_large", &ProofFile{Filename: "card.png", Size: MaxProofSize + 1, Content: bytes.NewReader(pngHeader)}, ErrProofTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockDonorRepo{}
			store := &mockStorage{}
			svc := newDonorServiceForTest(repo, store, nil)

			_, err := svc.Register(context.Background(), 7, validRegisterInput(), tt.proof)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "ExistsByUserID", mock.Anything, mock.Anything)
		})
	}
}

func TestDonorService_Register_ValidationErrors(t *testing.T) {
	svc := newDonorServiceForTest(&mockDonorRepo{}, &mockStorage{}, nil)

	input := validRegisterInput()
	input.PhoneNumber = "12345"
	input.BloodGroup = "C"
	input.Name = "B"

	_, err := svc.Register(context.Background(), 7, input, pngProof())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone_number")
	assert.Contains(t, verr.Fields, "blood_group")
	assert.Contains(t, verr.Fields, "name")

	_, err = svc.Register(context.Background(), 7, validRegisterInput(), nil)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "donor_card")
}

func TestDonorService_MarkDonated(t *testing.T) {
	repo := &mockDonorRepo{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newDonorServiceForTest(repo, &mockStorage{}, m)

	repo.On("GetByID", mock.Anything, "donor-1").Return(activeDonor(nil), nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(c repositories.StatusChange) bool {
		return c.DonorID == "donor-1" &&
			c.From == "active" &&
			c.To == "unavailable" &&
			c.LastDonationAt != nil && c.LastDonationAt.Equal(fixedNow)
	})).Return(nil)

	view, err := svc.MarkDonated(context.Background(), "donor-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "unavailable", view.Status)
	assert.False(t, view.IsAvailable)
	assert.Equal(t, []string{"reactivated"}, view.AllowedActions)
	require.NotNil(t, view.DaysSinceLastDonation)
	assert.Equal(t, 0, *view.DaysSinceLastDonation)
	require.NotNil(t, view.AvailableFrom)
	assert.True(t, view.AvailableFrom.Equal(fixedNow.Add(domain.Cooldown)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("active", "unavailable", "donated")))
	repo.AssertExpectations(t)
}

func TestDonorService_MarkDonated_PastAndFutureDates(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := newDonorServiceForTest(repo, &mockStorage{}, nil)

	future := fixedNow.Add(time.Hour)
	_, err := svc.MarkDonated(context.Background(), "donor-1", &future)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "donated_at")
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	past := fixedNow.AddDate(0, 0, -3)
	repo.On("GetByID", mock.Anything, "donor-1").Return(activeDonor(nil), nil)
	repo.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(c repositories.StatusChange) bool {
		return c.LastDonationAt != nil && c.LastDonationAt.Equal(past)
	})).Return(nil)

	view, err := svc.MarkDonated(context.Background(), "donor-1", &past)
	require.NoError(t, err)
	require.NotNil(t, view.DaysSinceLastDonation)
	assert.Equal(t, 3, *view.DaysSinceLastDonation)
}

func TestDonorService_IllegalTransitionDoesNotWrite(t *testing.T) {
	repo := &mockDonorRepo{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newDonorServiceForTest(repo, &mockStorage{}, m)

	pending := activeDonor(nil)
	pending.Status = string(domain.StatusPendingVerification)
	repo.On("GetByID", mock.Anything, "donor-1").Return(pending, nil)

	_, err := svc.MarkDonated(context.Background(), "donor-1", nil)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = svc.Reactivate(context.Background(), "donor-1")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionRejection.WithLabelValues("donated")))
}

func TestDonorService_UnknownStoredStatusIsNotCountedAsRejection(t *testing.T) {
	repo := &mockDonorRepo{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := newDonorServiceForTest(repo, &mockStorage{}, m)

	broken := activeDonor(nil)
	broken.Status = "sleeping"
	repo.On("GetByID", mock.Anything, "donor-1").Return(broken, nil)

	_, err := svc.MarkDonated(context.Background(), "donor-1", nil)
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.NotErrorIs(t, err, domain.ErrInvalidStatus)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	assert.Equal(t, 0, testutil.CollectAndCount(m.TransitionRejection))
}

func TestDonorService_Reactivate(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := newDonorServiceForTest(repo, &mockStorage{}, nil)

	recent := fixedNow.AddDate(0, 0, -10)
	donor := activeDonor(&recent)
	donor.Status = string(domain.StatusUnavailable)
	repo.On("GetByID", mock.Anything, "donor-1").Return(donor, nil)
	repo.On("UpdateStatus", mock.Anything, repositories.StatusChange{
		DonorID: "donor-1",
		From:    "unavailable",
		To:      "active",
	}).Return(nil)

	view, err := svc.Reactivate(context.Background(), "donor-1")
	require.NoError(t, err)
	assert.Equal(t, "active", view.Status)
	assert.False(t, view.IsAvailable, "reactivated inside the cooldown window")
	require.NotNil(t, view.LastDonationAt)
	assert.True(t, view.LastDonationAt.Equal(recent))
}

func TestDonorService_StaleStatusIsConflict(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := newDonorServiceForTest(repo, &mockStorage{}, nil)

	repo.On("GetByID", mock.Anything, "donor-1").Return(activeDonor(nil), nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything).Return(repositories.ErrStaleStatus)

	_, err := svc.Deactivate(context.Background(), "donor-1")
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestDonorService_NotFound(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := newDonorServiceForTest(repo, &mockStorage{}, nil)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)
	repo.On("GetByUserID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Deactivate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDonorNotFound)

	_, err = svc.GetMine(context.Background(), 9)
	assert.ErrorIs(t, err, ErrDonorNotFound)
}

func TestDonorService_UpdateMine(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := newDonorServiceForTest(repo, &mockStorage{}, nil)

	notes := "bisa dihubungi malam"
	donor := activeDonor(nil)
	donor.Notes = &notes
	repo.On("GetByUserID", mock.Anything, uint(7)).Return(donor, nil)
	repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(d *models.Donor) bool {
		return d.Location == "Bandung" && d.PhoneNumber == "081298765432" && d.Notes == nil && d.Name == "Budi Santoso"
	})).Return(nil)

	location := "  Bandung "
	phone := "0812 9876 5432"
	empty := ""
	view, err := svc.UpdateMine(context.Background(), 7, &UpdateDonorInput{
		Location:    &location,
		PhoneNumber: &phone,
		Notes:       &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bandung", view.Location)
	assert.Equal(t, "active", view.Status, "self-service never changes status")
	repo.AssertExpectations(t)

	bad := "not-a-phone"
	_, err = svc.UpdateMine(context.Background(), 7, &UpdateDonorInput{PhoneNumber: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone_number")
}
