package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"donoryuk/internal/adapters/persistence/models"
	"donoryuk/internal/adapters/persistence/repositories"
	"donoryuk/internal/adapters/storage"
	"donoryuk/internal/core/domain"
	"donoryuk/internal/pkg/metrics"
	"donoryuk/internal/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxProofSize is the largest accepted donor card upload
const MaxProofSize = 5 << 20

const proofKeyPrefix = "donor-cards/"

var proofExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// proofContentType maps a stored key back to the type it was accepted as
func proofContentType(key string) string {
	ext := path.Ext(key)
	for contentType, e := range proofExtensions {
		if e == ext {
			return contentType
		}
	}
	return "application/octet-stream"
}

// DonorService handles donor registration, self-service and status changes
type DonorService struct {
	donorRepo repositories.DonorRepository
	store     storage.Storage
	validate  *validator.Validator
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewDonorService creates a new donor service
func NewDonorService(
	donorRepo repositories.DonorRepository,
	store storage.Storage,
	validate *validator.Validator,
	m *metrics.Metrics,
	log *zap.Logger,
) *DonorService {
	return &DonorService{
		donorRepo: donorRepo,
		store:     store,
		validate:  validate,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// RegisterDonorInput is the donor registration form
type RegisterDonorInput struct {
	Name        string `json:"name" form:"name" validate:"required,min=2,max=100,person_name"`
	BloodGroup  string `json:"blood_group" form:"blood_group" validate:"required,blood_group"`
	Rhesus      string `json:"rhesus" form:"rhesus" validate:"required,rhesus"`
	Location    string `json:"location" form:"location" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required,id_phone"`
	Notes       string `json:"notes" form:"notes" validate:"max=500"`
}

// UpdateDonorInput changes the self-service fields; nil fields are left alone
type UpdateDonorInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100,person_name"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,id_phone"`
	Notes       *string `json:"notes" validate:"omitempty,max=500"`
}

// ProofFile is an uploaded donor card
type ProofFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Register creates a pending donor profile and its first verification
func (s *DonorService) Register(ctx context.Context, userID uint, input *RegisterDonorInput, proof *ProofFile) (*DonorView, error) {
	normalizeRegisterInput(input)
	if err := s.validate.Validate(input); err != nil {
		return nil, toValidationError(err)
	}

	if proof == nil || proof.Content == nil {
		return nil, fieldError("donor_card", "Bukti kartu donor wajib diunggah")
	}
	content, contentType, err := sniffProof(proof)
	if err != nil {
		return nil, err
	}

	exists, err := s.donorRepo.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDonorAlreadyExists
	}

	now := s.now()
	key := fmt.Sprintf("%s%d-%d%s", proofKeyPrefix, userID, now.UnixMilli(), proofExtensions[contentType])
	if err := s.store.Put(ctx, key, content, contentType); err != nil {
		return nil, fmt.Errorf("store proof: %w", err)
	}

	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}
	donor := &models.Donor{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		BloodGroup:  input.BloodGroup,
		Rhesus:      input.Rhesus,
		Location:    input.Location,
		PhoneNumber: input.PhoneNumber,
		Notes:       notes,
		Status:      string(domain.StatusPendingVerification),
	}
	verification := &models.Verification{
		ID:           uuid.New().String(),
		DonorCardKey: key,
	}

	if err := s.donorRepo.CreateWithVerification(ctx, donor, verification); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned proof document", zap.String("key", key), zap.Error(delErr))
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDonorAlreadyExists
		}
		return nil, err
	}

	s.metrics.ObserveRegistration()
	s.log.Info("donor registered",
		zap.String("donor_id", donor.ID),
		zap.Uint("user_id", userID),
		zap.String("blood_type", input.BloodGroup+input.Rhesus))

	donor.Verifications = []models.Verification{*verification}
	view := newDonorView(donor, now)
	return &view, nil
}

// GetMine returns the caller's donor profile
func (s *DonorService) GetMine(ctx context.Context, userID uint) (*DonorView, error) {
	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrDonorNotFound)
	}
	view := newDonorView(donor, s.now())
	return &view, nil
}

// UpdateMine edits the caller's name, location, phone and notes
func (s *DonorService) UpdateMine(ctx context.Context, userID uint, input *UpdateDonorInput) (*DonorView, error) {
	normalizeUpdateInput(input)
	if err := s.validate.Validate(input); err != nil {
		return nil, toValidationError(err)
	}

	donor, err := s.donorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrDonorNotFound)
	}

	if input.Name != nil {
		donor.Name = *input.Name
	}
	if input.Location != nil {
		donor.Location = *input.Location
	}
	if input.PhoneNumber != nil {
		donor.PhoneNumber = *input.PhoneNumber
	}
	if input.Notes != nil {
		if *input.Notes == "" {
			donor.Notes = nil
		} else {
			donor.Notes = input.Notes
		}
	}

	if err := s.donorRepo.UpdateProfile(ctx, donor); err != nil {
		return nil, err
	}

	view := newDonorView(donor, s.now())
	return &view, nil
}

// MarkDonated records a donation at the given time, or now when at is nil
func (s *DonorService) MarkDonated(ctx context.Context, donorID string, at *time.Time) (*DonorView, error) {
	now := s.now()
	when := now
	if at != nil {
		if at.After(now) {
			return nil, fieldError("donated_at", "Tanggal donor tidak boleh di masa depan")
		}
		when = *at
	}
	return s.apply(ctx, donorID, domain.EventDonated, when)
}

// Deactivate takes an active donor out of the search results
func (s *DonorService) Deactivate(ctx context.Context, donorID string) (*DonorView, error) {
	return s.apply(ctx, donorID, domain.EventDeactivated, s.now())
}

// Reactivate returns an unavailable donor to active, regardless of cooldown
func (s *DonorService) Reactivate(ctx context.Context, donorID string) (*DonorView, error) {
	return s.apply(ctx, donorID, domain.EventReactivated, s.now())
}

func (s *DonorService) apply(ctx context.Context, donorID string, event domain.DonorEvent, at time.Time) (*DonorView, error) {
	donor, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, notFound(err, ErrDonorNotFound)
	}

	res, err := domain.Transition(domain.DonorStatus(donor.Status), event, at)
	if err != nil {
		return nil, lifecycleError(s.metrics, s.log, donor.ID, event, err)
	}

	err = s.donorRepo.UpdateStatus(ctx, repositories.StatusChange{
		DonorID:        donor.ID,
		From:           string(res.From),
		To:             string(res.To),
		LastDonationAt: res.LastDonationAt,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	s.metrics.ObserveTransition(string(res.From), string(res.To), string(event))
	s.log.Info("donor status changed",
		zap.String("donor_id", donor.ID),
		zap.String("from", string(res.From)),
		zap.String("to", string(res.To)),
		zap.String("event", string(event)))

	donor.Status = string(res.To)
	if res.LastDonationAt != nil {
		donor.LastDonationAt = res.LastDonationAt
	}
	view := withActions(newDonorView(donor, s.now()))
	return &view, nil
}

// sniffProof checks the declared size and the sniffed content type, and
// returns a reader that still yields the whole file.
func sniffProof(proof *ProofFile) (io.Reader, string, error) {
	if proof.Size > MaxProofSize {
		return nil, "", ErrProofTooLarge
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(proof.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read proof: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, "", ErrInvalidProof
	}

	contentType := http.DetectContentType(head)
	if _, ok := proofExtensions[contentType]; !ok {
		return nil, "", ErrInvalidProof
	}

	return io.MultiReader(bytes.NewReader(head), proof.Content), contentType, nil
}

func normalizeRegisterInput(input *RegisterDonorInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Location = strings.TrimSpace(input.Location)
	input.PhoneNumber = validator.NormalizePhone(input.PhoneNumber)
	input.Notes = strings.TrimSpace(input.Notes)

	if g, err := domain.ParseABOGroup(input.BloodGroup); err == nil {
		input.BloodGroup = string(g)
	}
	if r, err := domain.ParseRhesus(input.Rhesus); err == nil {
		input.Rhesus = string(r)
	}
}

func normalizeUpdateInput(input *UpdateDonorInput) {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(input.Name)
	trim(input.Location)
	trim(input.Notes)
	if input.PhoneNumber != nil {
		*input.PhoneNumber = validator.NormalizePhone(*input.PhoneNumber)
	}
}

func toValidationError(err error) error {
	if fields := validator.FieldErrors(err); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return err
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
