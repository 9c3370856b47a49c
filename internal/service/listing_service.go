package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
	"github.com/maheshrc27/propertyhub-api/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxSuggestions  = 10
)

type ListingService interface {
	Submit(ctx context.Context, ownerID string, in *transfer.ListingInput, files []transfer.MediaFile) (*models.Listing, error)
	Resubmit(ctx context.Context, ownerID, listingID string, in *transfer.ListingInput, files []transfer.MediaFile) (*models.Listing, error)
	Delete(ctx context.Context, ownerID, listingID string) error
	ListMine(ctx context.Context, ownerID string) ([]*models.ListingSummary, error)
	GetMine(ctx context.Context, ownerID, listingID string) (*models.Listing, error)
	ListPublic(ctx context.Context, f *transfer.PublicListingFilter) ([]*models.ListingSummary, error)
	GetPublic(ctx context.Context, listingID string) (*transfer.PublicListing, error)
	SuggestTitles(ctx context.Context, q string) ([]string, error)
	Timeline(ctx context.Context, ownerID, listingID string) ([]*models.StatusHistory, error)
}

type listingService struct {
	tm      repository.TxManager
	lr      repository.ListingRepository
	mr      repository.MediaRepository
	hr      repository.StatusHistoryRepository
	storage StorageService
}

func NewListingService(
	tm repository.TxManager,
	lr repository.ListingRepository,
	mr repository.MediaRepository,
	hr repository.StatusHistoryRepository,
	storage StorageService,
) ListingService {
	return &listingService{tm: tm, lr: lr, mr: mr, hr: hr, storage: storage}
}

type upload struct {
	key         string
	fileName    string
	contentType string
	data        []byte
}

func (s *listingService) Submit(ctx context.Context, ownerID string, in *transfer.ListingInput, files []transfer.MediaFile) (*models.Listing, error) {
	if err := validateListing(in); err != nil {
		return nil, err
	}

	listing := &models.Listing{ID: uuid.NewString(), OwnerID: ownerID, Status: models.StatusPending}
	applyInput(listing, in)

	uploads, err := prepareUploads(listing.ID, files)
	if err != nil {
		return nil, err
	}
	if err := s.uploadAll(ctx, uploads); err != nil {
		return nil, err
	}

	err = s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.lr.Create(ctx, tx, listing); err != nil {
			return err
		}
		if err := appendHistory(ctx, tx, s.hr, listing.ID, models.StatusPending, models.NoteListingSubmitted); err != nil {
			return err
		}
		return s.createMedia(ctx, tx, listing.ID, uploads, 0)
	})
	if err != nil {
		s.discard(ctx, uploads)
		return nil, err
	}

	slog.Info("listing submitted", "listing_id", listing.ID, "owner_id", ownerID, "media", len(uploads))
	return listing, nil
}

// Resubmit overwrites the listing fields and always returns it to pending.
// Existing media keep their own status.
func (s *listingService) Resubmit(ctx context.Context, ownerID, listingID string, in *transfer.ListingInput, files []transfer.MediaFile) (*models.Listing, error) {
	if err := validateListing(in); err != nil {
		return nil, err
	}
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return nil, err
	}

	uploads, err := prepareUploads(listingID, files)
	if err != nil {
		return nil, err
	}
	if err := s.uploadAll(ctx, uploads); err != nil {
		return nil, err
	}

	var listing *models.Listing
	err = s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		locked, err := s.lr.LockByID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(locked, ownerID); err != nil {
			return err
		}
		listing = locked

		applyInput(listing, in)
		listing.Status = models.StatusPending
		if err := s.lr.Update(ctx, tx, listing); err != nil {
			return err
		}
		if err := appendHistory(ctx, tx, s.hr, listingID, models.StatusPending, models.NoteListingResubmitted); err != nil {
			return err
		}

		last, err := s.mr.MaxDisplayOrder(ctx, tx, listingID)
		if err != nil {
			return err
		}
		return s.createMedia(ctx, tx, listingID, uploads, last+1)
	})
	if err != nil {
		s.discard(ctx, uploads)
		return nil, err
	}

	slog.Info("listing resubmitted", "listing_id", listingID, "new_media", len(uploads))
	return listing, nil
}

func (s *listingService) Delete(ctx context.Context, ownerID, listingID string) error {
	var paths []string
	err := s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		listing, err := s.lr.LockByID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(listing, ownerID); err != nil {
			return err
		}

		media, err := s.mr.ListByListingID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		for _, m := range media {
			paths = append(paths, m.Path)
		}

		if err := s.mr.RemoveByListingID(ctx, tx, listingID); err != nil {
			return err
		}
		return s.lr.Remove(ctx, tx, listingID)
	})
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, paths...); err != nil {
		slog.Error("failed to remove listing objects", "listing_id", listingID, "error", err)
	}
	return nil
}

func (s *listingService) ListMine(ctx context.Context, ownerID string) ([]*models.ListingSummary, error) {
	if ownerID == "" {
		return nil, errUnauthorized
	}
	return s.lr.ListByOwner(ctx, ownerID)
}

func (s *listingService) GetMine(ctx context.Context, ownerID, listingID string) (*models.Listing, error) {
	return ownedListing(ctx, s.lr, ownerID, listingID)
}

func (s *listingService) ListPublic(ctx context.Context, f *transfer.PublicListingFilter) ([]*models.ListingSummary, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, newError(ErrInvalidInput, "min_price must not exceed max_price.")
	}
	return s.lr.ListApproved(ctx, f)
}

func (s *listingService) GetPublic(ctx context.Context, listingID string) (*transfer.PublicListing, error) {
	listing, err := s.lr.GetApproved(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, newError(ErrNotFound, "Listing not found or not approved.")
	}

	media, err := s.mr.ListApprovedByListingID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	return &transfer.PublicListing{
		Listing: listing,
		Media:   signMedia(ctx, s.storage, media),
	}, nil
}

func (s *listingService) SuggestTitles(ctx context.Context, q string) ([]string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []string{}, nil
	}
	return s.lr.SuggestTitles(ctx, q, maxSuggestions)
}

func (s *listingService) Timeline(ctx context.Context, ownerID, listingID string) ([]*models.StatusHistory, error) {
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return nil, err
	}
	return s.hr.ListByListingID(ctx, listingID)
}

func (s *listingService) uploadAll(ctx context.Context, uploads []upload) error {
	for i, u := range uploads {
		if err := s.storage.Upload(ctx, u.key, u.data, u.contentType); err != nil {
			s.discard(ctx, uploads[:i])
			return err
		}
	}
	return nil
}

func (s *listingService) discard(ctx context.Context, uploads []upload) {
	if len(uploads) == 0 {
		return
	}
	keys := make([]string, 0, len(uploads))
	for _, u := range uploads {
		keys = append(keys, u.key)
	}
	if err := s.storage.Remove(ctx, keys...); err != nil {
		slog.Error("failed to discard uploaded objects", "keys", keys, "error", err)
	}
}

func (s *listingService) createMedia(ctx context.Context, tx *sql.Tx, listingID string, uploads []upload, firstOrder int) error {
	for i, u := range uploads {
		err := s.mr.Create(ctx, tx, &models.ListingMedia{
			ID:           uuid.NewString(),
			ListingID:    listingID,
			FileName:     u.fileName,
			ContentType:  u.contentType,
			Path:         u.key,
			Status:       models.StatusPending,
			DisplayOrder: firstOrder + i,
		})
		if err != nil {
			return fmt.Errorf("create media %s: %w", u.fileName, err)
		}
	}
	return nil
}

func prepareUploads(listingID string, files []transfer.MediaFile) ([]upload, error) {
	uploads := make([]upload, 0, len(files))
	for _, f := range files {
		contentType, err := utils.DetectMediaType(f.Data)
		if err != nil {
			return nil, newError(ErrInvalidInput, fmt.Sprintf("Unsupported file type: %s.", f.FileName))
		}
		key, err := utils.MediaObjectKey(listingID, f.FileName)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload{
			key:         key,
			fileName:    utils.SanitizeFileName(f.FileName),
			contentType: contentType,
			data:        f.Data,
		})
	}
	return uploads, nil
}

func validateListing(in *transfer.ListingInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.City = strings.TrimSpace(in.City)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)

	err := transfer.Validate(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newError(ErrInvalidInput, err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return errMissingFields
		}
	}
	return newError(ErrInvalidInput, fmt.Sprintf("Invalid value for %s.", verrs[0].Field()))
}

func applyInput(l *models.Listing, in *transfer.ListingInput) {
	l.ListingType = in.ListingType
	l.PropertyType = strings.TrimSpace(in.PropertyType)
	l.Title = in.Title
	l.Price = in.Price
	l.Deposit = nil
	if in.ListingType == models.ListingTypeRent && in.Deposit > 0 {
		deposit := in.Deposit
		l.Deposit = &deposit
	}
	l.State = strings.TrimSpace(in.State)
	l.City = in.City
	l.Pincode = strings.TrimSpace(in.Pincode)
	l.Address = strings.TrimSpace(in.Address)
	l.Description = strings.TrimSpace(in.Description)
	l.Amenities = normalizeAmenities(in.Amenities)
	l.ContactName = strings.TrimSpace(in.ContactName)
	l.ContactPhone = in.ContactPhone
	l.ContactEmail = strings.TrimSpace(in.ContactEmail)
}

// normalizeAmenities trims each tag and drops empty ones.
func normalizeAmenities(raw string) string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ",")
}

// signMedia issues a fresh URL per item and skips items that cannot be signed.
func signMedia(ctx context.Context, storage StorageService, media []*models.ListingMedia) []*transfer.MediaView {
	views := make([]*transfer.MediaView, 0, len(media))
	for _, m := range media {
		url, err := storage.SignedURL(ctx, m.Path)
		if err != nil {
			slog.Warn("skipping unsignable media", "media_id", m.ID, "error", err)
			continue
		}
		views = append(views, mediaView(m, url))
	}
	return views
}

func mediaView(m *models.ListingMedia, url string) *transfer.MediaView {
	return &transfer.MediaView{
		ID:           m.ID,
		FileName:     m.FileName,
		ContentType:  m.ContentType,
		Status:       m.Status,
		Caption:      m.Caption,
		DisplayOrder: m.DisplayOrder,
		URL:          url,
	}
}
