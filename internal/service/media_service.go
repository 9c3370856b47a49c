package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

// MediaService covers the owner side of listing media. Status changes go
// through ModerationService.
type MediaService interface {
	List(ctx context.Context, ownerID, listingID string) ([]*transfer.MediaView, error)
	Get(ctx context.Context, ownerID, listingID, mediaID string) (*transfer.MediaView, error)
	UpdateCaption(ctx context.Context, ownerID, listingID, mediaID, caption string) error
	Reorder(ctx context.Context, ownerID, listingID string, order []string) error
	Remove(ctx context.Context, ownerID, listingID, mediaID string) error
}

type mediaService struct {
	tm         repository.TxManager
	lr         repository.ListingRepository
	mr         repository.MediaRepository
	moderation ModerationService
	storage    StorageService
}

func NewMediaService(
	tm repository.TxManager,
	lr repository.ListingRepository,
	mr repository.MediaRepository,
	moderation ModerationService,
	storage StorageService,
) MediaService {
	return &mediaService{tm: tm, lr: lr, mr: mr, moderation: moderation, storage: storage}
}

func (s *mediaService) List(ctx context.Context, ownerID, listingID string) ([]*transfer.MediaView, error) {
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return nil, err
	}
	media, err := s.mr.ListByListingID(ctx, nil, listingID)
	if err != nil {
		return nil, err
	}
	return signMedia(ctx, s.storage, media), nil
}

func (s *mediaService) Get(ctx context.Context, ownerID, listingID, mediaID string) (*transfer.MediaView, error) {
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return nil, err
	}
	media, err := s.mr.GetByListing(ctx, nil, listingID, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, errMediaNotFound
	}

	url, err := s.storage.SignedURL(ctx, media.Path)
	if err != nil {
		return nil, err
	}
	return mediaView(media, url), nil
}

func (s *mediaService) UpdateCaption(ctx context.Context, ownerID, listingID, mediaID, caption string) error {
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return err
	}
	found, err := s.mr.UpdateCaption(ctx, listingID, mediaID, strings.TrimSpace(caption))
	if err != nil {
		return err
	}
	if !found {
		return errMediaNotFound
	}
	return nil
}

// Reorder sets display_order to each id's position. Ids from other listings are ignored.
func (s *mediaService) Reorder(ctx context.Context, ownerID, listingID string, order []string) error {
	if _, err := ownedListing(ctx, s.lr, ownerID, listingID); err != nil {
		return err
	}
	return s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		for i, id := range order {
			if err := s.mr.UpdateDisplayOrder(ctx, tx, listingID, id, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *mediaService) Remove(ctx context.Context, ownerID, listingID, mediaID string) error {
	return s.moderation.RemoveMedia(ctx, ownerID, listingID, mediaID)
}
