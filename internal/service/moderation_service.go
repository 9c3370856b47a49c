package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

// ModerationService keeps a listing's status in line with the decisions
// recorded on its media. Every transition runs in one transaction holding
// the listing row lock.
type ModerationService interface {
	RecordMediaDecision(ctx context.Context, mediaID, decision string) (string, error)
	RemoveMedia(ctx context.Context, ownerID, listingID, mediaID string) error
	Reconcile(ctx context.Context, listingID string) (bool, error)
	ReviewQueue(ctx context.Context) ([]*transfer.ReviewQueueItem, error)
}

type moderationService struct {
	tm      repository.TxManager
	lr      repository.ListingRepository
	mr      repository.MediaRepository
	hr      repository.StatusHistoryRepository
	storage StorageService
}

func NewModerationService(
	tm repository.TxManager,
	lr repository.ListingRepository,
	mr repository.MediaRepository,
	hr repository.StatusHistoryRepository,
	storage StorageService,
) ModerationService {
	return &moderationService{tm: tm, lr: lr, mr: mr, hr: hr, storage: storage}
}

// RecordMediaDecision stores an admin decision and returns the listing status after it.
func (s *moderationService) RecordMediaDecision(ctx context.Context, mediaID, decision string) (string, error) {
	if !models.IsMediaDecision(decision) {
		return "", newError(ErrInvalidInput, "Invalid status.")
	}

	var listingStatus string
	err := s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		media, err := s.mr.GetByID(ctx, tx, mediaID)
		if err != nil {
			return err
		}
		if media == nil {
			return errMediaNotFound
		}

		listing, err := s.lr.LockByID(ctx, tx, media.ListingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return errListingNotFound
		}
		listingStatus = listing.Status

		// The owner may have removed or another admin decided the item
		// while this transaction waited for the listing lock.
		media, err = s.mr.LockByListing(ctx, tx, listing.ID, mediaID)
		if err != nil {
			return err
		}
		if media == nil {
			return errMediaNotFound
		}

		if media.Status != decision {
			if err := s.mr.UpdateStatus(ctx, tx, media.ID, decision); err != nil {
				return err
			}
		}

		unapproved := 0
		if decision == models.StatusApproved {
			unapproved, err = s.mr.CountNotApproved(ctx, tx, listing.ID)
			if err != nil {
				return err
			}
		}

		next, note, ok := decideTransition(listing.Status, media.Status, decision, unapproved)
		if !ok {
			return nil
		}
		if err := s.transition(ctx, tx, listing.ID, next, note); err != nil {
			return err
		}
		listingStatus = next
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("media decision recorded", "media_id", mediaID, "decision", decision, "listing_status", listingStatus)
	return listingStatus, nil
}

// RemoveMedia deletes an owner's media item and sends the listing back to review.
func (s *moderationService) RemoveMedia(ctx context.Context, ownerID, listingID, mediaID string) error {
	var path string
	err := s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		listing, err := s.lr.LockByID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(listing, ownerID); err != nil {
			return err
		}

		media, err := s.mr.GetByListing(ctx, tx, listingID, mediaID)
		if err != nil {
			return err
		}
		if media == nil {
			return errMediaNotFound
		}
		path = media.Path

		if err := s.mr.Remove(ctx, tx, media.ID); err != nil {
			return err
		}
		return s.transition(ctx, tx, listingID, models.StatusPending, models.NoteMediaRemoved)
	})
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, path); err != nil {
		slog.Error("failed to remove media object", "path", path, "error", err)
	}
	return nil
}

// Reconcile pulls an approved listing down to its worst media status when
// any of its media is no longer approved. It never approves a listing.
func (s *moderationService) Reconcile(ctx context.Context, listingID string) (bool, error) {
	changed := false
	err := s.tm.WithinTx(ctx, func(tx *sql.Tx) error {
		listing, err := s.lr.LockByID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		if listing == nil || listing.Status != models.StatusApproved {
			return nil
		}

		media, err := s.mr.ListByListingID(ctx, tx, listingID)
		if err != nil {
			return err
		}
		worst := worstStatus(media)
		if worst == models.StatusApproved {
			return nil
		}

		changed = true
		return s.transition(ctx, tx, listingID, worst, models.NoteReconciled)
	})
	return changed, err
}

func (s *moderationService) ReviewQueue(ctx context.Context) ([]*transfer.ReviewQueueItem, error) {
	pending, err := s.mr.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*transfer.ReviewQueueItem, 0, len(pending))
	for _, p := range pending {
		url, err := s.storage.SignedURL(ctx, p.Path)
		if err != nil {
			slog.Warn("review preview unavailable", "media_id", p.ID, "error", err)
		}
		items = append(items, &transfer.ReviewQueueItem{
			ID:          p.ID,
			FileName:    p.FileName,
			ContentType: p.ContentType,
			Status:      p.Status,
			URL:         url,
			CreatedAt:   p.CreatedAt,
			Listing: transfer.ReviewListing{
				ID:          p.ListingID,
				Title:       p.ListingTitle,
				City:        p.ListingCity,
				State:       p.ListingState,
				ContactName: p.ListingContactName,
			},
		})
	}
	return items, nil
}

func (s *moderationService) transition(ctx context.Context, tx *sql.Tx, listingID, status, note string) error {
	if err := s.lr.UpdateStatus(ctx, tx, listingID, status); err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	return appendHistory(ctx, tx, s.hr, listingID, status, note)
}

func appendHistory(ctx context.Context, tx *sql.Tx, hr repository.StatusHistoryRepository, listingID, status, note string) error {
	err := hr.Create(ctx, tx, &models.StatusHistory{
		ID:        uuid.NewString(),
		ListingID: listingID,
		Status:    status,
		Note:      note,
	})
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
