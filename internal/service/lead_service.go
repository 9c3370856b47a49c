package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

var errListingUnavailable = newError(ErrListingUnavailable, "Listing not available.")

var leadCSVHeader = []string{"Lead ID", "Name", "Phone", "Email", "Message", "Listing", "City", "State", "Created At"}

// LeadNotifier fans a stored lead out to the notification channels. It is
// best effort and never fails the intake request.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, n *transfer.LeadNotification)
}

type LeadService interface {
	Submit(ctx context.Context, in *transfer.LeadInput) (*models.Lead, error)
	List(ctx context.Context, f *transfer.LeadFilter) ([]*models.LeadWithListing, error)
	ExportCSV(ctx context.Context, f *transfer.LeadFilter) ([]byte, error)
}

type leadService struct {
	lr       repository.ListingRepository
	leads    repository.LeadRepository
	notifier LeadNotifier
}

func NewLeadService(lr repository.ListingRepository, leads repository.LeadRepository, notifier LeadNotifier) LeadService {
	return &leadService{lr: lr, leads: leads, notifier: notifier}
}

// Submit records an inquiry against an approved listing.
func (s *leadService) Submit(ctx context.Context, in *transfer.LeadInput) (*models.Lead, error) {
	in.ListingID = strings.TrimSpace(in.ListingID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if err := transfer.Validate(in); err != nil {
		return nil, errMissingFields
	}

	listing, err := s.lr.GetApproved(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, errListingUnavailable
	}

	lead := &models.Lead{
		ID:        uuid.NewString(),
		ListingID: listing.ID,
		FullName:  in.FullName,
		Phone:     in.Phone,
		Email:     in.Email,
		Message:   in.Message,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrListingMissing) {
			return nil, errListingUnavailable
		}
		return nil, err
	}

	slog.Info("lead received", "lead_id", lead.ID, "listing_id", listing.ID)

	if s.notifier != nil {
		s.notifier.NotifyLead(ctx, &transfer.LeadNotification{
			ListingID: listing.ID,
			FullName:  lead.FullName,
			Phone:     lead.Phone,
			Email:     lead.Email,
			Message:   lead.Message,
			Listing: &transfer.LeadNotificationListing{
				Title: listing.Title,
				City:  listing.City,
				State: listing.State,
			},
		})
	}

	return lead, nil
}

func (s *leadService) List(ctx context.Context, f *transfer.LeadFilter) ([]*models.LeadWithListing, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.City = strings.TrimSpace(f.City)
	f.Listing = strings.TrimSpace(f.Listing)
	return s.leads.List(ctx, f)
}

func (s *leadService) ExportCSV(ctx context.Context, f *transfer.LeadFilter) ([]byte, error) {
	leads, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writeCSVRow(&buf, leadCSVHeader)
	for _, ld := range leads {
		writeCSVRow(&buf, []string{
			ld.ID,
			ld.FullName,
			ld.Phone,
			ld.Email,
			ld.Message,
			ld.Listing.Title,
			ld.Listing.City,
			ld.Listing.State,
			ld.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return buf.Bytes(), nil
}

// writeCSVRow quotes every cell, doubling embedded quotes.
func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
