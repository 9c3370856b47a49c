package models

import (
	"strings"
	"time"
)

type ListingMedia struct {
	ID           string    `db:"id" json:"id"`
	ListingID    string    `db:"listing_id" json:"listing_id"`
	FileName     string    `db:"file_name" json:"file_name"`
	ContentType  string    `db:"content_type" json:"content_type"`
	Path         string    `db:"path" json:"-"`
	Status       string    `db:"status" json:"status"`
	Caption      string    `db:"caption" json:"caption"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (m *ListingMedia) IsVideo() bool {
	return strings.HasPrefix(m.ContentType, "video/")
}

// PendingMedia is a review queue row: a pending media item joined with its listing.
type PendingMedia struct {
	ListingMedia
	ListingTitle       string `db:"listing_title"`
	ListingCity        string `db:"listing_city"`
	ListingState       string `db:"listing_state"`
	ListingContactName string `db:"listing_contact_name"`
}
