package models

import "time"

type Listing struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"owner_id"`
	ListingType  string    `db:"listing_type" json:"listing_type"`
	PropertyType string    `db:"property_type" json:"property_type"`
	Title        string    `db:"title" json:"title"`
	Price        int64     `db:"price" json:"price"`
	Deposit      *int64    `db:"deposit" json:"deposit,omitempty"` // Rent only
	State        string    `db:"state" json:"state"`
	City         string    `db:"city" json:"city"`
	Pincode      string    `db:"pincode" json:"pincode"`
	Address      string    `db:"address" json:"address"`
	Description  string    `db:"description" json:"description"`
	Amenities    string    `db:"amenities" json:"amenities"` // comma joined
	ContactName  string    `db:"contact_name" json:"contact_name"`
	ContactPhone string    `db:"contact_phone" json:"contact_phone"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type ListingSummary struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	City         string    `db:"city" json:"city"`
	State        string    `db:"state" json:"state"`
	Price        int64     `db:"price" json:"price"`
	ListingType  string    `db:"listing_type" json:"listing_type"`
	PropertyType string    `db:"property_type" json:"property_type"`
	Status       string    `db:"status" json:"status"`
	MediaCount   int       `db:"media_count" json:"media_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	ListingTypeBuy  = "Buy"
	ListingTypeRent = "Rent"
)

// Listing and media items share one status vocabulary.
const (
	StatusPending          = "pending"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
	StatusChangesRequested = "changes_requested"
)

// IsMediaDecision reports whether status is a decision an admin may record on a media item.
func IsMediaDecision(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusChangesRequested:
		return true
	}
	return false
}
