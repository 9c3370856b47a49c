package transfer

import "time"

type LeadInput struct {
	ListingID string `validate:"required"`
	FullName  string `form:"fullName" validate:"required"`
	Phone     string `form:"phone" validate:"required"`
	Email     string `form:"email"`
	Message   string `form:"message" validate:"required"`
}

type LeadFilter struct {
	Query   string
	City    string
	Listing string
	From    *time.Time
	To      *time.Time
}

type LeadNotificationListing struct {
	Title string `json:"title"`
	City  string `json:"city"`
	State string `json:"state"`
}

// LeadNotification is the body fanned out to the configured notification channels.
type LeadNotification struct {
	ListingID string                   `json:"listingId"`
	FullName  string                   `json:"fullName"`
	Phone     string                   `json:"phone"`
	Email     string                   `json:"email"`
	Message   string                   `json:"message"`
	Listing   *LeadNotificationListing `json:"listing"`
}
