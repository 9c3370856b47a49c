package transfer

import (
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/models"
)

// ListingInput carries the owner-editable listing fields from the submission form.
type ListingInput struct {
	ListingType  string `form:"listingType" validate:"omitempty,oneof=Buy Rent"`
	PropertyType string `form:"propertyType"`
	Title        string `form:"title" validate:"required"`
	Price        int64  `form:"price" validate:"gte=0"`
	Deposit      int64  `form:"deposit" validate:"gte=0"`
	State        string `form:"state"`
	City         string `form:"city" validate:"required"`
	Pincode      string `form:"pincode"`
	Address      string `form:"address"`
	Description  string `form:"description"`
	Amenities    string `form:"amenities"`
	ContactName  string `form:"contactName"`
	ContactPhone string `form:"contactPhone" validate:"required"`
	ContactEmail string `form:"contactEmail"`
}

// MediaFile is an uploaded file read into memory.
type MediaFile struct {
	FileName string
	Data     []byte
}

type PublicListingFilter struct {
	Query        string
	City         string
	ListingType  string
	PropertyType string
	MinPrice     *int64
	MaxPrice     *int64
	Limit        int
	Offset       int
}

type MediaView struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type"`
	Status       string `json:"status"`
	Caption      string `json:"caption"`
	DisplayOrder int    `json:"display_order"`
	URL          string `json:"url"`
}

type PublicListing struct {
	Listing *models.Listing `json:"listing"`
	Media   []*MediaView    `json:"media"`
}

type ReviewListing struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	City        string `json:"city"`
	State       string `json:"state"`
	ContactName string `json:"contact_name"`
}

type ReviewQueueItem struct {
	ID          string        `json:"id"`
	FileName    string        `json:"file_name"`
	ContentType string        `json:"content_type"`
	Status      string        `json:"status"`
	URL         string        `json:"url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Listing     ReviewListing `json:"listings"`
}

type ReviewDecision struct {
	MediaID string `json:"mediaId" validate:"required"`
	Status  string `json:"status" validate:"required,oneof=approved changes_requested rejected"`
}

type MediaOrder struct {
	Order []string `json:"order" validate:"dive,required"`
}

type CaptionUpdate struct {
	Caption *string `json:"caption"`
}
