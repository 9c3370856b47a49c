package models

import "time"

type Lead struct {
	ID        string    `db:"id" json:"id"`
	ListingID string    `db:"listing_id" json:"listing_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type LeadListing struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	City  string `json:"city"`
	State string `json:"state"`
}

type LeadWithListing struct {
	Lead
	Listing LeadListing `json:"listings"`
}
