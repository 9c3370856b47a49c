package models

import "time"

type StatusHistory struct {
	ID        string    `db:"id" json:"id"`
	ListingID string    `db:"listing_id" json:"-"`
	Status    string    `db:"status" json:"status"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	NoteListingSubmitted   = "Listing submitted."
	NoteListingResubmitted = "Listing updated and resubmitted."
	NoteMediaRemoved       = "Media removed by owner."
	NoteAllMediaApproved   = "All media approved."
	NoteMediaRejected      = "Media rejected by admin."
	NoteChangesRequested   = "Changes requested on media."
	NoteReconciled         = "Reconciled with media status."
)
