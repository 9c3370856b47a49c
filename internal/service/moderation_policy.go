package service

import "github.com/maheshrc27/propertyhub-api/internal/models"

// decideTransition returns the listing status a media decision leads to.
// Any negative decision pulls the listing down at once, approval needs every
// media item of the listing approved. ok is false when nothing changes.
func decideTransition(listingStatus, previous, decision string, unapproved int) (next, note string, ok bool) {
	switch decision {
	case models.StatusRejected, models.StatusChangesRequested:
		if previous == decision && listingStatus == decision {
			return "", "", false
		}
		return decision, decisionNote(decision), true
	case models.StatusApproved:
		if unapproved == 0 && listingStatus != models.StatusApproved {
			return models.StatusApproved, models.NoteAllMediaApproved, true
		}
	}
	return "", "", false
}

func decisionNote(decision string) string {
	if decision == models.StatusRejected {
		return models.NoteMediaRejected
	}
	return models.NoteChangesRequested
}

var severity = map[string]int{
	models.StatusApproved:         0,
	models.StatusPending:          1,
	models.StatusChangesRequested: 2,
	models.StatusRejected:         3,
}

// worstStatus returns the most severe status among media, approved when all
// of them are approved or there are none.
func worstStatus(media []*models.ListingMedia) string {
	worst := models.StatusApproved
	for _, m := range media {
		if severity[m.Status] > severity[worst] {
			worst = m.Status
		}
	}
	return worst
}
