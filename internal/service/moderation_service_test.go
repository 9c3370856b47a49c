package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideTransition(t *testing.T) {
	tests := []struct {
		name       string
		listing    string
		previous   string
		decision   string
		unapproved int
		next       string
		note       string
		ok         bool
	}{
		{"last approval publishes", models.StatusPending, models.StatusPending, models.StatusApproved, 0, models.StatusApproved, models.NoteAllMediaApproved, true},
		{"approval with siblings pending", models.StatusPending, models.StatusPending, models.StatusApproved, 1, "", "", false},
		{"re-approval of published listing", models.StatusApproved, models.StatusApproved, models.StatusApproved, 0, "", "", false},
		{"approval after rejection", models.StatusRejected, models.StatusRejected, models.StatusApproved, 0, models.StatusApproved, models.NoteAllMediaApproved, true},
		{"rejection pulls down", models.StatusApproved, models.StatusApproved, models.StatusRejected, 0, models.StatusRejected, models.NoteMediaRejected, true},
		{"changes requested", models.StatusPending, models.StatusPending, models.StatusChangesRequested, 2, models.StatusChangesRequested, models.NoteChangesRequested, true},
		{"repeated rejection", models.StatusRejected, models.StatusRejected, models.StatusRejected, 1, "", "", false},
		{"second media rejected", models.StatusRejected, models.StatusPending, models.StatusRejected, 2, models.StatusRejected, models.NoteMediaRejected, true},
		{"unknown decision", models.StatusPending, models.StatusPending, models.StatusPending, 0, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, note, ok := decideTransition(tt.listing, tt.previous, tt.decision, tt.unapproved)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.note, note)
		})
	}
}

func TestWorstStatus(t *testing.T) {
	media := func(statuses ...string) []*models.ListingMedia {
		out := make([]*models.ListingMedia, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, &models.ListingMedia{Status: s})
		}
		return out
	}

	assert.Equal(t, models.StatusApproved, worstStatus(nil))
	assert.Equal(t, models.StatusApproved, worstStatus(media(models.StatusApproved, models.StatusApproved)))
	assert.Equal(t, models.StatusPending, worstStatus(media(models.StatusApproved, models.StatusPending)))
	assert.Equal(t, models.StatusChangesRequested, worstStatus(media(models.StatusPending, models.StatusChangesRequested)))
	assert.Equal(t, models.StatusRejected, worstStatus(media(models.StatusRejected, models.StatusChangesRequested)))
}

func TestModerationScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("LIST-1", "owner", models.StatusPending)
	f.db.addMedia("M1", "LIST-1", models.StatusPending, 0)
	f.db.addMedia("M2", "LIST-1", models.StatusPending, 1)

	status, err := f.moderation.RecordMediaDecision(ctx, "M1", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	assert.Empty(t, f.db.historyFor("LIST-1"))

	status, err = f.moderation.RecordMediaDecision(ctx, "M2", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
	history := f.db.historyFor("LIST-1")
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusApproved, history[0].Status)
	assert.Equal(t, models.NoteAllMediaApproved, history[0].Note)

	status, err = f.moderation.RecordMediaDecision(ctx, "M1", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, status)
	assert.Equal(t, models.StatusRejected, f.db.listingStatus("LIST-1"))
	assert.Equal(t, models.StatusApproved, f.db.mediaStatus("M2"))

	history = f.db.historyFor("LIST-1")
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusRejected, history[1].Status)
	assert.Equal(t, models.NoteMediaRejected, history[1].Note)
}

func TestRepeatedApprovalIsNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusPending, 0)

	_, err := f.moderation.RecordMediaDecision(ctx, "M1", models.StatusApproved)
	require.NoError(t, err)
	_, err = f.moderation.RecordMediaDecision(ctx, "M1", models.StatusApproved)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, f.db.listingStatus("L"))
	assert.Len(t, f.db.historyFor("L"), 1)
}

func TestRepeatedApprovalWithPendingSiblingAddsNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusPending, 0)
	f.db.addMedia("M2", "L", models.StatusPending, 1)

	for i := 0; i < 2; i++ {
		status, err := f.moderation.RecordMediaDecision(ctx, "M1", models.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, status)
	}
	assert.Empty(t, f.db.historyFor("L"))
}

func TestChangesRequestedOverridesApprovedSiblings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusApproved)
	f.db.addMedia("M1", "L", models.StatusApproved, 0)
	f.db.addMedia("M2", "L", models.StatusApproved, 1)

	status, err := f.moderation.RecordMediaDecision(ctx, "M2", models.StatusChangesRequested)
	require.NoError(t, err)
	assert.Equal(t, models.StatusChangesRequested, status)

	history := f.db.historyFor("L")
	require.Len(t, history, 1)
	assert.Equal(t, models.NoteChangesRequested, history[0].Note)
}

func TestRecordMediaDecisionErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusPending, 0)

	_, err := f.moderation.RecordMediaDecision(ctx, "M1", models.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, models.StatusPending, f.db.mediaStatus("M1"))

	_, err = f.moderation.RecordMediaDecision(ctx, "missing", models.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Media not found.")

	f.tx.fail = errors.New("connection reset")
	_, err = f.moderation.RecordMediaDecision(ctx, "M1", models.StatusApproved)
	assert.EqualError(t, err, "connection reset")
}

func TestRemoveMediaForcesPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusApproved)
	m := f.db.addMedia("M1", "L", models.StatusApproved, 0)
	f.storage.objects[m.Path] = []byte("x")

	require.NoError(t, f.moderation.RemoveMedia(ctx, "owner", "L", "M1"))

	assert.Equal(t, models.StatusPending, f.db.listingStatus("L"))
	assert.Empty(t, f.db.mediaStatus("M1"))
	assert.Equal(t, []string{m.Path}, f.storage.removed)

	history := f.db.historyFor("L")
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].Status)
	assert.Equal(t, models.NoteMediaRemoved, history[0].Note)
}

func TestRemoveMediaAccessChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusApproved)
	f.db.addListing("OTHER", "owner", models.StatusApproved)
	f.db.addMedia("M1", "L", models.StatusApproved, 0)

	err := f.moderation.RemoveMedia(ctx, "intruder", "L", "M1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.moderation.RemoveMedia(ctx, "owner", "missing", "M1")
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.moderation.RemoveMedia(ctx, "owner", "OTHER", "M1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, models.StatusApproved, f.db.mediaStatus("M1"))
	assert.Equal(t, models.StatusApproved, f.db.listingStatus("L"))
	assert.Empty(t, f.db.historyFor("L"))
}

func TestRemoveMediaSurvivesStorageFailure(t *testing.T) {
	f := newFixture()
	f.storage.failRemove = true
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusPending, 0)

	require.NoError(t, f.moderation.RemoveMedia(context.Background(), "owner", "L", "M1"))
	assert.Empty(t, f.db.mediaStatus("M1"))
}

func TestReconcile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("STALE", "owner", models.StatusApproved)
	f.db.addMedia("A", "STALE", models.StatusApproved, 0)
	f.db.addMedia("B", "STALE", models.StatusChangesRequested, 1)
	f.db.addMedia("C", "STALE", models.StatusPending, 2)

	changed, err := f.moderation.Reconcile(ctx, "STALE")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusChangesRequested, f.db.listingStatus("STALE"))

	history := f.db.historyFor("STALE")
	require.Len(t, history, 1)
	assert.Equal(t, models.NoteReconciled, history[0].Note)

	changed, err = f.moderation.Reconcile(ctx, "STALE")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestReconcileNeverApproves(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("RESUBMITTED", "owner", models.StatusPending)
	f.db.addMedia("A", "RESUBMITTED", models.StatusApproved, 0)
	f.db.addListing("CONSISTENT", "owner", models.StatusApproved)
	f.db.addMedia("B", "CONSISTENT", models.StatusApproved, 0)

	for _, id := range []string{"RESUBMITTED", "CONSISTENT", "missing"} {
		changed, err := f.moderation.Reconcile(ctx, id)
		require.NoError(t, err)
		assert.False(t, changed, id)
	}
	assert.Equal(t, models.StatusPending, f.db.listingStatus("RESUBMITTED"))
	assert.Equal(t, models.StatusApproved, f.db.listingStatus("CONSISTENT"))
}

func TestReviewQueue(t *testing.T) {
	f := newFixture()
	f.db.addListing("L", "owner", models.StatusPending)
	first := f.db.addMedia("M1", "L", models.StatusPending, 0)
	f.db.addMedia("M2", "L", models.StatusApproved, 1)
	unsigned := f.db.addMedia("M3", "L", models.StatusPending, 2)
	f.storage.failSign[unsigned.Path] = true

	items, err := f.moderation.ReviewQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "M1", items[0].ID)
	assert.Contains(t, items[0].URL, first.Path)
	assert.Equal(t, "L", items[0].Listing.ID)
	assert.Equal(t, "Listing L", items[0].Listing.Title)
	assert.Equal(t, "M3", items[1].ID)
	assert.Empty(t, items[1].URL)
}

// The aggregate rule holds after any single-threaded sequence of decisions.
func TestApprovedIffAllMediaApproved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	ids := []string{"M1", "M2", "M3"}
	for i, id := range ids {
		f.db.addMedia(id, "L", models.StatusPending, i)
	}

	decisions := []string{models.StatusApproved, models.StatusRejected, models.StatusChangesRequested}
	steps := 0
	for round := 0; round < 4; round++ {
		for i, id := range ids {
			decision := decisions[(i+round)%len(decisions)]
			if round == 3 {
				decision = models.StatusApproved
			}
			_, err := f.moderation.RecordMediaDecision(ctx, id, decision)
			require.NoError(t, err)
			steps++

			allApproved := true
			for _, other := range ids {
				if f.db.mediaStatus(other) != models.StatusApproved {
					allApproved = false
				}
			}
			assert.Equal(t, allApproved, f.db.listingStatus("L") == models.StatusApproved, "step %d", steps)
		}
	}
	assert.Equal(t, models.StatusApproved, f.db.listingStatus("L"))
}

func TestDecisionOnMediaRemovedWhileWaitingForLock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusApproved, 0)
	f.db.addMedia("M2", "L", models.StatusPending, 1)

	racing := &racingListings{fakeListings: f.listings}
	racing.beforeLock = func() {
		require.NoError(t, f.moderation.RemoveMedia(ctx, "owner", "L", "M2"))
	}
	moderation := NewModerationService(f.tx, racing, f.media, f.history, f.storage)

	_, err := moderation.RecordMediaDecision(ctx, "M2", models.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Media not found.")

	assert.Equal(t, models.StatusPending, f.db.listingStatus("L"))
	history := f.db.historyFor("L")
	require.Len(t, history, 1)
	assert.Equal(t, models.NoteMediaRemoved, history[0].Note)
}

func TestConcurrentIdenticalRejectionsRecordOneEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.addListing("L", "owner", models.StatusPending)
	f.db.addMedia("M1", "L", models.StatusPending, 0)
	f.db.addMedia("M2", "L", models.StatusPending, 1)

	racing := &racingListings{fakeListings: f.listings}
	racing.beforeLock = func() {
		_, err := f.moderation.RecordMediaDecision(ctx, "M1", models.StatusRejected)
		require.NoError(t, err)
	}
	moderation := NewModerationService(f.tx, racing, f.media, f.history, f.storage)

	status, err := moderation.RecordMediaDecision(ctx, "M1", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, status)

	history := f.db.historyFor("L")
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusRejected, history[0].Status)
	assert.Equal(t, models.NoteMediaRejected, history[0].Note)
}
