package job

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/service"
)

// ReconcileJob finds approved listings that have unapproved media and lets
// the moderation service pull them back down.
type ReconcileJob struct {
	lr repository.ListingRepository
	ms service.ModerationService
}

func NewReconcileJob(lr repository.ListingRepository, ms service.ModerationService) *ReconcileJob {
	return &ReconcileJob{lr: lr, ms: ms}
}

// Run is scheduled by cron. It returns how many listings were corrected.
func (j *ReconcileJob) Run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ids, err := j.lr.ListApprovedWithUnapprovedMedia(ctx)
	if err != nil {
		slog.Info(err.Error())
		return 0
	}
	if len(ids) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	var corrected int64

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, id := range ids {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(listingID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			changed, err := j.ms.Reconcile(ctx, listingID)
			if err != nil {
				slog.Error("failed to reconcile listing", "listing_id", listingID, "error", err)
				return
			}
			if changed {
				atomic.AddInt64(&corrected, 1)
			}
		}(id)
	}

	wg.Wait()

	slog.Info("reconciliation finished", "candidates", len(ids), "corrected", corrected)
	return int(corrected)
}
