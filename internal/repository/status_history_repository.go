package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/models"
)

type StatusHistoryRepository interface {
	Create(ctx context.Context, tx *sql.Tx, h *models.StatusHistory) error
	ListByListingID(ctx context.Context, listingID string) ([]*models.StatusHistory, error)
}

type statusHistoryRepository struct {
	db *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) Create(ctx context.Context, tx *sql.Tx, h *models.StatusHistory) error {
	query := `
		INSERT INTO listing_status_history (id, listing_id, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	_, err := conn(r.db, tx).ExecContext(ctx, query, h.ID, h.ListingID, h.Status, h.Note, h.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ListByListingID returns the timeline newest first.
func (r *statusHistoryRepository) ListByListingID(ctx context.Context, listingID string) ([]*models.StatusHistory, error) {
	query := `
		SELECT id, listing_id, status, note, created_at
		FROM listing_status_history
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	history := []*models.StatusHistory{}
	for rows.Next() {
		var h models.StatusHistory
		if err := rows.Scan(&h.ID, &h.ListingID, &h.Status, &h.Note, &h.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}
