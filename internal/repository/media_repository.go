package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/propertyhub-api/internal/models"
)

type MediaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, m *models.ListingMedia) error
	GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.ListingMedia, error)
	GetByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error)
	LockByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error)
	ListByListingID(ctx context.Context, tx *sql.Tx, listingID string) ([]*models.ListingMedia, error)
	ListApprovedByListingID(ctx context.Context, listingID string) ([]*models.ListingMedia, error)
	ListPending(ctx context.Context) ([]*models.PendingMedia, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error
	UpdateCaption(ctx context.Context, listingID, id, caption string) (bool, error)
	UpdateDisplayOrder(ctx context.Context, tx *sql.Tx, listingID, id string, order int) error
	CountNotApproved(ctx context.Context, tx *sql.Tx, listingID string) (int, error)
	MaxDisplayOrder(ctx context.Context, tx *sql.Tx, listingID string) (int, error)
	Remove(ctx context.Context, tx *sql.Tx, id string) error
	RemoveByListingID(ctx context.Context, tx *sql.Tx, listingID string) error
}

type mediaRepository struct {
	db *sql.DB
}

func NewMediaRepository(db *sql.DB) MediaRepository {
	return &mediaRepository{db: db}
}

const mediaColumns = `id, listing_id, file_name, content_type, path, status, caption, display_order, created_at`

func scanMedia(row interface{ Scan(...any) error }) (*models.ListingMedia, error) {
	var m models.ListingMedia
	err := row.Scan(&m.ID, &m.ListingID, &m.FileName, &m.ContentType, &m.Path,
		&m.Status, &m.Caption, &m.DisplayOrder, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepository) Create(ctx context.Context, tx *sql.Tx, m *models.ListingMedia) error {
	query := `
		INSERT INTO listing_media (id, listing_id, file_name, content_type, path, status, caption, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := conn(r.db, tx).QueryRowContext(ctx, query,
		m.ID, m.ListingID, m.FileName, m.ContentType, m.Path, m.Status, m.Caption, m.DisplayOrder,
	).Scan(&m.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.ListingMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM listing_media WHERE id = $1`
	return r.getOne(ctx, tx, query, id)
}

// GetByListing finds a media item only when it belongs to listingID.
func (r *mediaRepository) GetByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM listing_media WHERE id = $1 AND listing_id = $2`
	return r.getOne(ctx, tx, query, id, listingID)
}

// LockByListing is GetByListing holding the row lock until the transaction ends.
func (r *mediaRepository) LockByListing(ctx context.Context, tx *sql.Tx, listingID, id string) (*models.ListingMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM listing_media WHERE id = $1 AND listing_id = $2 FOR UPDATE`
	return r.getOne(ctx, tx, query, id, listingID)
}

func (r *mediaRepository) getOne(ctx context.Context, tx *sql.Tx, query string, args ...any) (*models.ListingMedia, error) {
	m, err := scanMedia(conn(r.db, tx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return m, nil
}

func (r *mediaRepository) list(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]*models.ListingMedia, error) {
	rows, err := conn(r.db, tx).QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	media := []*models.ListingMedia{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *mediaRepository) ListByListingID(ctx context.Context, tx *sql.Tx, listingID string) ([]*models.ListingMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM listing_media WHERE listing_id = $1 ORDER BY display_order, created_at`
	return r.list(ctx, tx, query, listingID)
}

func (r *mediaRepository) ListApprovedByListingID(ctx context.Context, listingID string) ([]*models.ListingMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM listing_media WHERE listing_id = $1 AND status = $2 ORDER BY display_order, created_at`
	return r.list(ctx, nil, query, listingID, models.StatusApproved)
}

func (r *mediaRepository) ListPending(ctx context.Context) ([]*models.PendingMedia, error) {
	query := `
		SELECT m.id, m.listing_id, m.file_name, m.content_type, m.path, m.status, m.caption,
			m.display_order, m.created_at, l.title, l.city, l.state, l.contact_name
		FROM listing_media m
		JOIN listings l ON l.id = m.listing_id
		WHERE m.status = $1
		ORDER BY m.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, models.StatusPending)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	pending := []*models.PendingMedia{}
	for rows.Next() {
		var p models.PendingMedia
		err := rows.Scan(&p.ID, &p.ListingID, &p.FileName, &p.ContentType, &p.Path, &p.Status,
			&p.Caption, &p.DisplayOrder, &p.CreatedAt,
			&p.ListingTitle, &p.ListingCity, &p.ListingState, &p.ListingContactName)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pending = append(pending, &p)
	}
	return pending, rows.Err()
}

func (r *mediaRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error {
	query := `UPDATE listing_media SET status = $1 WHERE id = $2`
	_, err := conn(r.db, tx).ExecContext(ctx, query, status, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// UpdateCaption reports false when no media item matched. Ids are compared
// as text so a malformed one matches nothing instead of failing.
func (r *mediaRepository) UpdateCaption(ctx context.Context, listingID, id, caption string) (bool, error) {
	query := `UPDATE listing_media SET caption = $1 WHERE id::text = $2 AND listing_id = $3`
	res, err := r.db.ExecContext(ctx, query, caption, id, listingID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mediaRepository) UpdateDisplayOrder(ctx context.Context, tx *sql.Tx, listingID, id string, order int) error {
	query := `UPDATE listing_media SET display_order = $1 WHERE id::text = $2 AND listing_id = $3`
	_, err := conn(r.db, tx).ExecContext(ctx, query, order, id, listingID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaRepository) CountNotApproved(ctx context.Context, tx *sql.Tx, listingID string) (int, error) {
	query := `SELECT COUNT(*) FROM listing_media WHERE listing_id = $1 AND status <> $2`
	var count int
	err := conn(r.db, tx).QueryRowContext(ctx, query, listingID, models.StatusApproved).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// MaxDisplayOrder returns -1 when the listing has no media.
func (r *mediaRepository) MaxDisplayOrder(ctx context.Context, tx *sql.Tx, listingID string) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), -1) FROM listing_media WHERE listing_id = $1`
	var max int
	err := conn(r.db, tx).QueryRowContext(ctx, query, listingID).Scan(&max)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return max, nil
}

func (r *mediaRepository) Remove(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM listing_media WHERE id = $1`
	_, err := conn(r.db, tx).ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaRepository) RemoveByListingID(ctx context.Context, tx *sql.Tx, listingID string) error {
	query := `DELETE FROM listing_media WHERE listing_id = $1`
	_, err := conn(r.db, tx).ExecContext(ctx, query, listingID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
