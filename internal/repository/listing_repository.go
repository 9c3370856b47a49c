package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

type ListingRepository interface {
	Create(ctx context.Context, tx *sql.Tx, l *models.Listing) error
	GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error)
	LockByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error)
	Update(ctx context.Context, tx *sql.Tx, l *models.Listing) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error
	Remove(ctx context.Context, tx *sql.Tx, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.ListingSummary, error)
	ListApproved(ctx context.Context, f *transfer.PublicListingFilter) ([]*models.ListingSummary, error)
	GetApproved(ctx context.Context, id string) (*models.Listing, error)
	SuggestTitles(ctx context.Context, q string, limit int) ([]string, error)
	ListApprovedWithUnapprovedMedia(ctx context.Context) ([]string, error)
}

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, owner_id, listing_type, property_type, title, price, deposit, state, city,
	pincode, address, description, amenities, contact_name, contact_phone, contact_email,
	status, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var l models.Listing
	var deposit sql.NullInt64
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.ListingType, &l.PropertyType, &l.Title, &l.Price, &deposit,
		&l.State, &l.City, &l.Pincode, &l.Address, &l.Description, &l.Amenities,
		&l.ContactName, &l.ContactPhone, &l.ContactEmail, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deposit.Valid {
		l.Deposit = &deposit.Int64
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, tx *sql.Tx, l *models.Listing) error {
	query := `
		INSERT INTO listings (id, owner_id, listing_type, property_type, title, price, deposit, state, city,
			pincode, address, description, amenities, contact_name, contact_phone, contact_email,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	now := time.Now()
	l.CreatedAt, l.UpdatedAt = now, now

	_, err := conn(r.db, tx).ExecContext(ctx, query,
		l.ID, l.OwnerID, l.ListingType, l.PropertyType, l.Title, l.Price, l.Deposit, l.State, l.City,
		l.Pincode, l.Address, l.Description, l.Amenities, l.ContactName, l.ContactPhone, l.ContactEmail,
		l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return r.getOne(ctx, tx, query, id)
}

// LockByID reads the listing row with FOR UPDATE so concurrent decisions on
// its media are serialized. It must run inside a transaction.
func (r *listingRepository) LockByID(ctx context.Context, tx *sql.Tx, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, tx, query, id)
}

func (r *listingRepository) GetApproved(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND status = $2`
	return r.getOne(ctx, nil, query, id, models.StatusApproved)
}

func (r *listingRepository) getOne(ctx context.Context, tx *sql.Tx, query string, args ...any) (*models.Listing, error) {
	l, err := scanListing(conn(r.db, tx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, tx *sql.Tx, l *models.Listing) error {
	query := `
		UPDATE listings
		SET listing_type = $1,
			property_type = $2,
			title = $3,
			price = $4,
			deposit = $5,
			state = $6,
			city = $7,
			pincode = $8,
			address = $9,
			description = $10,
			amenities = $11,
			contact_name = $12,
			contact_phone = $13,
			contact_email = $14,
			status = $15,
			updated_at = $16
		WHERE id = $17
	`
	l.UpdatedAt = time.Now()
	_, err := conn(r.db, tx).ExecContext(ctx, query,
		l.ListingType, l.PropertyType, l.Title, l.Price, l.Deposit, l.State, l.City, l.Pincode,
		l.Address, l.Description, l.Amenities, l.ContactName, l.ContactPhone, l.ContactEmail,
		l.Status, l.UpdatedAt, l.ID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *listingRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id, status string) error {
	query := `UPDATE listings SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := conn(r.db, tx).ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *listingRepository) Remove(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM listings WHERE id = $1`
	_, err := conn(r.db, tx).ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

const summaryColumns = `l.id, l.title, l.city, l.state, l.price, l.listing_type, l.property_type, l.status,
	(SELECT COUNT(*) FROM listing_media m WHERE m.listing_id = l.id) AS media_count, l.created_at`

func scanSummaries(rows *sql.Rows) ([]*models.ListingSummary, error) {
	defer rows.Close()

	summaries := []*models.ListingSummary{}
	for rows.Next() {
		var s models.ListingSummary
		err := rows.Scan(&s.ID, &s.Title, &s.City, &s.State, &s.Price, &s.ListingType,
			&s.PropertyType, &s.Status, &s.MediaCount, &s.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.ListingSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM listings l WHERE l.owner_id = $1 ORDER BY l.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return scanSummaries(rows)
}

func (r *listingRepository) ListApproved(ctx context.Context, f *transfer.PublicListingFilter) ([]*models.ListingSummary, error) {
	qb := &queryBuilder{}
	qb.addCondition("l.status = $%d", models.StatusApproved)
	if f.City != "" {
		qb.addCondition("l.city ILIKE $%d", escapeLike(f.City))
	}
	if f.ListingType != "" {
		qb.addCondition("l.listing_type = $%d", f.ListingType)
	}
	if f.PropertyType != "" {
		qb.addCondition("l.property_type ILIKE $%d", escapeLike(f.PropertyType))
	}
	if f.MinPrice != nil {
		qb.addCondition("l.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		qb.addCondition("l.price <= $%d", *f.MaxPrice)
	}
	if f.Query != "" {
		qb.addCondition("(l.title ILIKE $%[1]d OR l.description ILIKE $%[1]d)", containsPattern(f.Query))
	}

	query := `SELECT ` + summaryColumns + ` FROM listings l` + qb.where() +
		` ORDER BY l.created_at DESC LIMIT ` + qb.nextArg(f.Limit) + ` OFFSET ` + qb.nextArg(f.Offset)

	rows, err := r.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return scanSummaries(rows)
}

func (r *listingRepository) SuggestTitles(ctx context.Context, q string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT title
		FROM listings
		WHERE title ILIKE $1
		ORDER BY title
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, containsPattern(q), limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return scanStrings(rows)
}

// ListApprovedWithUnapprovedMedia returns approved listings that have at
// least one media item whose status is not approved.
func (r *listingRepository) ListApprovedWithUnapprovedMedia(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT l.id
		FROM listings l
		JOIN listing_media m ON m.listing_id = l.id
		WHERE l.status = $1 AND m.status <> $1
	`
	rows, err := r.db.QueryContext(ctx, query, models.StatusApproved)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
