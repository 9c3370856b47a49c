package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
)

var ErrListingMissing = errors.New("listing does not exist")

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	List(ctx context.Context, f *transfer.LeadFilter) ([]*models.LeadWithListing, error)
}

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO listing_leads (id, listing_id, full_name, phone, email, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		lead.ID, lead.ListingID, lead.FullName, lead.Phone, lead.Email, lead.Message,
	).Scan(&lead.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrListingMissing
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

// List returns leads newest first, joined with their listing.
func (r *leadRepository) List(ctx context.Context, f *transfer.LeadFilter) ([]*models.LeadWithListing, error) {
	qb := &queryBuilder{}
	if f.Query != "" {
		qb.addCondition("ld.search_vector @@ websearch_to_tsquery('simple', $%d)", f.Query)
	}
	if f.City != "" {
		qb.addCondition("l.city ILIKE $%d", containsPattern(f.City))
	}
	if f.Listing != "" {
		qb.addCondition("l.title ILIKE $%d", containsPattern(f.Listing))
	}
	if f.From != nil {
		qb.addCondition("ld.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		qb.addCondition("ld.created_at <= $%d", *f.To)
	}

	query := `
		SELECT ld.id, ld.listing_id, ld.full_name, ld.phone, ld.email, ld.message, ld.created_at,
			l.id, l.title, l.city, l.state
		FROM listing_leads ld
		JOIN listings l ON l.id = ld.listing_id` + qb.where() + `
		ORDER BY ld.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	leads := []*models.LeadWithListing{}
	for rows.Next() {
		var ld models.LeadWithListing
		err := rows.Scan(&ld.ID, &ld.ListingID, &ld.FullName, &ld.Phone, &ld.Email, &ld.Message, &ld.CreatedAt,
			&ld.Listing.ID, &ld.Listing.Title, &ld.Listing.City, &ld.Listing.State)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		leads = append(leads, &ld)
	}
	return leads, rows.Err()
}
