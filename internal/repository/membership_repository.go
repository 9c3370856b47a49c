package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/propertyhub-api/internal/models"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *models.Membership) error
	ActivateByOrderID(ctx context.Context, orderID string) (bool, error)
}

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (id, profile_id, plan_name, status, razorpay_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, query, m.ID, m.ProfileID, m.PlanName, m.Status, m.RazorpayOrderID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ActivateByOrderID reports whether a membership matched the order.
func (r *membershipRepository) ActivateByOrderID(ctx context.Context, orderID string) (bool, error) {
	query := `UPDATE memberships SET status = $1, updated_at = $2 WHERE razorpay_order_id = $3`
	res, err := r.db.ExecContext(ctx, query, models.MembershipStatusActive, time.Now(), orderID)
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
