package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

type ProfileRepository interface {
	GetRole(ctx context.Context, userID string) (string, bool, error)
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetRole reports false when the user has no profile row.
func (r *profileRepository) GetRole(ctx context.Context, userID string) (string, bool, error) {
	var role string
	query := `SELECT role FROM profiles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return "", false, nil
		}
		slog.Info(err.Error())
		return "", false, err
	}
	return role, true, nil
}
