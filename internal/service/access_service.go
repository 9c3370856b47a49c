package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/propertyhub-api/internal/models"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/transfer"
	"github.com/maheshrc27/propertyhub-api/pkg/utils"
)

type AccessService interface {
	Authenticate(token string) (*transfer.Identity, error)
	RequireAdmin(ctx context.Context, userID string) error
}

type accessService struct {
	pr        repository.ProfileRepository
	jwtSecret string
}

func NewAccessService(pr repository.ProfileRepository, jwtSecret string) AccessService {
	return &accessService{pr: pr, jwtSecret: jwtSecret}
}

// Authenticate resolves a Supabase access token to the caller's identity.
func (s *accessService) Authenticate(token string) (*transfer.Identity, error) {
	if token == "" || s.jwtSecret == "" {
		return nil, errUnauthorized
	}

	claims, err := utils.ValidateToken(s.jwtSecret, token)
	if err != nil {
		return nil, errUnauthorized
	}

	return &transfer.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Phone:  claims.Phone,
	}, nil
}

// RequireAdmin fails with the same error for a missing profile and a non admin role.
func (s *accessService) RequireAdmin(ctx context.Context, userID string) error {
	role, isExist, err := s.pr.GetRole(ctx, userID)
	if err != nil {
		slog.Error("failed to load profile role", "user_id", userID, "error", err)
		return errUnauthorized
	}
	if !isExist || role != models.RoleAdmin {
		return errUnauthorized
	}
	return nil
}

// authorizeOwner applies the owner policy to a listing that may not exist.
func authorizeOwner(listing *models.Listing, userID string) error {
	if listing == nil {
		return errListingNotFound
	}
	if userID == "" || listing.OwnerID != userID {
		return errUnauthorized
	}
	return nil
}

func ownedListing(ctx context.Context, lr repository.ListingRepository, ownerID, listingID string) (*models.Listing, error) {
	listing, err := lr.GetByID(ctx, nil, listingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(listing, ownerID); err != nil {
		return nil, err
	}
	return listing, nil
}
