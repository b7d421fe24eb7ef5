/**
 * @description
 * Business logic for listings and match scoring. City derivation maps the
 * Australian postcode ranges this marketplace launched with; everything else
 * is validation plus pass-through to the store.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

// ErrValidation marks deterministic input validation failures.
var ErrValidation = errors.New("validation failed")

// ErrNotListingOwnerType rejects listing creation by seeker-typed users.
var ErrNotListingOwnerType = errors.New("only owners can create listings")

// ListingRepository defines the database operations the listing service needs.
type ListingRepository interface {
	CreateListing(ctx context.Context, ownerID string, city *string, req domain.CreateListingRequest) (*domain.Listing, error)
	ListListings(ctx context.Context, filter domain.ListingFilter, limit int) ([]domain.Listing, error)
}

// ListingService provides listing creation, filtering, and match scoring.
type ListingService struct {
	repo ListingRepository
}

// NewListingService creates a new listing service.
func NewListingService(repo ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// DeriveCity maps a postcode to a launch city. Postcodes outside the known
// ranges leave the city unset.
func DeriveCity(postcode int) *string {
	var city string
	switch {
	case postcode >= 1000 && postcode <= 2999:
		city = "Sydney"
	case postcode >= 5000 && postcode <= 5999:
		city = "Adelaide"
	default:
		return nil
	}
	return &city
}

func validateListing(req domain.CreateListingRequest) error {
	if len(req.Address) < 5 || len(req.Address) > 300 {
		return fmt.Errorf("%w: address must be between 5 and 300 characters", ErrValidation)
	}
	if req.Postcode < 800 || req.Postcode > 9999 {
		return fmt.Errorf("%w: postcode must be between 800 and 9999", ErrValidation)
	}
	if req.WeeklyPrice <= 0 || req.WeeklyPrice > 50000 {
		return fmt.Errorf("%w: weekly_price must be positive and at most 50000", ErrValidation)
	}
	if len(req.Description) < 10 || len(req.Description) > 5000 {
		return fmt.Errorf("%w: description must be between 10 and 5000 characters", ErrValidation)
	}
	if len(req.Images) > 20 {
		return fmt.Errorf("%w: at most 20 images allowed", ErrValidation)
	}
	return nil
}

// CreateListing validates and stores a listing for the caller. Owner-typed
// users and users without a type (OAuth signups) may create listings;
// seeker-typed users may not.
func (s *ListingService) CreateListing(ctx context.Context, caller domain.AuthUser, req domain.CreateListingRequest) (*domain.Listing, error) {
	if caller.UserType != "" && caller.UserType != domain.UserTypeOwner {
		return nil, ErrNotListingOwnerType
	}
	if err := validateListing(req); err != nil {
		return nil, err
	}

	city := req.City
	if city == nil || *city == "" {
		city = DeriveCity(req.Postcode)
	}

	return s.repo.CreateListing(ctx, caller.ID, city, req)
}

// ListListings returns listings matching the filter.
func (s *ListingService) ListListings(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	return s.repo.ListListings(ctx, filter, 0)
}

// GetMatches returns up to ten listings in the seeker's derived city, each
// with a placeholder score, sorted by score descending. The scoring is
// explicitly not a ranking algorithm yet.
func (s *ListingService) GetMatches(ctx context.Context, postcode int) ([]domain.Match, error) {
	filter := domain.ListingFilter{City: DeriveCity(postcode)}
	listings, err := s.repo.ListListings(ctx, filter, 10)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(listings))
	for _, l := range listings {
		matches = append(matches, domain.Match{Listing: l, Score: rand.Intn(101)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}
