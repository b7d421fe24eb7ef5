/**
 * @description
 * Business logic for profiles: lazy creation, partial updates with the
 * post-onboarding field lock, the public profile view, and badge calculation.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

// ErrProfileFieldLocked rejects changes to identity-sensitive fields after
// onboarding has been completed.
var ErrProfileFieldLocked = errors.New("identity fields are locked after onboarding")

// ErrNoFieldsToUpdate rejects empty partial updates.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// ProfileRepository defines the database operations the profile service needs.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, userID string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfileFields(ctx context.Context, userID string, fields map[string]interface{}) (*domain.Profile, error)
	UpdateProfileBadges(ctx context.Context, userID string, badges []string) error
	CountCompletedDealsBySeeker(ctx context.Context, userID string) (int, error)
	CountListingsByOwner(ctx context.Context, ownerID string) (int, error)
}

// ProfileService provides profile management.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetOwnProfile returns the caller's profile, creating the row on first
// access.
func (s *ProfileService) GetOwnProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		log.Printf("level=info component=profiles msg=\"lazily creating profile\" user_id=%s", userID)
		return s.repo.CreateProfile(ctx, userID)
	}
	return profile, err
}

// lockedProfileFields cannot change once onboarding_completed is set.
var lockedProfileFields = map[string]bool{
	"legal_name":        true,
	"date_of_birth":     true,
	"country_of_origin": true,
}

// UpdateOwnProfile applies the non-nil fields of the update to the caller's
// profile, creating the row first if needed. Identity fields are immutable
// once the onboarding lock is set.
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	fields := map[string]interface{}{}
	set := func(column string, p *string) {
		if p != nil {
			fields[column] = *p
		}
	}
	set("name", update.Name)
	set("preferred_name", update.PreferredName)
	set("legal_name", update.LegalName)
	set("date_of_birth", update.DateOfBirth)
	set("country_of_origin", update.CountryOfOrigin)
	set("about_me", update.AboutMe)
	set("most_useless_skill", update.MostUselessSkill)
	set("custom_pfp", update.CustomPFP)
	set("occupation", update.Occupation)
	if update.Interests != nil {
		fields["interests"] = update.Interests
	}
	if update.OnboardingCompleted != nil {
		fields["onboarding_completed"] = *update.OnboardingCompleted
	}

	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	profile, err := s.GetOwnProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.OnboardingCompleted {
		for column := range fields {
			if lockedProfileFields[column] {
				return nil, fmt.Errorf("%w: %s", ErrProfileFieldLocked, column)
			}
		}
	}

	return s.repo.UpdateProfileFields(ctx, userID, fields)
}

// GetPublicProfile returns the limited public view of a profile.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.PublicProfile{
		ID:               profile.ID,
		Name:             profile.Name,
		PreferredName:    profile.PreferredName,
		AboutMe:          profile.AboutMe,
		MostUselessSkill: profile.MostUselessSkill,
		Interests:        profile.Interests,
		Badges:           profile.Badges,
		CustomPFP:        profile.CustomPFP,
		Occupation:       profile.Occupation,
		Verified:         profile.Verified,
	}, nil
}

// seekerBadges and ownerBadges map activity thresholds to badge labels, in
// ascending order.
var seekerBadges = []struct {
	threshold int
	label     string
}{
	{1, "Purchased 1+ homes"},
	{5, "Frequent Flyer"},
	{10, "Globe Trotter"},
}

var ownerBadges = []struct {
	threshold int
	label     string
}{
	{1, "Verified host"},
	{3, "Superhost"},
	{10, "Mega Host"},
}

// RefreshBadges recomputes the caller's badges from completed deals and
// published listings, persists, and returns the new list. A failing count
// simply contributes no badges.
func (s *ProfileService) RefreshBadges(ctx context.Context, userID string) ([]string, error) {
	badges := []string{}

	dealCount, err := s.repo.CountCompletedDealsBySeeker(ctx, userID)
	if err != nil {
		log.Printf("level=warn component=profiles msg=\"seeker badge count failed\" user_id=%s err=%v", userID, err)
		dealCount = 0
	}
	for _, b := range seekerBadges {
		if dealCount >= b.threshold {
			badges = append(badges, b.label)
		}
	}

	listingCount, err := s.repo.CountListingsByOwner(ctx, userID)
	if err != nil {
		log.Printf("level=warn component=profiles msg=\"owner badge count failed\" user_id=%s err=%v", userID, err)
		listingCount = 0
	}
	for _, b := range ownerBadges {
		if listingCount >= b.threshold {
			badges = append(badges, b.label)
		}
	}

	if err := s.repo.UpdateProfileBadges(ctx, userID, badges); err != nil {
		return nil, err
	}
	return badges, nil
}
