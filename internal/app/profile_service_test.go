package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

type stubProfileRepo struct {
	profiles     map[string]*domain.Profile
	created      []string
	lastFields   map[string]interface{}
	savedBadges  []string
	dealCount    int
	dealCountErr error
	listingCount int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (r *stubProfileRepo) GetProfileByID(_ context.Context, userID string) (*domain.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return profile, nil
}

func (r *stubProfileRepo) CreateProfile(_ context.Context, userID string) (*domain.Profile, error) {
	r.created = append(r.created, userID)
	profile := &domain.Profile{ID: userID, Role: "user"}
	r.profiles[userID] = profile
	return profile, nil
}

func (r *stubProfileRepo) UpdateProfileFields(_ context.Context, userID string, fields map[string]interface{}) (*domain.Profile, error) {
	r.lastFields = fields
	return r.profiles[userID], nil
}

func (r *stubProfileRepo) UpdateProfileBadges(_ context.Context, _ string, badges []string) error {
	r.savedBadges = badges
	return nil
}

func (r *stubProfileRepo) CountCompletedDealsBySeeker(_ context.Context, _ string) (int, error) {
	return r.dealCount, r.dealCountErr
}

func (r *stubProfileRepo) CountListingsByOwner(_ context.Context, _ string) (int, error) {
	return r.listingCount, nil
}

func strPtr(s string) *string { return &s }

func TestGetOwnProfileLazyCreate(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo)

	profile, err := svc.GetOwnProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetOwnProfile returned error: %v", err)
	}
	if profile.ID != "user-1" || profile.Role != "user" {
		t.Fatalf("unexpected lazily created profile: %+v", profile)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}

	// Second call reads the existing row.
	if _, err := svc.GetOwnProfile(context.Background(), "user-1"); err != nil {
		t.Fatalf("second GetOwnProfile returned error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("profile should only be created once, got %d creates", len(repo.created))
	}
}

func TestUpdateOwnProfileOnlyNonNilFields(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["user-1"] = &domain.Profile{ID: "user-1"}
	svc := NewProfileService(repo)

	_, err := svc.UpdateOwnProfile(context.Background(), "user-1", domain.ProfileUpdate{
		Name:    strPtr("Amina"),
		AboutMe: strPtr("New in town"),
	})
	if err != nil {
		t.Fatalf("UpdateOwnProfile returned error: %v", err)
	}
	want := map[string]interface{}{"name": "Amina", "about_me": "New in town"}
	if !reflect.DeepEqual(repo.lastFields, want) {
		t.Fatalf("expected fields %v, got %v", want, repo.lastFields)
	}
}

func TestUpdateOwnProfileEmptyUpdate(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo())
	_, err := svc.UpdateOwnProfile(context.Background(), "user-1", domain.ProfileUpdate{})
	if !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}
}

func TestUpdateOwnProfileIdentityLock(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["user-1"] = &domain.Profile{ID: "user-1", OnboardingCompleted: true}
	svc := NewProfileService(repo)

	for _, field := range []domain.ProfileUpdate{
		{LegalName: strPtr("A. Person")},
		{DateOfBirth: strPtr("1990-01-01")},
		{CountryOfOrigin: strPtr("NZ")},
	} {
		if _, err := svc.UpdateOwnProfile(context.Background(), "user-1", field); !errors.Is(err, ErrProfileFieldLocked) {
			t.Fatalf("expected ErrProfileFieldLocked, got %v", err)
		}
	}

	// Non-identity fields remain editable after onboarding.
	if _, err := svc.UpdateOwnProfile(context.Background(), "user-1", domain.ProfileUpdate{AboutMe: strPtr("hello")}); err != nil {
		t.Fatalf("non-identity update should succeed, got %v", err)
	}
}

func TestUpdateOwnProfileIdentityEditableBeforeOnboarding(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["user-1"] = &domain.Profile{ID: "user-1", OnboardingCompleted: false}
	svc := NewProfileService(repo)

	if _, err := svc.UpdateOwnProfile(context.Background(), "user-1", domain.ProfileUpdate{LegalName: strPtr("A. Person")}); err != nil {
		t.Fatalf("identity fields should be editable before onboarding, got %v", err)
	}
}

func TestGetPublicProfileSubset(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["user-1"] = &domain.Profile{
		ID:        "user-1",
		Name:      strPtr("Amina"),
		LegalName: strPtr("Secret Legal Name"),
		Verified:  true,
	}
	svc := NewProfileService(repo)

	public, err := svc.GetPublicProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetPublicProfile returned error: %v", err)
	}
	if public.Name == nil || *public.Name != "Amina" {
		t.Fatalf("expected public name, got %v", public.Name)
	}
	if !public.Verified {
		t.Fatalf("expected verified flag in public view")
	}
}

func TestRefreshBadges(t *testing.T) {
	tests := []struct {
		name         string
		dealCount    int
		listingCount int
		want         []string
	}{
		{"no activity", 0, 0, []string{}},
		{"first deal", 1, 0, []string{"Purchased 1+ homes"}},
		{"frequent seeker", 6, 0, []string{"Purchased 1+ homes", "Frequent Flyer"}},
		{"globe trotter", 12, 0, []string{"Purchased 1+ homes", "Frequent Flyer", "Globe Trotter"}},
		{"first listing", 0, 1, []string{"Verified host"}},
		{"superhost", 0, 4, []string{"Verified host", "Superhost"}},
		{"mega host", 0, 10, []string{"Verified host", "Superhost", "Mega Host"}},
		{"both sides", 1, 3, []string{"Purchased 1+ homes", "Verified host", "Superhost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubProfileRepo()
			repo.dealCount = tt.dealCount
			repo.listingCount = tt.listingCount
			svc := NewProfileService(repo)

			badges, err := svc.RefreshBadges(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("RefreshBadges returned error: %v", err)
			}
			if !reflect.DeepEqual(badges, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, badges)
			}
			if !reflect.DeepEqual(repo.savedBadges, tt.want) {
				t.Fatalf("expected badges persisted, got %v", repo.savedBadges)
			}
		})
	}
}

func TestRefreshBadgesCountFailureContributesNothing(t *testing.T) {
	repo := newStubProfileRepo()
	repo.dealCountErr = errors.New("db down")
	repo.listingCount = 1
	svc := NewProfileService(repo)

	badges, err := svc.RefreshBadges(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefreshBadges returned error: %v", err)
	}
	if !reflect.DeepEqual(badges, []string{"Verified host"}) {
		t.Fatalf("expected only owner badge, got %v", badges)
	}
}
