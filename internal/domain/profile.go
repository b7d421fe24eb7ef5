/**
 * @description
 * Domain models for user profiles. A profile row is created lazily the first
 * time an authenticated user touches the profile surface. Identity-sensitive
 * fields are locked once the onboarding_completed flag is set.
 */
package domain

import "time"

// Profile represents a profile row. Every authenticated user that has performed
// a mutating action has one.
type Profile struct {
	ID                  string    `json:"id"`
	Role                string    `json:"role"`
	Name                *string   `json:"name"`
	PreferredName       *string   `json:"preferred_name"`
	LegalName           *string   `json:"legal_name"`
	DateOfBirth         *string   `json:"date_of_birth"`
	CountryOfOrigin     *string   `json:"country_of_origin"`
	AboutMe             *string   `json:"about_me"`
	MostUselessSkill    *string   `json:"most_useless_skill"`
	Interests           []string  `json:"interests"`
	Badges              []string  `json:"badges"`
	CustomPFP           *string   `json:"custom_pfp"`
	Occupation          *string   `json:"occupation"`
	Verified            bool      `json:"verified"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial update; only non-nil fields are applied.
type ProfileUpdate struct {
	Name                *string  `json:"name"`
	PreferredName       *string  `json:"preferred_name"`
	LegalName           *string  `json:"legal_name"`
	DateOfBirth         *string  `json:"date_of_birth"`
	CountryOfOrigin     *string  `json:"country_of_origin"`
	AboutMe             *string  `json:"about_me"`
	MostUselessSkill    *string  `json:"most_useless_skill"`
	Interests           []string `json:"interests"`
	CustomPFP           *string  `json:"custom_pfp"`
	Occupation          *string  `json:"occupation"`
	OnboardingCompleted *bool    `json:"onboarding_completed"`
}

// PublicProfile is the subset of profile fields visible to other users.
type PublicProfile struct {
	ID               string   `json:"id"`
	Name             *string  `json:"name"`
	PreferredName    *string  `json:"preferred_name"`
	AboutMe          *string  `json:"about_me"`
	MostUselessSkill *string  `json:"most_useless_skill"`
	Interests        []string `json:"interests"`
	Badges           []string `json:"badges"`
	CustomPFP        *string  `json:"custom_pfp"`
	Occupation       *string  `json:"occupation"`
	Verified         bool     `json:"verified"`
}
