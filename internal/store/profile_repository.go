/**
 * @description
 * Data access for profiles. Partial updates build their SET clause dynamically
 * so that absent fields are never touched.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const profileColumns = `
    id, role, name, preferred_name, legal_name, date_of_birth, country_of_origin,
    about_me, most_useless_skill, interests, badges, custom_pfp, occupation,
    verified, onboarding_completed, created_at, updated_at
`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Role, &p.Name, &p.PreferredName, &p.LegalName, &p.DateOfBirth, &p.CountryOfOrigin,
		&p.AboutMe, &p.MostUselessSkill, &p.Interests, &p.Badges, &p.CustomPFP, &p.Occupation,
		&p.Verified, &p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetProfileByID fetches a profile row.
func (s *Store) GetProfileByID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(s.db.QueryRow(ctx, query, userID))
}

// CreateProfile inserts the minimal lazily-created profile row. Concurrent
// creation for the same user resolves to the existing row.
func (s *Store) CreateProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
        INSERT INTO profiles (id, role)
        VALUES ($1, 'user')
        ON CONFLICT (id) DO UPDATE SET updated_at = NOW()
        RETURNING ` + profileColumns
	return scanProfile(s.db.QueryRow(ctx, query, userID))
}

// UpdateProfileFields applies the given column/value pairs and returns the
// updated row.
func (s *Store) UpdateProfileFields(ctx context.Context, userID string, fields map[string]interface{}) (*domain.Profile, error) {
	if len(fields) == 0 {
		return s.GetProfileByID(ctx, userID)
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+1)
	for column, value := range fields {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, userID)
	query := fmt.Sprintf(
		"UPDATE profiles SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), profileColumns,
	)
	return scanProfile(s.db.QueryRow(ctx, query, args...))
}

// UpdateProfileBadges replaces the badge list.
func (s *Store) UpdateProfileBadges(ctx context.Context, userID string, badges []string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET badges = $1, updated_at = NOW() WHERE id = $2`, badges, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetProfileVerified flips the verification flag.
func (s *Store) SetProfileVerified(ctx context.Context, userID string, verified bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET verified = $1, updated_at = NOW() WHERE id = $2`, verified, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// IsProfileVerified reports the verified flag; a missing row reads as false.
func (s *Store) IsProfileVerified(ctx context.Context, userID string) (bool, error) {
	var verified bool
	err := s.db.QueryRow(ctx, `SELECT verified FROM profiles WHERE id = $1`, userID).Scan(&verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return verified, nil
}

// ProfileExists reports whether a profile row exists for the user.
func (s *Store) ProfileExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetProfileRole returns the user's role, e.g. "user" or "admin".
func (s *Store) GetProfileRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.db.QueryRow(ctx, `SELECT role FROM profiles WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return role, nil
}

// GetThreadDisplayInfo returns the display name and avatar for a thread
// participant; both may be nil when the profile is missing or sparse.
func (s *Store) GetThreadDisplayInfo(ctx context.Context, userID string) (name, pfp *string, err error) {
	err = s.db.QueryRow(ctx,
		`SELECT name, custom_pfp FROM profiles WHERE id = $1`, userID).Scan(&name, &pfp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return name, pfp, nil
}
