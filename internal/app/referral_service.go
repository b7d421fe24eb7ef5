/**
 * @description
 * Business logic for referral codes.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

var (
	ErrOwnReferralCode      = errors.New("cannot use your own referral code")
	ErrReferralCodeConsumed = errors.New("referral code already used")
)

// ReferralRepository defines the database operations the referral service
// needs.
type ReferralRepository interface {
	GetPendingReferralByReferrer(ctx context.Context, referrerID string) (*domain.Referral, error)
	CreateReferral(ctx context.Context, referrerID, code string) (*domain.Referral, error)
	GetReferralByCode(ctx context.Context, code string) (*domain.Referral, error)
	MarkReferralUsed(ctx context.Context, referralID, referredUserID string) error
	ListReferralsByReferrer(ctx context.Context, referrerID string) ([]domain.Referral, error)
}

// ReferralService provides referral code generation and redemption.
type ReferralService struct {
	repo ReferralRepository
}

// NewReferralService creates a new referral service.
func NewReferralService(repo ReferralRepository) *ReferralService {
	return &ReferralService{repo: repo}
}

// GenerateCode returns the caller's existing pending code or mints a new one.
func (s *ReferralService) GenerateCode(ctx context.Context, userID string) (string, error) {
	existing, err := s.repo.GetPendingReferralByReferrer(ctx, userID)
	if err == nil {
		return existing.ReferralCode, nil
	}
	if !errors.Is(err, store.ErrReferralNotFound) {
		return "", err
	}

	code := fmt.Sprintf("MIGRENT-%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]))
	referral, err := s.repo.CreateReferral(ctx, userID, code)
	if err != nil {
		return "", err
	}
	return referral.ReferralCode, nil
}

// UseCode redeems a referral code for the caller. Codes are single-use and
// cannot be redeemed by their own referrer.
func (s *ReferralService) UseCode(ctx context.Context, userID, code string) error {
	referral, err := s.repo.GetReferralByCode(ctx, code)
	if err != nil {
		return err
	}
	if referral.ReferrerID == userID {
		return ErrOwnReferralCode
	}
	if referral.Status != domain.ReferralStatusPending {
		return ErrReferralCodeConsumed
	}
	return s.repo.MarkReferralUsed(ctx, referral.ID, userID)
}

// ListOwn returns every code the caller has generated.
func (s *ReferralService) ListOwn(ctx context.Context, userID string) ([]domain.Referral, error) {
	referrals, err := s.repo.ListReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if referrals == nil {
		referrals = []domain.Referral{}
	}
	return referrals, nil
}
