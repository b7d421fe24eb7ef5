/**
 * @description
 * Data access for deals and the payment-events ledger.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const dealColumns = `
    id, owner_id, seeker_id, listing_id, status,
    owner_fee_amount, seeker_fee_amount,
    owner_payment_stripe_session_id, seeker_payment_stripe_session_id,
    created_at, updated_at
`

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.SeekerID,
		&d.ListingID,
		&d.Status,
		&d.OwnerFeeAmount,
		&d.SeekerFeeAmount,
		&d.OwnerPaymentStripeSessionID,
		&d.SeekerPaymentStripeSessionID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return &d, nil
}

// CreateDeal inserts a new deal row and returns the stored record.
func (s *Store) CreateDeal(ctx context.Context, ownerID, seekerID, listingID string, status domain.DealStatus, ownerFee, seekerFee float64) (*domain.Deal, error) {
	query := `
        INSERT INTO deals (owner_id, seeker_id, listing_id, status, owner_fee_amount, seeker_fee_amount)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + dealColumns
	return scanDeal(s.db.QueryRow(ctx, query, ownerID, seekerID, listingID, status, ownerFee, seekerFee))
}

// GetDealByID fetches a single deal.
func (s *Store) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	return scanDeal(s.db.QueryRow(ctx, query, dealID))
}

// UpdateDealStatus writes the deal's status. Re-applying the current status is
// a harmless same-state write.
func (s *Store) UpdateDealStatus(ctx context.Context, dealID string, status domain.DealStatus) error {
	tag, err := s.db.Exec(ctx, `UPDATE deals SET status = $1, updated_at = NOW() WHERE id = $2`, status, dealID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}

// SetOwnerPaymentSessionID stores the owner-fee checkout session identifier.
func (s *Store) SetOwnerPaymentSessionID(ctx context.Context, dealID, sessionID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE deals SET owner_payment_stripe_session_id = $1, updated_at = NOW() WHERE id = $2`, sessionID, dealID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}

// SetSeekerPaymentSessionID stores the seeker-fee checkout session identifier.
func (s *Store) SetSeekerPaymentSessionID(ctx context.Context, dealID, sessionID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE deals SET seeker_payment_stripe_session_id = $1, updated_at = NOW() WHERE id = $2`, sessionID, dealID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}

// CountCompletedDealsBySeeker returns the number of completed deals where the
// user was the seeker. Used for badge calculation.
func (s *Store) CountCompletedDealsBySeeker(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM deals WHERE seeker_id = $1 AND status = $2`,
		userID, domain.DealStatusCompleted,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HasDealAsSeeker reports whether the user has any deal as seeker on the
// listing, optionally constrained to a specific owner.
func (s *Store) HasDealAsSeeker(ctx context.Context, listingID, seekerID string, ownerID *string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM deals WHERE listing_id = $1 AND seeker_id = $2)`
	args := []interface{}{listingID, seekerID}
	if ownerID != nil {
		query = `SELECT EXISTS (SELECT 1 FROM deals WHERE listing_id = $1 AND seeker_id = $2 AND owner_id = $3)`
		args = append(args, *ownerID)
	}

	var exists bool
	if err := s.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertPaymentEvent appends a row to the payment-events ledger.
func (s *Store) InsertPaymentEvent(ctx context.Context, row domain.PaymentEvent) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO payment_events (deal_id, fee_type, stripe_session_id, amount, currency, event_type)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		row.DealID, row.FeeType, row.StripeSessionID, row.Amount, row.Currency, row.EventType,
	)
	return err
}
