/**
 * @description
 * This file defines the shared Store type and the sentinel errors used across
 * the data access layer. Each domain concern (deals, listings, profiles,
 * messages, reports, referrals, support) implements its queries in its own file
 * against the same pgx connection pool.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5/pgxpool: PostgreSQL connection pooling.
 */
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDealNotFound     = errors.New("deal not found")
	ErrListingNotFound  = errors.New("listing not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrReferralNotFound = errors.New("referral not found")
	ErrReportNotFound   = errors.New("report not found")
)

// Store is the PostgreSQL implementation of the data access layer. The tables
// themselves are managed in Supabase; no migrations run here.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}
